package document

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/entity"
)

// A4 in points, used when a source page carries no usable media box.
const (
	defaultPageWidth  = 595.28
	defaultPageHeight = 841.89
)

// Splitter cuts a source document into contiguous page-range sub-documents.
type Splitter struct {
	logger *slog.Logger
}

func NewSplitter(logger *slog.Logger) *Splitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Splitter{logger: logger}
}

type pageRange struct {
	start, end int // [start, end), 0-based
}

// planChunks computes the page ranges for a split: ceil-division pages per
// chunk, walking until pages run out or chunkCount ranges are emitted. The
// ranges partition [0, totalPages) with no gaps or overlaps; the final range
// may be short, and trailing requested chunks are absent rather than empty.
func planChunks(totalPages, chunkCount int) []pageRange {
	perChunk := (totalPages + chunkCount - 1) / chunkCount
	if perChunk < 1 {
		perChunk = 1
	}

	var ranges []pageRange
	start := 0
	for start < totalPages && len(ranges) < chunkCount {
		end := start + perChunk
		if end > totalPages {
			end = totalPages
		}
		ranges = append(ranges, pageRange{start: start, end: end})
		start = end
	}
	return ranges
}

// Split produces chunkCount (or fewer) sub-documents covering every page of
// doc exactly once, in page order, with 1-based contiguous indices.
func (s *Splitter) Split(doc *SourceDocument, chunkCount int) ([]entity.Chunk, error) {
	if doc == nil || doc.PageCount < 1 {
		return nil, common.DocumentErrorf("cannot split empty document")
	}
	if chunkCount < 1 {
		return nil, common.NewAppError("SPLIT_ERROR", fmt.Sprintf("chunk count must be >= 1, got %d", chunkCount), common.ErrInvalidInput)
	}

	ranges := planChunks(doc.PageCount, chunkCount)
	s.logger.Info("document.split.start",
		"name", doc.Name, "pages", doc.PageCount,
		"requested_chunks", chunkCount, "planned_chunks", len(ranges),
	)

	base := strings.TrimSuffix(doc.Name, ".pdf")
	chunks := make([]entity.Chunk, 0, len(ranges))
	for i, r := range ranges {
		data, err := extractPageRange(doc.Bytes(), r.start, r.end)
		if err != nil {
			return nil, common.DocumentError(fmt.Sprintf("materialize chunk %d (pages %d-%d)", i+1, r.start+1, r.end), err)
		}
		chunk := entity.Chunk{
			Index:     i + 1,
			StartPage: r.start,
			EndPage:   r.end,
			Name:      fmt.Sprintf("%s_chunk_%d.pdf", base, i+1),
			Data:      data,
		}
		s.logger.Info("document.split.chunk",
			"chunk", chunk.Index, "page_start", r.start+1, "page_end", r.end, "bytes", len(data),
		)
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// extractPageRange imports pages [start, end) of src into a fresh PDF and
// returns its bytes. Pages are 0-based here; gofpdi counts from 1.
func extractPageRange(src []byte, start, end int) (_ []byte, err error) {
	// gofpdi panics on malformed input rather than returning errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import pages: %v", r)
		}
	}()

	out := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(src))

	for page := start + 1; page <= end; page++ {
		tpl := importer.ImportPageFromStream(out, &rs, page, "/MediaBox")

		w, h := defaultPageWidth, defaultPageHeight
		if box, ok := importer.GetPageSizes()[page]["/MediaBox"]; ok && box["w"] > 0 && box["h"] > 0 {
			w, h = box["w"], box["h"]
		}

		out.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		importer.UseImportedTemplate(out, tpl, 0, 0, w, 0)
	}

	var buf bytes.Buffer
	if err := out.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

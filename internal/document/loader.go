package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
)

// SourceDocument is an immutable handle on a loaded PDF: its raw bytes plus
// the page count. Created once per pipeline run.
type SourceDocument struct {
	Name      string
	PageCount int
	data      []byte
}

// Bytes returns the raw document content.
func (d *SourceDocument) Bytes() []byte {
	return d.data
}

// Loader materializes a source document from a path or identifier.
type Loader interface {
	Load(path string) (*SourceDocument, error)
}

// FSLoader reads PDFs from the local filesystem.
type FSLoader struct {
	logger *slog.Logger
}

func NewFSLoader(logger *slog.Logger) *FSLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSLoader{logger: logger}
}

func (l *FSLoader) Load(path string) (*SourceDocument, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return nil, common.DocumentErrorf("unsupported extension %q for %s", ext, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.DocumentError(fmt.Sprintf("read %s", path), err)
	}

	doc, err := FromBytes(filepath.Base(path), data)
	if err != nil {
		return nil, err
	}
	l.logger.Info("document.loaded", "path", path, "pages", doc.PageCount, "bytes", len(data))
	return doc, nil
}

// FromBytes builds a SourceDocument from in-memory PDF content.
func FromBytes(name string, data []byte) (*SourceDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, common.DocumentError(fmt.Sprintf("open pdf %s", name), err)
	}
	pages := reader.NumPage()
	if pages < 1 {
		return nil, common.DocumentErrorf("pdf %s has zero pages", name)
	}
	return &SourceDocument{Name: name, PageCount: pages, data: data}, nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/document"
	"github.com/statementai/statement-parser/internal/entity"
	"github.com/statementai/statement-parser/internal/extract"
	"github.com/statementai/statement-parser/internal/llm"
	"github.com/statementai/statement-parser/internal/merge"
)

// Orchestrator drives a full statement run: split the document into chunks,
// process each chunk through the model backend (parse then categorize),
// extract personal info from the first chunk, merge, and optionally
// summarize. One Orchestrator serves many runs; per-run state lives on the
// stack of Run.
type Orchestrator struct {
	logger     *slog.Logger
	cfg        common.PipelineConfig
	gateway    *llm.Gateway
	splitter   *document.Splitter
	normalizer *extract.Normalizer
	reconciler *merge.Reconciler
	prompts    llm.Catalog
}

func NewOrchestrator(cfg common.PipelineConfig, gateway *llm.Gateway, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ChunkCount < 1 {
		cfg.ChunkCount = 3
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 6
	}
	return &Orchestrator{
		logger:     logger,
		cfg:        cfg,
		gateway:    gateway,
		splitter:   document.NewSplitter(logger),
		normalizer: extract.NewNormalizer(logger, cfg.BalanceSign),
		reconciler: merge.NewReconciler(logger),
		prompts:    llm.DefaultCatalog(),
	}
}

// SetPrompts replaces the stock prompt catalog, for callers that tune
// wording per bank or per model.
func (o *Orchestrator) SetPrompts(c llm.Catalog) { o.prompts = c }

// Run executes the full pipeline for one source document.
//
// Chunk failures are isolated: a chunk that cannot be processed contributes
// zero records and the run continues. The first chunk is the exception —
// personal info comes from it, so its upload, activation, or timeout
// failures abort the run.
func (o *Orchestrator) Run(ctx context.Context, doc *document.SourceDocument) (entity.StatementResult, error) {
	rid := uuid.New().String()
	ctx = common.WithRunID(ctx, rid)

	o.logger.Info("pipeline.run.start",
		"run_id", rid, "document", doc.Name, "pages", doc.PageCount,
		"chunk_count", o.cfg.ChunkCount, "concurrency", o.cfg.Concurrency,
	)

	chunks, err := o.splitter.Split(doc, o.cfg.ChunkCount)
	if err != nil {
		return entity.StatementResult{}, err
	}

	perChunk := make([][]entity.TransactionRecord, len(chunks))
	var personal entity.PersonalInfo

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			cctx := common.WithChunkIndex(gctx, chunk.Index)

			records, info, err := o.processChunk(cctx, chunk, i == 0)
			if err != nil {
				if i == 0 && fatalForFirstChunk(err) {
					o.logger.Error("pipeline.chunk.fatal", "run_id", rid, "chunk", chunk.Index, "error", err)
					return err
				}
				o.logger.Warn("pipeline.chunk.skipped", "run_id", rid, "chunk", chunk.Index, "error", err)
				return nil
			}
			perChunk[i] = records
			if i == 0 {
				personal = info
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.StatementResult{}, err
	}

	result, err := o.reconciler.Merge(perChunk, personal)
	if err != nil {
		return entity.StatementResult{}, err
	}

	if o.cfg.Summarize {
		result.Summary = o.summarize(ctx, result)
	}

	o.logger.Info("pipeline.run.done",
		"run_id", rid, "transactions", len(result.Transactions),
		"personal_info", !result.PersonalInfo.Empty(), "summary", result.Summary != nil,
	)
	return result, nil
}

// fatalForFirstChunk reports whether an error class aborts the run when it
// hits the first chunk. Extraction and categorization problems never do;
// they degrade to zero records like any other chunk.
func fatalForFirstChunk(err error) bool {
	return errors.Is(err, common.ErrUpload) ||
		errors.Is(err, common.ErrAssetProcessing) ||
		errors.Is(err, common.ErrTimeout)
}

// processChunk runs one chunk end to end: upload, wait for activation,
// statement parse, categorize. When first is set it also extracts the
// personal-info block, best effort.
func (o *Orchestrator) processChunk(ctx context.Context, chunk entity.Chunk, first bool) ([]entity.TransactionRecord, entity.PersonalInfo, error) {
	var personal entity.PersonalInfo

	asset, err := o.gateway.Upload(ctx, chunk)
	if err != nil {
		return nil, personal, err
	}
	asset, err = o.gateway.AwaitReady(ctx, asset)
	if err != nil {
		return nil, personal, err
	}

	resp, err := o.gateway.Generate(ctx, llm.StageStatementParse, chunk.Index, llm.GenerateRequest{
		Prompt: o.prompts.StatementParse,
		Asset:  &asset,
	})
	if err != nil {
		return nil, personal, err
	}
	o.exportRaw(ctx, llm.StageStatementParse, chunk.Index, resp.Text)

	tabular := extract.ExtractTabular(resp.Text)
	records := o.normalizer.ParseRecords(tabular)
	o.logger.Info("pipeline.chunk.parsed", "chunk", chunk.Index, "records", len(records))

	if len(records) > 0 {
		records = o.categorize(ctx, chunk.Index, records)
	}
	if first {
		personal = o.personalInfo(ctx, asset, chunk.Index)
	}
	return records, personal, nil
}

// categorize re-submits a chunk's records as tabular text and re-parses the
// response. A failed round-trip keeps the uncategorized records.
func (o *Orchestrator) categorize(ctx context.Context, chunkIndex int, records []entity.TransactionRecord) []entity.TransactionRecord {
	stripped := make([]entity.TransactionRecord, len(records))
	for i, rec := range records {
		stripped[i] = rec.WithoutCategory()
	}

	resp, err := o.gateway.Generate(ctx, llm.StageCategorize, chunkIndex, llm.GenerateRequest{
		Prompt: o.prompts.Categorize,
		Text:   extract.RenderCSV(stripped, false),
	})
	if err != nil {
		o.logger.Warn("pipeline.categorize.failed", "chunk", chunkIndex, "error", err)
		return records
	}
	o.exportRaw(ctx, llm.StageCategorize, chunkIndex, resp.Text)

	categorized := o.normalizer.ParseRecords(extract.ExtractTabular(resp.Text))
	if len(categorized) == 0 {
		o.logger.Warn("pipeline.categorize.unusable_response", "chunk", chunkIndex, "records_kept", len(records))
		return records
	}

	for i, rec := range categorized {
		cat, ok := constants.Canonicalize(rec.Category)
		if !ok && rec.Category != "" {
			o.logger.Debug("pipeline.categorize.unknown_label", "chunk", chunkIndex, "label", rec.Category)
		}
		categorized[i].Category = string(cat)
	}
	return categorized
}

// personalInfo runs the dedicated prompt against the first chunk's asset.
// Failure degrades to an empty PersonalInfo; it never aborts the run.
func (o *Orchestrator) personalInfo(ctx context.Context, asset llm.UploadedAsset, chunkIndex int) entity.PersonalInfo {
	resp, err := o.gateway.Generate(ctx, llm.StagePersonalInfo, chunkIndex, llm.GenerateRequest{
		Prompt: o.prompts.PersonalInfo,
		Asset:  &asset,
	})
	if err != nil {
		o.logger.Warn("pipeline.personal_info.failed", "error", err)
		return entity.PersonalInfo{}
	}
	o.exportRaw(ctx, llm.StagePersonalInfo, chunkIndex, resp.Text)

	info, err := llm.ParsePersonalInfo(resp.Text, o.logger)
	if err != nil {
		o.logger.Warn("pipeline.personal_info.unparseable", "error", err)
		return entity.PersonalInfo{}
	}
	return info
}

// summarize submits the merged result to the summary prompt. Best effort:
// any failure returns nil and the result ships without a summary.
func (o *Orchestrator) summarize(ctx context.Context, result entity.StatementResult) *entity.Summary {
	personalJSON, err := json.Marshal(result.PersonalInfo)
	if err != nil {
		personalJSON = []byte("{}")
	}
	payload := llm.SummaryPayload(string(personalJSON), extract.RenderCSV(result.Transactions, true))

	resp, err := o.gateway.Generate(ctx, llm.StageSummary, 0, llm.GenerateRequest{
		Prompt: o.prompts.Summary,
		Text:   payload,
	})
	if err != nil {
		o.logger.Warn("pipeline.summary.failed", "error", err)
		return nil
	}
	o.exportRaw(ctx, llm.StageSummary, 0, resp.Text)

	summary := llm.ParseSummary(resp.Text, o.logger)
	return &summary
}

// exportRaw writes a verbatim model response into a run-scoped audit
// directory. Disabled by default; write failures are logged, never fatal.
func (o *Orchestrator) exportRaw(ctx context.Context, stage llm.Stage, chunkIndex int, text string) {
	if !o.cfg.ExportRawResponses || o.cfg.RawResponseDir == "" {
		return
	}
	dir := filepath.Join(o.cfg.RawResponseDir, common.RunIDFromContext(ctx))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		o.logger.Warn("pipeline.raw_export.failed", "error", err)
		return
	}
	name := fmt.Sprintf("chunk_%d_%s.txt", chunkIndex, stage)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644); err != nil {
		o.logger.Warn("pipeline.raw_export.failed", "file", name, "error", err)
	}
}

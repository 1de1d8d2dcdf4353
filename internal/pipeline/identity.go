package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/document"
	"github.com/statementai/statement-parser/internal/entity"
	"github.com/statementai/statement-parser/internal/llm"
)

// ExtractIdentity runs the single-stage identity flow: upload the whole
// document as one asset, wait for activation, run the prompt for the given
// document kind, and parse the JSON response. Unlike a statement run there
// is no degradation path; any stage failure fails the call.
func (o *Orchestrator) ExtractIdentity(ctx context.Context, doc *document.SourceDocument, kind llm.IdentityKind) (entity.IdentityDocument, error) {
	prompt, err := o.prompts.IdentityPrompt(kind)
	if err != nil {
		return entity.IdentityDocument{}, common.NewAppError("IDENTITY_ERROR", err.Error(), common.ErrInvalidInput)
	}

	rid := uuid.New().String()
	ctx = common.WithRunID(ctx, rid)
	o.logger.Info("pipeline.identity.start", "run_id", rid, "document", doc.Name, "kind", kind)

	chunk := entity.Chunk{
		Index:     1,
		StartPage: 0,
		EndPage:   doc.PageCount,
		Name:      doc.Name,
		Data:      doc.Bytes(),
	}
	ctx = common.WithChunkIndex(ctx, chunk.Index)

	asset, err := o.gateway.Upload(ctx, chunk)
	if err != nil {
		return entity.IdentityDocument{}, err
	}
	asset, err = o.gateway.AwaitReady(ctx, asset)
	if err != nil {
		return entity.IdentityDocument{}, err
	}

	resp, err := o.gateway.Generate(ctx, llm.StageIdentity, chunk.Index, llm.GenerateRequest{
		Prompt: prompt,
		Asset:  &asset,
	})
	if err != nil {
		return entity.IdentityDocument{}, err
	}
	o.exportRaw(ctx, llm.StageIdentity, chunk.Index, resp.Text)

	idDoc, err := llm.ParseIdentityDocument(resp.Text, o.logger)
	if err != nil {
		return entity.IdentityDocument{}, common.WrapError(err, "parse identity response")
	}
	if idDoc.DocumentType == "" {
		idDoc.DocumentType = string(kind)
	}

	o.logger.Info("pipeline.identity.done", "run_id", rid, "kind", idDoc.DocumentType)
	return idDoc, nil
}

package llm

import (
	"context"

	"github.com/statementai/statement-parser/constants"
)

// UploadedAsset is the backend's handle on an uploaded chunk, with its
// processing-state lifecycle. Only ACTIVE assets may be referenced in a
// generation request.
type UploadedAsset struct {
	ID       string
	Name     string
	URI      string
	MIMEType string
	State    constants.AssetState
}

// Stage tags which pipeline stage produced a model call.
type Stage string

const (
	StageStatementParse Stage = "statement_parse"
	StageCategorize     Stage = "categorize"
	StagePersonalInfo   Stage = "personal_info"
	StageSummary        Stage = "summary"
	StageIdentity       Stage = "identity"
)

// ModelResponse is the raw text returned by a generation call, tagged with
// the chunk and stage that produced it. Immutable once received.
type ModelResponse struct {
	Text  string
	Chunk int
	Stage Stage
}

// GenerateRequest carries one generation call: a prompt plus either an
// uploaded-file reference, an inline text payload, or both.
type GenerateRequest struct {
	Prompt          string
	Asset           *UploadedAsset
	Text            string
	MaxOutputTokens int
}

// Backend is the three-method contract a concrete model provider implements.
// Implementations must be safe for concurrent use; they hold connection
// configuration only, never per-run state.
type Backend interface {
	Upload(ctx context.Context, name string, data []byte, mimeType string) (UploadedAsset, error)
	PollStatus(ctx context.Context, asset UploadedAsset) (UploadedAsset, error)
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

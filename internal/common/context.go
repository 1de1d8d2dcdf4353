package common

import "context"

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID      contextKey = "run_id"
	ContextKeyChunkIndex contextKey = "chunk_index"
)

// WithRunID adds a pipeline run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the pipeline run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithChunkIndex adds the 1-based chunk index to the context
func WithChunkIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, ContextKeyChunkIndex, index)
}

// ChunkIndexFromContext extracts the chunk index from context; 0 means unset
func ChunkIndexFromContext(ctx context.Context) int {
	if index, ok := ctx.Value(ContextKeyChunkIndex).(int); ok {
		return index
	}
	return 0
}

package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/entity"
)

// Gateway wraps a Backend with the call policy the pipeline relies on:
// bounded upload retries, fixed-interval activation polling with a wait
// ceiling, and a wall-clock deadline per generation call. It holds no
// per-run state and is safe to share across chunk workers.
type Gateway struct {
	backend Backend
	cfg     common.GatewayConfig
	logger  *slog.Logger
}

func NewGateway(backend Backend, cfg common.GatewayConfig, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UploadRetries <= 0 {
		cfg.UploadRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 5 * time.Minute
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 5 * time.Minute
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 400000
	}
	return &Gateway{backend: backend, cfg: cfg, logger: logger}
}

// Upload pushes a chunk to the backend, retrying with a fixed delay up to
// the configured attempt budget. Each retry is logged with its attempt count.
func (g *Gateway) Upload(ctx context.Context, chunk entity.Chunk) (UploadedAsset, error) {
	rid := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= g.cfg.UploadRetries; attempt++ {
		asset, err := g.backend.Upload(ctx, chunk.Name, chunk.Data, "application/pdf")
		if err == nil {
			g.logger.Info("llm.upload.ok",
				"req_id", rid, "chunk", chunk.Index, "asset", asset.ID, "attempt", attempt,
			)
			return asset, nil
		}
		lastErr = err
		g.logger.Warn("llm.upload.retry",
			"req_id", rid, "chunk", chunk.Index,
			"attempt", attempt, "max_attempts", g.cfg.UploadRetries, "error", err,
		)

		if attempt == g.cfg.UploadRetries {
			break
		}
		select {
		case <-ctx.Done():
			return UploadedAsset{}, common.UploadErrorf("upload chunk %d canceled: %v", chunk.Index, ctx.Err())
		case <-time.After(g.cfg.RetryDelay):
		}
	}
	return UploadedAsset{}, common.UploadErrorf("upload chunk %d failed after %d attempts: %v", chunk.Index, g.cfg.UploadRetries, lastErr)
}

// AwaitReady polls the asset at a fixed interval until it becomes ACTIVE.
// A backend-reported terminal failure and an elapsed wait ceiling surface as
// distinct errors.
func (g *Gateway) AwaitReady(ctx context.Context, asset UploadedAsset) (UploadedAsset, error) {
	deadline := time.Now().Add(g.cfg.MaxWait)

	for {
		current, err := g.backend.PollStatus(ctx, asset)
		if err != nil {
			return asset, common.AssetProcessingErrorf("poll asset %s: %v", asset.ID, err)
		}

		if current.State.Terminal() {
			if current.State == constants.AssetActive {
				g.logger.Info("llm.asset.active", "asset", current.ID)
				return current, nil
			}
			return current, common.AssetProcessingErrorf("asset %s reported terminal state %s", current.ID, current.State)
		}

		if time.Now().After(deadline) {
			return current, common.TimeoutErrorf("asset %s still %s after %s", current.ID, current.State, g.cfg.MaxWait)
		}

		g.logger.Info("llm.asset.waiting", "asset", current.ID, "state", current.State, "poll_interval", g.cfg.PollInterval)
		select {
		case <-ctx.Done():
			return current, common.TimeoutErrorf("wait for asset %s canceled: %v", current.ID, ctx.Err())
		case <-time.After(g.cfg.PollInterval):
		}
	}
}

// Generate performs a single blocking generation call under the configured
// wall-clock deadline and token ceiling. No retry here: the orchestrator
// owns retry policy because it knows the business context of a failure.
func (g *Gateway) Generate(ctx context.Context, stage Stage, chunkIndex int, req GenerateRequest) (ModelResponse, error) {
	rid := uuid.New().String()
	start := time.Now()

	if req.MaxOutputTokens <= 0 {
		req.MaxOutputTokens = g.cfg.MaxOutputTokens
	}

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.GenerateTimeout)
	defer cancel()

	g.logger.Info("llm.generate.start",
		"req_id", rid, "run_id", common.RunIDFromContext(ctx), "stage", stage, "chunk", chunkIndex,
		"prompt_len", len(req.Prompt), "has_asset", req.Asset != nil,
		"max_output_tokens", req.MaxOutputTokens,
	)

	text, err := g.backend.Generate(callCtx, req)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return ModelResponse{}, common.TimeoutErrorf("generate %s for chunk %d exceeded %s", stage, chunkIndex, g.cfg.GenerateTimeout)
		}
		g.logger.Error("llm.generate.error",
			"req_id", rid, "stage", stage, "chunk", chunkIndex,
			"error", err, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ModelResponse{}, common.WrapError(err, "generate")
	}

	g.logger.Info("llm.generate.ok",
		"req_id", rid, "stage", stage, "chunk", chunkIndex,
		"response_len", len(text), "elapsed_ms", time.Since(start).Milliseconds(),
	)
	return ModelResponse{Text: text, Chunk: chunkIndex, Stage: stage}, nil
}

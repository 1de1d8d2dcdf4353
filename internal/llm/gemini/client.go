package gemini

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/llm"
)

// Client implements llm.Backend on the Gemini Files + GenerateContent APIs.
type Client struct {
	client *genai.Client
	cfg    common.GeminiConfig
	logger *slog.Logger
}

func NewClient(ctx context.Context, cfg common.GeminiConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: gc, cfg: cfg, logger: logger}, nil
}

func (c *Client) Upload(ctx context.Context, name string, data []byte, mimeType string) (llm.UploadedAsset, error) {
	file, err := c.client.Files.Upload(ctx, bytes.NewReader(data), &genai.UploadFileConfig{
		MIMEType:    mimeType,
		DisplayName: name,
	})
	if err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("gemini upload %s: %w", name, err)
	}
	c.logger.Info("gemini.upload.ok",
		"run_id", common.RunIDFromContext(ctx), "chunk", common.ChunkIndexFromContext(ctx),
		"name", file.Name, "uri", file.URI, "state", file.State,
	)
	return assetFromFile(file, name), nil
}

func (c *Client) PollStatus(ctx context.Context, asset llm.UploadedAsset) (llm.UploadedAsset, error) {
	file, err := c.client.Files.Get(ctx, asset.ID, nil)
	if err != nil {
		return asset, fmt.Errorf("gemini get file %s: %w", asset.ID, err)
	}
	return assetFromFile(file, asset.Name), nil
}

func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	parts := []*genai.Part{{Text: req.Prompt}}
	if req.Asset != nil {
		parts = append(parts, &genai.Part{
			FileData: &genai.FileData{FileURI: req.Asset.URI, MIMEType: req.Asset.MIMEType},
		})
	}
	if req.Text != "" {
		parts = append(parts, &genai.Part{Text: req.Text})
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: parts}}

	var config *genai.GenerateContentConfig
	if req.MaxOutputTokens > 0 {
		config = &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxOutputTokens)}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return text, nil
}

func assetFromFile(file *genai.File, displayName string) llm.UploadedAsset {
	return llm.UploadedAsset{
		ID:       file.Name,
		Name:     displayName,
		URI:      file.URI,
		MIMEType: file.MIMEType,
		State:    assetState(file.State),
	}
}

func assetState(s genai.FileState) constants.AssetState {
	switch s {
	case genai.FileStateActive:
		return constants.AssetActive
	case genai.FileStateFailed:
		return constants.AssetFailed
	case genai.FileStateProcessing:
		return constants.AssetProcessing
	default:
		return constants.AssetPending
	}
}

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/llm"
)

func (c *Client) Upload(ctx context.Context, name string, data []byte, mimeType string) (llm.UploadedAsset, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("purpose", c.cfg.UploadPurpose); err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("write purpose field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("write file data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("close multipart body: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return llm.UploadedAsset{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	raw, err := c.do(req)
	if err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("openai upload %s: %w", name, err)
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return llm.UploadedAsset{}, fmt.Errorf("decode upload response: %w", err)
	}
	c.logger.Info("openai.upload.ok", "file_id", out.ID, "status", out.Status, "purpose", c.cfg.UploadPurpose)

	return llm.UploadedAsset{
		ID:       out.ID,
		Name:     name,
		MIMEType: mimeType,
		State:    fileState(out.Status),
	}, nil
}

func (c *Client) PollStatus(ctx context.Context, asset llm.UploadedAsset) (llm.UploadedAsset, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/files/" + asset.ID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return asset, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(req)
	if err != nil {
		return asset, fmt.Errorf("openai poll file %s: %w", asset.ID, err)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return asset, fmt.Errorf("decode file status: %w", err)
	}
	asset.State = fileState(out.Status)
	return asset, nil
}

func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	content := []map[string]any{}
	if req.Asset != nil {
		content = append(content, map[string]any{
			"type": "file",
			"file": map[string]any{"file_id": req.Asset.ID},
		})
	}
	text := req.Prompt
	if req.Text != "" {
		text = req.Prompt + "\n\n" + req.Text
	}
	content = append(content, map[string]any{"type": "text", "text": text})

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}
	if req.MaxOutputTokens > 0 {
		body["max_completion_tokens"] = req.MaxOutputTokens
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}

func fileState(status string) constants.AssetState {
	switch status {
	case "processed":
		return constants.AssetActive
	case "error", "deleted":
		return constants.AssetFailed
	case "uploaded", "pending":
		return constants.AssetProcessing
	default:
		return constants.AssetPending
	}
}

package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/statementai/statement-parser/internal/common"
)

// Client implements llm.Backend on the OpenAI files + chat/completions APIs.
type Client struct {
	cfg        common.OpenAIConfig
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg common.OpenAIConfig, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.UploadPurpose == "" {
		// "user_data" is the other value the files API accepts here
		cfg.UploadPurpose = "assistants"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

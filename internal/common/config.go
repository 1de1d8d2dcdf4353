package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// BalanceSignConvention selects how textual negative-balance markers are handled.
// The source statements use two conventions with no authoritative winner, so
// both are selectable.
type BalanceSignConvention string

const (
	// BalanceSignTextual honors OD / overdrawn / parenthesized markers as negatives.
	BalanceSignTextual BalanceSignConvention = "textual"
	// BalanceSignStrict accepts plain numerics only; anything else becomes null.
	BalanceSignStrict BalanceSignConvention = "strict"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	Gateway  GatewayConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
}

// PipelineConfig holds orchestration-related configuration
type PipelineConfig struct {
	ChunkCount         int
	Concurrency        int
	BalanceSign        BalanceSignConvention
	ExportRawResponses bool
	RawResponseDir     string
	Summarize          bool
}

// GatewayConfig holds backend call policy configuration
type GatewayConfig struct {
	UploadRetries   int
	RetryDelay      time.Duration
	PollInterval    time.Duration
	MaxWait         time.Duration
	GenerateTimeout time.Duration
	MaxOutputTokens int
}

// GeminiConfig holds Gemini backend configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI backend configuration
type OpenAIConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	UploadPurpose string
	Timeout       time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ChunkCount:         getEnvAsInt("CHUNK_COUNT", 3),
			Concurrency:        getEnvAsInt("CHUNK_CONCURRENCY", 6),
			BalanceSign:        parseBalanceSign(getEnv("BALANCE_SIGN_CONVENTION", string(BalanceSignTextual))),
			ExportRawResponses: getEnvAsBool("EXPORT_RAW_RESPONSES", false),
			RawResponseDir:     getEnv("RAW_RESPONSE_DIR", ""),
			Summarize:          getEnvAsBool("GENERATE_SUMMARY", true),
		},
		Gateway: GatewayConfig{
			UploadRetries:   getEnvAsInt("UPLOAD_RETRIES", 3),
			RetryDelay:      getEnvAsDuration("UPLOAD_RETRY_DELAY", 5*time.Second),
			PollInterval:    getEnvAsDuration("ASSET_POLL_INTERVAL", 10*time.Second),
			MaxWait:         getEnvAsDuration("ASSET_MAX_WAIT", 5*time.Minute),
			GenerateTimeout: getEnvAsDuration("GENERATE_TIMEOUT", 5*time.Minute),
			MaxOutputTokens: getEnvAsInt("MAX_OUTPUT_TOKENS", 400000),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		OpenAI: OpenAIConfig{
			APIKey:        getEnv("OPENAI_API_KEY", ""),
			BaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:         getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			UploadPurpose: getEnv("UPLOAD_PURPOSE", "assistants"),
			Timeout:       getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

func parseBalanceSign(s string) BalanceSignConvention {
	if strings.EqualFold(strings.TrimSpace(s), string(BalanceSignStrict)) {
		return BalanceSignStrict
	}
	return BalanceSignTextual
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate(backend string) error {
	if c.Pipeline.ChunkCount < 1 {
		return NewAppError("CONFIG_ERROR", "CHUNK_COUNT must be >= 1", ErrInvalidInput)
	}
	if c.Pipeline.Concurrency < 1 {
		return NewAppError("CONFIG_ERROR", "CHUNK_CONCURRENCY must be >= 1", ErrInvalidInput)
	}
	switch backend {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "backend must be gemini or openai", ErrInvalidInput)
	}
	return nil
}

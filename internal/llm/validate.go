package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/statementai/statement-parser/internal/entity"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ParseSummary turns a summary-stage response into a Summary. The structured
// form is kept only when the response is JSON matching the summary schema;
// anything else degrades to a raw-text wrapper with a logged warning.
func ParseSummary(raw string, logger *slog.Logger) entity.Summary {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := StripCodeFence(raw)
	if err := ValidateJSONAgainstSchema(BuildSummaryJSONSchema(), []byte(cleaned)); err != nil {
		logger.Warn("llm.summary.not_structured", "error", err, "response_len", len(raw))
		return entity.Summary{RawText: raw}
	}
	return entity.Summary{Structured: json.RawMessage(cleaned)}
}

// StripCodeFence removes a surrounding ``` / ```json fence if the model
// ignored instructions and wrapped its output in Markdown.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

package llm

// BuildSummaryJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the summary response. Validation is deliberately
// loose: the commentary block varies per statement, so only the top-level
// shape is pinned down.
func BuildSummaryJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"personalInformation": map[string]any{"type": "object"},
			"summaryOfIncomeAndOutgoings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"income":    map[string]any{"type": "object"},
					"outgoings": map[string]any{"type": "object"},
				},
			},
			"generalSummaryAndFinancialHealthCommentary": map[string]any{"type": "object"},
			"potentialRedFlagsAndConcerns": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"recommendations": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"summaryOfIncomeAndOutgoings"},
	}
}

package constants

import "strings"

// AllowedExtensions holds the default allowed file extensions for statement processing.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// CSVHeaders is the column order used by the statement-parse and
// categorization prompts and the spreadsheet export.
var CSVHeaders = []string{"Date", "Description", "Amount", "Direction", "Balance", "Category"}

// Direction of a transaction as reported by the statement.
type Direction string

const (
	DirectionIn      Direction = "in"
	DirectionOut     Direction = "out"
	DirectionUnknown Direction = "unknown"
)

// ParseDirection maps free-text direction cells ("paid in", "withdrawn", ...)
// to the canonical enum.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "paid in", "paid-in", "credit", "incoming", "deposit":
		return DirectionIn
	case "out", "withdrawn", "paid out", "paid-out", "debit", "outgoing", "withdrawal":
		return DirectionOut
	default:
		return DirectionUnknown
	}
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

package llm

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/statementai/statement-parser/internal/entity"
)

// personalInfoKeys maps normalized response keys (lowercased, punctuation
// collapsed) onto PersonalInfo fields. Includes the misspellings models
// reproduce from real statements.
var personalInfoKeys = map[string]func(*entity.PersonalInfo, string){
	"full name":                   func(p *entity.PersonalInfo, v string) { p.FullName = v },
	"name":                        func(p *entity.PersonalInfo, v string) { p.FullName = v },
	"address":                     func(p *entity.PersonalInfo, v string) { p.Address = v },
	"account number":              func(p *entity.PersonalInfo, v string) { p.AccountNumber = v },
	"sort code":                   func(p *entity.PersonalInfo, v string) { p.SortCode = v },
	"statement starting balance":  func(p *entity.PersonalInfo, v string) { p.StartingBalance = v },
	"starting balance":            func(p *entity.PersonalInfo, v string) { p.StartingBalance = v },
	"statement finishing balance": func(p *entity.PersonalInfo, v string) { p.FinishingBalance = v },
	"statement finishing balace":  func(p *entity.PersonalInfo, v string) { p.FinishingBalance = v },
	"finishing balance":           func(p *entity.PersonalInfo, v string) { p.FinishingBalance = v },
	"statement period date":       func(p *entity.PersonalInfo, v string) { p.StatementPeriod = v },
	"statement period":            func(p *entity.PersonalInfo, v string) { p.StatementPeriod = v },
	"bank provider":               func(p *entity.PersonalInfo, v string) { p.BankProvider = v },
	"bank":                        func(p *entity.PersonalInfo, v string) { p.BankProvider = v },
	"total paid in":               func(p *entity.PersonalInfo, v string) { p.TotalPaidIn = v },
	"total withdrawn":             func(p *entity.PersonalInfo, v string) { p.TotalWithdrawn = v },
}

// csvFieldOrder is the documented field order when the personal-info response
// arrives as a single headerless CSV row instead of JSON.
var csvFieldOrder = []string{
	"full name", "address", "account number", "sort code",
	"statement starting balance", "statement finishing balance",
	"statement period date", "bank provider", "total paid in", "total withdrawn",
}

// ParsePersonalInfo normalizes a personal-info response into a PersonalInfo.
// It accepts a JSON object (optionally fenced, optionally nested under a
// "Personal Information" wrapper) or a single CSV row in the documented
// field order. Unknown keys are dropped with a log line; it fails only when
// nothing at all could be extracted.
func ParsePersonalInfo(raw string, logger *slog.Logger) (entity.PersonalInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := StripCodeFence(raw)

	if info, ok := parsePersonalJSON(cleaned, logger); ok {
		return info, nil
	}
	if info, ok := parsePersonalCSV(cleaned); ok {
		logger.Info("llm.personal_info.csv_fallback")
		return info, nil
	}
	return entity.PersonalInfo{}, fmt.Errorf("personal info response has no recognizable shape")
}

func parsePersonalJSON(cleaned string, logger *slog.Logger) (entity.PersonalInfo, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return entity.PersonalInfo{}, false
	}

	// Unwrap a "Personal Information" envelope if present.
	for k, v := range m {
		if normalizeKey(k) == "personal information" {
			if inner, ok := v.(map[string]any); ok {
				m = inner
			}
			break
		}
	}

	var info entity.PersonalInfo
	var dropped []string
	matched := false
	for k, v := range m {
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprintf("%v", v)
		}
		s = strings.TrimSpace(s)
		if setter, ok := personalInfoKeys[normalizeKey(k)]; ok {
			setter(&info, s)
			matched = true
		} else {
			dropped = append(dropped, k)
		}
	}
	if len(dropped) > 0 {
		logger.Warn("llm.personal_info.unknown_keys", "dropped", dropped)
	}
	return info, matched
}

// Patterns that corroborate a CSV row as identity data rather than prose:
// an account number, a sort code, or a money amount.
var (
	accountNumberRe = regexp.MustCompile(`^\d{6,}$`)
	sortCodeRe      = regexp.MustCompile(`^\d{2}-\d{2}-\d{2}$`)
	moneyCellRe     = regexp.MustCompile(`^[£$€]?-?\d[\d,]*(\.\d+)?$`)
)

func parsePersonalCSV(cleaned string) (entity.PersonalInfo, bool) {
	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	row, err := reader.Read()
	if err != nil || !looksLikeIdentityRow(row) {
		return entity.PersonalInfo{}, false
	}

	var info entity.PersonalInfo
	for i, cellValue := range row {
		if i >= len(csvFieldOrder) {
			break
		}
		if setter, ok := personalInfoKeys[csvFieldOrder[i]]; ok {
			setter(&info, strings.TrimSpace(cellValue))
		}
	}
	return info, !info.Empty()
}

// looksLikeIdentityRow guards the CSV fallback against free-text model
// output: any comma-bearing refusal or apology would otherwise map onto
// name and address fields. A real identity row has at least four cells and
// at least one cell shaped like an account number, sort code, or balance.
func looksLikeIdentityRow(row []string) bool {
	if len(row) < 4 {
		return false
	}
	for _, cellValue := range row {
		s := strings.TrimSpace(cellValue)
		if accountNumberRe.MatchString(s) || sortCodeRe.MatchString(s) || moneyCellRe.MatchString(s) {
			return true
		}
	}
	return false
}

// normalizeKey lowercases and collapses separators so "account_number",
// "Account-Number" and "Account  Number" all match.
func normalizeKey(k string) string {
	k = strings.TrimSpace(strings.ToLower(k))
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	return strings.Join(strings.Fields(k), " ")
}

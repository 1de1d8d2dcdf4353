package extract

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/entity"
)

// echoPrefixes are field-name echoes the model sometimes prepends to cells,
// keyed by column position.
var echoPrefixes = []string{"Date:", "Description:", "Amount:", "Direction:", "Balance:", "Category:"}

// Normalizer parses tabular text into typed transaction records. It never
// fails on malformed input: unusable rows are dropped with a warning and
// whatever was salvageable is returned.
type Normalizer struct {
	logger     *slog.Logger
	convention common.BalanceSignConvention
}

func NewNormalizer(logger *slog.Logger, convention common.BalanceSignConvention) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if convention == "" {
		convention = common.BalanceSignTextual
	}
	return &Normalizer{logger: logger, convention: convention}
}

// ParseRecords converts tabular text into records, row by row. A row survives
// only if its date or description is non-empty after cleaning; numeric cells
// that fail to parse become nil rather than dropping the row.
func (n *Normalizer) ParseRecords(tabular string) []entity.TransactionRecord {
	reader := csv.NewReader(strings.NewReader(tabular))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records []entity.TransactionRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Free-text upstream: salvage what parsed and stop.
			n.logger.Warn("extract.parse_records.csv_error", "error", err, "salvaged", len(records))
			break
		}

		rec, ok := n.parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func (n *Normalizer) parseRow(row []string) (entity.TransactionRecord, bool) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return cleanCell(row[i], echoPrefixes[i])
	}

	allEmpty := true
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return entity.TransactionRecord{}, false
	}

	rec := entity.TransactionRecord{
		Date:        cell(0),
		Description: cell(1),
		Amount:      n.parseMoney(cell(2)),
		Direction:   constants.ParseDirection(cell(3)),
		Balance:     n.parseMoney(cell(4)),
		Category:    cell(5),
	}

	// Header echo from a categorization round-trip.
	if strings.EqualFold(rec.Date, "Date") && strings.EqualFold(rec.Description, "Description") {
		return entity.TransactionRecord{}, false
	}
	if !rec.Valid() {
		return entity.TransactionRecord{}, false
	}
	return rec, true
}

// cleanCell removes embedded newlines and quotes, trims whitespace, and
// strips a leading field-name echo like "Date:".
func cleanCell(cell, prefix string) string {
	cell = strings.NewReplacer("\n", " ", "\r", " ", `"`, "").Replace(cell)
	cell = strings.TrimSpace(cell)
	if prefix != "" && len(cell) >= len(prefix) && strings.EqualFold(cell[:len(prefix)], prefix) {
		cell = strings.TrimSpace(cell[len(prefix):])
	}
	return cell
}

// parseMoney coerces an amount/balance cell to a decimal, or nil when the
// cell cannot be read as a number. Under the textual convention, overdrawn
// markers (minus sign, parentheses, trailing OD/overdrawn) normalize to a
// negative value.
func (n *Normalizer) parseMoney(cell string) *decimal.Decimal {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	negative := false
	if n.convention == common.BalanceSignTextual {
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			negative = true
			s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		}
		lower := strings.ToLower(s)
		for _, marker := range []string{"overdrawn", "od"} {
			if strings.HasSuffix(lower, marker) {
				negative = true
				s = strings.TrimSpace(s[:len(s)-len(marker)])
				break
			}
		}
	}

	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '£', '$', '€':
			return -1
		}
		return r
	}, s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if negative && d.Sign() > 0 {
		d = d.Neg()
	}
	return &d
}

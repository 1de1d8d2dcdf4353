package extract

import (
	"encoding/csv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/statementai/statement-parser/internal/entity"
)

// RenderCSV serializes records back to headerless CSV rows in the column
// order the prompts use. withCategory controls whether the trailing Category
// column is emitted; the categorize stage re-submits rows without it.
func RenderCSV(records []entity.TransactionRecord, withCategory bool) string {
	var b strings.Builder
	w := csv.NewWriter(&b)

	for _, rec := range records {
		row := []string{
			rec.Date,
			rec.Description,
			moneyString(rec.Amount),
			string(rec.Direction),
			moneyString(rec.Balance),
		}
		if withCategory {
			row = append(row, rec.Category)
		}
		// strings.Builder writes cannot fail
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}

func moneyString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

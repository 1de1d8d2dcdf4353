package entity

import (
	"github.com/shopspring/decimal"

	"github.com/statementai/statement-parser/constants"
)

// TransactionRecord is the canonical extracted unit for data transfer between
// layers. Amount and Balance are nil when the source cell failed numeric
// parsing; the row itself is still kept.
type TransactionRecord struct {
	Date        string              `json:"Date"`
	Description string              `json:"Description"`
	Amount      *decimal.Decimal    `json:"Amount"`
	Direction   constants.Direction `json:"Direction"`
	Balance     *decimal.Decimal    `json:"Balance"`
	Category    string              `json:"Category,omitempty"`
}

// Valid reports whether the record carries enough identity to keep: a
// non-empty date or description.
func (t TransactionRecord) Valid() bool {
	return t.Date != "" || t.Description != ""
}

// WithoutCategory returns a copy with the category cleared, for re-submission
// to the categorization stage.
func (t TransactionRecord) WithoutCategory() TransactionRecord {
	t.Category = ""
	return t
}

package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/entity"
)

// XLSXSink renders the result as a workbook: one sheet of transactions,
// one sheet of personal info key/value pairs.
type XLSXSink struct{}

func (XLSXSink) Ext() string { return "xlsx" }

const (
	transactionsSheet = "Transactions"
	personalSheet     = "Personal Information"
)

func (XLSXSink) Render(result entity.StatementResult) ([]byte, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, err
	}

	set := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, h := range constants.CSVHeaders {
		set(transactionsSheet, i+1, 1, h)
	}
	for i, rec := range result.Transactions {
		row := i + 2
		set(transactionsSheet, 1, row, rec.Date)
		set(transactionsSheet, 2, row, rec.Description)
		if rec.Amount != nil {
			set(transactionsSheet, 3, row, rec.Amount.String())
		}
		set(transactionsSheet, 4, row, string(rec.Direction))
		if rec.Balance != nil {
			set(transactionsSheet, 5, row, rec.Balance.String())
		}
		set(transactionsSheet, 6, row, rec.Category)
	}

	_ = f.SetColWidth(transactionsSheet, "A", "A", 14)
	_ = f.SetColWidth(transactionsSheet, "B", "B", 48)
	_ = f.SetColWidth(transactionsSheet, "C", "E", 14)
	_ = f.SetColWidth(transactionsSheet, "F", "F", 26)

	if !result.PersonalInfo.Empty() {
		if _, err := f.NewSheet(personalSheet); err != nil {
			return nil, err
		}
		row := 1
		for _, kv := range personalPairs(result.PersonalInfo) {
			set(personalSheet, 1, row, kv[0])
			set(personalSheet, 2, row, kv[1])
			row++
		}
		_ = f.SetColWidth(personalSheet, "A", "A", 28)
		_ = f.SetColWidth(personalSheet, "B", "B", 48)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// personalPairs flattens PersonalInfo into labeled pairs, skipping fields
// that were never extracted.
func personalPairs(info entity.PersonalInfo) [][2]string {
	all := [][2]string{
		{"Full Name", info.FullName},
		{"Address", info.Address},
		{"Account Number", info.AccountNumber},
		{"Sort Code", info.SortCode},
		{"Statement Starting Balance", info.StartingBalance},
		{"Statement Finishing Balance", info.FinishingBalance},
		{"Statement Period Date", info.StatementPeriod},
		{"Bank Provider", info.BankProvider},
		{"Total Paid In", info.TotalPaidIn},
		{"Total Withdrawn", info.TotalWithdrawn},
	}
	pairs := make([][2]string, 0, len(all))
	for _, kv := range all {
		if kv[1] == "" {
			continue
		}
		pairs = append(pairs, kv)
	}
	return pairs
}

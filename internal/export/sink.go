package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/statementai/statement-parser/internal/entity"
)

// DefaultJSONName is the conventional filename for the merged result.
const DefaultJSONName = "final_statement_data.json"

// Sink renders a StatementResult into one output format.
type Sink interface {
	Render(result entity.StatementResult) ([]byte, error)
	Ext() string
}

// WriteFile renders the result through the sink and writes it to path.
func WriteFile(sink Sink, result entity.StatementResult, path string) error {
	data, err := sink.Render(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ForFormat returns the sink for a format name ("json", "csv", "xlsx").
func ForFormat(format string) (Sink, error) {
	switch format {
	case "json", "":
		return JSONSink{}, nil
	case "csv":
		return CSVSink{}, nil
	case "xlsx":
		return XLSXSink{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// JSONSink renders the whole result, personal info included, as the
// indented final-statement JSON document.
type JSONSink struct{}

func (JSONSink) Ext() string { return "json" }

func (JSONSink) Render(result entity.StatementResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

// csvRow is the flat CSV projection of a transaction. Personal info and
// summary have no place in tabular output and are dropped.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Direction   string `csv:"Direction"`
	Balance     string `csv:"Balance"`
	Category    string `csv:"Category"`
}

// CSVSink renders the transaction sequence as headered CSV.
type CSVSink struct{}

func (CSVSink) Ext() string { return "csv" }

func (CSVSink) Render(result entity.StatementResult) ([]byte, error) {
	rows := make([]csvRow, 0, len(result.Transactions))
	for _, rec := range result.Transactions {
		row := csvRow{
			Date:        rec.Date,
			Description: rec.Description,
			Direction:   string(rec.Direction),
			Category:    rec.Category,
		}
		if rec.Amount != nil {
			row.Amount = rec.Amount.String()
		}
		if rec.Balance != nil {
			row.Balance = rec.Balance.String()
		}
		rows = append(rows, row)
	}

	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return []byte(out), nil
}

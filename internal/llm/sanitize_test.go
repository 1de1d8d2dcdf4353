package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersonalInfo_JSON(t *testing.T) {
	raw := "```json\n" + `{
		"Full Name": "J Smith",
		"Account Number": "12345678",
		"Sort Code": "00-11-22",
		"Statement Finishing Balace": "£96.80",
		"Statement Period Date": "01 JUN 2024 to 30 JUN 2024",
		"Branch": "High Street"
	}` + "\n```"

	info, err := ParsePersonalInfo(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "J Smith", info.FullName)
	assert.Equal(t, "12345678", info.AccountNumber)
	assert.Equal(t, "00-11-22", info.SortCode)
	assert.Equal(t, "£96.80", info.FinishingBalance, "misspelled balance key still maps")
	assert.Equal(t, "01 JUN 2024 to 30 JUN 2024", info.StatementPeriod)
}

func TestParsePersonalInfo_Envelope(t *testing.T) {
	raw := `{"Personal Information": {"full_name": "J Smith", "bank-provider": "Test Bank"}}`

	info, err := ParsePersonalInfo(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "J Smith", info.FullName)
	assert.Equal(t, "Test Bank", info.BankProvider)
}

func TestParsePersonalInfo_CSVFallback(t *testing.T) {
	raw := `J Smith,"123 Test Lane, Testville",12345678,00-11-22,£100.00,£96.80`

	info, err := ParsePersonalInfo(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "J Smith", info.FullName)
	assert.Equal(t, "123 Test Lane, Testville", info.Address)
	assert.Equal(t, "£96.80", info.FinishingBalance)
	assert.Empty(t, info.BankProvider, "columns past the row end stay empty")
}

func TestParsePersonalInfo_Unrecognizable(t *testing.T) {
	cases := []string{
		"",
		"sorry, I cannot help with that",
		"I'm sorry, but I can't extract personal data, as the document is unreadable, please try again",
		"the statement lists a name, an address, a balance, and a period",
		`{"Branch": "High Street"}`,
	}
	for _, raw := range cases {
		info, err := ParsePersonalInfo(raw, nil)
		assert.Error(t, err, "raw=%q", raw)
		assert.True(t, info.Empty(), "refusal text must not populate fields, raw=%q", raw)
	}
}

func TestParseSummary(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		raw := "```json\n" + `{"summaryOfIncomeAndOutgoings": {"income": {"Salary": "£1500"}, "outgoings": {}}}` + "\n```"
		s := ParseSummary(raw, nil)
		assert.NotEmpty(t, s.Structured)
		assert.Empty(t, s.RawText)
	})

	t.Run("degrades to raw text", func(t *testing.T) {
		raw := "Overall the account looks healthy."
		s := ParseSummary(raw, nil)
		assert.Empty(t, s.Structured)
		assert.Equal(t, raw, s.RawText)
	})

	t.Run("missing required key degrades", func(t *testing.T) {
		s := ParseSummary(`{"generalSummaryAndFinancialHealthCommentary": "fine"}`, nil)
		assert.Empty(t, s.Structured)
		assert.NotEmpty(t, s.RawText)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(`{"a":1}`))
	assert.Equal(t, "", StripCodeFence("   "))
}

package extract

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
)

func TestParseRecords_Basic(t *testing.T) {
	n := NewNormalizer(nil, common.BalanceSignTextual)

	records := n.ParseRecords("01-02-2024,TESCO STORES,12.50,withdrawn,987.65\n02-02-2024,SALARY ACME LTD,\"2,000.00\",paid in,\"2,987.65\"")
	require.Len(t, records, 2)

	assert.Equal(t, "01-02-2024", records[0].Date)
	assert.Equal(t, "TESCO STORES", records[0].Description)
	require.NotNil(t, records[0].Amount)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, constants.DirectionOut, records[0].Direction)

	require.NotNil(t, records[1].Amount)
	assert.True(t, records[1].Amount.Equal(decimal.RequireFromString("2000.00")))
	assert.Equal(t, constants.DirectionIn, records[1].Direction)
	require.NotNil(t, records[1].Balance)
	assert.True(t, records[1].Balance.Equal(decimal.RequireFromString("2987.65")))
}

func TestParseRecords_FieldEchoAndCleaning(t *testing.T) {
	n := NewNormalizer(nil, common.BalanceSignTextual)

	records := n.ParseRecords("Date: 01-02-2024,\"Description: COFFEE\nSHOP\",Amount: 3.50,Direction: withdrawn,Balance: 96.50")
	require.Len(t, records, 1)
	assert.Equal(t, "01-02-2024", records[0].Date)
	assert.Equal(t, "COFFEE SHOP", records[0].Description)
	require.NotNil(t, records[0].Amount)
	assert.True(t, records[0].Amount.Equal(decimal.RequireFromString("3.50")))
}

func TestParseRecords_BalanceSignPolicy(t *testing.T) {
	t.Run("textual markers normalize to negative", func(t *testing.T) {
		n := NewNormalizer(nil, common.BalanceSignTextual)
		cases := []struct {
			input string
			want  string
		}{
			{"01-02-2024,FEE,(150.00),out,10.00", "-150"},
			{"01-02-2024,FEE,150.00 OD,out,10.00", "-150"},
			{"01-02-2024,FEE,-150.00,out,10.00", "-150"},
			{"01-02-2024,FEE,£150.00 overdrawn,out,10.00", "-150"},
		}
		for _, tc := range cases {
			records := n.ParseRecords(tc.input)
			require.Len(t, records, 1, "input %q", tc.input)
			require.NotNil(t, records[0].Amount, "input %q", tc.input)
			assert.True(t, records[0].Amount.Equal(decimal.RequireFromString(tc.want)), "input %q got %s", tc.input, records[0].Amount)
		}
	})

	t.Run("strict convention leaves markers unparsed", func(t *testing.T) {
		n := NewNormalizer(nil, common.BalanceSignStrict)
		records := n.ParseRecords("01-02-2024,FEE,(150.00),out,10.00")
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Amount, "parenthesized amount is null under strict convention")
	})

	t.Run("unparseable numeric keeps the row with nil amount", func(t *testing.T) {
		n := NewNormalizer(nil, common.BalanceSignTextual)
		records := n.ParseRecords("01-02-2024,MYSTERY,not-a-number,out,junk")
		require.Len(t, records, 1)
		assert.Nil(t, records[0].Amount)
		assert.Nil(t, records[0].Balance)
	})
}

func TestParseRecords_NeverPanics(t *testing.T) {
	n := NewNormalizer(nil, common.BalanceSignTextual)

	inputs := []string{
		"",
		"   \n\t  \n",
		",,,,\n,,,,",
		"\"unterminated quote,oops\n1,2",
		string([]byte{0x00, 0xff, 0xfe, 0x01}) + ",still here",
		"only one cell",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { n.ParseRecords(in) }, "input %q", in)
	}
}

func TestParseRecords_DropRules(t *testing.T) {
	n := NewNormalizer(nil, common.BalanceSignTextual)

	t.Run("rows without date or description are dropped", func(t *testing.T) {
		records := n.ParseRecords(",,5.00,out,10.00")
		assert.Empty(t, records)
	})

	t.Run("header echo row is dropped", func(t *testing.T) {
		records := n.ParseRecords("Date,Description,Amount,Direction,Balance\n01-02-2024,SHOP,1.00,out,9.00")
		require.Len(t, records, 1)
		assert.Equal(t, "SHOP", records[0].Description)
	})
}

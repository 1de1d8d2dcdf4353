package merge

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statementai/statement-parser/constants"
	"github.com/statementai/statement-parser/internal/common"
	"github.com/statementai/statement-parser/internal/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func record(date, desc, amount string, dir constants.Direction) entity.TransactionRecord {
	rec := entity.TransactionRecord{Date: date, Description: desc, Direction: dir}
	if amount != "" {
		rec.Amount = dec(amount)
	}
	return rec
}

func TestMerge_FlattensInChunkOrder(t *testing.T) {
	r := NewReconciler(nil)

	perChunk := [][]entity.TransactionRecord{
		{record("01 Jun 2024", "COFFEE", "-3.20", constants.DirectionOut)},
		{},
		{record("02 Jun 2024", "SALARY", "1500.00", constants.DirectionIn)},
	}

	result, err := r.Merge(perChunk, entity.PersonalInfo{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "COFFEE", result.Transactions[0].Description)
	assert.Equal(t, "SALARY", result.Transactions[1].Description)
	assert.Nil(t, result.Summary)
}

func TestMerge_NilInputIsContractViolation(t *testing.T) {
	r := NewReconciler(nil)

	_, err := r.Merge(nil, entity.PersonalInfo{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMerge)
}

func TestMerge_SelfMergeIsIdempotent(t *testing.T) {
	r := NewReconciler(nil)

	chunk := []entity.TransactionRecord{
		record("01 Jun 2024", "COFFEE", "-3.20", constants.DirectionOut),
		record("02 Jun 2024", "SALARY", "1500.00", constants.DirectionIn),
		record("03 Jun 2024", "RENT", "-900.00", constants.DirectionOut),
	}

	once, err := r.Merge([][]entity.TransactionRecord{chunk}, entity.PersonalInfo{})
	require.NoError(t, err)
	twice, err := r.Merge([][]entity.TransactionRecord{chunk, chunk}, entity.PersonalInfo{})
	require.NoError(t, err)

	assert.Equal(t, once.Transactions, twice.Transactions)
}

func TestMerge_CollisionPrefersLargerBalance(t *testing.T) {
	r := NewReconciler(nil)

	withBalance := record("01 Jun 2024", "COFFEE", "-3.20", constants.DirectionOut)
	withBalance.Balance = dec("1250.80")
	bare := record("01 Jun 2024", "COFFEE", "-3.20", constants.DirectionOut)

	result, err := r.Merge([][]entity.TransactionRecord{{withBalance}, {bare}}, entity.PersonalInfo{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	require.NotNil(t, result.Transactions[0].Balance)
	assert.True(t, result.Transactions[0].Balance.Equal(decimal.RequireFromString("1250.80")))
}

func TestMerge_UnparseableDatesSortLast(t *testing.T) {
	r := NewReconciler(nil)

	perChunk := [][]entity.TransactionRecord{{
		record("??", "MYSTERY ONE", "", constants.DirectionUnknown),
		record("15 Jun 2024", "LATER", "-1.00", constants.DirectionOut),
		record("", "MYSTERY TWO", "", constants.DirectionUnknown),
		record("01 Jun 2024", "EARLIER", "-1.00", constants.DirectionOut),
	}}

	result, err := r.Merge(perChunk, entity.PersonalInfo{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 4)
	assert.Equal(t, "EARLIER", result.Transactions[0].Description)
	assert.Equal(t, "LATER", result.Transactions[1].Description)
	// unparseable rows keep their relative input order at the tail
	assert.Equal(t, "MYSTERY ONE", result.Transactions[2].Description)
	assert.Equal(t, "MYSTERY TWO", result.Transactions[3].Description)
}

func TestMerge_BroughtForwardFilter(t *testing.T) {
	r := NewReconciler(nil)

	perChunk := [][]entity.TransactionRecord{{
		record("01 Jun 2024", "Balance Brought Forward", "", constants.DirectionUnknown),
		record("01 Jun 2024", "BALANCE BROUGHT-FORWARD", "", constants.DirectionUnknown),
		record("02 Jun 2024", "Transfer to Forward Savings", "-50.00", constants.DirectionOut),
	}}

	result, err := r.Merge(perChunk, entity.PersonalInfo{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Transfer to Forward Savings", result.Transactions[0].Description)
}

func TestMerge_PeriodStartYearCorrection(t *testing.T) {
	r := NewReconciler(nil)

	info := entity.PersonalInfo{StatementPeriod: "25 MAY 2024 to 27 JUN 2024"}
	perChunk := [][]entity.TransactionRecord{{
		record("03 Jun 2020", "STALE YEAR", "-10.00", constants.DirectionOut),
		record("03 Jun 2024", "IN PERIOD", "-10.00", constants.DirectionOut),
	}}

	result, err := r.Merge(perChunk, info)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "25 May 2024", result.Transactions[0].Date)
	assert.Equal(t, "STALE YEAR", result.Transactions[0].Description)
	assert.Equal(t, "03 Jun 2024", result.Transactions[1].Date)
}

func TestMerge_PersonalInfoCarriedThrough(t *testing.T) {
	r := NewReconciler(nil)

	info := entity.PersonalInfo{FullName: "J Smith", AccountNumber: "12345678"}
	result, err := r.Merge([][]entity.TransactionRecord{{}}, info)
	require.NoError(t, err)
	assert.Equal(t, info, result.PersonalInfo)
	assert.Empty(t, result.Transactions)
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"14 Mar 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14 MAR 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14 march 2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14-03-2024", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"03/04/2024", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)},
		{"2024-03-14", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"14 Mar", time.Date(2023, 3, 14, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, ok := parseDate(tc.in, 2023)
		require.True(t, ok, "parseDate(%q)", tc.in)
		assert.Equal(t, tc.want, got, "parseDate(%q)", tc.in)
	}

	for _, bad := range []string{"", "   ", "not a date", "32/13/2024"} {
		_, ok := parseDate(bad, 2023)
		assert.False(t, ok, "parseDate(%q)", bad)
	}
}

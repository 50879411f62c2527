package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDraftValidateBalanced(t *testing.T) {
	d := NewDraft(1, 15)
	d.AddLine(10, amt("100.00"), decimal.Zero)
	d.AddLine(20, decimal.Zero, amt("100.00"))

	require.NoError(t, d.Validate())
	assert.Equal(t, StateValidated, d.State())

	lines, err := d.ValidatedLines()
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestDraftLinesRequireValidation(t *testing.T) {
	d := NewDraft(1, 15)
	d.AddLine(10, amt("100.00"), decimal.Zero)
	d.AddLine(20, decimal.Zero, amt("100.00"))

	_, err := d.ValidatedLines()
	assert.ErrorIs(t, err, ErrDraftNotValidated)

	require.NoError(t, d.Validate())
	_, err = d.ValidatedLines()
	require.NoError(t, err)

	// Adding a line after validation reopens the draft.
	d.AddLine(30, amt("5.00"), decimal.Zero)
	_, err = d.ValidatedLines()
	assert.ErrorIs(t, err, ErrDraftNotValidated)
}

func TestDraftValidateUnbalanced(t *testing.T) {
	d := NewDraft(1, 15)
	d.AddLine(10, amt("100.00"), decimal.Zero)
	d.AddLine(20, decimal.Zero, amt("99.99"))

	err := d.Validate()
	assert.ErrorIs(t, err, ErrUnbalancedEntry)
	assert.Equal(t, StateRejected, d.State())
	assert.ErrorIs(t, d.Reason(), ErrUnbalancedEntry)
}

func TestDraftValidateInsufficientLines(t *testing.T) {
	d := NewDraft(1, 1)
	d.AddLine(10, amt("50.00"), decimal.Zero)
	assert.ErrorIs(t, d.Validate(), ErrInsufficientLines)

	// Lines without an account reference do not count.
	d = NewDraft(1, 1)
	d.AddLine(10, amt("50.00"), decimal.Zero)
	d.AddLine(0, decimal.Zero, amt("50.00"))
	assert.ErrorIs(t, d.Validate(), ErrInsufficientLines)
}

func TestDraftValidateInvalidLine(t *testing.T) {
	// Both sides set.
	d := NewDraft(1, 1)
	d.AddLine(10, amt("50.00"), amt("50.00"))
	d.AddLine(20, decimal.Zero, amt("50.00"))
	assert.ErrorIs(t, d.Validate(), ErrInvalidLine)

	// Neither side set.
	d = NewDraft(1, 1)
	d.AddLine(10, decimal.Zero, decimal.Zero)
	d.AddLine(20, decimal.Zero, amt("50.00"))
	assert.ErrorIs(t, d.Validate(), ErrInvalidLine)
}

func TestDraftRejectedStaysEditable(t *testing.T) {
	d := NewDraft(1, 3)
	d.AddLine(10, amt("100.00"), decimal.Zero)
	d.AddLine(20, decimal.Zero, amt("60.00"))
	require.Error(t, d.Validate())

	d.AddLine(30, decimal.Zero, amt("40.00"))
	assert.Equal(t, StateDraft, d.State())
	require.NoError(t, d.Validate())
}

func TestAmountsEqualTwoDecimals(t *testing.T) {
	assert.True(t, AmountsEqual(amt("10.004"), amt("10.001")))
	assert.False(t, AmountsEqual(amt("10.01"), amt("10.00")))
}

func TestEntryDateClamp(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             string
	}{
		{2025, 6, 15, "2025-06-15"},
		{2025, 6, 0, "2025-06-01"},
		{2025, 6, 40, "2025-06-31"},
		// Day 31 survives in a 30-day month; the clamp is by range only.
		{2025, 4, 31, "2025-04-31"},
		{2025, 0, 5, "2025-01-05"},
		{2025, 13, 5, "2025-12-05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EntryDate(tt.year, tt.month, tt.day))
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "Unknown", MonthName(0))
	assert.Equal(t, "Unknown", MonthName(13))
}

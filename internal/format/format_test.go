package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/malex-office/internal/model"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		want  string
		value float64
	}{
		{value: 0, want: "Ksh 0"},
		{value: 950, want: "Ksh 950"},
		{value: 1234, want: "Ksh 1,234"},
		{value: 1234567.5, want: "Ksh 1,234,567.5"},
		{value: 12.346, want: "Ksh 12.35"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.value))
	}

	assert.Equal(t, "Ksh 1,235", RoundedMoney(1234.6))
}

func TestSignedMoney(t *testing.T) {
	assert.Equal(t, "+Ksh 500", SignedMoney(model.Transaction{Type: model.TransactionIncome, Amount: 500}))
	assert.Equal(t, "-Ksh 2,000", SignedMoney(model.Transaction{Type: model.TransactionExpense, Amount: 2000}))
}

func TestClock(t *testing.T) {
	eat := time.FixedZone("EAT", 3*60*60)
	clock := NewClock(eat, -3)

	assert.Equal(t, "13 May 2024  09:30 AM", clock.DateTime("2024-05-13T09:30:00.000Z"))
	assert.Equal(t, "13 May 2024", clock.Date("2024-05-13T01:00:00Z"))
	assert.Equal(t, "12 May 2024", NewClock(nil, -3).Date("2024-05-13T01:00:00Z"))
	assert.Equal(t, "garbage", clock.DateTime("garbage"))

	_, ok := clock.Time("")
	assert.False(t, ok)
}

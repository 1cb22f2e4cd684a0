// Package format renders money and backend timestamps for display.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Veraticus/malex-office/internal/model"
)

// Currency is the prefix shown before amounts.
const Currency = "Ksh"

// Layouts used by the console.
const (
	DateLayout     = "02 Jan 2006"
	TimeLayout     = "03:04 PM"
	DateTimeLayout = DateLayout + "  " + TimeLayout
)

var printer = message.NewPrinter(language.English)

// Number groups thousands and keeps at most two decimals: 1234.5 -> "1,234.5".
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Money prefixes Number with the currency: "Ksh 1,234.5".
func Money(v float64) string {
	return Currency + " " + Number(v)
}

// SignedMoney renders income as "+Ksh 500" and expenses as "-Ksh 500".
func SignedMoney(t model.Transaction) string {
	sign := "-"
	if t.Type == model.TransactionIncome {
		sign = "+"
	}
	return sign + Money(t.Amount)
}

// RoundedMoney drops the decimals, used on dashboard cards.
func RoundedMoney(v float64) string {
	return Currency + " " + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// Clock converts backend timestamps for display. The backend stores local
// wall time tagged as UTC, so a fixed correction is applied before the
// conversion to the display zone.
type Clock struct {
	loc        *time.Location
	correction time.Duration
}

// NewClock creates a Clock showing times in loc after shifting them by
// correctionHours. A nil loc means UTC.
func NewClock(loc *time.Location, correctionHours int) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{loc: loc, correction: time.Duration(correctionHours) * time.Hour}
}

// Time parses ts and applies the correction. ok is false for unparseable input.
func (c Clock) Time(ts string) (time.Time, bool) {
	parsed := model.ParseTimestamp(strings.TrimSpace(ts))
	if parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed.Add(c.correction).In(c.loc), true
}

// DateTime renders ts as "13 May 2024  09:30 AM", or ts unchanged when it
// cannot be parsed.
func (c Clock) DateTime(ts string) string {
	t, ok := c.Time(ts)
	if !ok {
		return ts
	}
	return t.Format(DateTimeLayout)
}

// Date renders only the date part of ts.
func (c Clock) Date(ts string) string {
	t, ok := c.Time(ts)
	if !ok {
		return ts
	}
	return t.Format(DateLayout)
}

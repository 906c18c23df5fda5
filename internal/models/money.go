package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a fixed-point currency amount. The upstream API serializes
// decimal fields as quoted strings on entity payloads and as bare numbers
// on aggregate payloads; UnmarshalJSON accepts both, and anything
// malformed or null coerces to zero instead of failing the decode.
type Money struct {
	decimal.Decimal
}

func MoneyFromString(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	return Money{d}
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		m.Decimal = decimal.Zero
		return nil
	}
	m.Decimal = d
	return nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.StringFixed(2))), nil
}

// Display renders the amount the way every view shows currency.
func (m Money) Display() string {
	return "₹" + m.StringFixed(2)
}

func (m Money) Float() float64 {
	return m.InexactFloat64()
}

func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// Package core provides money parsing and handling utilities.
//
// Amounts are kept as arbitrary-precision decimals so that ledger sums and
// percentage splits never drift. JSON encodes them as bare numbers.
package core

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an exact currency amount in major units. The zero value is 0.
type Money struct {
	value decimal.Decimal
}

// Percent is an exact percentage expressed in points (15 means 15%).
type Percent struct {
	value decimal.Decimal
}

// NewMoney returns a whole-unit amount.
func NewMoney(units int64) Money { return Money{value: decimal.NewFromInt(units)} }

// ParseMoney converts a decimal string to Money.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs are
// allowed because balances may legitimately be negative; record validation
// decides whether a negative amount is acceptable.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("12,34")  -> 12.34
//	ParseMoney(" -5 ")   -> -5
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{value: d}, nil
}

// MustMoney is ParseMoney for literals; it panics on malformed input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money           { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(d decimal.Decimal) Money { return Money{value: m.value.Mul(d)} }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) }
func (m Money) String() string              { return m.value.String() }

// Format renders m in the given ISO currency using its minor-unit precision,
// e.g. "UM1,250.50" for MRU. Unknown codes fall back to "<amount> <code>".
func (m Money) Format(code string) string {
	cur := money.GetCurrency(strings.ToUpper(code))
	if cur == nil {
		return m.value.StringFixed(2) + " " + code
	}
	minor := m.value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// KnownCurrency reports whether code is an ISO 4217 code known to go-money.
func KnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	m.value = d
	return nil
}

// NewPercent returns a whole-point percentage.
func NewPercent(points int64) Percent { return Percent{value: decimal.NewFromInt(points)} }

// ParsePercent converts "15", "12.5" or "12,5" to a Percent. Out-of-range values
// are accepted; callers that care validate separately.
func ParsePercent(s string) (Percent, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return Percent{}, fmt.Errorf("%w: %q", ErrInvalidPercentage, s)
	}
	return Percent{value: d}, nil
}

func (p Percent) Decimal() decimal.Decimal { return p.value }

// Ratio returns p/100 exactly.
func (p Percent) Ratio() decimal.Decimal { return p.value.Shift(-2) }

// InRange reports whether p lies in [0, 100].
func (p Percent) InRange() bool {
	return !p.value.IsNegative() && p.value.LessThanOrEqual(decimal.NewFromInt(100))
}

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }
func (p Percent) String() string       { return p.value.String() + "%" }

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.value.String()), nil
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	d, err := unmarshalDecimal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPercentage, err)
	}
	p.value = d
	return nil
}

// unmarshalDecimal accepts both bare numbers and quoted strings.
func unmarshalDecimal(data []byte) (decimal.Decimal, error) {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

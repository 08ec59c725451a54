package skinfolio

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every amount in the portfolio. The marketplace quotes in USD.
const Currency = money.USD

// Money represents a monetary value in USD.
type Money struct {
	value decimal.Decimal // as major unit value
}

// M returns an amount of dollars.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// Cents returns the amount for a number of cents.
func Cents(cents int64) Money { return Money{value: decimal.New(cents, -2)} }

// ParseMoney parses an amount of dollars such as "12.34".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{value: d}, nil
}

// String returns the string representation of the money value, e.g. "$1,234.56".
func (m Money) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, Currency).Currency()
	return cur.Formatter().Format(m.Cents())
}

// Cents returns the amount in minor units, rounded half away from zero.
func (m Money) Cents() int64 { return m.value.Shift(2).Round(0).IntPart() }

// Decimal returns the exact amount of dollars.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Round returns the amount rounded to the cent.
func (m Money) Round() Money { return Money{value: m.value.Round(2)} }

// FixedString returns the amount of dollars with two decimals, without symbol,
// as persisted in CSV files.
func (m Money) FixedString() string { return m.value.StringFixed(2) }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money               { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money               { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money            { return Money{value: m.value.Div(q.value)} }

// Ratio returns m/n as a percentage. It panics when n is zero.
func (m Money) Ratio(n Money) Percent {
	return Percent(m.value.Div(n.value).Shift(2).InexactFloat64())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

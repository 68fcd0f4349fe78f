package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by every amount (currency minor units).
const Scale = 2

// Money is an exact, fixed-scale decimal amount. The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

var Zero = Money{}

// Max is the largest magnitude an amount column (NUMERIC(14, 2)) can hold.
var Max = Money{d: decimal.New(99_999_999_999_999, -Scale)}

// FromCents builds an amount from an integer number of minor units.
func FromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -Scale)}
}

// Parse reads a decimal string such as "150", "12.5" or "-3.25".
// Values with more than Scale fractional digits are rejected rather than rounded.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return fromDecimal(d)
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return m
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Truncate(Scale)) {
		return Zero, fmt.Errorf("amount %s has more than %d fractional digits", d.String(), Scale)
	}

	if d.Abs().GreaterThan(Max.d) {
		return Zero, fmt.Errorf("amount %s exceeds %s", d.String(), Max)
	}

	return Money{d: d}, nil
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money        { return Money{d: m.d.Neg()} }

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(o Money) int       { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool    { return m.d.Equal(o.d) }
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }
func (m Money) GreaterThan(o Money) bool {
	return m.d.GreaterThan(o.d)
}

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.d.Shift(Scale).IntPart()
}

// Float64 is for reporting only (metrics, charts); never compute with it.
func (m Money) Float64() float64 {
	return m.d.InexactFloat64()
}

// String renders the amount with exactly Scale fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(Scale)
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}

	return b
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}

// MarshalJSON encodes the amount as a fixed-scale string to avoid float round trips.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "12.50" and 12.50.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("decoding amount: %w", err)
	}

	parsed, err := fromDecimal(d)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scanning amount: %w", err)
	}

	m.d = d.Round(Scale)

	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Package money provides currency-safe amounts using integer minor units
// and the Fowler Money pattern. Statement figures are parsed with
// shopspring/decimal and held as go-money values so that no float rounding
// ever touches an extracted amount.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// INR is the ISO-4217 code every statement amount is held in.
const INR = "INR"

// ErrEmptyAmount is returned when nothing numeric is left after cleaning.
var ErrEmptyAmount = errors.New("empty amount")

var (
	// Currency markers printed by Indian card issuers. Some PDF fonts map the
	// rupee glyph to a backtick.
	currencyMarker = regexp.MustCompile(`(?i)(?:rupees|inr|rs\.?|₹|` + "`" + `)`)
	// Balance direction suffixes, e.g. "1,200.00 Cr".
	directionSuffix = regexp.MustCompile(`(?i)\s*(?:cr|dr)\.?\s*$`)
)

// Money represents a monetary value with currency.
type Money struct {
	m *money.Money
}

// New creates a new Money value from minor units (paise, cents) and currency code.
func New(amountMinor int64, currencyCode string) *Money {
	return &Money{
		m: money.New(amountMinor, currencyCode),
	}
}

// NewFromDecimal creates Money from a decimal.Decimal value, rounding half
// away from zero to the currency's minor unit.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(INR)
		currencyCode = INR
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	minor := amount.Mul(multiplier).Round(0).IntPart()

	return New(minor, currencyCode)
}

// ParseINR parses an amount as printed on an Indian card statement.
// Accepts "Rs. 12,345.00", "₹1,23,456.78", "INR 500", "12,345.00/-",
// "1,200.00 Cr", "(450.00)" and "-450.00".
func ParseINR(raw string) (*Money, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return nil, err
	}
	return NewFromDecimal(d, INR), nil
}

// ParseDecimal strips currency markers, thousands separators, "/-" tails and
// Cr/Dr suffixes and parses what remains. Amounts use the Indian/US convention
// where the dot is the decimal separator.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = directionSuffix.ReplaceAllString(s, "")
	s = currencyMarker.ReplaceAllString(s, "")
	s = strings.TrimSuffix(strings.TrimSpace(s), "/-")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}

	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// IsZero returns true if the amount is zero
func (m *Money) IsZero() bool {
	return m == nil || m.m == nil || m.m.IsZero()
}

// IsNegative returns true if the amount is less than zero
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return New(0, INR)
	}
	return &Money{m: m.m.Absolute()}
}

// Add adds two Money values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Display returns a formatted string for display (e.g., "₹12,345.00")
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Display()
}

// String returns the amount as a fixed-point decimal string with the
// currency's minor digits (e.g., "12345.00").
func (m *Money) String() string {
	if m == nil || m.m == nil {
		return "0.00"
	}
	return m.ToDecimal().StringFixed(int32(m.m.Currency().Fraction))
}

// ToDecimal converts to decimal.Decimal for precise calculations
func (m *Money) ToDecimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	currency := m.m.Currency()
	d := decimal.NewFromInt(m.m.Amount())
	divisor := decimal.New(1, int32(currency.Fraction))
	return d.Div(divisor)
}

// MarshalJSON renders the amount as a decimal string.
func (m *Money) MarshalJSON() ([]byte, error) {
	if m == nil || m.m == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(m.String())
}

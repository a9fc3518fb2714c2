package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		currency string
		want     string
	}{
		{"positive paise", 1234, INR, "12.34"},
		{"zero", 0, INR, "0.00"},
		{"negative paise", -5000, INR, "-50.00"},
		{"dollars", 1000, "USD", "10.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.minor, tt.currency)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestNewFromDecimal(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"precise decimal", "123.45", "123.45"},
		{"many decimals", "99.999", "100.00"},
		{"whole number", "500", "500.00"},
		{"negative", "-25.50", "-25.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.amount)
			require.NoError(t, err)
			m := NewFromDecimal(d, INR)
			assert.Equal(t, tt.want, m.String())
		})
	}

	t.Run("unknown currency falls back to INR", func(t *testing.T) {
		m := NewFromDecimal(decimal.NewFromInt(1), "???")
		assert.Equal(t, "1.00", m.String())
		assert.Contains(t, m.Display(), "₹")
	})
}

func TestParseINR(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"rs with dot", "Rs. 12,345.00", "12345.00", false},
		{"rs without dot", "Rs12,345", "12345.00", false},
		{"rupee glyph indian grouping", "₹1,23,456.78", "123456.78", false},
		{"inr prefix", "INR 500", "500.00", false},
		{"rupees word", "Rupees 75.5", "75.50", false},
		{"slash dash tail", "12,345.00/-", "12345.00", false},
		{"credit suffix", "1,200.00 Cr", "1200.00", false},
		{"debit suffix glued", "1,200.00DR", "1200.00", false},
		{"backtick rupee", "` 2,000.00", "2000.00", false},
		{"parentheses negative", "(450.00)", "-450.00", false},
		{"leading minus", "-450.00", "-450.00", false},
		{"only currency", "Rs.", "", true},
		{"letters", "abc", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseINR(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.String())
		})
	}
}

func TestParseDecimal_EmptyAmount(t *testing.T) {
	_, err := ParseDecimal("  INR  ")
	assert.ErrorIs(t, err, ErrEmptyAmount)
}

func TestMoney_NilSafety(t *testing.T) {
	var m *Money
	assert.True(t, m.IsZero())
	assert.False(t, m.IsNegative())
	assert.Equal(t, "0.00", m.String())
	assert.True(t, m.ToDecimal().IsZero())
}

func TestMoney_Arithmetic(t *testing.T) {
	a := New(10050, INR)
	b := New(-50, INR)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "100.00", sum.String())

	assert.True(t, b.IsNegative())
	assert.False(t, b.Abs().IsNegative())
	assert.Equal(t, "0.50", b.Abs().String())
	assert.True(t, New(0, INR).IsZero())

	var acc *Money
	acc, err = acc.Add(a)
	require.NoError(t, err)
	assert.Equal(t, "100.50", acc.String())

	_, err = a.Add(New(100, "USD"))
	assert.Error(t, err)
}

func TestMoney_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(New(1234500, INR))
	require.NoError(t, err)
	assert.JSONEq(t, `"12345.00"`, string(data))

	var nilMoney *Money
	data, err = json.Marshal(nilMoney)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestMoney_Display(t *testing.T) {
	m := New(1234500, INR)
	assert.Contains(t, m.Display(), "12,345.00")
}

package sniffer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Provider
	}{
		{"hdfc bank header", "HDFC Bank Credit Card Statement", HDFC},
		{"hdfc url", "visit www.hdfcbank.com for details", HDFC},
		{"icici", "ICICI Bank Limited\nStatement", ICICI},
		{"axis bank", "Axis Bank Ltd.", AXIS},
		{"axis word", "AXIS MY ZONE CREDIT CARD", AXIS},
		{"taxis is not axis", "Paid for TAXIS and cabs", Unknown},
		{"kotak mahindra", "Kotak Mahindra Bank", KOTAK},
		{"sbi card", "SBI Card Statement", SBI},
		{"state bank", "STATE BANK OF INDIA", SBI},
		{"sbi inside word", "Text with USBIN reference", Unknown},
		{"sbicard url", "www.sbicard.com", SBI},
		{"no markers", "Some generic statement without a bank name", Unknown},
		{"empty", "", Unknown},
		{"whitespace", "  \n\t ", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProvider(tt.text))
		})
	}
}

func TestDetectProvider_FirstMatchWins(t *testing.T) {
	// Priority order decides, not number of markers or position.
	text := "SBI Card, State Bank of India, SBI ... payments via HDFC"
	assert.Equal(t, HDFC, DetectProvider(text))

	text = "Kotak Mahindra Bank statement, EMI with Axis Bank"
	assert.Equal(t, AXIS, DetectProvider(text))

	text = "SBI Card Monthly Statement\nPayment received via Axis Bank NEFT"
	assert.Equal(t, SBI, DetectProvider(text))
}

func TestProviders_PriorityOrder(t *testing.T) {
	assert.Equal(t, []Provider{HDFC, ICICI, SBI, AXIS, KOTAK}, Providers())
}

func TestDetector_Deterministic(t *testing.T) {
	d := NewDetector()
	text := "ICICI Bank ... KOTAK ... SBI CARD"
	first := d.Detect(text)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, d.Detect(text))
	}
	assert.Equal(t, ICICI, first)
}

func TestEveryProviderHasMarkers(t *testing.T) {
	for _, p := range Providers() {
		assert.NotEmpty(t, Markers(p), "provider %s has no markers", p)
	}
	assert.Empty(t, Markers(Unknown))
}

func TestProvider_String(t *testing.T) {
	assert.Equal(t, "HDFC", HDFC.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
	assert.Equal(t, "UNKNOWN", Provider(42).String())
	assert.True(t, SBI.IsKnown())
	assert.False(t, Unknown.IsKnown())
}

func TestProvider_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		P Provider `json:"provider"`
	}{P: KOTAK})
	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":"KOTAK"}`, string(data))
}

func TestParseProvider(t *testing.T) {
	p, ok := ParseProvider(" icici ")
	assert.True(t, ok)
	assert.Equal(t, ICICI, p)

	p, ok = ParseProvider("unknown")
	assert.False(t, ok)
	assert.Equal(t, Unknown, p)

	_, ok = ParseProvider("citi")
	assert.False(t, ok)
}

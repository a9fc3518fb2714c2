package sniffer

import (
	"encoding/json"
	"strings"
)

// Provider is the issuing bank of a statement.
type Provider int

// Known providers.
const (
	Unknown Provider = iota
	HDFC
	ICICI
	AXIS
	KOTAK
	SBI
)

var providerNames = [...]string{
	Unknown: "UNKNOWN",
	HDFC:    "HDFC",
	ICICI:   "ICICI",
	AXIS:    "AXIS",
	KOTAK:   "KOTAK",
	SBI:     "SBI",
}

// Providers returns the known issuers in detection priority order. SBI is
// checked before AXIS: SBI Card statements routinely name Axis Bank as a
// payment channel.
func Providers() []Provider {
	return []Provider{HDFC, ICICI, SBI, AXIS, KOTAK}
}

func (p Provider) String() string {
	if p < 0 || int(p) >= len(providerNames) {
		return providerNames[Unknown]
	}
	return providerNames[p]
}

// IsKnown reports whether p is one of the supported issuers.
func (p Provider) IsKnown() bool {
	return p > Unknown && int(p) < len(providerNames)
}

// MarshalJSON renders the provider name.
func (p Provider) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// ParseProvider maps a name back to a Provider. Matching is case-insensitive;
// unrecognised names yield Unknown and false.
func ParseProvider(name string) (Provider, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range providerNames {
		if n == name {
			return Provider(i), Provider(i) != Unknown
		}
	}
	return Unknown, false
}

// Package sniffer identifies which card issuer produced a statement from its text.
// Detection is a single Aho-Corasick pass over the upper-cased text followed by
// word-bounded confirmation, checked in a fixed priority order.
package sniffer

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Marker is one identifying phrase for a provider. Keyword is the literal fed
// to the Aho-Corasick matcher; Confirm, when set, must also match before the
// keyword counts (used for short tokens like "SBI" that occur inside words).
type Marker struct {
	Keyword string
	Confirm *regexp.Regexp
}

// Detector classifies statement text by issuer.
// It is immutable after construction and safe for concurrent use.
type Detector struct {
	matcher  *ahocorasick.Matcher
	owners   []Provider // keyword index -> provider
	markers  []Marker   // keyword index -> marker
	priority []Provider
}

// providerMarkers lists every provider's markers, most specific first.
var providerMarkers = map[Provider][]Marker{
	HDFC: {
		{Keyword: "HDFC BANK"},
		{Keyword: "HDFCBANK"},
		{Keyword: "HDFC"},
	},
	ICICI: {
		{Keyword: "ICICI BANK"},
		{Keyword: "ICICIBANK"},
		{Keyword: "ICICI"},
	},
	AXIS: {
		{Keyword: "AXIS BANK"},
		{Keyword: "AXISBANK"},
		{Keyword: "AXIS", Confirm: regexp.MustCompile(`\bAXIS\b`)},
	},
	KOTAK: {
		{Keyword: "KOTAK MAHINDRA"},
		{Keyword: "KOTAK"},
	},
	SBI: {
		{Keyword: "SBI CARD"},
		{Keyword: "SBICARD"},
		{Keyword: "STATE BANK OF INDIA"},
		{Keyword: "SBI", Confirm: regexp.MustCompile(`\bSBI\b`)},
	},
}

var defaultDetector = NewDetector()

// NewDetector builds a detector over the built-in marker tables.
func NewDetector() *Detector {
	d := &Detector{priority: Providers()}

	var keywords [][]byte
	for _, p := range d.priority {
		for _, m := range providerMarkers[p] {
			keywords = append(keywords, []byte(m.Keyword))
			d.owners = append(d.owners, p)
			d.markers = append(d.markers, m)
		}
	}
	d.matcher = ahocorasick.NewMatcher(keywords)
	return d
}

// DetectProvider returns the issuer of the statement text using the built-in
// markers, or Unknown when none match. It never fails.
func DetectProvider(text string) Provider {
	return defaultDetector.Detect(text)
}

// Detect returns the first provider, in priority order, with at least one
// confirmed marker. There is no scoring across providers.
func (d *Detector) Detect(text string) Provider {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	upper := strings.ToUpper(text)
	hits := d.matcher.Match([]byte(upper))
	if len(hits) == 0 {
		return Unknown
	}

	candidates := make(map[Provider]bool, len(hits))
	for _, idx := range hits {
		if idx < 0 || idx >= len(d.markers) {
			continue
		}
		m := d.markers[idx]
		if m.Confirm != nil && !m.Confirm.MatchString(upper) {
			continue
		}
		candidates[d.owners[idx]] = true
	}

	for _, p := range d.priority {
		if candidates[p] {
			return p
		}
	}
	return Unknown
}

// Markers returns a copy of the markers for p.
func Markers(p Provider) []Marker {
	ms := providerMarkers[p]
	out := make([]Marker, len(ms))
	copy(out, ms)
	return out
}

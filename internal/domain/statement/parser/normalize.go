package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/FACorreiaa/card-statement-parser/pkg/money"
)

// DateLayout is the canonical output form of every date field.
const DateLayout = "2006-01-02"

const rangeSep = " - "

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidCard   = errors.New("no visible card digits")
	ErrInvalidName   = errors.New("not a personal name")
	ErrInvalidPeriod = errors.New("invalid billing period")
)

var (
	reOrdinal   = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)\b`)
	reDateSep   = regexp.MustCompile(`[\s.,/\-]+`)
	reSept      = regexp.MustCompile(`(?i)\bsept\b`)
	reCardTail  = regexp.MustCompile(`(\d+)\D*$`)
	reNameCut   = regexp.MustCompile(`[,/\n]`)
	reNominee   = regexp.MustCompile(`(?i)\bName\s*of\s*Nominee.*$`)
	reNuisance  = regexp.MustCompile(`(?i)\b(?:of\s+nominee|nominee|for\s+lost\s+or\s+stolen\s+card|customer\s*care|helpline)\b.*$`)
	reNameJunk  = regexp.MustCompile(`[^A-Za-z.\s]`)
	reSpaces    = regexp.MustCompile(`\s+`)
	reStmtWords = regexp.MustCompile(`(?i)\b(?:ACCOUNT|STATEMENT|SUMMARY|AMOUNT|DUE|DATE|BILL|PERIOD|CYCLE|ADDRESS|NOMINEE)\b`)
)

// Indian issuers print day-first dates, so day-first layouts are the only
// numeric interpretation.
var numericDateLayouts = []string{
	"2006-01-02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

var wordDateLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 06",
	"2 January 06",
	"Jan 2 06",
	"January 2 06",
}

var monthPrefixes = map[string]bool{
	"JAN": true, "FEB": true, "MAR": true, "APR": true, "MAY": true, "JUN": true,
	"JUL": true, "AUG": true, "SEP": true, "OCT": true, "NOV": true, "DEC": true,
}

// ParseDate parses a statement date in any of the supported shapes:
// 05/11/2025, 05-11-25, 05.11.2025, 05 Nov 2025, 5th November 2025,
// 05-Nov-2025, Nov 5, 2025.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	s = reOrdinal.ReplaceAllString(s, "$1")

	layouts := numericDateLayouts
	if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		s = strings.TrimSpace(reDateSep.ReplaceAllString(s, " "))
		s = reSept.ReplaceAllString(s, "Sep")
		layouts = wordDateLayouts
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// NormalizeDate returns the date in DateLayout form.
func NormalizeDate(raw string) (string, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// NormalizePeriod normalizes both ends of a "start - end" candidate and
// returns "YYYY-MM-DD to YYYY-MM-DD".
func NormalizePeriod(raw string) (string, error) {
	start, end, ok := strings.Cut(raw, rangeSep)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
	}
	from, err := ParseDate(start)
	if err != nil {
		return "", err
	}
	to, err := ParseDate(end)
	if err != nil {
		return "", err
	}
	if to.Before(from) {
		return "", fmt.Errorf("%w: end before start", ErrInvalidPeriod)
	}
	return from.Format(DateLayout) + " to " + to.Format(DateLayout), nil
}

// NormalizeAmount parses an INR amount and returns it with two decimals.
func NormalizeAmount(raw string) (string, error) {
	m, err := money.ParseINR(raw)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// NormalizeCardNumber reduces a card number to its trailing visible digit
// group, at most four digits. Masked prefixes are never reconstructed.
func NormalizeCardNumber(raw string) (string, error) {
	m := reCardTail.FindStringSubmatch(raw)
	if m == nil {
		return "", ErrInvalidCard
	}
	digits := m[1]
	if len(digits) > 4 {
		digits = digits[len(digits)-4:]
	}
	return digits, nil
}

// CleanName turns a candidate into a title-cased personal name, or returns
// "" when it does not look like one.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	name = reNameCut.Split(name, 2)[0]
	name = strings.TrimSpace(reNominee.ReplaceAllString(name, ""))
	name = strings.TrimSpace(reNuisance.ReplaceAllString(name, ""))
	name = reSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(reNameJunk.ReplaceAllString(name, ""))

	if reStmtWords.MatchString(name) {
		return ""
	}

	tokens := strings.Fields(name)
	if len(tokens) < 2 || len(tokens) > 5 {
		return ""
	}
	for i, tok := range tokens {
		if strings.Contains(tok, ".") && len(tok) <= 3 {
			tokens[i] = strings.ToUpper(tok)
			continue
		}
		tokens[i] = strings.ToUpper(tok[:1]) + strings.ToLower(tok[1:])
	}

	name = strings.Join(tokens, " ")
	if len(name) <= 3 || len(name) >= 50 {
		return ""
	}
	return name
}

// NormalizeName is CleanName as a rule normalizer.
func NormalizeName(raw string) (string, error) {
	if name := CleanName(raw); name != "" {
		return name, nil
	}
	return "", ErrInvalidName
}

func isName(candidate string) bool {
	return CleanName(candidate) != ""
}

// hasMonthWord reports whether every alphabetic token of a date candidate is
// a month name, which rules out label words captured by loose patterns.
func hasMonthWord(candidate string) bool {
	found := false
	for _, tok := range reDateSep.Split(reOrdinal.ReplaceAllString(candidate, "$1"), -1) {
		if tok == "" || strings.IndexFunc(tok, unicode.IsLetter) < 0 {
			continue
		}
		upper := strings.ToUpper(tok)
		if upper == "XX" {
			continue
		}
		if len(upper) < 3 || !monthPrefixes[upper[:3]] {
			return false
		}
		found = true
	}
	return found
}

package parser

import (
	"regexp"
	"strings"
)

// Finder returns the candidate substrings a rule may accept, in text order.
type Finder func(text string) []string

// Rule is one pattern in a field's fallback chain.
type Rule struct {
	Name      string
	Find      Finder
	Accept    func(candidate string) bool // optional shape check
	Normalize func(candidate string) (string, error)
}

// Chain is an ordered list of rules, most specific first.
type Chain []Rule

// Apply evaluates the chain top-down. The first candidate accepted by a rule
// decides the field: later rules are never consulted, even when that
// candidate then fails to normalize.
func (c Chain) Apply(text string) FieldResult {
	for _, rule := range c {
		for _, candidate := range rule.Find(text) {
			if rule.Accept != nil && !rule.Accept(candidate) {
				continue
			}
			value, err := rule.Normalize(candidate)
			if err != nil {
				return Malformed(candidate)
			}
			return Found(candidate, value)
		}
	}
	return NotFound()
}

// Names lists the rule names in evaluation order.
func (c Chain) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}
	return names
}

// submatches yields capture group g of every match of re.
func submatches(re *regexp.Regexp, g int) Finder {
	return func(text string) []string {
		var out []string
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if g < len(m) && strings.TrimSpace(m[g]) != "" {
				out = append(out, strings.TrimSpace(m[g]))
			}
		}
		return out
	}
}

// submatchesNotAfter is submatches, skipping matches whose preceding text on
// the same line ends with the given word (case-insensitive), e.g. "Available"
// before "Credit Limit".
func submatchesNotAfter(re *regexp.Regexp, g int, word string) Finder {
	word = strings.ToUpper(word)
	return func(text string) []string {
		var out []string
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			if 2*g+1 >= len(loc) || loc[2*g] < 0 {
				continue
			}
			before := text[:loc[0]]
			if i := strings.LastIndexByte(before, '\n'); i >= 0 {
				before = before[i+1:]
			}
			if strings.HasSuffix(strings.ToUpper(strings.TrimSpace(before)), word) {
				continue
			}
			if v := strings.TrimSpace(text[loc[2*g]:loc[2*g+1]]); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
}

// perLine applies re to each line, skipping lines that match skip.
func perLine(re *regexp.Regexp, g int, skip *regexp.Regexp) Finder {
	return func(text string) []string {
		var out []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || (skip != nil && skip.MatchString(line)) {
				continue
			}
			if m := re.FindStringSubmatch(line); m != nil && g < len(m) {
				if v := strings.TrimSpace(m[g]); v != "" {
					out = append(out, v)
				}
			}
		}
		return out
	}
}

// rangeOf yields "start - end" from two capture groups.
func rangeOf(re *regexp.Regexp) Finder {
	return func(text string) []string {
		var out []string
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 3 || m[1] == "" || m[2] == "" {
				continue
			}
			out = append(out, strings.TrimSpace(m[1])+rangeSep+strings.TrimSpace(m[2]))
		}
		return out
	}
}

// headerRow handles summary tables printed as a header line with the values
// on the following line. It yields the col-th value token after each header.
func headerRow(header, value *regexp.Regexp, col int) Finder {
	return func(text string) []string {
		lines := strings.Split(text, "\n")
		var out []string
		for i, line := range lines {
			if !header.MatchString(line) {
				continue
			}
			for j := i + 1; j < len(lines); j++ {
				next := strings.TrimSpace(lines[j])
				if next == "" {
					continue
				}
				tokens := value.FindAllString(next, -1)
				if col < len(tokens) {
					out = append(out, strings.TrimSpace(tokens[col]))
				}
				break
			}
		}
		return out
	}
}

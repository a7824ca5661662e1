package checks

import (
	"regexp"
	"sort"
	"strings"

	"github.com/skelly-dev/lint8/internal/diag"
)

// IgnoreSet is the set of suppressed codes. Unknown codes are kept and
// simply never match.
type IgnoreSet map[diag.Code]struct{}

// ParseIgnoreSet builds a set from --ignore values; each value may hold a
// comma-separated list.
func ParseIgnoreSet(values []string) IgnoreSet {
	set := make(IgnoreSet)
	for _, value := range values {
		for _, raw := range strings.Split(value, ",") {
			if code := diag.Normalize(raw); code != "" {
				set[code] = struct{}{}
			}
		}
	}
	return set
}

func (s IgnoreSet) Has(code diag.Code) bool {
	_, ok := s[code]
	return ok
}

// Filter returns items without the suppressed codes.
func (s IgnoreSet) Filter(items []diag.Diagnostic) []diag.Diagnostic {
	if len(s) == 0 {
		return items
	}
	out := items[:0:0]
	for _, d := range items {
		if !s.Has(d.Code) {
			out = append(out, d)
		}
	}
	return out
}

// Codes returns the set in sorted order.
func (s IgnoreSet) Codes() []diag.Code {
	codes := make([]diag.Code, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

var fullStyleCode = regexp.MustCompile(`^[EW][0-9]{3}$`)

// StyleCodes returns the complete E/W codes for the style engine's own
// ignore list. pycodestyle treats shorter entries as prefixes, which would
// suppress more than the named code, so those are left to Filter.
func (s IgnoreSet) StyleCodes() []diag.Code {
	var out []diag.Code
	for _, code := range s.Codes() {
		if fullStyleCode.MatchString(string(code)) {
			out = append(out, code)
		}
	}
	return out
}

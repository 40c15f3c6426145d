package reconcile

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lower-cases a product label, decodes %20 escapes and collapses
// every run of non-alphanumeric characters into a single space.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(label string) string {
	s := strings.ToLower(label)
	s = strings.ReplaceAll(s, "%20", " ")
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

type productRule struct {
	canonicalToken string
	matches        func(label string) bool
}

// Token heuristics keyed by a token of the normalized canonical name. They
// tolerate the free-text variations typed on delivery notes and OCR scans
// ("92 Petrol", "Octane 92", "auto-diesel"). A label naming two products
// matches both.
var productRules = []productRule{
	{"petrol 92", func(a string) bool { return strings.Contains(a, "petrol") && strings.Contains(a, "92") }},
	{"petrol 95", func(a string) bool { return strings.Contains(a, "petrol") && strings.Contains(a, "95") }},
	{"auto diesel", func(a string) bool { return strings.Contains(a, "diesel") && strings.Contains(a, "auto") }},
	{"super diesel", func(a string) bool { return strings.Contains(a, "super diesel") }},
}

// MatchesProduct reports whether a free-text label refers to the canonical
// product name. The heuristic is chosen by the canonical name, so the
// relation is only meaningful with a canonical name on the right.
func MatchesProduct(label, canonical string) bool {
	a := Normalize(label)
	if a == "" {
		return false
	}
	b := Normalize(canonical)
	if a == b {
		return true
	}
	for _, rule := range productRules {
		if strings.Contains(b, rule.canonicalToken) {
			return rule.matches(a)
		}
	}
	return false
}

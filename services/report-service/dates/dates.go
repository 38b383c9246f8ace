// Package dates normalizes the many date shapes that reach the report
// system (ISO strings, localized strings, loosely punctuated input) into one
// canonical YYYY-MM-DD form, and renders that form for display.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Canonical layout every other date form converts to and from.
const CanonicalLayout = "2006-01-02"

var (
	canonicalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	separatorRe = regexp.MustCompile(`[^0-9]+`)
	yearRe      = regexp.MustCompile(`^\d{4}$`)
)

// Layouts tried before falling back to loose token cleanup.
var parseLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Normalize converts raw into the canonical YYYY-MM-DD form. It returns ""
// when the input cannot represent a calendar date; it never panics.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if canonicalRe.MatchString(s) {
		return s
	}

	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(CanonicalLayout)
		}
	}

	// Loose cleanup: collapse punctuation runs to a single separator, strip
	// trailing separators, then decompose into year/month/day tokens.
	cleaned := strings.Trim(separatorRe.ReplaceAllString(s, "-"), "-")
	parts := strings.Split(cleaned, "-")
	if len(parts) < 3 {
		return ""
	}
	year, month, day := parts[0], parts[1], parts[2]
	if !yearRe.MatchString(year) {
		return ""
	}
	if len(month) > 2 || len(day) > 2 || month == "" || day == "" {
		return ""
	}
	return year + "-" + pad2(month) + "-" + pad2(day)
}

func pad2(tok string) string {
	if len(tok) == 1 {
		return "0" + tok
	}
	return tok
}

// ToDisplay renders a canonical date in the locale-preferred long form
// (e.g. "2025. 3. 5."). It falls back to the raw canonical string when the
// value does not parse.
func ToDisplay(canonical string) string {
	if canonical == "" {
		return ""
	}
	t, err := time.Parse(CanonicalLayout, canonical)
	if err != nil {
		return canonical
	}
	return fmt.Sprintf("%d. %d. %d.", t.Year(), int(t.Month()), t.Day())
}

// ToInputForm returns the canonical form of raw for date inputs, or "" when
// raw cannot be normalized.
func ToInputForm(raw string) string {
	return Normalize(raw)
}

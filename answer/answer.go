// Package answer extracts a numeric final answer from free-form model text.
package answer

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultAnchor is the phrase preferred over positional extraction: a number
// directly after it is taken as the answer regardless of later numbers.
const DefaultAnchor = "The answer is"

// Number is an extracted numeric answer. IsInt records whether the source
// token had no fractional part, so "42" and "42.5" keep their spelling.
type Number struct {
	Value float64
	IsInt bool
}

// String formats the number the way it appeared, without currency symbol
// or thousands separators.
func (n Number) String() string {
	if n.IsInt {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// numberToken matches an optionally dollar-prefixed number with optional
// thousands separators and decimal fraction. Ratio adjacency ("12:30",
// "30:1") is rejected by inspecting the match context afterwards, since
// RE2 has no lookaround.
var numberToken = regexp.MustCompile(`\$?\d+(?:,\d{3})*(?:\.\d+)?`)

// Extractor extracts numeric answers using one anchor phrase. The anchored
// pattern is compiled once at construction, so a scorer can reuse the same
// Extractor across every record of a log.
type Extractor struct {
	anchored *regexp.Regexp
}

// NewExtractor creates an extractor for the given anchor phrase. An empty
// anchor skips anchored matching and always falls back to the last
// standalone number.
func NewExtractor(anchor string) *Extractor {
	e := &Extractor{}
	if anchor != "" {
		e.anchored = regexp.MustCompile(regexp.QuoteMeta(anchor) + `\s+\$?(\d+)`)
	}
	return e
}

// Extract looks for the anchor phrase followed by an optional dollar sign
// and a run of digits and returns that integer. When the phrase is absent it
// falls back to the last standalone number in the text. The second return is
// false when the text contains no usable number.
func (e *Extractor) Extract(text string) (Number, bool) {
	if e.anchored != nil {
		if m := e.anchored.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return Number{Value: v, IsInt: true}, true
			}
		}
	}
	return lastNumber(text)
}

var defaultExtractor = NewExtractor(DefaultAnchor)

// Extract parses text for a numeric answer using DefaultAnchor.
func Extract(text string) (Number, bool) {
	return defaultExtractor.Extract(text)
}

// ExtractAnchored is the one-shot form of Extractor.Extract. Callers in a
// loop should build one Extractor instead.
func ExtractAnchored(text, anchor string) (Number, bool) {
	return NewExtractor(anchor).Extract(text)
}

func lastNumber(text string) (Number, bool) {
	var found Number
	ok := false
	for _, loc := range numberToken.FindAllStringIndex(text, -1) {
		if partOfRatio(text, loc[0], loc[1]) {
			continue
		}
		token := strings.ReplaceAll(strings.TrimPrefix(text[loc[0]:loc[1]], "$"), ",", "")
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			continue
		}
		found = Number{Value: v, IsInt: !strings.Contains(token, ".")}
		ok = true
	}
	return found, ok
}

// partOfRatio reports whether the token at [start, end) sits inside a ratio
// like "12:30" or "30:1": immediately preceded by "digit:" or followed by
// ":digit".
func partOfRatio(text string, start, end int) bool {
	if start >= 2 && text[start-1] == ':' && isDigit(text[start-2]) {
		return true
	}
	if end+1 < len(text) && text[end] == ':' && isDigit(text[end+1]) {
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

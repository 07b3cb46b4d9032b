// Package units rewrites mixed-unit quantities inside annotation text
// into canonical millimeter literals before pattern matching.
package units

import (
	"regexp"
	"strconv"
	"strings"
)

// millimeters per unit
var factors = map[string]float64{
	"mm": 1, "毫米": 1,
	"cm": 10, "厘米": 10,
	"m": 1000, "米": 1000,
	"in": 25.4, "inch": 25.4, `"`: 25.4, "″": 25.4,
	"ft": 304.8, "foot": 304.8, "'": 304.8, "′": 304.8,
}

var (
	// Word-suffix units. Alternation order matters: mm/cm before m,
	// inch before in, foot before ft, so the longest token wins.
	reWordUnit = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(mm|cm|m|inch|in|foot|ft)\b`)
	// CJK unit tokens sit outside ASCII word-boundary rules.
	reCJKUnit = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(毫米|厘米|米)`)
	// Quote-mark units carry no word boundary of their own.
	reMarkUnit = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(["″'′])`)
)

// Normalizer converts quantities with unit suffixes to millimeters and
// strips the suffix. Numbers without a suffix are left untouched, as is
// anything it cannot parse.
type Normalizer struct{}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize rewrites every quantity+unit occurrence in text to a bare
// millimeter literal. Idempotent: a converted literal has no suffix left
// to match on a second pass.
func (n *Normalizer) Normalize(text string) string {
	out := reWordUnit.ReplaceAllStringFunc(text, rewrite(reWordUnit))
	out = reCJKUnit.ReplaceAllStringFunc(out, rewrite(reCJKUnit))
	out = reMarkUnit.ReplaceAllStringFunc(out, rewrite(reMarkUnit))
	return out
}

func rewrite(re *regexp.Regexp) func(string) string {
	return func(match string) string {
		parts := re.FindStringSubmatch(match)
		if parts == nil {
			return match
		}
		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return match
		}
		factor, ok := factors[strings.ToLower(parts[2])]
		if !ok {
			return match
		}
		return formatMM(value * factor)
	}
}

// formatMM renders a millimeter value without a trailing ".0" so that
// whole values stay clean integers in the rewritten text.
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

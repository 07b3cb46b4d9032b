// Package extract turns annotation text into sparse dimension sets by
// applying an ordered cascade of notation grammars.
package extract

import (
	"regexp"
	"strconv"

	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/units"
)

const num = `(\d+(?:\.\d+)?)`

var (
	reDiameter  = regexp.MustCompile(`(?:[φΦ⌀∅]|\bDN?)\s*` + num)
	reTriple    = regexp.MustCompile(num + `\s*[×xX*]\s*` + num + `\s*[×xX*]\s*` + num)
	rePair      = regexp.MustCompile(num + `\s*[×xX*]\s*` + num)
	reLabeled   = regexp.MustCompile(`[bB]\s*[×xX*/]\s*[hH]\s*=\s*` + num + `\s*[×xX*/]?\s*` + num)
	reParens    = regexp.MustCompile(num + `\s*[（(]\s*` + num + `\s*[)）]`)
	reCommaList = regexp.MustCompile(num + `\s*[,，、]\s*` + num + `(?:\s*[,，、]\s*` + num + `)?`)
	reDashList  = regexp.MustCompile(num + `\s*[-–—~]\s*` + num)
	// A bare number must stand alone: digits glued to a letter prefix are
	// member codes (KL1, Q2), not dimensions.
	reBare = regexp.MustCompile(`(?:^|[^A-Za-z0-9.])` + num)

	// Floor/level qualifiers suppress the dash grammar so "2-5层" is not
	// misread as a 2×5 cross-section.
	reFloorToken = regexp.MustCompile(`[层楼階]|(?i:floor|level)|\d+\s*F\b`)
	// Round-section hints make a bare number read as a diameter.
	reRoundHint = regexp.MustCompile(`[圆桩]|圆形|dia\b|round`)
)

// grammar is one tagged pattern/handler pair in the cascade.
type grammar struct {
	name  string
	re    *regexp.Regexp
	skip  func(text string) bool
	apply func(m []string) (entity.DimensionSet, bool)
}

// Extractor applies the grammar cascade to unit-normalized text. The
// cascade is strictly first-match-wins; precedence is load-bearing.
type Extractor struct {
	normalizer *units.Normalizer
	grammars   []grammar
}

// New builds an Extractor around the given unit normalizer. A nil
// normalizer gets a default one.
func New(n *units.Normalizer) *Extractor {
	if n == nil {
		n = units.New()
	}
	e := &Extractor{normalizer: n}
	e.grammars = []grammar{
		{name: "diameter", re: reDiameter, apply: applyDiameter},
		{name: "triple", re: reTriple, apply: applyTriple},
		{name: "pair", re: rePair, apply: applyPair},
		{name: "labeled_pair", re: reLabeled, apply: applyPair},
		{name: "paren_pair", re: reParens, apply: applyPair},
		{name: "comma_list", re: reCommaList, apply: applyList},
		{name: "dash_list", re: reDashList, skip: hasFloorToken, apply: applyPair},
		{name: "bare", re: reBare, apply: nil}, // handled specially: needs full text
	}
	return e
}

// Extract returns the dimensions encoded in text, or an empty set when
// no grammar matches. It never fails.
func (e *Extractor) Extract(text string) entity.DimensionSet {
	normalized := e.normalizer.Normalize(text)
	for _, g := range e.grammars {
		if g.skip != nil && g.skip(normalized) {
			continue
		}
		m := g.re.FindStringSubmatch(normalized)
		if m == nil {
			continue
		}
		if g.apply == nil {
			return applyBare(m, normalized)
		}
		if dims, ok := g.apply(m); ok {
			return dims
		}
	}
	return entity.NewDimensionSet()
}

func hasFloorToken(text string) bool {
	return reFloorToken.MatchString(text)
}

func parseAll(m []string, from, to int) ([]float64, bool) {
	vals := make([]float64, 0, to-from)
	for i := from; i <= to; i++ {
		if i >= len(m) || m[i] == "" {
			continue
		}
		v, err := strconv.ParseFloat(m[i], 64)
		if err != nil || v <= 0 {
			return nil, false
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, false
	}
	return vals, true
}

func applyDiameter(m []string) (entity.DimensionSet, bool) {
	vals, ok := parseAll(m, 1, 1)
	if !ok {
		return nil, false
	}
	dims := entity.NewDimensionSet()
	dims.SetDiameter(vals[0])
	return dims, true
}

func applyTriple(m []string) (entity.DimensionSet, bool) {
	vals, ok := parseAll(m, 1, 3)
	if !ok || len(vals) != 3 {
		return nil, false
	}
	dims := entity.NewDimensionSet()
	dims.Set(entity.FieldWidth, vals[0])
	dims.Set(entity.FieldHeight, vals[1])
	dims.Set(entity.FieldLength, vals[2])
	return dims, true
}

func applyPair(m []string) (entity.DimensionSet, bool) {
	vals, ok := parseAll(m, 1, 2)
	if !ok || len(vals) != 2 {
		return nil, false
	}
	dims := entity.NewDimensionSet()
	dims.Set(entity.FieldWidth, vals[0])
	dims.Set(entity.FieldHeight, vals[1])
	return dims, true
}

// applyList handles comma lists of two or three values.
func applyList(m []string) (entity.DimensionSet, bool) {
	vals, ok := parseAll(m, 1, 3)
	if !ok || len(vals) < 2 {
		return nil, false
	}
	dims := entity.NewDimensionSet()
	dims.Set(entity.FieldWidth, vals[0])
	dims.Set(entity.FieldHeight, vals[1])
	if len(vals) == 3 {
		dims.Set(entity.FieldLength, vals[2])
	}
	return dims, true
}

// applyBare handles a lone number. Round-section hints in the
// surrounding text turn it into a diameter; otherwise it is a width
// (e.g. a wall or slab thickness).
func applyBare(m []string, text string) entity.DimensionSet {
	vals, ok := parseAll(m, 1, 1)
	if !ok {
		return entity.NewDimensionSet()
	}
	dims := entity.NewDimensionSet()
	if reRoundHint.MatchString(text) {
		dims.SetDiameter(vals[0])
	} else {
		dims.Set(entity.FieldWidth, vals[0])
	}
	return dims
}

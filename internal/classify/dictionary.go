// Package classify maps annotation text and raw geometry onto component
// types using several independent strategies whose outputs are merged.
package classify

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/structeng/takeoff/constants"
)

//go:embed keywords.yaml
var rawKeywords []byte

type dictEntry struct {
	Type  string   `yaml:"type"`
	Terms []string `yaml:"terms"`
	Codes []string `yaml:"codes"`
}

type rawDictionary struct {
	Entries []dictEntry `yaml:"entries"`
}

type typeEntry struct {
	ct    constants.ComponentType
	terms []string
	codes *regexp.Regexp // \b(CODE1|CODE2)\d+
}

// Dictionary holds the curated keyword and member-code tables. Entry
// order is the classification priority and is preserved from the source
// document. Immutable after construction.
type Dictionary struct {
	entries []typeEntry
}

// DefaultDictionary parses the embedded keyword tables.
func DefaultDictionary() *Dictionary {
	d, err := ParseDictionary(rawKeywords)
	if err != nil {
		panic(fmt.Sprintf("classify: embedded keywords: %v", err))
	}
	return d
}

// ParseDictionary builds a Dictionary from a YAML document, allowing
// tests and hosts to substitute their own tables.
func ParseDictionary(doc []byte) (*Dictionary, error) {
	var raw rawDictionary
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	d := &Dictionary{}
	for _, e := range raw.Entries {
		ct, ok := constants.Canonicalize(e.Type)
		if !ok {
			return nil, fmt.Errorf("parse keywords: unknown component type %q", e.Type)
		}
		entry := typeEntry{ct: ct}
		for _, term := range e.Terms {
			entry.terms = append(entry.terms, strings.ToLower(term))
		}
		if len(e.Codes) > 0 {
			for _, c := range e.Codes {
				if !regexp.MustCompile(`^[A-Z]+$`).MatchString(c) {
					return nil, fmt.Errorf("parse keywords: bad code prefix %q", c)
				}
			}
			entry.codes = regexp.MustCompile(`\b(?:` + strings.Join(e.Codes, "|") + `)\d+`)
		}
		d.entries = append(d.entries, entry)
	}
	return d, nil
}

// ClassifyTerms resolves text by literal term match, first entry wins.
func (d *Dictionary) ClassifyTerms(text string) constants.ComponentType {
	lower := strings.ToLower(text)
	for _, e := range d.entries {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				return e.ct
			}
		}
	}
	return constants.Unknown
}

// ClassifyCode resolves text by member-code pattern and returns the
// matched code token (e.g. "KL1") as the second value.
func (d *Dictionary) ClassifyCode(text string) (constants.ComponentType, string) {
	for _, e := range d.entries {
		if e.codes == nil {
			continue
		}
		if code := e.codes.FindString(text); code != "" {
			return e.ct, code
		}
	}
	return constants.Unknown, ""
}

// HasTerm reports whether the name contains any professional term or
// member code from the dictionary. Used by confidence scoring.
func (d *Dictionary) HasTerm(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, e := range d.entries {
		for _, term := range e.terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		if e.codes != nil && e.codes.MatchString(name) {
			return true
		}
	}
	return false
}

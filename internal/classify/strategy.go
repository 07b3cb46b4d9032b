package classify

import (
	"context"
	"strings"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extract"
)

// Strategy is one independent recognizer over a document. Strategies
// must isolate per-annotation failures; an error return aborts only the
// failing strategy, never the whole pass.
type Strategy interface {
	Name() constants.Strategy
	Recognize(ctx context.Context, doc entity.Document) ([]entity.Component, error)
}

const maxDisplayName = 32

// displayName picks a component name: the member-code token when one is
// present, otherwise the trimmed annotation text.
func displayName(dict *Dictionary, text string) string {
	if _, code := dict.ClassifyCode(text); code != "" {
		return code
	}
	name := strings.TrimSpace(text)
	runes := []rune(name)
	if len(runes) > maxDisplayName {
		name = string(runes[:maxDisplayName])
	}
	return name
}

// KeywordStrategy classifies annotations by literal dictionary terms.
type KeywordStrategy struct {
	dict      *Dictionary
	extractor *extract.Extractor
}

// NewKeywordStrategy builds the keyword strategy.
func NewKeywordStrategy(dict *Dictionary, extractor *extract.Extractor) *KeywordStrategy {
	return &KeywordStrategy{dict: dict, extractor: extractor}
}

func (s *KeywordStrategy) Name() constants.Strategy { return constants.StrategyKeyword }

func (s *KeywordStrategy) Recognize(_ context.Context, doc entity.Document) ([]entity.Component, error) {
	var out []entity.Component
	for _, ann := range doc.Annotations {
		ct := s.dict.ClassifyTerms(ann.Text)
		if ct == constants.Unknown {
			continue
		}
		c := entity.NewComponent(ct, displayName(s.dict, ann.Text), constants.StrategyKeyword)
		c.Sources = []entity.Annotation{ann}
		c.Dimensions = s.extractor.Extract(ann.Text)
		out = append(out, c)
	}
	return out, nil
}

// CodeStrategy classifies annotations by canonical member-code patterns,
// catching bare codes that carry no keyword.
type CodeStrategy struct {
	dict      *Dictionary
	extractor *extract.Extractor
}

// NewCodeStrategy builds the code-pattern strategy.
func NewCodeStrategy(dict *Dictionary, extractor *extract.Extractor) *CodeStrategy {
	return &CodeStrategy{dict: dict, extractor: extractor}
}

func (s *CodeStrategy) Name() constants.Strategy { return constants.StrategyCodePattern }

func (s *CodeStrategy) Recognize(_ context.Context, doc entity.Document) ([]entity.Component, error) {
	var out []entity.Component
	for _, ann := range doc.Annotations {
		ct, code := s.dict.ClassifyCode(ann.Text)
		if ct == constants.Unknown {
			continue
		}
		c := entity.NewComponent(ct, code, constants.StrategyCodePattern)
		c.Sources = []entity.Annotation{ann}
		c.Dimensions = s.extractor.Extract(ann.Text)
		out = append(out, c)
	}
	return out, nil
}

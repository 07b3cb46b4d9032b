package classify

import (
	"context"
	"log/slog"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
)

// Classifier runs every configured strategy over a document and merges
// their outputs.
type Classifier struct {
	logger     *slog.Logger
	dict       *Dictionary
	strategies []Strategy
}

// New builds a Classifier over the given strategies, run in order.
func New(logger *slog.Logger, dict *Dictionary, strategies ...Strategy) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, dict: dict, strategies: strategies}
}

// Dictionary exposes the term tables for confidence scoring.
func (c *Classifier) Dictionary() *Dictionary {
	return c.dict
}

// Classify resolves a single text label to a component type: literal
// terms first, then member-code patterns.
func (c *Classifier) Classify(text string) constants.ComponentType {
	if ct := c.dict.ClassifyTerms(text); ct != constants.Unknown {
		return ct
	}
	ct, _ := c.dict.ClassifyCode(text)
	return ct
}

// Recognize runs all strategies and deduplicates by (type, name),
// keeping the most dimensionally complete record on conflict. A failing
// strategy is logged and skipped; annotations every strategy left
// Unknown produce no component.
func (c *Classifier) Recognize(ctx context.Context, doc entity.Document) []entity.Component {
	var merged []entity.Component
	index := make(map[string]int)

	for _, st := range c.strategies {
		comps, err := st.Recognize(ctx, doc)
		if err != nil {
			c.logger.Warn("classify.strategy.failed", "strategy", string(st.Name()), "err", err)
			continue
		}
		c.logger.Debug("classify.strategy.ok", "strategy", string(st.Name()), "components", len(comps))

		for _, comp := range comps {
			if comp.Type == constants.Unknown || comp.Name == "" {
				continue
			}
			key := string(comp.Type) + "|" + comp.Name
			at, seen := index[key]
			if !seen {
				index[key] = len(merged)
				merged = append(merged, comp)
				continue
			}
			merged[at] = mergeDuplicate(merged[at], comp)
		}
	}
	return merged
}

// mergeDuplicate keeps the more dimensionally complete of two records
// for the same (type, name) and unions their source annotations.
func mergeDuplicate(kept, next entity.Component) entity.Component {
	if next.Dimensions.Count() > kept.Dimensions.Count() {
		next.Sources = unionSources(next.Sources, kept.Sources)
		return next
	}
	kept.Sources = unionSources(kept.Sources, next.Sources)
	return kept
}

func unionSources(a, b []entity.Annotation) []entity.Annotation {
	seen := make(map[string]struct{}, len(a))
	for _, ann := range a {
		seen[ann.ID] = struct{}{}
	}
	for _, ann := range b {
		if _, ok := seen[ann.ID]; !ok {
			a = append(a, ann)
			seen[ann.ID] = struct{}{}
		}
	}
	return a
}

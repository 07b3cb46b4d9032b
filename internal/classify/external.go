package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extmodel"
)

// ExternalStrategy asks a pluggable external model to classify a sample
// of annotation texts. Constructed only when a model is configured.
type ExternalStrategy struct {
	model      extmodel.Client
	sampleSize int
}

// NewExternalStrategy wraps an external model client. sampleSize caps
// how many annotation texts are sent; non-positive means the package
// default.
func NewExternalStrategy(model extmodel.Client, sampleSize int) *ExternalStrategy {
	if sampleSize <= 0 || sampleSize > extmodel.MaxBatchSamples {
		sampleSize = extmodel.MaxBatchSamples
	}
	return &ExternalStrategy{model: model, sampleSize: sampleSize}
}

func (s *ExternalStrategy) Name() constants.Strategy { return constants.StrategyExternal }

func (s *ExternalStrategy) Recognize(ctx context.Context, doc entity.Document) ([]entity.Component, error) {
	if len(doc.Annotations) == 0 {
		return nil, nil
	}
	sampled := doc.Annotations
	if len(sampled) > s.sampleSize {
		sampled = sampled[:s.sampleSize]
	}
	samples := make([]string, len(sampled))
	for i, ann := range sampled {
		samples[i] = ann.Text
	}

	candidates, err := s.model.ClassifyBatch(ctx, samples)
	if err != nil {
		return nil, fmt.Errorf("external classify_batch: %w", err)
	}

	var out []entity.Component
	for _, cand := range candidates {
		ct, ok := constants.Canonicalize(cand.Type)
		if !ok || ct == constants.Unknown {
			continue
		}
		c := entity.NewComponent(ct, cand.Name, constants.StrategyExternal)
		// the model answers with the member name, not the sampled text
		if ann, ok := sourceFor(sampled, cand.Name); ok {
			c.Sources = []entity.Annotation{ann}
		}
		for key, v := range cand.Dimensions {
			switch entity.DimField(key) {
			case entity.FieldDiameter:
				c.Dimensions.SetDiameter(v)
			case entity.FieldWidth, entity.FieldHeight, entity.FieldLength:
				c.Dimensions.Set(entity.DimField(key), v)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// sourceFor finds the sampled annotation a candidate name came from:
// exact text match first, then the first annotation whose text contains
// the name.
func sourceFor(sampled []entity.Annotation, name string) (entity.Annotation, bool) {
	if name == "" {
		return entity.Annotation{}, false
	}
	for _, ann := range sampled {
		if ann.Text == name {
			return ann, true
		}
	}
	for _, ann := range sampled {
		if strings.Contains(ann.Text, name) {
			return ann, true
		}
	}
	return entity.Annotation{}, false
}

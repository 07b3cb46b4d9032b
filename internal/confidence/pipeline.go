// Package confidence orchestrates the five-stage recognition pipeline:
// multi-strategy recognition, standards correction, context inference,
// optional external validation and multi-round scoring.
package confidence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/classify"
	"github.com/structeng/takeoff/internal/common"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extmodel"
	"github.com/structeng/takeoff/internal/standards"
	"github.com/structeng/takeoff/internal/supplement"
	"github.com/structeng/takeoff/internal/validate"
)

// correction heuristics for unit-misplaced values
const (
	metersAsMM   = 10.0     // below this a value was probably meters
	mmAsMicrons  = 100000.0 // above this a value was probably ×1000 too big
	metersFactor = 1000.0
)

// Config holds pipeline tunables.
type Config struct {
	Threshold float64 // acceptance bar, default DefaultThreshold
	Weights   Weights // zero value means DefaultWeights
}

// Pipeline runs the staged recognition flow over a document.
type Pipeline struct {
	logger       *slog.Logger
	cfg          Config
	classifier   *classify.Classifier
	supplementer *supplement.Supplementer
	validator    *validate.Validator
	table        *standards.Table
	model        extmodel.Client // optional capability; nil when absent
}

// New builds a Pipeline. The threshold must lie in [0,1]; a zero
// threshold selects the default. model may be nil.
func New(
	logger *slog.Logger,
	cfg Config,
	classifier *classify.Classifier,
	supplementer *supplement.Supplementer,
	validator *validate.Validator,
	table *standards.Table,
	model extmodel.Client,
) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, common.InvalidInputErrorf("confidence threshold %v outside [0,1]", cfg.Threshold)
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = DefaultWeights()
	}
	return &Pipeline{
		logger:       logger,
		cfg:          cfg,
		classifier:   classifier,
		supplementer: supplementer,
		validator:    validator,
		table:        table,
		model:        model,
	}, nil
}

// Run executes the five stages and returns the accepted components with
// one confidence record each.
func (p *Pipeline) Run(ctx context.Context, doc entity.Document) ([]entity.Component, []entity.ConfidenceRecord, error) {
	// stage 1: multi-strategy recognition + dimension completion
	components := p.classifier.Recognize(ctx, doc)
	neighbors := supplement.NewNeighborIndex(doc.Annotations)
	for i := range components {
		c := &components[i]
		if len(c.Sources) == 0 {
			// shape-derived components have no text position to search around
			c.Dimensions = p.supplementer.Supplement(c.Dimensions, c.Type, "", entity.Annotation{}, nil)
			continue
		}
		src := c.Sources[0]
		c.Dimensions = p.supplementer.Supplement(c.Dimensions, c.Type, src.Text, src, neighbors)
	}
	p.logger.Info("confidence.recognize.ok", "components", len(components))

	// stage 2: standards correction
	corrected := 0
	for i := range components {
		if p.correctDimensions(&components[i]) {
			corrected++
		}
	}
	if corrected > 0 {
		p.logger.Info("confidence.correct.ok", "corrected", corrected)
	}

	// stage 3: context-based inference
	inferred := p.inferFromContext(components)
	if inferred > 0 {
		p.logger.Info("confidence.infer.ok", "inferred", inferred)
	}

	// stage 4: external-model validation (optional)
	if p.model != nil {
		if err := p.externalValidation(ctx, components); err != nil {
			// degraded, not fatal: the hook is advisory
			p.logger.Warn("confidence.external.failed", "err", err)
		}
	}

	// stage 5: scoring and threshold filtering
	var (
		accepted []entity.Component
		records  []entity.ConfidenceRecord
	)
	for i := range components {
		rec := p.score(components[i])
		if !rec.Passed {
			p.logger.Debug("confidence.dropped",
				"name", components[i].Name, "score", rec.Score, "threshold", p.cfg.Threshold)
			continue
		}
		accepted = append(accepted, components[i])
		records = append(records, rec)
	}
	p.logger.Info("confidence.score.ok",
		"accepted", len(accepted), "dropped", len(components)-len(accepted))
	return accepted, records, nil
}

// correctDimensions applies the unit-misplacement heuristic to fields
// violating their legal range. Returns true when anything changed.
func (p *Pipeline) correctDimensions(c *entity.Component) bool {
	changed := false
	for _, f := range c.Dimensions.Fields() {
		r, ok := p.table.Range(c.Type, f)
		if !ok {
			continue
		}
		v := c.Dimensions.Get(f)
		if r.Contains(v) {
			continue
		}
		fixed := v
		switch {
		case v < metersAsMM:
			fixed = v * metersFactor
		case v > mmAsMicrons:
			fixed = v / metersFactor
		}
		if fixed != v && r.Contains(fixed) {
			c.Dimensions[f] = fixed
			changed = true
		}
	}
	if changed {
		// keep the circular invariant intact after correction
		if c.Dimensions.Has(entity.FieldDiameter) {
			c.Dimensions.SetDiameter(c.Dimensions.Get(entity.FieldDiameter))
		}
		c.Meta.Corrected = true
	}
	return changed
}

// inferFromContext borrows the most frequent complete dimension set of
// the same type for components still missing required fields.
func (p *Pipeline) inferFromContext(components []entity.Component) int {
	// frequency of complete sets per type
	type key struct {
		ct  constants.ComponentType
		sig string
	}
	freq := make(map[key]int)
	sets := make(map[key]entity.DimensionSet)
	for _, c := range components {
		if missingRequired(c) {
			continue
		}
		k := key{ct: c.Type, sig: signature(c.Dimensions)}
		freq[k]++
		sets[k] = c.Dimensions
	}

	best := make(map[constants.ComponentType]entity.DimensionSet)
	bestN := make(map[constants.ComponentType]int)
	for k, n := range freq {
		if n > bestN[k.ct] || (n == bestN[k.ct] && signature(sets[k]) < signature(best[k.ct])) {
			bestN[k.ct] = n
			best[k.ct] = sets[k]
		}
	}

	inferred := 0
	for i := range components {
		c := &components[i]
		if !missingRequired(*c) {
			continue
		}
		donor, ok := best[c.Type]
		if !ok {
			continue
		}
		c.Dimensions.Merge(donor)
		c.Meta.InferredFromContext = true
		inferred++
	}
	return inferred
}

func missingRequired(c entity.Component) bool {
	round := c.Dimensions.HasAll(entity.FieldDiameter, entity.FieldLength)
	for _, f := range constants.RequiredFields(c.Type) {
		field := entity.DimField(f)
		if round && (field == entity.FieldWidth || field == entity.FieldHeight) {
			continue
		}
		if !c.Dimensions.Has(field) {
			return true
		}
	}
	return false
}

func signature(d entity.DimensionSet) string {
	sig := ""
	for _, f := range d.Fields() {
		sig += fmt.Sprintf("%s=%v;", f, d.Get(f))
	}
	return sig
}

// externalValidation feeds component names to the external model and
// fills still-missing dimensions from matching candidates.
func (p *Pipeline) externalValidation(ctx context.Context, components []entity.Component) error {
	samples := make([]string, 0, extmodel.MaxBatchSamples)
	for _, c := range components {
		if len(samples) == extmodel.MaxBatchSamples {
			break
		}
		samples = append(samples, c.SourceText())
	}
	if len(samples) == 0 {
		return nil
	}
	candidates, err := p.model.ClassifyBatch(ctx, samples)
	if err != nil {
		return err
	}
	byName := make(map[string]extmodel.Candidate, len(candidates))
	for _, cand := range candidates {
		byName[cand.Name] = cand
	}
	for i := range components {
		cand, ok := byName[components[i].Name]
		if !ok {
			continue
		}
		if ct, ok := constants.Canonicalize(cand.Type); ok && ct != components[i].Type {
			p.logger.Warn("confidence.external.type_mismatch",
				"name", components[i].Name, "local", string(components[i].Type), "external", cand.Type)
		}
		donor := entity.NewDimensionSet()
		for k, v := range cand.Dimensions {
			switch f := entity.DimField(k); f {
			case entity.FieldWidth, entity.FieldHeight, entity.FieldLength:
				donor.Set(f, v)
			}
		}
		if dia, ok := cand.Dimensions[string(entity.FieldDiameter)]; ok {
			donor.SetDiameter(dia)
		}
		components[i].Dimensions.Merge(donor)
	}
	return nil
}

// score computes the confidence record for one component.
func (p *Pipeline) score(c entity.Component) entity.ConfidenceRecord {
	w := p.cfg.Weights
	score := 1.0
	var reasons, suggestions []string

	if c.Name == "" {
		score -= w.EmptyName
		reasons = append(reasons, "component has no name")
		suggestions = append(suggestions, "name the member on the drawing")
	}

	required := constants.RequiredFields(c.Type)
	if len(required) > 0 {
		missing := 0
		round := c.Dimensions.HasAll(entity.FieldDiameter, entity.FieldLength)
		for _, f := range required {
			field := entity.DimField(f)
			if round && (field == entity.FieldWidth || field == entity.FieldHeight) {
				continue
			}
			if !c.Dimensions.Has(field) {
				missing++
			}
		}
		if missing > 0 {
			frac := float64(missing) / float64(len(required))
			score -= w.MissingDims * frac
			reasons = append(reasons, fmt.Sprintf("%d of %d required dimensions missing", missing, len(required)))
			suggestions = append(suggestions, "supplement the missing dimensions")
		}
	}

	issues := p.validator.ComponentIssues(c)
	if len(issues) > 0 {
		var cost float64
		errs, warns := 0, 0
		for _, is := range issues {
			switch is.Severity {
			case entity.SeverityError:
				cost += w.PerErrorIssue
				errs++
			case entity.SeverityWarning:
				cost += w.PerWarnIssue
				warns++
			}
		}
		if cost > w.IssueBudget {
			cost = w.IssueBudget
		}
		score -= cost
		reasons = append(reasons, fmt.Sprintf("validator raised %d error(s), %d warning(s)", errs, warns))
		suggestions = append(suggestions, "resolve validation findings")
	}

	if !p.classifier.Dictionary().HasTerm(c.Name) {
		score -= w.UnknownTerm
		reasons = append(reasons, "name matches no professional term")
	}
	if c.Meta.Corrected {
		score -= w.CorrectedTag
		reasons = append(reasons, "dimensions were unit-corrected")
		suggestions = append(suggestions, "confirm the corrected values")
	}
	if c.Meta.InferredFromContext {
		score -= w.InferredTag
		reasons = append(reasons, "dimensions inferred from similar members")
		suggestions = append(suggestions, "confirm the inferred values")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return entity.ConfidenceRecord{
		ComponentID:   c.ID,
		ComponentName: c.Name,
		Score:         score,
		Passed:        score >= p.cfg.Threshold && len(issues) == 0,
		Reasons:       reasons,
		Suggestions:   suggestions,
	}
}

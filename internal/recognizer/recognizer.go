// Package recognizer ties the confidence pipeline and the validator into a
// single entry point: annotations in, accepted components plus their audit
// trail out.
package recognizer

import (
	"context"
	"log/slog"

	"github.com/structeng/takeoff/internal/confidence"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/validate"
)

// Result is the full outcome of a recognition run.
type Result struct {
	// Components that cleared the confidence threshold and produced no
	// validation issues.
	Components []entity.Component `json:"components"`
	// Confidence holds one record per accepted component.
	Confidence []entity.ConfidenceRecord `json:"confidence"`
	// Validation summarizes the final check over the accepted set.
	Validation *entity.ValidationResult `json:"validation"`
}

// Recognizer coordinates the confidence pipeline then a final validation pass.
type Recognizer struct {
	Logger   *slog.Logger
	Pipeline *confidence.Pipeline
	Validate *validate.Validator
}

func New(logger *slog.Logger, pipeline *confidence.Pipeline, validator *validate.Validator) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{Logger: logger, Pipeline: pipeline, Validate: validator}
}

// Run recognizes components from the document's annotations and shapes.
// The confidence pipeline already rejects components carrying validation
// issues, so the final pass over the accepted set is expected to be clean;
// it is repeated here so callers get a verifiable report rather than a
// promise.
func (r *Recognizer) Run(ctx context.Context, doc entity.Document) (*Result, error) {
	components, records, err := r.Pipeline.Run(ctx, doc)
	if err != nil {
		r.Logger.Error("recognizer.pipeline.failed", "err", err)
		return nil, err
	}
	r.Logger.Info("recognizer.pipeline.ok",
		"annotations", len(doc.Annotations),
		"shapes", len(doc.Shapes),
		"accepted", len(components),
	)

	validation := &entity.ValidationResult{}
	if len(components) > 0 {
		validation, err = r.Validate.Validate(components)
		if err != nil {
			r.Logger.Error("recognizer.validate.failed", "err", err)
			return nil, err
		}
	}
	r.Logger.Info("recognizer.validate.ok",
		"total", validation.Total,
		"passed", validation.Passed,
		"warnings", validation.Warnings,
		"errors", validation.Errors,
	)

	return &Result{
		Components: components,
		Confidence: records,
		Validation: validation,
	}, nil
}

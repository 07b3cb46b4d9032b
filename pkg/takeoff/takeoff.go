// Package takeoff is the public entry point for drawing-annotation
// component recognition. It re-exports the domain types and wires the
// internal pipeline behind a single Engine.
package takeoff

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/classify"
	"github.com/structeng/takeoff/internal/confidence"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/export"
	"github.com/structeng/takeoff/internal/extmodel"
	"github.com/structeng/takeoff/internal/extract"
	"github.com/structeng/takeoff/internal/recognizer"
	"github.com/structeng/takeoff/internal/standards"
	"github.com/structeng/takeoff/internal/supplement"
	"github.com/structeng/takeoff/internal/units"
	"github.com/structeng/takeoff/internal/validate"
	"github.com/structeng/takeoff/pkg/geometry"
)

// Re-export the document and result types for public use.
type (
	Annotation       = entity.Annotation
	Shape            = entity.Shape
	Document         = entity.Document
	Component        = entity.Component
	DimensionSet     = entity.DimensionSet
	DimField         = entity.DimField
	ConfidenceRecord = entity.ConfidenceRecord
	ValidationResult = entity.ValidationResult
	ValidationIssue  = entity.ValidationIssue
	Result           = recognizer.Result

	ComponentType = constants.ComponentType

	Point    = geometry.Point
	Polyline = geometry.Polyline
)

// Re-export the external model contract so callers can plug in their own.
type (
	ModelClient = extmodel.Client
	Candidate   = extmodel.Candidate
)

// Dimension field names.
const (
	FieldWidth    = entity.FieldWidth
	FieldHeight   = entity.FieldHeight
	FieldLength   = entity.FieldLength
	FieldDiameter = entity.FieldDiameter
)

// Scoring weights for the confidence stage.
type Weights = confidence.Weights

// DefaultThreshold is the acceptance bar applied when no override is set.
const DefaultThreshold = confidence.DefaultThreshold

// Engine runs end-to-end recognition over a document.
type Engine struct {
	rec *recognizer.Recognizer
	exp *export.Service
}

type settings struct {
	logger     *slog.Logger
	threshold  float64
	radius     float64
	weights    Weights
	standards  []byte
	keywords   []byte
	model      extmodel.Client
	sampleSize int
}

// Option customizes an Engine.
type Option func(*settings)

// WithLogger sets the structured logger; default is slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithThreshold sets the confidence acceptance bar in [0,1].
func WithThreshold(t float64) Option {
	return func(s *settings) { s.threshold = t }
}

// WithRadius sets the neighbor search radius in drawing millimeters.
func WithRadius(r float64) Option {
	return func(s *settings) { s.radius = r }
}

// WithWeights overrides the confidence deduction weights.
func WithWeights(w Weights) Option {
	return func(s *settings) { s.weights = w }
}

// WithStandards replaces the built-in standards table with a YAML document.
func WithStandards(doc []byte) Option {
	return func(s *settings) { s.standards = doc }
}

// WithKeywords replaces the built-in keyword dictionary with a YAML document.
func WithKeywords(doc []byte) Option {
	return func(s *settings) { s.keywords = doc }
}

// WithExternalModel enables the optional external validation stage.
// sampleSize caps how many annotation texts are sent per run; values
// outside (0, extmodel.MaxBatchSamples] fall back to the maximum.
func WithExternalModel(m ModelClient, sampleSize int) Option {
	return func(s *settings) {
		s.model = m
		s.sampleSize = sampleSize
	}
}

// NewEngine assembles the recognition stack.
func NewEngine(opts ...Option) (*Engine, error) {
	s := settings{sampleSize: extmodel.MaxBatchSamples}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	table := standards.Default()
	if s.standards != nil {
		var err error
		if table, err = standards.Parse(s.standards); err != nil {
			return nil, err
		}
	}

	dict := classify.DefaultDictionary()
	if s.keywords != nil {
		var err error
		if dict, err = classify.ParseDictionary(s.keywords); err != nil {
			return nil, err
		}
	}

	extractor := extract.New(units.New())

	strategies := []classify.Strategy{
		classify.NewKeywordStrategy(dict, extractor),
		classify.NewCodeStrategy(dict, extractor),
		classify.NewGeometryStrategy(table),
	}
	if s.model != nil {
		strategies = append(strategies, classify.NewExternalStrategy(s.model, s.sampleSize))
	}
	classifier := classify.New(s.logger, dict, strategies...)

	supplementer := supplement.New(s.logger, supplement.Config{Radius: s.radius}, table, extractor)
	validator := validate.New(table)

	pipeline, err := confidence.New(
		s.logger,
		confidence.Config{Threshold: s.threshold, Weights: s.weights},
		classifier,
		supplementer,
		validator,
		table,
		s.model,
	)
	if err != nil {
		return nil, err
	}

	return &Engine{
		rec: recognizer.New(s.logger, pipeline, validator),
		exp: export.NewService(s.logger),
	}, nil
}

// Recognize extracts structured components from the document's
// annotations and shapes. Only components that clear the confidence
// threshold with no validation issues are returned.
func (e *Engine) Recognize(ctx context.Context, doc Document) (*Result, error) {
	return e.rec.Run(ctx, doc)
}

// RecognizeTexts is a convenience wrapper for callers with plain text
// snippets and no layout; each text becomes one annotation at the origin.
func (e *Engine) RecognizeTexts(ctx context.Context, texts []string) (*Result, error) {
	doc := Document{}
	for i, text := range texts {
		doc.Annotations = append(doc.Annotations, Annotation{
			ID:   "ann-" + strconv.Itoa(i),
			Text: text,
		})
	}
	return e.rec.Run(ctx, doc)
}

// ExportXLSX renders a recognition result as an XLSX workbook.
func (e *Engine) ExportXLSX(res *Result) ([]byte, error) {
	return e.exp.WriteReport(res)
}

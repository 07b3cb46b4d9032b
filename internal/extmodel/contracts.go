// Package extmodel defines the optional external-model capability used
// by the classifier strategy and the confidence pipeline's validation
// stage. Absence of a model is a valid configuration, never an error.
package extmodel

import "context"

// Candidate is one component suggestion returned by an external model.
type Candidate struct {
	Type       string             `json:"type"`
	Name       string             `json:"name"`
	Dimensions map[string]float64 `json:"dimensions,omitempty"`
}

// Client is the capability interface an external model integration
// implements. Implementations own their transport, retries and
// timeouts; the core only requires a synchronous answer.
type Client interface {
	ClassifyBatch(ctx context.Context, samples []string) ([]Candidate, error)
}

// MaxBatchSamples caps how many sample texts are sent per call.
const MaxBatchSamples = 20

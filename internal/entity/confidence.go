package entity

import "github.com/google/uuid"

// ConfidenceRecord reports how trustworthy a recognized component is,
// one per component surviving the confidence pipeline.
type ConfidenceRecord struct {
	ComponentID   uuid.UUID `json:"component_id"`
	ComponentName string    `json:"component_name"`
	Score         float64   `json:"score"` // 0..1
	Passed        bool      `json:"passed"`
	Reasons       []string  `json:"reasons,omitempty"`
	Suggestions   []string  `json:"suggestions,omitempty"`
}

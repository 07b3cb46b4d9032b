package entity

import (
	"github.com/google/uuid"

	"github.com/structeng/takeoff/constants"
)

// Meta carries strategy-specific annotations attached to a component
// during recognition. It is a closed record, not an open property bag.
type Meta struct {
	Strategy            constants.Strategy `json:"strategy"`
	Corrected           bool               `json:"corrected,omitempty"`
	InferredFromContext bool               `json:"inferred_from_context,omitempty"`
}

// Component represents a structured, typed building element with
// resolved dimensions, for data transfer between pipeline stages.
type Component struct {
	ID         uuid.UUID               `json:"id"`
	Type       constants.ComponentType `json:"type"`
	Name       string                  `json:"name"`
	Sources    []Annotation            `json:"sources,omitempty"`
	Dimensions DimensionSet            `json:"dimensions"`
	Material   string                  `json:"material,omitempty"`
	Quantity   float64                 `json:"quantity"`
	Meta       Meta                    `json:"meta"`
}

// NewComponent constructs a component with a fresh id, unit quantity and
// an empty dimension set.
func NewComponent(ct constants.ComponentType, name string, strategy constants.Strategy) Component {
	return Component{
		ID:         uuid.New(),
		Type:       ct,
		Name:       name,
		Dimensions: NewDimensionSet(),
		Quantity:   1.0,
		Meta:       Meta{Strategy: strategy},
	}
}

// SourceText returns the text of the first source annotation, or "".
func (c Component) SourceText() string {
	if len(c.Sources) == 0 {
		return ""
	}
	return c.Sources[0].Text
}

// Volume returns the component volume in cubic millimeters, or 0 when
// the dimension set is incomplete. Round members use the circular form.
func (c Component) Volume() float64 {
	d := c.Dimensions
	if d.Has(FieldDiameter) && d.Has(FieldLength) {
		r := d.Get(FieldDiameter) / 2
		return 3.141592653589793 * r * r * d.Get(FieldLength)
	}
	if d.HasAll(FieldWidth, FieldHeight, FieldLength) {
		return d.Get(FieldWidth) * d.Get(FieldHeight) * d.Get(FieldLength)
	}
	return 0
}

// Area returns the plan area width×length in square millimeters, or 0
// when either field is missing.
func (c Component) Area() float64 {
	d := c.Dimensions
	if d.HasAll(FieldWidth, FieldLength) {
		return d.Get(FieldWidth) * d.Get(FieldLength)
	}
	return 0
}

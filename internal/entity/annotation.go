package entity

import "github.com/structeng/takeoff/pkg/geometry"

// Annotation is a single text label lifted from a drawing. It is owned by
// the caller; the core only reads it.
type Annotation struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Position geometry.Point `json:"position"`
}

// Shape is an optional piece of raw geometry accompanying a document,
// used by the geometry classification strategy.
type Shape struct {
	ID       string            `json:"id"`
	Polyline geometry.Polyline `json:"polyline"`
}

// Document is the recognition input: an ordered list of annotations plus
// optional raw shapes.
type Document struct {
	Annotations []Annotation `json:"annotations"`
	Shapes      []Shape      `json:"shapes,omitempty"`
}

// Package geometry provides basic geometric value types shared between
// the recognition core and its callers.
package geometry

import "math"

// Point represents a drawing-space position. Z is optional and ignored by
// planar distance math; annotations from 2D drawings leave it zero.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// NewPoint creates a new 2D Point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// PlanarDistance returns the Euclidean distance to another point in the
// drawing's 2D plane.
func (p Point) PlanarDistance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Polyline is a sequence of points, optionally closed into a loop.
type Polyline struct {
	Points []Point `json:"points"`
	Closed bool    `json:"closed"`
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// LongSide returns the larger of width and height.
func (r Rect) LongSide() float64 { return math.Max(r.Width(), r.Height()) }

// ShortSide returns the smaller of width and height.
func (r Rect) ShortSide() float64 { return math.Min(r.Width(), r.Height()) }

// BoundingBox returns the axis-aligned bounding rectangle of the polyline.
// An empty polyline yields the zero Rect.
func (p Polyline) BoundingBox() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: p.Points[0].X, MaxX: p.Points[0].X,
		MinY: p.Points[0].Y, MaxY: p.Points[0].Y,
	}
	for _, pt := range p.Points[1:] {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	return r
}

// Centroid returns the arithmetic mean of the polyline's points.
func (p Polyline) Centroid() Point {
	if len(p.Points) == 0 {
		return Point{}
	}
	var c Point
	for _, pt := range p.Points {
		c.X += pt.X
		c.Y += pt.Y
	}
	n := float64(len(p.Points))
	return Point{X: c.X / n, Y: c.Y / n}
}

package supplement

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/pkg/geometry"
)

// annPoint adapts an annotation position to the kd-tree comparable
// contract. Distances are squared planar distances, matching the
// kdtree package convention.
type annPoint struct {
	pos geometry.Point
	ann entity.Annotation
}

func (a annPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	b := c.(annPoint)
	switch d {
	case 0:
		return a.pos.X - b.pos.X
	default:
		return a.pos.Y - b.pos.Y
	}
}

func (a annPoint) Dims() int { return 2 }

func (a annPoint) Distance(c kdtree.Comparable) float64 {
	b := c.(annPoint)
	dx := a.pos.X - b.pos.X
	dy := a.pos.Y - b.pos.Y
	return dx*dx + dy*dy
}

type annPoints []annPoint

func (p annPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p annPoints) Len() int                      { return len(p) }
func (p annPoints) Pivot(d kdtree.Dim) int {
	return plane{annPoints: p, Dim: d}.Pivot()
}
func (p annPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// plane is a wrapping type that allows pivoting on a particular dimension.
type plane struct {
	kdtree.Dim
	annPoints
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.annPoints[i].pos.X < p.annPoints[j].pos.X
	default:
		return p.annPoints[i].pos.Y < p.annPoints[j].pos.Y
	}
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.annPoints = p.annPoints[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.annPoints[i], p.annPoints[j] = p.annPoints[j], p.annPoints[i]
}

// NeighborIndex answers fixed-radius queries over a document's
// annotations. Built once per recognition pass.
type NeighborIndex struct {
	tree *kdtree.Tree
}

// NewNeighborIndex indexes the given annotations by position.
func NewNeighborIndex(anns []entity.Annotation) *NeighborIndex {
	pts := make(annPoints, 0, len(anns))
	for _, a := range anns {
		pts = append(pts, annPoint{pos: a.Position, ann: a})
	}
	if len(pts) == 0 {
		return &NeighborIndex{}
	}
	return &NeighborIndex{tree: kdtree.New(pts, true)}
}

// Within returns every indexed annotation within radius of p, excluding
// the annotation with the given id.
func (ix *NeighborIndex) Within(p geometry.Point, radius float64, excludeID string) []entity.Annotation {
	if ix.tree == nil || radius <= 0 {
		return nil
	}
	keeper := kdtree.NewDistKeeper(radius * radius)
	ix.tree.NearestSet(keeper, annPoint{pos: p})

	var out []entity.Annotation
	for _, c := range keeper.Heap {
		pt, ok := c.Comparable.(annPoint)
		if !ok {
			continue
		}
		if pt.ann.ID == excludeID {
			continue
		}
		out = append(out, pt.ann)
	}
	return out
}

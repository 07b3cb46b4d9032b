package classify

import (
	"context"
	"fmt"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/standards"
)

// GeometryStrategy classifies closed 4-point polylines by bounding-box
// side lengths: long shapes are walls, compact shapes are columns.
// Lower priority than text strategies; it runs only over raw shapes.
type GeometryStrategy struct {
	thresholds standards.GeometryThresholds
}

// NewGeometryStrategy builds the geometry strategy from the standards
// table's thresholds.
func NewGeometryStrategy(table *standards.Table) *GeometryStrategy {
	return &GeometryStrategy{thresholds: table.Geometry()}
}

func (s *GeometryStrategy) Name() constants.Strategy { return constants.StrategyGeometry }

func (s *GeometryStrategy) Recognize(_ context.Context, doc entity.Document) ([]entity.Component, error) {
	var out []entity.Component
	for i, shape := range doc.Shapes {
		if !shape.Polyline.Closed || len(shape.Polyline.Points) != 4 {
			continue
		}
		box := shape.Polyline.BoundingBox()
		long, short := box.LongSide(), box.ShortSide()
		if long <= 0 || short <= 0 {
			continue
		}

		switch {
		case long >= s.thresholds.WallMinSide:
			c := entity.NewComponent(constants.Wall, shapeName("Q", shape.ID, i), constants.StrategyGeometry)
			c.Dimensions.Set(entity.FieldWidth, short) // thickness
			c.Dimensions.Set(entity.FieldLength, long)
			out = append(out, c)
		case long <= s.thresholds.ColumnMaxSide:
			c := entity.NewComponent(constants.Column, shapeName("Z", shape.ID, i), constants.StrategyGeometry)
			c.Dimensions.Set(entity.FieldWidth, short)
			c.Dimensions.Set(entity.FieldHeight, long)
			out = append(out, c)
		}
		// between the thresholds the shape stays unclassified
	}
	return out, nil
}

func shapeName(prefix, id string, i int) string {
	if id != "" {
		return fmt.Sprintf("%s-%s", prefix, id)
	}
	return fmt.Sprintf("%s-%d", prefix, i+1)
}

// Package supplement completes sparse dimension sets from three sources
// merged in strict priority: already-extracted values, spatial
// neighbors, then standards defaults.
package supplement

import (
	"log/slog"
	"regexp"
	"strconv"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extract"
	"github.com/structeng/takeoff/internal/standards"
)

// DefaultRadius is the neighbor search radius in drawing millimeters.
const DefaultRadius = 500.0

// thinWallMax: walls thinner than this default to the short length tier.
const thinWallMax = 150.0

// slabThicknessMax: a lone value below this on a slab reads as thickness.
const slabThicknessMax = 200.0

// spanValueAsMeters: span tokens below this are meters, not millimeters.
const spanValueAsMeters = 100.0

var reSpanToken = regexp.MustCompile(`[Ll]\s*=\s*(\d+(?:\.\d+)?)`)

// Config holds supplementer tunables.
type Config struct {
	Radius float64 // neighbor search radius, default 500
}

// Supplementer fills missing dimension fields.
type Supplementer struct {
	logger    *slog.Logger
	cfg       Config
	table     *standards.Table
	extractor *extract.Extractor
}

// New builds a Supplementer. Nil logger falls back to slog.Default and a
// non-positive radius to DefaultRadius.
func New(logger *slog.Logger, cfg Config, table *standards.Table, extractor *extract.Extractor) *Supplementer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultRadius
	}
	return &Supplementer{logger: logger, cfg: cfg, table: table, extractor: extractor}
}

// complete reports whether dims already satisfies a full cross-section
// plus length, either rectangular or round.
func complete(dims entity.DimensionSet) bool {
	if dims.HasAll(entity.FieldWidth, entity.FieldHeight, entity.FieldLength) {
		return true
	}
	return dims.HasAll(entity.FieldDiameter, entity.FieldLength)
}

// Supplement returns a completed copy of dims for a component of the
// given type. The input set is never mutated. Present fields always win
// over neighbor-derived fields, which win over standards defaults.
func (s *Supplementer) Supplement(dims entity.DimensionSet, ct constants.ComponentType, text string, ann entity.Annotation, neighbors *NeighborIndex) entity.DimensionSet {
	out := dims.Clone()
	if complete(out) {
		return out
	}

	if neighbors != nil {
		for _, n := range neighbors.Within(ann.Position, s.cfg.Radius, ann.ID) {
			nd := s.extractor.Extract(n.Text)
			if nd.IsEmpty() {
				continue
			}
			out.Merge(nd)
			if complete(out) {
				break
			}
		}
	}

	before := out.Count()
	s.applyDefaults(out, ct, text)
	if out.Count() > before {
		s.logger.Debug("supplement.defaults.applied",
			"type", string(ct), "annotation_id", ann.ID, "fields", out.Count()-before)
	}
	return out
}

// applyDefaults fills remaining gaps from the standards table, per-type.
// Fields already present are never overwritten.
func (s *Supplementer) applyDefaults(dims entity.DimensionSet, ct constants.ComponentType, text string) {
	switch ct {
	case constants.Beam:
		if dims.HasAll(entity.FieldWidth, entity.FieldHeight) && !dims.Has(entity.FieldLength) {
			if span, ok := parseSpan(text); ok {
				dims.Set(entity.FieldLength, span)
			} else {
				dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
			}
		}
	case constants.Column:
		crossSection := dims.HasAll(entity.FieldWidth, entity.FieldHeight) || dims.Has(entity.FieldDiameter)
		if crossSection && !dims.Has(entity.FieldLength) {
			dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
		}
	case constants.Wall:
		if dims.Has(entity.FieldWidth) && !dims.Has(entity.FieldHeight) {
			dims.Set(entity.FieldHeight, s.table.Default(ct, "height"))
		}
		if dims.Has(entity.FieldWidth) && !dims.Has(entity.FieldLength) {
			if dims.Get(entity.FieldWidth) < thinWallMax {
				dims.Set(entity.FieldLength, s.table.Default(ct, "thin_length"))
			} else {
				dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
			}
		}
	case constants.Slab:
		// a lone thin value is the slab thickness
		if dims.Count() == 1 && dims.Has(entity.FieldWidth) && dims.Get(entity.FieldWidth) < slabThicknessMax {
			dims.Set(entity.FieldHeight, dims.Get(entity.FieldWidth))
			dims[entity.FieldWidth] = s.table.Default(ct, "width")
			dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
		}
	case constants.Door, constants.Window:
		if dims.HasAll(entity.FieldWidth, entity.FieldHeight) && !dims.Has(entity.FieldLength) {
			dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
		}
	case constants.Stair:
		if dims.Count() == 1 && dims.Has(entity.FieldWidth) {
			dims.Set(entity.FieldLength, s.table.Default(ct, "length"))
			dims.Set(entity.FieldHeight, s.table.Default(ct, "height"))
		}
	}
}

// parseSpan reads a span token such as "L=7200" or "L=7.2" (meters) from
// the raw annotation text.
func parseSpan(text string) (float64, bool) {
	m := reSpanToken.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	if v < spanValueAsMeters {
		v *= 1000
	}
	return v, true
}

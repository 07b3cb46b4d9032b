// Package standards carries the static domain knowledge the pipeline
// validates and completes dimensions against: per-type legal ranges,
// fallback defaults and common modular sizes.
package standards

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
)

//go:embed tables.yaml
var rawTables []byte

// Range is a closed [Min,Max] interval in millimeters.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v falls inside the interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// GrosslyOutside reports whether v misses the interval by more than 2×
// in either direction.
func (r Range) GrosslyOutside(v float64) bool {
	return v > r.Max*2 || v < r.Min/2
}

// TypeSpec is the standards entry for a single component type.
type TypeSpec struct {
	Ranges   map[entity.DimField]Range     `yaml:"ranges"`
	Defaults map[string]float64            `yaml:"defaults"`
	Common   map[entity.DimField][]float64 `yaml:"common"`
}

// GeometryThresholds drive the polyline classification strategy.
type GeometryThresholds struct {
	WallMinSide   float64 `yaml:"wall_min_side"`
	ColumnMaxSide float64 `yaml:"column_max_side"`
}

type rawTable struct {
	Geometry GeometryThresholds  `yaml:"geometry"`
	Types    map[string]TypeSpec `yaml:"types"`
}

// Table is an immutable standards lookup, injected into the components
// that need it so tests can substitute their own tables.
type Table struct {
	geometry GeometryThresholds
	types    map[constants.ComponentType]TypeSpec
}

// Default parses the embedded standards document.
func Default() *Table {
	t, err := Parse(rawTables)
	if err != nil {
		// the embedded document is compiled in; a parse failure is a
		// build defect, not a runtime condition
		panic(fmt.Sprintf("standards: embedded tables: %v", err))
	}
	return t
}

// Parse builds a Table from a YAML document. Unknown type names are
// rejected so substituted tables fail loudly.
func Parse(doc []byte) (*Table, error) {
	var raw rawTable
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parse standards: %w", err)
	}
	types := make(map[constants.ComponentType]TypeSpec, len(raw.Types))
	for name, spec := range raw.Types {
		ct, ok := constants.Canonicalize(name)
		if !ok {
			return nil, fmt.Errorf("parse standards: unknown component type %q", name)
		}
		types[ct] = spec
	}
	return &Table{geometry: raw.Geometry, types: types}, nil
}

// Spec returns the entry for a component type.
func (t *Table) Spec(ct constants.ComponentType) (TypeSpec, bool) {
	spec, ok := t.types[ct]
	return spec, ok
}

// Range returns the legal interval for a (type, field) pair.
func (t *Table) Range(ct constants.ComponentType, f entity.DimField) (Range, bool) {
	spec, ok := t.types[ct]
	if !ok {
		return Range{}, false
	}
	r, ok := spec.Ranges[f]
	return r, ok
}

// Default returns the named fallback value for a type, or 0.
func (t *Table) Default(ct constants.ComponentType, key string) float64 {
	spec, ok := t.types[ct]
	if !ok {
		return 0
	}
	return spec.Defaults[key]
}

// CommonSizes returns the curated modular sizes for a (type, field).
func (t *Table) CommonSizes(ct constants.ComponentType, f entity.DimField) []float64 {
	spec, ok := t.types[ct]
	if !ok {
		return nil
	}
	return spec.Common[f]
}

// Geometry returns the polyline classification thresholds.
func (t *Table) Geometry() GeometryThresholds {
	return t.geometry
}

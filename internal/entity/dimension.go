package entity

import "sort"

// DimField names a slot in a DimensionSet.
type DimField string

const (
	FieldWidth    DimField = "width"
	FieldHeight   DimField = "height"
	FieldLength   DimField = "length"
	FieldDiameter DimField = "diameter"
)

// DimensionSet is a sparse mapping from dimension fields to positive
// values in canonical millimeters. A present diameter always implies
// width == height == diameter (circular cross-section).
type DimensionSet map[DimField]float64

// NewDimensionSet returns an empty set.
func NewDimensionSet() DimensionSet {
	return make(DimensionSet, 4)
}

// Has reports whether the field carries a positive value.
func (d DimensionSet) Has(f DimField) bool {
	v, ok := d[f]
	return ok && v > 0
}

// Get returns the field value, or 0 when absent.
func (d DimensionSet) Get(f DimField) float64 {
	return d[f]
}

// Set stores a positive value; non-positive values are ignored.
func (d DimensionSet) Set(f DimField, v float64) {
	if v <= 0 {
		return
	}
	d[f] = v
}

// SetDiameter stores a diameter and mirrors it into width and height,
// preserving the circular cross-section invariant.
func (d DimensionSet) SetDiameter(v float64) {
	if v <= 0 {
		return
	}
	d[FieldDiameter] = v
	d[FieldWidth] = v
	d[FieldHeight] = v
}

// IsEmpty reports whether no field is populated.
func (d DimensionSet) IsEmpty() bool {
	return len(d) == 0
}

// Count returns the number of populated fields.
func (d DimensionSet) Count() int {
	return len(d)
}

// Clone returns an independent copy.
func (d DimensionSet) Clone() DimensionSet {
	out := make(DimensionSet, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Fields returns the populated field names in a stable order.
func (d DimensionSet) Fields() []DimField {
	out := make([]DimField, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Merge fills fields from other without overwriting fields already
// present; the receiver keeps priority. A donor diameter is adopted only
// when it does not conflict with the receiver's cross-section, keeping
// width == height == diameter intact when a rectangular member borrows
// from a round neighbor. Width/height values mirrored off a rejected
// diameter are skipped with it.
func (d DimensionSet) Merge(other DimensionSet) {
	dia := other.Get(FieldDiameter)
	adoptDia := other.Has(FieldDiameter) &&
		(!d.Has(FieldDiameter) || d.Get(FieldDiameter) == dia) &&
		(!d.Has(FieldWidth) || d.Get(FieldWidth) == dia) &&
		(!d.Has(FieldHeight) || d.Get(FieldHeight) == dia)

	for k, v := range other {
		if k == FieldDiameter {
			continue
		}
		if !adoptDia && other.Has(FieldDiameter) && v == dia &&
			(k == FieldWidth || k == FieldHeight) {
			continue
		}
		if !d.Has(k) {
			d.Set(k, v)
		}
	}
	if adoptDia {
		d.SetDiameter(dia)
	}
	if d.Has(FieldDiameter) {
		dia := d.Get(FieldDiameter)
		if !d.Has(FieldWidth) {
			d.Set(FieldWidth, dia)
		}
		if !d.Has(FieldHeight) {
			d.Set(FieldHeight, dia)
		}
	}
}

// Equal reports whether both sets carry the same fields and values.
func (d DimensionSet) Equal(other DimensionSet) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// HasAll reports whether every named field is populated.
func (d DimensionSet) HasAll(fields ...DimField) bool {
	for _, f := range fields {
		if !d.Has(f) {
			return false
		}
	}
	return true
}

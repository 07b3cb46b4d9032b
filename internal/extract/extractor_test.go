package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structeng/takeoff/internal/entity"
)

func dims(pairs ...any) entity.DimensionSet {
	d := entity.NewDimensionSet()
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i].(entity.DimField), pairs[i+1].(float64))
	}
	return d
}

func TestExtractGrammars(t *testing.T) {
	e := New(nil)

	tests := []struct {
		name string
		in   string
		want entity.DimensionSet
	}{
		{"diameter phi", "φ500", dims(entity.FieldDiameter, 500.0, entity.FieldWidth, 500.0, entity.FieldHeight, 500.0)},
		{"diameter capital phi", "Φ600桩", dims(entity.FieldDiameter, 600.0, entity.FieldWidth, 600.0, entity.FieldHeight, 600.0)},
		{"diameter letter code", "D800", dims(entity.FieldDiameter, 800.0, entity.FieldWidth, 800.0, entity.FieldHeight, 800.0)},
		{"triple", "300×600×6000", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0, entity.FieldLength, 6000.0)},
		{"pair", "KL1 300×600", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"pair lowercase x", "300x600", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"pair with meters", "0.3m×0.6m", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"labeled pair", "b×h=250×500", dims(entity.FieldWidth, 250.0, entity.FieldHeight, 500.0)},
		{"paren pair", "250(500)", dims(entity.FieldWidth, 250.0, entity.FieldHeight, 500.0)},
		{"comma pair", "300,600", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"comma triple", "300,600,6000", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0, entity.FieldLength, 6000.0)},
		{"cjk comma", "300、600", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"dash pair", "300-600", dims(entity.FieldWidth, 300.0, entity.FieldHeight, 600.0)},
		{"bare thickness", "墙 200厚", dims(entity.FieldWidth, 200.0)},
		{"bare with round hint", "圆桩 800", dims(entity.FieldDiameter, 800.0, entity.FieldWidth, 800.0, entity.FieldHeight, 800.0)},
		{"no numbers", "剪力墙", entity.NewDimensionSet()},
		{"code digits are not dimensions", "KL1", entity.NewDimensionSet()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.in)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
		})
	}
}

// Precedence is part of the contract: an ambiguous dash reading must
// resolve as a cross-section pair unless a floor qualifier is present.
func TestExtractPrecedence(t *testing.T) {
	e := New(nil)

	got := e.Extract("300-600")
	assert.Equal(t, 300.0, got.Get(entity.FieldWidth))
	assert.Equal(t, 600.0, got.Get(entity.FieldHeight))

	floors := e.Extract("2-5层")
	assert.False(t, floors.Has(entity.FieldHeight),
		"floor range must never be read as a cross-section pair: %v", floors)

	// the qualifier is case-insensitive in Latin-script annotations
	floors = e.Extract("2-5 Floors")
	assert.False(t, floors.Has(entity.FieldHeight),
		"capitalized floor qualifier must suppress the dash grammar: %v", floors)

	// diameter outranks a pair in the same text
	mixed := e.Extract("φ500 300×600")
	require.True(t, mixed.Has(entity.FieldDiameter))
	assert.Equal(t, 500.0, mixed.Get(entity.FieldDiameter))
}

func TestExtractDiameterSymmetry(t *testing.T) {
	e := New(nil)
	for _, in := range []string{"φ500", "Φ1200", "D800", "圆柱 600"} {
		d := e.Extract(in)
		if !d.Has(entity.FieldDiameter) {
			continue
		}
		dia := d.Get(entity.FieldDiameter)
		assert.Equal(t, dia, d.Get(entity.FieldWidth), "width must equal diameter for %q", in)
		assert.Equal(t, dia, d.Get(entity.FieldHeight), "height must equal diameter for %q", in)
	}
}

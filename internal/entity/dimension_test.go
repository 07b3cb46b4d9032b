package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDiameterMirrorsCrossSection(t *testing.T) {
	d := NewDimensionSet()
	d.SetDiameter(500)

	assert.Equal(t, 500.0, d.Get(FieldDiameter))
	assert.Equal(t, 500.0, d.Get(FieldWidth))
	assert.Equal(t, 500.0, d.Get(FieldHeight))
}

func TestMergeKeepsReceiverPriority(t *testing.T) {
	d := NewDimensionSet()
	d.Set(FieldWidth, 250)

	other := NewDimensionSet()
	other.Set(FieldWidth, 300)
	other.Set(FieldHeight, 600)

	d.Merge(other)

	assert.Equal(t, 250.0, d.Get(FieldWidth))
	assert.Equal(t, 600.0, d.Get(FieldHeight))
}

func TestMergeMirrorsIncomingDiameter(t *testing.T) {
	d := NewDimensionSet()
	other := NewDimensionSet()
	other[FieldDiameter] = 400

	d.Merge(other)

	assert.Equal(t, 400.0, d.Get(FieldWidth))
	assert.Equal(t, 400.0, d.Get(FieldHeight))
}

func TestMergeRejectsConflictingDiameter(t *testing.T) {
	d := NewDimensionSet()
	d.Set(FieldWidth, 250)

	other := NewDimensionSet()
	other.SetDiameter(500)
	other.Set(FieldLength, 3000)

	d.Merge(other)

	assert.False(t, d.Has(FieldDiameter),
		"a diameter conflicting with the existing width must not be adopted")
	assert.Equal(t, 250.0, d.Get(FieldWidth))
	assert.False(t, d.Has(FieldHeight),
		"height mirrored off the rejected diameter must be skipped with it")
	assert.Equal(t, 3000.0, d.Get(FieldLength), "unrelated fields still merge")
}

func TestMergeAdoptsMatchingDiameter(t *testing.T) {
	d := NewDimensionSet()
	d.Set(FieldWidth, 500)

	other := NewDimensionSet()
	other.SetDiameter(500)

	d.Merge(other)

	assert.Equal(t, 500.0, d.Get(FieldDiameter))
	assert.Equal(t, 500.0, d.Get(FieldWidth))
	assert.Equal(t, 500.0, d.Get(FieldHeight))
}

func TestSetIgnoresNonPositive(t *testing.T) {
	d := NewDimensionSet()
	d.Set(FieldWidth, 0)
	d.Set(FieldHeight, -5)

	assert.True(t, d.IsEmpty())
	assert.False(t, d.Has(FieldWidth))
}

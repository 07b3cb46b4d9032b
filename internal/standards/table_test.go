package standards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
)

func TestDefaultTableCoversAllTypes(t *testing.T) {
	table := Default()
	for _, name := range constants.AsStringSlice() {
		ct, ok := constants.Canonicalize(name)
		require.True(t, ok)
		spec, ok := table.Spec(ct)
		require.True(t, ok, "missing standards entry for %s", name)
		assert.NotEmpty(t, spec.Ranges, "%s has no ranges", name)
		assert.NotEmpty(t, spec.Common, "%s has no common sizes", name)
	}
}

func TestRangeChecks(t *testing.T) {
	table := Default()

	r, ok := table.Range(constants.Beam, entity.FieldLength)
	require.True(t, ok)
	assert.True(t, r.Contains(6000))
	assert.False(t, r.Contains(500))
	assert.False(t, r.GrosslyOutside(500))   // below min but within 2x
	assert.True(t, r.GrosslyOutside(30000))  // more than twice the max
	assert.True(t, r.GrosslyOutside(400))    // less than half the min
}

func TestParseSubstitutedTable(t *testing.T) {
	doc := []byte(`
types:
  Beam:
    ranges:
      width: {min: 50, max: 100}
    common:
      width: [60, 80]
`)
	table, err := Parse(doc)
	require.NoError(t, err)

	r, ok := table.Range(constants.Beam, entity.FieldWidth)
	require.True(t, ok)
	assert.Equal(t, 50.0, r.Min)
	assert.Equal(t, []float64{60, 80}, table.CommonSizes(constants.Beam, entity.FieldWidth))

	_, ok = table.Spec(constants.Wall)
	assert.False(t, ok)
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse([]byte("types:\n  Girder9000:\n    ranges: {}\n"))
	assert.Error(t, err)
}

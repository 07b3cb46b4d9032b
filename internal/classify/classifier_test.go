package classify

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extmodel"
	"github.com/structeng/takeoff/internal/extract"
	"github.com/structeng/takeoff/internal/standards"
	"github.com/structeng/takeoff/pkg/geometry"
)

func newClassifier(t *testing.T, strategies ...Strategy) *Classifier {
	t.Helper()
	dict := DefaultDictionary()
	if len(strategies) == 0 {
		ex := extract.New(nil)
		strategies = []Strategy{
			NewKeywordStrategy(dict, ex),
			NewCodeStrategy(dict, ex),
			NewGeometryStrategy(standards.Default()),
		}
	}
	return New(nil, dict, strategies...)
}

func TestClassifyText(t *testing.T) {
	c := newClassifier(t)

	tests := []struct {
		in   string
		want constants.ComponentType
	}{
		{"KL1 300×600", constants.Beam},
		{"框架梁 300×600", constants.Beam},
		{"KZ1 500×500", constants.Column},
		{"剪力墙 200厚", constants.Wall},
		{"Q2 200", constants.Wall},
		{"楼板 120厚", constants.Slab},
		{"M1 900×2100", constants.Door},
		{"C2 1500×1800", constants.Window},
		{"楼梯 1200宽", constants.Stair},
		{"LT1", constants.Stair},
		{"某些别的文字", constants.Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.in), "text %q", tt.in)
	}
}

func TestRecognizeDiscardsUnknown(t *testing.T) {
	c := newClassifier(t)

	doc := entity.Document{Annotations: []entity.Annotation{
		{ID: "a1", Text: "只是一段说明文字"},
		{ID: "a2", Text: "300"},
	}}
	assert.Empty(t, c.Recognize(context.Background(), doc))
}

func TestRecognizeDeduplicatesKeepingMostComplete(t *testing.T) {
	dict := DefaultDictionary()
	ex := extract.New(nil)
	c := New(nil, dict, NewKeywordStrategy(dict, ex), NewCodeStrategy(dict, ex))

	// keyword and code strategies both hit this annotation; the merged
	// set must contain a single KL1 with its dimensions intact
	doc := entity.Document{Annotations: []entity.Annotation{
		{ID: "a1", Text: "梁KL1 300×600"},
	}}
	got := c.Recognize(context.Background(), doc)
	require.Len(t, got, 1)
	assert.Equal(t, constants.Beam, got[0].Type)
	assert.Equal(t, "KL1", got[0].Name)
	assert.Equal(t, 300.0, got[0].Dimensions.Get(entity.FieldWidth))
}

func TestRecognizeDeterministic(t *testing.T) {
	c := newClassifier(t)

	doc := entity.Document{Annotations: []entity.Annotation{
		{ID: "a1", Text: "KL1 300×600"},
		{ID: "a2", Text: "KZ1 φ500"},
		{ID: "a3", Text: "剪力墙Q1 200厚"},
		{ID: "a4", Text: "irrelevant"},
	}}

	key := func(comps []entity.Component) []string {
		keys := make([]string, 0, len(comps))
		for _, comp := range comps {
			keys = append(keys, string(comp.Type)+"|"+comp.Name)
		}
		sort.Strings(keys)
		return keys
	}

	first := c.Recognize(context.Background(), doc)
	second := c.Recognize(context.Background(), doc)
	assert.Equal(t, key(first), key(second))

	// no duplicate (type, name) pairs
	seen := map[string]bool{}
	for _, k := range key(first) {
		assert.False(t, seen[k], "duplicate pair %s", k)
		seen[k] = true
	}
}

func TestGeometryStrategy(t *testing.T) {
	s := NewGeometryStrategy(standards.Default())

	rect := func(id string, w, h float64) entity.Shape {
		return entity.Shape{ID: id, Polyline: geometry.Polyline{
			Closed: true,
			Points: []geometry.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}},
		}}
	}

	doc := entity.Document{Shapes: []entity.Shape{
		rect("s1", 6000, 200),  // long and thin: wall
		rect("s2", 500, 500),   // compact: column
		rect("s3", 1350, 1350), // between thresholds: unclassified
		{ID: "s4", Polyline: geometry.Polyline{Closed: false, Points: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
	}}

	got, err := s.Recognize(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, constants.Wall, got[0].Type)
	assert.Equal(t, 200.0, got[0].Dimensions.Get(entity.FieldWidth))
	assert.Equal(t, 6000.0, got[0].Dimensions.Get(entity.FieldLength))
	assert.Equal(t, constants.Column, got[1].Type)
}

type fakeModel struct {
	candidates []extmodel.Candidate
	err        error
}

func (f fakeModel) ClassifyBatch(_ context.Context, _ []string) ([]extmodel.Candidate, error) {
	return f.candidates, f.err
}

func TestExternalStrategyMergesLikeAnyOther(t *testing.T) {
	model := fakeModel{candidates: []extmodel.Candidate{
		{Type: "Beam", Name: "KL9", Dimensions: map[string]float64{"width": 250, "height": 500}},
		{Type: "Nonsense", Name: "X1"},
	}}
	c := newClassifier(t, NewExternalStrategy(model, 10))

	doc := entity.Document{Annotations: []entity.Annotation{{ID: "a", Text: "KL9"}}}
	got := c.Recognize(context.Background(), doc)
	require.Len(t, got, 1)
	assert.Equal(t, constants.Beam, got[0].Type)
	assert.Equal(t, 500.0, got[0].Dimensions.Get(entity.FieldHeight))
}

func TestExternalStrategyAttributesSource(t *testing.T) {
	model := fakeModel{candidates: []extmodel.Candidate{
		{Type: "Beam", Name: "KL9"},
		{Type: "Column", Name: "Z404"},
	}}
	st := NewExternalStrategy(model, 10)

	doc := entity.Document{Annotations: []entity.Annotation{
		{ID: "a1", Text: "随手记"},
		{ID: "a2", Text: "KL9 250×500"},
	}}
	comps, err := st.Recognize(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, comps, 2)

	require.Len(t, comps[0].Sources, 1, "candidate names match the annotation they came from")
	assert.Equal(t, "a2", comps[0].Sources[0].ID)
	assert.Empty(t, comps[1].Sources, "a name no sample produced stays unattributed")
}

func TestFailingStrategyIsIsolated(t *testing.T) {
	broken := NewExternalStrategy(fakeModel{err: errors.New("model offline")}, 10)
	dict := DefaultDictionary()
	ex := extract.New(nil)
	c := New(nil, dict, broken, NewCodeStrategy(dict, ex))

	doc := entity.Document{Annotations: []entity.Annotation{{ID: "a", Text: "KL1 300×600"}}}
	got := c.Recognize(context.Background(), doc)
	require.Len(t, got, 1, "a failing strategy must not abort the pass")
	assert.Equal(t, constants.Beam, got[0].Type)
}

func TestDictionaryHasTerm(t *testing.T) {
	dict := DefaultDictionary()
	assert.True(t, dict.HasTerm("KL1"))
	assert.True(t, dict.HasTerm("剪力墙"))
	assert.False(t, dict.HasTerm("widget"))
	assert.False(t, dict.HasTerm(""))
}

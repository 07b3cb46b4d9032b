package confidence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/classify"
	"github.com/structeng/takeoff/internal/common"
	"github.com/structeng/takeoff/internal/entity"
	"github.com/structeng/takeoff/internal/extmodel"
	"github.com/structeng/takeoff/internal/extract"
	"github.com/structeng/takeoff/internal/standards"
	"github.com/structeng/takeoff/internal/supplement"
	"github.com/structeng/takeoff/internal/validate"
	"github.com/structeng/takeoff/pkg/geometry"
)

func newPipeline(t *testing.T, cfg Config, model extmodel.Client) *Pipeline {
	t.Helper()
	table := standards.Default()
	dict := classify.DefaultDictionary()
	ex := extract.New(nil)
	classifier := classify.New(nil, dict,
		classify.NewKeywordStrategy(dict, ex),
		classify.NewCodeStrategy(dict, ex),
		classify.NewGeometryStrategy(table),
	)
	sup := supplement.New(nil, supplement.Config{}, table, ex)
	p, err := New(nil, cfg, classifier, sup, validate.New(table), table, model)
	require.NoError(t, err)
	return p
}

func annotated(texts ...string) entity.Document {
	doc := entity.Document{}
	for i, text := range texts {
		doc.Annotations = append(doc.Annotations, entity.Annotation{
			ID:       string(rune('a' + i)),
			Text:     text,
			Position: geometry.NewPoint(float64(i)*10000, 0),
		})
	}
	return doc
}

func TestPipelineRejectsBadThreshold(t *testing.T) {
	table := standards.Default()
	_, err := New(nil, Config{Threshold: 1.5}, nil, nil, nil, table, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = New(nil, Config{Threshold: -0.1}, nil, nil, nil, table, nil)
	assert.Error(t, err)
}

func TestPipelineAcceptsCleanBeam(t *testing.T) {
	p := newPipeline(t, Config{}, nil)

	comps, recs, err := p.Run(context.Background(), annotated("KL1 300×600"))
	require.NoError(t, err)
	require.Len(t, comps, 1)
	require.Len(t, recs, 1)
	assert.Equal(t, constants.Beam, comps[0].Type)
	assert.Equal(t, 6000.0, comps[0].Dimensions.Get(entity.FieldLength))
	assert.True(t, recs[0].Passed)
	assert.Equal(t, 1.0, recs[0].Score)
}

func TestPipelineDropsLowConfidence(t *testing.T) {
	p := newPipeline(t, Config{}, nil)

	// a lone wall annotation with an off-modulus thickness draws
	// validator warnings and misses the 0.95 bar
	comps, recs, err := p.Run(context.Background(), annotated("剪力墙 226厚"))
	require.NoError(t, err)
	assert.Empty(t, comps)
	assert.Empty(t, recs, "records exist only for surviving components")
}

func TestPipelineStandardsCorrection(t *testing.T) {
	p := newPipeline(t, Config{Threshold: 0.5}, nil)

	// 0.3×0.6 entered as raw numbers: metres mistaken for millimetres
	comps, recs, err := p.Run(context.Background(), annotated("KL8 0.3×0.6"))
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, 300.0, comps[0].Dimensions.Get(entity.FieldWidth))
	assert.Equal(t, 600.0, comps[0].Dimensions.Get(entity.FieldHeight))
	assert.True(t, comps[0].Meta.Corrected)
	require.Len(t, recs, 1)
	assert.Less(t, recs[0].Score, 1.0, "corrected components pay a deduction")
}

func TestPipelineContextInference(t *testing.T) {
	p := newPipeline(t, Config{Threshold: 0.5}, nil)

	// two complete KL members plus a bare beam keyword with no dims;
	// the bare one borrows the most frequent complete set
	doc := annotated("KL1 300×600", "KL2 300×600", "梁L9")
	comps, _, err := p.Run(context.Background(), doc)
	require.NoError(t, err)

	var inferred *entity.Component
	for i := range comps {
		if comps[i].Meta.InferredFromContext {
			inferred = &comps[i]
		}
	}
	require.NotNil(t, inferred, "the incomplete beam must borrow context dims")
	assert.Equal(t, 300.0, inferred.Dimensions.Get(entity.FieldWidth))
	assert.Equal(t, 600.0, inferred.Dimensions.Get(entity.FieldHeight))
}

func TestPipelineConfidenceMonotonicity(t *testing.T) {
	p := newPipeline(t, Config{}, nil)

	full := entity.NewComponent(constants.Beam, "KL1", constants.StrategyKeyword)
	full.Dimensions.Set(entity.FieldWidth, 300)
	full.Dimensions.Set(entity.FieldHeight, 600)
	full.Dimensions.Set(entity.FieldLength, 6000)

	partial := entity.NewComponent(constants.Beam, "KL1", constants.StrategyKeyword)
	partial.Dimensions.Set(entity.FieldWidth, 300)
	partial.Dimensions.Set(entity.FieldHeight, 600)

	assert.Greater(t, p.score(full).Score, p.score(partial).Score,
		"removing a required dimension must strictly decrease confidence")
}

func TestPipelineExternalHook(t *testing.T) {
	model := fakeModel{candidates: []extmodel.Candidate{
		{Type: "Beam", Name: "KL1", Dimensions: map[string]float64{"length": 7200}},
	}}
	p := newPipeline(t, Config{Threshold: 0.5}, model)

	comps, _, err := p.Run(context.Background(), annotated("KL1 300×600 L=7.2"))
	require.NoError(t, err)
	require.Len(t, comps, 1)
	// span token already set the length; the hook must not overwrite it
	assert.Equal(t, 7200.0, comps[0].Dimensions.Get(entity.FieldLength))
}

func TestPipelineExternalDiameterConflictRejected(t *testing.T) {
	model := fakeModel{candidates: []extmodel.Candidate{
		{Type: "Beam", Name: "KL1", Dimensions: map[string]float64{"diameter": 500}},
	}}
	p := newPipeline(t, Config{Threshold: 0.5}, model)

	comps, _, err := p.Run(context.Background(), annotated("KL1 300×600"))
	require.NoError(t, err)
	require.Len(t, comps, 1)

	d := comps[0].Dimensions
	assert.False(t, d.Has(entity.FieldDiameter),
		"an external diameter conflicting with the extracted cross-section must be rejected")
	assert.Equal(t, 300.0, d.Get(entity.FieldWidth))
	assert.Equal(t, 600.0, d.Get(entity.FieldHeight))
}

func TestPipelineSurvivesFailingHook(t *testing.T) {
	p := newPipeline(t, Config{}, fakeModel{err: assert.AnError})

	comps, _, err := p.Run(context.Background(), annotated("KL1 300×600"))
	require.NoError(t, err, "a failing external hook must degrade, not abort")
	assert.Len(t, comps, 1)
}

type fakeModel struct {
	candidates []extmodel.Candidate
	err        error
}

func (f fakeModel) ClassifyBatch(_ context.Context, _ []string) ([]extmodel.Candidate, error) {
	return f.candidates, f.err
}

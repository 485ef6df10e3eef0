package selection

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/fixture"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, opts ...fixture.Option) *loader.Document {
	t.Helper()
	doc, err := loader.NewLoader().LoadBytes("fixture.glb", fixture.GLB(opts...))
	require.NoError(t, err)
	return doc
}

func TestSelectRoutes(t *testing.T) {
	doc := loadFixture(t)

	tests := []struct {
		path     string
		kind     Kind
		accessor int
	}{
		{"/skins/0", KindSkin, -1},
		{"/skins/0/joints", KindSkin, -1},
		{"/skins/0/inverseBindMatrices", KindAccessor, 0},
		{"/accessors/1", KindAccessor, 1},
		{"/accessors/2/count", KindAccessor, 2},
		{"/meshes/0/primitives/0/indices", KindAccessor, 2},
		{"/meshes/0/primitives/0/attributes/POSITION", KindAccessor, 1},
		{"/nodes/2", KindNode, -1},
		{"/nodes/2/name", KindJSON, -1},
		{"/asset", KindJSON, -1},
		{"/", KindJSON, -1},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res, err := Select(doc, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.Kind)
			assert.NotEmpty(t, res.Text)
			if tt.accessor >= 0 {
				require.NotNil(t, res.Accessor)
				assert.Equal(t, tt.accessor, res.Accessor.Index())
			}
		})
	}
}

func TestSelectSkinReportText(t *testing.T) {
	doc := loadFixture(t, fixture.WithTranslationError(0, [3]float32{0.5, 0, 0}))

	res, err := Select(doc, "/skins/0")
	require.NoError(t, err)
	require.NotNil(t, res.Skin)
	assert.Equal(t, 1, res.Skin.Mismatches())
	assert.Equal(t, res.Skin.String(), res.Text)
	assert.True(t, strings.HasPrefix(res.Text, "[1:hips] (-0.500, -3.000, -3.000), (1.000, 3.000, 3.000)X\n"))
}

func TestSelectAccessorText(t *testing.T) {
	doc := loadFixture(t)

	res, err := Select(doc, "/meshes/0/primitives/0/indices")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(res.Text, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "accessor 2: UNSIGNED_SHORT SCALAR x3 (stride 2)", lines[0])
	assert.Contains(t, lines[4], "00002")
	assert.Contains(t, lines[4], "2.000")
}

func TestSelectJSONFallback(t *testing.T) {
	doc := loadFixture(t)

	res, err := Select(doc, "/nodes/0/translation")
	require.NoError(t, err)
	assert.Equal(t, KindJSON, res.Kind)
	assert.Equal(t, "/nodes/0/translation\n[1, 2, 3]", res.Text)
}

func TestSelectNodeSummary(t *testing.T) {
	doc := loadFixture(t)

	res, err := Select(doc, "/nodes/2")
	require.NoError(t, err)
	require.NotNil(t, res.Node)
	assert.Equal(t, "[2:spine] parent 1, depth 2, children []\n"+
		"local (0.000, 0.500, 0.000)\n"+
		"world (1.000, 3.500, 3.000)\n", res.Text)
}

func TestSelectErrors(t *testing.T) {
	doc := loadFixture(t)

	_, err := Select(doc, "/skins/4")
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)

	_, err = Select(nil, "/skins/0")
	assert.ErrorIs(t, err, common.ErrDataIntegrity)

	short := loadFixture(t)
	short.Buffers = [][]byte{short.Buffers[0][:64]}
	_, err = Select(short, "/skins/0/inverseBindMatrices")
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestWithValidatorTolerance(t *testing.T) {
	doc := loadFixture(t, fixture.WithTranslationError(1, [3]float32{0, 0, 0.01}))

	res, err := Select(doc, "/skins/0")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skin.Mismatches())

	res, err = NewSelector(WithValidator(skin.NewValidator(skin.WithTolerance(0.1)))).Select(doc, "/skins/0")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skin.Mismatches())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "skin", KindSkin.String())
	assert.Equal(t, "accessor", KindAccessor.String())
	assert.Equal(t, "node", KindNode.String())
	assert.Equal(t, "json", KindJSON.String())
}

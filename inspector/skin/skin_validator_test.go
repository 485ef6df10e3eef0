package skin

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/fixture"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, src string) (*gltf.Document, *scene.Hierarchy) {
	t.Helper()
	doc := new(gltf.Document)
	require.NoError(t, json.Unmarshal([]byte(src), doc))
	tree, err := gltfjson.Parse([]byte(src))
	require.NoError(t, err)
	h, err := scene.Build(tree)
	require.NoError(t, err)
	return doc, h
}

func TestValidateBindPoseHasNoMismatch(t *testing.T) {
	doc, h := load(t, fixture.JSON)

	r, err := Validate(doc, [][]byte{fixture.BIN()}, h, 0)
	require.NoError(t, err)

	require.Len(t, r.Joints, 2)
	assert.Equal(t, 0, r.Mismatches())
	assert.Equal(t, "rig", r.Name)
	assert.Equal(t,
		"[1:hips] (-1.000, -3.000, -3.000), (1.000, 3.000, 3.000)\n"+
			"[2:spine] (-1.000, -3.500, -3.000), (1.000, 3.500, 3.000)\n",
		r.String())
}

func TestValidateFlagsOffsetAxisOnly(t *testing.T) {
	doc, h := load(t, fixture.JSON)
	bin := fixture.BIN(fixture.WithTranslationError(1, [3]float32{0, 0.01, 0}))

	r, err := Validate(doc, [][]byte{bin}, h, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Mismatches())
	assert.Equal(t, "", r.Joints[0].Marker())
	assert.Equal(t, "Y", r.Joints[1].Marker())
	assert.True(t, strings.HasSuffix(r.Joints[1].Line(), ")Y"))
}

func TestValidateTolerance(t *testing.T) {
	doc, h := load(t, fixture.JSON)
	bin := fixture.BIN(fixture.WithTranslationError(0, [3]float32{0.01, 0, -0.01}))

	r, err := NewValidator().Validate(doc, [][]byte{bin}, h, 0)
	require.NoError(t, err)
	assert.Equal(t, "XZ", r.Joints[0].Marker())

	loose := NewValidator(WithTolerance(0.1))
	assert.Equal(t, float32(0.1), loose.Tolerance())
	r, err = loose.Validate(doc, [][]byte{bin}, h, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Mismatches())

	assert.Equal(t, DefaultTolerance, NewValidator(WithTolerance(-1)).Tolerance())
}

func TestValidateErrors(t *testing.T) {
	doc, h := load(t, fixture.JSON)
	bin := [][]byte{fixture.BIN()}

	_, err := Validate(doc, bin, h, 1)
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)

	_, err = Validate(doc, bin, h, -1)
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)

	_, err = Validate(nil, bin, h, 0)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)

	_, err = Validate(doc, [][]byte{fixture.BIN()[:100]}, h, 0)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestValidateJointCountMismatch(t *testing.T) {
	src := strings.Replace(fixture.JSON, `"joints": [1, 2]`, `"joints": [1, 2, 0]`, 1)
	doc, h := load(t, src)

	r, err := Validate(doc, [][]byte{fixture.BIN()}, h, 0)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, common.ErrDataIntegrity)
}

func TestValidateJointOutOfRange(t *testing.T) {
	src := strings.Replace(fixture.JSON, `"joints": [1, 2]`, `"joints": [1, 9]`, 1)
	doc, h := load(t, src)

	_, err := Validate(doc, [][]byte{fixture.BIN()}, h, 0)
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)
}

func TestValidateWithoutInverseBindMatrices(t *testing.T) {
	src := strings.Replace(fixture.JSON, `, "inverseBindMatrices": 0`, ``, 1)
	doc, h := load(t, src)

	_, err := Validate(doc, [][]byte{fixture.BIN()}, h, 0)
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

package inspector

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-loupe/common"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/fixture"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/selection"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestQueriesBeforeOpen(t *testing.T) {
	in := NewInspector(WithLogger(quietLogger(new(bytes.Buffer))))

	assert.Nil(t, in.Current())
	_, err := in.Select("/skins/0")
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = in.SkinReport(0)
	assert.ErrorIs(t, err, ErrNoDocument)
	_, err = in.AccessorTable(0)
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestOpenBytesInstallsDocument(t *testing.T) {
	var changes []string
	in := NewInspector(
		WithLogger(quietLogger(new(bytes.Buffer))),
		WithOnChange(func(prev, next *loader.Document) {
			name := "<nil>"
			if prev != nil {
				name = prev.Name
			}
			changes = append(changes, name+"->"+next.Name)
		}),
	)

	doc, err := in.OpenBytes("a.glb", fixture.GLB())
	require.NoError(t, err)
	assert.Same(t, doc, in.Current())

	_, err = in.OpenBytes("b.glb", fixture.GLB())
	require.NoError(t, err)
	assert.Equal(t, []string{"<nil>->a.glb", "a.glb->b.glb"}, changes)

	r, err := in.SkinReport(0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Mismatches())

	table, err := in.AccessorTable(1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(table, "accessor 1: FLOAT VEC3 x3 (stride 12)\n"))

	res, err := in.Select("/skins/0/inverseBindMatrices")
	require.NoError(t, err)
	assert.Equal(t, selection.KindAccessor, res.Kind)
}

func TestFailedOpenKeepsPreviousDocument(t *testing.T) {
	var logs bytes.Buffer
	calls := 0
	in := NewInspector(
		WithLogger(quietLogger(&logs)),
		WithOnChange(func(_, _ *loader.Document) { calls++ }),
	)

	good, err := in.OpenBytes("good.glb", fixture.GLB())
	require.NoError(t, err)

	broken := fixture.GLB()
	broken[0] = 'X'
	doc, err := in.OpenBytes("broken.glb", broken)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, common.ErrFormat)

	assert.Same(t, good, in.Current())
	assert.Equal(t, 1, calls)
	assert.Contains(t, logs.String(), `msg="open failed"`)
	assert.Contains(t, logs.String(), "kept=good.glb")
}

func TestOpenFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.vrm")
	require.NoError(t, os.WriteFile(path, fixture.GLB(), 0o644))

	in := NewInspector(WithLogger(quietLogger(new(bytes.Buffer))))
	doc, err := in.Open(path)
	require.NoError(t, err)
	assert.Equal(t, loader.FormatGLB, doc.Format)

	_, err = in.Open(filepath.Join(t.TempDir(), "missing.glb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Same(t, doc, in.Current())
}

func TestWithValidatorAppliesToReportsAndSelection(t *testing.T) {
	in := NewInspector(
		WithLogger(quietLogger(new(bytes.Buffer))),
		WithValidator(skin.NewValidator(skin.WithTolerance(0.1))),
	)
	_, err := in.OpenBytes("off.glb", fixture.GLB(fixture.WithTranslationError(0, [3]float32{0.05, 0, 0})))
	require.NoError(t, err)

	r, err := in.SkinReport(0)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Mismatches())

	res, err := in.Select("/skins/0")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skin.Mismatches())
}

func TestReadersSeeCompleteDocuments(t *testing.T) {
	in := NewInspector(WithLogger(quietLogger(new(bytes.Buffer))))
	_, err := in.OpenBytes("seed.glb", fixture.GLB())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				doc := in.Current()
				if assert.NotNil(t, doc) {
					assert.Len(t, doc.Buffers, 1)
					assert.Equal(t, 4, doc.Hierarchy.Len())
				}
			}
		}()
	}
	for i := range 20 {
		data := fixture.GLB()
		if i%2 == 1 {
			data = data[:30]
		}
		_, _ = in.OpenBytes("swap.glb", data)
	}
	wg.Wait()
}

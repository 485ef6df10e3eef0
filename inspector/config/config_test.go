package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-loupe/inspector/fixture"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/glb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "DEBUG"

[glb]
unknown_chunks = "skip"
require_bin = false

[skin]
tolerance = 1e-3
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "skip", c.GLB.UnknownChunks)
	assert.Equal(t, "reject", c.GLB.DuplicateChunks)
	assert.False(t, c.GLB.RequireBIN)
	assert.InDelta(t, 1e-3, c.Skin.Tolerance, 1e-9)
	assert.Equal(t, Default().Check.Workers, c.Check.Workers)
	assert.Equal(t, ColorAuto, c.Output.Color)

	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown policy", "[glb]\nunknown_chunks = \"ignore\""},
		{"duplicate policy", "[glb]\nduplicate_chunks = \"merge\""},
		{"log level", `log_level = "loud"`},
		{"color", "[output]\ncolor = \"rainbow\""},
		{"negative workers", "[check]\nworkers = -2"},
		{"negative tolerance", "[skin]\ntolerance = -1.0"},
		{"unknown key", `colour = "never"`},
		{"syntax", `log_level = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestReaderOptionsDriveContainerReader(t *testing.T) {
	data := glb.EncodeChunks(
		glb.Chunk{Type: glb.ChunkJSON, Data: []byte(`{"a":1}`)},
		glb.Chunk{Type: glb.ChunkType(0x54534554), Data: []byte{0, 0, 0, 0}},
	)

	def, err := Default().ReaderOptions()
	require.NoError(t, err)
	_, err = glb.NewReader(def...).Parse(data)
	assert.ErrorIs(t, err, glb.ErrUnknownChunk)

	c, err := Parse([]byte("[glb]\nunknown_chunks = \"skip\"\nrequire_bin = false"))
	require.NoError(t, err)
	opts, err := c.ReaderOptions()
	require.NoError(t, err)
	got, err := glb.NewReader(opts...).Parse(data)
	require.NoError(t, err)
	assert.Len(t, got.Skipped, 1)
	assert.Nil(t, got.BIN)

	_, err = glb.NewReader(opts...).Parse(fixture.GLB())
	assert.NoError(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if p := DefaultPath(); p != "" {
		assert.Equal(t, "config.toml", filepath.Base(p))
		assert.Equal(t, "oxy-loupe", filepath.Base(filepath.Dir(p)))
	}
}

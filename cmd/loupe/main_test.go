package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the watch goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type env struct {
	dir    string
	config string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level = \"error\"\n\n[output]\ncolor = \"never\"\n"), 0o644))
	return env{dir: dir, config: cfg}
}

func (e env) write(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func (e env) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", e.config}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestInfo(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "model.glb", fixture.GLB())

	code, out, _ := e.run("info", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "format")
	assert.Contains(t, out, "glb")
	assert.Contains(t, out, "oxy-loupe fixture")
	assert.Regexp(t, `skins\s+1`, out)
	assert.Regexp(t, `bin chunk\s+172 bytes`, out)
}

func TestJSONSubtree(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "model.glb", fixture.GLB())

	code, out, _ := e.run("json", path, "/nodes/1/translation")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "[0, 1, 0]\n", out)
}

func TestTree(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "model.glb", fixture.GLB())

	code, out, _ := e.run("tree", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, "[0:root] (1.000, 2.000, 3.000)\n"+
		"  [1:hips] (1.000, 3.000, 3.000)\n"+
		"    [2:spine] (1.000, 3.500, 3.000)\n"+
		"  [3:body] (1.000, 2.000, 3.000)\n", out)
}

func TestSkinReport(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "off.glb", fixture.GLB(fixture.WithTranslationError(1, [3]float32{0, 0.01, 0})))

	code, out, _ := e.run("skin", path, "all")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "skin 0: rig\n")
	assert.Contains(t, out, "[2:spine] (-1.000, -3.490, -3.000), (1.000, 3.500, 3.000)Y\n")
	assert.Contains(t, out, "1/2 joints mismatched")
}

func TestAccessorAndSelect(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "model.glb", fixture.GLB())

	code, out, _ := e.run("accessor", path, "1")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "accessor 1: FLOAT VEC3 x3 (stride 12)\n"))

	code, out, _ = e.run("select", path, "/skins/0/inverseBindMatrices")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "accessor 0: FLOAT MAT4 x2 (stride 64)\n"))

	code, out, _ = e.run("select", path, "/asset/version")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "/asset/version\n\"2.0\"\n", out)
}

func TestCheck(t *testing.T) {
	e := newEnv(t)
	good := e.write(t, "good.glb", fixture.GLB())
	off := e.write(t, "off.vrm", fixture.GLB(fixture.WithTranslationError(0, [3]float32{1, 0, 0})))
	broken := e.write(t, "broken.glb", fixture.GLB()[:20])

	code, out, _ := e.run("check", good)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "ok   "+good+": 1 skins, 2 joints")

	code, out, errOut := e.run("check", good, off, broken)
	assert.Equal(t, exitFailure, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ok"))
	assert.Equal(t, "FAIL "+off+": 1/2 joints mismatched in 1 skins", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "FAIL "+broken+": "))
	assert.Contains(t, errOut, "2 of 3 files failed")
}

// stopRecorder counts Stop calls on the wrapped pool.
type stopRecorder struct {
	worker.DynamicWorkerPool
	stops *int
}

func (r stopRecorder) Stop() {
	*r.stops++
	r.DynamicWorkerPool.Stop()
}

func TestCheckStopsPool(t *testing.T) {
	stops, created := 0, 0
	orig := newPool
	t.Cleanup(func() { newPool = orig })
	newPool = func(workers, queue int, idle time.Duration) worker.DynamicWorkerPool {
		created++
		return stopRecorder{DynamicWorkerPool: orig(workers, queue, idle), stops: &stops}
	}

	e := newEnv(t)
	good := e.write(t, "good.glb", fixture.GLB())
	broken := e.write(t, "broken.glb", fixture.GLB()[:20])

	for range 3 {
		code, out, _ := e.run("check", good)
		require.Equal(t, exitOK, code)
		assert.Contains(t, out, "ok   "+good)
	}
	code, _, _ := e.run("check", good, broken)
	assert.Equal(t, exitFailure, code)

	assert.Equal(t, 4, created)
	assert.Equal(t, created, stops)
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "model.glb", fixture.GLB())

	code, _, _ := e.run()
	assert.Equal(t, exitUsage, code)
	code, _, _ = e.run("frobnicate", path)
	assert.Equal(t, exitUsage, code)
	code, _, _ = e.run("accessor", path, "one")
	assert.Equal(t, exitUsage, code)
	code, _, _ = e.run("-log-level", "loud", "info", path)
	assert.Equal(t, exitUsage, code)

	code, _, errOut := e.run("accessor", path, "9")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "accessor 9")

	code, _, _ = e.run("info", filepath.Join(e.dir, "missing.glb"))
	assert.Equal(t, exitFailure, code)
}

func TestBadConfig(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.config, []byte("[glb]\nunknown_chunks = \"maybe\"\n"), 0o644))

	code, _, errOut := e.run("info", "x.glb")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "unknown_chunks")
}

func TestWatchReloadsAndKeepsDocumentOnFailure(t *testing.T) {
	e := newEnv(t)
	path := e.write(t, "live.glb", fixture.GLB())

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-config", e.config, "watch", path, "/skins/0"}, out, &syncBuffer{})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "0/2 joints mismatched")
	}, 5*time.Second, 20*time.Millisecond)
	// Give the watcher time to register before the first write.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, fixture.GLB()[:16], 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "reload failed, keeping previous document")
	}, 5*time.Second, 20*time.Millisecond)

	bad := fixture.GLB(fixture.WithTranslationError(0, [3]float32{0, 0, 1}))
	require.NoError(t, os.WriteFile(path, bad, 0o644))
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "1/2 joints mismatched")
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsShaderFile(t *testing.T) {
	for _, name := range []string{"a.glsl", "b.vert", "c.frag", "d.vs", "e.fs", "F.FRAG"} {
		assert.True(t, IsShaderFile(name), name)
	}
	for _, name := range []string{"a.txt", "glsl", "b.vert.bak", ""} {
		assert.False(t, IsShaderFile(name), name)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/quad.vert":        {Data: []byte("vert")},
		"shaders/trace.frag":       {Data: []byte(`#include "common.glsl"`)},
		"shaders/common.glsl":      {Data: []byte("common")},
		"shaders/README.md":        {Data: []byte("docs")},
		"shaders/nested/deep.glsl": {Data: []byte("deep")},
	}
	s, err := LoadFS(fsys, "shaders")
	require.NoError(t, err)
	assert.Equal(t, Sources{
		"quad.vert":   "vert",
		"trace.frag":  `#include "common.glsl"`,
		"common.glsl": "common",
	}, s)

	_, err = LoadFS(fsys, "absent")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := Sources{"a": "1", "b": "2"}
	out := base.Merge(map[string]string{"b": "3", "c": "4"})
	assert.Equal(t, Sources{"a": "1", "b": "3", "c": "4"}, out)
	assert.Equal(t, "2", base["b"])
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.frag"), []byte("one"), 0644))

	reloads := make(chan Sources, 8)
	w, err := Watch(dir, func(s Sources) { reloads <- s })
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.frag"), []byte("two"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.glsl"), []byte("inc"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		var s Sources
		select {
		case s = <-reloads:
		case <-deadline:
			t.Fatal("no reload observed")
		}
		if s["a.frag"] == "two" && s["b.glsl"] == "inc" {
			break
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchMissingDir(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "absent"), func(Sources) {})
	assert.Error(t, err)
}

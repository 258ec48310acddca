package renderer

import (
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/graphics/graphicstest"
	"github.com/richinsley/glkit/shader"
	"github.com/richinsley/glkit/sources"
)

const passFragment = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform float u_time;
void main() { fragColor = vec4(frag_uv, sin(u_time), 1.0); }
`

func newTestRenderer(t *testing.T) (*Renderer, *graphicstest.Driver) {
	t.Helper()
	d := graphicstest.New()
	d.Attribs["in_vert"] = 0
	d.Uniforms["u_time"] = 1
	d.Uniforms["u_resolution"] = 2
	d.Uniforms["u_previous"] = 3
	d.Uniforms["u_texture"] = 4

	r, err := New(d, Config{
		Width:    64,
		Height:   32,
		Vertex:   shader.QuadVertex,
		Fragment: "pass.frag",
	}, sources.Sources{"pass.frag": passFragment})
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	return r, d
}

func TestNewBuildsQuadAndTargets(t *testing.T) {
	r, d := newTestRenderer(t)

	assert.Equal(t, 8, r.quad.Stride())
	assert.Equal(t, 6, r.indices.Len())
	assert.Equal(t, 2, d.Count("LinkProgram"), "pass and blit")
	assert.Equal(t, 2, d.Count("CheckFramebufferStatus"), "one per ping-pong buffer")
}

func TestNewReportsCompileFailure(t *testing.T) {
	d := graphicstest.New()
	_, err := New(d, Config{Width: 4, Height: 4, Vertex: shader.QuadVertex, Fragment: "missing.frag"}, nil)

	var missing *shader.MissingSourceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "missing.frag", missing.Name)
}

func TestRenderFrameDrawsAndSwaps(t *testing.T) {
	r, d := newTestRenderer(t)
	before := r.target.Read()
	d.Reset()

	r.RenderFrame(1.5, [4]float32{})

	assert.Equal(t, 1, r.Frame())
	assert.NotSame(t, before, r.target.Read(), "written buffer becomes readable")
	require.Equal(t, 1, d.Count("DrawElements"))
	assert.Equal(t, []any{graphics.Enum(graphics.TRIANGLES), 6, graphics.Enum(graphics.UNSIGNED_SHORT), 0}, d.Named("DrawElements")[0].Args)

	times := d.Named("Uniform1f")
	require.Len(t, times, 1)
	assert.Equal(t, float32(1.5), times[0].Args[1])

	// u_previous samples the buffer read this frame on its own unit.
	samplers := d.Named("Uniform1i")
	require.NotEmpty(t, samplers)
	assert.Contains(t, samplers, graphicstest.Call{Name: "Uniform1i", Args: []any{graphics.Uniform{V: 3}, unitPrevious}})

	assert.Empty(t, d.Enabled[0], "quad attributes released after the draw")
}

func TestRenderFrameSkipsAbsentSamplers(t *testing.T) {
	r, d := newTestRenderer(t)
	delete(d.Uniforms, "u_previous")
	d.Reset()

	r.RenderFrame(0, [4]float32{})

	for _, c := range d.Named("Uniform1i") {
		assert.NotEqual(t, unitPrevious, c.Args[1])
	}
}

func TestReloadKeepsProgramOnFailure(t *testing.T) {
	r, d := newTestRenderer(t)
	old := r.pass

	d.CompileLogs[graphics.FRAGMENT_SHADER] = "0:1: syntax error"
	err := r.Reload(sources.Sources{"pass.frag": "broken"})
	var compileErr *shader.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Same(t, old, r.pass)

	delete(d.CompileLogs, graphics.FRAGMENT_SHADER)
	require.NoError(t, r.Reload(sources.Sources{"pass.frag": passFragment}))
	assert.NotSame(t, old, r.pass)
}

func TestQueueReloadAppliesLatestOnNextFrame(t *testing.T) {
	r, d := newTestRenderer(t)
	d.Reset()

	r.QueueReload(sources.Sources{"pass.frag": "first"})
	r.QueueReload(sources.Sources{"pass.frag": passFragment})
	assert.Zero(t, d.Count("LinkProgram"), "nothing compiles off the GL thread")

	r.RenderFrame(0, [4]float32{})
	assert.Equal(t, 1, d.Count("LinkProgram"))
	var compiled []string
	for _, c := range d.Named("ShaderSource") {
		compiled = append(compiled, c.Args[1].(string))
	}
	assert.Contains(t, compiled, passFragment)
	assert.NotContains(t, compiled, "first")
}

func TestResizeRecreatesTargets(t *testing.T) {
	r, d := newTestRenderer(t)
	d.Reset()

	require.NoError(t, r.Resize(64, 32))
	assert.Zero(t, d.Count("CreateFramebuffer"), "same size is a no-op")

	require.NoError(t, r.Resize(128, 128))
	assert.Equal(t, 2, d.Count("CreateFramebuffer"))
	w, h := r.target.Read().Size()
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)
}

func TestSnapshotFlipsRows(t *testing.T) {
	r, _ := newTestRenderer(t)
	r.RenderFrame(0, [4]float32{})

	img := r.Snapshot()
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 32, img.Bounds().Dy())

	// The fake fills pixel bytes with their index; the bottom GL row is
	// the first row read back.
	lastRow := 31 * img.Stride
	assert.Equal(t, byte(0), img.Pix[lastRow])
	assert.Equal(t, byte(1), img.Pix[lastRow+1])
}

func TestWritePNG(t *testing.T) {
	r, _ := newTestRenderer(t)
	require.NoError(t, r.RunHeadless(3, 60, nil))
	assert.Equal(t, 3, r.Frame())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, r.WritePNG(path))
	assert.FileExists(t, path)
}

func TestRunHeadlessFeedsSnapshots(t *testing.T) {
	r, d := newTestRenderer(t)
	d.Reset()

	var seen int
	require.NoError(t, r.RunHeadless(4, 30, func(img *image.RGBA) error {
		seen++
		assert.Equal(t, 64, img.Bounds().Dx())
		return nil
	}))
	assert.Equal(t, 4, seen)
	assert.Equal(t, 4, d.Count("ReadPixels"))

	times := d.Named("Uniform1f")
	require.Len(t, times, 4)
	assert.InDelta(t, 1.0/30, times[1].Args[1], 1e-6)

	stop := errors.New("sink full")
	err := r.RunHeadless(4, 30, func(*image.RGBA) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 5, r.Frame(), "stops after the first failed frame")
}

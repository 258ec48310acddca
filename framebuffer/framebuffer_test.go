package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/graphics/graphicstest"
	"github.com/richinsley/glkit/texture"
)

func params(d *graphicstest.Driver) map[graphics.Enum]int {
	out := make(map[graphics.Enum]int)
	for _, c := range d.Named("TexParameteri") {
		out[c.Args[1].(graphics.Enum)] = c.Args[2].(int)
	}
	return out
}

func TestNewCreatesHandles(t *testing.T) {
	d := graphicstest.New()
	fb := New(d, 64, 32)
	assert.True(t, fb.Handle().Valid())
	assert.True(t, fb.Texture().Valid())
	assert.Equal(t, 1, d.Count("CreateFramebuffer"))
	assert.Equal(t, 1, d.Count("CreateRenderbuffer"))
	assert.Equal(t, 1, d.Count("CreateTexture"))
	w, h := fb.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)
}

func TestRenderToTextureVariants(t *testing.T) {
	tests := []struct {
		name     string
		init     func(*FrameBuffer)
		internal graphics.Enum
		typ      graphics.Enum
		filter   int
		clamped  bool
	}{
		{"standard", (*FrameBuffer).RenderToTexture, graphics.RGBA8, graphics.UNSIGNED_BYTE, graphics.LINEAR, false},
		{"shadow", (*FrameBuffer).RenderToShadowTexture, graphics.RGBA8, graphics.UNSIGNED_BYTE, graphics.LINEAR, true},
		{"float", (*FrameBuffer).RenderToFloatTexture, graphics.RGBA32F, graphics.FLOAT, graphics.NEAREST, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := graphicstest.New()
			fb := New(d, 8, 4)
			fb.Bind()
			tt.init(fb)

			img := d.Named("TexImage2D")
			require.Len(t, img, 1)
			assert.Equal(t, []any{graphics.Enum(graphics.TEXTURE_2D), 0, tt.internal, 8, 4,
				graphics.Enum(graphics.RGBA), tt.typ, 0}, img[0].Args)

			p := params(d)
			assert.Equal(t, tt.filter, p[graphics.TEXTURE_MIN_FILTER])
			assert.Equal(t, tt.filter, p[graphics.TEXTURE_MAG_FILTER])
			if tt.clamped {
				assert.Equal(t, graphics.CLAMP_TO_EDGE, p[graphics.TEXTURE_WRAP_S])
				assert.Equal(t, graphics.CLAMP_TO_EDGE, p[graphics.TEXTURE_WRAP_T])
			} else {
				assert.NotContains(t, p, graphics.Enum(graphics.TEXTURE_WRAP_S))
			}

			attach := d.Named("FramebufferTexture2D")
			require.Len(t, attach, 1)
			assert.Equal(t, []any{graphics.Enum(graphics.FRAMEBUFFER), graphics.Enum(graphics.COLOR_ATTACHMENT0),
				graphics.Enum(graphics.TEXTURE_2D), fb.Texture(), 0}, attach[0].Args)
			assert.NoError(t, fb.CheckStatus())
		})
	}
}

func TestRenderToCubeTexture(t *testing.T) {
	d := graphicstest.New()
	fb := New(d, 16, 16)
	assert.Error(t, fb.AttachCubeFace(0))

	fb.Bind()
	fb.RenderToCubeTexture()
	img := d.Named("TexImage2D")
	require.Len(t, img, 6)
	for i, c := range img {
		assert.Equal(t, texture.FaceTargets[i], c.Args[0])
	}
	assert.Equal(t, 0, d.Count("FramebufferTexture2D"))
	p := params(d)
	assert.Equal(t, graphics.LINEAR, p[graphics.TEXTURE_MIN_FILTER])
	assert.Equal(t, graphics.CLAMP_TO_EDGE, p[graphics.TEXTURE_WRAP_T])

	require.NoError(t, fb.AttachCubeFace(3))
	assert.Equal(t, texture.FaceTargets[3], d.Named("FramebufferTexture2D")[0].Args[2])
	assert.Error(t, fb.AttachCubeFace(6))

	d.Reset()
	fb.ReleaseCube()
	assert.Equal(t, []any{graphics.Enum(graphics.TEXTURE_CUBE_MAP), graphics.Texture{}}, d.Calls[0].Args)
	assert.Equal(t, "BindFramebuffer", d.Calls[2].Name)
}

func TestBindDepthBuffer(t *testing.T) {
	d := graphicstest.New()
	fb := New(d, 10, 20)
	fb.BindDepthBuffer()

	storage := d.Named("RenderbufferStorage")
	require.Len(t, storage, 1)
	assert.Equal(t, []any{graphics.Enum(graphics.RENDERBUFFER), graphics.Enum(graphics.DEPTH_COMPONENT16), 10, 20}, storage[0].Args)
	attach := d.Named("FramebufferRenderbuffer")
	require.Len(t, attach, 1)
	assert.Equal(t, graphics.Enum(graphics.DEPTH_ATTACHMENT), attach[0].Args[1])
}

func TestCheckStatusIncomplete(t *testing.T) {
	d := graphicstest.New()
	d.FramebufferStatus = 0x8CD6
	fb := New(d, 1, 1)
	err := fb.CheckStatus()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.ErrorContains(t, err, "0x8CD6")
}

func TestReleaseAndDestroy(t *testing.T) {
	d := graphicstest.New()
	fb := New(d, 1, 1)
	d.Reset()
	fb.Release()
	require.Len(t, d.Calls, 3)
	assert.Equal(t, []any{graphics.Enum(graphics.TEXTURE_2D), graphics.Texture{}}, d.Calls[0].Args)
	assert.Equal(t, []any{graphics.Enum(graphics.RENDERBUFFER), graphics.Renderbuffer{}}, d.Calls[1].Args)
	assert.Equal(t, []any{graphics.Enum(graphics.FRAMEBUFFER), graphics.Framebuffer{}}, d.Calls[2].Args)

	fb.Destroy()
	fb.Destroy()
	assert.Equal(t, 1, d.Count("DeleteFramebuffer"))
	assert.Equal(t, 1, d.Count("DeleteRenderbuffer"))
	assert.Equal(t, 1, d.Count("DeleteTexture"))
}

type tex graphics.Texture

func (t tex) Handle() graphics.Texture { return graphics.Texture(t) }

func TestRenderTargetAttachments(t *testing.T) {
	d := graphicstest.New()
	rt := NewRenderTarget(d)
	rt.Bind()
	require.NoError(t, rt.AttachTexture(tex{V: 42}, 2))
	require.NoError(t, rt.DetachTexture(2))
	assert.Error(t, rt.AttachTexture(tex{V: 1}, 8))
	assert.Error(t, rt.DetachTexture(-1))

	calls := d.Named("FramebufferTexture2D")
	require.Len(t, calls, 2)
	assert.Equal(t, graphics.Enum(graphics.COLOR_ATTACHMENT0+2), calls[0].Args[1])
	assert.Equal(t, graphics.Texture{V: 42}, calls[0].Args[3])
	assert.Equal(t, graphics.Texture{}, calls[1].Args[3])
	assert.Equal(t, 1, d.Count("GetInteger"), "limit queried once")

	rt.Unbind()
	assert.Equal(t, graphics.Framebuffer{}, d.Named("BindFramebuffer")[1].Args[1])
}

func TestRenderTargetDrawBuffers(t *testing.T) {
	d := graphicstest.New()
	d.Integers[graphics.MAX_DRAW_BUFFERS] = 4
	rt := NewRenderTarget(d)

	require.NoError(t, rt.DrawBuffers(3))
	calls := d.Named("DrawBuffers")
	require.Len(t, calls, 1)
	assert.Equal(t, []graphics.Enum{graphics.COLOR_ATTACHMENT0, graphics.COLOR_ATTACHMENT0 + 1, graphics.COLOR_ATTACHMENT0 + 2}, calls[0].Args[0])

	assert.ErrorIs(t, rt.DrawBuffers(5), ErrDrawBuffers)
	assert.ErrorIs(t, rt.DrawBuffers(-1), ErrDrawBuffers)
	assert.Equal(t, 1, d.Count("DrawBuffers"))
}

func TestRenderTargetNoMultipleDrawBuffers(t *testing.T) {
	d := graphicstest.New()
	d.Integers[graphics.MAX_DRAW_BUFFERS] = 1
	rt := NewRenderTarget(d)
	require.NoError(t, rt.DrawBuffers(1))
	assert.ErrorIs(t, rt.DrawBuffers(2), ErrDrawBuffers)
}

func TestPingPong(t *testing.T) {
	d := graphicstest.New()
	pp, err := NewPingPong(d, 4, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Count("CreateFramebuffer"))

	first, second := pp.Read(), pp.Write()
	assert.NotEqual(t, first.Handle(), second.Handle())

	d.Reset()
	pp.BindForWriting()
	assert.Equal(t, second.Handle(), d.Calls[0].Args[1])
	pp.UnbindForWriting()
	pp.Swap()
	assert.Same(t, second, pp.Read())
	assert.Same(t, first, pp.Write())

	require.NoError(t, pp.Resize(4, 4))
	assert.Equal(t, 0, d.Count("DeleteFramebuffer"))
	require.NoError(t, pp.Resize(8, 2))
	assert.Equal(t, 2, d.Count("DeleteFramebuffer"))
	w, h := pp.Read().Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 2, h)
}

func TestPingPongIncomplete(t *testing.T) {
	d := graphicstest.New()
	d.FramebufferStatus = 0x8CDD
	_, err := NewPingPong(d, 4, 4, false)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, 1, d.Count("DeleteFramebuffer"))
}

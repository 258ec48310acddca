// Package framebuffer manages offscreen render targets.
package framebuffer

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/texture"
)

var (
	ErrIncomplete  = errors.New("framebuffer: incomplete")
	ErrDrawBuffers = errors.New("framebuffer: draw buffer count not supported")
)

// FrameBuffer owns a framebuffer object, a depth renderbuffer and one
// target texture. The RenderTo methods give the target texture storage and
// attach it; call Bind first.
type FrameBuffer struct {
	d      graphics.Driver
	width  int
	height int

	fb     graphics.Framebuffer
	depth  graphics.Renderbuffer
	target graphics.Texture

	// targetKind is TEXTURE_2D or TEXTURE_CUBE_MAP once storage exists.
	targetKind graphics.Enum
	unit       int
}

// New creates the framebuffer, depth renderbuffer and target texture
// objects. None of them has storage yet.
func New(d graphics.Driver, width, height int) *FrameBuffer {
	return &FrameBuffer{
		d:      d,
		width:  width,
		height: height,
		fb:     d.CreateFramebuffer(),
		depth:  d.CreateRenderbuffer(),
		target: d.CreateTexture(),
	}
}

func (f *FrameBuffer) Size() (width, height int) { return f.width, f.height }

func (f *FrameBuffer) Handle() graphics.Framebuffer { return f.fb }

// Texture returns the target texture.
func (f *FrameBuffer) Texture() graphics.Texture { return f.target }

func (f *FrameBuffer) Bind() {
	f.d.BindFramebuffer(graphics.FRAMEBUFFER, f.fb)
}

// BindDepthBuffer gives the depth renderbuffer 16-bit storage and attaches
// it to the bound framebuffer.
func (f *FrameBuffer) BindDepthBuffer() {
	f.d.BindRenderbuffer(graphics.RENDERBUFFER, f.depth)
	f.d.RenderbufferStorage(graphics.RENDERBUFFER, graphics.DEPTH_COMPONENT16, f.width, f.height)
	f.d.FramebufferRenderbuffer(graphics.FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.RENDERBUFFER, f.depth)
}

func (f *FrameBuffer) texture2D(internalFormat, typ, filter graphics.Enum, clamp bool) {
	d := f.d
	f.targetKind = graphics.TEXTURE_2D
	d.BindTexture(graphics.TEXTURE_2D, f.target)
	d.TexImage2D(graphics.TEXTURE_2D, 0, internalFormat, f.width, f.height, graphics.RGBA, typ, nil)
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, int(filter))
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, int(filter))
	if clamp {
		d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_S, graphics.CLAMP_TO_EDGE)
		d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_T, graphics.CLAMP_TO_EDGE)
	}
	d.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, f.target, 0)
}

// RenderToTexture attaches an 8-bit RGBA target with linear filtering.
func (f *FrameBuffer) RenderToTexture() {
	f.texture2D(graphics.RGBA8, graphics.UNSIGNED_BYTE, graphics.LINEAR, false)
}

// RenderToShadowTexture is RenderToTexture with edge clamping.
func (f *FrameBuffer) RenderToShadowTexture() {
	f.texture2D(graphics.RGBA8, graphics.UNSIGNED_BYTE, graphics.LINEAR, true)
}

// RenderToFloatTexture attaches a 32-bit float RGBA target with nearest
// filtering and edge clamping.
func (f *FrameBuffer) RenderToFloatTexture() {
	f.texture2D(graphics.RGBA32F, graphics.FLOAT, graphics.NEAREST, true)
}

// RenderToCubeTexture turns the target into a cube map with six 8-bit RGBA
// faces, linear filtering and edge clamping. No face is attached; use
// AttachCubeFace before drawing each face.
func (f *FrameBuffer) RenderToCubeTexture() {
	d := f.d
	f.targetKind = graphics.TEXTURE_CUBE_MAP
	d.BindTexture(graphics.TEXTURE_CUBE_MAP, f.target)
	for _, face := range texture.FaceTargets {
		d.TexImage2D(face, 0, graphics.RGBA8, f.width, f.height, graphics.RGBA, graphics.UNSIGNED_BYTE, nil)
	}
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MAG_FILTER, graphics.LINEAR)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MIN_FILTER, graphics.LINEAR)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_S, graphics.CLAMP_TO_EDGE)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_T, graphics.CLAMP_TO_EDGE)
}

// AttachCubeFace attaches one face of the cube target, indexed like
// texture.FaceTargets, as colour attachment 0.
func (f *FrameBuffer) AttachCubeFace(face int) error {
	if f.targetKind != graphics.TEXTURE_CUBE_MAP {
		return fmt.Errorf("framebuffer: target is not a cube map")
	}
	if face < 0 || face >= len(texture.FaceTargets) {
		return fmt.Errorf("framebuffer: cube face %d out of range", face)
	}
	f.d.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, texture.FaceTargets[face], f.target, 0)
	return nil
}

// CheckStatus reports ErrIncomplete when the bound framebuffer cannot be
// rendered to.
func (f *FrameBuffer) CheckStatus() error {
	if status := f.d.CheckFramebufferStatus(graphics.FRAMEBUFFER); status != graphics.FRAMEBUFFER_COMPLETE {
		log.Printf("Framebuffer %d incomplete: status 0x%X", f.fb.V, uint32(status))
		return fmt.Errorf("%w: status 0x%X", ErrIncomplete, uint32(status))
	}
	return nil
}

// Release unbinds the 2D texture, renderbuffer and framebuffer.
func (f *FrameBuffer) Release() {
	f.d.BindTexture(graphics.TEXTURE_2D, graphics.Texture{})
	f.d.BindRenderbuffer(graphics.RENDERBUFFER, graphics.Renderbuffer{})
	f.d.BindFramebuffer(graphics.FRAMEBUFFER, graphics.Framebuffer{})
}

// ReleaseCube is Release for a cube-map target.
func (f *FrameBuffer) ReleaseCube() {
	f.d.BindTexture(graphics.TEXTURE_CUBE_MAP, graphics.Texture{})
	f.d.BindRenderbuffer(graphics.RENDERBUFFER, graphics.Renderbuffer{})
	f.d.BindFramebuffer(graphics.FRAMEBUFFER, graphics.Framebuffer{})
}

// BindTarget binds the target texture to unit for sampling.
func (f *FrameBuffer) BindTarget(unit int) {
	kind := f.targetKind
	if kind == 0 {
		kind = graphics.TEXTURE_2D
	}
	f.unit = unit
	f.d.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(unit))
	f.d.BindTexture(kind, f.target)
}

// BoundUnit returns the unit passed to the last BindTarget.
func (f *FrameBuffer) BoundUnit() int { return f.unit }

func (f *FrameBuffer) Destroy() {
	if f.fb.Valid() {
		f.d.DeleteFramebuffer(f.fb)
		f.fb = graphics.Framebuffer{}
	}
	if f.depth.Valid() {
		f.d.DeleteRenderbuffer(f.depth)
		f.depth = graphics.Renderbuffer{}
	}
	if f.target.Valid() {
		f.d.DeleteTexture(f.target)
		f.target = graphics.Texture{}
	}
}

package framebuffer

import (
	"fmt"

	"github.com/richinsley/glkit/graphics"
)

// PingPong double-buffers two framebuffers so a pass can read the previous
// frame while writing the current one.
type PingPong struct {
	d       graphics.Driver
	isFloat bool
	fbs     [2]*FrameBuffer

	readIndex  int
	writeIndex int
}

// NewPingPong creates both framebuffers. Float buffers use RGBA32F targets
// so feedback effects keep their range.
func NewPingPong(d graphics.Driver, width, height int, isFloat bool) (*PingPong, error) {
	p := &PingPong{d: d, isFloat: isFloat, readIndex: 0, writeIndex: 1}
	if err := p.create(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PingPong) create(width, height int) error {
	for i := range p.fbs {
		fb := New(p.d, width, height)
		fb.Bind()
		fb.BindDepthBuffer()
		if p.isFloat {
			fb.RenderToFloatTexture()
		} else {
			fb.RenderToShadowTexture()
		}
		err := fb.CheckStatus()
		fb.Release()
		if err != nil {
			fb.Destroy()
			p.Destroy()
			return fmt.Errorf("framebuffer %d of ping-pong pair: %w", i, err)
		}
		p.fbs[i] = fb
	}
	return nil
}

// BindForWriting binds the framebuffer written this frame.
func (p *PingPong) BindForWriting() {
	p.fbs[p.writeIndex].Bind()
}

func (p *PingPong) UnbindForWriting() {
	p.d.BindFramebuffer(graphics.FRAMEBUFFER, graphics.Framebuffer{})
}

// Swap exchanges the read and write sides. Call it after rendering.
func (p *PingPong) Swap() {
	p.readIndex, p.writeIndex = p.writeIndex, p.readIndex
}

// Read returns the framebuffer holding the previous frame.
func (p *PingPong) Read() *FrameBuffer { return p.fbs[p.readIndex] }

// Write returns the framebuffer being rendered this frame.
func (p *PingPong) Write() *FrameBuffer { return p.fbs[p.writeIndex] }

// Resize recreates both framebuffers when the size changes. Contents are
// lost.
func (p *PingPong) Resize(width, height int) error {
	if p.fbs[0] != nil {
		if w, h := p.fbs[0].Size(); w == width && h == height {
			return nil
		}
	}
	p.Destroy()
	return p.create(width, height)
}

func (p *PingPong) Destroy() {
	for i, fb := range p.fbs {
		if fb != nil {
			fb.Destroy()
			p.fbs[i] = nil
		}
	}
}

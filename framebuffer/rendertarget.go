package framebuffer

import (
	"fmt"

	"github.com/richinsley/glkit/graphics"
)

// TextureHandle is any 2D texture owner, such as *texture.Texture.
type TextureHandle interface {
	Handle() graphics.Texture
}

// RenderTarget is a bare framebuffer whose colour attachments are managed
// by slot number.
type RenderTarget struct {
	d              graphics.Driver
	fb             graphics.Framebuffer
	maxDrawBuffers int
	maxAttachments int
}

func NewRenderTarget(d graphics.Driver) *RenderTarget {
	return &RenderTarget{d: d, fb: d.CreateFramebuffer()}
}

func (r *RenderTarget) Handle() graphics.Framebuffer { return r.fb }

func (r *RenderTarget) Bind() {
	r.d.BindFramebuffer(graphics.FRAMEBUFFER, r.fb)
}

func (r *RenderTarget) Unbind() {
	r.d.BindFramebuffer(graphics.FRAMEBUFFER, graphics.Framebuffer{})
}

func (r *RenderTarget) checkSlot(slot int) error {
	if r.maxAttachments == 0 {
		r.maxAttachments = r.d.GetInteger(graphics.MAX_COLOR_ATTACHMENTS)
	}
	if slot < 0 || slot >= r.maxAttachments {
		return fmt.Errorf("framebuffer: colour attachment %d out of range (max %d)", slot, r.maxAttachments)
	}
	return nil
}

// AttachTexture attaches t as colour attachment slot of the bound target.
func (r *RenderTarget) AttachTexture(t TextureHandle, slot int) error {
	if err := r.checkSlot(slot); err != nil {
		return err
	}
	r.d.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0+graphics.Enum(slot), graphics.TEXTURE_2D, t.Handle(), 0)
	return nil
}

// DetachTexture clears colour attachment slot.
func (r *RenderTarget) DetachTexture(slot int) error {
	if err := r.checkSlot(slot); err != nil {
		return err
	}
	r.d.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0+graphics.Enum(slot), graphics.TEXTURE_2D, graphics.Texture{}, 0)
	return nil
}

// DrawBuffers routes fragment outputs 0..n-1 to colour attachments
// 0..n-1. It fails with ErrDrawBuffers when the driver supports fewer
// than n draw buffers.
func (r *RenderTarget) DrawBuffers(n int) error {
	if r.maxDrawBuffers == 0 {
		r.maxDrawBuffers = r.d.GetInteger(graphics.MAX_DRAW_BUFFERS)
	}
	if n < 0 || n > r.maxDrawBuffers {
		return fmt.Errorf("%w: %d requested, %d available", ErrDrawBuffers, n, r.maxDrawBuffers)
	}
	bufs := make([]graphics.Enum, n)
	for i := range bufs {
		bufs[i] = graphics.COLOR_ATTACHMENT0 + graphics.Enum(i)
	}
	r.d.DrawBuffers(bufs)
	return nil
}

// CheckStatus reports ErrIncomplete when the bound target cannot be
// rendered to.
func (r *RenderTarget) CheckStatus() error {
	if status := r.d.CheckFramebufferStatus(graphics.FRAMEBUFFER); status != graphics.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%X", ErrIncomplete, uint32(status))
	}
	return nil
}

func (r *RenderTarget) Destroy() {
	if r.fb.Valid() {
		r.d.DeleteFramebuffer(r.fb)
		r.fb = graphics.Framebuffer{}
	}
}

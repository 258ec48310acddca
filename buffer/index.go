package buffer

import (
	"github.com/richinsley/glkit/graphics"
)

// IndexBuffer holds 16-bit element indices, so at most 65536 vertices can
// be addressed.
type IndexBuffer struct {
	d      graphics.Driver
	buf    graphics.Buffer
	length int
}

func NewIndexBuffer(d graphics.Driver) *IndexBuffer {
	return &IndexBuffer{d: d}
}

// Init creates the buffer and uploads indices. Calling it again replaces
// the contents.
func (ib *IndexBuffer) Init(indices []uint16) {
	if !ib.buf.Valid() {
		ib.buf = ib.d.CreateBuffer()
	}
	ib.length = len(indices)
	ib.d.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, ib.buf)
	ib.d.BufferData(graphics.ELEMENT_ARRAY_BUFFER, len(indices)*2, uint16Bytes(indices), graphics.STATIC_DRAW)
	ib.d.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, graphics.Buffer{})
}

func (ib *IndexBuffer) Len() int { return ib.length }

func (ib *IndexBuffer) Handle() graphics.Buffer { return ib.buf }

func (ib *IndexBuffer) Bind() {
	ib.d.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, ib.buf)
}

// Draw draws every index. The buffer must be bound.
func (ib *IndexBuffer) Draw(mode graphics.Enum) {
	ib.DrawN(mode, ib.length)
}

func (ib *IndexBuffer) DrawN(mode graphics.Enum, n int) {
	ib.d.DrawElements(mode, n, graphics.UNSIGNED_SHORT, 0)
}

func (ib *IndexBuffer) Destroy() {
	if ib.buf.Valid() {
		ib.d.DeleteBuffer(ib.buf)
		ib.buf = graphics.Buffer{}
	}
}

// Package buffer wraps vertex and index buffer objects.
//
// A VertexBuffer is used in a fixed order: declare attributes, Allocate,
// Upload, then Bind, Draw and Release once per draw.
package buffer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/richinsley/glkit/graphics"
)

var (
	ErrAllocated    = errors.New("buffer: attributes cannot change after Allocate")
	ErrNotAllocated = errors.New("buffer: not allocated")
)

// SizeMismatchError is returned when an upload does not exactly fill the
// allocated storage.
type SizeMismatchError struct {
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("buffer: upload of %d bytes into %d byte buffer", e.Got, e.Want)
}

// AttribLocator resolves vertex attribute names to slots, returning a
// negative value for names the program does not use.
type AttribLocator interface {
	AttribLocation(name string) int
}

// Attribute describes one interleaved per-vertex field.
type Attribute struct {
	Name       string
	Size       int
	Type       graphics.Enum
	Normalized bool
	Offset     int
}

type attribute struct {
	Attribute
	index int
}

type VertexBuffer struct {
	d       graphics.Driver
	buf     graphics.Buffer
	attribs []attribute
	stride  int
	length  int
}

func NewVertexBuffer(d graphics.Driver) *VertexBuffer {
	return &VertexBuffer{d: d}
}

// AddAttribute appends an attribute of size components of typ. Its offset
// is the stride before the call.
func (vb *VertexBuffer) AddAttribute(name string, size int, typ graphics.Enum, normalized bool) error {
	if vb.buf.Valid() {
		return ErrAllocated
	}
	width := graphics.TypeSize(typ)
	if width == 0 {
		return fmt.Errorf("buffer: attribute %q has unsupported type 0x%x", name, uint32(typ))
	}
	if size < 1 || size > 4 {
		return fmt.Errorf("buffer: attribute %q has %d components", name, size)
	}
	vb.attribs = append(vb.attribs, attribute{
		Attribute: Attribute{Name: name, Size: size, Type: typ, Normalized: normalized, Offset: vb.stride},
		index:     -1,
	})
	vb.stride += size * width
	return nil
}

// AddAttributes appends non-normalized float attributes, one per name.
func (vb *VertexBuffer) AddAttributes(names []string, sizes []int) error {
	if len(names) != len(sizes) {
		return fmt.Errorf("buffer: %d attribute names for %d sizes", len(names), len(sizes))
	}
	for i, name := range names {
		if err := vb.AddAttribute(name, sizes[i], graphics.FLOAT, false); err != nil {
			return err
		}
	}
	return nil
}

func (vb *VertexBuffer) Attributes() []Attribute {
	out := make([]Attribute, len(vb.attribs))
	for i, a := range vb.attribs {
		out[i] = a.Attribute
	}
	return out
}

// Stride is the byte size of one vertex.
func (vb *VertexBuffer) Stride() int { return vb.stride }

// Len is the vertex count passed to Allocate.
func (vb *VertexBuffer) Len() int { return vb.length }

// Size is the allocated storage in bytes.
func (vb *VertexBuffer) Size() int { return vb.length * vb.stride }

func (vb *VertexBuffer) Handle() graphics.Buffer { return vb.buf }

// Allocate reserves storage for n vertices and freezes the layout.
func (vb *VertexBuffer) Allocate(n int) error {
	if vb.buf.Valid() {
		return ErrAllocated
	}
	if n < 0 {
		return fmt.Errorf("buffer: negative vertex count %d", n)
	}
	vb.length = n
	vb.buf = vb.d.CreateBuffer()
	vb.d.BindBuffer(graphics.ARRAY_BUFFER, vb.buf)
	vb.d.BufferData(graphics.ARRAY_BUFFER, vb.Size(), nil, graphics.STATIC_DRAW)
	vb.d.BindBuffer(graphics.ARRAY_BUFFER, graphics.Buffer{})
	return nil
}

// Upload replaces the whole buffer contents. data must be exactly Size
// bytes long.
func (vb *VertexBuffer) Upload(data []byte) error {
	if !vb.buf.Valid() {
		return ErrNotAllocated
	}
	if len(data) != vb.Size() {
		return &SizeMismatchError{Want: vb.Size(), Got: len(data)}
	}
	vb.d.BindBuffer(graphics.ARRAY_BUFFER, vb.buf)
	vb.d.BufferData(graphics.ARRAY_BUFFER, len(data), data, graphics.STATIC_DRAW)
	vb.d.BindBuffer(graphics.ARRAY_BUFFER, graphics.Buffer{})
	return nil
}

// UploadFloats is Upload for float32 vertex data in native byte order.
func (vb *VertexBuffer) UploadFloats(data []float32) error {
	return vb.Upload(float32Bytes(data))
}

// Bind binds the buffer and points every attribute the program uses at
// it. Locations are looked up on every call so one buffer can feed
// several programs.
func (vb *VertexBuffer) Bind(p AttribLocator) {
	vb.d.BindBuffer(graphics.ARRAY_BUFFER, vb.buf)
	for i := range vb.attribs {
		a := &vb.attribs[i]
		a.index = p.AttribLocation(a.Name)
		if a.index < 0 {
			continue
		}
		slot := graphics.Attrib(a.index)
		vb.d.EnableVertexAttribArray(slot)
		vb.d.VertexAttribPointer(slot, a.Size, a.Type, a.Normalized, vb.stride, a.Offset)
	}
}

// Release disables the attribute slots enabled by the last Bind.
func (vb *VertexBuffer) Release() {
	for i := range vb.attribs {
		a := &vb.attribs[i]
		if a.index >= 0 {
			vb.d.DisableVertexAttribArray(graphics.Attrib(a.index))
			a.index = -1
		}
	}
}

// Draw draws every allocated vertex.
func (vb *VertexBuffer) Draw(mode graphics.Enum) {
	vb.DrawN(mode, vb.length)
}

func (vb *VertexBuffer) DrawN(mode graphics.Enum, n int) {
	vb.d.DrawArrays(mode, 0, n)
}

func (vb *VertexBuffer) Destroy() {
	vb.Release()
	if vb.buf.Valid() {
		vb.d.DeleteBuffer(vb.buf)
		vb.buf = graphics.Buffer{}
	}
}

func float32Bytes(v []float32) []byte {
	if len(v) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

func uint16Bytes(v []uint16) []byte {
	if len(v) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*2)
}

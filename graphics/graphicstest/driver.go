// Package graphicstest provides a recording graphics.Driver for tests. It
// hands out sequential handles and keeps a log of every call so tests can
// assert on the exact driver traffic a resource type produces.
package graphicstest

import (
	"fmt"

	"github.com/richinsley/glkit/graphics"
)

// Call is one recorded driver invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Driver records calls instead of talking to a GPU.
type Driver struct {
	Calls []Call

	// Uniforms and Attribs hold the locations a linked program reports.
	// Names missing from the maps resolve to -1.
	Uniforms map[string]int32
	Attribs  map[string]int

	// CompileLogs makes compilation of the given shader stage fail with
	// the log text.
	CompileLogs map[graphics.Enum]string

	// LinkLog, when set, makes every link fail with the log text.
	LinkLog string

	// Integers answers GetInteger queries.
	Integers map[graphics.Enum]int

	// FramebufferStatus is returned by CheckFramebufferStatus. Zero means
	// FRAMEBUFFER_COMPLETE.
	FramebufferStatus graphics.Enum

	// Enabled tracks which attribute slots are currently enabled.
	Enabled map[graphics.Attrib]bool

	next        uint32
	shaderTypes map[graphics.Shader]graphics.Enum
	failed      map[graphics.Shader]bool
	linked      map[graphics.Program]bool
}

var _ graphics.Driver = (*Driver)(nil)

// New returns a Driver that reports generous capabilities.
func New() *Driver {
	return &Driver{
		Uniforms:    make(map[string]int32),
		Attribs:     make(map[string]int),
		CompileLogs: make(map[graphics.Enum]string),
		Integers: map[graphics.Enum]int{
			graphics.MAX_DRAW_BUFFERS:        8,
			graphics.MAX_COLOR_ATTACHMENTS:   8,
			graphics.MAX_TEXTURE_IMAGE_UNITS: 16,
		},
		Enabled:     make(map[graphics.Attrib]bool),
		shaderTypes: make(map[graphics.Shader]graphics.Enum),
		failed:      make(map[graphics.Shader]bool),
		linked:      make(map[graphics.Program]bool),
	}
}

func (d *Driver) record(name string, args ...any) {
	d.Calls = append(d.Calls, Call{Name: name, Args: args})
}

func (d *Driver) handle() uint32 {
	d.next++
	return d.next
}

// Named returns the recorded calls with the given name, in order.
func (d *Driver) Named(name string) []Call {
	var out []Call
	for _, c := range d.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times the named call was made.
func (d *Driver) Count(name string) int {
	return len(d.Named(name))
}

// Reset forgets the recorded calls but keeps configuration and handles.
func (d *Driver) Reset() {
	d.Calls = nil
}

func (d *Driver) CreateTexture() graphics.Texture {
	t := graphics.Texture{V: d.handle()}
	d.record("CreateTexture", t)
	return t
}

func (d *Driver) DeleteTexture(t graphics.Texture) { d.record("DeleteTexture", t) }
func (d *Driver) ActiveTexture(unit graphics.Enum) { d.record("ActiveTexture", unit) }

func (d *Driver) BindTexture(target graphics.Enum, t graphics.Texture) {
	d.record("BindTexture", target, t)
}

func (d *Driver) TexImage2D(target graphics.Enum, level int, internalFormat graphics.Enum, width, height int, format, typ graphics.Enum, data []byte) {
	d.record("TexImage2D", target, level, internalFormat, width, height, format, typ, len(data))
}

func (d *Driver) TexParameteri(target, pname graphics.Enum, param int) {
	d.record("TexParameteri", target, pname, param)
}

func (d *Driver) GenerateMipmap(target graphics.Enum)        { d.record("GenerateMipmap", target) }
func (d *Driver) PixelStorei(pname graphics.Enum, param int) { d.record("PixelStorei", pname, param) }

func (d *Driver) CreateBuffer() graphics.Buffer {
	b := graphics.Buffer{V: d.handle()}
	d.record("CreateBuffer", b)
	return b
}

func (d *Driver) DeleteBuffer(b graphics.Buffer) { d.record("DeleteBuffer", b) }

func (d *Driver) BindBuffer(target graphics.Enum, b graphics.Buffer) {
	d.record("BindBuffer", target, b)
}

func (d *Driver) BufferData(target graphics.Enum, size int, data []byte, usage graphics.Enum) {
	d.record("BufferData", target, size, data != nil, usage)
}

func (d *Driver) CreateShader(typ graphics.Enum) graphics.Shader {
	s := graphics.Shader{V: d.handle()}
	d.shaderTypes[s] = typ
	d.record("CreateShader", typ, s)
	return s
}

func (d *Driver) DeleteShader(s graphics.Shader)              { d.record("DeleteShader", s) }
func (d *Driver) ShaderSource(s graphics.Shader, src string) { d.record("ShaderSource", s, src) }

func (d *Driver) CompileShader(s graphics.Shader) {
	_, fail := d.CompileLogs[d.shaderTypes[s]]
	d.failed[s] = fail
	d.record("CompileShader", s)
}

func (d *Driver) GetShaderi(s graphics.Shader, pname graphics.Enum) int {
	if pname == graphics.COMPILE_STATUS {
		if d.failed[s] {
			return graphics.FALSE
		}
		return graphics.TRUE
	}
	return 0
}

func (d *Driver) GetShaderInfoLog(s graphics.Shader) string {
	if d.failed[s] {
		return d.CompileLogs[d.shaderTypes[s]]
	}
	return ""
}

func (d *Driver) CreateProgram() graphics.Program {
	p := graphics.Program{V: d.handle()}
	d.record("CreateProgram", p)
	return p
}

func (d *Driver) DeleteProgram(p graphics.Program) { d.record("DeleteProgram", p) }

func (d *Driver) AttachShader(p graphics.Program, s graphics.Shader) {
	d.record("AttachShader", p, s)
}

func (d *Driver) LinkProgram(p graphics.Program) {
	d.linked[p] = d.LinkLog == ""
	d.record("LinkProgram", p)
}

func (d *Driver) GetProgrami(p graphics.Program, pname graphics.Enum) int {
	if pname == graphics.LINK_STATUS {
		if d.linked[p] {
			return graphics.TRUE
		}
		return graphics.FALSE
	}
	return 0
}

func (d *Driver) GetProgramInfoLog(p graphics.Program) string {
	if !d.linked[p] {
		return d.LinkLog
	}
	return ""
}

func (d *Driver) UseProgram(p graphics.Program) { d.record("UseProgram", p) }

func (d *Driver) GetUniformLocation(p graphics.Program, name string) graphics.Uniform {
	d.record("GetUniformLocation", p, name)
	if loc, ok := d.Uniforms[name]; ok {
		return graphics.Uniform{V: loc}
	}
	return graphics.NoUniform
}

func (d *Driver) GetAttribLocation(p graphics.Program, name string) int {
	d.record("GetAttribLocation", p, name)
	if loc, ok := d.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Driver) Uniform1i(u graphics.Uniform, v int)     { d.record("Uniform1i", u, v) }
func (d *Driver) Uniform1f(u graphics.Uniform, v float32) { d.record("Uniform1f", u, v) }

func (d *Driver) Uniform2f(u graphics.Uniform, v0, v1 float32) {
	d.record("Uniform2f", u, v0, v1)
}

func (d *Driver) Uniform3f(u graphics.Uniform, v0, v1, v2 float32) {
	d.record("Uniform3f", u, v0, v1, v2)
}

func (d *Driver) Uniform4f(u graphics.Uniform, v0, v1, v2, v3 float32) {
	d.record("Uniform4f", u, v0, v1, v2, v3)
}

func (d *Driver) UniformMatrix4fv(u graphics.Uniform, m []float32) {
	d.record("UniformMatrix4fv", u, len(m))
}

func (d *Driver) EnableVertexAttribArray(a graphics.Attrib) {
	d.Enabled[a] = true
	d.record("EnableVertexAttribArray", a)
}

func (d *Driver) DisableVertexAttribArray(a graphics.Attrib) {
	delete(d.Enabled, a)
	d.record("DisableVertexAttribArray", a)
}

func (d *Driver) VertexAttribPointer(a graphics.Attrib, size int, typ graphics.Enum, normalized bool, stride, offset int) {
	d.record("VertexAttribPointer", a, size, typ, normalized, stride, offset)
}

func (d *Driver) DrawArrays(mode graphics.Enum, first, count int) {
	d.record("DrawArrays", mode, first, count)
}

func (d *Driver) DrawElements(mode graphics.Enum, count int, typ graphics.Enum, offset int) {
	d.record("DrawElements", mode, count, typ, offset)
}

func (d *Driver) CreateFramebuffer() graphics.Framebuffer {
	f := graphics.Framebuffer{V: d.handle()}
	d.record("CreateFramebuffer", f)
	return f
}

func (d *Driver) DeleteFramebuffer(f graphics.Framebuffer) { d.record("DeleteFramebuffer", f) }

func (d *Driver) BindFramebuffer(target graphics.Enum, f graphics.Framebuffer) {
	d.record("BindFramebuffer", target, f)
}

func (d *Driver) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, t graphics.Texture, level int) {
	d.record("FramebufferTexture2D", target, attachment, texTarget, t, level)
}

func (d *Driver) FramebufferRenderbuffer(target, attachment, rbTarget graphics.Enum, r graphics.Renderbuffer) {
	d.record("FramebufferRenderbuffer", target, attachment, rbTarget, r)
}

func (d *Driver) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	d.record("CheckFramebufferStatus", target)
	if d.FramebufferStatus == 0 {
		return graphics.FRAMEBUFFER_COMPLETE
	}
	return d.FramebufferStatus
}

func (d *Driver) DrawBuffers(bufs []graphics.Enum) {
	d.record("DrawBuffers", append([]graphics.Enum(nil), bufs...))
}

func (d *Driver) CreateRenderbuffer() graphics.Renderbuffer {
	r := graphics.Renderbuffer{V: d.handle()}
	d.record("CreateRenderbuffer", r)
	return r
}

func (d *Driver) DeleteRenderbuffer(r graphics.Renderbuffer) { d.record("DeleteRenderbuffer", r) }

func (d *Driver) BindRenderbuffer(target graphics.Enum, r graphics.Renderbuffer) {
	d.record("BindRenderbuffer", target, r)
}

func (d *Driver) RenderbufferStorage(target, internalFormat graphics.Enum, width, height int) {
	d.record("RenderbufferStorage", target, internalFormat, width, height)
}

func (d *Driver) GetInteger(pname graphics.Enum) int {
	d.record("GetInteger", pname)
	return d.Integers[pname]
}

func (d *Driver) Viewport(x, y, width, height int) { d.record("Viewport", x, y, width, height) }
func (d *Driver) ClearColor(r, g, b, a float32)    { d.record("ClearColor", r, g, b, a) }
func (d *Driver) Clear(mask graphics.Enum)         { d.record("Clear", mask) }

// ReadPixels fills dst with a repeating byte ramp so readback paths can be
// checked for ordering.
func (d *Driver) ReadPixels(x, y, width, height int, format, typ graphics.Enum, dst []byte) {
	for i := range dst {
		dst[i] = byte(i)
	}
	d.record("ReadPixels", x, y, width, height, format, typ)
}

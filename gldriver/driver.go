// Package gldriver implements graphics.Driver on top of the go-gl OpenGL 4.1
// core bindings.
package gldriver

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/glkit/graphics"
)

// glInitOnce ensures gl.Init() is called only once per process.
var glInitOnce sync.Once

var _ graphics.Driver = (*Driver)(nil)

// Driver forwards every call to the current OpenGL context.
type Driver struct {
	// vertArray stays bound for the lifetime of the driver. Core profile
	// contexts refuse vertex attribute calls without a bound vertex array.
	vertArray uint32
}

// New initialises the OpenGL function pointers. The context must already be
// current on the calling thread.
func New() (*Driver, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	d := &Driver{}
	gl.GenVertexArrays(1, &d.vertArray)
	gl.BindVertexArray(d.vertArray)
	return d, nil
}

// Destroy releases the driver's vertex array.
func (d *Driver) Destroy() {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vertArray)
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (d *Driver) CreateTexture() graphics.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return graphics.Texture{V: id}
}

func (d *Driver) DeleteTexture(t graphics.Texture) {
	gl.DeleteTextures(1, &t.V)
}

func (d *Driver) ActiveTexture(unit graphics.Enum) {
	gl.ActiveTexture(uint32(unit))
}

func (d *Driver) BindTexture(target graphics.Enum, t graphics.Texture) {
	gl.BindTexture(uint32(target), t.V)
}

func (d *Driver) TexImage2D(target graphics.Enum, level int, internalFormat graphics.Enum, width, height int, format, typ graphics.Enum, data []byte) {
	gl.TexImage2D(uint32(target), int32(level), int32(internalFormat), int32(width), int32(height), 0, uint32(format), uint32(typ), ptr(data))
}

func (d *Driver) TexParameteri(target, pname graphics.Enum, param int) {
	gl.TexParameteri(uint32(target), uint32(pname), int32(param))
}

func (d *Driver) GenerateMipmap(target graphics.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (d *Driver) PixelStorei(pname graphics.Enum, param int) {
	gl.PixelStorei(uint32(pname), int32(param))
}

func (d *Driver) CreateBuffer() graphics.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return graphics.Buffer{V: id}
}

func (d *Driver) DeleteBuffer(b graphics.Buffer) {
	gl.DeleteBuffers(1, &b.V)
}

func (d *Driver) BindBuffer(target graphics.Enum, b graphics.Buffer) {
	gl.BindBuffer(uint32(target), b.V)
}

func (d *Driver) BufferData(target graphics.Enum, size int, data []byte, usage graphics.Enum) {
	gl.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (d *Driver) CreateShader(typ graphics.Enum) graphics.Shader {
	return graphics.Shader{V: gl.CreateShader(uint32(typ))}
}

func (d *Driver) DeleteShader(s graphics.Shader) {
	gl.DeleteShader(s.V)
}

func (d *Driver) ShaderSource(s graphics.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(s.V, 1, csources, nil)
	free()
}

func (d *Driver) CompileShader(s graphics.Shader) {
	gl.CompileShader(s.V)
}

func (d *Driver) GetShaderi(s graphics.Shader, pname graphics.Enum) int {
	var v int32
	gl.GetShaderiv(s.V, uint32(pname), &v)
	return int(v)
}

func (d *Driver) GetShaderInfoLog(s graphics.Shader) string {
	var logLength int32
	gl.GetShaderiv(s.V, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(s.V, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *Driver) CreateProgram() graphics.Program {
	return graphics.Program{V: gl.CreateProgram()}
}

func (d *Driver) DeleteProgram(p graphics.Program) {
	gl.DeleteProgram(p.V)
}

func (d *Driver) AttachShader(p graphics.Program, s graphics.Shader) {
	gl.AttachShader(p.V, s.V)
}

func (d *Driver) LinkProgram(p graphics.Program) {
	gl.LinkProgram(p.V)
}

func (d *Driver) GetProgrami(p graphics.Program, pname graphics.Enum) int {
	var v int32
	gl.GetProgramiv(p.V, uint32(pname), &v)
	return int(v)
}

func (d *Driver) GetProgramInfoLog(p graphics.Program) string {
	var logLength int32
	gl.GetProgramiv(p.V, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(p.V, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (d *Driver) UseProgram(p graphics.Program) {
	gl.UseProgram(p.V)
}

func (d *Driver) GetUniformLocation(p graphics.Program, name string) graphics.Uniform {
	return graphics.Uniform{V: gl.GetUniformLocation(p.V, gl.Str(name+"\x00"))}
}

func (d *Driver) GetAttribLocation(p graphics.Program, name string) int {
	return int(gl.GetAttribLocation(p.V, gl.Str(name+"\x00")))
}

func (d *Driver) Uniform1i(u graphics.Uniform, v int) {
	gl.Uniform1i(u.V, int32(v))
}

func (d *Driver) Uniform1f(u graphics.Uniform, v float32) {
	gl.Uniform1f(u.V, v)
}

func (d *Driver) Uniform2f(u graphics.Uniform, v0, v1 float32) {
	gl.Uniform2f(u.V, v0, v1)
}

func (d *Driver) Uniform3f(u graphics.Uniform, v0, v1, v2 float32) {
	gl.Uniform3f(u.V, v0, v1, v2)
}

func (d *Driver) Uniform4f(u graphics.Uniform, v0, v1, v2, v3 float32) {
	gl.Uniform4f(u.V, v0, v1, v2, v3)
}

func (d *Driver) UniformMatrix4fv(u graphics.Uniform, m []float32) {
	gl.UniformMatrix4fv(u.V, int32(len(m)/16), false, &m[0])
}

func (d *Driver) EnableVertexAttribArray(a graphics.Attrib) {
	gl.EnableVertexAttribArray(uint32(a))
}

func (d *Driver) DisableVertexAttribArray(a graphics.Attrib) {
	gl.DisableVertexAttribArray(uint32(a))
}

func (d *Driver) VertexAttribPointer(a graphics.Attrib, size int, typ graphics.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(a), int32(size), uint32(typ), normalized, int32(stride), uintptr(offset))
}

func (d *Driver) DrawArrays(mode graphics.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

func (d *Driver) DrawElements(mode graphics.Enum, count int, typ graphics.Enum, offset int) {
	gl.DrawElementsWithOffset(uint32(mode), int32(count), uint32(typ), uintptr(offset))
}

func (d *Driver) CreateFramebuffer() graphics.Framebuffer {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return graphics.Framebuffer{V: id}
}

func (d *Driver) DeleteFramebuffer(f graphics.Framebuffer) {
	gl.DeleteFramebuffers(1, &f.V)
}

func (d *Driver) BindFramebuffer(target graphics.Enum, f graphics.Framebuffer) {
	gl.BindFramebuffer(uint32(target), f.V)
}

func (d *Driver) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, t graphics.Texture, level int) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), t.V, int32(level))
}

func (d *Driver) FramebufferRenderbuffer(target, attachment, rbTarget graphics.Enum, r graphics.Renderbuffer) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(rbTarget), r.V)
}

func (d *Driver) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	return graphics.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (d *Driver) DrawBuffers(bufs []graphics.Enum) {
	if len(bufs) == 0 {
		none := uint32(gl.NONE)
		gl.DrawBuffers(1, &none)
		return
	}
	ids := make([]uint32, len(bufs))
	for i, b := range bufs {
		ids[i] = uint32(b)
	}
	gl.DrawBuffers(int32(len(ids)), &ids[0])
}

func (d *Driver) CreateRenderbuffer() graphics.Renderbuffer {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return graphics.Renderbuffer{V: id}
}

func (d *Driver) DeleteRenderbuffer(r graphics.Renderbuffer) {
	gl.DeleteRenderbuffers(1, &r.V)
}

func (d *Driver) BindRenderbuffer(target graphics.Enum, r graphics.Renderbuffer) {
	gl.BindRenderbuffer(uint32(target), r.V)
}

func (d *Driver) RenderbufferStorage(target, internalFormat graphics.Enum, width, height int) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), int32(width), int32(height))
}

func (d *Driver) GetInteger(pname graphics.Enum) int {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return int(v)
}

func (d *Driver) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Driver) Clear(mask graphics.Enum) {
	gl.Clear(uint32(mask))
}

func (d *Driver) ReadPixels(x, y, width, height int, format, typ graphics.Enum, dst []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), uint32(format), uint32(typ), ptr(dst))
}

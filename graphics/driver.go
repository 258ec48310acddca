package graphics

// Driver is the graphics API call surface the resource types are built on.
// Methods map one-to-one onto GL entry points. Implementations are not safe
// for concurrent use: the underlying context is bound to a single thread.
type Driver interface {
	CreateTexture() Texture
	DeleteTexture(t Texture)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexImage2D(target Enum, level int, internalFormat Enum, width, height int, format, typ Enum, data []byte)
	TexParameteri(target, pname Enum, param int)
	GenerateMipmap(target Enum)
	PixelStorei(pname Enum, param int)

	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	BindBuffer(target Enum, b Buffer)
	// BufferData reserves size bytes when data is nil, otherwise uploads data.
	BufferData(target Enum, size int, data []byte, usage Enum)

	CreateShader(typ Enum) Shader
	DeleteShader(s Shader)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string

	CreateProgram() Program
	DeleteProgram(p Program)
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	UseProgram(p Program)
	GetUniformLocation(p Program, name string) Uniform
	// GetAttribLocation returns -1 when the program does not use the attribute.
	GetAttribLocation(p Program, name string) int

	Uniform1i(u Uniform, v int)
	Uniform1f(u Uniform, v float32)
	Uniform2f(u Uniform, v0, v1 float32)
	Uniform3f(u Uniform, v0, v1, v2 float32)
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)
	UniformMatrix4fv(u Uniform, m []float32)

	EnableVertexAttribArray(a Attrib)
	DisableVertexAttribArray(a Attrib)
	VertexAttribPointer(a Attrib, size int, typ Enum, normalized bool, stride, offset int)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, typ Enum, offset int)

	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(f Framebuffer)
	BindFramebuffer(target Enum, f Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, r Renderbuffer)
	CheckFramebufferStatus(target Enum) Enum
	DrawBuffers(bufs []Enum)

	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(r Renderbuffer)
	BindRenderbuffer(target Enum, r Renderbuffer)
	RenderbufferStorage(target, internalFormat Enum, width, height int)

	GetInteger(pname Enum) int
	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	ReadPixels(x, y, width, height int, format, typ Enum, dst []byte)
}

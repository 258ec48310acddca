package shader

import (
	"fmt"

	"github.com/richinsley/glkit/graphics"
)

// Stage identifies a programmable pipeline stage.
type Stage graphics.Enum

const (
	Vertex   = Stage(graphics.VERTEX_SHADER)
	Fragment = Stage(graphics.FRAGMENT_SHADER)
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(0x%x)", uint32(s))
	}
}

// Translation is the output of a Translator: code ready for the driver and
// the names the translator gave to the uniforms and attributes it saw.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites resolved source into the dialect the driver accepts.
type Translator interface {
	Translate(src string, stage Stage) (*Translation, error)
}

// Sampler is anything that can report the texture unit it is bound to.
type Sampler interface {
	BoundUnit() int
}

type Option func(*Program)

// WithTranslator runs both stages through t before compiling. Uniform and
// attribute lookups are then done by their translated names.
func WithTranslator(t Translator) Option {
	return func(p *Program) {
		p.translator = t
	}
}

// Program is a linked vertex and fragment shader pair.
type Program struct {
	d          graphics.Driver
	translator Translator

	vertName string
	fragName string

	vertex   graphics.Shader
	fragment graphics.Shader
	program  graphics.Program

	uniforms map[string]graphics.Uniform
	names    map[string]string
}

// New resolves, compiles and links the named vertex and fragment sources.
func New(d graphics.Driver, sources map[string]string, vertName, fragName string, opts ...Option) (*Program, error) {
	p := &Program{
		d:        d,
		vertName: vertName,
		fragName: fragName,
		uniforms: make(map[string]graphics.Uniform),
		names:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	p.vertex, err = p.compile(sources, vertName, Vertex)
	if err != nil {
		return nil, err
	}
	p.fragment, err = p.compile(sources, fragName, Fragment)
	if err != nil {
		d.DeleteShader(p.vertex)
		return nil, err
	}

	p.program = d.CreateProgram()
	d.AttachShader(p.program, p.vertex)
	d.AttachShader(p.program, p.fragment)
	d.LinkProgram(p.program)
	if d.GetProgrami(p.program, graphics.LINK_STATUS) == graphics.FALSE {
		linkErr := &LinkError{Vertex: vertName, Fragment: fragName, Log: d.GetProgramInfoLog(p.program)}
		p.Destroy()
		return nil, linkErr
	}
	return p, nil
}

func (p *Program) compile(sources map[string]string, name string, stage Stage) (graphics.Shader, error) {
	src, err := Resolve(sources, name)
	if err != nil {
		return graphics.Shader{}, err
	}
	if p.translator != nil {
		t, err := p.translator.Translate(src, stage)
		if err != nil {
			return graphics.Shader{}, fmt.Errorf("%s shader translation failed: %w", stage, err)
		}
		src = t.Code
		for k, v := range t.Names {
			p.names[k] = v
		}
	}

	s := p.d.CreateShader(graphics.Enum(stage))
	p.d.ShaderSource(s, src)
	p.d.CompileShader(s)
	if p.d.GetShaderi(s, graphics.COMPILE_STATUS) == graphics.FALSE {
		cerr := &CompileError{
			Stage:  stage,
			Name:   name,
			Log:    p.d.GetShaderInfoLog(s),
			Source: numberLines(src),
		}
		p.d.DeleteShader(s)
		return graphics.Shader{}, cerr
	}
	return s, nil
}

func (p *Program) mapped(name string) string {
	if m, ok := p.names[name]; ok {
		return m
	}
	return name
}

// Handle returns the driver program object.
func (p *Program) Handle() graphics.Program { return p.program }

// Names returns the vertex and fragment source names the program was built from.
func (p *Program) Names() (vertex, fragment string) { return p.vertName, p.fragName }

// Bind makes p the current program.
func (p *Program) Bind() {
	p.d.UseProgram(p.program)
}

// UniformLocation returns the location of the named uniform, asking the
// driver only the first time a name is seen. Absent uniforms are cached
// too and come back as graphics.NoUniform.
func (p *Program) UniformLocation(name string) graphics.Uniform {
	if u, ok := p.uniforms[name]; ok {
		return u
	}
	u := p.d.GetUniformLocation(p.program, p.mapped(name))
	p.uniforms[name] = u
	return u
}

// AttribLocation queries the driver for the slot of the named vertex
// attribute. It returns -1 when the program does not use it.
func (p *Program) AttribLocation(name string) int {
	return p.d.GetAttribLocation(p.program, p.mapped(name))
}

func (p *Program) SetInt(name string, v int) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform1i(u, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform1f(u, v)
	}
}

func (p *Program) SetVec2(name string, x, y float32) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform2f(u, x, y)
	}
}

func (p *Program) SetVec3(name string, x, y, z float32) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform3f(u, x, y, z)
	}
}

func (p *Program) SetVec4(name string, x, y, z, w float32) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform4f(u, x, y, z, w)
	}
}

// SetMat4 uploads a column-major 4x4 matrix.
func (p *Program) SetMat4(name string, m [16]float32) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.UniformMatrix4fv(u, m[:])
	}
}

// SetTexture points a sampler uniform at the unit t was last bound to.
func (p *Program) SetTexture(name string, t Sampler) {
	if u := p.UniformLocation(name); u.Valid() {
		p.d.Uniform1i(u, t.BoundUnit())
	}
}

// Destroy deletes the program and both shader objects. It is safe to call
// more than once.
func (p *Program) Destroy() {
	if p.program.Valid() {
		p.d.DeleteProgram(p.program)
		p.program = graphics.Program{}
	}
	if p.vertex.Valid() {
		p.d.DeleteShader(p.vertex)
		p.vertex = graphics.Shader{}
	}
	if p.fragment.Valid() {
		p.d.DeleteShader(p.fragment)
		p.fragment = graphics.Shader{}
	}
}

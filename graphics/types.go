package graphics

type (
	Object       struct{ V uint32 }
	Texture      Object
	Buffer       Object
	Shader       Object
	Program      Object
	Framebuffer  Object
	Renderbuffer Object

	// Uniform is a resolved uniform location. -1 means the program does not
	// use the uniform.
	Uniform struct{ V int32 }

	// Attrib is a vertex attribute slot.
	Attrib uint32

	Enum uint32
)

// NoUniform is the location returned for uniforms the program does not use.
var NoUniform = Uniform{V: -1}

func (o Object) valid() bool { return o.V != 0 }

func (t Texture) Valid() bool      { return Object(t).valid() }
func (b Buffer) Valid() bool       { return Object(b).valid() }
func (s Shader) Valid() bool       { return Object(s).valid() }
func (p Program) Valid() bool      { return Object(p).valid() }
func (f Framebuffer) Valid() bool  { return Object(f).valid() }
func (r Renderbuffer) Valid() bool { return Object(r).valid() }
func (u Uniform) Valid() bool      { return u.V != -1 }

// TypeSize returns the byte width of a scalar vertex component type, or 0
// for types a vertex layout cannot hold.
func TypeSize(typ Enum) int {
	switch typ {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT:
		return 2
	case INT, UNSIGNED_INT, FLOAT:
		return 4
	default:
		return 0
	}
}

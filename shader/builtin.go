package shader

// Names of the sources Builtin registers.
const (
	QuadVertex        = "quad.vert"
	BlitFragment      = "blit.frag"
	BlitFlipFragment  = "blit_flip.frag"
	blitSamplerHeader = "blit_sampler.glsl"
)

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const quadVertexGL = `#version 410 core
in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentGL = `#version 410 core
#include "blit_sampler.glsl"
void main() { fragColor = texture(u_texture, frag_uv); }
`

const blitFlipFragmentGL = `#version 410 core
#include "blit_sampler.glsl"
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const quadVertexGLES = `#version 300 es
in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentGLES = `#version 300 es
precision mediump float;
#include "blit_sampler.glsl"
void main() { fragColor = texture(u_texture, frag_uv); }
`

const blitFlipFragmentGLES = `#version 300 es
precision mediump float;
#include "blit_sampler.glsl"
void main() { fragColor = texture(u_texture, vec2(frag_uv.x, 1.0 - frag_uv.y)); }
`

const blitSampler = `in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
`

// Builtin returns the fullscreen quad and blit sources for the given
// dialect. The quad expects a vec2 attribute named in_vert in clip space
// and the blit shaders sample u_texture.
func Builtin(isGLES bool) map[string]string {
	if isGLES {
		return map[string]string{
			QuadVertex:        quadVertexGLES,
			BlitFragment:      blitFragmentGLES,
			BlitFlipFragment:  blitFlipFragmentGLES,
			blitSamplerHeader: blitSampler,
		}
	}
	return map[string]string{
		QuadVertex:        quadVertexGL,
		BlitFragment:      blitFragmentGL,
		BlitFlipFragment:  blitFlipFragmentGL,
		blitSamplerHeader: blitSampler,
	}
}

// Package renderer draws one fullscreen fragment shader pass into an
// offscreen double buffer and presents or snapshots the result. It is the
// end-to-end user of the resource packages.
package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/richinsley/glkit/buffer"
	"github.com/richinsley/glkit/framebuffer"
	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/shader"
	"github.com/richinsley/glkit/sources"
	"github.com/richinsley/glkit/texture"
)

// Texture units used by the pass.
const (
	unitTexture  = 0
	unitCubeMap  = 1
	unitPrevious = 2
)

var quadVertices = []float32{
	-1, -1,
	1, -1,
	1, 1,
	-1, 1,
}

var quadIndices = []uint16{0, 1, 2, 2, 3, 0}

type Config struct {
	Width    int
	Height   int
	Float    bool
	GLES     bool
	Vertex   string
	Fragment string

	// Translator, when set, is applied to the user pass only. Built-in
	// sources are already in the context dialect.
	Translator shader.Translator
}

type Renderer struct {
	d   graphics.Driver
	cfg Config

	sources sources.Sources
	quad    *buffer.VertexBuffer
	indices *buffer.IndexBuffer
	pass    *shader.Program
	blit    *shader.Program
	target  *framebuffer.PingPong

	texture *texture.Texture
	cubemap *texture.CubeMap

	width  int
	height int
	frame  int

	mu      sync.Mutex
	pending sources.Sources
}

// New builds the quad, the pass and blit programs and the offscreen
// targets. user is overlaid on the built-in sources.
func New(d graphics.Driver, cfg Config, user sources.Sources) (*Renderer, error) {
	r := &Renderer{
		d:       d,
		cfg:     cfg,
		width:   cfg.Width,
		height:  cfg.Height,
		sources: sources.Sources(shader.Builtin(cfg.GLES)).Merge(user),
	}

	r.quad = buffer.NewVertexBuffer(d)
	if err := r.quad.AddAttribute("in_vert", 2, graphics.FLOAT, false); err != nil {
		return nil, err
	}
	if err := r.quad.Allocate(len(quadVertices) / 2); err != nil {
		return nil, err
	}
	if err := r.quad.UploadFloats(quadVertices); err != nil {
		r.Destroy()
		return nil, err
	}
	r.indices = buffer.NewIndexBuffer(d)
	r.indices.Init(quadIndices)

	var err error
	r.blit, err = shader.New(d, shader.Builtin(cfg.GLES), shader.QuadVertex, shader.BlitFragment)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	r.pass, err = r.buildPass(r.sources)
	if err != nil {
		r.Destroy()
		return nil, err
	}

	if cfg.Float {
		log.Println("Offscreen target: Using 32-bit float format.")
	} else {
		log.Println("Offscreen target: Using 8-bit format.")
	}
	r.target, err = framebuffer.NewPingPong(d, r.width, r.height, cfg.Float)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("failed to create offscreen target: %w", err)
	}
	return r, nil
}

func (r *Renderer) buildPass(s sources.Sources) (*shader.Program, error) {
	var opts []shader.Option
	if r.cfg.Translator != nil {
		opts = append(opts, shader.WithTranslator(r.cfg.Translator))
	}
	p, err := shader.New(r.d, s, r.cfg.Vertex, r.cfg.Fragment, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	return p, nil
}

// SetTexture binds t to u_texture on every frame.
func (r *Renderer) SetTexture(t *texture.Texture) { r.texture = t }

// SetCubeMap binds c to u_cubemap once it is ready.
func (r *Renderer) SetCubeMap(c *texture.CubeMap) { r.cubemap = c }

// QueueReload hands a new source set to the GL thread. It may be called
// from any goroutine; the latest set wins and is compiled at the start of
// the next frame.
func (r *Renderer) QueueReload(s sources.Sources) {
	r.mu.Lock()
	r.pending = s
	r.mu.Unlock()
}

func (r *Renderer) applyReload() {
	r.mu.Lock()
	s := r.pending
	r.pending = nil
	r.mu.Unlock()
	if s != nil {
		if err := r.Reload(s); err != nil {
			log.Printf("Shader reload failed, keeping previous program: %v", err)
		}
	}
}

// Reload rebuilds the pass from user sources. On failure the previous
// program stays in use.
func (r *Renderer) Reload(user sources.Sources) error {
	merged := sources.Sources(shader.Builtin(r.cfg.GLES)).Merge(user)
	p, err := r.buildPass(merged)
	if err != nil {
		return err
	}
	r.pass.Destroy()
	r.pass = p
	r.sources = merged
	log.Printf("Reloaded pass %s/%s", r.cfg.Vertex, r.cfg.Fragment)
	return nil
}

// Resize changes the offscreen size. Feedback contents are lost.
func (r *Renderer) Resize(width, height int) error {
	if width == r.width && height == r.height {
		return nil
	}
	if err := r.target.Resize(width, height); err != nil {
		return err
	}
	r.width, r.height = width, height
	return nil
}

// Frame returns how many frames have been rendered.
func (r *Renderer) Frame() int { return r.frame }

func (r *Renderer) drawQuad(p *shader.Program) {
	r.quad.Bind(p)
	r.indices.Bind()
	r.indices.Draw(graphics.TRIANGLES)
	r.quad.Release()
}

// RenderFrame runs the pass into the offscreen target. mouse follows the
// layout of glfwcontext.Context.GetMouseInput.
func (r *Renderer) RenderFrame(time float64, mouse [4]float32) {
	r.applyReload()
	if r.cubemap != nil {
		r.cubemap.Update()
	}

	d := r.d
	previous := r.target.Read()
	r.target.BindForWriting()
	d.Viewport(0, 0, r.width, r.height)
	d.ClearColor(0, 0, 0, 1)
	d.Clear(graphics.COLOR_BUFFER_BIT | graphics.DEPTH_BUFFER_BIT)

	p := r.pass
	p.Bind()
	p.SetVec3("u_resolution", float32(r.width), float32(r.height), 1)
	p.SetFloat("u_time", float32(time))
	p.SetInt("u_frame", r.frame)
	p.SetVec4("u_mouse", mouse[0], mouse[1], mouse[2], mouse[3])

	if r.texture != nil {
		r.texture.Bind(unitTexture)
		p.SetTexture("u_texture", r.texture)
	}
	cubeBound := r.cubemap != nil && r.cubemap.Bind(unitCubeMap)
	if cubeBound {
		p.SetTexture("u_cubemap", r.cubemap)
	}
	previous.BindTarget(unitPrevious)
	p.SetTexture("u_previous", previous)

	r.drawQuad(p)

	d.ActiveTexture(graphics.TEXTURE0 + unitPrevious)
	d.BindTexture(graphics.TEXTURE_2D, graphics.Texture{})
	if cubeBound {
		d.ActiveTexture(graphics.TEXTURE0 + unitCubeMap)
		d.BindTexture(graphics.TEXTURE_CUBE_MAP, graphics.Texture{})
	}
	if r.texture != nil {
		r.texture.Unbind()
	}

	r.target.UnbindForWriting()
	r.target.Swap()
	r.frame++
}

// Present blits the latest frame to the default framebuffer.
func (r *Renderer) Present(width, height int) {
	d := r.d
	d.BindFramebuffer(graphics.FRAMEBUFFER, graphics.Framebuffer{})
	d.Viewport(0, 0, width, height)
	d.Clear(graphics.COLOR_BUFFER_BIT)

	latest := r.target.Read()
	r.blit.Bind()
	latest.BindTarget(0)
	r.blit.SetTexture("u_texture", latest)
	r.drawQuad(r.blit)
	d.BindTexture(graphics.TEXTURE_2D, graphics.Texture{})
}

// Run renders and presents until the context asks to close.
func (r *Renderer) Run(ctx graphics.Context) {
	type mouseSource interface {
		GetMouseInput() [4]float32
	}
	start := ctx.Time()
	for !ctx.ShouldClose() {
		fbWidth, fbHeight := ctx.GetFramebufferSize()
		if fbWidth > 0 && fbHeight > 0 {
			if err := r.Resize(fbWidth, fbHeight); err != nil {
				log.Printf("Resize to %dx%d failed: %v", fbWidth, fbHeight, err)
			}
		}

		var mouse [4]float32
		if m, ok := ctx.(mouseSource); ok {
			mouse = m.GetMouseInput()
		}
		r.RenderFrame(ctx.Time()-start, mouse)
		r.Present(fbWidth, fbHeight)
		ctx.EndFrame()
	}
}

func (r *Renderer) Destroy() {
	if r.target != nil {
		r.target.Destroy()
	}
	if r.pass != nil {
		r.pass.Destroy()
	}
	if r.blit != nil {
		r.blit.Destroy()
	}
	if r.indices != nil {
		r.indices.Destroy()
	}
	if r.quad != nil {
		r.quad.Destroy()
	}
}

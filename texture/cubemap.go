package texture

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/loader"
)

// State is the lifecycle stage of a CubeMap.
type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FaceTargets maps source index to cube face. Sources are given in the
// order +X, +Y, +Z, -X, -Y, -Z.
var FaceTargets = [6]graphics.Enum{
	graphics.TEXTURE_CUBE_MAP_POSITIVE_X,
	graphics.TEXTURE_CUBE_MAP_POSITIVE_Y,
	graphics.TEXTURE_CUBE_MAP_POSITIVE_Z,
	graphics.TEXTURE_CUBE_MAP_NEGATIVE_X,
	graphics.TEXTURE_CUBE_MAP_NEGATIVE_Y,
	graphics.TEXTURE_CUBE_MAP_NEGATIVE_Z,
}

type faceResult struct {
	face int
	img  image.Image
	err  error
}

// CubeMap is a cube-map texture built from six images loaded in the
// background. Loads run on their own goroutines; the GPU texture is only
// created by Update or Wait, which must run on the GL thread.
type CubeMap struct {
	d       graphics.Driver
	sources [6]string
	flip    bool

	results chan faceResult
	faces   [6]*image.RGBA
	arrived int

	state State
	err   error
	ready chan struct{}

	tex  graphics.Texture
	size int
	unit int
}

// NewCubeMap starts loading the six face sources with l. It returns
// immediately; the texture exists once State reports Ready.
func NewCubeMap(ctx context.Context, d graphics.Driver, l loader.Loader, sources [6]string, opts ...Option) *CubeMap {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &CubeMap{
		d:       d,
		sources: sources,
		flip:    cfg.flip,
		results: make(chan faceResult, len(sources)),
		ready:   make(chan struct{}),
	}
	for i, src := range sources {
		go func(face int, src string) {
			img, err := l.Load(ctx, src)
			c.results <- faceResult{face: face, img: img, err: err}
		}(i, src)
	}
	return c
}

// Update accepts every face load that has finished so far without
// blocking and returns the resulting state.
func (c *CubeMap) Update() State {
	for c.state == Pending {
		select {
		case r := <-c.results:
			c.accept(r)
		default:
			return c.state
		}
	}
	return c.state
}

// Wait blocks until all six faces are in and the texture is built, a
// load fails, or ctx is done.
func (c *CubeMap) Wait(ctx context.Context) error {
	for c.state == Pending {
		select {
		case r := <-c.results:
			c.accept(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.err
}

// Ready returns a channel that is closed when the cube map leaves the
// Pending state. The transition happens inside Update or Wait.
func (c *CubeMap) Ready() <-chan struct{} { return c.ready }

func (c *CubeMap) accept(r faceResult) {
	if r.err != nil {
		c.err = fmt.Errorf("cube map face %d (%s): %w", r.face, c.sources[r.face], r.err)
		c.finish(Failed)
		return
	}
	if r.img == nil {
		c.err = fmt.Errorf("cube map face %d (%s): no image", r.face, c.sources[r.face])
		c.finish(Failed)
		return
	}
	c.faces[r.face] = loader.ToRGBA(r.img, c.flip)
	c.arrived++
	if c.arrived == len(c.faces) {
		c.build()
		c.finish(Ready)
	}
}

func (c *CubeMap) finish(s State) {
	c.state = s
	close(c.ready)
}

func (c *CubeMap) build() {
	d := c.d
	c.tex = d.CreateTexture()
	d.BindTexture(graphics.TEXTURE_CUBE_MAP, c.tex)
	d.PixelStorei(graphics.UNPACK_ALIGNMENT, 1)
	for i, face := range c.faces {
		b := face.Bounds()
		d.TexImage2D(FaceTargets[i], 0, graphics.RGBA8, b.Dx(), b.Dy(), graphics.RGBA, graphics.UNSIGNED_BYTE, face.Pix)
	}
	d.GenerateMipmap(graphics.TEXTURE_CUBE_MAP)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MIN_FILTER, graphics.LINEAR)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_MAG_FILTER, graphics.LINEAR)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_S, graphics.CLAMP_TO_EDGE)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_T, graphics.CLAMP_TO_EDGE)
	d.TexParameteri(graphics.TEXTURE_CUBE_MAP, graphics.TEXTURE_WRAP_R, graphics.CLAMP_TO_EDGE)
	d.BindTexture(graphics.TEXTURE_CUBE_MAP, graphics.Texture{})

	c.size = c.faces[0].Bounds().Dx()
	log.Printf("Cube map ready: %dx%d faces", c.size, c.faces[0].Bounds().Dy())
	c.faces = [6]*image.RGBA{}
}

func (c *CubeMap) State() State { return c.state }

// Err returns the load error once the cube map has Failed.
func (c *CubeMap) Err() error { return c.err }

// Handle returns the cube texture, or the zero texture before Ready.
func (c *CubeMap) Handle() graphics.Texture { return c.tex }

// Size returns the edge length of a face, or 0 before Ready.
func (c *CubeMap) Size() int { return c.size }

// Bind binds the cube texture to unit. It reports false and binds nothing
// while the cube map is not Ready.
func (c *CubeMap) Bind(unit int) bool {
	if c.state != Ready {
		return false
	}
	c.unit = unit
	c.d.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(unit))
	c.d.BindTexture(graphics.TEXTURE_CUBE_MAP, c.tex)
	return true
}

func (c *CubeMap) BoundUnit() int { return c.unit }

func (c *CubeMap) Destroy() {
	if c.tex.Valid() {
		c.d.DeleteTexture(c.tex)
		c.tex = graphics.Texture{}
	}
}

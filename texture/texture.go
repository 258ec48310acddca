// Package texture creates 2D and cube-map textures.
package texture

import (
	"errors"
	"fmt"
	"image"
	"log"
	"unsafe"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/loader"
)

var ErrChannels = errors.New("texture: channel count must be between 1 and 4")

type config struct {
	wrap      graphics.Enum
	minFilter graphics.Enum
	magFilter graphics.Enum
	mipmap    bool
	srgb      bool
	flip      bool
}

func defaults() config {
	return config{
		wrap:      graphics.REPEAT,
		minFilter: graphics.LINEAR,
		magFilter: graphics.LINEAR,
		mipmap:    true,
	}
}

type Option func(*config)

// WithWrap sets the wrap mode on every axis. Default REPEAT.
func WithWrap(mode graphics.Enum) Option {
	return func(c *config) { c.wrap = mode }
}

// WithFilter sets both the minification and magnification filter.
// Default LINEAR.
func WithFilter(filter graphics.Enum) Option {
	return func(c *config) {
		c.minFilter = filter
		c.magFilter = filter
	}
}

// WithMinFilter overrides the minification filter only, e.g. with
// LINEAR_MIPMAP_LINEAR.
func WithMinFilter(filter graphics.Enum) Option {
	return func(c *config) { c.minFilter = filter }
}

// WithMipmap controls mipmap generation after upload. Default on.
func WithMipmap(on bool) Option {
	return func(c *config) { c.mipmap = on }
}

// WithSRGB stores 8-bit RGBA images in an sRGB format so sampling
// linearizes them.
func WithSRGB(on bool) Option {
	return func(c *config) { c.srgb = on }
}

// WithFlipY flips decoded images top to bottom before upload.
func WithFlipY(on bool) Option {
	return func(c *config) { c.flip = on }
}

// Format returns the internal format, pixel format and component type for
// a texture with the given channel count.
func Format(channels int, isFloat bool) (internalFormat, format, typ graphics.Enum, err error) {
	if channels < 1 || channels > 4 {
		return 0, 0, 0, fmt.Errorf("%w: got %d", ErrChannels, channels)
	}
	formats := [4]graphics.Enum{graphics.RED, graphics.RG, graphics.RGB, graphics.RGBA}
	format = formats[channels-1]
	if isFloat {
		internals := [4]graphics.Enum{graphics.R32F, graphics.RG32F, graphics.RGB32F, graphics.RGBA32F}
		return internals[channels-1], format, graphics.FLOAT, nil
	}
	internals := [4]graphics.Enum{graphics.R8, graphics.RG8, graphics.RGB8, graphics.RGBA8}
	return internals[channels-1], format, graphics.UNSIGNED_BYTE, nil
}

// Texture is a 2D texture.
type Texture struct {
	d        graphics.Driver
	tex      graphics.Texture
	width    int
	height   int
	channels int
	isFloat  bool
	unit     int
}

// New creates a width x height texture and uploads data, which holds
// channels components per texel, one byte each or a native float32 each
// when isFloat is set. A nil data allocates storage without uploading.
func New(d graphics.Driver, width, height, channels int, isFloat bool, data []byte, opts ...Option) (*Texture, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	internalFormat, format, typ, err := Format(channels, isFloat)
	if err != nil {
		return nil, err
	}
	if cfg.srgb && !isFloat && channels == 4 {
		internalFormat = graphics.SRGB8_ALPHA8
		log.Printf("Using sRGB texture format for %dx%d texture", width, height)
	}
	if isFloat {
		log.Printf("Using float texture format for %dx%d texture (%d channels)", width, height, channels)
	}
	texel := channels
	if isFloat {
		texel *= 4
	}
	if data != nil && len(data) != width*height*texel {
		return nil, fmt.Errorf("texture: %dx%d with %d channels needs %d bytes, got %d",
			width, height, channels, width*height*texel, len(data))
	}

	t := &Texture{
		d:        d,
		width:    width,
		height:   height,
		channels: channels,
		isFloat:  isFloat,
	}
	t.tex = d.CreateTexture()
	d.BindTexture(graphics.TEXTURE_2D, t.tex)
	d.PixelStorei(graphics.UNPACK_ALIGNMENT, 1)
	d.TexImage2D(graphics.TEXTURE_2D, 0, internalFormat, width, height, format, typ, data)
	if cfg.mipmap {
		d.GenerateMipmap(graphics.TEXTURE_2D)
	}
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, int(cfg.minFilter))
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, int(cfg.magFilter))
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_S, int(cfg.wrap))
	d.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_T, int(cfg.wrap))
	d.BindTexture(graphics.TEXTURE_2D, graphics.Texture{})
	return t, nil
}

// NewFloat is New for float32 texel data.
func NewFloat(d graphics.Driver, width, height, channels int, data []float32, opts ...Option) (*Texture, error) {
	var b []byte
	if data != nil {
		b = []byte{}
		if len(data) > 0 {
			b = unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
		}
	}
	return New(d, width, height, channels, true, b, opts...)
}

// FromImage uploads img as an 8-bit RGBA texture.
func FromImage(d graphics.Driver, img image.Image, opts ...Option) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("texture: nil image")
	}
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	rgba := loader.ToRGBA(img, cfg.flip)
	b := rgba.Bounds()
	return New(d, b.Dx(), b.Dy(), 4, false, rgba.Pix, opts...)
}

// Bind binds the texture to the given texture unit and remembers the unit
// for sampler uniforms.
func (t *Texture) Bind(unit int) {
	t.unit = unit
	t.d.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(unit))
	t.d.BindTexture(graphics.TEXTURE_2D, t.tex)
}

// Unbind clears the 2D binding on the unit the texture was last bound to.
func (t *Texture) Unbind() {
	t.d.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(t.unit))
	t.d.BindTexture(graphics.TEXTURE_2D, graphics.Texture{})
}

// BoundUnit returns the unit passed to the last Bind.
func (t *Texture) BoundUnit() int { return t.unit }

func (t *Texture) Handle() graphics.Texture { return t.tex }

func (t *Texture) Size() (width, height int) { return t.width, t.height }

func (t *Texture) Channels() int { return t.channels }

func (t *Texture) IsFloat() bool { return t.isFloat }

func (t *Texture) Destroy() {
	if t.tex.Valid() {
		t.d.DeleteTexture(t.tex)
		t.tex = graphics.Texture{}
	}
}

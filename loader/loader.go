// Package loader fetches and decodes images for textures. Loads may run on
// any goroutine; nothing here touches the GPU.
package loader

import (
	"context"
	"image"
	"image/draw"
	"net/url"
	"strings"
)

// Loader turns a source reference into a decoded image.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// Mux sends http and https sources to HTTP and everything else to File.
type Mux struct {
	HTTP Loader
	File Loader
}

func (m *Mux) Load(ctx context.Context, src string) (image.Image, error) {
	if u, err := url.Parse(src); err == nil {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if m.HTTP != nil {
				return m.HTTP.Load(ctx, src)
			}
		case "file":
			return m.File.Load(ctx, u.Path)
		}
	}
	return m.File.Load(ctx, src)
}

// ToRGBA returns img as tightly packed RGBA with its origin at (0, 0),
// flipped top to bottom when flip is set. An *image.RGBA that already fits
// is returned as is unless it has to be flipped.
func ToRGBA(img image.Image, flip bool) *image.RGBA {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != (image.Point{}) || rgba.Stride != b.Dx()*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	if flip {
		rgba = vflip(rgba)
	}
	return rgba
}

// vflip vertically flips the provided RGBA image so row 0 ends up at the
// bottom, matching the GL texture origin.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

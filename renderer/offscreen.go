package renderer

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/loader"
)

// Snapshot reads the latest frame back as top-down RGBA.
func (r *Renderer) Snapshot() *image.RGBA {
	d := r.d
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))

	r.target.Read().Bind()
	d.PixelStorei(graphics.PACK_ALIGNMENT, 1)
	d.ReadPixels(0, 0, r.width, r.height, graphics.RGBA, graphics.UNSIGNED_BYTE, img.Pix)
	r.target.Read().Release()

	// GL rows start at the bottom.
	return loader.ToRGBA(img, true)
}

// WritePNG encodes the latest frame to path.
func (r *Renderer) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := png.Encode(f, r.Snapshot()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}

// RunHeadless renders frames on a fixed clock of fps with no presentation.
// When each is set it receives every frame as a snapshot, in order.
func (r *Renderer) RunHeadless(frames, fps int, each func(*image.RGBA) error) error {
	frameDuration := 1.0 / float64(fps)
	for i := 0; i < frames; i++ {
		r.RenderFrame(float64(i)*frameDuration, [4]float32{})
		if each != nil {
			if err := each(r.Snapshot()); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
	}
	log.Printf("Rendered %d offscreen frames at %dx%d", frames, r.width, r.height)
	return nil
}

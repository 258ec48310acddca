package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decoder decodes a file the standard image decoders do not recognise.
type Decoder interface {
	Decode(ctx context.Context, path string) (image.Image, error)
}

// FileLoader reads images from disk. Relative sources are taken relative
// to Root.
type FileLoader struct {
	Root     string
	Fallback Decoder
}

func (l *FileLoader) path(src string) string {
	if filepath.IsAbs(src) || l.Root == "" {
		return src
	}
	return filepath.Join(l.Root, src)
}

func (l *FileLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.path(src)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if errors.Is(err, image.ErrFormat) && l.Fallback != nil {
		return l.Fallback.Decode(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

package loader

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient is a 2x3 image whose red channel encodes the row.
func gradient() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y * 100), G: uint8(x), A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, gradient()))
	require.NoError(t, f.Close())
}

func TestToRGBA(t *testing.T) {
	rgba := ToRGBA(gradient(), false)
	assert.Equal(t, image.Rect(0, 0, 2, 3), rgba.Bounds())
	assert.Equal(t, uint8(0), rgba.Pix[0])
	assert.Equal(t, uint8(200), rgba.Pix[2*rgba.Stride])

	flipped := ToRGBA(gradient(), true)
	assert.Equal(t, uint8(200), flipped.Pix[0])
	assert.Equal(t, uint8(100), flipped.Pix[flipped.Stride])
	assert.Equal(t, uint8(0), flipped.Pix[2*flipped.Stride])
	assert.Equal(t, uint8(1), flipped.Pix[5], "columns keep their order")
}

func TestToRGBARebasesSubImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.RGBA{R: 9, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	rgba := ToRGBA(sub, false)
	assert.Equal(t, image.Rect(0, 0, 2, 2), rgba.Bounds())
	assert.Equal(t, 8, rgba.Stride)
	assert.Equal(t, uint8(9), rgba.Pix[0])
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "face.png"))

	l := &FileLoader{Root: dir}
	img, err := l.Load(context.Background(), "face.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), img.Bounds())

	img, err = l.Load(context.Background(), filepath.Join(dir, "face.png"))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = l.Load(context.Background(), "missing.png")
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Load(ctx, "face.png")
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeDecoder struct {
	paths []string
}

func (f *fakeDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	f.paths = append(f.paths, path)
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestFileLoaderFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.exr")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := (&FileLoader{}).Load(context.Background(), path)
	assert.ErrorIs(t, err, image.ErrFormat)

	dec := &fakeDecoder{}
	img, err := (&FileLoader{Fallback: dec}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, []string{path}, dec.paths)
}

func TestParseProbe(t *testing.T) {
	w, h, err := parseProbe(`{"streams":[{"codec_type":"audio"},{"codec_type":"video","width":640,"height":480}]}`)
	require.NoError(t, err)
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)

	_, _, err = parseProbe(`{"streams":[{"codec_type":"audio"}]}`)
	assert.Error(t, err)
	_, _, err = parseProbe(`nope`)
	assert.Error(t, err)
}

func TestHTTPLoaderCaches(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		agent.Store(r.Header.Get("User-Agent"))
		if r.URL.Path != "/media/tex.png" {
			http.NotFound(w, r)
			return
		}
		png.Encode(w, gradient())
	}))
	defer srv.Close()

	cache := t.TempDir()
	l := NewHTTPLoader(cache)

	img, err := l.Load(context.Background(), srv.URL+"/media/tex.png")
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.Equal(t, userAgent, agent.Load())
	assert.FileExists(t, filepath.Join(cache, "tex.png"))

	_, err = l.Load(context.Background(), srv.URL+"/media/tex.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load(), "second load served from cache")

	_, err = l.Load(context.Background(), srv.URL+"/media/absent.png")
	assert.ErrorContains(t, err, "status code: 404")
}

func TestMux(t *testing.T) {
	var got []string
	record := func(name string) Loader {
		return LoaderFunc(func(ctx context.Context, src string) (image.Image, error) {
			got = append(got, name+":"+src)
			return nil, errors.New("stub")
		})
	}
	m := &Mux{HTTP: record("http"), File: record("file")}

	ctx := context.Background()
	m.Load(ctx, "https://example.com/a.png")
	m.Load(ctx, "HTTP://example.com/b.png")
	m.Load(ctx, "file:///tmp/c.png")
	m.Load(ctx, "textures/d.png")

	assert.Equal(t, []string{
		"http:https://example.com/a.png",
		"http:HTTP://example.com/b.png",
		"file:/tmp/c.png",
		"file:textures/d.png",
	}, got)
}

// Package encoder records rendered frames to a video file by piping raw
// RGBA into an ffmpeg process.
package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrFrameSize = errors.New("encoder: frame size does not match the stream")

type Config struct {
	Path       string
	Width      int
	Height     int
	FPS        int
	Codec      string // h264 or hevc
	FFmpegPath string
}

// Encoder is an open ffmpeg process fed one frame at a time. It is not safe
// for concurrent use.
type Encoder struct {
	cfg    Config
	pipe   *io.PipeWriter
	done   chan error
	stderr bytes.Buffer
	frames int
}

// IsVideo reports whether path names a container the encoder writes.
func IsVideo(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv":
		return true
	}
	return false
}

// preferredEncoders lists encoder names for codec, hardware first.
func preferredEncoders(codec, goos string) []string {
	switch codec {
	case "hevc":
		switch goos {
		case "linux":
			return []string{"hevc_nvenc", "libx265"}
		case "darwin":
			return []string{"hevc_videotoolbox", "libx265"}
		case "windows":
			return []string{"hevc_nvenc", "hevc_amf", "hevc_qsv", "libx265"}
		default:
			return []string{"libx265"}
		}
	default:
		switch goos {
		case "linux":
			return []string{"h264_nvenc", "libx264"}
		case "darwin":
			return []string{"h264_videotoolbox", "libx264"}
		case "windows":
			return []string{"h264_nvenc", "h264_amf", "h264_qsv", "libx264"}
		default:
			return []string{"libx264"}
		}
	}
}

// parseEncoders reads the output of `ffmpeg -encoders`. Video encoder
// lines start with a flag column beginning with V.
func parseEncoders(out string) map[string]bool {
	found := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 || fields[0][0] != 'V' || fields[1] == "=" {
			continue
		}
		found[fields[1]] = true
	}
	return found
}

func pickEncoder(codec, goos string, available map[string]bool) (string, error) {
	for _, name := range preferredEncoders(codec, goos) {
		if available[name] {
			return name, nil
		}
	}
	return "", fmt.Errorf("could not find a suitable video encoder for '%s'", codec)
}

func availableEncoders(ffmpegPath string) (map[string]bool, error) {
	bin := ffmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	out, err := exec.Command(bin, "-hide_banner", "-encoders").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list ffmpeg encoders: %w", err)
	}
	return parseEncoders(string(out)), nil
}

// New starts ffmpeg writing cfg.Path. Frames are converted to yuv420p.
func New(cfg Config) (*Encoder, error) {
	available, err := availableEncoders(cfg.FFmpegPath)
	if err != nil {
		return nil, err
	}
	name, err := pickEncoder(cfg.Codec, runtime.GOOS, available)
	if err != nil {
		return nil, err
	}
	log.Printf("Selected video encoder: %s", name)

	pr, pw := io.Pipe()
	e := &Encoder{cfg: cfg, pipe: pw, done: make(chan error, 1)}

	stream := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}).
		Output(cfg.Path, ffmpeg.KwArgs{
			"c:v":     name,
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		WithInput(pr).
		WithErrorOutput(&e.stderr)
	if cfg.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(cfg.FFmpegPath)
	}

	go func() {
		err := stream.Run()
		// Unblock a writer stuck on a dead process.
		pr.CloseWithError(err)
		e.done <- err
	}()
	return e, nil
}

// WriteFrame sends one top-down frame to ffmpeg.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.cfg.Width || b.Dy() != e.cfg.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, b.Dx(), b.Dy(), e.cfg.Width, e.cfg.Height)
	}
	rowSize := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowSize]
		if _, err := e.pipe.Write(row); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
		}
	}
	e.frames++
	return nil
}

// Frames returns how many frames were written.
func (e *Encoder) Frames() int { return e.frames }

// Close flushes the stream and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	e.pipe.Close()
	if err := <-e.done; err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w: %s", e.cfg.Path, err, e.stderr.String())
	}
	log.Printf("Encoded %d frames to %s", e.frames, e.cfg.Path)
	return nil
}

package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegDecoder decodes the first frame of anything ffmpeg can read into
// RGBA. It needs ffprobe and ffmpeg on the PATH unless FFmpegPath is set.
type FFmpegDecoder struct {
	FFmpegPath string
}

type probeResult struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func parseProbe(out string) (width, height int, err error) {
	var pr probeResult
	if err := json.Unmarshal([]byte(out), &pr); err != nil {
		return 0, 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	for _, s := range pr.Streams {
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("no video stream found")
}

func (d *FFmpegDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	width, height, err := parseProbe(probe)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out, stderr bytes.Buffer
	cmd := ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"format":  "rawvideo",
			"pix_fmt": "rgba",
			"vframes": 1,
		}).
		WithOutput(&out).
		WithErrorOutput(&stderr)
	if d.FFmpegPath != "" {
		cmd = cmd.SetFfmpegPath(d.FFmpegPath)
	}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode %s: %w: %s", path, err, stderr.String())
	}

	want := width * height * 4
	if out.Len() < want {
		return nil, fmt.Errorf("ffmpeg decode %s: got %d bytes, want %d", path, out.Len(), want)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, out.Bytes()[:want])
	return img, nil
}

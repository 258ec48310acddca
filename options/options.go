// Package options holds the command line configuration of glkit. Values
// can be pre-seeded from a TOML file; flags set explicitly win.
package options

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Options struct {
	Config     *string
	Help       *bool
	Width      *int
	Height     *int
	Headless   *bool
	ShaderDir  *string
	Vertex     *string
	Fragment   *string
	Texture    *string
	CubeMap    *string // six comma separated face sources, +X +Y +Z -X -Y -Z
	Output     *string
	Frames     *int
	BitDepth   *int
	FPS        *int
	Codec      *string
	Watch      *bool
	Translate  *bool
	CacheDir   *string
	FFmpegPath *string
}

// File mirrors Options for TOML config files. Absent keys leave the flag
// defaults alone.
type File struct {
	Width      *int     `toml:"width"`
	Height     *int     `toml:"height"`
	Headless   *bool    `toml:"headless"`
	ShaderDir  *string  `toml:"shader_dir"`
	Vertex     *string  `toml:"vertex"`
	Fragment   *string  `toml:"fragment"`
	Texture    *string  `toml:"texture"`
	CubeMap    []string `toml:"cubemap"`
	Output     *string  `toml:"output"`
	Frames     *int     `toml:"frames"`
	BitDepth   *int     `toml:"bit_depth"`
	FPS        *int     `toml:"fps"`
	Codec      *string  `toml:"codec"`
	Watch      *bool    `toml:"watch"`
	Translate  *bool    `toml:"translate"`
	CacheDir   *string  `toml:"cache_dir"`
	FFmpegPath *string  `toml:"ffmpeg"`
}

// Register defines every option on fs.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		Config:     fs.String("config", "", "TOML file with default option values"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 1280, "Width of the output"),
		Height:     fs.Int("height", 720, "Height of the output"),
		Headless:   fs.Bool("headless", false, "Render without a window and write the result to -output"),
		ShaderDir:  fs.String("shaders", "", "Directory of shader sources (built-in blit shaders when empty)"),
		Vertex:     fs.String("vertex", "quad.vert", "Name of the vertex shader source"),
		Fragment:   fs.String("fragment", "blit.frag", "Name of the fragment shader source"),
		Texture:    fs.String("texture", "", "Image bound to u_texture (file path or http(s) URL)"),
		CubeMap:    fs.String("cubemap", "", "Six comma separated cube face images bound to u_cubemap"),
		Output:     fs.String("output", "output.png", "Headless output: a PNG snapshot, or a video for .mp4/.mov/.mkv"),
		Frames:     fs.Int("frames", 1, "Frames to render in headless mode before the snapshot"),
		BitDepth:   fs.Int("bitdepth", 8, "Offscreen target depth: 8 for RGBA8, more for float"),
		FPS:        fs.Int("fps", 60, "Frames per second of the headless clock and recorded video"),
		Codec:      fs.String("codec", "h264", "Video codec for recording (h264 or hevc)"),
		Watch:      fs.Bool("watch", false, "Reload shaders when the shader directory changes"),
		Translate:  fs.Bool("translate", false, "Translate WebGL2 GLSL sources to the context dialect"),
		CacheDir:   fs.String("cache", "", "Directory for downloaded images (user cache dir when empty)"),
		FFmpegPath: fs.String("ffmpeg", "", "Path to ffmpeg executable for images Go cannot decode"),
	}
}

// Parse registers the options on fs, parses args and applies the config
// file named by -config.
func Parse(fs *flag.FlagSet, args []string) (*Options, error) {
	o := Register(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *o.Config == "" {
		return o, nil
	}
	f, err := Load(*o.Config)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	o.apply(f, set)
	return o, nil
}

// Load decodes a TOML config file.
func Load(path string) (*File, error) {
	var f File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	return &f, nil
}

// File returns the current values in config file form.
func (o *Options) File() *File {
	f := &File{
		Width:      o.Width,
		Height:     o.Height,
		Headless:   o.Headless,
		ShaderDir:  o.ShaderDir,
		Vertex:     o.Vertex,
		Fragment:   o.Fragment,
		Texture:    o.Texture,
		Output:     o.Output,
		Frames:     o.Frames,
		BitDepth:   o.BitDepth,
		FPS:        o.FPS,
		Codec:      o.Codec,
		Watch:      o.Watch,
		Translate:  o.Translate,
		CacheDir:   o.CacheDir,
		FFmpegPath: o.FFmpegPath,
	}
	if faces, ok, _ := o.CubeFaces(); ok {
		f.CubeMap = faces[:]
	}
	return f
}

// Save writes the current values to path as TOML.
func (o *Options) Save(path string) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(o.File()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, buffer.Bytes(), 0644)
}

func (o *Options) apply(f *File, set map[string]bool) {
	setInt := func(name string, dst *int, v *int) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setString := func(name string, dst *string, v *string) {
		if v != nil && !set[name] {
			*dst = *v
		}
	}
	setInt("width", o.Width, f.Width)
	setInt("height", o.Height, f.Height)
	setBool("headless", o.Headless, f.Headless)
	setString("shaders", o.ShaderDir, f.ShaderDir)
	setString("vertex", o.Vertex, f.Vertex)
	setString("fragment", o.Fragment, f.Fragment)
	setString("texture", o.Texture, f.Texture)
	if f.CubeMap != nil && !set["cubemap"] {
		*o.CubeMap = strings.Join(f.CubeMap, ",")
	}
	setString("output", o.Output, f.Output)
	setInt("frames", o.Frames, f.Frames)
	setInt("bitdepth", o.BitDepth, f.BitDepth)
	setInt("fps", o.FPS, f.FPS)
	setString("codec", o.Codec, f.Codec)
	setBool("watch", o.Watch, f.Watch)
	setBool("translate", o.Translate, f.Translate)
	setString("cache", o.CacheDir, f.CacheDir)
	setString("ffmpeg", o.FFmpegPath, f.FFmpegPath)
}

var ErrCubeFaces = errors.New("cubemap needs exactly six comma separated sources")

// CubeFaces splits the -cubemap value. ok is false when no cube map was
// requested.
func (o *Options) CubeFaces() (faces [6]string, ok bool, err error) {
	if strings.TrimSpace(*o.CubeMap) == "" {
		return faces, false, nil
	}
	parts := strings.Split(*o.CubeMap, ",")
	if len(parts) != len(faces) {
		return faces, false, fmt.Errorf("%w: got %d", ErrCubeFaces, len(parts))
	}
	for i, p := range parts {
		faces[i] = strings.TrimSpace(p)
		if faces[i] == "" {
			return faces, false, fmt.Errorf("%w: face %d is empty", ErrCubeFaces, i)
		}
	}
	return faces, true, nil
}

// Validate checks values that flag parsing cannot.
func (o *Options) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.Frames < 1 {
		return fmt.Errorf("frames must be at least 1, got %d", *o.Frames)
	}
	if *o.BitDepth != 8 && *o.BitDepth != 10 && *o.BitDepth != 16 && *o.BitDepth != 32 {
		return fmt.Errorf("unsupported bit depth %d", *o.BitDepth)
	}
	if *o.FPS < 1 {
		return fmt.Errorf("fps must be at least 1, got %d", *o.FPS)
	}
	if *o.Codec != "h264" && *o.Codec != "hevc" {
		return fmt.Errorf("unsupported codec %q", *o.Codec)
	}
	if *o.Watch && *o.ShaderDir == "" {
		return fmt.Errorf("-watch needs -shaders")
	}
	_, _, err := o.CubeFaces()
	return err
}

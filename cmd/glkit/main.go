package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glkit/encoder"
	"github.com/richinsley/glkit/gldriver"
	"github.com/richinsley/glkit/glfwcontext"
	"github.com/richinsley/glkit/graphics"
	"github.com/richinsley/glkit/headless"
	"github.com/richinsley/glkit/loader"
	"github.com/richinsley/glkit/options"
	"github.com/richinsley/glkit/renderer"
	"github.com/richinsley/glkit/sources"
	"github.com/richinsley/glkit/texture"
	"github.com/richinsley/glkit/translator"
)

func init() {
	runtime.LockOSThread()
}

// newContext prefers an EGL surface for headless runs and falls back to a
// hidden GLFW window where EGL is unavailable.
func newContext(o *options.Options) (graphics.Context, *glfwcontext.Context, error) {
	if *o.Headless {
		ctx, err := headless.NewHeadless(*o.Width, *o.Height)
		if err == nil {
			return ctx, nil, nil
		}
		log.Printf("EGL unavailable (%v), using a hidden window", err)
	}
	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	win, err := glfwcontext.New(glfwcontext.Config{
		Width:     *o.Width,
		Height:    *o.Height,
		Title:     "glkit - " + *o.Fragment,
		Visible:   !*o.Headless,
		DeepColor: *o.BitDepth > 8,
		VSync:     true,
	})
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return win, win, nil
}

func newLoader(o *options.Options) (loader.Loader, error) {
	cacheDir := *o.CacheDir
	if cacheDir == "" {
		dir, err := loader.DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}
	return &loader.Mux{
		HTTP: loader.NewHTTPLoader(cacheDir),
		File: &loader.FileLoader{Fallback: &loader.FFmpegDecoder{FFmpegPath: *o.FFmpegPath}},
	}, nil
}

// runHeadless renders -frames frames and writes either a video of all of
// them or a PNG of the last one.
func runHeadless(o *options.Options, r *renderer.Renderer) error {
	if !encoder.IsVideo(*o.Output) {
		if err := r.RunHeadless(*o.Frames, *o.FPS, nil); err != nil {
			return err
		}
		return r.WritePNG(*o.Output)
	}
	enc, err := encoder.New(encoder.Config{
		Path:       *o.Output,
		Width:      *o.Width,
		Height:     *o.Height,
		FPS:        *o.FPS,
		Codec:      *o.Codec,
		FFmpegPath: *o.FFmpegPath,
	})
	if err != nil {
		return err
	}
	if err := r.RunHeadless(*o.Frames, *o.FPS, enc.WriteFrame); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func main() {
	fs := flag.NewFlagSet("glkit", flag.ExitOnError)
	o, err := options.Parse(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("Error parsing options: %v", err)
	}
	if *o.Help {
		fmt.Println("glkit fragment shader runner")
		fs.PrintDefaults()
		return
	}
	if err := o.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	gctx, win, err := newContext(o)
	if err != nil {
		log.Fatalf("Failed to create graphics context: %v", err)
	}
	defer func() {
		gctx.Shutdown()
		if win != nil {
			glfwcontext.TerminateGraphics()
		}
	}()
	gctx.MakeCurrent()

	d, err := gldriver.New()
	if err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}
	defer d.Destroy()

	var user sources.Sources
	if *o.ShaderDir != "" {
		user, err = sources.LoadDir(*o.ShaderDir)
		if err != nil {
			log.Fatalf("Failed to load shaders: %v", err)
		}
		log.Printf("Loaded %d shader sources from %s", len(user), *o.ShaderDir)
	}

	cfg := renderer.Config{
		Width:    *o.Width,
		Height:   *o.Height,
		Float:    *o.BitDepth > 8,
		GLES:     gctx.IsGLES(),
		Vertex:   *o.Vertex,
		Fragment: *o.Fragment,
	}
	if *o.Translate {
		t, err := translator.New(cfg.GLES)
		if err != nil {
			log.Fatalf("Failed to create shader translator: %v", err)
		}
		cfg.Translator = t
	}

	r, err := renderer.New(d, cfg, user)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Destroy()

	l, err := newLoader(o)
	if err != nil {
		log.Fatalf("Failed to set up image loading: %v", err)
	}
	if *o.Texture != "" {
		img, err := l.Load(ctx, *o.Texture)
		if err != nil {
			log.Fatalf("Failed to load texture %s: %v", *o.Texture, err)
		}
		tex, err := texture.FromImage(d, img, texture.WithFlipY(true))
		if err != nil {
			log.Fatalf("Failed to create texture: %v", err)
		}
		defer tex.Destroy()
		r.SetTexture(tex)
	}
	faces, ok, _ := o.CubeFaces()
	if ok {
		cube := texture.NewCubeMap(ctx, d, l, faces)
		defer cube.Destroy()
		r.SetCubeMap(cube)
		if *o.Headless {
			if err := cube.Wait(ctx); err != nil {
				log.Fatalf("Failed to load cube map: %v", err)
			}
		}
	}

	if *o.Watch {
		w, err := sources.Watch(*o.ShaderDir, r.QueueReload)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *o.ShaderDir, err)
		}
		defer w.Close()
		go w.Run(ctx)
	}

	if *o.Headless {
		if err := runHeadless(o, r); err != nil {
			log.Fatalf("Offscreen rendering failed: %v", err)
		}
		log.Printf("Successfully rendered to %s", *o.Output)
		return
	}

	win.RegisterKeyCallback(glfw.KeyS, func() {
		if err := r.WritePNG(*o.Output); err != nil {
			log.Printf("Snapshot failed: %v", err)
			return
		}
		log.Printf("Snapshot written to %s", *o.Output)
	})
	log.Println("Starting interactive render loop...")
	r.Run(gctx)
}

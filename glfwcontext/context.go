// Package glfwcontext provides a graphics.Context backed by a GLFW window.
package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glkit/graphics"
)

var _ graphics.Context = (*Context)(nil)

type Config struct {
	Width   int
	Height  int
	Title   string
	Visible bool

	// DeepColor asks for 16 bits per colour channel in the default
	// framebuffer.
	DeepColor bool

	// VSync swaps on the display's refresh.
	VSync bool
}

// Context is a GLFW window with a 4.1 core profile context.
type Context struct {
	window *glfw.Window
	mouse  mouse

	keyCallbacks map[glfw.Key]func()
}

// New creates the window and makes its context current. InitGraphics must
// have been called on the same thread. A hidden window still provides a
// usable context for offscreen work.
func New(cfg Config) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if cfg.DeepColor {
		glfw.WindowHint(glfw.RedBits, 16)
		glfw.WindowHint(glfw.GreenBits, 16)
		glfw.WindowHint(glfw.BlueBits, 16)
	}
	if cfg.Visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	title := cfg.Title
	if title == "" {
		title = "glkit"
	}
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %dx%d window: %w", cfg.Width, cfg.Height, err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	c := &Context{
		window:       win,
		keyCallbacks: make(map[glfw.Key]func()),
	}
	win.SetKeyCallback(c.onKey)

	fbWidth, fbHeight := win.GetFramebufferSize()
	log.Printf("Window created: %dx%d (framebuffer %dx%d)", cfg.Width, cfg.Height, fbWidth, fbHeight)
	return c, nil
}

// RegisterKeyCallback calls f on the GL thread whenever key is pressed.
// Escape always closes the window.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) onKey(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if f, ok := c.keyCallbacks[key]; ok {
		f()
	}
}

// SetTitle replaces the window title.
func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// GetMouseInput samples the cursor. See mouse.sample for the layout.
func (c *Context) GetMouseInput() [4]float32 {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	x, y := c.window.GetCursorPos()
	down := c.window.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
	return c.mouse.sample(x, y, winWidth, winHeight, fbWidth, fbHeight, down)
}

func (c *Context) MakeCurrent() { c.window.MakeContextCurrent() }

func (c *Context) IsGLES() bool { return false }

func (c *Context) Shutdown() { c.window.Destroy() }

func (c *Context) ShouldClose() bool { return c.window.ShouldClose() }

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) { return c.window.GetFramebufferSize() }

func (c *Context) Time() float64 { return glfw.GetTime() }

// InitGraphics initializes GLFW and pins the caller to its OS thread. It
// must run on the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. It must run on the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

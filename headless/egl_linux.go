//go:build linux

// Package headless provides a windowless graphics.Context through EGL.
package headless

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

static PFNEGLQUERYDEVICESEXTPROC query_devices_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platform_display_ptr = NULL;

static void load_extensions() {
    query_devices_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    platform_display_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLBoolean query_devices(EGLint max, EGLDeviceEXT *devices, EGLint *n) {
    if (query_devices_ptr == NULL) {
        return EGL_FALSE;
    }
    return query_devices_ptr(max, devices, n);
}

static EGLDisplay device_display(EGLDeviceEXT device) {
    if (platform_display_ptr == NULL) {
        return EGL_NO_DISPLAY;
    }
    return platform_display_ptr(EGL_PLATFORM_DEVICE_EXT, device, NULL);
}
*/
import "C"

import (
	"fmt"
	"log"
	"time"

	"github.com/richinsley/glkit/graphics"
)

var _ graphics.Context = (*Headless)(nil)

// Headless is an EGL desktop OpenGL 4.1 core context on a pbuffer, so the
// same driver and shader dialect serve windowed and headless runs. It
// never asks to close; callers decide how many frames to render.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface

	width  int
	height int
	start  time.Time
}

func eglError(what string) error {
	return fmt.Errorf("%s: EGL error 0x%X", what, uint32(C.eglGetError()))
}

// openDisplay prefers a display on the first enumerated GPU device, which
// works in containers without a window system, and falls back to the
// default display.
func openDisplay() (C.EGLDisplay, error) {
	C.load_extensions()

	var n C.EGLint
	if C.query_devices(0, nil, &n) == C.EGL_TRUE && n > 0 {
		devices := make([]C.EGLDeviceEXT, n)
		if C.query_devices(n, &devices[0], &n) == C.EGL_TRUE {
			for i := 0; i < int(n); i++ {
				if d := C.device_display(devices[i]); d != C.EGLDisplay(C.EGL_NO_DISPLAY) {
					log.Printf("Using EGL device %d of %d", i, n)
					return d, nil
				}
			}
		}
	}

	log.Println("EGL device enumeration unavailable, using the default display")
	d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
	if d == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return d, eglError("eglGetDisplay")
	}
	return d, nil
}

// NewHeadless creates the context and makes it current on the calling
// thread, which must stay locked to its OS thread.
func NewHeadless(width, height int) (graphics.Context, error) {
	h := &Headless{
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
		width:   width,
		height:  height,
		start:   time.Now(),
	}
	if err := h.init(); err != nil {
		h.Shutdown()
		return nil, err
	}
	return h, nil
}

func (h *Headless) init() error {
	var err error
	if h.display, err = openDisplay(); err != nil {
		return err
	}

	var major, minor C.EGLint
	if C.eglInitialize(h.display, &major, &minor) == C.EGL_FALSE {
		return eglError("eglInitialize")
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)

	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		return eglError("eglBindAPI(OpenGL)")
	}

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_NONE,
	}
	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(h.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return eglError("eglChooseConfig")
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(h.width),
		C.EGL_HEIGHT, C.EGLint(h.height),
		C.EGL_NONE,
	}
	h.surface = C.eglCreatePbufferSurface(h.display, config, &pbufferAttribs[0])
	if h.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return eglError("eglCreatePbufferSurface")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
		C.EGL_NONE,
	}
	h.context = C.eglCreateContext(h.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if h.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return eglError("eglCreateContext(4.1 core)")
	}

	if C.eglMakeCurrent(h.display, h.surface, h.surface, h.context) == C.EGL_FALSE {
		return eglError("eglMakeCurrent")
	}
	log.Printf("Headless context ready: %dx%d", h.width, h.height)
	return nil
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

func (h *Headless) ShouldClose() bool { return false }

// EndFrame swaps the pbuffer. Rendering goes to framebuffers, so this only
// paces the driver.
func (h *Headless) EndFrame() {
	C.eglSwapBuffers(h.display, h.surface)
}

func (h *Headless) GetFramebufferSize() (int, int) { return h.width, h.height }

func (h *Headless) Time() float64 { return time.Since(h.start).Seconds() }

func (h *Headless) IsGLES() bool { return false }

// Shutdown releases whatever init managed to create.
func (h *Headless) Shutdown() {
	if h.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(h.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if h.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(h.display, h.context)
	}
	if h.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(h.display, h.surface)
	}
	C.eglTerminate(h.display)
	h.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
}

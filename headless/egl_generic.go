//go:build !linux

// Package headless provides a windowless graphics.Context through EGL.
package headless

import (
	"errors"

	"github.com/richinsley/glkit/graphics"
)

var ErrUnsupported = errors.New("headless: EGL is only available on linux")

// NewHeadless always fails off linux; callers fall back to a hidden window.
func NewHeadless(width, height int) (graphics.Context, error) {
	return nil, ErrUnsupported
}

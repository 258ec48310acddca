package glfwcontext

// mouse turns cursor samples into the four floats a pass reads as its
// mouse uniform: current position, then the last press position. Both are
// in framebuffer pixels with the origin at the bottom left. The press
// position is negated while the button is up.
type mouse struct {
	clickX, clickY float64
	down           bool
}

// sample takes the cursor in window coordinates and the window and
// framebuffer sizes, which differ on high-DPI displays.
func (m *mouse) sample(cursorX, cursorY float64, winW, winH, fbW, fbH int, down bool) [4]float32 {
	scaleX, scaleY := 1.0, 1.0
	if winW > 0 && winH > 0 {
		scaleX = float64(fbW) / float64(winW)
		scaleY = float64(fbH) / float64(winH)
	}
	x := cursorX * scaleX
	y := cursorY * scaleY

	if down && !m.down {
		m.clickX, m.clickY = x, y
	}
	m.down = down

	clickX := float32(m.clickX)
	clickY := float32(fbH) - float32(m.clickY)
	if !down {
		clickX, clickY = -clickX, -clickY
	}
	return [4]float32{float32(x), float32(fbH) - float32(y), clickX, clickY}
}

package glfwcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMouseFlipsYAndTracksPress(t *testing.T) {
	var m mouse

	got := m.sample(10, 20, 100, 100, 100, 100, false)
	assert.Equal(t, [4]float32{10, 80, 0, -100}, got)

	got = m.sample(30, 40, 100, 100, 100, 100, true)
	assert.Equal(t, [4]float32{30, 60, 30, 60}, got, "press position latched")

	got = m.sample(50, 50, 100, 100, 100, 100, true)
	assert.Equal(t, [4]float32{50, 50, 30, 60}, got, "held button keeps the press position")

	got = m.sample(50, 50, 100, 100, 100, 100, false)
	assert.Equal(t, [4]float32{50, 50, -30, -60}, got, "release negates the press position")
}

func TestMouseScalesToFramebuffer(t *testing.T) {
	var m mouse
	got := m.sample(10, 10, 100, 50, 200, 100, true)
	assert.Equal(t, [4]float32{20, 80, 20, 80}, got)
}

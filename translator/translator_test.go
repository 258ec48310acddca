package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glkit/shader"
)

const webglFragment = `#version 300 es
precision highp float;
uniform float u_time;
out vec4 fragColor;
void main() { fragColor = vec4(sin(u_time)); }
`

func TestTranslateMapsUniforms(t *testing.T) {
	if testing.Short() {
		t.Skip("translator start-up compiles a module")
	}
	tr, err := New(false)
	require.NoError(t, err)

	out, err := tr.Translate(webglFragment, shader.Fragment)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Code)
	assert.Contains(t, out.Names, "u_time")
}

func TestGetTranslatorIsShared(t *testing.T) {
	if testing.Short() {
		t.Skip("translator start-up compiles a module")
	}
	a, err := GetTranslator()
	require.NoError(t, err)
	b, err := GetTranslator()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

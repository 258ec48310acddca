package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNoIncludes(t *testing.T) {
	src, err := Resolve(map[string]string{"a": "void main() {}"}, "a")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)
}

func TestResolveNested(t *testing.T) {
	sources := map[string]string{
		"main": "A\n#include \"mid\"\nZ",
		"mid":  "B\n#include \"leaf\"\nC",
		"leaf": "LEAF",
	}
	src, err := Resolve(sources, "main")
	require.NoError(t, err)
	assert.Equal(t, "A\nB\nLEAF\nC\nZ", src)
	assert.NotContains(t, src, "#include")
}

func TestResolveMultipleOnOneLine(t *testing.T) {
	sources := map[string]string{
		"main": `#include "x" #include "y"`,
		"x":    "X",
		"y":    "Y",
	}
	src, err := Resolve(sources, "main")
	require.NoError(t, err)
	assert.Equal(t, "X Y", src)
}

func TestResolveDiamond(t *testing.T) {
	sources := map[string]string{
		"main":   "#include \"left\"\n#include \"right\"",
		"left":   "#include \"common\"",
		"right":  "#include \"common\"",
		"common": "c",
	}
	src, err := Resolve(sources, "main")
	require.NoError(t, err)
	assert.Equal(t, "c\nc", src)
}

func TestResolveMissing(t *testing.T) {
	_, err := Resolve(map[string]string{}, "nope")
	var missing *MissingSourceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "nope", missing.Name)

	_, err = Resolve(map[string]string{"main": `#include "gone"`}, "main")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "gone", missing.Name)
}

func TestResolveCycle(t *testing.T) {
	sources := map[string]string{
		"a": `#include "b"`,
		"b": `#include "c"`,
		"c": `#include "a"`,
	}
	_, err := Resolve(sources, "a")
	var cycle *IncludeCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycle.Chain)
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestResolveSelfInclude(t *testing.T) {
	_, err := Resolve(map[string]string{"a": `x #include "a"`}, "a")
	var cycle *IncludeCycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"a", "a"}, cycle.Chain)
}

func TestBuiltinResolves(t *testing.T) {
	for _, gles := range []bool{false, true} {
		sources := Builtin(gles)
		for _, name := range []string{QuadVertex, BlitFragment, BlitFlipFragment} {
			src, err := Resolve(sources, name)
			require.NoError(t, err, name)
			assert.NotContains(t, src, "#include", name)
		}
	}
}

// Package sources loads named shader sources from disk and reloads them
// when the directory changes.
package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Sources maps a shader or include name to its text.
type Sources map[string]string

var extensions = map[string]bool{
	".glsl": true,
	".vert": true,
	".frag": true,
	".vs":   true,
	".fs":   true,
}

// IsShaderFile reports whether name has one of the recognised shader
// extensions.
func IsShaderFile(name string) bool {
	return extensions[strings.ToLower(path.Ext(name))]
}

// Merge returns a new set holding s overlaid with other. Names in other
// win.
func (s Sources) Merge(other map[string]string) Sources {
	out := make(Sources, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LoadFS reads every shader file directly inside dir. Each source is named
// by its file name.
func LoadFS(fsys fs.FS, dir string) (Sources, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read shader directory %s: %w", dir, err)
	}
	out := make(Sources)
	for _, e := range entries {
		if e.IsDir() || !IsShaderFile(e.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read shader %s: %w", e.Name(), err)
		}
		out[e.Name()] = string(data)
	}
	return out, nil
}

// LoadDir is LoadFS on a directory of the host file system.
func LoadDir(dir string) (Sources, error) {
	return LoadFS(os.DirFS(dir), ".")
}

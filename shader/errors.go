package shader

import (
	"fmt"
	"strings"
)

// MissingSourceError reports a shader or include name with no source.
type MissingSourceError struct {
	Name string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("unable to find shader source for %q", e.Name)
}

// IncludeCycleError reports a chain of includes that leads back to one of
// its own members. The first and last entries of Chain are the same name.
type IncludeCycleError struct {
	Chain []string
}

func (e *IncludeCycleError) Error() string {
	return "include cycle: " + strings.Join(e.Chain, " -> ")
}

// CompileError carries the driver log for a failed shader stage along with
// the expanded source, numbered line by line.
type CompileError struct {
	Stage  Stage
	Name   string
	Log    string
	Source string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s shader compilation error for shader %q:\n\n", e.Stage, e.Name)
	for _, line := range strings.Split(strings.TrimRight(e.Log, "\n"), "\n") {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("\nexpanded source:\n\n")
	b.WriteString(e.Source)
	return b.String()
}

// LinkError carries the driver log for a program that failed to link.
type LinkError struct {
	Vertex   string
	Fragment string
	Log      string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program (%s, %s): %s", e.Vertex, e.Fragment, strings.TrimSpace(e.Log))
}

// numberLines prefixes each line with its 1-based number right-aligned to
// four columns.
func numberLines(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = fmt.Sprintf("%4d | %s", i+1, line)
	}
	return strings.Join(lines, "\n")
}

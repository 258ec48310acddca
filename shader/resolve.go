package shader

import (
	"regexp"
	"strings"
)

var includePattern = regexp.MustCompile(`#include "([^"\n]+)"`)

// Resolve returns the source registered under name with every
// `#include "other"` directive replaced by the resolved text of other.
// Including the same file from two branches is fine; a file that ends up
// including itself is reported as an IncludeCycleError.
func Resolve(sources map[string]string, name string) (string, error) {
	return resolve(sources, name, nil)
}

func resolve(sources map[string]string, name string, stack []string) (string, error) {
	for i, n := range stack {
		if n == name {
			chain := append(append([]string(nil), stack[i:]...), name)
			return "", &IncludeCycleError{Chain: chain}
		}
	}
	src, ok := sources[name]
	if !ok {
		return "", &MissingSourceError{Name: name}
	}

	matches := includePattern.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, nil
	}

	stack = append(stack, name)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(src[last:m[0]])
		inc, err := resolve(sources, src[m[2]:m[3]], stack)
		if err != nil {
			return "", err
		}
		b.WriteString(inc)
		last = m[1]
	}
	b.WriteString(src[last:])
	return b.String(), nil
}

// Package zimstdlib embeds the zim-dsp standard library of patch
// sub-modules directly into the binary, mirroring the reference
// engine's embedded_stdlib so `import stdlib:name` works with no
// filesystem access at all.
package zimstdlib

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed stdlib/*.zim
var files embed.FS

const prefix = "stdlib:"

// IsStdlibPath reports whether a module path refers to the embedded
// standard library rather than the filesystem.
func IsStdlibPath(modulePath string) bool {
	return strings.HasPrefix(modulePath, prefix)
}

// ModuleName extracts the bare name from a `stdlib:name` path. The
// second return value is false if modulePath isn't a stdlib path.
func ModuleName(modulePath string) (string, bool) {
	if !IsStdlibPath(modulePath) {
		return "", false
	}
	return strings.TrimPrefix(modulePath, prefix), true
}

// HasModule reports whether name (bare, without the `stdlib:` prefix)
// is an embedded module.
func HasModule(name string) bool {
	_, err := files.ReadFile("stdlib/" + name + ".zim")
	return err == nil
}

// GetModule returns the source text of an embedded module by its bare
// name.
func GetModule(name string) (string, error) {
	data, err := files.ReadFile("stdlib/" + name + ".zim")
	if err != nil {
		return "", fmt.Errorf("stdlib module %q not found: %w", name, err)
	}
	return string(data), nil
}

// ListModules returns the bare names of every embedded module, sorted.
func ListModules() []string {
	entries, err := files.ReadDir("stdlib")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".zim") {
			names = append(names, strings.TrimSuffix(e.Name(), ".zim"))
		}
	}
	sort.Strings(names)
	return names
}

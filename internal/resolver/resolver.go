// Package resolver locates and loads .zim sub-patch modules by path:
// `stdlib:name` for the embedded standard library, `package:name` for
// a module under a named subdirectory, or a bare `name` for a
// top-level module file. It mirrors the reference engine's
// module_resolver / ModuleSearchPaths search order.
package resolver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/navicore/zim-dsp-go/internal/zimstdlib"
)

// SearchPaths lists the directories consulted, in priority order, for
// a non-stdlib module path.
type SearchPaths struct {
	// CurrentFileDir is the directory of the patch file doing the
	// importing, if any, searched first so relative imports resolve
	// next to the file that requested them.
	CurrentFileDir string
	UserModulesDir string
	SystemModulesDir string
}

// DefaultSearchPaths returns the standard search path set: no current
// file directory, the user's `~/.config/zim-dsp/modules`, and the
// system `/usr/local/share/zim-dsp/modules`.
func DefaultSearchPaths() SearchPaths {
	userDir := "./user_modules"
	if home, err := os.UserHomeDir(); err == nil {
		userDir = filepath.Join(home, ".config", "zim-dsp", "modules")
	}
	return SearchPaths{
		UserModulesDir:   userDir,
		SystemModulesDir: filepath.Join("/usr/local/share/zim-dsp/modules"),
	}
}

// SearchPathsFromPatchFile returns search paths rooted at the directory
// containing patchFile, for resolving that file's own imports.
func SearchPathsFromPatchFile(patchFile string) SearchPaths {
	paths := DefaultSearchPaths()
	paths.CurrentFileDir = filepath.Dir(patchFile)
	return paths
}

// Dirs returns the search directories in priority order.
func (p SearchPaths) Dirs() []string {
	var dirs []string
	if p.CurrentFileDir != "" {
		dirs = append(dirs, p.CurrentFileDir)
	}
	dirs = append(dirs, p.UserModulesDir, p.SystemModulesDir)
	return dirs
}

// Resolver finds and loads module source text from the embedded
// stdlib or the filesystem search paths.
type Resolver struct {
	Paths SearchPaths
}

// New returns a resolver using the default search paths.
func New() *Resolver {
	return &Resolver{Paths: DefaultSearchPaths()}
}

// FromPatchFile returns a resolver rooted at patchFile's directory.
func FromPatchFile(patchFile string) *Resolver {
	return &Resolver{Paths: SearchPathsFromPatchFile(patchFile)}
}

// modulePathToFilePath converts "basic_osc" -> "basic_osc.zim" and
// "mymodules:supersaw" -> "mymodules/supersaw.zim".
func modulePathToFilePath(modulePath string) string {
	for i := 0; i < len(modulePath); i++ {
		if modulePath[i] == ':' {
			pkg, mod := modulePath[:i], modulePath[i+1:]
			return filepath.Join(pkg, mod+".zim")
		}
	}
	return modulePath + ".zim"
}

// Resolve returns the filesystem path a module path resolves to,
// searching CurrentFileDir, then UserModulesDir, then
// SystemModulesDir. It does not handle stdlib paths; check
// zimstdlib.IsStdlibPath first.
func (r *Resolver) Resolve(modulePath string) (string, error) {
	rel := modulePathToFilePath(modulePath)
	for _, dir := range r.Paths.Dirs() {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("module %q not found in search paths %v", modulePath, r.Paths.Dirs())
}

// Load returns a module's source text, whether it lives in the
// embedded stdlib or on disk.
func (r *Resolver) Load(modulePath string) (string, error) {
	if name, ok := zimstdlib.ModuleName(modulePath); ok {
		return zimstdlib.GetModule(name)
	}
	path, err := r.Resolve(modulePath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading module file %q: %w", path, err)
	}
	return string(data), nil
}

// Exists reports whether a module path can be loaded, without loading
// it.
func (r *Resolver) Exists(modulePath string) bool {
	if name, ok := zimstdlib.ModuleName(modulePath); ok {
		return zimstdlib.HasModule(name)
	}
	_, err := r.Resolve(modulePath)
	return err == nil
}

// ListAvailable returns every module path reachable from this
// resolver: embedded stdlib entries (as `stdlib:name`), followed by
// `.zim` files found under the search directories (bare name for
// top-level files, `package:name` for a module one subdirectory
// down), sorted and deduplicated.
func (r *Resolver) ListAvailable() []string {
	var modules []string
	for _, name := range zimstdlib.ListModules() {
		modules = append(modules, "stdlib:"+name)
	}

	for _, dir := range r.Paths.Dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".zim" {
				modules = append(modules, stemOf(e.Name()))
				continue
			}
			if e.IsDir() {
				pkgEntries, err := os.ReadDir(filepath.Join(dir, e.Name()))
				if err != nil {
					continue
				}
				for _, pe := range pkgEntries {
					if !pe.IsDir() && filepath.Ext(pe.Name()) == ".zim" {
						modules = append(modules, e.Name()+":"+stemOf(pe.Name()))
					}
				}
			}
		}
	}

	sort.Strings(modules)
	return dedup(modules)
}

func stemOf(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

func dedup(in []string) []string {
	out := in[:0]
	var prev string
	for i, v := range in {
		if i == 0 || v != prev {
			out = append(out, v)
		}
		prev = v
	}
	return out
}

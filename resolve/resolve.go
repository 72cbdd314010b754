// Package resolve maps an include literal, as written in a file, to the
// canonical path of the file it names.
package resolve

import (
	"os"
	"path/filepath"
	"strings"
)

const currentDirMarker = "./"

// Resolver applies the project's include path conventions.
type Resolver struct {
	// Namespace is the logical name of the public include root, e.g. "semi"
	// for `#include "semi/config.h"`. Empty disables rule 2.
	Namespace string
	// IncludeDir is the directory Namespace refers to.
	IncludeDir string
}

// New returns a resolver for includes spelled `namespace/...` that live in includeDir.
func New(namespace, includeDir string) *Resolver {
	return &Resolver{
		Namespace:  strings.TrimSuffix(namespace, "/"),
		IncludeDir: includeDir,
	}
}

// Resolve returns the canonical path of literal as included from containingFile:
//  1. "./x" resolves against the containing file's directory,
//  2. "<namespace>/x" resolves against the public include directory,
//  3. anything else resolves against the containing file's directory.
//
// An absolute literal names its target directly. The target is not required
// to exist.
func (r *Resolver) Resolve(literal, containingFile string) string {
	dir := filepath.Dir(containingFile)
	switch {
	case filepath.IsAbs(literal):
		return Canonical(literal)
	case strings.HasPrefix(literal, currentDirMarker):
		return Canonical(join(dir, literal[len(currentDirMarker):]))
	case r.Namespace != "" && strings.HasPrefix(literal, r.Namespace+"/"):
		return Canonical(join(r.IncludeDir, literal[len(r.Namespace)+1:]))
	default:
		return Canonical(join(dir, literal))
	}
}

// join concatenates without cleaning: "lnk/.." must reach EvalSymlinks intact
// so ".." applies to where lnk points, not to the text before it.
func join(dir, rel string) string {
	return strings.TrimSuffix(dir, string(filepath.Separator)) + string(filepath.Separator) + filepath.FromSlash(rel)
}

// Canonical returns an absolute path with symlinks, "." and ".." resolved
// against the file system. For a path that does not fully exist, the longest
// existing prefix is resolved and the rest is applied on top, so a missing
// file under a symlinked directory maps to its real location.
func Canonical(path string) string {
	if !filepath.IsAbs(path) {
		if wd, err := os.Getwd(); err == nil {
			path = join(wd, path)
		}
	}
	return canonical(path)
}

func canonical(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	sep := string(filepath.Separator)
	vol := filepath.VolumeName(path)
	trimmed := strings.TrimRight(path, sep)
	i := strings.LastIndex(trimmed, sep)
	if i < len(vol) {
		return filepath.Clean(path)
	}
	parent, base := trimmed[:i], trimmed[i+1:]
	if len(parent) <= len(vol) {
		parent = vol + sep
	}
	dir := canonical(parent)
	switch base {
	case "", ".":
		return dir
	case "..":
		return filepath.Dir(dir)
	default:
		return filepath.Join(dir, base)
	}
}

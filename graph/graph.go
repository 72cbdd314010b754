package graph

import (
	"sort"

	"github.com/ldemailly/amalgamate/transform"
)

// Kind distinguishes headers (guarded, emitted first) from sources.
type Kind int

const (
	Source Kind = iota
	Header
)

func (k Kind) String() string {
	if k == Header {
		return "header"
	}
	return "source"
}

// KindOf derives the kind from the file extension.
func KindOf(path string) Kind {
	if transform.IsHeader(path) {
		return Header
	}
	return Source
}

// Unit is one physical file taking part in the merge.
type Unit struct {
	Path  string   // Canonical path, the graph key
	Kind  Kind     // Derived from the extension
	Lines []string // Content after banner stripping, loaded once
	deps  map[string]*Unit
}

// NewUnit creates a unit with the given content.
func NewUnit(path string, lines []string) *Unit {
	return &Unit{
		Path:  path,
		Kind:  KindOf(path),
		Lines: lines,
		deps:  make(map[string]*Unit),
	}
}

// AddDependency records the edge u -> dep. Adding the same edge twice is a no-op.
// Returns true if the edge is new.
func (u *Unit) AddDependency(dep *Unit) bool {
	if _, exists := u.deps[dep.Path]; exists {
		return false
	}
	u.deps[dep.Path] = dep
	return true
}

// DependsOn reports whether u has a direct edge to path.
func (u *Unit) DependsOn(path string) bool {
	_, ok := u.deps[path]
	return ok
}

// Dependencies returns the direct dependencies sorted by canonical path.
func (u *Unit) Dependencies() []*Unit {
	res := make([]*Unit, 0, len(u.deps))
	for _, d := range u.deps {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Path < res[j].Path })
	return res
}

// Registry owns every unit of one discovery pass, keyed by canonical path.
type Registry struct {
	units map[string]*Unit
	order []string // registration order
}

func NewRegistry() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Add registers u unless a unit with the same path exists, in which case the
// existing unit is returned and added is false.
func (r *Registry) Add(u *Unit) (unit *Unit, added bool) {
	if existing, ok := r.units[u.Path]; ok {
		return existing, false
	}
	r.units[u.Path] = u
	r.order = append(r.order, u.Path)
	return u, true
}

// Get returns the unit for path or nil.
func (r *Registry) Get(path string) *Unit {
	return r.units[path]
}

func (r *Registry) Len() int {
	return len(r.units)
}

// Units returns every unit sorted by canonical path.
func (r *Registry) Units() []*Unit {
	paths := make([]string, 0, len(r.units))
	for p := range r.units {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	res := make([]*Unit, len(paths))
	for i, p := range paths {
		res[i] = r.units[p]
	}
	return res
}

// Registered returns the canonical paths in the order they were discovered.
func (r *Registry) Registered() []string {
	res := make([]string, len(r.order))
	copy(res, r.order)
	return res
}

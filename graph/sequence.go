package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"fortio.org/log"
)

// ErrCyclicDependency is returned by SequenceStrict when the include graph loops.
var ErrCyclicDependency = errors.New("cyclic dependency")

// Sequence returns every registry member once, dependencies before
// dependents. Roots and siblings are visited in canonical path order so the
// result is stable across runs. A cycle is not an error here: the visited
// guard cuts the second entry, which may place a file before one of its
// dependencies. Suspected cycle members are logged as warnings.
func Sequence(reg *Registry) []*Unit {
	if cycles := DetectCycles(reg); len(cycles) > 0 {
		log.Warnf("Include graph is not acyclic, order may be wrong for: %s", strings.Join(sortedKeys(cycles), ", "))
	}
	visited := make(map[string]bool, reg.Len())
	result := make([]*Unit, 0, reg.Len())
	var visit func(u *Unit)
	visit = func(u *Unit) {
		if visited[u.Path] {
			return
		}
		visited[u.Path] = true
		for _, dep := range u.Dependencies() {
			visit(dep)
		}
		result = append(result, u)
	}
	for _, u := range reg.Units() {
		visit(u)
	}
	return result
}

// SequenceStrict is Sequence with white/gray/black marking: re-entering a
// unit that is still being placed fails with ErrCyclicDependency naming the loop.
func SequenceStrict(reg *Registry) ([]*Unit, error) {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, reg.Len())
	result := make([]*Unit, 0, reg.Len())
	var stack []string
	var visit func(u *Unit) error
	visit = func(u *Unit) error {
		switch color[u.Path] {
		case black:
			return nil
		case gray:
			start := 0
			for i, p := range stack {
				if p == u.Path {
					start = i
					break
				}
			}
			loop := append(append([]string{}, stack[start:]...), u.Path)
			return fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(loop, " -> "))
		}
		color[u.Path] = gray
		stack = append(stack, u.Path)
		for _, dep := range u.Dependencies() {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[u.Path] = black
		result = append(result, u)
		return nil
	}
	for _, u := range reg.Units() {
		if err := visit(u); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Package discover builds the include graph: starting from seed files it
// follows local includes to a fixed point, loading each file exactly once.
package discover

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/viant/afs"

	"github.com/ldemailly/amalgamate/directive"
	"github.com/ldemailly/amalgamate/graph"
	"github.com/ldemailly/amalgamate/resolve"
	"github.com/ldemailly/amalgamate/transform"
)

// ErrMissingSeed marks an entry file that does not exist. It is reported as a
// warning and the seed continues as an empty unit.
var ErrMissingSeed = errors.New("seed file not found")

// Engine discovers files and their local include edges.
type Engine struct {
	fs       afs.Service
	resolver *resolve.Resolver
	banner   []string
	excluded map[string]bool
}

// New returns an engine. Paths in excluded (the public header set) are never
// loaded as dependencies nor linked into the graph.
func New(fs afs.Service, resolver *resolve.Resolver, banner []string, excluded []string) *Engine {
	ex := make(map[string]bool, len(excluded))
	for _, p := range excluded {
		ex[resolve.Canonical(p)] = true
	}
	return &Engine{
		fs:       fs,
		resolver: resolver,
		banner:   banner,
		excluded: ex,
	}
}

// Load reads path and strips its leading copyright block. A missing file
// yields an empty unit together with ErrMissingSeed.
func (e *Engine) Load(ctx context.Context, path string) (*graph.Unit, error) {
	if !e.isFile(ctx, path) {
		return graph.NewUnit(path, nil), fmt.Errorf("%w: %s", ErrMissingSeed, path)
	}
	data, err := e.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	lines := transform.StripLeadingCopyrightBlock(transform.SplitLines(data), e.banner)
	log.LogVf("Read file: %s (%d lines)", path, len(lines))
	return graph.NewUnit(path, lines), nil
}

// Discover registers every seed, then scans queued units for local includes
// until no new file turns up. Includes that resolve to nothing on disk or to
// a public header are skipped silently.
func (e *Engine) Discover(ctx context.Context, seeds []string) (*graph.Registry, error) {
	reg := graph.NewRegistry()
	var queue []*graph.Unit
	for _, seed := range seeds {
		path := resolve.Canonical(seed)
		if reg.Get(path) != nil {
			continue
		}
		unit, err := e.Load(ctx, path)
		if errors.Is(err, ErrMissingSeed) {
			log.Warnf("Skipping seed, %v", err)
		} else if err != nil {
			return nil, err
		}
		reg.Add(unit)
		queue = append(queue, unit)
	}

	edges := 0
	for len(queue) > 0 {
		unit := queue[0]
		queue = queue[1:]
		for _, line := range unit.Lines {
			literal, ok := directive.LocalInclude(line)
			if !ok {
				continue
			}
			target := e.resolver.Resolve(literal, unit.Path)
			if e.excluded[target] {
				log.LogVf("  %s: skipping public header %q", filepath.Base(unit.Path), literal)
				continue
			}
			if !e.isFile(ctx, target) {
				log.LogVf("  %s: %q is not part of the tree, ignoring", filepath.Base(unit.Path), literal)
				continue
			}
			dep := reg.Get(target)
			if dep == nil {
				loaded, err := e.Load(ctx, target)
				if err != nil {
					return nil, err
				}
				dep, _ = reg.Add(loaded)
				queue = append(queue, dep)
			}
			if unit.AddDependency(dep) {
				edges++
			}
		}
	}
	log.Infof("Discovered %d files, %d include edges", reg.Len(), edges)
	return reg, nil
}

func (e *Engine) isFile(ctx context.Context, path string) bool {
	obj, err := e.fs.Object(ctx, path)
	if err != nil || obj == nil {
		return false
	}
	return !obj.IsDir()
}

// ListSources returns the canonical paths of the files directly in dir
// with extension ext (e.g. ".c"), sorted.
func ListSources(ctx context.Context, fs afs.Service, dir, ext string) ([]string, error) {
	if ok, _ := fs.Exists(ctx, dir); !ok {
		return nil, fmt.Errorf("source directory %s does not exist", dir)
	}
	objects, err := fs.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var res []string
	for _, obj := range objects {
		if obj.IsDir() || !strings.HasSuffix(obj.Name(), ext) {
			continue
		}
		res = append(res, resolve.Canonical(filepath.Join(dir, obj.Name())))
	}
	sort.Strings(res)
	return res, nil
}

// Package amalgam assembles a project's sources and headers into one combined
// source file and one combined public header.
package amalgam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"fortio.org/log"
	"github.com/viant/afs"

	"github.com/ldemailly/amalgamate/discover"
	"github.com/ldemailly/amalgamate/graph"
	"github.com/ldemailly/amalgamate/resolve"
	"github.com/ldemailly/amalgamate/transform"
)

const (
	beginMarker = "// BEGIN: "
	endMarker   = "// END: "
	generatedBy = "// Generated by amalgamate"
)

// Amalgamator owns one run: config, resolver, discovery engine.
type Amalgamator struct {
	root       string
	cfg        *Config
	fs         afs.Service
	includeDir string
	engine     *discover.Engine
}

// Result holds both artifacts and what they were built from.
type Result struct {
	Source        string
	Header        string
	Order         []*graph.Unit // graph order, headers and sources mixed
	PublicHeaders []*graph.Unit // curated order
	Registry      *graph.Registry
}

// New returns an amalgamator for the project at root.
func New(root string, cfg *Config, fs afs.Service) *Amalgamator {
	root = resolve.Canonical(root)
	includeDir := filepath.Join(root, cfg.IncludeDir)
	a := &Amalgamator{
		root:       root,
		cfg:        cfg,
		fs:         fs,
		includeDir: includeDir,
	}
	resolver := resolve.New(cfg.Namespace, includeDir)
	a.engine = discover.New(fs, resolver, cfg.Banner, a.PublicHeaders())
	return a
}

// Root is the canonical project root.
func (a *Amalgamator) Root() string {
	return a.root
}

// PublicHeaders returns the canonical paths of the curated header set, in order.
func (a *Amalgamator) PublicHeaders() []string {
	res := make([]string, len(a.cfg.PublicHeaders))
	for i, h := range a.cfg.PublicHeaders {
		res[i] = resolve.Canonical(filepath.Join(a.includeDir, h))
	}
	return res
}

// Amalgamate discovers, orders and assembles. Any guard error aborts the
// run before anything is returned.
func (a *Amalgamator) Amalgamate(ctx context.Context) (*Result, error) {
	seeds, err := discover.ListSources(ctx, a.fs, filepath.Join(a.root, a.cfg.SourceDir), a.cfg.SourceExt)
	if err != nil {
		return nil, err
	}
	log.Infof("Found %d %s files in %s", len(seeds), a.cfg.SourceExt, a.cfg.SourceDir)
	return a.AmalgamateFiles(ctx, seeds)
}

// AmalgamateFiles is Amalgamate with an explicit seed list.
func (a *Amalgamator) AmalgamateFiles(ctx context.Context, seeds []string) (*Result, error) {
	reg, err := a.engine.Discover(ctx, seeds)
	if err != nil {
		return nil, err
	}
	var order []*graph.Unit
	if a.cfg.Strict {
		if order, err = graph.SequenceStrict(reg); err != nil {
			return nil, err
		}
	} else {
		order = graph.Sequence(reg)
	}
	log.LogVf("Topological sort order:")
	for _, u := range order {
		log.LogVf("  %s", u.Path)
	}

	source, err := a.assembleSource(order)
	if err != nil {
		return nil, err
	}
	public, err := a.loadPublicHeaders(ctx)
	if err != nil {
		return nil, err
	}
	header, err := a.assembleHeader(public)
	if err != nil {
		return nil, err
	}
	return &Result{
		Source:        source,
		Header:        header,
		Order:         order,
		PublicHeaders: public,
		Registry:      reg,
	}, nil
}

func (a *Amalgamator) assembleSource(order []*graph.Unit) (string, error) {
	parts := append([]string{}, a.cfg.Banner...)
	parts = append(parts,
		"",
		fmt.Sprintf("// This is an amalgamated file containing the whole %s implementation.", a.cfg.Project),
		generatedBy,
		"",
		fmt.Sprintf("#include \"%s\"", a.cfg.HeaderOutput),
		"",
	)
	// Headers first, then sources, each in graph order.
	for _, u := range order {
		if u.Kind != graph.Header {
			continue
		}
		lines, err := transform.StripHeaderGuard(u.Lines, u.Path)
		if err != nil {
			return "", err
		}
		parts = appendSection(parts, u.Path, transform.RemoveLocalIncludes(lines))
	}
	for _, u := range order {
		if u.Kind == graph.Header {
			continue
		}
		parts = appendSection(parts, u.Path, transform.RemoveLocalIncludes(u.Lines))
	}
	return joinLines(parts), nil
}

// loadPublicHeaders reads the curated set fresh, outside the graph. A missing
// one comes back empty and then fails guard validation.
func (a *Amalgamator) loadPublicHeaders(ctx context.Context) ([]*graph.Unit, error) {
	var res []*graph.Unit
	for _, path := range a.PublicHeaders() {
		unit, err := a.engine.Load(ctx, path)
		if errors.Is(err, discover.ErrMissingSeed) {
			log.Warnf("Public header not found: %s", path)
		} else if err != nil {
			return nil, err
		}
		res = append(res, unit)
	}
	return res, nil
}

func (a *Amalgamator) assembleHeader(public []*graph.Unit) (string, error) {
	parts := append([]string{}, a.cfg.Banner...)
	parts = append(parts,
		"",
		fmt.Sprintf("// This is the public header for %s.", a.cfg.Project),
		generatedBy,
		"",
		"#ifndef "+a.cfg.Guard,
		"#define "+a.cfg.Guard,
		"",
	)
	for _, u := range public {
		lines, err := transform.StripHeaderGuard(u.Lines, u.Path)
		if err != nil {
			return "", err
		}
		parts = appendSection(parts, u.Path, transform.RemoveLocalIncludes(lines))
	}
	parts = append(parts, fmt.Sprintf("#endif /* %s */", a.cfg.Guard), "")
	return joinLines(parts), nil
}

func appendSection(parts []string, path string, lines []string) []string {
	name := filepath.Base(path)
	parts = append(parts, beginMarker+name)
	parts = append(parts, lines...)
	return append(parts, endMarker+name, "")
}

package amalgam

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/ldemailly/amalgamate/graph"
)

// Manifest records what went into a run, in emission order.
type Manifest struct {
	Project       string          `yaml:"project"`
	Files         []ManifestEntry `yaml:"files"`
	PublicHeaders []ManifestEntry `yaml:"public_headers"`
}

// ManifestEntry describes one file. Paths are relative to the project root.
type ManifestEntry struct {
	Path     string   `yaml:"path"`
	Kind     string   `yaml:"kind"`
	Digest   string   `yaml:"digest"`
	Includes []string `yaml:"includes,omitempty"`
}

// NewManifest builds the manifest for res.
func NewManifest(project, root string, res *Result) (*Manifest, error) {
	m := &Manifest{Project: project}
	for _, u := range res.Order {
		entry, err := manifestEntry(root, u)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, entry)
	}
	for _, u := range res.PublicHeaders {
		entry, err := manifestEntry(root, u)
		if err != nil {
			return nil, err
		}
		m.PublicHeaders = append(m.PublicHeaders, entry)
	}
	return m, nil
}

func manifestEntry(root string, u *graph.Unit) (ManifestEntry, error) {
	digest, err := u.Digest()
	if err != nil {
		return ManifestEntry{}, fmt.Errorf("digest %s: %w", u.Path, err)
	}
	entry := ManifestEntry{Path: relPath(root, u.Path), Kind: u.Kind.String(), Digest: digest}
	for _, d := range u.Dependencies() {
		entry.Includes = append(entry.Includes, relPath(root, d.Path))
	}
	return entry, nil
}

// Marshal renders the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// WriteFile stores data at path, creating the parent directory if needed.
func WriteFile(ctx context.Context, fs afs.Service, path string, data []byte) error {
	dir := filepath.Dir(path)
	if ok, _ := fs.Exists(ctx, dir); !ok {
		if err := fs.Create(ctx, dir, 0o755, true); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := fs.Upload(ctx, path, 0o644, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("Written: %s", path)
	return nil
}

// Write stores both artifacts in dir under the configured names.
func Write(ctx context.Context, fs afs.Service, dir string, cfg *Config, res *Result) error {
	if err := WriteFile(ctx, fs, filepath.Join(dir, cfg.SourceOutput), []byte(res.Source)); err != nil {
		return err
	}
	return WriteFile(ctx, fs, filepath.Join(dir, cfg.HeaderOutput), []byte(res.Header))
}

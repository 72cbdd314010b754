package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	root := Canonical(t.TempDir())
	src := filepath.Join(root, "src")
	inc := filepath.Join(root, "include", "semi")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(inc, 0o755))
	from := filepath.Join(src, "vm.c")

	r := New("semi/", inc)
	tests := []struct {
		name    string
		literal string
		want    string
	}{
		{"current dir marker", "./vm.h", filepath.Join(src, "vm.h")},
		{"namespaced", "semi/config.h", filepath.Join(inc, "config.h")},
		{"plain relative", "gc.h", filepath.Join(src, "gc.h")},
		{"parent relative", "../include/semi/error.h", filepath.Join(inc, "error.h")},
		{"namespace needs separator", "semiconductor.h", filepath.Join(src, "semiconductor.h")},
		{"dot segments collapse", "./sub/../types.h", filepath.Join(src, "types.h")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.literal, from))
		})
	}
}

func TestResolve_SpellingsCollapse(t *testing.T) {
	root := Canonical(t.TempDir())
	inc := filepath.Join(root, "include", "semi")
	require.NoError(t, os.MkdirAll(inc, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inc, "config.h"), []byte("x"), 0o644))

	r := New("semi", inc)
	fromInc := filepath.Join(inc, "error.h")
	a := r.Resolve("semi/config.h", fromInc)
	b := r.Resolve("./config.h", fromInc)
	c := r.Resolve("config.h", fromInc)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestResolve_NoNamespace(t *testing.T) {
	r := New("", "/unused")
	assert.Equal(t, Canonical("/p/src/semi/x.h"), r.Resolve("semi/x.h", "/p/src/a.c"))
}

func TestCanonical_Symlink(t *testing.T) {
	root := Canonical(t.TempDir())
	real := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(real, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(real, "a.h"), []byte("x"), 0o644))
	link := filepath.Join(root, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	assert.Equal(t, filepath.Join(real, "a.h"), Canonical(filepath.Join(link, "a.h")))
	// missing file under a symlinked dir still maps to the real dir
	assert.Equal(t, filepath.Join(real, "missing.h"), Canonical(filepath.Join(link, "missing.h")))
	assert.True(t, filepath.IsAbs(Canonical("relative/x.h")))
}

func TestResolve_SymlinkBeforeParent(t *testing.T) {
	root := Canonical(t.TempDir())
	src := filepath.Join(root, "src")
	target := filepath.Join(root, "elsewhere", "d")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "elsewhere", "real.h"), []byte("x"), 0o644))
	if err := os.Symlink(target, filepath.Join(src, "lnk")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	r := New("semi", filepath.Join(root, "include", "semi"))
	from := filepath.Join(src, "a.c")
	assert.Equal(t, filepath.Join(root, "elsewhere", "real.h"), r.Resolve("lnk/../real.h", from))
	assert.Equal(t, filepath.Join(root, "elsewhere", "missing.h"), r.Resolve("./lnk/../missing.h", from))
	assert.Equal(t, filepath.Join(src, "other.h"), r.Resolve("nodir/../other.h", from))
}

func TestResolve_Absolute(t *testing.T) {
	ext := Canonical(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(ext, "ext.h"), []byte("x"), 0o644))
	root := Canonical(t.TempDir())
	r := New("semi", filepath.Join(root, "include", "semi"))
	assert.Equal(t, filepath.Join(ext, "ext.h"), r.Resolve(filepath.Join(ext, "ext.h"), filepath.Join(root, "src", "a.c")))
}

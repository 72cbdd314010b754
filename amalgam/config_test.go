package amalgam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(`
project: lox
source_dir: lib
include_dir: include/lox
namespace: lox
public_headers: [common.h, lox.h]
banner: ["// (c) lox authors"]
source_output: lox.c
header_output: lox.h
guard: LOX_AMALGAMATED_H
strict: true
`), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lox", cfg.Project)
	assert.Equal(t, "lib", cfg.SourceDir)
	assert.Equal(t, ".c", cfg.SourceExt, "unset keys keep defaults")
	assert.Equal(t, []string{"common.h", "lox.h"}, cfg.PublicHeaders)
	assert.Equal(t, []string{"// (c) lox authors"}, cfg.Banner)
	assert.Equal(t, "amalgamated", cfg.OutputDir)
	assert.True(t, cfg.Strict)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "project: [unterminated"},
		{"bad guard", "guard: lower_h"},
		{"guard without _H", "guard: SEMI_AMALGAMATED"},
		{"empty source dir", "source_dir: \"\""},
		{"empty output", "header_output: \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigFile)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

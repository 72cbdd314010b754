package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ldemailly/amalgamate/directive"
)

var banner = []string{
	"// Copyright (c) 2025 Ian Chen",
	"// SPDX-License-Identifier: MPL-2.0",
}

func TestStripHeaderGuard_RoundTrip(t *testing.T) {
	body := []string{"typedef int foo_t;", "", "void foo(void);"}
	lines := append([]string{"// banner kept out", "#ifndef FOO_H", "#define FOO_H"}, body...)
	lines = append(lines, "#endif /* FOO_H */", "", "")

	got, err := StripHeaderGuard(lines, "/p/include/foo.h")
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestStripHeaderGuard_EmptyBody(t *testing.T) {
	got, err := StripHeaderGuard([]string{"#ifndef E_H", "#define E_H", "#endif"}, "e.h")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStripHeaderGuard_NonHeaderUnchanged(t *testing.T) {
	lines := []string{"int main(void) { return 0; }"}
	got, err := StripHeaderGuard(lines, "main.c")
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}

func TestStripHeaderGuard_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		reason string
	}{
		{
			name:   "no ifndef",
			lines:  []string{"#pragma once", "int x;"},
			reason: "#ifndef GUARD_NAME_H",
		},
		{
			name:   "lowercase guard",
			lines:  []string{"#ifndef foo_h", "#define foo_h", "#endif"},
			reason: "#ifndef GUARD_NAME_H",
		},
		{
			name:   "ifndef on last line",
			lines:  []string{"#ifndef X_H"},
			reason: "missing #define",
		},
		{
			name:   "mismatched define",
			lines:  []string{"#ifndef X_H", "#define Y_H", "int x;", "#endif"},
			reason: "expected '#define X_H'",
		},
		{
			name:   "missing endif",
			lines:  []string{"#ifndef X_H", "#define X_H", "int x;", ""},
			reason: "must start with '#endif'",
		},
		{
			name:   "nothing after define",
			lines:  []string{"#ifndef X_H", "#define X_H", "", "  "},
			reason: "missing #endif",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StripHeaderGuard(tt.lines, "x.h")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedGuard))
			var ge *GuardError
			require.True(t, errors.As(err, &ge))
			assert.Equal(t, "x.h", ge.Path)
			assert.Contains(t, ge.Reason, tt.reason)
		})
	}
}

func TestRemoveLocalIncludes(t *testing.T) {
	in := []string{
		`#include "b.h"`,
		`#include <stdio.h>`,
		`int a;`,
		`  #include "semi/config.h"`,
		`// #include "commented.h"`,
		``,
	}
	out := RemoveLocalIncludes(in)
	assert.Equal(t, []string{`#include <stdio.h>`, `int a;`, `// #include "commented.h"`, ``}, out)

	removed := 0
	for _, line := range in {
		if directive.IsLocalInclude(line) {
			removed++
		}
	}
	assert.Equal(t, len(in), len(out)+removed)
	for _, line := range out {
		assert.False(t, directive.IsLocalInclude(line), line)
	}
	// input untouched
	assert.Equal(t, `#include "b.h"`, in[0])
}

func TestStripLeadingCopyrightBlock(t *testing.T) {
	in := []string{
		banner[0],
		banner[1],
		"",
		"#include \"vm.h\"",
		"",
		banner[0],
	}
	got := StripLeadingCopyrightBlock(in, banner)
	assert.Equal(t, []string{"#include \"vm.h\"", "", banner[0]}, got)

	assert.Equal(t, got, StripLeadingCopyrightBlock(got, banner))
	assert.Empty(t, StripLeadingCopyrightBlock([]string{"", banner[1], ""}, banner))
	assert.Equal(t, []string{"// Copyright someone else"}, StripLeadingCopyrightBlock([]string{"// Copyright someone else"}, banner))
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(nil))
	assert.Equal(t, []string{"a", "b"}, SplitLines([]byte("a  \nb\n")))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines([]byte("a\r\n\r\nb")))
	got := SplitLines([]byte(strings.Repeat("x\n", 3)))
	assert.Len(t, got, 3)
}

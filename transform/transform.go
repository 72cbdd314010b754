// Package transform holds the line-level rewrites applied to each file
// before it is concatenated: header guard stripping, local include removal
// and leading copyright banner removal. All functions work on a slice of
// lines and never modify their input.
package transform

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ldemailly/amalgamate/directive"
)

// ErrMalformedGuard is the sentinel behind every GuardError.
var ErrMalformedGuard = errors.New("malformed header guard")

// GuardError describes why a header's guard could not be stripped.
type GuardError struct {
	Path   string
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%v in %s: %s", ErrMalformedGuard, e.Path, e.Reason)
}

func (e *GuardError) Unwrap() error { return ErrMalformedGuard }

// IsHeader reports whether path names a header (guard stripping applies).
func IsHeader(path string) bool {
	return strings.HasSuffix(path, ".h")
}

// StripHeaderGuard returns the lines strictly between the guard's #define
// and its closing #endif. Lines before the #ifndef and after the #endif are
// dropped. Non-header paths are returned unchanged.
func StripHeaderGuard(lines []string, path string) ([]string, error) {
	if !IsHeader(path) {
		return lines, nil
	}
	ifndefIdx := -1
	guard := ""
	for i, line := range lines {
		if name, ok := directive.GuardIfndef(line); ok {
			ifndefIdx, guard = i, name
			break
		}
	}
	if ifndefIdx < 0 {
		return nil, &GuardError{Path: path, Reason: "expected '#ifndef GUARD_NAME_H' (uppercase with underscores, ending in _H)"}
	}
	defineIdx := ifndefIdx + 1
	if defineIdx >= len(lines) {
		return nil, &GuardError{Path: path, Reason: "missing #define after #ifndef " + guard}
	}
	if !directive.IsGuardDefine(lines[defineIdx], guard) {
		return nil, &GuardError{
			Path:   path,
			Reason: fmt.Sprintf("expected '#define %s' on line after #ifndef, found %q", guard, strings.TrimSpace(lines[defineIdx])),
		}
	}
	endifIdx := -1
	for i := len(lines) - 1; i > defineIdx; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !directive.IsEndif(trimmed) {
			return nil, &GuardError{Path: path, Reason: fmt.Sprintf("last non-empty line must start with '#endif', found %q", trimmed)}
		}
		endifIdx = i
		break
	}
	if endifIdx < 0 {
		return nil, &GuardError{Path: path, Reason: "missing #endif for guard " + guard}
	}
	return clone(lines[defineIdx+1 : endifIdx]), nil
}

// RemoveLocalIncludes drops every `#include "…"` line. Angle-bracket
// includes and all other lines pass through untouched.
func RemoveLocalIncludes(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if directive.IsLocalInclude(line) {
			continue
		}
		out = append(out, line)
	}
	return out
}

// StripLeadingCopyrightBlock drops the run of banner and blank lines at the
// very start of a file. Banner lines reappearing later are left alone.
func StripLeadingCopyrightBlock(lines []string, banner []string) []string {
	known := make(map[string]bool, len(banner))
	for _, b := range banner {
		known[b] = true
	}
	i := 0
	for ; i < len(lines); i++ {
		if lines[i] != "" && !known[lines[i]] {
			break
		}
	}
	return clone(lines[i:])
}

// SplitLines turns file content into lines with trailing whitespace removed.
// A final newline does not produce an extra empty line.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.TrimSuffix(string(data), "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return lines
}

func clone(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// Package directive recognizes the handful of preprocessor lines the
// amalgamator cares about: quoted includes and header guard boilerplate.
// It is a line matcher, not a preprocessor; nothing here expands macros or
// evaluates conditionals.
package directive

import (
	"regexp"
	"strings"
)

var (
	localIncludeRe = regexp.MustCompile(`^#include\s+"([^"]+)"`)
	ifndefRe       = regexp.MustCompile(`^#ifndef\s+([A-Z][A-Z0-9_]*_H)\s*$`)
	defineRe       = regexp.MustCompile(`^#define\s+([A-Z][A-Z0-9_]*_H)\s*$`)
)

// LocalInclude returns the quoted path of an `#include "path"` line.
// Angle-bracket includes and any other line return ok == false.
func LocalInclude(line string) (path string, ok bool) {
	m := localIncludeRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	// A quoted literal carrying brackets is a system header in disguise.
	if strings.ContainsAny(m[1], "<>") {
		return "", false
	}
	return m[1], true
}

// IsLocalInclude reports whether line is a quoted include directive.
func IsLocalInclude(line string) bool {
	return localIncludeRe.MatchString(strings.TrimSpace(line))
}

// GuardIfndef returns the guard name if line opens a header guard
// (`#ifndef NAME_H` with NAME matching [A-Z][A-Z0-9_]*_H).
func GuardIfndef(line string) (name string, ok bool) {
	m := ifndefRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsGuardDefine reports whether line is exactly `#define name`.
func IsGuardDefine(line, name string) bool {
	m := defineRe.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && m[1] == name
}

// IsEndif reports whether line starts with `#endif` (trailing comments allowed).
func IsEndif(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#endif")
}

package amalgam

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
)

// Section is one file's contribution to a combined artifact.
type Section struct {
	Name  string
	Lines []string
}

func joinLines(parts []string) string {
	return strings.Join(parts, "\n")
}

// Sections splits a combined artifact back into its BEGIN/END delimited
// parts. Text outside any section (preamble, guards) is skipped.
func Sections(r io.Reader) ([]Section, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var res []Section
	var current *Section
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if name, ok := strings.CutPrefix(line, beginMarker); ok {
			if current != nil {
				return nil, fmt.Errorf("line %d: section %q starts inside %q", lineNum, name, current.Name)
			}
			current = &Section{Name: strings.TrimSpace(name)}
			continue
		}
		if name, ok := strings.CutPrefix(line, endMarker); ok {
			name = strings.TrimSpace(name)
			if current == nil || current.Name != name {
				return nil, fmt.Errorf("line %d: unexpected end of section %q", lineNum, name)
			}
			log.LogVf("  Section %s (%d lines)", current.Name, len(current.Lines))
			res = append(res, *current)
			current = nil
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if current != nil {
		return nil, fmt.Errorf("section %q is not terminated", current.Name)
	}
	return res, nil
}

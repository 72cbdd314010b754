package graph

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fortio.org/log"
)

// --- Color Palettes ---
var (
	headerColor = "lightblue"
	sourceColor = "lightgreen"
	cycleColor  = "red" // Border color for units in cycles
)

// WriteDot writes the include graph in graphviz DOT form. Labels are paths
// relative to root when possible. Edges point from includer to included.
func WriteDot(w io.Writer, reg *Registry, root string, left2Right bool) error {
	nodesInCycles := DetectCycles(reg)
	rankDir := "TB"
	if left2Right {
		rankDir = "LR"
	}
	var b strings.Builder
	b.WriteString("digraph includes {\n")
	fmt.Fprintf(&b, "  rankdir=\"%s\";\n", rankDir)
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	b.WriteString("\n  // Units\n")
	units := reg.Units()
	for _, u := range units {
		color := sourceColor
		if u.Kind == Header {
			color = headerColor
		}
		attrs := []string{
			fmt.Sprintf("label=\"%s\"", escape(label(root, u.Path))),
			fmt.Sprintf("fillcolor=\"%s\"", color),
		}
		if nodesInCycles[u.Path] {
			attrs = append(attrs, fmt.Sprintf("color=\"%s\"", cycleColor), "penwidth=2")
		}
		fmt.Fprintf(&b, "  \"%s\" [%s];\n", escape(u.Path), strings.Join(attrs, ", "))
	}

	b.WriteString("\n  // Edges (includes)\n")
	edges := 0
	for _, u := range units {
		for _, dep := range u.Dependencies() {
			attrs := ""
			if nodesInCycles[u.Path] && nodesInCycles[dep.Path] {
				attrs = fmt.Sprintf(" [color=\"%s\", penwidth=1.5]", cycleColor)
			}
			fmt.Fprintf(&b, "  \"%s\" -> \"%s\"%s;\n", escape(u.Path), escape(dep.Path), attrs)
			edges++
		}
	}
	b.WriteString("}\n")
	log.Infof("DOT graph: %d units, %d edges, %d in cycles", len(units), edges, len(nodesInCycles))
	_, err := io.WriteString(w, b.String())
	return err
}

func label(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// Splits an amalgamated source or header back into one file per
// "// BEGIN: name" / "// END: name" section. Handy to diff the merged output
// against the tree it came from.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/viant/afs"

	"github.com/ldemailly/amalgamate/amalgam"
)

var outDirFlag = flag.String("o", ".", "Directory to write the extracted files to")

func main() {
	cli.ArgsHelp = "[amalgamated-file] (stdin when omitted)"
	cli.MinArgs = 0
	cli.MaxArgs = 1
	cli.Main()

	var input io.Reader = os.Stdin
	if flag.NArg() == 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("Failed to open %s: %v", flag.Arg(0), err)
		}
		defer f.Close()
		input = f
	} else {
		log.Printf("Reading from stdin... Paste combined code and signal EOF (Ctrl+D).")
	}
	n, err := split(context.Background(), afs.New(), input, *outDirFlag)
	if err != nil {
		log.Fatalf("Split failed: %v", err)
	}
	log.Infof("Done, %d files extracted.", n)
}

// split writes each section of r to outDir and returns how many were written.
func split(ctx context.Context, fs afs.Service, r io.Reader, outDir string) (int, error) {
	sections, err := amalgam.Sections(r)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(sections))
	for _, s := range sections {
		name := filepath.Base(s.Name)
		if name != s.Name || name == "." || name == ".." {
			return 0, fmt.Errorf("refusing section name %q", s.Name)
		}
		if seen[name] {
			log.Warnf("Section %s appears more than once, keeping the last one", name)
		}
		seen[name] = true
		content := strings.Join(s.Lines, "\n")
		if len(s.Lines) > 0 {
			content += "\n"
		}
		log.Infof("  Extracting %s (%d lines)", name, len(s.Lines))
		if err := amalgam.WriteFile(ctx, fs, filepath.Join(outDir, name), []byte(content)); err != nil {
			return 0, err
		}
	}
	return len(sections), nil
}

// amalgamate merges a C project's sources and headers into one combined
// source file and one combined public header.
package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/viant/afs"

	"github.com/ldemailly/amalgamate/amalgam"
	"github.com/ldemailly/amalgamate/graph"
)

type options struct {
	configPath   string
	outDir       string
	strict       bool
	dotPath      string
	left2Right   bool
	manifestPath string
	printOrder   bool
	dryRun       bool
}

var (
	configFlag   = flag.String("config", "", "Config file (default <project-root>/"+amalgam.ConfigFile+")")
	outFlag      = flag.String("out", "", "Output directory (default from config, relative to the project root)")
	strictFlag   = flag.Bool("strict", false, "Fail on include cycles instead of emitting a best effort order")
	dotFlag      = flag.String("dot", "", "Also write the include graph in DOT format to this file")
	lrFlag       = flag.Bool("left2right", false, "Lay the DOT graph out left to right")
	manifestFlag = flag.String("manifest", "", "Also write a YAML manifest of the emitted files to this file")
	orderFlag    = flag.Bool("order", false, "Print the topological order of the merged files")
	dryRunFlag   = flag.Bool("n", false, "Dry run: assemble everything but do not write the outputs")
)

func main() {
	cli.ArgsHelp = "[project-root]"
	cli.MinArgs = 0
	cli.MaxArgs = 1
	cli.Main()

	root := "."
	if flag.NArg() == 1 {
		root = flag.Arg(0)
	}
	opts := options{
		configPath:   *configFlag,
		outDir:       *outFlag,
		strict:       *strictFlag,
		dotPath:      *dotFlag,
		left2Right:   *lrFlag,
		manifestPath: *manifestFlag,
		printOrder:   *orderFlag,
		dryRun:       *dryRunFlag,
	}
	if err := run(context.Background(), afs.New(), root, opts); err != nil {
		log.Fatalf("Amalgamation failed: %v", err)
	}
	log.Infof("Amalgamation complete!")
}

func run(ctx context.Context, fs afs.Service, root string, opts options) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(root, amalgam.ConfigFile)
	} else if ok, err := fs.Exists(ctx, configPath); err != nil || !ok {
		return fmt.Errorf("config file %s not found", configPath)
	}
	cfg, err := amalgam.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if opts.strict {
		cfg.Strict = true
	}
	a := amalgam.New(root, cfg, fs)
	res, err := a.Amalgamate(ctx)
	if err != nil {
		return err
	}
	if opts.printOrder {
		log.Printf("Topological sort order:")
		for _, u := range res.Order {
			log.Printf("  %s", u.Path)
		}
	}
	if opts.dotPath != "" {
		var b strings.Builder
		if err := graph.WriteDot(&b, res.Registry, a.Root(), opts.left2Right); err != nil {
			return err
		}
		if err := amalgam.WriteFile(ctx, fs, opts.dotPath, []byte(b.String())); err != nil {
			return err
		}
	}
	if opts.manifestPath != "" {
		m, err := amalgam.NewManifest(cfg.Project, a.Root(), res)
		if err != nil {
			return err
		}
		data, err := m.Marshal()
		if err != nil {
			return err
		}
		if err := amalgam.WriteFile(ctx, fs, opts.manifestPath, data); err != nil {
			return err
		}
	}
	if opts.dryRun {
		log.Infof("Dry run: %d bytes of source, %d bytes of header not written", len(res.Source), len(res.Header))
		return nil
	}
	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.OutputDir
		if !filepath.IsAbs(outDir) {
			outDir = filepath.Join(a.Root(), outDir)
		}
	}
	return amalgam.Write(ctx, fs, outDir, cfg, res)
}


// Package main is the entry point for the mapedit batch editor.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/dshills/mapedit/internal/command"
	"github.com/dshills/mapedit/internal/config"
	"github.com/dshills/mapedit/internal/engine"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/engine/lump"
	"github.com/dshills/mapedit/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

const usage = `mapedit - edit Doom maps from scripts.

Scripts ending in .lua run in the Lua interpreter; any other file is read
as editor commands, one per line.

Usage:
    mapedit [options] [<script>...]
    mapedit -h | --help
    mapedit --version

Options:
    -h --help            Show this screen.
    --version            Show version.
    -c --config=<file>   JSON configuration file.
    -m --map=<dir>       Directory of map lumps to load.
    -o --out=<dir>       Directory to write the edited map to.
    -e --exec=<line>     Run one editor command before the scripts.
    -v --verbose=<n>     Log verbosity [default: 0].
    --dump-config        Print the effective configuration and exit.`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := docopt.ParseArgs(usage, args, fmt.Sprintf("mapedit %s (%s)", version, commit))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	verbose, _ := opts.String("--verbose")
	_ = flag.Set("logtostderr", "true")
	_ = flag.Set("v", verbose)
	defer glog.Flush()

	cfgPath, _ := opts.String("--config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: config: %v\n", err)
		return 1
	}
	if verbose == "0" && cfg.Logging.Verbosity > 0 {
		_ = flag.Set("v", strconv.Itoa(cfg.Logging.Verbosity))
	}
	if dump, _ := opts.Bool("--dump-config"); dump {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	host := engine.HostFuncs{
		StatusFunc: func(msg string) { glog.V(1).Infof("[mapedit]%s\n", msg) },
		BeepFunc:   func(msg string) { glog.Warningf("[mapedit]%s\n", msg) },
	}
	doc := engine.New(engine.WithConfig(cfg), engine.WithHost(host))

	if dir, _ := opts.String("--map"); dir != "" {
		if err := load(doc, dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: load %s: %v\n", dir, err)
			return 1
		}
	}

	sess := command.NewSession(doc, os.Stdout)
	defer sess.Close()
	reg := command.Builtins()

	if line, _ := opts.String("--exec"); line != "" {
		if err := reg.ExecLine(sess, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	lua := script.New(sess, reg)
	defer lua.Close()

	scripts, _ := opts["<script>"].([]string)
	for _, path := range scripts {
		if strings.EqualFold(filepath.Ext(path), ".lua") {
			err = lua.DoFile(path)
		} else {
			err = runCommands(reg, sess, path)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			return 1
		}
	}

	if doc.InTransaction() {
		glog.Warningf("[mapedit]transaction left open, closing it\n")
		doc.End()
	}

	if dir, _ := opts.String("--out"); dir != "" {
		if err := save(doc, dir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: save %s: %v\n", dir, err)
			return 1
		}
	}

	fmt.Printf("%016x\n", doc.Checksum())
	return 0
}

func load(doc *engine.Document, dir string) error {
	lumps, err := lump.ReadDir(dir)
	if err != nil {
		return err
	}
	return doc.Load(func(st *level.Store) error {
		return lump.Decode(st, doc.Strings(), lumps)
	})
}

func save(doc *engine.Document, dir string) error {
	lumps, err := lump.Encode(doc.Store(), doc.Strings())
	if err != nil {
		return err
	}
	if err := lump.WriteDir(dir, lumps); err != nil {
		return err
	}
	doc.MarkSaved()
	return nil
}

func runCommands(reg *command.Registry, sess *command.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := reg.ExecLine(sess, sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return sc.Err()
}

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xplshn/enumdefs/pkg/cli"
	"github.com/xplshn/enumdefs/pkg/config"
	"github.com/xplshn/enumdefs/pkg/defs"
	"github.com/xplshn/enumdefs/pkg/diag"
	"github.com/xplshn/enumdefs/pkg/extract"
)

// errFailed is returned by the action once the diagnostics have already been
// printed.
var errFailed = errors.New("extraction failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole program; it returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	app := cli.NewApp("enumextract")
	app.Stdout, app.Stderr = stdout, stderr
	app.Synopsis = "[options] <header.h> ..."
	app.Description = "Extracts typedef'd enumerations from C header files and writes them as enum or flags definitions for binding generators. Files are processed in order; enumerators of earlier files can be referenced by later ones."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/enumdefs>"

	var (
		module         string
		format         string
		configFile     string
		omitDeprecated bool
		verbose        bool
	)

	fs := app.FlagSet
	fs.String(&module, "module", "m", "", "Use <name> as module instead of the first word of each type name.", "name")
	fs.String(&format, "format", "f", "", "Output format: defs, json or yaml.", "format")
	fs.String(&configFile, "config", "c", "", "Read settings from a YAML file. Command line flags override it.", "file")
	fs.Bool(&omitDeprecated, "omit-deprecated", "", false, "Skip *_DISABLE_DEPRECATED regions and deprecated types and enumerators.")
	fs.Bool(&verbose, "verbose", "v", false, "Print progress information on stderr.")

	cfg := config.NewConfig()
	warningFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(headers []string) error {
		rep := diag.NewReporter(stderr, app.Name, cfg)

		if configFile != "" {
			if err := cfg.LoadFile(configFile); err != nil {
				rep.Error(diag.Pos{}, "%v", err)
				return errFailed
			}
		}
		if module != "" {
			cfg.Module = module
		}
		if omitDeprecated {
			cfg.OmitDeprecated = true
		}
		if format != "" {
			if err := cfg.SetFormat(format); err != nil {
				rep.Error(diag.Pos{}, "%v", err)
				return errFailed
			}
		}
		cfg.Verbose = verbose
		cfg.ApplyFlagGroups(warningFlags)

		if len(headers) == 0 {
			rep.Error(diag.Pos{}, "no header files specified")
			app.WriteUsage(stderr)
			return errFailed
		}

		out := bufio.NewWriter(stdout)
		w, err := defs.NewWriter(cfg.Format, out)
		if err != nil {
			rep.Error(diag.Pos{}, "%v", err)
			return errFailed
		}

		ex := extract.New(cfg, rep)
		runErr := ex.Run(headers, w)
		if err := w.Close(); err != nil {
			rep.Error(diag.Pos{}, "failed to write output: %v", err)
			return errFailed
		}
		if err := out.Flush(); err != nil {
			rep.Error(diag.Pos{}, "failed to write output: %v", err)
			return errFailed
		}
		if runErr != nil {
			return errFailed
		}
		return nil
	}

	if err := app.Run(args); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "%s: %v\n", app.Name, err)
		}
		return 1
	}
	return 0
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/xplshn/enumdefs/pkg/cli"
	"github.com/xplshn/enumdefs/pkg/config"
	"github.com/xplshn/enumdefs/pkg/diag"
	"github.com/xplshn/enumdefs/pkg/docenum"
	"github.com/xplshn/enumdefs/pkg/scanner"
)

func main() {
	app := cli.NewApp("docenumdefs")
	app.Synopsis = "[options] <header.h> ..."
	app.Description = "Prints which enumeration type declares each enumerator found in the given C header files."
	app.Authors = []string{"xplshn"}
	app.Repository = "<https://github.com/xplshn/enumdefs>"

	var (
		omitDeprecated bool
		asJSON         bool
	)
	fs := app.FlagSet
	fs.Bool(&omitDeprecated, "omit-deprecated", "", false, "Skip deprecated regions, types and enumerators.")
	fs.Bool(&asJSON, "json", "j", false, "Print the mapping as a JSON object.")

	failed := false
	app.Action = func(headers []string) error {
		rep := diag.NewReporter(os.Stderr, app.Name, config.NewConfig())
		if len(headers) == 0 {
			rep.Error(diag.Pos{}, "no header files specified")
			failed = true
			return nil
		}

		mapping := make(map[string]string)
		for _, err := range docenum.ParsePaths(headers, mapping, scanner.Options{OmitDeprecated: omitDeprecated}) {
			rep.Error(diag.Pos{}, "%v", err)
			failed = true
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(mapping)
		}
		names := make([]string, 0, len(mapping))
		for name := range mapping {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s -> %s\n", name, mapping[name])
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil || failed {
		os.Exit(1)
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xplshn/enumdefs/pkg/cli"
)

var (
	ErrUnknownFormat  = errors.New("unknown output format")
	ErrUnknownWarning = errors.New("unknown warning")
)

type Warning int

const (
	WarnUnknownToken Warning = iota
	WarnUnparsed
	WarnEvalFailure
	WarnExtra
	WarnCount
)

type Info struct {
	Name        string
	Enabled     bool
	Description string
}

const (
	FormatDefs = "defs"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var Formats = []string{FormatDefs, FormatJSON, FormatYAML}

const DefaultFlagsSuffix = "Flags"

type Config struct {
	Warnings       map[Warning]Info
	WarningMap     map[string]Warning
	Module         string
	OmitDeprecated bool
	Format         string
	FlagsSuffix    string
	Verbose        bool
}

func NewConfig() *Config {
	cfg := &Config{
		Warnings:    make(map[Warning]Info),
		WarningMap:  make(map[string]Warning),
		Format:      FormatDefs,
		FlagsSuffix: DefaultFlagsSuffix,
	}

	warnings := map[Warning]Info{
		WarnUnknownToken: {"unknown-token", true, "Warn when an enumerator value refers to a name not defined earlier."},
		WarnUnparsed:     {"unparsed", true, "Warn about enumerator text that could not be parsed."},
		WarnEvalFailure:  {"eval-failure", true, "Warn when a literal value expression cannot be evaluated."},
		WarnExtra:        {"extra", false, "Enable extra notes, such as omitted deprecated enumerations."},
	}

	cfg.Warnings = warnings
	for wt, info := range warnings {
		cfg.WarningMap[info.Name] = wt
	}
	return cfg
}

func (c *Config) SetWarning(wt Warning, enabled bool) {
	if info, ok := c.Warnings[wt]; ok {
		info.Enabled = enabled
		c.Warnings[wt] = info
	}
}

func (c *Config) IsWarningEnabled(wt Warning) bool { return c.Warnings[wt].Enabled }

// WarningName returns the -W name of wt.
func (c *Config) WarningName(wt Warning) string { return c.Warnings[wt].Name }

// SetWarningByName toggles a warning by its -W name. "all" toggles every warning.
func (c *Config) SetWarningByName(name string, enabled bool) error {
	if name == "all" {
		for i := Warning(0); i < WarnCount; i++ {
			c.SetWarning(i, enabled)
		}
		return nil
	}
	wt, ok := c.WarningMap[name]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownWarning, name)
	}
	c.SetWarning(wt, enabled)
	return nil
}

func (c *Config) SetFormat(format string) error {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, f := range Formats {
		if f == format {
			c.Format = format
			return nil
		}
	}
	return fmt.Errorf("%w '%s'. Supported: %s", ErrUnknownFormat, format, strings.Join(Formats, ", "))
}

// SetupFlagGroups registers -W<name>/-Wno-<name> for every warning and returns
// the entries so the caller can apply them after parsing.
func (c *Config) SetupFlagGroups(fs *cli.FlagSet) []cli.FlagGroupEntry {
	entries := make([]cli.FlagGroupEntry, WarnCount)
	for i := Warning(0); i < WarnCount; i++ {
		info := c.Warnings[i]
		var enabled, disabled bool
		entries[i] = cli.FlagGroupEntry{
			Name:     info.Name,
			Prefix:   "W",
			Usage:    info.Description,
			Default:  info.Enabled,
			Enabled:  &enabled,
			Disabled: &disabled,
		}
	}
	fs.AddFlagGroup("Warning Flags", "Enable or disable individual diagnostics.", "warning", "Available Warnings:", entries)
	return entries
}

// ApplyFlagGroups applies parsed -W flags; a -Wno- flag wins over its -W twin.
func (c *Config) ApplyFlagGroups(entries []cli.FlagGroupEntry) {
	for i, entry := range entries {
		if entry.Enabled != nil && *entry.Enabled {
			c.SetWarning(Warning(i), true)
		}
		if entry.Disabled != nil && *entry.Disabled {
			c.SetWarning(Warning(i), false)
		}
	}
}

// File is the on-disk form of a configuration.
type File struct {
	Module         string          `yaml:"module,omitempty"`
	OmitDeprecated *bool           `yaml:"omit_deprecated,omitempty"`
	Format         string          `yaml:"format,omitempty"`
	FlagsSuffix    string          `yaml:"flags_suffix,omitempty"`
	Warnings       map[string]bool `yaml:"warnings,omitempty"`
}

// LoadFile reads a YAML configuration file and applies it.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := c.Apply(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Apply merges YAML configuration data into c. Unset keys keep their values.
func (c *Config) Apply(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if f.Module != "" {
		c.Module = f.Module
	}
	if f.OmitDeprecated != nil {
		c.OmitDeprecated = *f.OmitDeprecated
	}
	if f.Format != "" {
		if err := c.SetFormat(f.Format); err != nil {
			return err
		}
	}
	if f.FlagsSuffix != "" {
		c.FlagsSuffix = f.FlagsSuffix
	}

	names := make([]string, 0, len(f.Warnings))
	for name := range f.Warnings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.SetWarningByName(name, f.Warnings[name]); err != nil {
			return err
		}
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xplshn/enumdefs/pkg/cli"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, FormatDefs, cfg.Format)
	assert.Equal(t, DefaultFlagsSuffix, cfg.FlagsSuffix)
	assert.False(t, cfg.OmitDeprecated)
	assert.True(t, cfg.IsWarningEnabled(WarnUnknownToken))
	assert.True(t, cfg.IsWarningEnabled(WarnUnparsed))
	assert.True(t, cfg.IsWarningEnabled(WarnEvalFailure))
	assert.False(t, cfg.IsWarningEnabled(WarnExtra))
	assert.Equal(t, "unknown-token", cfg.WarningName(WarnUnknownToken))
}

func TestSetWarningByName(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetWarningByName("unparsed", false))
	assert.False(t, cfg.IsWarningEnabled(WarnUnparsed))

	require.NoError(t, cfg.SetWarningByName("all", true))
	for wt := Warning(0); wt < WarnCount; wt++ {
		assert.True(t, cfg.IsWarningEnabled(wt), cfg.WarningName(wt))
	}

	err := cfg.SetWarningByName("no-such-warning", true)
	assert.ErrorIs(t, err, ErrUnknownWarning)
}

func TestSetFormat(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.SetFormat(" JSON "))
	assert.Equal(t, FormatJSON, cfg.Format)

	err := cfg.SetFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Equal(t, FormatJSON, cfg.Format, "a bad format keeps the previous one")
}

func TestApply(t *testing.T) {
	cfg := NewConfig()
	data := []byte(`
module: Gtk
omit_deprecated: true
format: yaml
flags_suffix: Mask
warnings:
  unparsed: false
  all: true
`)
	require.NoError(t, cfg.Apply(data))
	assert.Equal(t, "Gtk", cfg.Module)
	assert.True(t, cfg.OmitDeprecated)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.Equal(t, "Mask", cfg.FlagsSuffix)
	assert.True(t, cfg.IsWarningEnabled(WarnExtra), "all is applied first")
	assert.False(t, cfg.IsWarningEnabled(WarnUnparsed), "then the named warnings")
}

func TestApplyErrors(t *testing.T) {
	cfg := NewConfig()
	assert.ErrorIs(t, cfg.Apply([]byte("format: toml\n")), ErrUnknownFormat)
	assert.ErrorIs(t, cfg.Apply([]byte("warnings:\n  bogus: true\n")), ErrUnknownWarning)
	assert.Error(t, cfg.Apply([]byte("module: [unterminated\n")))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "enumdefs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("module: Gm\n"), 0o644))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "Gm", cfg.Module)

	err := cfg.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFlagGroups(t *testing.T) {
	cfg := NewConfig()
	fs := cli.NewFlagSet("test")
	entries := cfg.SetupFlagGroups(fs)
	require.Len(t, entries, int(WarnCount))

	require.NoError(t, fs.Parse([]string{"-Wextra", "-Wno-unparsed", "a.h"}))
	cfg.ApplyFlagGroups(entries)

	assert.True(t, cfg.IsWarningEnabled(WarnExtra))
	assert.False(t, cfg.IsWarningEnabled(WarnUnparsed))
	assert.True(t, cfg.IsWarningEnabled(WarnUnknownToken), "untouched warnings keep their default")
	assert.Equal(t, []string{"a.h"}, fs.Args())
}

// Package extract drives a whole run: it opens each header in order, scans
// it, resolves every enumeration against the shared symbol table and hands
// the records to a writer.
package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xplshn/enumdefs/pkg/config"
	"github.com/xplshn/enumdefs/pkg/defs"
	"github.com/xplshn/enumdefs/pkg/diag"
	"github.com/xplshn/enumdefs/pkg/resolver"
	"github.com/xplshn/enumdefs/pkg/scanner"
	"github.com/xplshn/enumdefs/pkg/symtab"
)

// FileError is an input file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

type Extractor struct {
	cfg      *config.Config
	rep      *diag.Reporter
	symbols  *symtab.Table
	resolver *resolver.Resolver
	records  int
}

// New returns an extractor with an empty symbol table. Enumerators bound while
// extracting one file are visible to every file extracted after it.
func New(cfg *config.Config, rep *diag.Reporter) *Extractor {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if rep == nil {
		rep = diag.NewReporter(io.Discard, "", cfg)
	}
	symbols := symtab.New()
	return &Extractor{
		cfg:      cfg,
		rep:      rep,
		symbols:  symbols,
		resolver: resolver.New(symbols, rep, resolver.OptionsFrom(cfg)),
	}
}

// Symbols is the table shared by every file of the run.
func (e *Extractor) Symbols() *symtab.Table { return e.symbols }

// Records counts the records written so far.
func (e *Extractor) Records() int { return e.records }

// ExtractFile processes one header. The writer's BeginFile is called with the
// file's base name before its first record, or once at the end when every
// enumeration was omitted as deprecated; files without enumerations produce no
// output.
func (e *Extractor) ExtractFile(path string, w defs.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	defer f.Close()
	return e.Extract(f, path, w)
}

// Extract is ExtractFile over an already open reader. name is used in
// diagnostics and for the file header.
func (e *Extractor) Extract(r io.Reader, name string, w defs.Writer) error {
	e.rep.Infof("scanning %s", name)
	sc := scanner.New(r, name, scanner.Options{OmitDeprecated: e.cfg.OmitDeprecated})

	started := false
	for {
		b, ok := sc.Next()
		if !ok {
			break
		}
		rec := e.resolver.Resolve(b)
		if !started {
			if err := w.BeginFile(filepath.Base(name)); err != nil {
				return err
			}
			started = true
		}
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
		e.records++
		e.rep.Infof("%s: %s %s with %d values", name, rec.Kind, rec.CName, len(rec.Entries))
	}
	if n := sc.Omitted(); n > 0 {
		// The file did define enumerations, even if none were kept.
		if !started {
			if err := w.BeginFile(filepath.Base(name)); err != nil {
				return err
			}
		}
		e.rep.Warn(config.WarnExtra, diag.Pos{File: name}, "omitted %d deprecated enumerations", n)
	}
	if err := sc.Err(); err != nil {
		return &FileError{Path: name, Err: err}
	}
	return nil
}

// Run extracts every path in order. A file that fails is reported at once and
// skipped; the others are still processed. The returned error joins the
// failures of every file.
func (e *Extractor) Run(paths []string, w defs.Writer) error {
	var errs []error
	for _, path := range paths {
		if err := e.ExtractFile(path, w); err != nil {
			e.rep.Error(diag.Pos{}, "%v", err)
			errs = append(errs, err)
		}
	}
	e.rep.Infof("%d records from %d files, %d symbols", e.records, len(paths), e.symbols.Len())
	return errors.Join(errs...)
}

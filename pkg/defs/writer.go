package defs

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xplshn/enumdefs/pkg/config"
)

// NewWriter returns the writer for one of config.Formats.
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case config.FormatDefs, "":
		return NewDefsWriter(w), nil
	case config.FormatJSON:
		return NewJSONWriter(w), nil
	case config.FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("%w '%s'", config.ErrUnknownFormat, format)
	}
}

// DefsWriter writes the s-expression .defs format read by gmmproc.
type DefsWriter struct {
	w io.Writer
}

func NewDefsWriter(w io.Writer) *DefsWriter { return &DefsWriter{w: w} }

func (d *DefsWriter) BeginFile(name string) error {
	_, err := fmt.Fprintf(d.w, ";; From %s\n\n", name)
	return err
}

func (d *DefsWriter) WriteRecord(rec *Record) error {
	var sb strings.Builder
	if rec.Original != "" {
		sb.WriteString(";; Original typedef:\n")
		sb.WriteString(rec.Original)
		if !strings.HasSuffix(rec.Original, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "(define-%s-extended %s\n", rec.Kind, rec.Name)
	fmt.Fprintf(&sb, "  (in-module \"%s\")\n", rec.Module)
	fmt.Fprintf(&sb, "  (c-name \"%s\")\n", rec.CName)
	sb.WriteString("  (values\n")
	for _, e := range rec.Entries {
		value := ""
		if e.Value != "" {
			value = fmt.Sprintf(" \"%s\"", e.Value)
		}
		fmt.Fprintf(&sb, "    '(\"%s\" \"%s\"%s)%s\n", e.Nick, e.CName, value, charNote(e))
	}
	sb.WriteString("  )\n")
	sb.WriteString(")\n\n")
	_, err := io.WriteString(d.w, sb.String())
	return err
}

func (d *DefsWriter) Close() error { return nil }

// charNote marks a value that was written as a character literal, so it can be
// told apart from a number with the same code.
func charNote(e Entry) string {
	if e.Kind != ValueChar {
		return ""
	}
	n, err := strconv.ParseInt(e.Value, 10, 32)
	if err != nil {
		return ""
	}
	return " ;; char " + strconv.QuoteRune(rune(n))
}

// JSONWriter collects every record and writes one indented array on Close.
type JSONWriter struct {
	w       io.Writer
	source  string
	records []*Record
}

func NewJSONWriter(w io.Writer) *JSONWriter { return &JSONWriter{w: w} }

func (j *JSONWriter) BeginFile(name string) error {
	j.source = name
	return nil
}

func (j *JSONWriter) WriteRecord(rec *Record) error {
	r := *rec
	if r.Source == "" {
		r.Source = j.source
	}
	j.records = append(j.records, &r)
	return nil
}

func (j *JSONWriter) Close() error {
	records := j.records
	if records == nil {
		records = []*Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records to JSON: %w", err)
	}
	data = append(data, '\n')
	_, err = j.w.Write(data)
	return err
}

// YAMLWriter streams one YAML document per record.
type YAMLWriter struct {
	enc    *yaml.Encoder
	source string
}

func NewYAMLWriter(w io.Writer) *YAMLWriter {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &YAMLWriter{enc: enc}
}

func (y *YAMLWriter) BeginFile(name string) error {
	y.source = name
	return nil
}

func (y *YAMLWriter) WriteRecord(rec *Record) error {
	r := *rec
	if r.Source == "" {
		r.Source = y.source
	}
	if err := y.enc.Encode(&r); err != nil {
		return fmt.Errorf("failed to encode record %s: %w", r.CName, err)
	}
	return nil
}

func (y *YAMLWriter) Close() error { return y.enc.Close() }

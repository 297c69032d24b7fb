package defs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xplshn/enumdefs/pkg/config"
)

func sampleRecords() []*Record {
	return []*Record{
		{
			Kind:     KindEnum,
			Name:     "Foo",
			Module:   "Gm",
			CName:    "GmFoo",
			Original: ";; typedef enum { GM_FOO_A, GM_FOO_B } GmFoo;\n",
			Entries: []Entry{
				{Nick: "a", CName: "GM_FOO_A", Value: "0", Kind: ValueNumber},
				{Nick: "b", CName: "GM_FOO_B", Value: "1", Kind: ValueNumber},
			},
		},
		{
			Kind:   KindFlags,
			Name:   "Bits",
			Module: "Gm",
			CName:  "GmBits",
			Entries: []Entry{
				{Nick: "one", CName: "GM_BITS_ONE", Value: "0x1", Kind: ValueNumber},
				{Nick: "odd", CName: "GM_BITS_ODD"},
			},
		},
		{
			Kind:   KindEnum,
			Name:   "Sep",
			Module: "Gm",
			CName:  "GmSep",
			Entries: []Entry{
				{Nick: "comma", CName: "GM_SEP_COMMA", Value: "44", Kind: ValueChar},
				{Nick: "a", CName: "GM_SEP_A", Value: "97", Kind: ValueChar},
				{Nick: "num", CName: "GM_SEP_NUM", Value: "97", Kind: ValueNumber},
			},
		},
	}
}

func writeAll(t *testing.T, w Writer, file string, recs []*Record) {
	t.Helper()
	require.NoError(t, w.BeginFile(file))
	for _, r := range recs {
		require.NoError(t, w.WriteRecord(r))
	}
	require.NoError(t, w.Close())
}

func TestDefsWriter(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewDefsWriter(&buf), "gmfoo.h", sampleRecords())

	want := `;; From gmfoo.h

;; Original typedef:
;; typedef enum { GM_FOO_A, GM_FOO_B } GmFoo;

(define-enum-extended Foo
  (in-module "Gm")
  (c-name "GmFoo")
  (values
    '("a" "GM_FOO_A" "0")
    '("b" "GM_FOO_B" "1")
  )
)

(define-flags-extended Bits
  (in-module "Gm")
  (c-name "GmBits")
  (values
    '("one" "GM_BITS_ONE" "0x1")
    '("odd" "GM_BITS_ODD")
  )
)

(define-enum-extended Sep
  (in-module "Gm")
  (c-name "GmSep")
  (values
    '("comma" "GM_SEP_COMMA" "44") ;; char ','
    '("a" "GM_SEP_A" "97") ;; char 'a'
    '("num" "GM_SEP_NUM" "97")
  )
)

`
	assert.Equal(t, want, buf.String())
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(&buf)
	writeAll(t, w, "gmfoo.h", sampleRecords())

	var got []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "gmfoo.h", got[0].Source)
	assert.Equal(t, ValueChar, got[2].Entries[1].Kind)
	assert.Equal(t, KindFlags, got[1].Kind)
	assert.Empty(t, got[0].Original, "original text is not serialized")
	assert.Equal(t, Entry{Nick: "odd", CName: "GM_BITS_ODD"}, got[1].Entries[1])
	assert.NotContains(t, buf.String(), `"value": ""`)
}

func TestJSONWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONWriter(&buf).Close())
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLWriter(t *testing.T) {
	var buf bytes.Buffer
	writeAll(t, NewYAMLWriter(&buf), "gmfoo.h", sampleRecords())

	dec := yaml.NewDecoder(&buf)
	var got []Record
	for {
		var r Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, r)
	}
	require.Len(t, got, 3)
	assert.Equal(t, "GmFoo", got[0].CName)
	assert.Equal(t, "gmfoo.h", got[1].Source)
	assert.Equal(t, "0x1", got[1].Entries[0].Value)
}

func TestNewWriter(t *testing.T) {
	for _, format := range []string{"", config.FormatDefs, config.FormatJSON, config.FormatYAML} {
		w, err := NewWriter(format, io.Discard)
		require.NoError(t, err, format)
		assert.NotNil(t, w)
	}
	_, err := NewWriter("xml", io.Discard)
	assert.ErrorIs(t, err, config.ErrUnknownFormat)
}

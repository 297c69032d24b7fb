package scanner

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func collect(t *testing.T, src string, opts Options) []Block {
	t.Helper()
	blocks, err := New(strings.NewReader(src), "gm.h", opts).Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	return blocks
}

func TestScanMultiLine(t *testing.T) {
	src := `/* header comment */
#include <glib.h>
typedef enum
{
  GM_FOO_A, /* first */
  GM_FOO_B = 2, // second
  /* multi
     line */
  GM_FOO_C
} GmFoo;
`
	blocks := collect(t, src, Options{})
	want := []Block{{
		Body:     "{\n  GM_FOO_A, \n  GM_FOO_B = 2, \n  \n  GM_FOO_C\n",
		Trailing: "} GmFoo;",
		Raw: ";; typedef enum\n;; {\n;;   GM_FOO_A, /* first */\n;;   GM_FOO_B = 2, // second\n" +
			";;   /* multi\n;;      line */\n;;   GM_FOO_C\n;; } GmFoo;\n",
		File: "gm.h",
		Line: 3,
	}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSingleLine(t *testing.T) {
	blocks := collect(t, "typedef enum { FOO_ONE, FOO_TWO, FOO_THREE } FooEnum;\n", Options{})
	want := []Block{{
		Body:     " FOO_ONE, FOO_TWO, FOO_THREE ",
		Trailing: "} FooEnum;",
		Raw:      ";; typedef enum { FOO_ONE, FOO_TWO, FOO_THREE } FooEnum;\n",
		File:     "gm.h",
		Line:     1,
	}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNameOnNextLine(t *testing.T) {
	src := "typedef enum {\n  A_ONE\n}\nGmLate;\n"
	sc := New(strings.NewReader(src), "gm.h", Options{})

	b, ok := sc.Next()
	if !ok {
		t.Fatal("no block")
	}
	if b.Trailing != "} GmLate;" {
		t.Errorf("Trailing = %q, want %q", b.Trailing, "} GmLate;")
	}
	if b.Body != "\n  A_ONE\n" {
		t.Errorf("Body = %q", b.Body)
	}
	if sc.State() != Scanning {
		t.Errorf("State after block = %s, want %s", sc.State(), Scanning)
	}
}

func TestScanStates(t *testing.T) {
	sc := New(strings.NewReader(""), "gm.h", Options{})
	steps := []struct {
		line string
		want State
	}{
		{"typedef enum {\n", InEnum},
		{"  A, /* open\n", InComment},
		{"  comment */ B\n", InEnum},
		{"}\n", AwaitingSemicolon},
	}
	for _, step := range steps {
		sc.lineNo++
		if _, ok := sc.feed(step.line); ok {
			t.Fatalf("feed(%q) produced a block", step.line)
		}
		if got := sc.State(); got != step.want {
			t.Errorf("after %q state = %s, want %s", step.line, got, step.want)
		}
	}
	b, ok := sc.feed("GmS;\n")
	if !ok {
		t.Fatal("semicolon line did not finish the block")
	}
	if b.Body != "\n  A, \n B" {
		t.Errorf("Body = %q", b.Body)
	}
}

func TestScanSkipsForwardDeclarations(t *testing.T) {
	src := "typedef enum _GmX GmX;\ntypedef enum { X_A } GmY;\n"
	blocks := collect(t, src, Options{})
	if len(blocks) != 1 || blocks[0].Trailing != "} GmY;" {
		t.Fatalf("blocks = %+v, want only GmY", blocks)
	}
}

func TestScanSentinels(t *testing.T) {
	blocks := collect(t, "typedef enum { X_COMMA = ',', X_BRACE = '}', X_A = 'a' } XChars;\n", Options{})
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := " X_COMMA = " + CommaSentinel + ", X_BRACE = " + RBraceSentinel + ", X_A = 'a' "
	if blocks[0].Body != want {
		t.Errorf("Body = %q, want %q", blocks[0].Body, want)
	}
	if !strings.Contains(blocks[0].Raw, "','") {
		t.Errorf("Raw lost the original text: %q", blocks[0].Raw)
	}
}

func TestScanDeprecated(t *testing.T) {
	src := `#ifndef GM_DISABLE_DEPRECATED
typedef enum { GM_OLD_A } GmOld;
#if GM_FEATURE
typedef enum { GM_OLDER_A } GmOlder;
#endif
#endif
typedef enum { GM_NEW_A } GmNew;
typedef enum { GM_GONE_A } GmGone GM_DEPRECATED_TYPE;
`
	trailing := func(blocks []Block) []string {
		var out []string
		for _, b := range blocks {
			out = append(out, b.Trailing)
		}
		return out
	}

	all := collect(t, src, Options{})
	want := []string{"} GmOld;", "} GmOlder;", "} GmNew;", "} GmGone GM_DEPRECATED_TYPE;"}
	if diff := cmp.Diff(want, trailing(all)); diff != "" {
		t.Errorf("without omit (-want +got):\n%s", diff)
	}
	if !all[3].Deprecated {
		t.Error("GmGone not marked deprecated")
	}

	sc := New(strings.NewReader(src), "gm.h", Options{OmitDeprecated: true})
	kept, err := sc.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"} GmNew;"}, trailing(kept)); diff != "" {
		t.Errorf("with omit (-want +got):\n%s", diff)
	}
	if sc.Omitted() != 1 {
		t.Errorf("Omitted = %d, want 1", sc.Omitted())
	}
}

func TestScanAbandonsUnterminated(t *testing.T) {
	src := "typedef enum {\n  A_ONE\n}\ntypedef enum { B_ONE } GmB;\ntypedef enum { C_ONE\n"
	blocks := collect(t, src, Options{})
	want := []Block{{Body: " B_ONE ", Trailing: "} GmB;", File: "gm.h", Line: 4}}
	if diff := cmp.Diff(want, blocks, cmpopts.IgnoreFields(Block{}, "Raw")); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

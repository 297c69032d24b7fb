package resolver

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTypeName(t *testing.T) {
	tests := []struct{ trailing, want string }{
		{"} GmFoo;", "GmFoo"},
		{"} GmFoo GM_DEPRECATED_TYPE;", "GmFoo"},
		{"} GmBar GM_AVAILABLE_TYPE_IN_2_4;", "GmBar"},
		{"}GmTight;", "GmTight"},
	}
	for _, tt := range tests {
		if got := TypeName(tt.trailing); got != tt.want {
			t.Errorf("TypeName(%q) = %q, want %q", tt.trailing, got, tt.want)
		}
	}
}

func TestNormalizeBody(t *testing.T) {
	got := NormalizeBody("{\n  GM_A, /* note */\n\tGM_B\n")
	if want := "GM_A,  GM_B "; got != want {
		t.Errorf("NormalizeBody = %q, want %q", got, want)
	}
}

func TestSplitClauses(t *testing.T) {
	body := " GM_A = MACRO(1, 2), GM_B GM_DEPRECATED_ENUMERATOR_FOR(GM_A), P_OPEN = '(', P_CLOSE = ')', GM_C = \\ 3, "
	got := SplitClauses(body)
	want := []Clause{
		{Text: "GM_A = MACRO(1, 2)", Name: "GM_A", Expr: "MACRO(1, 2)"},
		{Text: "GM_B", Name: "GM_B", Deprecated: true},
		{Text: "P_OPEN = '('", Name: "P_OPEN", Expr: "'('"},
		{Text: "P_CLOSE = ')'", Name: "P_CLOSE", Expr: "')'"},
		{Text: "GM_C =  3", Name: "GM_C", Expr: "3"},
		{Text: "", Last: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitClauses mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitClausesUnbalanced(t *testing.T) {
	got := SplitClauses(" GM_A = (1, GM_B")
	want := []Clause{{Text: "GM_A = (1, GM_B", Name: "GM_A", Expr: "(1, GM_B", Last: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitClauses mismatch (-want +got):\n%s", diff)
	}
}

// Package symtab holds the enumerator values seen so far in a run.
//
// The table is order dependent: an enumerator may only refer to names bound by
// enumerations processed before it (earlier in the same file or in an earlier
// file). A Table is meant to be used from one goroutine.
package symtab

import (
	"sort"
	"strconv"
)

// Value is either a resolved number or, for enumerators whose initializer
// referenced something unknown, the symbolic expression text.
type Value struct {
	Num  int64
	Expr string
	Sym  bool
}

func Number(n int64) Value     { return Value{Num: n} }
func Symbolic(e string) Value  { return Value{Expr: e, Sym: true} }
func (v Value) IsNumber() bool { return !v.Sym }

// String gives the text that replaces a reference to the value inside another
// expression.
func (v Value) String() string {
	if v.Sym {
		return v.Expr
	}
	return strconv.FormatInt(v.Num, 10)
}

type Table struct {
	values map[string]Value
}

func New() *Table {
	return &Table{values: make(map[string]Value)}
}

// Bind sets name to v, replacing any earlier binding.
func (t *Table) Bind(name string, v Value) {
	t.values[name] = v
}

func (t *Table) Lookup(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Number returns name's value when it is bound to a number.
func (t *Table) Number(name string) (int64, bool) {
	v, ok := t.values[name]
	if !ok || v.Sym {
		return 0, false
	}
	return v.Num, true
}

func (t *Table) Len() int { return len(t.values) }

// Names returns every bound name, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

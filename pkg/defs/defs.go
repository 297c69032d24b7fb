// Package defs holds the normalized enumeration records and the writers that
// serialize them for code generators.
package defs

type Kind string

const (
	KindEnum  Kind = "enum"
	KindFlags Kind = "flags"
)

// ValueKind records where an entry's value came from.
type ValueKind string

const (
	ValueNumber     ValueKind = "number"
	ValueChar       ValueKind = "char"
	ValueUnresolved ValueKind = "unresolved"
)

type Entry struct {
	Nick  string    `json:"nick" yaml:"nick"`
	CName string    `json:"c_name" yaml:"c_name"`
	Value string    `json:"value,omitempty" yaml:"value,omitempty"`
	Kind  ValueKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Record is one resolved enumeration. It is not modified after the resolver
// returns it.
type Record struct {
	Kind    Kind    `json:"kind" yaml:"kind"`
	Name    string  `json:"name" yaml:"name"`
	Module  string  `json:"module" yaml:"module"`
	CName   string  `json:"c_name" yaml:"c_name"`
	Entries []Entry `json:"values" yaml:"values"`

	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Original string `json:"-" yaml:"-"`
}

func (r *Record) IsFlags() bool { return r.Kind == KindFlags }

// Writer receives records in extraction order.
type Writer interface {
	// BeginFile is called before the first record of each input file.
	BeginFile(name string) error
	WriteRecord(rec *Record) error
	Close() error
}

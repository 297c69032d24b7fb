// Package resolver turns scanned enumeration blocks into definition records:
// it splits the body into enumerators, computes their values, decides whether
// the type is a plain enumeration or a set of flags, and derives nicknames.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xplshn/enumdefs/pkg/config"
	"github.com/xplshn/enumdefs/pkg/defs"
	"github.com/xplshn/enumdefs/pkg/diag"
	"github.com/xplshn/enumdefs/pkg/eval"
	"github.com/xplshn/enumdefs/pkg/scanner"
	"github.com/xplshn/enumdefs/pkg/symtab"
)

const optionalCast = `(?:\([a-z ]+\)\s*)?`

var (
	extractModuleName = regexp.MustCompile(`^([A-Z][a-z]*)`)
	onlyName          = regexp.MustCompile(`^\w+$`)
	nameAndHex        = regexp.MustCompile(`^(\w+)\s*=?\s*(0x[0-9a-fA-F]+[uUlL]*[\s0-9a-fx<-]*)$`)
	nameAndDecimal    = regexp.MustCompile(`^(\w+)\s*=?\s*(-?\s*[0-9]+[uUlL]*)$`)
	nameAndShift      = regexp.MustCompile(`^(\w+)\s*=?\s*(` + optionalCast + `\(?1[uU]?\s*<<\s*[0-9]+\s*\)?[\s0-9a-fx<-]*)$`)
	shiftValue        = regexp.MustCompile(optionalCast + `\(?1[uU]?\s*<<`)
	nameWithOtherName = regexp.MustCompile(`^(\w+)\s*=?\s*(-?[ _x0-9a-fA-Z|()<~+,]+)$`)
	nameWithChar      = regexp.MustCompile(`^(\w+)\s*=\s*'(.)'$`)
	commaOrRBrace     = regexp.MustCompile(`^(\w+)\s*=\s*(%%[A-Z]+%%)$`)
	spacedMinus       = regexp.MustCompile(`^-\s+`)
)

var unknownTokenNote = []string{
	"It probably is one of:",
	"- preprocessor value - make sure that header defining this value is included in sources wrapping the enum.",
	"- enum value from other header or module - see 'preprocessor value'.",
	"- typo (happens rarely) - send a patch fixing this to maintainer of this module.",
}

// Weights of the enum/flags heuristic.
const (
	shiftFlagWeight   = 10
	hexFlagWeight     = 1
	orFlagWeight      = 1
	unknownFlagWeight = 1
	enumWeight        = 1
)

type Options struct {
	// Module overrides the module derived from the type name's first
	// capitalized word.
	Module         string
	OmitDeprecated bool
	// FlagsSuffix marks type names that are always flag sets.
	FlagsSuffix string
}

// OptionsFrom copies the resolver settings out of a run configuration.
func OptionsFrom(cfg *config.Config) Options {
	return Options{Module: cfg.Module, OmitDeprecated: cfg.OmitDeprecated, FlagsSuffix: cfg.FlagsSuffix}
}

// Score holds the two counters of the classification heuristic.
type Score struct {
	Enum  int
	Flags int
}

type Resolver struct {
	symbols *symtab.Table
	rep     *diag.Reporter
	opts    Options
}

// New returns a resolver that reads and extends symbols. rep may be nil, in
// which case diagnostics are dropped.
func New(symbols *symtab.Table, rep *diag.Reporter, opts Options) *Resolver {
	if rep == nil {
		rep = diag.NewReporter(io.Discard, "", nil)
	}
	if opts.FlagsSuffix == "" {
		opts.FlagsSuffix = config.DefaultFlagsSuffix
	}
	return &Resolver{symbols: symbols, rep: rep, opts: opts}
}

// Resolve builds the record for b and binds its enumerators in the symbol table.
func (r *Resolver) Resolve(b scanner.Block) *defs.Record {
	rec, _ := r.Analyze(b)
	return rec
}

type valueSlot struct {
	kind defs.ValueKind
	num  int64
	text string
}

type enumState struct {
	typeName string
	pos      diag.Pos
	names    []string
	values   []valueSlot
	score    Score

	next int64
	// After an enumerator whose value could not be computed, implicit values
	// continue symbolically as "(base) + k".
	unknown          bool
	unknownBase      string
	unknownIncrement int
	unknownVal       string
}

func (st *enumState) add(name string, v valueSlot) {
	st.names = append(st.names, name)
	st.values = append(st.values, v)
}

func (st *enumState) advance() {
	if st.unknown {
		st.unknownIncrement++
		st.unknownVal = st.unknownBase + " + " + strconv.Itoa(st.unknownIncrement)
	} else {
		st.next++
	}
}

func (st *enumState) setUnresolved(text string) {
	st.unknown = true
	st.unknownBase = "(" + text + ")"
	st.unknownIncrement = 0
}

// Analyze is Resolve that also returns the classification counters.
func (r *Resolver) Analyze(b scanner.Block) (*defs.Record, Score) {
	cName := TypeName(b.Trailing)
	body := NormalizeBody(b.Body)

	module := r.opts.Module
	if module == "" {
		if m := extractModuleName.FindStringSubmatch(cName); m != nil {
			module = m[1]
		}
	}
	defName := cName
	if module != "" {
		defName = strings.ReplaceAll(cName, module, "")
	}

	st := &enumState{typeName: cName, pos: diag.Pos{File: b.File, Line: b.Line}}
	for _, cl := range SplitClauses(body) {
		if cl.Deprecated && r.opts.OmitDeprecated {
			// Dropped without taking a counter slot.
			continue
		}
		r.resolveClause(st, cl)
		st.advance()
	}

	kind := defs.KindEnum
	if strings.HasSuffix(cName, r.opts.FlagsSuffix) || st.score.Flags >= st.score.Enum {
		kind = defs.KindFlags
	}

	nicks := FormNicknames(cName, st.names)
	entries := make([]defs.Entry, len(st.names))
	for j, name := range st.names {
		value, vkind := formatValue(st.values[j], kind)
		entries[j] = defs.Entry{Nick: nicks[j], CName: name, Value: value, Kind: vkind}
	}

	rec := &defs.Record{
		Kind:     kind,
		Name:     defName,
		Module:   module,
		CName:    cName,
		Entries:  entries,
		Original: b.Raw,
	}
	if b.File != "" {
		rec.Source = filepath.Base(b.File)
	}
	return rec, st.score
}

func (r *Resolver) resolveClause(st *enumState, cl Clause) {
	text := cl.Text

	if onlyName.MatchString(text) {
		if st.unknown {
			st.add(text, valueSlot{kind: defs.ValueUnresolved, text: st.unknownVal})
			// Wrapped so a later ~NAME or X - NAME keeps the whole sum.
			r.symbols.Bind(text, symtab.Symbolic("("+st.unknownVal+")"))
		} else {
			st.add(text, valueSlot{kind: defs.ValueNumber, num: st.next})
			r.symbols.Bind(text, symtab.Number(st.next))
		}
		st.score.Enum += enumWeight
		return
	}

	if m := matchFirst(text, nameAndHex, nameAndDecimal, nameAndShift); m != nil {
		r.resolveLiteral(st, m[1], m[2])
		return
	}

	if m := nameWithOtherName.FindStringSubmatch(text); m != nil {
		r.resolveReference(st, m[1], m[2])
		return
	}

	if m := nameWithChar.FindStringSubmatch(text); m != nil {
		ch := int64([]rune(m[2])[0])
		st.add(m[1], valueSlot{kind: defs.ValueChar, num: ch})
		r.symbols.Bind(m[1], symtab.Number(ch))
		st.next = ch
		st.unknown = false
		st.score.Enum += enumWeight
		return
	}

	if m := commaOrRBrace.FindStringSubmatch(text); m != nil {
		switch m[2] {
		case scanner.CommaSentinel:
			st.next = ','
			st.add(m[1], valueSlot{kind: defs.ValueChar, num: ','})
		case scanner.RBraceSentinel:
			st.next = '}'
			st.add(m[1], valueSlot{kind: defs.ValueChar, num: '}'})
		default:
			st.add(m[1], valueSlot{kind: defs.ValueUnresolved, text: m[2]})
		}
		r.symbols.Bind(m[1], symtab.Number(st.next))
		st.unknown = false
		st.score.Enum += enumWeight
		return
	}

	if text == "" && cl.Last {
		return
	}
	r.rep.Warn(config.WarnUnparsed, st.pos, "I do not know how to parse '%s' in '%s'.", text, st.typeName)
}

func matchFirst(text string, res ...*regexp.Regexp) []string {
	for _, re := range res {
		if m := re.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

// resolveLiteral handles values made only of numbers: 42, -13, 0x20,
// 0x5 << 22, (guint) (1u << 3).
func (r *Resolver) resolveLiteral(st *enumState, name, expr string) {
	expr = spacedMinus.ReplaceAllString(expr, "-")

	switch {
	case shiftValue.MatchString(expr):
		st.score.Flags += shiftFlagWeight
	case strings.HasPrefix(expr, "0x"):
		st.score.Flags += hexFlagWeight
	default:
		st.score.Enum += enumWeight
	}

	val, err := eval.Eval(expr, nil)
	if err != nil {
		r.rep.Warn(config.WarnEvalFailure, st.pos, "cannot evaluate value '%s' of %s element in '%s' enum: %v", expr, name, st.typeName, err)
		st.add(name, valueSlot{kind: defs.ValueUnresolved, text: expr})
		st.setUnresolved(expr)
		r.symbols.Bind(name, symtab.Symbolic(st.unknownBase))
		return
	}
	st.add(name, valueSlot{kind: defs.ValueNumber, num: val})
	r.symbols.Bind(name, symtab.Number(val))
	st.next = val
	st.unknown = false
}

// resolveReference handles values that name other enumerators, such as
// FOO_ALL = FOO_A | FOO_B | (1 << 5).
func (r *Resolver) resolveReference(st *enumState, name, expr string) {
	terms := strings.Split(expr, "|")
	if len(terms) > 1 {
		st.score.Flags += orFlagWeight
	} else {
		st.score.Enum += enumWeight
	}

	unresolved := false
	for _, term := range terms {
		for _, sym := range eval.Symbols(term) {
			if _, ok := r.symbols.Lookup(sym); ok {
				continue
			}
			unresolved = true
			if r.rep.Warn(config.WarnUnknownToken, st.pos, "%s value of %s element in '%s' enum is an unknown token.", sym, name, st.typeName) {
				r.rep.NoteOnce("unknown-token", unknownTokenNote...)
			}
			// An unknown value often makes a flag.
			st.score.Flags += unknownFlagWeight
		}
	}

	text := eval.Substitute(expr, func(n string) (string, bool) {
		v, ok := r.symbols.Lookup(n)
		if !ok {
			return "", false
		}
		return v.String(), true
	})

	if !unresolved {
		val, err := eval.Eval(text, nil)
		if err == nil {
			st.add(name, valueSlot{kind: defs.ValueNumber, num: val})
			r.symbols.Bind(name, symtab.Number(val))
			st.next = val
			st.unknown = false
			return
		}
		var ue *eval.UnresolvedError
		if !errors.As(err, &ue) {
			r.rep.Warn(config.WarnEvalFailure, st.pos, "cannot evaluate value '%s' of %s element in '%s' enum: %v", text, name, st.typeName, err)
		}
	}

	st.add(name, valueSlot{kind: defs.ValueUnresolved, text: text})
	st.setUnresolved(text)
	r.symbols.Bind(name, symtab.Symbolic(st.unknownBase))
}

// formatValue renders a value as decimal for enumerations and hexadecimal for
// flags. Character values are always decimal.
func formatValue(v valueSlot, kind defs.Kind) (string, defs.ValueKind) {
	switch v.kind {
	case defs.ValueChar:
		return strconv.FormatInt(v.num, 10), defs.ValueChar
	case defs.ValueUnresolved:
		n, err := strconv.ParseInt(strings.TrimSpace(v.text), 10, 64)
		if err != nil {
			return v.text, defs.ValueUnresolved
		}
		v.num = n
	}
	if kind == defs.KindFlags {
		return fmt.Sprintf("%#x", v.num), defs.ValueNumber
	}
	return strconv.FormatInt(v.num, 10), defs.ValueNumber
}

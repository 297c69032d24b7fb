// Package scanner finds typedef'd enumerations in C header text.
//
// It is a line-oriented state machine, not a C parser: comments and
// preprocessor lines are dropped, deprecated regions can be skipped, and the
// text between "typedef enum {" and "} Name;" is handed out as a Block.
package scanner

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// The character literals ',' and '}' would confuse clause splitting and the
// end-of-enum test, so they are replaced by these markers while scanning.
const (
	CommaSentinel  = "%%COMMA%%"
	RBraceSentinel = "%%RBRACE%%"
)

var (
	commentBegin      = regexp.MustCompile(`^(.*)/\*`)
	commentEnd        = regexp.MustCompile(`\*/(.*)`)
	deprecateIfBegin  = regexp.MustCompile(`^\s*#\s*(?:if\s*!\s*defined|ifndef)\s*\(?\s*[A-Z_]+_DISABLE_DEPRECATED\s*\)?`)
	ifBegin           = regexp.MustCompile(`^\s*#\s*if`)
	ifEnd             = regexp.MustCompile(`^\s*#\s*endif`)
	ppDirective       = regexp.MustCompile(`^\s*#`)
	singleLineComment = regexp.MustCompile(`/\*.*?\*/`)
	lineComment       = regexp.MustCompile(`//.*`)
	enumBegin         = regexp.MustCompile(`^\s*typedef\s+enum\b`)
	deprecatedType    = regexp.MustCompile(`[A-Z]+_DEPRECATED_TYPE`)
)

// Block is one typedef'd enumeration as found in the source.
type Block struct {
	// Body is the comment-free text between the braces, opening brace
	// included when it was on its own line.
	Body string
	// Trailing runs from the closing brace through the semicolon and carries
	// the type name.
	Trailing string
	// Raw is the original text of every line of the definition, each prefixed
	// with ";; ".
	Raw string
	// Deprecated is set when the trailing clause has a *_DEPRECATED_TYPE marker.
	Deprecated bool
	File       string
	Line       int
}

type Options struct {
	// OmitDeprecated skips *_DISABLE_DEPRECATED guarded regions and
	// enumerations marked *_DEPRECATED_TYPE.
	OmitDeprecated bool
}

type State int

const (
	Scanning State = iota
	InComment
	InEnum
	AwaitingSemicolon
)

func (s State) String() string {
	switch s {
	case InComment:
		return "in-comment"
	case InEnum:
		return "in-enum"
	case AwaitingSemicolon:
		return "awaiting-semicolon"
	default:
		return "scanning"
	}
}

type Scanner struct {
	r    *bufio.Reader
	name string
	opts Options

	lineNo       int
	inEnum       bool
	inComment    bool
	inDeprecated int
	rbracketOnly bool
	pending      string
	startLine    int
	omitted      int
	body         strings.Builder
	raw          strings.Builder

	done bool
	err  error
}

// New returns a scanner over r. name is recorded in every Block; it is
// usually the header's path. To scan a file again, create a new Scanner.
func New(r io.Reader, name string, opts Options) *Scanner {
	return &Scanner{r: bufio.NewReader(r), name: name, opts: opts}
}

// Next returns the next complete enumeration. It returns false at the end of
// input; an enumeration still open at that point is dropped.
func (s *Scanner) Next() (Block, bool) {
	for !s.done {
		line, err := s.r.ReadString('\n')
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
			}
		}
		if line == "" {
			continue
		}
		s.lineNo++
		if b, ok := s.feed(line); ok {
			return b, true
		}
	}
	s.reset()
	return Block{}, false
}

// Err returns the first read error other than io.EOF.
func (s *Scanner) Err() error { return s.err }

// Omitted counts the enumerations dropped for being marked deprecated.
func (s *Scanner) Omitted() int { return s.omitted }

// State reports where the state machine currently is.
func (s *Scanner) State() State {
	switch {
	case s.inComment:
		return InComment
	case s.rbracketOnly:
		return AwaitingSemicolon
	case s.inEnum:
		return InEnum
	default:
		return Scanning
	}
}

// Collect drains the scanner.
func (s *Scanner) Collect() ([]Block, error) {
	var blocks []Block
	for {
		b, ok := s.Next()
		if !ok {
			return blocks, s.Err()
		}
		blocks = append(blocks, b)
	}
}

func (s *Scanner) feed(rawLine string) (Block, bool) {
	line := rawLine
	if s.inEnum {
		s.raw.WriteString(";; " + rawLine)
	}

	if s.inComment {
		if m := commentEnd.FindStringSubmatch(line); m != nil {
			s.inComment = false
			if s.inEnum {
				s.body.WriteString(m[1])
			}
		}
		return Block{}, false
	}

	if s.opts.OmitDeprecated && deprecateIfBegin.MatchString(line) {
		s.inDeprecated++
		return Block{}, false
	}
	if s.inDeprecated > 0 {
		if ifBegin.MatchString(line) {
			s.inDeprecated++
		} else if ifEnd.MatchString(line) {
			s.inDeprecated--
		}
		return Block{}, false
	}

	if ppDirective.MatchString(line) {
		return Block{}, false
	}

	line = singleLineComment.ReplaceAllString(line, "")
	line = lineComment.ReplaceAllString(line, "")

	if m := commentBegin.FindStringSubmatch(line); m != nil {
		s.inComment = true
		if s.inEnum {
			s.body.WriteString(m[1] + "\n")
		}
		return Block{}, false
	}

	line = strings.Replace(line, "','", CommaSentinel, 1)
	line = strings.Replace(line, "'}'", RBraceSentinel, 1)

	if enumBegin.MatchString(line) {
		brace := strings.Index(line, "{")
		if brace < 0 && strings.Contains(line, ";") {
			// typedef enum _Foo Foo; declares a name, there is no body.
			return Block{}, false
		}
		s.begin(rawLine)
		if brace < 0 {
			return Block{}, false
		}
		line = line[brace+1:]
	}

	if s.rbracketOnly {
		if strings.Contains(line, ";") {
			return s.finish(s.pending + " " + line)
		}
		return Block{}, false
	}

	if !s.inEnum {
		return Block{}, false
	}
	if i := strings.Index(line, "}"); i >= 0 {
		s.body.WriteString(line[:i])
		tail := line[i:]
		if strings.Contains(tail, ";") {
			return s.finish(tail)
		}
		// The name is expected on the line holding the semicolon.
		s.rbracketOnly = true
		s.pending = strings.TrimSpace(tail)
		return Block{}, false
	}
	s.body.WriteString(line)
	return Block{}, false
}

func (s *Scanner) begin(rawLine string) {
	s.reset()
	s.inEnum = true
	s.startLine = s.lineNo
	s.raw.WriteString(";; " + rawLine)
}

func (s *Scanner) finish(trailing string) (Block, bool) {
	trailing = strings.TrimSpace(trailing)
	b := Block{
		Body:       s.body.String(),
		Trailing:   trailing,
		Raw:        s.raw.String(),
		Deprecated: deprecatedType.MatchString(trailing),
		File:       s.name,
		Line:       s.startLine,
	}
	s.reset()
	if s.opts.OmitDeprecated && b.Deprecated {
		s.omitted++
		return Block{}, false
	}
	return b, true
}

func (s *Scanner) reset() {
	s.inEnum = false
	s.rbracketOnly = false
	s.pending = ""
	s.body.Reset()
	s.raw.Reset()
}

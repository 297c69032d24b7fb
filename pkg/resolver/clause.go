package resolver

import (
	"regexp"
	"strings"
)

var (
	extractEnumName      = regexp.MustCompile(`^.*?(\w+)`)
	whiteSpaces          = regexp.MustCompile(`\s+`)
	singleLineComment    = regexp.MustCompile(`/\*.*?\*/`)
	openingBracket       = regexp.MustCompile(`\s*\{\s*`)
	deprecatedEnumerator = regexp.MustCompile(`[A-Z]+_DEPRECATED_ENUMERATOR`)
	depOrAvailEnumerator = regexp.MustCompile(`^\s*(\w+)\s+\w+?_(?:DEPRECATED|AVAILABLE)_ENUMERATOR\w*(?:\s*\(.*?\))?`)
	parenthesisValue     = regexp.MustCompile(`^\s*\S+\s*=\s*'[()]'\s*$`)
	clauseName           = regexp.MustCompile(`^(\w+)\s*=?\s*`)
)

// Clause is one enumerator of a body, after splitting on top-level commas.
type Clause struct {
	// Text is the enumerator with availability markers and backslashes
	// removed and surrounding space trimmed.
	Text string
	Name string
	// Expr is whatever follows the name (and the '=' if there is one).
	Expr string
	// Deprecated is set when the enumerator carried a *_DEPRECATED_ENUMERATOR marker.
	Deprecated bool
	// Last is set for the final piece of the body. An empty last clause is
	// what a trailing comma leaves behind.
	Last bool
}

// TypeName returns the typedef name from the text following the closing
// brace: the first word, ignoring any *_DEPRECATED_TYPE or *_AVAILABLE_TYPE
// marker after it.
func TypeName(trailing string) string {
	if m := extractEnumName.FindStringSubmatch(trailing); m != nil {
		return m[1]
	}
	return trailing
}

// NormalizeBody collapses whitespace, drops leftover comments and removes the
// opening brace.
func NormalizeBody(body string) string {
	body = whiteSpaces.ReplaceAllString(body, " ")
	body = singleLineComment.ReplaceAllString(body, "")
	if loc := openingBracket.FindStringIndex(body); loc != nil {
		body = body[:loc[0]] + body[loc[1]:]
	}
	return body
}

// SplitClauses splits a normalized body into enumerators. Commas inside
// parentheses do not split, so FOO = MACRO(a, b) stays whole; a value that
// is itself the character '(' or ')' is never merged with its neighbours.
func SplitClauses(body string) []Clause {
	pieces := strings.Split(body, ",")
	var clauses []Clause
	for iter := 0; iter < len(pieces); {
		deprecated := deprecatedEnumerator.MatchString(pieces[iter])
		pieces[iter] = depOrAvailEnumerator.ReplaceAllString(pieces[iter], "$1")

		begin := iter
		if parenthesisValue.MatchString(pieces[iter]) {
			iter++
		} else {
			depth := 0
			for first := true; first || (iter < len(pieces) && depth > 0); first = false {
				depth += strings.Count(pieces[iter], "(") - strings.Count(pieces[iter], ")")
				iter++
			}
		}

		text := strings.TrimSpace(strings.Join(pieces[begin:iter], ","))
		text = strings.ReplaceAll(text, `\`, "")
		clauses = append(clauses, newClause(text, deprecated, iter == len(pieces)))
	}
	return clauses
}

func newClause(text string, deprecated, last bool) Clause {
	c := Clause{Text: text, Deprecated: deprecated, Last: last}
	if loc := clauseName.FindStringSubmatchIndex(text); loc != nil {
		c.Name = text[loc[2]:loc[3]]
		c.Expr = strings.TrimSpace(text[loc[1]:])
	}
	return c
}

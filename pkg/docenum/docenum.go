// Package docenum maps enumerator names to the enumeration type that declares
// them. Documentation tools use it to link a constant back to its type.
package docenum

import (
	"fmt"
	"io"
	"os"

	"github.com/xplshn/enumdefs/pkg/resolver"
	"github.com/xplshn/enumdefs/pkg/scanner"
)

// ParseFile adds every enumerator found in r to into, keyed by enumerator name
// with the type name as value. A name seen again is rebound to the later type.
// With opts.OmitDeprecated, deprecated types and enumerators are left out.
func ParseFile(r io.Reader, name string, into map[string]string, opts scanner.Options) error {
	sc := scanner.New(r, name, opts)
	for {
		b, ok := sc.Next()
		if !ok {
			break
		}
		typeName := resolver.TypeName(b.Trailing)
		for _, cl := range resolver.SplitClauses(resolver.NormalizeBody(b.Body)) {
			if cl.Deprecated && opts.OmitDeprecated {
				continue
			}
			if cl.Name != "" {
				into[cl.Name] = typeName
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ParsePaths runs ParseFile over each path. It keeps going after a file fails
// and returns the errors of every file that could not be read.
func ParsePaths(paths []string, into map[string]string, opts scanner.Options) []error {
	var errs []error
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		err = ParseFile(f, path, into, opts)
		f.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

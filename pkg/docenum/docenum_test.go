package docenum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xplshn/enumdefs/pkg/scanner"
)

const header = `typedef enum
{
  GM_ALIGN_START,
  GM_ALIGN_END GM_DEPRECATED_ENUMERATOR_IN_2_0_FOR(GM_ALIGN_START),
  GM_ALIGN_MIX = MAKE(1, 2)
} GmAlign;

typedef enum { GM_OLD_A } GmOld GM_DEPRECATED_TYPE;
`

func TestParseFile(t *testing.T) {
	got := map[string]string{}
	require.NoError(t, ParseFile(strings.NewReader(header), "gm.h", got, scanner.Options{}))
	assert.Equal(t, map[string]string{
		"GM_ALIGN_START": "GmAlign",
		"GM_ALIGN_END":   "GmAlign",
		"GM_ALIGN_MIX":   "GmAlign",
		"GM_OLD_A":       "GmOld",
	}, got)
}

func TestParseFileOmitDeprecated(t *testing.T) {
	got := map[string]string{}
	require.NoError(t, ParseFile(strings.NewReader(header), "gm.h", got, scanner.Options{OmitDeprecated: true}))
	assert.Equal(t, map[string]string{
		"GM_ALIGN_START": "GmAlign",
		"GM_ALIGN_MIX":   "GmAlign",
	}, got)
}

func TestParsePaths(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.h")
	second := filepath.Join(dir, "b.h")
	require.NoError(t, os.WriteFile(first, []byte("typedef enum { GM_X } GmFirst;\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("typedef enum { GM_X, GM_Y } GmSecond;\n"), 0o644))

	got := map[string]string{}
	errs := ParsePaths([]string{first, filepath.Join(dir, "missing.h"), second}, got, scanner.Options{})
	assert.Len(t, errs, 1)
	assert.Equal(t, map[string]string{"GM_X": "GmSecond", "GM_Y": "GmSecond"}, got)
}

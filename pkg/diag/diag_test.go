package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xplshn/enumdefs/pkg/config"
)

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewConfig()
	rep := NewReporter(&buf, "enumextract", cfg)

	printed := rep.Warn(config.WarnUnparsed, Pos{File: "gm.h", Line: 12}, "cannot parse '%s'", "X = ?")
	assert.True(t, printed)
	assert.Equal(t, "gm.h:12: warning: cannot parse 'X = ?' [-Wunparsed]\n", buf.String())

	buf.Reset()
	assert.False(t, rep.Warn(config.WarnExtra, Pos{}, "hidden"), "extra is off by default")
	assert.Empty(t, buf.String())
	assert.Equal(t, 1, rep.Warnings())
}

func TestNoteOnce(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf, "enumextract", nil)
	rep.NoteOnce("k", "first", "second")
	rep.NoteOnce("k", "first", "second")
	assert.Equal(t, "note: first\n  second\n", buf.String())
}

func TestErrorAndInfo(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.NewConfig()
	rep := NewReporter(&buf, "enumextract", cfg)

	rep.Error(Pos{File: "missing.h"}, "no such file")
	rep.Infof("not shown")
	cfg.Verbose = true
	rep.Infof("%d records", 3)

	assert.Equal(t, "missing.h: error: no such file\nenumextract: info: 3 records\n", buf.String())
	assert.Equal(t, 1, rep.Errors())
}

func TestPosString(t *testing.T) {
	assert.Equal(t, "", Pos{}.String())
	assert.Equal(t, "a.h: ", Pos{File: "a.h"}.String())
	assert.Equal(t, "a.h:3: ", Pos{File: "a.h", Line: 3}.String())
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/wesm/msgsearch/internal/testutil"
)

// newTestHome builds an index in a temporary home directory and returns the
// directory. The index holds two threads:
//
//	t1: m1 Alice -> Bob, Alice "Hello" [inbox]
//	    m2 Bob -> Alice, cc Team: carol "Re: Hello" [inbox unread]
//	t2: m3 Spammer "Win" [spam]
func newTestHome(t *testing.T) string {
	t.Helper()
	base := testutil.BaseDate
	path := testutil.NewTestIndex(t,
		testutil.NewMessage("m1@x", "t1").
			WithFrom("Alice <alice@example.com>").
			WithTo("Bob <bob@example.com>, Alice <alice@example.com>").
			WithSubject("Hello").WithTags("inbox").WithDate(base),
		testutil.NewMessage("m2@x", "t1").
			WithFrom("Bob <bob@example.com>").
			WithTo("Alice <alice@example.com>").
			WithCc("Team: carol@example.com;").
			WithSubject("Re: Hello").WithTags("inbox", "unread").WithDate(base.Add(time.Hour)),
		testutil.NewMessage("m3@x", "t2").
			WithFrom("Spammer <win@spam.example>").
			WithSubject("Win").WithTags("spam").WithDate(base.Add(2*time.Hour)),
	)
	return filepath.Dir(path)
}

// runCmd executes a fresh root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

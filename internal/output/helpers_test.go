package output

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/sprinter"
)

// testNow is the reference time for relative dates in tests.
var testNow = time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)

// recordingPrinter logs every printer call as a short string.
type recordingPrinter struct {
	calls []string
	text  bool
}

func (p *recordingPrinter) BeginMap()          { p.calls = append(p.calls, "{") }
func (p *recordingPrinter) BeginList()         { p.calls = append(p.calls, "[") }
func (p *recordingPrinter) End()               { p.calls = append(p.calls, "end") }
func (p *recordingPrinter) String(s string)    { p.calls = append(p.calls, "s:"+s) }
func (p *recordingPrinter) Integer(n int64)    { p.calls = append(p.calls, fmt.Sprintf("i:%d", n)) }
func (p *recordingPrinter) Bool(b bool)        { p.calls = append(p.calls, fmt.Sprintf("b:%v", b)) }
func (p *recordingPrinter) Null()              { p.calls = append(p.calls, "null") }
func (p *recordingPrinter) MapKey(k string)    { p.calls = append(p.calls, "k:"+k) }
func (p *recordingPrinter) Separator()         { p.calls = append(p.calls, "sep") }
func (p *recordingPrinter) SetPrefix(n string) { p.calls = append(p.calls, "prefix:"+n) }
func (p *recordingPrinter) IsText() bool       { return p.text }
func (p *recordingPrinter) Flush() error       { return nil }

var _ sprinter.Printer = (*recordingPrinter)(nil)

// newTestContext returns a validated-default context over src writing to p.
func newTestContext(src query.Source, p sprinter.Printer) *Context {
	c := NewContext()
	c.Source = src
	c.Printer = p
	c.Now = func() time.Time { return testNow }
	c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return c
}

// runFormatted runs c with a real printer of the given format and returns
// the output.
func runFormatted(t *testing.T, c *Context, f sprinter.Format) string {
	t.Helper()
	var buf bytes.Buffer
	p, err := sprinter.New(f, &buf)
	if err != nil {
		t.Fatalf("sprinter.New: %v", err)
	}
	c.Format = f
	c.Printer = p
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := c.Run(t.Context()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

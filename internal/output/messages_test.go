package output

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/query/querytest"
	"github.com/wesm/msgsearch/internal/sprinter"
)

func TestSelectDuplicate(t *testing.T) {
	for files := 0; files <= 4; files++ {
		for _, dupe := range []int{-1, 1, 2, 3, 4, 5} {
			var selected []int
			for pos := 1; pos <= files; pos++ {
				if SelectDuplicate(dupe, pos) {
					selected = append(selected, pos)
				}
			}

			var want []int
			switch {
			case dupe < 0:
				for pos := 1; pos <= files; pos++ {
					want = append(want, pos)
				}
			case dupe <= files:
				want = []int{dupe}
			}
			if diff := cmp.Diff(want, selected); diff != "" {
				t.Errorf("files=%d dupe=%d (-want +got):\n%s", files, dupe, diff)
			}
		}
	}
}

func filesSource() *querytest.MockSource {
	return &querytest.MockSource{Messages: []*query.Message{
		querytest.NewMessage("one@x", nil, "/m/one"),
		querytest.NewMessage("three@x", nil, "/m/three.1", "/m/three.2", "/m/three.3"),
		querytest.NewMessage("two@x", nil, "/m/two.1", "/m/two.2"),
	}}
}

func TestSearchMessagesFiles(t *testing.T) {
	tests := []struct {
		name string
		dupe int
		want string
	}{
		{"all", -1, "/m/one\n/m/three.1\n/m/three.2\n/m/three.3\n/m/two.1\n/m/two.2\n"},
		{"first", 1, "/m/one\n/m/three.1\n/m/two.1\n"},
		{"second", 2, "/m/three.2\n/m/two.2\n"},
		{"third", 3, "/m/three.3\n"},
		{"past every message", 4, ""},
		{"zero selects none", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(filesSource(), nil)
			c.Output = OutputFiles
			c.Dupe = tt.dupe

			got := runFormatted(t, c, sprinter.FormatText)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchMessagesIDs(t *testing.T) {
	tests := []struct {
		name string
		dupe int
		want string
	}{
		{"all", -1, "id:one@x\nid:three@x\nid:two@x\n"},
		{"first always printed", 1, "id:one@x\nid:three@x\nid:two@x\n"},
		{"needs two files", 2, "id:three@x\nid:two@x\n"},
		{"needs three files", 3, "id:three@x\n"},
		{"needs four files", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(filesSource(), nil)
			c.Output = OutputMessages
			c.Dupe = tt.dupe

			got := runFormatted(t, c, sprinter.FormatText)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSearchMessagesIDsSkipFileCount(t *testing.T) {
	msg := querytest.NewMessage("a@x", nil)
	msg.LoadFilenames = func(context.Context) (query.Cursor[string], error) {
		t.Error("filenames loaded although no duplicate position above 1 was requested")
		return query.NewSliceCursor[string](nil), nil
	}
	src := &querytest.MockSource{Messages: []*query.Message{msg}}

	for _, dupe := range []int{-1, 1} {
		c := newTestContext(src, nil)
		c.Output = OutputMessages
		c.Dupe = dupe
		if got := runFormatted(t, c, sprinter.FormatText); got != "id:a@x\n" {
			t.Errorf("dupe=%d: output = %q", dupe, got)
		}
	}
}

func TestSearchMessagesText0(t *testing.T) {
	c := newTestContext(filesSource(), nil)
	c.Output = OutputMessages

	got := runFormatted(t, c, sprinter.FormatText0)
	if diff := cmp.Diff("id:one@x\x00id:three@x\x00id:two@x\x00", got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchMessagesWindow(t *testing.T) {
	src := filesSource()
	p := &recordingPrinter{text: true}
	c := newTestContext(src, p)
	c.Output = OutputMessages
	c.Window = Window{Offset: -1, Limit: 5}

	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"[", "prefix:id", "s:two@x", "sep", "end"}
	if diff := cmp.Diff(want, p.calls); diff != "" {
		t.Errorf("printer calls mismatch (-want +got):\n%s", diff)
	}
	for _, m := range src.Messages {
		if !m.Closed() {
			t.Errorf("message %s not closed", m.ID)
		}
	}
	if !src.MessageCursor.Closed() {
		t.Error("message cursor not closed")
	}
	if src.CountCalls != 1 {
		t.Errorf("CountCalls = %d, want 1", src.CountCalls)
	}
}

func TestSearchMessagesFilenameError(t *testing.T) {
	errFiles := errors.New("filenames unavailable")
	msg := querytest.NewMessage("a@x", nil)
	msg.LoadFilenames = func(context.Context) (query.Cursor[string], error) {
		return nil, errFiles
	}
	c := newTestContext(&querytest.MockSource{Messages: []*query.Message{msg}}, &recordingPrinter{})
	c.Output = OutputFiles

	if err := c.Run(context.Background()); !errors.Is(err, errFiles) {
		t.Errorf("err = %v, want %v", err, errFiles)
	}
	if !msg.Closed() {
		t.Error("message not closed after error")
	}
}

func TestSearchMessagesCountError(t *testing.T) {
	errCount := errors.New("count failed")
	src := &querytest.MockSource{
		CountMessagesFunc: func(context.Context) (int, error) { return 0, errCount },
	}
	p := &recordingPrinter{}
	c := newTestContext(src, p)
	c.Output = OutputMessages
	c.Window.Offset = -3

	if err := c.Run(context.Background()); !errors.Is(err, errCount) {
		t.Errorf("err = %v, want %v", err, errCount)
	}
	if len(p.calls) != 0 {
		t.Errorf("printer called %v before failing", p.calls)
	}
}

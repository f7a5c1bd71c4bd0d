package output

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/wesm/msgsearch/internal/query"
	"github.com/wesm/msgsearch/internal/query/querytest"
	"github.com/wesm/msgsearch/internal/sprinter"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(c *Context)
		wantErr     error
		wantOutput  Output
		wantExclude query.Exclude
	}{
		{
			name:        "defaults",
			setup:       func(c *Context) {},
			wantOutput:  OutputSummary,
			wantExclude: query.ExcludeTrue,
		},
		{
			name:    "text0 with summary",
			setup:   func(c *Context) { c.Format = sprinter.FormatText0 },
			wantErr: ErrIncompatibleOptions,
		},
		{
			name: "text0 with threads",
			setup: func(c *Context) {
				c.Format = sprinter.FormatText0
				c.Output = OutputThreads
			},
			wantOutput:  OutputThreads,
			wantExclude: query.ExcludeTrue,
		},
		{
			name:    "duplicate with summary",
			setup:   func(c *Context) { c.Dupe = 2 },
			wantErr: ErrIncompatibleOptions,
		},
		{
			name: "duplicate with tags",
			setup: func(c *Context) {
				c.Output = OutputTags
				c.Dupe = 1
			},
			wantErr: ErrIncompatibleOptions,
		},
		{
			name: "duplicate with files",
			setup: func(c *Context) {
				c.Output = OutputFiles
				c.Dupe = 2
			},
			wantOutput:  OutputFiles,
			wantExclude: query.ExcludeTrue,
		},
		{
			name: "exclude flag falls back",
			setup: func(c *Context) {
				c.Output = OutputMessages
				c.Exclude = query.ExcludeFlag
			},
			wantOutput:  OutputMessages,
			wantExclude: query.ExcludeFalse,
		},
		{
			name:        "exclude flag kept for summary",
			setup:       func(c *Context) { c.Exclude = query.ExcludeFlag },
			wantOutput:  OutputSummary,
			wantExclude: query.ExcludeFlag,
		},
		{
			name:        "count implies sender",
			setup:       func(c *Context) { c.Output = OutputCount },
			wantOutput:  OutputSender | OutputCount,
			wantExclude: query.ExcludeTrue,
		},
		{
			name:        "recipients alone",
			setup:       func(c *Context) { c.Output = OutputRecipients },
			wantOutput:  OutputRecipients,
			wantExclude: query.ExcludeTrue,
		},
		{
			name:    "format version too new",
			setup:   func(c *Context) { c.FormatVersion = CurrentFormatVersion + 1 },
			wantErr: ErrFormatVersion,
		},
		{
			name:    "format version too old",
			setup:   func(c *Context) { c.FormatVersion = 0 },
			wantErr: ErrFormatVersion,
		},
		{
			name:    "no output",
			setup:   func(c *Context) { c.Output = 0 },
			wantErr: ErrIncompatibleOptions,
		},
		{
			name:    "search and address mixed",
			setup:   func(c *Context) { c.Output = OutputFiles | OutputSender },
			wantErr: ErrIncompatibleOptions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(nil, nil)
			tt.setup(c)

			err := c.Validate()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if c.Output != tt.wantOutput {
				t.Errorf("Output = %v, want %v", c.Output, tt.wantOutput)
			}
			if c.Exclude != tt.wantExclude {
				t.Errorf("Exclude = %v, want %v", c.Exclude, tt.wantExclude)
			}
		})
	}
}

func TestValidateWarnsOnExcludeFlag(t *testing.T) {
	var logs bytes.Buffer
	c := newTestContext(nil, nil)
	c.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	c.Output = OutputFiles
	c.Exclude = query.ExcludeFlag

	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "cannot flag excluded messages") {
		t.Errorf("missing warning, log was %q", logs.String())
	}
}

func TestRunWithoutSource(t *testing.T) {
	c := newTestContext(nil, &recordingPrinter{})
	if err := c.Run(t.Context()); err == nil {
		t.Error("Run without a source should fail")
	}
}

func TestRunDispatch(t *testing.T) {
	tests := []struct {
		output Output
		want   string
	}{
		{OutputThreads, "[ prefix:thread s:t1 sep end"},
		{OutputMessages, "[ prefix:id s:m@x sep end"},
		{OutputFiles, "[ s:/m/1 sep end"},
		{OutputTags, "[ s:inbox sep end"},
		{OutputSender, "[ s:a@x sep end"},
	}

	for _, tt := range tests {
		t.Run(tt.output.String(), func(t *testing.T) {
			src := &querytest.MockSource{
				Query:       "tag:inbox",
				Threads:     threadsWithSizes(1),
				Messages:    []*query.Message{querytest.NewMessage("m@x", map[string]string{"from": "a@x"}, "/m/1")},
				MatchedTags: []string{"inbox"},
			}
			p := &recordingPrinter{text: true}
			c := newTestContext(src, p)
			c.Output = tt.output

			if err := c.Run(t.Context()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := strings.Join(p.calls, " "); got != tt.want {
				t.Errorf("calls = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseOutputs(t *testing.T) {
	for _, name := range []string{"summary", "threads", "messages", "files", "tags"} {
		o, err := ParseSearchOutput(name)
		if err != nil || o.String() != name {
			t.Errorf("ParseSearchOutput(%q) = %v, %v", name, o, err)
		}
	}
	if _, err := ParseSearchOutput("sender"); err == nil {
		t.Error("ParseSearchOutput(sender) should fail")
	}

	o, err := ParseAddressOutput([]string{"sender,count", "recipients"})
	if err != nil {
		t.Fatal(err)
	}
	if o != OutputSender|OutputRecipients|OutputCount {
		t.Errorf("ParseAddressOutput = %v", o)
	}
	if _, err := ParseAddressOutput([]string{"files"}); err == nil {
		t.Error("ParseAddressOutput(files) should fail")
	}
}

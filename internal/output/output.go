// Package output turns query results into printer calls. It implements the
// search and address commands' result pipeline: offset/limit windowing,
// thread summaries with reconstructed sub-queries, message and file listing
// with duplicate-position filtering, address extraction with deduplication,
// and tag collection.
package output

import (
	"errors"
	"fmt"
	"strings"
)

// Format versions of the structured output. The "query" key of thread
// summaries first appeared in version 2.
const (
	CurrentFormatVersion = 2
	MinFormatVersion     = 1
)

var (
	// ErrIncompatibleOptions reports an option combination rejected before
	// any query runs.
	ErrIncompatibleOptions = errors.New("incompatible options")

	// ErrFormatVersion reports a requested format version outside the
	// supported range.
	ErrFormatVersion = errors.New("unsupported format version")

	// ErrThreadQuery reports a failure rebuilding a thread's sub-queries.
	// It aborts the whole pass.
	ErrThreadQuery = errors.New("build thread query")
)

// Output selects what a pass prints. Search modes are mutually exclusive;
// the address bits combine.
type Output uint

const (
	OutputSummary Output = 1 << iota
	OutputThreads
	OutputMessages
	OutputFiles
	OutputTags

	OutputSender
	OutputRecipients
	OutputCount
)

const addressOutputs = OutputSender | OutputRecipients | OutputCount

var outputNames = []struct {
	bit  Output
	name string
}{
	{OutputSummary, "summary"},
	{OutputThreads, "threads"},
	{OutputMessages, "messages"},
	{OutputFiles, "files"},
	{OutputTags, "tags"},
	{OutputSender, "sender"},
	{OutputRecipients, "recipients"},
	{OutputCount, "count"},
}

// IsAddress reports whether o selects address extraction.
func (o Output) IsAddress() bool {
	return o&addressOutputs != 0
}

func (o Output) String() string {
	var names []string
	for _, n := range outputNames {
		if o&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseSearchOutput parses one of summary, threads, messages, files or tags.
func ParseSearchOutput(s string) (Output, error) {
	for _, n := range outputNames {
		if n.name == s && n.bit&addressOutputs == 0 {
			return n.bit, nil
		}
	}
	return 0, fmt.Errorf("unknown output %q (want summary, threads, messages, files or tags)", s)
}

// ParseAddressOutput combines sender, recipients and count keywords. Each
// value may itself be a comma-separated list.
func ParseAddressOutput(values []string) (Output, error) {
	var o Output
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			found := false
			for _, n := range outputNames {
				if n.name == name && n.bit&addressOutputs != 0 {
					o |= n.bit
					found = true
					break
				}
			}
			if !found {
				return 0, fmt.Errorf("unknown output %q (want sender, recipients or count)", name)
			}
		}
	}
	return o, nil
}

// Package sprinter writes structured search results. One Printer interface
// covers four closed variants: JSON, S-expressions, line text and
// NUL-separated text. Callers describe values (maps, lists, strings,
// integers) and the variant decides the syntax; the text variants drop the
// structure and print only the leaf values.
package sprinter

import (
	"bufio"
	"fmt"
	"io"
)

// Printer is a streaming structured-output writer.
type Printer interface {
	// BeginMap and BeginList open an aggregate; End closes the innermost one.
	BeginMap()
	BeginList()
	End()

	String(s string)
	Integer(n int64)
	Bool(b bool)
	Null()

	// MapKey emits the key of the next map entry.
	MapKey(key string)

	// Separator marks a record boundary. Structured variants use it only
	// for line breaks; text variants terminate the record.
	Separator()

	// SetPrefix sets a label that text variants print before the next
	// string ("id:<value>"). Structured variants ignore it.
	SetPrefix(name string)

	// IsText reports whether the printer renders plain text, in which case
	// callers may choose a dedicated one-line layout.
	IsText() bool

	// Flush writes buffered output and returns the first write error.
	Flush() error
}

// Format names a Printer variant.
type Format int

const (
	FormatText Format = iota
	FormatText0
	FormatJSON
	FormatSexp
)

var formatNames = []string{
	FormatText:  "text",
	FormatText0: "text0",
	FormatJSON:  "json",
	FormatSexp:  "sexp",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses one of json, sexp, text or text0.
func ParseFormat(s string) (Format, error) {
	for i, name := range formatNames {
		if name == s {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown format %q (want json, sexp, text or text0)", s)
}

// New returns a Printer of the given format writing to w.
func New(f Format, w io.Writer) (Printer, error) {
	out := &output{w: bufio.NewWriter(w)}
	switch f {
	case FormatText:
		return &textPrinter{output: out, separator: '\n'}, nil
	case FormatText0:
		return &textPrinter{output: out, separator: 0}, nil
	case FormatJSON:
		return &jsonPrinter{output: out}, nil
	case FormatSexp:
		return &sexpPrinter{output: out}, nil
	}
	return nil, fmt.Errorf("unknown format %v", f)
}

// output is a buffered writer that remembers the first error so printing
// methods need not return one.
type output struct {
	w   *bufio.Writer
	err error
}

func (o *output) writeString(s string) {
	if o.err != nil {
		return
	}
	_, o.err = o.w.WriteString(s)
}

func (o *output) writeByte(b byte) {
	if o.err != nil {
		return
	}
	o.err = o.w.WriteByte(b)
}

func (o *output) Flush() error {
	if o.err != nil {
		return o.err
	}
	return o.w.Flush()
}

// aggregate tracks one open map or list for the structured variants.
type aggregate struct {
	first bool
	close byte
}

// nesting is the aggregate stack shared by the structured variants.
type nesting struct {
	stack []aggregate
	// breakLine is set by Separator: the next value starts on a new line.
	breakLine bool
}

func (n *nesting) push(close byte) {
	n.stack = append(n.stack, aggregate{first: true, close: close})
}

// pop removes the innermost aggregate and returns its closing byte and
// whether the stack is now empty.
func (n *nesting) pop() (byte, bool) {
	if len(n.stack) == 0 {
		return 0, true
	}
	top := n.stack[len(n.stack)-1]
	n.stack = n.stack[:len(n.stack)-1]
	return top.close, len(n.stack) == 0
}

// next reports whether a value about to be written needs a delimiter in
// front of it, and if so whether that delimiter should end the line.
func (n *nesting) next() (delimit, newline bool) {
	if len(n.stack) == 0 {
		return false, false
	}
	top := &n.stack[len(n.stack)-1]
	if top.first {
		top.first = false
		return false, false
	}
	newline = n.breakLine
	n.breakLine = false
	return true, newline
}

// keyWritten makes the value after a map key follow it without a delimiter.
func (n *nesting) keyWritten() {
	if len(n.stack) > 0 {
		n.stack[len(n.stack)-1].first = true
	}
}

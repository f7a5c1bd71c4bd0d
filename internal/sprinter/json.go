package sprinter

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type jsonPrinter struct {
	*output
	nesting
}

func (p *jsonPrinter) beginValue() {
	delimit, newline := p.next()
	if !delimit {
		return
	}
	p.writeByte(',')
	if newline {
		p.writeByte('\n')
	} else {
		p.writeByte(' ')
	}
}

func (p *jsonPrinter) BeginMap() {
	p.beginValue()
	p.writeByte('{')
	p.push('}')
}

func (p *jsonPrinter) BeginList() {
	p.beginValue()
	p.writeByte('[')
	p.push(']')
}

func (p *jsonPrinter) End() {
	closeByte, outermost := p.pop()
	if closeByte != 0 {
		p.writeByte(closeByte)
	}
	if outermost {
		p.writeByte('\n')
	}
}

func (p *jsonPrinter) String(s string) {
	p.beginValue()
	p.writeString(quoteJSON(s))
}

func (p *jsonPrinter) Integer(n int64) {
	p.beginValue()
	p.writeString(strconv.FormatInt(n, 10))
}

func (p *jsonPrinter) Bool(b bool) {
	p.beginValue()
	p.writeString(strconv.FormatBool(b))
}

func (p *jsonPrinter) Null() {
	p.beginValue()
	p.writeString("null")
}

func (p *jsonPrinter) MapKey(key string) {
	p.beginValue()
	p.writeString(quoteJSON(key))
	p.writeString(": ")
	p.keyWritten()
}

func (p *jsonPrinter) Separator()       { p.breakLine = true }
func (p *jsonPrinter) SetPrefix(string) {}
func (p *jsonPrinter) IsText() bool     { return false }

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a string cannot fail; keep output well-formed anyway.
		return `""`
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

package sprinter

import (
	"strconv"
	"strings"
)

// sexpPrinter writes lists as (a b c) and maps as property lists
// (:key value ...). Null and false are both nil.
type sexpPrinter struct {
	*output
	nesting
}

func (p *sexpPrinter) beginValue() {
	delimit, newline := p.next()
	if !delimit {
		return
	}
	if newline {
		p.writeByte('\n')
	} else {
		p.writeByte(' ')
	}
}

func (p *sexpPrinter) BeginMap() {
	p.beginValue()
	p.writeByte('(')
	p.push(')')
}

func (p *sexpPrinter) BeginList() {
	p.beginValue()
	p.writeByte('(')
	p.push(')')
}

func (p *sexpPrinter) End() {
	closeByte, outermost := p.pop()
	if closeByte != 0 {
		p.writeByte(closeByte)
	}
	if outermost {
		p.writeByte('\n')
	}
}

func (p *sexpPrinter) String(s string) {
	p.beginValue()
	p.writeString(quoteSexp(s))
}

func (p *sexpPrinter) Integer(n int64) {
	p.beginValue()
	p.writeString(strconv.FormatInt(n, 10))
}

func (p *sexpPrinter) Bool(b bool) {
	p.beginValue()
	if b {
		p.writeByte('t')
	} else {
		p.writeString("nil")
	}
}

func (p *sexpPrinter) Null() {
	p.beginValue()
	p.writeString("nil")
}

func (p *sexpPrinter) MapKey(key string) {
	p.beginValue()
	p.writeByte(':')
	p.writeString(key)
}

func (p *sexpPrinter) Separator()       { p.breakLine = true }
func (p *sexpPrinter) SetPrefix(string) {}
func (p *sexpPrinter) IsText() bool     { return false }

var sexpEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteSexp(s string) string {
	return `"` + sexpEscaper.Replace(s) + `"`
}

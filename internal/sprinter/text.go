package sprinter

import "strconv"

// textPrinter prints leaf values only. Aggregates, keys and nulls produce no
// output; each record ends with the separator byte.
type textPrinter struct {
	*output
	separator byte
	prefix    string
}

func (p *textPrinter) BeginMap()     {}
func (p *textPrinter) BeginList()    {}
func (p *textPrinter) End()          {}
func (p *textPrinter) Null()         {}
func (p *textPrinter) MapKey(string) {}
func (p *textPrinter) IsText() bool  { return true }

func (p *textPrinter) String(s string) {
	if p.prefix != "" {
		p.writeString(p.prefix)
		p.writeByte(':')
	}
	p.writeString(s)
}

func (p *textPrinter) Integer(n int64) {
	p.writeString(strconv.FormatInt(n, 10))
}

func (p *textPrinter) Bool(b bool) {
	p.writeString(strconv.FormatBool(b))
}

func (p *textPrinter) Separator() {
	p.prefix = ""
	p.writeByte(p.separator)
}

func (p *textPrinter) SetPrefix(name string) { p.prefix = name }

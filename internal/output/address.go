package output

import (
	"strings"
	"unicode/utf8"

	// Registers charset decoders for RFC 2047 encoded display names.
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/wesm/msgsearch/internal/sprinter"
)

// Mailbox is one extracted address with the number of times it was seen.
type Mailbox struct {
	Name    string
	Address string
	Count   int
}

// Key is the deduplication key. Two mailboxes are the same only if name and
// address match exactly.
func (m Mailbox) Key() string {
	return m.Name + " <" + m.Address + ">"
}

// NameAddr renders the mailbox as it would appear in a header, quoting the
// display name when it is not a plain phrase: John Doe <john@doe.com> but
// "Doe, John" <john@doe.com>. A mailbox without a name renders as the bare
// address.
func (m Mailbox) NameAddr() string {
	if m.Name == "" {
		return m.Address
	}
	name := m.Name
	if !isPhrase(name) {
		name = quoteName(name)
	}
	return name + " <" + m.Address + ">"
}

// Addresses deduplicates mailboxes across the headers of one pass and
// prints each distinct mailbox once.
type Addresses struct {
	printer   sprinter.Printer
	countOnly bool
	seen      map[string]*Mailbox
	order     []*Mailbox
}

// NewAddresses returns an empty extractor printing to p. With countOnly set
// nothing is printed until Flush.
func NewAddresses(p sprinter.Printer, countOnly bool) *Addresses {
	return &Addresses{
		printer:   p,
		countOnly: countOnly,
		seen:      make(map[string]*Mailbox),
	}
}

// ProcessHeader extracts every mailbox from a raw address header value,
// descending into groups. Empty and unparsable values are ignored.
func (a *Addresses) ProcessHeader(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	a.processList(parseAddressList(value))
}

func (a *Addresses) processList(entries []addressEntry) {
	for _, e := range entries {
		if e.group {
			a.processList(e.members)
			continue
		}
		if a.duplicate(e.name, e.address) || a.countOnly {
			continue
		}
		a.print(Mailbox{Name: e.name, Address: e.address})
	}
}

// duplicate records a sighting of name/address and reports whether it had
// been seen before.
func (a *Addresses) duplicate(name, address string) bool {
	m := Mailbox{Name: name, Address: address, Count: 1}
	if prev, ok := a.seen[m.Key()]; ok {
		prev.Count++
		return true
	}
	a.seen[m.Key()] = &m
	a.order = append(a.order, &m)
	return false
}

// Flush prints every mailbox seen so far with its occurrence count, in the
// order they were first seen.
func (a *Addresses) Flush() {
	for _, m := range a.order {
		a.print(*m)
	}
}

// Mailboxes returns a copy of the accumulated mailboxes in first-seen order.
func (a *Addresses) Mailboxes() []Mailbox {
	out := make([]Mailbox, len(a.order))
	for i, m := range a.order {
		out[i] = *m
	}
	return out
}

// print writes one mailbox. A zero Count is left out.
func (a *Addresses) print(m Mailbox) {
	p := a.printer
	if p.IsText() {
		if m.Count > 0 {
			p.Integer(int64(m.Count))
			p.String("\t")
		}
		p.String(m.NameAddr())
		p.Separator()
		return
	}

	p.BeginMap()
	p.MapKey("name")
	p.String(m.Name)
	p.MapKey("address")
	p.String(m.Address)
	p.MapKey("name-addr")
	p.String(m.NameAddr())
	if m.Count > 0 {
		p.MapKey("count")
		p.Integer(int64(m.Count))
	}
	p.End()
	p.Separator()
}

// addressEntry is a mailbox, or a named group of further entries.
type addressEntry struct {
	name    string
	address string
	group   bool
	members []addressEntry
}

// parseAddressList splits a header value into mailboxes and groups
// ("name: member, member;"). Commas and colons inside quoted strings,
// comments and angle brackets do not delimit. Each mailbox is parsed on its
// own so one malformed entry does not discard the rest of the list.
func parseAddressList(s string) []addressEntry {
	var (
		entries    []addressEntry
		start      int
		groupName  string
		groupStart = -1
		quoted     bool
		escaped    bool
		angle      bool
		comment    int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && (quoted || comment > 0):
			escaped = true
		case quoted:
			quoted = c != '"'
		case comment > 0:
			if c == '(' {
				comment++
			} else if c == ')' {
				comment--
			}
		case c == '"':
			quoted = true
		case c == '(':
			comment++
		case angle:
			angle = c != '>'
		case c == '<':
			angle = true
		case c == ':' && groupStart < 0:
			groupName = s[start:i]
			groupStart = i + 1
		case c == ';' && groupStart >= 0:
			entries = append(entries, newGroup(groupName, s[groupStart:i]))
			groupStart = -1
			start = i + 1
		case c == ',' && groupStart < 0:
			entries = appendMailbox(entries, s[start:i])
			start = i + 1
		}
	}

	if groupStart >= 0 {
		// Unterminated group: take the rest of the value as its members.
		return append(entries, newGroup(groupName, s[groupStart:]))
	}
	return appendMailbox(entries, s[start:])
}

func newGroup(name, body string) addressEntry {
	return addressEntry{
		name:    strings.TrimSpace(name),
		group:   true,
		members: parseAddressList(body),
	}
}

func appendMailbox(entries []addressEntry, s string) []addressEntry {
	s = strings.TrimSpace(s)
	if s == "" {
		return entries
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return entries
	}
	return append(entries, addressEntry{name: addr.Name, address: addr.Address})
}

// isPhrase reports whether name is one or more atoms separated by single
// spaces, which RFC 5322 allows unquoted before an angle address.
func isPhrase(name string) bool {
	for _, word := range strings.Split(name, " ") {
		if word == "" {
			return false
		}
		for _, r := range word {
			if !isAtext(r) {
				return false
			}
		}
	}
	return true
}

func isAtext(r rune) bool {
	switch {
	case r >= utf8.RuneSelf:
		return r != utf8.RuneError
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	return strings.ContainsRune("!#$%&'*+-/=?^_`{|}~", r)
}

func quoteName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	b.WriteByte('"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' || name[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(name[i])
	}
	b.WriteByte('"')
	return b.String()
}

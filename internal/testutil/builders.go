package testutil

import (
	"time"

	"github.com/wesm/msgsearch/internal/store"
)

// BaseDate is the default message date. Builders that leave the date unset
// get BaseDate plus one minute per message added before them.
var BaseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// MessageBuilder provides a fluent API for constructing store.MessageRecord
// values in tests.
type MessageBuilder struct {
	rec     store.MessageRecord
	dateSet bool
}

// NewMessage creates a builder with sensible defaults: one file named after
// the message id and a generic sender and subject.
func NewMessage(messageID, threadID string) *MessageBuilder {
	return &MessageBuilder{
		rec: store.MessageRecord{
			MessageID: messageID,
			ThreadID:  threadID,
			Date:      BaseDate,
			From:      "Sender <sender@example.com>",
			Subject:   "Test Subject",
			Filenames: []string{"/mail/cur/" + messageID},
		},
	}
}

func (b *MessageBuilder) WithFrom(from string) *MessageBuilder {
	b.rec.From = from
	return b
}

func (b *MessageBuilder) WithTo(to string) *MessageBuilder {
	b.rec.To = to
	return b
}

func (b *MessageBuilder) WithCc(cc string) *MessageBuilder {
	b.rec.Cc = cc
	return b
}

func (b *MessageBuilder) WithBcc(bcc string) *MessageBuilder {
	b.rec.Bcc = bcc
	return b
}

func (b *MessageBuilder) WithSubject(s string) *MessageBuilder {
	b.rec.Subject = s
	return b
}

func (b *MessageBuilder) WithDate(d time.Time) *MessageBuilder {
	b.rec.Date = d
	b.dateSet = true
	return b
}

func (b *MessageBuilder) WithTags(tags ...string) *MessageBuilder {
	b.rec.Tags = tags
	return b
}

// WithFilenames replaces the default filename. Passing none leaves the
// message without files.
func (b *MessageBuilder) WithFilenames(paths ...string) *MessageBuilder {
	b.rec.Filenames = paths
	return b
}

// Build returns the constructed record.
func (b *MessageBuilder) Build() store.MessageRecord {
	return b.rec
}

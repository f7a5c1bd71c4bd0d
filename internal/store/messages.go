package store

import (
	"database/sql"
	"fmt"
	"time"
)

// MessageRecord is one message as stored in the index.
type MessageRecord struct {
	MessageID string
	ThreadID  string
	Date      time.Time
	From      string
	To        string
	Cc        string
	Bcc       string
	Subject   string
	Filenames []string
	Tags      []string
}

// AddMessage inserts a message with its filenames and tags and returns its
// row id. Adding a message id that already exists fails.
func (s *Store) AddMessage(rec MessageRecord) (int64, error) {
	if rec.MessageID == "" {
		return 0, fmt.Errorf("add message: empty message id")
	}
	if rec.ThreadID == "" {
		return 0, fmt.Errorf("add message %s: empty thread id", rec.MessageID)
	}

	var rowID int64
	err := s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO messages (message_id, thread_id, date, from_header,
				to_header, cc_header, bcc_header, subject)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.MessageID, rec.ThreadID, rec.Date.Unix(), rec.From,
			rec.To, rec.Cc, rec.Bcc, rec.Subject)
		if err != nil {
			if isSQLiteError(err, "UNIQUE constraint failed") {
				return fmt.Errorf("add message %s: already indexed", rec.MessageID)
			}
			return fmt.Errorf("insert message %s: %w", rec.MessageID, err)
		}
		rowID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		for i, path := range rec.Filenames {
			if _, err := tx.Exec(
				"INSERT INTO message_files (message_id, position, path) VALUES (?, ?, ?)",
				rowID, i, path); err != nil {
				return fmt.Errorf("insert filename %s: %w", path, err)
			}
		}
		for _, tag := range rec.Tags {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO message_tags (message_id, tag) VALUES (?, ?)",
				rowID, tag); err != nil {
				return fmt.Errorf("insert tag %s: %w", tag, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rowID, nil
}

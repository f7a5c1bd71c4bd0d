package output

import (
	"context"
	"fmt"

	"github.com/wesm/msgsearch/internal/query"
)

// recipientHeaders are read in this order for recipient output.
var recipientHeaders = []string{"to", "cc", "bcc"}

// SelectDuplicate reports whether the file at 1-based position is printed
// for the --duplicate value dupe. A negative dupe selects every position.
func SelectDuplicate(dupe, position int) bool {
	return dupe < 0 || dupe == position
}

// SearchMessages prints the messages inside the window as ids, file paths
// or extracted addresses. In count mode the addresses are printed once the
// whole window has been read.
func SearchMessages(ctx context.Context, c *Context) error {
	window, err := c.Window.Resolve(func() (int, error) {
		return c.Source.CountMessages(ctx)
	})
	if err != nil {
		return fmt.Errorf("count messages: %w", err)
	}
	c.logger().Debug("search messages", "offset", window.Offset, "limit", window.Limit)

	messages, err := c.Source.SearchMessages(ctx)
	if err != nil {
		return fmt.Errorf("search messages: %w", err)
	}
	if messages == nil {
		return fmt.Errorf("search messages: %w", query.ErrNoResults)
	}
	defer messages.Close()

	var addrs *Addresses
	if c.Output.IsAddress() {
		addrs = NewAddresses(c.Printer, c.Output&OutputCount != 0)
	}

	c.Printer.BeginList()
	for i := 0; !window.Done(i) && messages.Next(); i++ {
		msg := messages.Value()
		if window.Skip(i) {
			msg.Close()
			continue
		}

		var err error
		switch c.Output {
		case OutputFiles:
			err = c.printFiles(ctx, msg)
		case OutputMessages:
			err = c.printMessageID(ctx, msg)
		default:
			c.processAddresses(addrs, msg)
		}
		msg.Close()
		if err != nil {
			return err
		}
	}
	if err := messages.Err(); err != nil {
		return fmt.Errorf("read messages: %w", err)
	}

	if addrs != nil && c.Output&OutputCount != 0 {
		addrs.Flush()
	}
	c.Printer.End()

	return nil
}

func (c *Context) printFiles(ctx context.Context, msg *query.Message) error {
	files, err := msg.Filenames(ctx)
	if err != nil {
		return fmt.Errorf("filenames of %s: %w", msg.ID, err)
	}
	defer files.Close()

	for j := 1; files.Next(); j++ {
		if SelectDuplicate(c.Dupe, j) {
			c.Printer.String(files.Value())
			c.Printer.Separator()
		}
	}
	if err := files.Err(); err != nil {
		return fmt.Errorf("filenames of %s: %w", msg.ID, err)
	}
	return nil
}

func (c *Context) printMessageID(ctx context.Context, msg *query.Message) error {
	// Files are only counted when a position above 1 was requested.
	if c.Dupe > 1 {
		n, err := msg.CountFilenames(ctx)
		if err != nil {
			return fmt.Errorf("count filenames of %s: %w", msg.ID, err)
		}
		if n < c.Dupe {
			return nil
		}
	}

	c.Printer.SetPrefix("id")
	c.Printer.String(msg.ID)
	c.Printer.Separator()
	return nil
}

func (c *Context) processAddresses(addrs *Addresses, msg *query.Message) {
	if c.Output&OutputSender != 0 {
		addrs.ProcessHeader(msg.Header("from"))
	}
	if c.Output&OutputRecipients != 0 {
		for _, h := range recipientHeaders {
			addrs.ProcessHeader(msg.Header(h))
		}
	}
}

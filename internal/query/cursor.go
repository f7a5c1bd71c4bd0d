package query

// Cursor is a finite, forward-only sequence. Next advances and reports
// whether a value is available; it may block on I/O. Err reports the error
// that stopped iteration, if any. Close must always be called.
type Cursor[T any] interface {
	Next() bool
	Value() T
	Err() error
	Close() error
}

// SliceCursor iterates over an in-memory slice.
type SliceCursor[T any] struct {
	items  []T
	pos    int
	closed bool
}

// NewSliceCursor returns a cursor over items.
func NewSliceCursor[T any](items []T) *SliceCursor[T] {
	return &SliceCursor[T]{items: items, pos: -1}
}

func (c *SliceCursor[T]) Next() bool {
	if c.closed || c.pos+1 >= len(c.items) {
		c.pos = len(c.items)
		return false
	}
	c.pos++
	return true
}

func (c *SliceCursor[T]) Value() T {
	var zero T
	if c.pos < 0 || c.pos >= len(c.items) {
		return zero
	}
	return c.items[c.pos]
}

func (c *SliceCursor[T]) Err() error { return nil }

func (c *SliceCursor[T]) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (c *SliceCursor[T]) Closed() bool { return c.closed }

// Collect drains c into a slice and closes it.
func Collect[T any](c Cursor[T]) ([]T, error) {
	defer c.Close()
	var out []T
	for c.Next() {
		out = append(out, c.Value())
	}
	return out, c.Err()
}

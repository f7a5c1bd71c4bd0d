package output

// Window is an offset/limit pair. A negative Offset counts back from the
// end of the result set; a negative Limit means unbounded.
type Window struct {
	Offset int
	Limit  int
}

// ResolveOffset returns a non-negative start index. count is only called
// for a negative offset, since counting can be as expensive as searching.
func ResolveOffset(offset int, count func() (int, error)) (int, error) {
	if offset >= 0 {
		return offset, nil
	}
	total, err := count()
	if err != nil {
		return 0, err
	}
	offset += total
	if offset < 0 {
		offset = 0
	}
	return offset, nil
}

// Resolve returns the window with its offset made absolute.
func (w Window) Resolve(count func() (int, error)) (Window, error) {
	offset, err := ResolveOffset(w.Offset, count)
	if err != nil {
		return w, err
	}
	w.Offset = offset
	return w, nil
}

// Skip reports whether the entity at position i lies before the window.
// Skipped entities are consumed and released but never printed.
func (w Window) Skip(i int) bool {
	return i < w.Offset
}

// Done reports whether iteration should stop before position i.
func (w Window) Done(i int) bool {
	return w.Limit >= 0 && i >= w.Offset+w.Limit
}

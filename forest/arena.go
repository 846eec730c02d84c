package forest

import "fmt"

// Arena abstracts how a Tree obtains record storage. The default HeapArena
// grows a heap slice by doubling; a FixedArena serves records from a caller
// supplied buffer and refuses to grow past it, which is the right discipline
// when the records live inside a larger preallocated region.
//
// Grow is called before any mutation of the existing records, so an arena
// error always leaves the tree exactly as it was.
type Arena[T any] interface {
	// Grow returns a record slice with the same contents as records and
	// spare capacity for at least need further records.
	Grow(records []Node[T], need int) ([]Node[T], error)
}

// HeapArena is the default arena. The zero value is ready to use.
type HeapArena[T any] struct{}

func (HeapArena[T]) Grow(records []Node[T], need int) ([]Node[T], error) {
	if cap(records)-len(records) >= need {
		return records, nil
	}
	newCap := max(2*cap(records), len(records)+need, 8)
	out := make([]Node[T], len(records), newCap)
	copy(out, records)
	return out, nil
}

// FixedArena serves records from a single caller supplied buffer. The first
// Grow adopts the buffer; thereafter Grow fails with ErrStoreFull rather
// than allocate, so the records never move out of the buffer.
type FixedArena[T any] struct {
	buf []Node[T]
}

// NewFixedArena returns an arena bounded by buf. The full length of buf is
// the record capacity; its contents are treated as free space.
func NewFixedArena[T any](buf []Node[T]) *FixedArena[T] {
	return &FixedArena[T]{buf: buf}
}

// Cap returns the fixed record capacity.
func (a *FixedArena[T]) Cap() int {
	return len(a.buf)
}

func (a *FixedArena[T]) Grow(records []Node[T], need int) ([]Node[T], error) {
	if len(records) == 0 && cap(records) == 0 {
		if need > len(a.buf) {
			return nil, fmt.Errorf(
				"%w: need %d records, fixed capacity is %d",
				ErrStoreFull, need, len(a.buf))
		}
		return a.buf[0:0:len(a.buf)], nil
	}
	if cap(records)-len(records) >= need {
		return records, nil
	}
	return nil, fmt.Errorf(
		"%w: need %d more records, fixed capacity is %d",
		ErrStoreFull, need, cap(records))
}

package forest

import "fmt"

// Subtree is a lazy preorder walk over the proper descendants of one
// record. It keeps only two words of state: the next candidate ref and the
// count of subtree levels still open. Nothing is materialized and nothing
// is copied, so the walk is invalidated by any mutation of the records it
// was created over.
type Subtree[T any] struct {
	records []Node[T]
	next    Ref
	open    uint32
	level   uint32
}

// NewSubtree starts a walk over the proper descendants of record i. For a
// leaf the walk is immediately done.
func NewSubtree[T any](records []Node[T], i Ref) (*Subtree[T], error) {
	if uint64(i) >= uint64(len(records)) {
		return nil, fmt.Errorf("%w: %d of %d", ErrRefRange, i, len(records))
	}
	s := &Subtree[T]{records: records, next: i + 1}
	if records[i].Closes == 0 {
		s.open = 1
	}
	return s, nil
}

// Next returns the ref of the next descendant in preorder. ok is false once
// the subtree is exhausted, and NoRef is returned with it.
func (s *Subtree[T]) Next() (Ref, bool) {
	if s.open == 0 {
		return NoRef, false
	}
	i := s.next
	// A run mutated through Records can leave levels open past the end of
	// the records. Refuse to walk further rather than index out of range.
	if uint64(i) >= uint64(len(s.records)) {
		s.open = 0
		return NoRef, false
	}
	// The open levels are exactly the ancestors of i within the subtree, so
	// they are also its level below the subtree root.
	s.level = s.open
	if c := s.records[i].Closes; c >= s.open+1 {
		s.open = 0
	} else {
		s.open = s.open + 1 - c
	}
	s.next++
	return i, true
}

// Done reports whether the walk is exhausted.
func (s *Subtree[T]) Done() bool {
	return s.open == 0
}

// Level returns the level below the subtree root of the ref most recently
// returned by Next, counting direct children as level 1. It is zero before
// the first call.
func (s *Subtree[T]) Level() uint32 {
	return s.level
}

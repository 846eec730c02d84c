package forest

import "fmt"

// Tree is a forest of ordered trees stored as a single contiguous record
// run in preorder. See the package documentation for the encoding and its
// invariants. The zero value is an empty heap backed forest ready for use.
//
// All mutating operations validate their preconditions and return errors;
// storage is grown before any record is touched, so a failed operation
// leaves the forest exactly as it was.
//
// Tree is not go routine safe.
type Tree[T any] struct {
	records []Node[T]
	arena   Arena[T]
}

type treeOptions[T any] struct {
	arena           Arena[T]
	initialCapacity int
}

// Option configures a Tree at construction time.
type Option[T any] func(*treeOptions[T])

// WithArena sets the storage arena. The default is a HeapArena.
func WithArena[T any](a Arena[T]) Option[T] {
	return func(o *treeOptions[T]) {
		o.arena = a
	}
}

// WithInitialCapacity pre-sizes the storage for n records. With a
// FixedArena the arena bounds apply as usual and a short buffer will
// surface as ErrStoreFull on first use rather than here.
func WithInitialCapacity[T any](n int) Option[T] {
	return func(o *treeOptions[T]) {
		o.initialCapacity = n
	}
}

// New returns an empty forest.
func New[T any](opts ...Option[T]) *Tree[T] {
	options := treeOptions[T]{}
	for _, o := range opts {
		o(&options)
	}
	t := &Tree[T]{arena: options.arena}
	if options.initialCapacity > 0 {
		_ = t.grow(options.initialCapacity)
	}
	return t
}

// NewFromRecords returns a forest over a copy of the given record run. The
// run is validated with CheckRecords first.
func NewFromRecords[T any](records []Node[T], opts ...Option[T]) (*Tree[T], error) {
	if err := CheckRecords(records); err != nil {
		return nil, err
	}
	t := New(opts...)
	if err := t.grow(len(records)); err != nil {
		return nil, err
	}
	t.records = t.records[:len(records)]
	copy(t.records, records)
	return t, nil
}

func (t *Tree[T]) grow(need int) error {
	if uint64(len(t.records))+uint64(need) > uint64(NoRef) {
		return ErrRecordCountDoesNotFit32
	}
	if t.arena == nil {
		t.arena = HeapArena[T]{}
	}
	records, err := t.arena.Grow(t.records, need)
	if err != nil {
		return err
	}
	t.records = records
	return nil
}

// Len returns the record count.
func (t *Tree[T]) Len() int {
	return len(t.records)
}

// Empty reports whether the forest holds no records.
func (t *Tree[T]) Empty() bool {
	return len(t.records) == 0
}

// Last returns the ref of the final record, or NoRef for an empty forest.
func (t *Tree[T]) Last() Ref {
	if len(t.records) == 0 {
		return NoRef
	}
	return Ref(len(t.records) - 1)
}

// Get returns the record at i.
func (t *Tree[T]) Get(i Ref) (Node[T], error) {
	if uint64(i) >= uint64(len(t.records)) {
		return Node[T]{}, fmt.Errorf("%w: %d of %d", ErrRefRange, i, len(t.records))
	}
	return t.records[i], nil
}

// SetValue replaces the payload of record i, leaving the structure alone.
func (t *Tree[T]) SetValue(i Ref, v T) error {
	if uint64(i) >= uint64(len(t.records)) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, len(t.records))
	}
	t.records[i].Value = v
	return nil
}

// Records returns the live backing records. This is the hot path access for
// callers that have already established their refs are in range; the burden
// of knowledge is on the caller. Writing closure counts through the
// returned slice voids the forest invariants.
func (t *Tree[T]) Records() []Node[T] {
	return t.records
}

// Depth returns the depth of record i, zero at the roots.
func (t *Tree[T]) Depth(i Ref) (uint32, error) {
	return RecordDepth(t.records, i)
}

// Validate re-checks the forest invariants over the whole run. It can only
// fail after the records have been mutated through Records.
func (t *Tree[T]) Validate() error {
	return CheckRecords(t.records)
}

// Clear removes all records, keeping the storage for reuse.
func (t *Tree[T]) Clear() {
	t.records = t.records[:0]
}

// Reserve ensures storage for at least n further records.
func (t *Tree[T]) Reserve(n int) error {
	return t.grow(n)
}

// Clone returns a heap backed copy of the forest, whatever arena the
// original uses. Payloads are copied by assignment.
func (t *Tree[T]) Clone() *Tree[T] {
	out := &Tree[T]{}
	if len(t.records) > 0 {
		out.records = make([]Node[T], len(t.records))
		copy(out.records, t.records)
	}
	return out
}

// PushRoot prepends a new root whose subtree is the entire existing forest.
// On an empty forest it creates the first single record tree.
func (t *Tree[T]) PushRoot(v T) error {
	if err := t.grow(1); err != nil {
		return err
	}
	n := len(t.records)
	if n == 0 {
		t.records = append(t.records, Node[T]{Closes: 1, Value: v})
		return nil
	}
	// Shift everything right one record; the old final record closes one
	// further level, the new root's own.
	t.records = t.records[:n+1]
	copy(t.records[1:], t.records[:n])
	t.records[0] = Node[T]{Closes: 0, Value: v}
	t.records[n].Closes++
	return nil
}

// AppendClosing appends a new final leaf which leaves exactly closes levels
// of the old final record's closure in place. This is the general tail
// append: the new leaf takes over the remaining 1 + old - closes closures.
// AppendChild and AppendSibling are the closes = 0 and closes = 1 cases.
//
// closes == old final closure appends a new root level tree to the forest.
func (t *Tree[T]) AppendClosing(v T, closes uint32) error {
	n := len(t.records)
	if n == 0 {
		return fmt.Errorf("%w: nothing to append after", ErrEmpty)
	}
	last := t.records[n-1].Closes
	if closes > last {
		return fmt.Errorf(
			"%w: %d requested, final record closes %d",
			ErrClosureExceeded, closes, last)
	}
	if err := t.grow(1); err != nil {
		return err
	}
	t.records[n-1].Closes = closes
	t.records = append(t.records, Node[T]{Closes: 1 + last - closes, Value: v})
	return nil
}

// AppendChild appends v as the final child of the current final record.
func (t *Tree[T]) AppendChild(v T) error {
	return t.AppendClosing(v, 0)
}

// AppendSibling appends v as the next sibling of the current final record.
func (t *Tree[T]) AppendSibling(v T) error {
	return t.AppendClosing(v, 1)
}

// AppendAtDepth appends a new final leaf at the absolute depth depth. The
// depth must be one the final record currently closes, depth < final
// closure count; the new leaf takes over the closures below it.
func (t *Tree[T]) AppendAtDepth(v T, depth uint32) error {
	n := len(t.records)
	if n == 0 {
		return fmt.Errorf("%w: nothing to append after", ErrEmpty)
	}
	last := t.records[n-1].Closes
	if depth >= last {
		return fmt.Errorf(
			"%w: depth %d, final record closes %d",
			ErrDepthRange, depth, last)
	}
	if err := t.grow(1); err != nil {
		return err
	}
	t.records[n-1].Closes = last - depth
	t.records = append(t.records, Node[T]{Closes: 1 + depth, Value: v})
	return nil
}

// RemoveLast removes the final record. The preceding record absorbs the
// closures beyond the removed leaf's own level, so the forest must hold at
// least two records. Clear empties a single record forest.
func (t *Tree[T]) RemoveLast() error {
	n := len(t.records)
	if n == 0 {
		return fmt.Errorf("%w: nothing to remove", ErrEmpty)
	}
	if n == 1 {
		return fmt.Errorf("%w: no preceding record to absorb the closure", ErrSoleRecord)
	}
	d := t.records[n-1].Closes - 1
	t.records = t.records[:n-1]
	t.records[n-2].Closes += d
	return nil
}

// RemoveLeaf removes the leaf record i. The preceding record absorbs the
// ancestor closures of the removed leaf; a leaf at ref 0 closes exactly its
// own level, so there is never anything for a preceding record to absorb.
// The forest must hold at least two records; Clear empties a single record
// forest.
func (t *Tree[T]) RemoveLeaf(i Ref) error {
	n := len(t.records)
	if uint64(i) >= uint64(n) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, n)
	}
	if n == 1 {
		return fmt.Errorf("%w: clear the forest instead", ErrSoleRecord)
	}
	c := t.records[i].Closes
	if c == 0 {
		return fmt.Errorf("%w: record %d has children", ErrNotLeaf, i)
	}
	if i > 0 {
		t.records[i-1].Closes += c - 1
	}
	copy(t.records[i:], t.records[i+1:])
	t.records = t.records[:n-1]
	return nil
}

// RemoveDescendants removes the entire subtree below record i, leaving i as
// a leaf which closes every level its last descendant closed beyond the
// subtree itself. When i is already a leaf there is nothing to do.
func (t *Tree[T]) RemoveDescendants(i Ref) error {
	n := len(t.records)
	if uint64(i) >= uint64(n) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, n)
	}
	if t.records[i].Closes != 0 {
		return nil
	}
	// Walk to the end of i's subtree. open counts the subtree levels still
	// open, including i's own, exactly as SubtreeExtent does.
	open := uint32(1)
	for j := int(i) + 1; j < n; j++ {
		c := t.records[j].Closes
		if c < open+1 {
			open = open + 1 - c
			continue
		}
		t.records[i].Closes = c - open
		copy(t.records[int(i)+1:], t.records[j+1:])
		t.records = t.records[:n-(j-int(i))]
		return nil
	}
	return fmt.Errorf("%w: subtree at %d is never closed", ErrMalformedRecords, i)
}

// InsertFirstChild inserts v as the new first child of record i. Existing
// children of i become following siblings of v; a leaf i becomes internal
// and v takes over its closures.
func (t *Tree[T]) InsertFirstChild(i Ref, v T) error {
	n := len(t.records)
	if uint64(i) >= uint64(n) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, n)
	}
	if err := t.grow(1); err != nil {
		return err
	}
	d := 1 + t.records[i].Closes
	t.records[i].Closes = 0
	t.records = t.records[:n+1]
	copy(t.records[int(i)+2:], t.records[int(i)+1:n])
	t.records[i+1] = Node[T]{Closes: d, Value: v}
	return nil
}

// InsertSibling inserts v as the preceding sibling of record i, at the same
// depth. For a ref at a root this prepends a new single record tree at that
// point in the forest.
func (t *Tree[T]) InsertSibling(i Ref, v T) error {
	n := len(t.records)
	if uint64(i) >= uint64(n) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, n)
	}
	if err := t.grow(1); err != nil {
		return err
	}
	t.records = t.records[:n+1]
	copy(t.records[int(i)+1:], t.records[int(i):n])
	t.records[i] = Node[T]{Closes: 1, Value: v}
	return nil
}

// InsertChildTree splices the record run of a single rooted tree in as the
// new first child subtree of record i. The run must be well formed and
// single rooted, and must not alias the forest's own storage; its final
// closure count is recomputed so the splice closes back into i's former
// closures. An empty run is a no-op.
func (t *Tree[T]) InsertChildTree(i Ref, run []Node[T]) error {
	n := len(t.records)
	if uint64(i) >= uint64(n) {
		return fmt.Errorf("%w: %d of %d", ErrRefRange, i, n)
	}
	m := len(run)
	if m == 0 {
		return nil
	}
	if err := CheckRecords(run); err != nil {
		return err
	}
	if end, err := SubtreeExtent(run, 0); err != nil {
		return err
	} else if int(end) != m {
		return fmt.Errorf(
			"%w: child tree must have a single root, first covers %d of %d",
			ErrMalformedRecords, end, m)
	}
	if err := t.grow(m); err != nil {
		return err
	}
	// The run's final leaf closes its depth within the run, its own level,
	// and then i's former closures.
	d := 1 + t.records[i].Closes
	for _, rec := range run[:m-1] {
		d = d + 1 - rec.Closes
	}
	t.records[i].Closes = 0
	t.records = t.records[:n+m]
	copy(t.records[int(i)+1+m:], t.records[int(i)+1:n])
	copy(t.records[int(i)+1:int(i)+1+m], run)
	t.records[int(i)+m].Closes = d
	return nil
}

// Descendants returns a lazy preorder walk over the proper descendants of
// record i. The walk is a snapshot of nothing: it reads the live records,
// and any mutation of the forest invalidates it.
func (t *Tree[T]) Descendants(i Ref) (*Subtree[T], error) {
	return NewSubtree(t.records, i)
}

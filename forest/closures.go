package forest

import "fmt"

// The functions in this file operate directly on record slices and assume
// nothing beyond what their doc comments state. They are the basis for the
// Tree methods, and are exported for callers that hold a raw record run (a
// decoded snapshot region for example) without wanting a Tree around it.

// StepDepth advances the preorder depth recurrence across one record.
//
// The depth of the record following a record at depth d which closes c
// levels is d + 1 - c: every record opens its own level and then closes c
// of the levels open at that point. Iterating StepDepth from zero across a
// record run yields the depth of each successive record.
//
// The caller must ensure closes <= depth+1, as CheckRecords does; the
// subtraction is otherwise meaningless.
func StepDepth(depth uint32, closes uint32) uint32 {
	return depth + 1 - closes
}

// CheckRecords verifies that records is a well formed closure run: a
// complete preorder forest. An empty run is well formed.
//
// The conditions checked, in terms of the depth recurrence (see StepDepth):
//
//  1. no record closes more levels than are open where it stands,
//     closes(i) <= depth(i) + 1
//  2. every opened level is closed by the end, which is exactly the
//     property that the closure counts sum to the record count.
//
// The final record of a well formed run is always a leaf which closes
// depth(last)+1 levels; that follows from 1 and 2 and is not checked
// separately.
func CheckRecords[T any](records []Node[T]) error {
	if uint64(len(records)) > uint64(NoRef) {
		return ErrRecordCountDoesNotFit32
	}
	depth := uint32(0)
	for i, rec := range records {
		if rec.Closes > depth+1 {
			return fmt.Errorf(
				"%w: record %d closes %d levels with %d open",
				ErrMalformedRecords, i, rec.Closes, depth+1)
		}
		depth = StepDepth(depth, rec.Closes)
	}
	if depth != 0 {
		return fmt.Errorf(
			"%w: %d levels left open at the end of the run",
			ErrMalformedRecords, depth)
	}
	return nil
}

// RecordDepth returns the depth of record i, counting from zero at the
// roots, by running the depth recurrence from the start of the run. O(i).
func RecordDepth[T any](records []Node[T], i Ref) (uint32, error) {
	if uint64(i) >= uint64(len(records)) {
		return 0, fmt.Errorf("%w: %d of %d", ErrRefRange, i, len(records))
	}
	depth := uint32(0)
	for j := Ref(0); j < i; j++ {
		depth = StepDepth(depth, records[j].Closes)
	}
	return depth, nil
}

// SubtreeExtent returns the index one past the last record of i's subtree.
// For a leaf that is simply i+1. O(subtree size).
//
// So given the run below (closure counts in brackets),
//
//	0: a (0)         a
//	1: b (0)        / \
//	2: c (1)       b   e
//	3: d (2)      / \   \
//	4: e (0)     c   d   f
//	5: f (3)
//
// SubtreeExtent(records, 0) is 6, SubtreeExtent(records, 1) is 4 and
// SubtreeExtent(records, 2) is 3.
func SubtreeExtent[T any](records []Node[T], i Ref) (Ref, error) {
	if uint64(i) >= uint64(len(records)) {
		return NoRef, fmt.Errorf("%w: %d of %d", ErrRefRange, i, len(records))
	}
	if records[i].Closes != 0 {
		return i + 1, nil
	}
	// open counts the levels of i's subtree still open, including i's own.
	// The walk must terminate inside the run for any well formed run.
	open := uint32(1)
	for j := int(i) + 1; j < len(records); j++ {
		c := records[j].Closes
		if c >= open+1 {
			return Ref(j) + 1, nil
		}
		open = open + 1 - c
	}
	return NoRef, fmt.Errorf(
		"%w: subtree at %d is never closed", ErrMalformedRecords, i)
}

// DescendantCount returns the number of proper descendants of record i.
func DescendantCount[T any](records []Node[T], i Ref) (int, error) {
	end, err := SubtreeExtent(records, i)
	if err != nil {
		return 0, err
	}
	return int(end) - int(i) - 1, nil
}

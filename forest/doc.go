// Package forest stores an ordered forest of trees of arbitrary degree in a
// single contiguous record run, using a preorder closure encoding.
package forest

/*

# Motivation for the flat encoding

Pointer based trees pay for their flexibility with an allocation per node,
pointer chasing on every traversal, and no natural serialized form. For the
workloads this package targets - build up a structure, traverse it in
document order, persist it as one region - a single contiguous slice is the
better trade almost every time:

 1. One allocation (or none, with a fixed arena) for the whole forest.
 2. Preorder traversal is a linear scan over memory the prefetcher likes.
 3. The in memory form is the serialized form: persisting a forest is
    writing out one slice.
 4. A subtree is one contiguous sub-run, so whole-subtree operations are
    splices.

The price is that point insertion and removal are O(n) memmoves, and that
refs to the right of a point mutation shift. Construction by appending at
the tail, which is the overwhelmingly common pattern, is amortized O(1) and
never disturbs an existing ref.

# The closure encoding

Each record carries its payload and a single closure count. A record with
closure count zero has children, and the record after it in the run is its
first child. A record with closure count c > 0 is a leaf, and after it c
nested levels end: the leaf's own, and c-1 enclosing ancestor levels.

So the forest below, with closure counts in brackets,

	0: a (0)         a
	1: b (0)        / \
	2: c (1)       b   e
	3: d (2)      / \   \
	4: e (0)     c   d   f
	5: f (3)

reads record by record as: a opens, b opens, c is a leaf closing only
itself, d is a leaf closing itself and b, e opens, f is a leaf closing
itself, e and a.

Navigation needs no parent pointers because depth follows from the counts
alone. Every record opens exactly one level and closes the count it
carries, so

	depth(i+1) = depth(i) + 1 - closes(i)

with depth(0) = 0. StepDepth is that recurrence, and everything else in
this package is derived from it.

A well formed run satisfies three conditions:

 1. No record closes more levels than are open where it stands:
    closes(i) <= depth(i) + 1.
 2. The closure counts sum to the record count: every opened level is
    closed exactly once, equivalently the depth recurrence returns to zero
    at the end of the run.
 3. The final record is a leaf. This follows from the first two, and with
    them implies the final record always closes depth+1 levels, its whole
    ancestor chain. That is what makes the tail appends cheap: the final
    record's closure count is exactly the menu of levels a new record can
    attach to.

CheckRecords verifies all of this in one pass, and every mutating operation
on Tree preserves it.

# Appending and the closure handover

All the tail appends are one pattern: the new final leaf takes over part of
the old final leaf's closure count. AppendClosing(v, c) leaves c closures
on the old final record and gives the new one 1 + old - c; child (c = 0),
sibling (c = 1) and new-root-level-tree (c = old) are the corner cases, and
AppendAtDepth is the same thing addressed by absolute depth instead.
RemoveLast is the exact inverse handover.

The point operations - InsertFirstChild, InsertSibling, InsertChildTree,
RemoveLeaf, RemoveDescendants - adjust at most one neighbouring closure
count besides the memmove.

# Alternatives considered

A breadth first layout with per-level child counts supports O(1) child
counting but loses the property that a subtree is one contiguous sub-run,
which the splice operations and the snapshot format both lean on, so it was
rejected.

Package forest is not go routine safe. A forest that is no longer being
mutated may be read from any number of goroutines.

*/

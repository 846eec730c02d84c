package forest

// Ref is a record index into the contiguous forest storage.
//
// Refs are positional: appending at the tail never disturbs existing refs,
// while the point insertion and removal operations shift every ref at or
// after the mutation point by the number of records inserted or removed.
type Ref uint32

const NoRef = ^Ref(0)

// Node is one record of the preorder closure encoding. Closes is the number
// of nested levels that end immediately after this record. A node with
// Closes == 0 has children and the next record is its first child; a node
// with Closes == c > 0 is a leaf that ends its own level and c-1 enclosing
// ancestor levels.
type Node[T any] struct {
	Closes uint32
	Value  T
}

// IsLeaf reports whether the record has no children.
func (n Node[T]) IsLeaf() bool {
	return n.Closes > 0
}

// HasChildren reports whether the next record in preorder is this record's
// first child.
func (n Node[T]) HasChildren() bool {
	return n.Closes == 0
}

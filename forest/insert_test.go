package forest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertFirstChildOfLeaf(t *testing.T) {
	tree := New[int]()
	require.NoError(t, tree.PushRoot(1))

	// A leaf target becomes internal and the new child takes its closures.
	require.NoError(t, tree.InsertFirstChild(0, 2))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 2}, closures(tree))
	require.Equal(t, []int{1, 2}, values(tree))
}

func TestInsertFirstChildOfInternal(t *testing.T) {
	tree := sixRecordTree(t)

	// Record 4 already has child 6; 7 becomes the first child, 6 its sibling.
	require.NoError(t, tree.InsertFirstChild(4, 7))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 0, 1, 2, 0, 1, 3}, closures(tree))
	require.Equal(t, []int{1, 2, 3, 4, 5, 7, 6}, values(tree))

	d, err := tree.Depth(5)
	require.NoError(t, err)
	require.Equal(t, uint32(2), d)
	d, err = tree.Depth(6)
	require.NoError(t, err)
	require.Equal(t, uint32(2), d)

	require.ErrorIs(t, tree.InsertFirstChild(7, 8), ErrRefRange)
}

func TestInsertFirstChildOfFinalLeaf(t *testing.T) {
	tree := sixRecordTree(t)

	require.NoError(t, tree.InsertFirstChild(5, 7))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 0, 1, 2, 0, 0, 4}, closures(tree))
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, values(tree))
}

func TestInsertSibling(t *testing.T) {
	tree := sixRecordTree(t)

	// 7 becomes the preceding sibling of record 1, at the same depth.
	require.NoError(t, tree.InsertSibling(1, 7))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 1, 0, 1, 2, 0, 3}, closures(tree))
	require.Equal(t, []int{1, 7, 2, 3, 4, 5, 6}, values(tree))

	d, err := tree.Depth(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), d)

	require.ErrorIs(t, tree.InsertSibling(7, 8), ErrRefRange)
}

func TestInsertSiblingAtRoot(t *testing.T) {
	tree := sixRecordTree(t)

	// A sibling of a root is a new single record tree in front of it.
	require.NoError(t, tree.InsertSibling(0, 9))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{1, 0, 0, 1, 2, 0, 3}, closures(tree))
	require.Equal(t, []int{9, 1, 2, 3, 4, 5, 6}, values(tree))

	d, err := tree.Depth(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), d)
}

func TestInsertChildTree(t *testing.T) {
	tree := sixRecordTree(t)

	// Splice a two record tree in as the first child of leaf record 2.
	//	0: 8 (0)
	//	1:   9 (2)
	run := recs(0, 2)
	run[0].Value, run[1].Value = 8, 9

	require.NoError(t, tree.InsertChildTree(2, run))
	checkInvariants(t, tree)
	require.Equal(t, 8, tree.Len())
	require.Equal(t, []uint32{0, 0, 0, 0, 3, 2, 0, 3}, closures(tree))
	require.Equal(t, []int{1, 2, 3, 8, 9, 4, 5, 6}, values(tree))

	// The spliced run is copied, not adopted.
	run[1].Closes = 7
	require.NoError(t, tree.Validate())
}

func TestInsertChildTreeUnderInternal(t *testing.T) {
	tree := sixRecordTree(t)

	require.NoError(t, tree.InsertChildTree(0, recs(1)))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 1, 0, 1, 2, 0, 3}, closures(tree))
}

func TestInsertChildTreeRejectsBadRuns(t *testing.T) {
	tree := sixRecordTree(t)

	// Empty runs are a no-op.
	require.NoError(t, tree.InsertChildTree(0, nil))
	require.Equal(t, 6, tree.Len())

	// Two roots in the run.
	require.ErrorIs(t, tree.InsertChildTree(0, recs(1, 1)), ErrMalformedRecords)
	// Malformed run.
	require.ErrorIs(t, tree.InsertChildTree(0, recs(0, 1)), ErrMalformedRecords)
	// Bad target.
	require.ErrorIs(t, tree.InsertChildTree(6, recs(1)), ErrRefRange)

	require.Equal(t, 6, tree.Len())
	checkInvariants(t, tree)
}

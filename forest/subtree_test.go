package forest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect[T any](t *testing.T, s *Subtree[T]) (refs []Ref, levels []uint32) {
	t.Helper()
	for {
		i, ok := s.Next()
		if !ok {
			require.Equal(t, NoRef, i)
			require.True(t, s.Done())
			return refs, levels
		}
		refs = append(refs, i)
		levels = append(levels, s.Level())
	}
}

func TestSubtreeWalk(t *testing.T) {
	//	0: 1 (0)         1
	//	1:   2 (0)      / \
	//	2:     3 (1)   2   5
	//	3:     4 (2)  / \   \
	//	4:   5 (0)   3   4   6
	//	5:     6 (3)
	tree := sixRecordTree(t)

	st, err := tree.Descendants(0)
	require.NoError(t, err)
	require.False(t, st.Done())
	refs, levels := collect(t, st)
	require.Equal(t, []Ref{1, 2, 3, 4, 5}, refs)
	require.Equal(t, []uint32{1, 2, 2, 1, 2}, levels)

	st, err = tree.Descendants(1)
	require.NoError(t, err)
	refs, levels = collect(t, st)
	require.Equal(t, []Ref{2, 3}, refs)
	require.Equal(t, []uint32{1, 1}, levels)

	leafCount := 0
	st, err = tree.Descendants(1)
	require.NoError(t, err)
	for {
		i, ok := st.Next()
		if !ok {
			break
		}
		rec, err := tree.Get(i)
		require.NoError(t, err)
		if rec.IsLeaf() {
			leafCount++
		}
	}
	require.Equal(t, 2, leafCount)
}

func TestSubtreeOfLeaf(t *testing.T) {
	tree := sixRecordTree(t)

	st, err := tree.Descendants(2)
	require.NoError(t, err)
	require.True(t, st.Done())
	i, ok := st.Next()
	require.False(t, ok)
	require.Equal(t, NoRef, i)
	require.Equal(t, uint32(0), st.Level())
}

func TestSubtreeRefRange(t *testing.T) {
	tree := sixRecordTree(t)
	_, err := tree.Descendants(6)
	require.ErrorIs(t, err, ErrRefRange)

	_, err = NewSubtree(recs(1), 1)
	require.ErrorIs(t, err, ErrRefRange)
}

func TestSubtreeOverForest(t *testing.T) {
	// Two root level trees; the walk of the first stops at its own extent.
	//	0: 1 (0)
	//	1:   2 (1)
	//	2:   3 (2)
	//	3: 4 (1)
	run := recs(0, 1, 2, 1)
	require.NoError(t, CheckRecords(run))

	st, err := NewSubtree(run, 0)
	require.NoError(t, err)
	refs, _ := collect(t, st)
	require.Equal(t, []Ref{1, 2}, refs)
}

func TestRemoveDescendants(t *testing.T) {
	tree := sixRecordTree(t)

	// A leaf has no descendants to remove.
	require.NoError(t, tree.RemoveDescendants(2))
	checkInvariants(t, tree)
	require.Equal(t, 6, tree.Len())
	rec, err := tree.Get(1)
	require.NoError(t, err)
	require.True(t, rec.HasChildren())
	rec, err = tree.Get(2)
	require.NoError(t, err)
	require.True(t, rec.IsLeaf())
	require.Equal(t, 3, rec.Value)

	// Pruning record 1 leaves it a leaf closing only its own level.
	require.NoError(t, tree.RemoveDescendants(1))
	checkInvariants(t, tree)
	require.Equal(t, 4, tree.Len())
	require.Equal(t, []uint32{0, 1, 0, 3}, closures(tree))
	rec, err = tree.Get(1)
	require.NoError(t, err)
	require.True(t, rec.IsLeaf())
	rec, err = tree.Get(2)
	require.NoError(t, err)
	require.Equal(t, 5, rec.Value)

	// Pruning the root leaves the single record forest.
	require.NoError(t, tree.RemoveDescendants(0))
	checkInvariants(t, tree)
	require.Equal(t, 1, tree.Len())
	require.Equal(t, []uint32{1}, closures(tree))

	require.ErrorIs(t, tree.RemoveDescendants(1), ErrRefRange)
}

func TestRemoveDescendantsOfTailSubtree(t *testing.T) {
	// The subtree of record 4 runs to the end of the forest; pruning it must
	// hand record 4 everything its last descendant closed beyond the subtree.
	tree := sixRecordTree(t)

	require.NoError(t, tree.RemoveDescendants(4))
	checkInvariants(t, tree)
	require.Equal(t, 5, tree.Len())
	require.Equal(t, []uint32{0, 0, 1, 2, 2}, closures(tree))
	require.Equal(t, []int{1, 2, 3, 4, 5}, values(tree))
}

func TestRemoveDescendantsKeepsFollowingTrees(t *testing.T) {
	// Pruning an inner subtree must not disturb a following root level tree.
	//	0: 1 (0)
	//	1:   2 (0)
	//	2:     3 (3)
	//	3: 4 (1)
	tree, err := NewFromRecords(recs(0, 0, 3, 1))
	require.NoError(t, err)

	require.NoError(t, tree.RemoveDescendants(1))
	checkInvariants(t, tree)
	require.Equal(t, []uint32{0, 2, 1}, closures(tree))
	require.Equal(t, []int{1, 2, 4}, values(tree))
}

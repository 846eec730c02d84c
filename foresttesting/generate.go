package foresttesting

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forestrie/go-flatforest/forest"
)

// GenerateForest produces a pseudo random well formed forest of count
// records. The shape depends only on the context's seeded rand state: after
// the first root, each record is appended leaving a uniformly chosen number
// of the final record's closures in place, which reaches every valid shape.
func (c *TestContext) GenerateForest(count int) *forest.Tree[uint64] {
	tree := forest.New[uint64](forest.WithInitialCapacity[uint64](count))
	if count == 0 {
		return tree
	}
	require.NoError(c.T, tree.PushRoot(c.G.Uint64()))
	for i := 1; i < count; i++ {
		rec, err := tree.Get(tree.Last())
		require.NoError(c.T, err)
		require.NoError(c.T, tree.AppendClosing(c.G.Uint64(), uint32(c.G.Intn(int(rec.Closes)+1))))
	}
	return tree
}

// KnownForest returns the six record worked example used throughout the
// repository:
//
//	1
//	|-- 2
//	|   |-- 3
//	|   `-- 4
//	`-- 5
//	    `-- 6
//
// Its closure run is 0, 0, 1, 2, 0, 3.
func KnownForest(t *testing.T) *forest.Tree[uint64] {
	tree := forest.New[uint64]()
	require.NoError(t, tree.PushRoot(1))
	require.NoError(t, tree.AppendChild(2))
	require.NoError(t, tree.AppendChild(3))
	require.NoError(t, tree.AppendSibling(4))
	require.NoError(t, tree.AppendAtDepth(5, 1))
	require.NoError(t, tree.AppendChild(6))
	return tree
}

package grove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStartRoundTrip(t *testing.T) {
	ss := NewSnapshotStart(6, 1234)
	b, err := ss.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, StartHeaderBytes)
	assert.Equal(t, SnapshotMagicV1, string(b[SnapshotStartMagicFirstByte:SnapshotStartMagicEnd]))
	assert.Equal(t, SnapshotCurrentVersion, b[SnapshotStartVersionByte])

	var got SnapshotStart
	require.NoError(t, got.UnmarshalBinary(b))
	assert.Equal(t, ss, got)
}

func TestSnapshotStartReservedBytesZero(t *testing.T) {
	b := EncodeSnapshotStart(SnapshotCurrentVersion, ^uint32(0), ^uint64(0))
	for _, i := range []int{5, 6, 7, 12, 13, 14, 15, 24, 25, 26, 27, 28, 29, 30, 31} {
		assert.Zerof(t, b[i], "reserved byte %d", i)
	}
}

func TestSnapshotStartDecodeErrors(t *testing.T) {
	good := EncodeSnapshotStart(SnapshotCurrentVersion, 1, 2)

	var ss SnapshotStart

	require.ErrorIs(t, DecodeSnapshotStart(&ss, good[:StartHeaderBytes-1]), ErrSnapshotBadSize)

	badMagic := append([]byte{}, good...)
	badMagic[SnapshotStartMagicFirstByte] = 'X'
	require.ErrorIs(t, DecodeSnapshotStart(&ss, badMagic), ErrSnapshotBadMagic)

	badVersion := append([]byte{}, good...)
	badVersion[SnapshotStartVersionByte] = SnapshotCurrentVersion + 1
	require.ErrorIs(t, DecodeSnapshotStart(&ss, badVersion), ErrSnapshotBadVersion)
}

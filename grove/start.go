package grove

// Snapshot regions are strictly laid out so that the structural part of a
// forest can be read, bounds checked and digested without decoding a single
// payload. The start header is a fixed 32 byte field at the front of every
// snapshot; everything after it is positioned by the values it carries.
import (
	"encoding/binary"
)

const (
	SnapshotMagicV1        = "GFS1"
	SnapshotCurrentVersion = uint8(1)

	// Snapshot start layout
	//
	// .     | magic | version | <reserved> | count  | <reserved> | values size | <reserved> |
	// .     | 0   3 | 4       | 5        7 | 8   11 | 12      15 | 16       23 | 24      31 |
	// bytes |   4   |    1    |     3      |   4    |     4      |      8      |     8      |
	//
	// count is the record count of the forest, and also the number of big
	// endian uint32 closure counts following the header. values size is the
	// byte length of the CBOR value region following the closure region.
	// The reserved bytes are zero in version 1.

	StartHeaderBytes = 32

	SnapshotStartMagicFirstByte = 0
	SnapshotStartMagicSize      = 4
	SnapshotStartMagicEnd       = SnapshotStartMagicFirstByte + SnapshotStartMagicSize
	SnapshotStartVersionByte    = 4

	SnapshotStartCountFirstByte = 8
	SnapshotStartCountSize      = 4
	SnapshotStartCountEnd       = SnapshotStartCountFirstByte + SnapshotStartCountSize

	SnapshotStartValuesSizeFirstByte = 16
	SnapshotStartValuesSizeSize      = 8
	SnapshotStartValuesSizeEnd       = SnapshotStartValuesSizeFirstByte + SnapshotStartValuesSizeSize

	// ClosureBytes is the fixed byte width of one closure count in the
	// closure region.
	ClosureBytes = 4
)

// SnapshotStart defines the values encoded in the fixed header field at the
// front of every snapshot.
type SnapshotStart struct {
	Version    uint8
	Count      uint32
	ValuesSize uint64
}

func NewSnapshotStart(count uint32, valuesSize uint64) SnapshotStart {
	return SnapshotStart{
		Version:    SnapshotCurrentVersion,
		Count:      count,
		ValuesSize: valuesSize,
	}
}

func (ss SnapshotStart) MarshalBinary() ([]byte, error) {
	return EncodeSnapshotStart(ss.Version, ss.Count, ss.ValuesSize), nil
}

func (ss *SnapshotStart) UnmarshalBinary(b []byte) error {
	return DecodeSnapshotStart(ss, b)
}

// EncodeSnapshotStart encodes the snapshot details in the prescribed start
// header format.
func EncodeSnapshotStart(version uint8, count uint32, valuesSize uint64) []byte {
	start := make([]byte, StartHeaderBytes)
	copy(start[SnapshotStartMagicFirstByte:SnapshotStartMagicEnd], SnapshotMagicV1)
	start[SnapshotStartVersionByte] = version
	binary.BigEndian.PutUint32(start[SnapshotStartCountFirstByte:SnapshotStartCountEnd], count)
	binary.BigEndian.PutUint64(start[SnapshotStartValuesSizeFirstByte:SnapshotStartValuesSizeEnd], valuesSize)
	return start
}

func DecodeSnapshotStart(ss *SnapshotStart, start []byte) error {
	if len(start) < StartHeaderBytes {
		return ErrSnapshotBadSize
	}
	if string(start[SnapshotStartMagicFirstByte:SnapshotStartMagicEnd]) != SnapshotMagicV1 {
		return ErrSnapshotBadMagic
	}
	if start[SnapshotStartVersionByte] != SnapshotCurrentVersion {
		return ErrSnapshotBadVersion
	}
	ss.Version = start[SnapshotStartVersionByte]
	ss.Count = binary.BigEndian.Uint32(start[SnapshotStartCountFirstByte:SnapshotStartCountEnd])
	ss.ValuesSize = binary.BigEndian.Uint64(start[SnapshotStartValuesSizeFirstByte:SnapshotStartValuesSizeEnd])
	return nil
}

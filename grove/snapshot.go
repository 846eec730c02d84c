package grove

import (
	"encoding/binary"
	"fmt"

	"github.com/forestrie/go-flatforest/cbor"
	"github.com/forestrie/go-flatforest/forest"
)

// EncodeSnapshot serializes a well formed record run as one snapshot
// region: start header, closure region, CBOR value region. The run is
// checked before anything is written; an empty run is a valid snapshot.
func EncodeSnapshot[T any](codec cbor.CBORCodec, records []forest.Node[T]) ([]byte, error) {
	if err := forest.CheckRecords(records); err != nil {
		return nil, err
	}
	values := make([]T, len(records))
	for i, rec := range records {
		values[i] = rec.Value
	}
	vb, err := codec.MarshalCBOR(values)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot values: %w", err)
	}

	data := make([]byte, StartHeaderBytes+ClosureBytes*len(records)+len(vb))
	copy(data, EncodeSnapshotStart(SnapshotCurrentVersion, uint32(len(records)), uint64(len(vb))))
	off := StartHeaderBytes
	for _, rec := range records {
		binary.BigEndian.PutUint32(data[off:off+ClosureBytes], rec.Closes)
		off += ClosureBytes
	}
	copy(data[off:], vb)
	return data, nil
}

// DecodeSnapshot rebuilds the record run from a snapshot region. Both
// regions are bounds checked against the header before they are read,
// trailing bytes are refused, and the rebuilt run is revalidated with
// CheckRecords before it is returned.
func DecodeSnapshot[T any](codec cbor.CBORCodec, data []byte) ([]forest.Node[T], error) {
	var ss SnapshotStart
	if err := DecodeSnapshotStart(&ss, data); err != nil {
		return nil, err
	}
	closuresEnd := uint64(StartHeaderBytes) + uint64(ss.Count)*ClosureBytes
	if uint64(len(data)) < closuresEnd {
		return nil, fmt.Errorf(
			"%w: have %d bytes, closure region needs %d",
			ErrSnapshotBadSize, len(data), closuresEnd)
	}
	if uint64(len(data)) != closuresEnd+ss.ValuesSize {
		return nil, fmt.Errorf(
			"%w: have %d bytes, header requires %d",
			ErrSnapshotBadSize, len(data), closuresEnd+ss.ValuesSize)
	}

	var values []T
	if err := codec.UnmarshalInto(data[closuresEnd:], &values); err != nil {
		return nil, fmt.Errorf("decoding snapshot values: %w", err)
	}
	if uint64(len(values)) != uint64(ss.Count) {
		return nil, fmt.Errorf(
			"%w: %d values for %d records", ErrValueCountMismatch, len(values), ss.Count)
	}

	records := make([]forest.Node[T], ss.Count)
	off := StartHeaderBytes
	for i := range records {
		records[i].Closes = binary.BigEndian.Uint32(data[off : off+ClosureBytes])
		records[i].Value = values[i]
		off += ClosureBytes
	}
	if err := forest.CheckRecords(records); err != nil {
		return nil, err
	}
	return records, nil
}

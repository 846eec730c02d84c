// Package cbor provides the deterministic CBOR codec used for snapshot
// value regions and sealed checkpoint payloads. Determinism matters because
// checkpoint signatures are made over encoded payloads: the same state must
// encode to the same bytes everywhere.
package cbor

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// NewDeterministicEncOpts returns the core deterministic encoding options.
func NewDeterministicEncOpts() cbor.EncOptions {
	return cbor.CoreDetEncOptions()
}

// NewDeterministicDecOpts returns decode options matching the deterministic
// encoder. Unsigned integers decode to uint64.
func NewDeterministicDecOpts() cbor.DecOptions {
	return cbor.DecOptions{
		IntDec: cbor.IntDecConvertNone,
	}
}

// NewDeterministicDecOptsConvertSigned is NewDeterministicDecOpts but with
// integers decoding to int64, which is what COSE header parsing wants.
func NewDeterministicDecOptsConvertSigned() cbor.DecOptions {
	return cbor.DecOptions{
		IntDec: cbor.IntDecConvertSigned,
	}
}

// CBORCodec pairs an encode and decode mode. The zero value is not usable;
// use NewCBORCodec. Codecs are immutable and cheap to copy.
type CBORCodec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

func NewCBORCodec(encOpts cbor.EncOptions, decOpts cbor.DecOptions) (CBORCodec, error) {
	encMode, err := encOpts.EncMode()
	if err != nil {
		return CBORCodec{}, fmt.Errorf("cbor: bad encode options: %w", err)
	}
	decMode, err := decOpts.DecMode()
	if err != nil {
		return CBORCodec{}, fmt.Errorf("cbor: bad decode options: %w", err)
	}
	return CBORCodec{encMode: encMode, decMode: decMode}, nil
}

func (c CBORCodec) MarshalCBOR(v any) ([]byte, error) {
	return c.encMode.Marshal(v)
}

func (c CBORCodec) UnmarshalInto(b []byte, v any) error {
	return c.decMode.Unmarshal(b, v)
}

package grove

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/veraison/go-cose"

	"github.com/forestrie/go-flatforest/cbor"
)

// CWT claims carried in the protected header of a sealed checkpoint, see
// RFC 8392. Only issuer and subject are attested here; the key is bound by
// the kid header.
const (
	HeaderLabelCWTClaims int64 = 15

	CWTClaimIssuer  int64 = 1
	CWTClaimSubject int64 = 2
)

// TreeState defines the details we include in our signed commitment to a
// forest snapshot.
type TreeState struct {
	// The record count of the forest at the sealed snapshot.
	Size uint64 `cbor:"1,keyasint"`
	// Digest is the SHA-256 digest of the complete snapshot region. It is
	// detached from the published checkpoint after signing; verifiers must
	// recompute it from a snapshot they actually hold.
	Digest []byte `cbor:"2,keyasint,omitempty"`
	// Timestamp is the unix time (milliseconds) read at the time the state
	// was signed. Including it allows the same snapshot to be re-sealed.
	Timestamp int64 `cbor:"3,keyasint"`
	// Seq is the snapshot sequence number within the grove that Digest
	// commits to.
	Seq uint64 `cbor:"4,keyasint"`
}

// SnapshotDigest returns the digest committed to by a checkpoint over the
// given snapshot region.
func SnapshotDigest(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Sealer produces signed checkpoints over forest snapshot states. A
// checkpoint commits to a snapshot; it should only be created after the
// snapshot has been durably written.
type Sealer struct {
	issuer    string
	cborCodec cbor.CBORCodec
}

func NewSealer(issuer string, cborCodec cbor.CBORCodec) Sealer {
	return Sealer{
		issuer:    issuer,
		cborCodec: cborCodec,
	}
}

// NewSealerCodec returns the deterministic codec a Sealer and its verifiers
// must share. Determinism is what makes detach and re-attach of the digest
// sound: the re-encoded payload is byte identical to the signed one.
func NewSealerCodec() (cbor.CBORCodec, error) {
	return cbor.NewCBORCodec(
		cbor.NewDeterministicEncOpts(),
		cbor.NewDeterministicDecOpts(),
	)
}

// Sign1 signs the provided state. The returned message carries the state
// with the digest detached, so it is only verifiable alongside a held
// snapshot. state.Digest must be set by the caller.
func (s Sealer) Sign1(coseSigner cose.Signer, keyIdentifier string, subject string, state TreeState, external []byte) ([]byte, error) {
	if len(state.Digest) == 0 {
		return nil, ErrDigestMissing
	}
	payload, err := s.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}

	msg := cose.Sign1Message{
		Headers: cose.Headers{
			Protected: cose.ProtectedHeader{
				cose.HeaderLabelAlgorithm: coseSigner.Algorithm(),
				cose.HeaderLabelKeyID:     []byte(keyIdentifier),
				HeaderLabelCWTClaims: map[int64]any{
					CWTClaimIssuer:  s.issuer,
					CWTClaimSubject: subject,
				},
			},
		},
		Payload: payload,
	}
	if err = msg.Sign(rand.Reader, external, coseSigner); err != nil {
		return nil, err
	}

	// We purposefully detach the digest so that verifiers are forced to
	// obtain the snapshot it commits to.
	state.Digest = nil
	payload, err = s.cborCodec.MarshalCBOR(state)
	if err != nil {
		return nil, err
	}
	msg.Payload = payload

	return msg.MarshalCBOR()
}

// DecodeCheckpoint decodes the TreeState from a sealed checkpoint message.
// The returned state does not verify as is: the digest was detached after
// signing. See VerifyCheckpoint.
func DecodeCheckpoint(codec cbor.CBORCodec, msg []byte) (*cose.Sign1Message, TreeState, error) {
	var signed cose.Sign1Message
	if err := signed.UnmarshalCBOR(msg); err != nil {
		return nil, TreeState{}, err
	}
	var unverified TreeState
	if err := codec.UnmarshalInto(signed.Payload, &unverified); err != nil {
		return nil, TreeState{}, err
	}
	return &signed, unverified, nil
}

// VerifyCheckpoint applies the provided state to the signed message and
// verifies the result.
//
// Verification of a checkpoint is a three step process:
//  1. Use DecodeCheckpoint to obtain the TreeState from the sealed message.
//     This state will not verify, as the digest was detached after signing.
//  2. Load the snapshot the state's Seq refers to and recompute its digest
//     with SnapshotDigest.
//  3. Set the recomputed digest on the state and call this function to
//     complete the verification.
func VerifyCheckpoint(codec cbor.CBORCodec, verifier cose.Verifier, signed *cose.Sign1Message, unverified TreeState, external []byte) error {
	if len(unverified.Digest) == 0 {
		return ErrDigestMissing
	}
	payload, err := codec.MarshalCBOR(unverified)
	if err != nil {
		return err
	}
	signed.Payload = payload
	if err = signed.Verify(external, verifier); err != nil {
		return fmt.Errorf("%w: %v", ErrSealVerify, err)
	}
	return nil
}

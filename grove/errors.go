package grove

import "errors"

var (
	ErrSnapshotBadSize    = errors.New("the snapshot data length does not match its header")
	ErrSnapshotBadMagic   = errors.New("the snapshot magic is invalid")
	ErrSnapshotBadVersion = errors.New("the snapshot version is not supported")
	ErrValueCountMismatch = errors.New("the snapshot value region does not match the record count")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrCheckpointNotFound = errors.New("checkpoint not found")
	ErrGroveNotFound      = errors.New("grove not found")
)

var (
	ErrDigestMissing = errors.New("the digest field of a tree state was nil when it should have been provided")
	ErrSealVerify    = errors.New("the checkpoint signature verification failed")
)

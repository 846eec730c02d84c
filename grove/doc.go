// Package grove persists forests. A grove is a directory holding the
// snapshot history of one forest together with signed checkpoints over
// those snapshots.
//
// A snapshot is a single self describing byte region: a fixed 32 byte start
// header, the closure counts as big endian uint32s, and the payloads as one
// deterministically encoded CBOR array. The split mirrors the in memory
// record run, so encoding is two linear passes and decoding rebuilds a run
// that is revalidated before anything trusts it.
//
// A checkpoint is a COSE Sign1 message over a TreeState. The snapshot
// digest is detached from the published message, so a checkpoint can only
// be verified by recomputing the digest from a snapshot actually held.
package grove

package grove

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"
)

const (
	// V1Prefix is the store schema prefix. Any change to the directory
	// layout or the snapshot format bumps it.
	V1Prefix = "v1/groves"

	snapshotsDirName   = "snapshots"
	checkpointsDirName = "checkpoints"
	snapshotExt        = ".snap"
	checkpointExt      = ".seal"
)

// GroveRelativePath returns the store relative directory of a grove.
func GroveRelativePath(grove uuid.UUID) string {
	return filepath.Join(V1Prefix, grove.String())
}

// SnapshotRelativePath returns the store relative path of one snapshot.
// Sequence numbers are fixed width in the name so that lexical directory
// order is also numeric order.
func SnapshotRelativePath(grove uuid.UUID, seq uint64) string {
	return filepath.Join(GroveRelativePath(grove), snapshotsDirName, seqFileName(seq, snapshotExt))
}

// CheckpointRelativePath returns the store relative path of one sealed
// checkpoint.
func CheckpointRelativePath(grove uuid.UUID, seq uint64) string {
	return filepath.Join(GroveRelativePath(grove), checkpointsDirName, seqFileName(seq, checkpointExt))
}

func seqFileName(seq uint64, ext string) string {
	return fmt.Sprintf("%016d%s", seq, ext)
}

// LocalStore keeps groves in a local directory tree:
//
//	<root>/v1/groves/<uuid>/snapshots/<seq16>.snap
//	<root>/v1/groves/<uuid>/checkpoints/<seq16>.seal
//
// The store deals in opaque byte regions; encoding and sealing are the
// business of EncodeSnapshot and Sealer. Writes are staged to a temp file
// in the target directory and renamed into place.
type LocalStore struct {
	log  logger.Logger
	root string
	opts StoreOptions
}

func NewLocalStore(log logger.Logger, root string, opts ...StoreOption) (*LocalStore, error) {
	options := defaultStoreOptions()
	for _, o := range opts {
		o(&options)
	}
	if err := os.MkdirAll(filepath.Join(root, V1Prefix), options.dirMode); err != nil {
		return nil, err
	}
	return &LocalStore{log: log, root: root, opts: options}, nil
}

// Path resolves a store relative path against the store root.
func (s *LocalStore) Path(relative string) string {
	return filepath.Join(s.root, relative)
}

// CreateGrove allocates a new grove identity and its directories.
func (s *LocalStore) CreateGrove() (uuid.UUID, error) {
	grove := uuid.New()
	for _, dir := range []string{snapshotsDirName, checkpointsDirName} {
		err := os.MkdirAll(filepath.Join(s.root, GroveRelativePath(grove), dir), s.opts.dirMode)
		if err != nil {
			return uuid.UUID{}, err
		}
	}
	s.log.Infof("created grove %s", grove)
	return grove, nil
}

// ListGroves returns the groves present in the store, sorted by identity.
// Entries that are not grove directories are ignored.
func (s *LocalStore) ListGroves() ([]uuid.UUID, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, V1Prefix))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var groves []uuid.UUID
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		grove, err := uuid.Parse(entry.Name())
		if err != nil {
			s.log.Debugf("ignoring non grove entry %q: %v", entry.Name(), err)
			continue
		}
		groves = append(groves, grove)
	}
	sort.Slice(groves, func(i, j int) bool {
		return groves[i].String() < groves[j].String()
	})
	return groves, nil
}

// SaveSnapshot writes the snapshot region for seq. The grove must exist.
// With WithSnapshotsRetained in force, older snapshots beyond the retention
// are pruned after a successful save.
func (s *LocalStore) SaveSnapshot(grove uuid.UUID, seq uint64, data []byte) error {
	dir := filepath.Join(s.root, GroveRelativePath(grove), snapshotsDirName)
	if err := s.requireDir(dir, grove); err != nil {
		return err
	}
	if err := s.writeFileAtomic(dir, seqFileName(seq, snapshotExt), data); err != nil {
		return err
	}
	s.log.Debugf("saved snapshot %d for grove %s, %d bytes", seq, grove, len(data))
	if s.opts.snapshotsRetained > 0 {
		return s.pruneSnapshots(grove)
	}
	return nil
}

// LoadSnapshot reads the snapshot region for seq.
func (s *LocalStore) LoadSnapshot(grove uuid.UUID, seq uint64) ([]byte, error) {
	data, err := os.ReadFile(s.Path(SnapshotRelativePath(grove, seq)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: grove %s seq %d", ErrSnapshotNotFound, grove, seq)
		}
		return nil, err
	}
	return data, nil
}

// ListSnapshots returns the snapshot sequence numbers of a grove in
// ascending order. Files that do not parse as snapshots are ignored.
func (s *LocalStore) ListSnapshots(grove uuid.UUID) ([]uint64, error) {
	return s.listSeqs(grove, snapshotsDirName, snapshotExt)
}

// LatestSnapshot loads the highest numbered snapshot of the grove.
func (s *LocalStore) LatestSnapshot(grove uuid.UUID) (uint64, []byte, error) {
	seqs, err := s.ListSnapshots(grove)
	if err != nil {
		return 0, nil, err
	}
	if len(seqs) == 0 {
		return 0, nil, fmt.Errorf("%w: grove %s has no snapshots", ErrSnapshotNotFound, grove)
	}
	seq := seqs[len(seqs)-1]
	data, err := s.LoadSnapshot(grove, seq)
	if err != nil {
		return 0, nil, err
	}
	return seq, data, nil
}

// SaveCheckpoint writes the sealed checkpoint for seq. Checkpoints are
// never pruned; they are the cheap durable commitments.
func (s *LocalStore) SaveCheckpoint(grove uuid.UUID, seq uint64, sealed []byte) error {
	dir := filepath.Join(s.root, GroveRelativePath(grove), checkpointsDirName)
	if err := s.requireDir(dir, grove); err != nil {
		return err
	}
	if err := s.writeFileAtomic(dir, seqFileName(seq, checkpointExt), sealed); err != nil {
		return err
	}
	s.log.Debugf("saved checkpoint %d for grove %s", seq, grove)
	return nil
}

// LoadCheckpoint reads the sealed checkpoint for seq.
func (s *LocalStore) LoadCheckpoint(grove uuid.UUID, seq uint64) ([]byte, error) {
	sealed, err := os.ReadFile(s.Path(CheckpointRelativePath(grove, seq)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: grove %s seq %d", ErrCheckpointNotFound, grove, seq)
		}
		return nil, err
	}
	return sealed, nil
}

// ListCheckpoints returns the checkpoint sequence numbers of a grove in
// ascending order.
func (s *LocalStore) ListCheckpoints(grove uuid.UUID) ([]uint64, error) {
	return s.listSeqs(grove, checkpointsDirName, checkpointExt)
}

// LatestCheckpoint loads the highest numbered checkpoint of the grove.
func (s *LocalStore) LatestCheckpoint(grove uuid.UUID) (uint64, []byte, error) {
	seqs, err := s.ListCheckpoints(grove)
	if err != nil {
		return 0, nil, err
	}
	if len(seqs) == 0 {
		return 0, nil, fmt.Errorf("%w: grove %s has no checkpoints", ErrCheckpointNotFound, grove)
	}
	seq := seqs[len(seqs)-1]
	sealed, err := s.LoadCheckpoint(grove, seq)
	if err != nil {
		return 0, nil, err
	}
	return seq, sealed, nil
}

func (s *LocalStore) requireDir(dir string, grove uuid.UUID) error {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrGroveNotFound, grove)
		}
		return err
	}
	return nil
}

func (s *LocalStore) listSeqs(grove uuid.UUID, dirName string, ext string) ([]uint64, error) {
	dir := filepath.Join(s.root, GroveRelativePath(grove), dirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrGroveNotFound, grove)
		}
		return nil, err
	}
	var seqs []uint64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		seq, err := strconv.ParseUint(strings.TrimSuffix(entry.Name(), ext), 10, 64)
		if err != nil {
			s.log.Debugf("ignoring entry %q: %v", entry.Name(), err)
			continue
		}
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	return seqs, nil
}

func (s *LocalStore) writeFileAtomic(dir string, name string, data []byte) error {
	f, err := os.CreateTemp(dir, name+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Chmod(s.opts.fileMode); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err = os.Rename(tmp, filepath.Join(dir, name)); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *LocalStore) pruneSnapshots(grove uuid.UUID) error {
	seqs, err := s.ListSnapshots(grove)
	if err != nil {
		return err
	}
	if len(seqs) <= s.opts.snapshotsRetained {
		return nil
	}
	for _, seq := range seqs[:len(seqs)-s.opts.snapshotsRetained] {
		if err := os.Remove(s.Path(SnapshotRelativePath(grove, seq))); err != nil {
			return err
		}
		s.log.Infof("pruned snapshot %d for grove %s", seq, grove)
	}
	return nil
}

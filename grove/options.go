package grove

import "os"

// StoreOptions provides options for LocalStore. Store methods ignore
// options that do not apply to them.
type StoreOptions struct {
	dirMode  os.FileMode
	fileMode os.FileMode

	// snapshotsRetained bounds the snapshot history kept per grove. Zero
	// retains everything.
	snapshotsRetained int
}

func defaultStoreOptions() StoreOptions {
	return StoreOptions{
		dirMode:  0o755,
		fileMode: 0o644,
	}
}

type StoreOption func(*StoreOptions)

func WithDirMode(mode os.FileMode) StoreOption {
	return func(opts *StoreOptions) {
		opts.dirMode = mode
	}
}

func WithFileMode(mode os.FileMode) StoreOption {
	return func(opts *StoreOptions) {
		opts.fileMode = mode
	}
}

// WithSnapshotsRetained keeps only the n most recent snapshots of a grove,
// pruning older ones as new snapshots are saved. Checkpoints are never
// pruned.
func WithSnapshotsRetained(n int) StoreOption {
	return func(opts *StoreOptions) {
		opts.snapshotsRetained = n
	}
}

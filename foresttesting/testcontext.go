package foresttesting

import (
	"math/rand"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/forestrie/go-flatforest/grove"
)

type TestContext struct {
	Log   logger.Logger
	Store *grove.LocalStore
	G     *rand.Rand
	T     *testing.T
}

type TestConfig struct {
	// We seed the RNG with the provided Seed. It is normal to force it to
	// some fixed value so that the generated forests are the same from run
	// to run.
	Seed            int64
	TestLabelPrefix string
	StoreRoot       string // can be "", defaults to t.TempDir()
	// SnapshotsRetained can be 0, in which case the store retains every
	// snapshot.
	SnapshotsRetained int
}

func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	c := TestContext{
		T: t,
		G: rand.New(rand.NewSource(cfg.Seed)),
	}
	logger.New("NOOP")
	c.Log = logger.Sugar.WithServiceName(cfg.TestLabelPrefix)

	root := cfg.StoreRoot
	if root == "" {
		root = t.TempDir()
	}
	var opts []grove.StoreOption
	if cfg.SnapshotsRetained > 0 {
		opts = append(opts, grove.WithSnapshotsRetained(cfg.SnapshotsRetained))
	}

	var err error
	c.Store, err = grove.NewLocalStore(c.Log, root, opts...)
	if err != nil {
		t.Fatalf("failed to create local grove store: %v", err)
	}

	return c
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

func (c *TestContext) GetStore() *grove.LocalStore {
	return c.Store
}

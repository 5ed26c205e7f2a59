// Package apptest wires an AppContext on in-memory sqlite and miniredis
// for service tests.
package apptest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"

	"github.com/oggyb/vidhub/internal/app"
	"github.com/oggyb/vidhub/internal/cache"
	"github.com/oggyb/vidhub/internal/db"
	"github.com/oggyb/vidhub/internal/lock"
)

var dbSeq atomic.Int64

// Env is a fully wired test environment.
type Env struct {
	App   *app.AppContext
	Redis *miniredis.Miniredis
	Media *FakeMedia
}

// New returns a fresh environment; every call gets its own database.
func New(t *testing.T) *Env {
	t.Helper()

	dsn := fmt.Sprintf("file:vidhub_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	gdb, err := db.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rc := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}), StatsTTL: time.Minute}
	t.Cleanup(func() { _ = rc.Close() })

	fm := &FakeMedia{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	locker := lock.NewRedisLocker(rc.Client, 5*time.Second, 200)

	return &Env{
		App:   app.New(gdb, rc, locker, fm, log),
		Redis: mr,
		Media: fm,
	}
}

// FakeMedia records removals; Fail makes every removal return an error.
type FakeMedia struct {
	mu      sync.Mutex
	removed []string
	Fail    bool
}

func (f *FakeMedia) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail {
		return fmt.Errorf("remove %s: store unavailable", ref)
	}
	f.removed = append(f.removed, ref)
	return nil
}

// Removed returns the refs removed so far.
func (f *FakeMedia) Removed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removed...)
}

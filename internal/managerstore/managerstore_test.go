package managerstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

const (
	testOwner = asset.Address("0xaaaa000000000000000000000000000000000000000000000000000000000001")
	testID    = asset.Address("0xbbbb000000000000000000000000000000000000000000000000000000000002")
	otherID   = asset.Address("0xcccc000000000000000000000000000000000000000000000000000000000003")
)

func record(poolKey string, id asset.Address, createdAt time.Time) Record {
	return Record{
		ID:        id,
		PoolKey:   poolKey,
		Owner:     testOwner,
		Network:   asset.NetworkTestnet,
		CreatedAt: createdAt,
	}
}

// stores returns every Repository implementation under test.
func stores(t *testing.T) map[string]Repository {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "managers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]Repository{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestRepositoryPutGet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created := time.Now().Truncate(time.Millisecond)

			require.NoError(t, store.Put(ctx, record("SUI_USDC", testID, created)))

			got, err := store.Get(ctx, asset.NetworkTestnet, testOwner, "SUI_USDC")
			require.NoError(t, err)
			assert.Equal(t, testID, got.ID)
			assert.Equal(t, "SUI_USDC", got.PoolKey)
			assert.True(t, got.CreatedAt.Equal(created))
		})
	}
}

func TestRepositoryGetMissing(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), asset.NetworkTestnet, testOwner, "DEEP_USDC")
			assert.True(t, apperror.HasCode(err, apperror.CodeNotFound), "got %v", err)
		})
	}
}

func TestRepositoryLastWriteWins(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, record("SUI_USDC", testID, time.Now())))
			require.NoError(t, store.Put(ctx, record("SUI_USDC", otherID, time.Now())))

			got, err := store.Get(ctx, asset.NetworkTestnet, testOwner, "SUI_USDC")
			require.NoError(t, err)
			assert.Equal(t, otherID, got.ID)
		})
	}
}

func TestRepositoryListNewestFirst(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			older := time.Now().Add(-time.Hour)
			newer := time.Now()

			require.NoError(t, store.Put(ctx, record("SUI_USDC", testID, older)))
			require.NoError(t, store.Put(ctx, record("DEEP_USDC", otherID, newer)))

			recs, err := store.List(ctx, asset.NetworkTestnet, testOwner)
			require.NoError(t, err)
			require.Len(t, recs, 2)
			assert.Equal(t, "DEEP_USDC", recs[0].PoolKey)
			assert.Equal(t, "SUI_USDC", recs[1].PoolKey)
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, record("SUI_USDC", testID, time.Now())))
			require.NoError(t, store.Delete(ctx, asset.NetworkTestnet, testOwner, "SUI_USDC"))

			_, err := store.Get(ctx, asset.NetworkTestnet, testOwner, "SUI_USDC")
			assert.True(t, apperror.HasCode(err, apperror.CodeNotFound))

			// Deleting again is not an error.
			assert.NoError(t, store.Delete(ctx, asset.NetworkTestnet, testOwner, "SUI_USDC"))
		})
	}
}

func TestRepositoryRejectsMalformedRecords(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			bad := record("SUI_USDC", "not-an-address", time.Now())
			err := store.Put(ctx, bad)
			assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput), "got %v", err)

			noPool := record("", testID, time.Now())
			err = store.Put(ctx, noPool)
			assert.True(t, apperror.HasCode(err, apperror.CodeRequiredField), "got %v", err)
		})
	}
}

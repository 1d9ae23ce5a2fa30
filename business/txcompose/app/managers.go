package app

import (
	"context"
	"time"

	txDomain "github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/logger"
	"github.com/deeparb/deeparb/internal/managerstore"
)

// ManagerDirectory tracks shared margin managers across sessions so
// position flows can reference them by id instead of recreating them.
type ManagerDirectory struct {
	store    managerstore.Repository
	registry *asset.Registry
	log      logger.LoggerInterface
}

// NewManagerDirectory creates a ManagerDirectory.
func NewManagerDirectory(store managerstore.Repository, registry *asset.Registry, log logger.LoggerInterface) *ManagerDirectory {
	return &ManagerDirectory{store: store, registry: registry, log: log}
}

// Remember records a shared manager's id for an owner and pool. The
// id becomes known once the sharing transaction executes; callers
// persist it here so later sessions can reuse the manager.
func (d *ManagerDirectory) Remember(ctx context.Context, owner, managerID asset.Address, poolKey string) error {
	if _, err := d.registry.Pool(poolKey); err != nil {
		return err
	}

	rec := managerstore.Record{
		ID:        managerID,
		PoolKey:   poolKey,
		Owner:     owner,
		Network:   d.registry.Network(),
		CreatedAt: time.Now(),
	}
	if err := d.store.Put(ctx, rec); err != nil {
		return err
	}

	d.log.Info(ctx, "margin manager recorded",
		"manager", managerID.String(), "pool", poolKey, "owner", owner.String())
	return nil
}

// Lookup resolves an owner's shared manager for a pool. Returns
// NOT_FOUND if none was recorded.
func (d *ManagerDirectory) Lookup(ctx context.Context, owner asset.Address, poolKey string) (txDomain.Manager, error) {
	rec, err := d.store.Get(ctx, d.registry.Network(), owner, poolKey)
	if err != nil {
		return txDomain.Manager{}, err
	}
	return txDomain.ManagerByID(rec.ID), nil
}

// Managers lists all of an owner's recorded managers, newest first.
func (d *ManagerDirectory) Managers(ctx context.Context, owner asset.Address) ([]managerstore.Record, error) {
	return d.store.List(ctx, d.registry.Network(), owner)
}

// Forget drops the record for an owner and pool.
func (d *ManagerDirectory) Forget(ctx context.Context, owner asset.Address, poolKey string) error {
	return d.store.Delete(ctx, d.registry.Network(), owner, poolKey)
}

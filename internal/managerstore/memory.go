package managerstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// MemoryStore is an in-memory Repository for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func key(network asset.Network, owner asset.Address, poolKey string) string {
	return fmt.Sprintf("%s|%s|%s", network, owner, poolKey)
}

// Put stores or replaces a record.
func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(rec.Network, rec.Owner, rec.PoolKey)] = rec
	return nil
}

// Get returns the record for a network/owner/pool.
func (s *MemoryStore) Get(_ context.Context, network asset.Network, owner asset.Address, poolKey string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key(network, owner, poolKey)]
	if !ok {
		return Record{}, apperror.New(apperror.CodeNotFound,
			apperror.WithContext(fmt.Sprintf("no manager record for %s/%s on %s", owner, poolKey, network)))
	}
	return rec, nil
}

// List returns all records for a network/owner, newest first.
func (s *MemoryStore) List(_ context.Context, network asset.Network, owner asset.Address) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0)
	for _, rec := range s.records {
		if rec.Network == network && rec.Owner == owner {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a record if present.
func (s *MemoryStore) Delete(_ context.Context, network asset.Network, owner asset.Address, poolKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key(network, owner, poolKey))
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

func validate(rec Record) error {
	if !rec.ID.IsValid() {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("malformed manager id %q", rec.ID)))
	}
	if !rec.Owner.IsValid() {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("malformed owner address %q", rec.Owner)))
	}
	if rec.PoolKey == "" || rec.Network == "" {
		return apperror.New(apperror.CodeRequiredField,
			apperror.WithContext("manager record needs a pool key and network"))
	}
	return nil
}

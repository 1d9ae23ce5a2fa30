package managerstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

const schema = `
CREATE TABLE IF NOT EXISTS margin_managers (
	network    TEXT    NOT NULL,
	owner      TEXT    NOT NULL,
	pool_key   TEXT    NOT NULL,
	manager_id TEXT    NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (network, owner, pool_key)
)`

// SQLiteStore is a Repository backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode survives crashes mid-write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Put stores or replaces a record.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}

	query := `INSERT OR REPLACE INTO margin_managers
		(network, owner, pool_key, manager_id, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		string(rec.Network), rec.Owner.String(), rec.PoolKey,
		rec.ID.String(), rec.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to write manager record: %w", err)
	}
	return nil
}

// Get returns the record for a network/owner/pool.
func (s *SQLiteStore) Get(ctx context.Context, network asset.Network, owner asset.Address, poolKey string) (Record, error) {
	query := `SELECT manager_id, created_at FROM margin_managers
		WHERE network = ? AND owner = ? AND pool_key = ?`

	var id string
	var createdAt int64
	err := s.db.QueryRowContext(ctx, query, string(network), owner.String(), poolKey).
		Scan(&id, &createdAt)
	if err == sql.ErrNoRows {
		return Record{}, apperror.New(apperror.CodeNotFound,
			apperror.WithContext(fmt.Sprintf("no manager record for %s/%s on %s", owner, poolKey, network)))
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read manager record: %w", err)
	}

	return Record{
		ID:        asset.Address(id),
		PoolKey:   poolKey,
		Owner:     owner,
		Network:   network,
		CreatedAt: time.Unix(0, createdAt),
	}, nil
}

// List returns all records for a network/owner, newest first.
func (s *SQLiteStore) List(ctx context.Context, network asset.Network, owner asset.Address) ([]Record, error) {
	query := `SELECT pool_key, manager_id, created_at FROM margin_managers
		WHERE network = ? AND owner = ? ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, string(network), owner.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list manager records: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var poolKey, id string
		var createdAt int64
		if err := rows.Scan(&poolKey, &id, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager record: %w", err)
		}
		out = append(out, Record{
			ID:        asset.Address(id),
			PoolKey:   poolKey,
			Owner:     owner,
			Network:   network,
			CreatedAt: time.Unix(0, createdAt),
		})
	}
	return out, rows.Err()
}

// Delete removes a record if present.
func (s *SQLiteStore) Delete(ctx context.Context, network asset.Network, owner asset.Address, poolKey string) error {
	query := `DELETE FROM margin_managers WHERE network = ? AND owner = ? AND pool_key = ?`
	if _, err := s.db.ExecContext(ctx, query, string(network), owner.String(), poolKey); err != nil {
		return fmt.Errorf("failed to delete manager record: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

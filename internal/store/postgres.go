package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"auroracast/internal/types"
)

// DBTX is the minimal interface shared by *pgxpool.Pool and pgx.Tx, so
// the same store code works inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time assertion that Postgres implements Store.
var _ Store = (*Postgres)(nil)

// Postgres is the PostgreSQL-backed Store. State lives in a single
// key/value table with JSONB values; each key is upserted independently.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a Postgres store on the given connection.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the backing table if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS auroracast_kv (
			key        text PRIMARY KEY,
			value      jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, "creating kv table", err)
	}
	return nil
}

// ReadSnapshot returns the committed snapshot, or nil when none exists.
func (p *Postgres) ReadSnapshot(ctx context.Context) (*types.CachedSnapshot, error) {
	var snap types.CachedSnapshot
	if err := p.readJSON(ctx, keySnapshot, &snap); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// WriteSnapshot commits a snapshot, overwriting any prior one.
func (p *Postgres) WriteSnapshot(ctx context.Context, snap *types.CachedSnapshot) error {
	return p.writeJSON(ctx, keySnapshot, snap)
}

// ReadAlertState returns the persisted alert state, or nil when none has
// been written yet.
func (p *Postgres) ReadAlertState(ctx context.Context) (*types.AlertState, error) {
	var st types.AlertState
	if err := p.readJSON(ctx, keyAlertState, &st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// WriteAlertState persists the alert state, last-write-wins.
func (p *Postgres) WriteAlertState(ctx context.Context, st types.AlertState) error {
	return p.writeJSON(ctx, keyAlertState, st)
}

// readJSON fetches a key's JSONB value into out. Returns pgx.ErrNoRows
// when the key does not exist.
func (p *Postgres) readJSON(ctx context.Context, key string, out any) error {
	var raw []byte
	err := p.db.QueryRow(ctx,
		`SELECT value FROM auroracast_kv WHERE key = $1`, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		return types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("reading key %q", key), err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("decoding key %q", key), err)
	}
	return nil
}

// writeJSON upserts a key's JSONB value.
func (p *Postgres) writeJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("encoding key %q", key), err)
	}

	_, err = p.db.Exec(ctx, `
		INSERT INTO auroracast_kv (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, raw,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("writing key %q", key), err)
	}
	return nil
}

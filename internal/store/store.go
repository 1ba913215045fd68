// Package store provides the key-value persistence layer for the last
// committed visibility snapshot and the alert state. Two backends exist:
// an in-memory store for local runs and tests, and a PostgreSQL store for
// deployments that must survive restarts. All operations are
// last-write-wins on a single logical key; no transactions span keys.
package store

import (
	"context"

	"auroracast/internal/types"
)

// Store is the full key-value contract. The engine consumes only the
// snapshot half (see engine.SnapshotStore); the scheduler uses the alert
// state half.
type Store interface {
	ReadSnapshot(ctx context.Context) (*types.CachedSnapshot, error)
	WriteSnapshot(ctx context.Context, snap *types.CachedSnapshot) error
	ReadAlertState(ctx context.Context) (*types.AlertState, error)
	WriteAlertState(ctx context.Context, st types.AlertState) error
}

// Storage keys. A single logical location per deployment means a single
// snapshot key and a single alert-state key.
const (
	keySnapshot   = "snapshot:current"
	keyAlertState = "alerts:state"
)

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/types"
)

func TestMemory_EmptyReadsReturnNil(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	snap, err := m.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	st, err := m.ReadAlertState(ctx)
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestMemory_SnapshotRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)

	in := &types.CachedSnapshot{
		Evaluation: types.VisibilityEvaluation{
			ID:                "eval-1",
			State:             types.EvaluationFresh,
			AuroraProbability: 62,
			GeneratedAt:       now,
		},
		StoredAt: now,
	}
	require.NoError(t, m.WriteSnapshot(ctx, in))

	out, err := m.ReadSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, *in, *out)

	// The returned value is a copy; mutating it must not affect the store.
	out.Evaluation.AuroraProbability = 0
	again, err := m.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 62.0, again.Evaluation.AuroraProbability)
}

func TestMemory_SnapshotLastWriteWins(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	first := &types.CachedSnapshot{Evaluation: types.VisibilityEvaluation{ID: "a"}}
	second := &types.CachedSnapshot{Evaluation: types.VisibilityEvaluation{ID: "b"}}

	require.NoError(t, m.WriteSnapshot(ctx, first))
	require.NoError(t, m.WriteSnapshot(ctx, second))

	out, err := m.ReadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", out.Evaluation.ID)
}

func TestMemory_AlertStateRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	firedAt := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

	in := types.AlertState{
		Enabled:          true,
		ThresholdPercent: 50,
		LastAlertAt:      firedAt,
	}
	require.NoError(t, m.WriteAlertState(ctx, in))

	out, err := m.ReadAlertState(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

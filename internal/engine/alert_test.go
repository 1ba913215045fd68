package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"auroracast/internal/types"
)

func TestEvaluateAlert_DisabledNeverFires(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	st := types.AlertState{Enabled: false, ThresholdPercent: 10}

	fires, next := EvaluateAlert(95, st, now)

	assert.False(t, fires)
	assert.Equal(t, st, next)
}

func TestEvaluateAlert_BelowThresholdNeverFires(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	st := types.AlertState{Enabled: true, ThresholdPercent: 50}

	fires, next := EvaluateAlert(49.9, st, now)

	assert.False(t, fires)
	assert.Equal(t, st, next)
}

func TestEvaluateAlert_AtThresholdFires(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	st := types.AlertState{Enabled: true, ThresholdPercent: 50}

	fires, next := EvaluateAlert(50, st, now)

	assert.True(t, fires)
	assert.Equal(t, now, next.LastAlertAt)
}

func TestEvaluateAlert_CooldownSuppressesSecondAlert(t *testing.T) {
	st := types.AlertState{Enabled: true, ThresholdPercent: 50}
	first := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

	fires, next := EvaluateAlert(80, st, first)
	assert.True(t, fires)

	// A second qualifying score inside the 3-hour window does not fire.
	fires, again := EvaluateAlert(90, next, first.Add(2*time.Hour))
	assert.False(t, fires)
	assert.Equal(t, first, again.LastAlertAt)

	// Just before the window closes: still suppressed.
	fires, _ = EvaluateAlert(90, next, first.Add(AlertCooldown-time.Second))
	assert.False(t, fires)

	// Once the cooldown has elapsed it fires again.
	later := first.Add(AlertCooldown)
	fires, after := EvaluateAlert(90, next, later)
	assert.True(t, fires)
	assert.Equal(t, later, after.LastAlertAt)
}

func TestEvaluateAlert_ZeroLastAlertFires(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	st := types.AlertState{Enabled: true, ThresholdPercent: 30}

	fires, next := EvaluateAlert(60, st, now)

	assert.True(t, fires)
	assert.Equal(t, now, next.LastAlertAt)
}

func TestAlertScore_PrefersCombinedScore(t *testing.T) {
	score := 12.5
	eval := &types.VisibilityEvaluation{
		AuroraProbability: 80,
		Score:             &score,
	}

	assert.Equal(t, 12.5, AlertScore(eval))
}

func TestAlertScore_FallsBackToRawProbability(t *testing.T) {
	eval := &types.VisibilityEvaluation{AuroraProbability: 80}

	assert.Equal(t, 80.0, AlertScore(eval))
}

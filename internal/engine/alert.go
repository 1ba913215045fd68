package engine

import (
	"time"

	"auroracast/internal/types"
)

// AlertCooldown is the fixed anti-spam window between fired alerts.
const AlertCooldown = 3 * time.Hour

// EvaluateAlert is the pure alert gate decision: given the current score,
// the user's alert state, and the current time, it decides whether a new
// alert fires and returns the would-be new state. The gate does not own
// persistence; the caller commits the returned state only when fires is
// true.
//
// The gate declines when alerts are disabled, when the score is below the
// threshold, or when the previous alert is still inside the cooldown.
func EvaluateAlert(score float64, st types.AlertState, now time.Time) (fires bool, next types.AlertState) {
	if !st.Enabled {
		return false, st
	}
	if score < float64(st.ThresholdPercent) {
		return false, st
	}
	if !st.LastAlertAt.IsZero() && now.Sub(st.LastAlertAt) < AlertCooldown {
		return false, st
	}

	next = st
	next.LastAlertAt = now
	return true, next
}

// AlertScore selects the score the gate evaluates: the combined visibility
// score when weather was available, otherwise the raw aurora probability
// as the documented substitute.
func AlertScore(eval *types.VisibilityEvaluation) float64 {
	if eval.Score != nil {
		return *eval.Score
	}
	return eval.AuroraProbability
}

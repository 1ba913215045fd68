// Package scheduler owns the evaluation cadence: it ticks the engine on a
// fixed interval, keeps the latest evaluation available to the HTTP layer,
// and drives the alert gate and its publishers.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"auroracast/internal/engine"
	"auroracast/internal/notifications"
	"auroracast/internal/store"
	"auroracast/internal/types"
)

// Runner evaluates one configured location on a fixed interval. The first
// tick runs immediately so the service has data as soon as it starts.
type Runner struct {
	engine     *engine.Engine
	store      store.Store
	publishers []notifications.Publisher
	lat        float64
	lon        float64
	interval   time.Duration
	defaults   types.AlertState
	clock      types.Clock
	logger     *slog.Logger

	mu     sync.RWMutex
	latest *types.VisibilityEvaluation
}

// NewRunner creates a Runner. The defaults alert state applies until a
// caller persists an explicit one through the settings endpoint.
func NewRunner(
	eng *engine.Engine,
	st store.Store,
	publishers []notifications.Publisher,
	lat, lon float64,
	interval time.Duration,
	defaults types.AlertState,
	clock types.Clock,
	logger *slog.Logger,
) *Runner {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:     eng,
		store:      st,
		publishers: publishers,
		lat:        lat,
		lon:        lon,
		interval:   interval,
		defaults:   defaults,
		clock:      clock,
		logger:     logger,
	}
}

// Latest returns the most recent evaluation, or nil before the first tick
// completes.
func (r *Runner) Latest() *types.VisibilityEvaluation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Run ticks until the context is cancelled. The first tick fires
// immediately; subsequent ticks follow the configured interval.
func (r *Runner) Run(ctx context.Context) error {
	r.Tick(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs one evaluation cycle: evaluate, publish the result for the
// HTTP layer, and run the alert gate. Tick never fails; every error is
// logged and the next tick starts clean.
func (r *Runner) Tick(ctx context.Context) {
	eval := r.engine.Evaluate(ctx, r.lat, r.lon)

	r.mu.Lock()
	r.latest = eval
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "evaluation tick completed",
		"evaluation_id", eval.ID,
		"state", string(eval.State),
		"aurora_probability", eval.AuroraProbability,
		"cached", eval.IsCached,
	)

	r.runAlertGate(ctx, eval)
}

// runAlertGate loads the alert state (falling back to configured defaults),
// asks the engine whether the evaluation fires, and on fire publishes to
// all channels and persists the updated state.
func (r *Runner) runAlertGate(ctx context.Context, eval *types.VisibilityEvaluation) {
	st, err := r.store.ReadAlertState(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "alert state read failed, skipping alert gate",
			"error", err,
		)
		return
	}
	if st == nil {
		defaults := r.defaults
		st = &defaults
	}

	fires, next := r.engine.ShouldAlert(eval, *st)
	if !fires {
		return
	}

	msg := types.AlertMessage{
		ID:               uuid.NewString(),
		Score:            engine.AlertScore(eval),
		ThresholdPercent: st.ThresholdPercent,
		State:            eval.State,
		Lat:              eval.Lat,
		Lon:              eval.Lon,
		FiredAt:          r.clock.Now(),
	}

	for _, pub := range r.publishers {
		if err := pub.Publish(ctx, msg); err != nil {
			r.logger.ErrorContext(ctx, "alert publish failed",
				"alert_id", msg.ID,
				"error", err,
			)
		}
	}

	if err := r.store.WriteAlertState(ctx, next); err != nil {
		// Worst case the cooldown restarts from the old timestamp and the
		// next tick may re-fire; delivery stays at-least-once.
		r.logger.ErrorContext(ctx, "alert state write failed",
			"alert_id", msg.ID,
			"error", err,
		)
	}
}

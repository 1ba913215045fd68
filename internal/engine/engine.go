package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"auroracast/internal/types"
)

// DataSource is the external provider of the probability grid and the
// local weather. Both operations are idempotent, side-effect free, and
// expected to complete or fail within a bounded host-defined timeout.
// Failures are ordinary inputs to the freshness controller, never fatal.
type DataSource interface {
	FetchGrid(ctx context.Context) (Grid, error)
	FetchWeather(ctx context.Context, lat, lon float64) (*types.WeatherSnapshot, error)
}

// SnapshotStore is the subset of the key-value store the engine needs:
// reading the last committed snapshot and committing a fresh one.
// Writes are last-write-wins; there is exactly one logical snapshot.
type SnapshotStore interface {
	ReadSnapshot(ctx context.Context) (*types.CachedSnapshot, error)
	WriteSnapshot(ctx context.Context, snap *types.CachedSnapshot) error
}

// Engine produces one VisibilityEvaluation per invocation. It is
// synchronous and stateless per tick apart from the committed snapshot;
// the host scheduler owns cadence and retries.
type Engine struct {
	source DataSource
	store  SnapshotStore
	clock  types.Clock
	logger *slog.Logger
}

// New creates an Engine with the given collaborators.
func New(source DataSource, store SnapshotStore, clock types.Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source: source,
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Evaluate runs one tick for the given coordinate and never fails: every
// failure mode degrades to a cached or no-data evaluation.
//
// Outcomes:
//   - Fresh: the grid fetch succeeded. Weather is optional; if it failed,
//     the evaluation is aurora-only and carries no combined score. The
//     fresh evaluation is committed to the store unconditionally,
//     overwriting the prior snapshot.
//   - Cached: the grid fetch failed and a committed snapshot exists. The
//     snapshot's values are returned with IsCached set and Age = now
//     minus the commit time.
//   - NoData: the grid fetch failed and no snapshot exists.
func (e *Engine) Evaluate(ctx context.Context, lat, lon float64) *types.VisibilityEvaluation {
	now := e.clock.Now()

	grid, err := e.source.FetchGrid(ctx)
	if err != nil {
		e.logger.WarnContext(ctx, "grid fetch failed, falling back to snapshot",
			"error", err,
		)
		return e.fallback(ctx, now, lat, lon)
	}

	eval := &types.VisibilityEvaluation{
		ID:                uuid.NewString(),
		State:             types.EvaluationFresh,
		Lat:               lat,
		Lon:               lon,
		AuroraProbability: ProbabilityAt(grid, lat, lon),
		GeneratedAt:       now,
	}

	wx, err := e.source.FetchWeather(ctx, lat, lon)
	if err != nil {
		// Aurora-only evaluation is still fresh; only the combined
		// score is absent.
		e.logger.WarnContext(ctx, "weather fetch failed, aurora-only evaluation",
			"error", err,
		)
	} else {
		darkness := SnapshotDarkness(wx, now)
		score := Combine(eval.AuroraProbability, wx.CloudCover, darkness)
		cloud := wx.CloudCover
		eval.Score = &score
		eval.CloudCover = &cloud
		eval.Darkness = &darkness
	}

	snap := &types.CachedSnapshot{
		Evaluation: *eval,
		StoredAt:   now,
	}
	if err := e.store.WriteSnapshot(ctx, snap); err != nil {
		// The evaluation is still valid for this tick; the next tick
		// rebuilds everything from scratch anyway.
		e.logger.ErrorContext(ctx, "snapshot commit failed",
			"error", err,
		)
	}

	return eval
}

// fallback reads the last committed snapshot and surfaces it as cached,
// or reports the explicit no-data state when none exists.
func (e *Engine) fallback(ctx context.Context, now time.Time, lat, lon float64) *types.VisibilityEvaluation {
	snap, err := e.store.ReadSnapshot(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "snapshot read failed",
			"error", err,
		)
		snap = nil
	}

	if snap == nil {
		return &types.VisibilityEvaluation{
			ID:          uuid.NewString(),
			State:       types.EvaluationNoData,
			Lat:         lat,
			Lon:         lon,
			GeneratedAt: now,
		}
	}

	eval := snap.Evaluation
	eval.State = types.EvaluationCached
	eval.IsCached = true
	eval.Age = now.Sub(snap.StoredAt)
	if eval.Age < 0 {
		eval.Age = 0
	}
	return &eval
}

// ShouldAlert runs the alert gate against an evaluation. It returns
// whether an alert fires and the alert state the caller must persist when
// it does. No-data evaluations never fire.
func (e *Engine) ShouldAlert(eval *types.VisibilityEvaluation, st types.AlertState) (bool, types.AlertState) {
	if eval == nil || eval.State == types.EvaluationNoData {
		return false, st
	}
	return EvaluateAlert(AlertScore(eval), st, e.clock.Now())
}

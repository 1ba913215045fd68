package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"auroracast/internal/types"
)

func tptr(t time.Time) *time.Time { return &t }

func TestDarknessFactor_MissingBoundsReturnNeutral(t *testing.T) {
	now := time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)
	sunrise := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	sunset := time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)

	assert.Equal(t, 0.5, DarknessFactor(nil, nil, now))
	assert.Equal(t, 0.5, DarknessFactor(tptr(sunrise), nil, now))
	assert.Equal(t, 0.5, DarknessFactor(nil, tptr(sunset), now))
}

func TestDarknessFactor_DaytimeIsZero(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 4, 30, 0, 0, time.UTC)
	sunset := time.Date(2026, 6, 1, 21, 15, 0, 0, time.UTC)

	for _, now := range []time.Time{
		sunrise.Add(time.Minute),
		time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		sunset.Add(-time.Minute),
	} {
		assert.Equal(t, 0.0, DarknessFactor(tptr(sunrise), tptr(sunset), now), "now=%v", now)
	}
}

func TestDarknessFactor_EveningTwilightRamp(t *testing.T) {
	sunrise := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	sunset := time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		offset time.Duration
		want   float64
	}{
		{0, 0},
		{15 * time.Minute, 0.5},
		{30 * time.Minute, 1},
		{2 * time.Hour, 1},
	}

	for _, tt := range tests {
		got := DarknessFactor(tptr(sunrise), tptr(sunset), sunset.Add(tt.offset))
		assert.InDelta(t, tt.want, got, 1e-9, "offset=%v", tt.offset)
	}
}

func TestDarknessFactor_MorningTwilightRamp(t *testing.T) {
	sunrise := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	sunset := time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		before time.Duration
		want   float64
	}{
		{30 * time.Minute, 1},
		{15 * time.Minute, 0.5},
		{0, 0},
	}

	for _, tt := range tests {
		got := DarknessFactor(tptr(sunrise), tptr(sunset), sunrise.Add(-tt.before))
		assert.InDelta(t, tt.want, got, 1e-9, "before=%v", tt.before)
	}
}

func TestDarknessFactor_DeepNightAcrossMidnight(t *testing.T) {
	// Early morning hours well before sunrise: full darkness even though
	// the clock has rolled past midnight.
	sunrise := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	sunset := time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)
	now := time.Date(2026, 1, 15, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, DarknessFactor(tptr(sunrise), tptr(sunset), now))
}

func TestSnapshotDarkness_PolarStates(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	night := &types.WeatherSnapshot{SunCondition: types.SunPolarNight}
	day := &types.WeatherSnapshot{SunCondition: types.SunPolarDay}

	assert.Equal(t, 1.0, SnapshotDarkness(night, now))
	assert.Equal(t, 0.0, SnapshotDarkness(day, now))
}

func TestSnapshotDarkness_NormalFallsThroughToModel(t *testing.T) {
	sunset := time.Date(2026, 1, 15, 15, 45, 0, 0, time.UTC)
	sunrise := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	wx := &types.WeatherSnapshot{
		SunCondition: types.SunNormal,
		Sunrise:      tptr(sunrise),
		Sunset:       tptr(sunset),
	}

	assert.InDelta(t, 0.5, SnapshotDarkness(wx, sunset.Add(15*time.Minute)), 1e-9)
}

package fetchers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auroracast/internal/types"
)

func TestComputeSunTimes_MidLatitude(t *testing.T) {
	date := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	sunrise, sunset, cond := ComputeSunTimes(60.17, 24.94, date)

	assert.Equal(t, types.SunNormal, cond)
	require.NotNil(t, sunrise)
	require.NotNil(t, sunset)
	assert.True(t, sunrise.Before(*sunset))
	assert.Equal(t, date.YearDay(), sunrise.YearDay())
}

func TestComputeSunTimes_PolarDay(t *testing.T) {
	// Svalbard in late June: the sun never sets.
	date := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)

	sunrise, sunset, cond := ComputeSunTimes(78.2, 15.6, date)

	assert.Equal(t, types.SunPolarDay, cond)
	assert.Nil(t, sunrise)
	assert.Nil(t, sunset)
}

func TestComputeSunTimes_PolarNight(t *testing.T) {
	// Svalbard in late December: the sun never rises.
	date := time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC)

	sunrise, sunset, cond := ComputeSunTimes(78.2, 15.6, date)

	assert.Equal(t, types.SunPolarNight, cond)
	assert.Nil(t, sunrise)
	assert.Nil(t, sunset)
}

func TestComputeSunTimes_SouthernHemisphereSeasonsFlip(t *testing.T) {
	// Antarctic coast in late June is local winter: polar night.
	date := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)

	_, _, cond := ComputeSunTimes(-78.0, 166.0, date)

	assert.Equal(t, types.SunPolarNight, cond)
}

package engine

import (
	"time"

	"auroracast/internal/types"
)

// TwilightWindow is the length of the linear transition between daylight
// and full darkness after sunset and before sunrise.
const TwilightWindow = 30 * time.Minute

// DarknessFactor converts sunrise/sunset timestamps and "now" into a
// continuous factor in [0,1]: 0 in daylight, 1 in deep night, a linear
// ramp across the twilight window on each side.
//
// Comparisons use full timestamps rather than minute-of-day, so the model
// behaves across midnight rollovers as long as the supplied bounds carry
// the evaluation date. If either bound is absent the factor is a neutral
// 0.5: "unknown" must not suppress a real aurora signal entirely.
func DarknessFactor(sunrise, sunset *time.Time, now time.Time) float64 {
	if sunrise == nil || sunset == nil {
		return 0.5
	}

	switch {
	case !now.Before(*sunset):
		return rampFraction(now.Sub(*sunset))
	case !now.After(*sunrise):
		return rampFraction(sunrise.Sub(now))
	default:
		// Strictly between sunrise and sunset: daylight.
		return 0
	}
}

// SnapshotDarkness computes the darkness factor for a weather snapshot,
// honoring explicit polar states before falling back to the sunrise/sunset
// model. Permanent night maps to 1, permanent day to 0; these are known
// states and must not degrade to the neutral 0.5 default.
func SnapshotDarkness(wx *types.WeatherSnapshot, now time.Time) float64 {
	switch wx.SunCondition {
	case types.SunPolarNight:
		return 1
	case types.SunPolarDay:
		return 0
	}
	return DarknessFactor(wx.Sunrise, wx.Sunset, now)
}

// rampFraction maps a distance into the twilight window onto [0,1],
// clamping to 1 beyond the window.
func rampFraction(d time.Duration) float64 {
	if d >= TwilightWindow {
		return 1
	}
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(TwilightWindow)
}

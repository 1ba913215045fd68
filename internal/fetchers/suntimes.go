package fetchers

import (
	"time"

	"github.com/sj14/astral/pkg/astral"

	"auroracast/internal/types"
)

// ComputeSunTimes calculates sunrise and sunset for a coordinate and date.
// It is the fallback for weather payloads that omit the sun times.
//
// At high latitudes the sun may not rise or set on the given date; astral
// reports that as an error, which is mapped to an explicit polar state
// rather than an unknown. Which polar state applies is decided from the
// hemisphere and season: local summer means the sun never sets, local
// winter means it never rises.
func ComputeSunTimes(lat, lon float64, date time.Time) (sunrise, sunset *time.Time, cond types.SunCondition) {
	obs := astral.Observer{Latitude: lat, Longitude: lon}

	rise, riseErr := astral.Sunrise(obs, date)
	set, setErr := astral.Sunset(obs, date)
	if riseErr != nil || setErr != nil {
		return nil, nil, polarCondition(lat, date)
	}

	rise = rise.UTC()
	set = set.UTC()
	return &rise, &set, types.SunNormal
}

// polarCondition decides between permanent day and permanent night for a
// date without sunrise/sunset. Northern-hemisphere summer (and
// southern-hemisphere winter months) means polar day.
func polarCondition(lat float64, date time.Time) types.SunCondition {
	northernSummer := date.Month() >= time.April && date.Month() <= time.September
	if (lat >= 0) == northernSummer {
		return types.SunPolarDay
	}
	return types.SunPolarNight
}

// Package types defines the core domain model for the AuroraCast service:
// the OVATION grid sample points, weather snapshots, visibility evaluations,
// and alert state, plus the shared error taxonomy and interfaces.
package types

import "time"

// GridPoint is a single sample from the OVATION probability grid.
// Longitude is 0-359 degrees east, latitude is -90..90, probability is 0-100.
// Points are immutable and produced only by parsing the upstream grid payload.
type GridPoint struct {
	Lon         int `json:"lon"`
	Lat         int `json:"lat"`
	Probability int `json:"probability"`
}

// SunCondition describes the day/night regime carried by a WeatherSnapshot.
// At high latitudes the sun may not rise or set on a given date; those
// states are explicit so the darkness model never has to guess.
type SunCondition string

const (
	// SunNormal means sunrise and sunset both occur on the evaluation date.
	SunNormal SunCondition = "normal"
	// SunPolarDay means the sun never sets (permanent day, darkness 0).
	SunPolarDay SunCondition = "polar_day"
	// SunPolarNight means the sun never rises (permanent night, darkness 1).
	SunPolarNight SunCondition = "polar_night"
)

// WeatherSnapshot is the local weather state used to attenuate the raw
// aurora probability. Sunrise and Sunset may be nil when the upstream
// payload omits them and no computed fallback is available; the darkness
// model treats that as "unknown" rather than an error.
type WeatherSnapshot struct {
	CloudCover    int          `json:"cloud_cover"`
	Sunrise       *time.Time   `json:"sunrise,omitempty"`
	Sunset        *time.Time   `json:"sunset,omitempty"`
	TemperatureC  *float64     `json:"temperature_c,omitempty"`
	ConditionCode *int         `json:"condition_code,omitempty"`
	SunCondition  SunCondition `json:"sun_condition"`
}

// EvaluationState classifies the provenance of a VisibilityEvaluation.
type EvaluationState string

const (
	// EvaluationFresh means the grid fetch succeeded this tick. Weather is
	// optional: an aurora-only evaluation with no combined score is still fresh.
	EvaluationFresh EvaluationState = "fresh"
	// EvaluationCached means the fetch failed and the last committed
	// snapshot is being surfaced, tagged with its age.
	EvaluationCached EvaluationState = "cached"
	// EvaluationNoData means the fetch failed and no snapshot exists.
	// This is an explicit state: a zero score is a legitimate aurora
	// reading and must never be confused with absence of data.
	EvaluationNoData EvaluationState = "no_data"
)

// VisibilityEvaluation is the result of one engine invocation. It is
// created every tick and superseded, never mutated, by the next tick.
// Score, CloudCover and Darkness are nil when weather was unavailable.
type VisibilityEvaluation struct {
	ID                string          `json:"id"`
	State             EvaluationState `json:"state"`
	Lat               float64         `json:"lat"`
	Lon               float64         `json:"lon"`
	AuroraProbability float64         `json:"aurora_probability"`
	Score             *float64        `json:"score,omitempty"`
	CloudCover        *int            `json:"cloud_cover,omitempty"`
	Darkness          *float64        `json:"darkness,omitempty"`
	GeneratedAt       time.Time       `json:"generated_at"`
	IsCached          bool            `json:"is_cached"`
	// Age is how long ago the underlying data was computed. Zero for
	// fresh evaluations, always >= 0 for cached ones.
	Age time.Duration `json:"-"`
}

// CachedSnapshot is the last successfully computed evaluation plus its
// commit timestamp, persisted by the store. Read-only to the engine except
// for the single commit after a successful fetch.
type CachedSnapshot struct {
	Evaluation VisibilityEvaluation `json:"evaluation"`
	StoredAt   time.Time            `json:"stored_at"`
}

// AlertState holds the user's alert configuration and the anti-spam
// timestamp. It is mutated only by the alert gate's commit step when an
// alert fires.
type AlertState struct {
	Enabled          bool      `json:"enabled"`
	ThresholdPercent int       `json:"threshold_percent" validate:"min=1,max=100"`
	LastAlertAt      time.Time `json:"last_alert_at"`
}

// AlertMessage is the payload handed to alert publishers when the gate fires.
type AlertMessage struct {
	ID               string          `json:"id"`
	Score            float64         `json:"score"`
	ThresholdPercent int             `json:"threshold_percent"`
	State            EvaluationState `json:"state"`
	Lat              float64         `json:"lat"`
	Lon              float64         `json:"lon"`
	FiredAt          time.Time       `json:"fired_at"`
}

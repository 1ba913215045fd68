package fetchers

import "auroracast/internal/engine"

// Compile-time assertion that Source satisfies the engine's DataSource.
var _ engine.DataSource = (*Source)(nil)

// Source bundles the grid and weather fetchers into the single DataSource
// the engine consumes.
type Source struct {
	*OvationSource
	*WeatherSource
}

// NewSource creates the combined data source.
func NewSource(ovation *OvationSource, weather *WeatherSource) *Source {
	return &Source{
		OvationSource: ovation,
		WeatherSource: weather,
	}
}

package fetchers

import (
	"context"
	"log/slog"

	"auroracast/internal/engine"
	"auroracast/internal/types"
)

// DefaultOvationURL is the NOAA OVATION latest forecast endpoint.
const DefaultOvationURL = "https://services.swpc.noaa.gov/json/ovation_aurora_latest.json"

// ovationResponse mirrors the NOAA OVATION payload. Coordinates is a flat
// list of [longitude, latitude, probability] integer triples covering the
// whole globe at one-degree resolution.
type ovationResponse struct {
	ObservationTime string  `json:"Observation Time"`
	ForecastTime    string  `json:"Forecast Time"`
	Coordinates     [][]int `json:"coordinates"`
}

// OvationSource fetches and indexes the OVATION probability grid.
type OvationSource struct {
	client *Client
	url    string
	logger *slog.Logger
}

// NewOvationSource creates an OvationSource against the given endpoint.
func NewOvationSource(client *Client, url string, logger *slog.Logger) *OvationSource {
	if url == "" {
		url = DefaultOvationURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OvationSource{
		client: client,
		url:    url,
		logger: logger,
	}
}

// FetchGrid downloads the latest OVATION forecast and builds a fresh Grid.
// Malformed coordinate triples are skipped rather than failing the whole
// payload; the interpolator treats the resulting gaps as "no signal".
func (s *OvationSource) FetchGrid(ctx context.Context) (engine.Grid, error) {
	var payload ovationResponse
	if err := s.client.getJSON(ctx, types.ErrCodeUpstreamAurora, s.url, nil, &payload); err != nil {
		return nil, err
	}

	points := make([]types.GridPoint, 0, len(payload.Coordinates))
	skipped := 0
	for _, coord := range payload.Coordinates {
		if len(coord) < 3 {
			skipped++
			continue
		}
		points = append(points, types.GridPoint{
			Lon:         coord[0],
			Lat:         coord[1],
			Probability: coord[2],
		})
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped malformed grid coordinates",
			"skipped", skipped,
			"total", len(payload.Coordinates),
		)
	}

	s.logger.InfoContext(ctx, "fetched ovation grid",
		"points", len(points),
		"forecast_time", payload.ForecastTime,
	)

	return engine.BuildGrid(points), nil
}

package fetchers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"auroracast/internal/types"
)

// DefaultWeatherURL is the Open-Meteo forecast endpoint.
const DefaultWeatherURL = "https://api.open-meteo.com/v1/forecast"

// weatherTimeLayout is the minute-resolution ISO layout Open-Meteo uses
// when asked for UTC timestamps.
const weatherTimeLayout = "2006-01-02T15:04"

// weatherResponse mirrors the subset of the Open-Meteo payload we request.
type weatherResponse struct {
	Current struct {
		Time          string  `json:"time"`
		CloudCover    int     `json:"cloud_cover"`
		Temperature2M float64 `json:"temperature_2m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Sunrise []string `json:"sunrise"`
		Sunset  []string `json:"sunset"`
	} `json:"daily"`
}

// WeatherSource fetches local cloud cover and sun times from Open-Meteo.
type WeatherSource struct {
	client *Client
	url    string
	clock  types.Clock
	logger *slog.Logger
}

// NewWeatherSource creates a WeatherSource against the given endpoint.
func NewWeatherSource(client *Client, url string, clock types.Clock, logger *slog.Logger) *WeatherSource {
	if url == "" {
		url = DefaultWeatherURL
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherSource{
		client: client,
		url:    url,
		clock:  clock,
		logger: logger,
	}
}

// FetchWeather requests the current conditions and today's sun times for
// a coordinate. When the payload omits or garbles sunrise/sunset, they
// are computed locally instead; a computed polar day/night is carried as
// an explicit state on the snapshot.
func (s *WeatherSource) FetchWeather(ctx context.Context, lat, lon float64) (*types.WeatherSnapshot, error) {
	query := map[string]string{
		"latitude":      strconv.FormatFloat(lat, 'f', 4, 64),
		"longitude":     strconv.FormatFloat(lon, 'f', 4, 64),
		"current":       "cloud_cover,temperature_2m,weather_code",
		"daily":         "sunrise,sunset",
		"forecast_days": "1",
		"timezone":      "UTC",
	}

	var payload weatherResponse
	if err := s.client.getJSON(ctx, types.ErrCodeUpstreamWeather, s.url, query, &payload); err != nil {
		return nil, err
	}

	temp := payload.Current.Temperature2M
	code := payload.Current.WeatherCode
	wx := &types.WeatherSnapshot{
		CloudCover:    clampPercent(payload.Current.CloudCover),
		TemperatureC:  &temp,
		ConditionCode: &code,
		SunCondition:  types.SunNormal,
	}

	sunrise := parseFirstTime(payload.Daily.Sunrise)
	sunset := parseFirstTime(payload.Daily.Sunset)
	if sunrise == nil || sunset == nil {
		s.logger.WarnContext(ctx, "weather payload missing sun times, computing locally",
			"lat", lat,
			"lon", lon,
		)
		sunrise, sunset, wx.SunCondition = ComputeSunTimes(lat, lon, s.clock.Now())
	}
	wx.Sunrise = sunrise
	wx.Sunset = sunset

	return wx, nil
}

// parseFirstTime parses the first entry of a daily time series, returning
// nil when the series is empty or unparsable.
func parseFirstTime(series []string) *time.Time {
	if len(series) == 0 || series[0] == "" {
		return nil
	}
	t, err := time.Parse(weatherTimeLayout, series[0])
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

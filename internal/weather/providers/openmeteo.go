package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	currentFields = "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m"
	searchCount   = 10
)

// OpenMeteoConfig holds the endpoints and breaker settings for OpenMeteoClient.
// Zero values select the public Open-Meteo endpoints and DefaultBreaker.
type OpenMeteoConfig struct {
	ForecastURL  string
	GeocodingURL string
	Breaker      BreakerConfig
}

// OpenMeteoClient implements weather.WeatherClient against Open-Meteo.
type OpenMeteoClient struct {
	forecastURL  string
	geocodingURL string
	client       *http.Client
	forecastCB   *gobreaker.CircuitBreaker
	geocodingCB  *gobreaker.CircuitBreaker
}

var _ weather.WeatherClient = (*OpenMeteoClient)(nil)

func NewOpenMeteoClient(client *http.Client, cfg OpenMeteoConfig) *OpenMeteoClient {
	if cfg.ForecastURL == "" {
		cfg.ForecastURL = DefaultForecastURL
	}
	if cfg.GeocodingURL == "" {
		cfg.GeocodingURL = DefaultGeocodingURL
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreaker
	}

	return &OpenMeteoClient{
		forecastURL:  cfg.ForecastURL,
		geocodingURL: cfg.GeocodingURL,
		client:       client,
		forecastCB:   newBreaker("openmeteo-forecast", cfg.Breaker),
		geocodingCB:  newBreaker("openmeteo-geocoding", cfg.Breaker),
	}
}

type forecastPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Current   *struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
		WindSpeed   float64 `json:"wind_speed_10m"`
		Humidity    *int    `json:"relative_humidity_2m"`
	} `json:"current"`
}

// FetchWeather returns the current conditions at coords.
func (c *OpenMeteoClient) FetchWeather(ctx context.Context, coords weather.Coordinates) (weather.WeatherSnapshot, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
		values.Set("current", currentFields)
		values.Set("timezone", "auto")

		return newGet(c.forecastURL, values)
	}

	body, err := doRequest(ctx, c.client, c.forecastCB, buildRequest)
	if err != nil {
		return weather.WeatherSnapshot{}, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.WeatherSnapshot{}, &weather.NetworkError{Kind: weather.NetworkDecodingError, Cause: err}
	}
	if payload.Current == nil {
		return weather.WeatherSnapshot{}, &weather.NetworkError{
			Kind:  weather.NetworkDecodingError,
			Cause: fmt.Errorf("response has no current block"),
		}
	}

	return weather.WeatherSnapshot{
		Coordinates:   weather.Coordinates{Latitude: payload.Latitude, Longitude: payload.Longitude},
		Timezone:      payload.Timezone,
		Temperature:   payload.Current.Temperature,
		ConditionCode: payload.Current.WeatherCode,
		WindSpeedKmh:  payload.Current.WindSpeed,
		HumidityPct:   payload.Current.Humidity,
		ObservedAt:    parseObservedAt(payload.Current.Time),
	}, nil
}

type geocodingPayload struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

// SearchCities returns up to ten geocoding matches for query. An empty query
// returns no candidates without touching the network.
func (c *OpenMeteoClient) SearchCities(ctx context.Context, query string) ([]weather.CityCandidate, error) {
	if query == "" {
		return []weather.CityCandidate{}, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", strconv.Itoa(searchCount))
		values.Set("language", "en")
		values.Set("format", "json")

		return newGet(c.geocodingURL, values)
	}

	body, err := doRequest(ctx, c.client, c.geocodingCB, buildRequest)
	if err != nil {
		return nil, err
	}

	var payload geocodingPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &weather.NetworkError{Kind: weather.NetworkDecodingError, Cause: err}
	}

	candidates := make([]weather.CityCandidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		candidates = append(candidates, weather.CityCandidate{
			Name:        r.Name,
			Coordinates: weather.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
			Country:     r.Country,
			Region:      r.Admin1,
		})
	}
	return candidates, nil
}

func newGet(base string, values url.Values) (*http.Request, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.RawQuery = values.Encode()
	return http.NewRequest(http.MethodGet, u.String(), nil)
}

// Open-Meteo reports local time without seconds or offset ("2024-01-01T12:00");
// full RFC 3339 is accepted too.
var observedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseObservedAt(s string) time.Time {
	for _, layout := range observedAtLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Now().UTC()
}

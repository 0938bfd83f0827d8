package weather

import (
	"context"
)

// LocationSource abstracts the device location sensor.
// Failures are *LocationError values.
type LocationSource interface {
	GetCurrentLocation(ctx context.Context) (Coordinates, error)
}

// WeatherClient abstracts the forecast and geocoding endpoints.
// Failures are *NetworkError values.
type WeatherClient interface {
	FetchWeather(ctx context.Context, coords Coordinates) (WeatherSnapshot, error)
	SearchCities(ctx context.Context, query string) ([]CityCandidate, error)
}

// HistoryStore is the contract for persisted search history.
// Failures are *StorageError values.
type HistoryStore interface {
	Save(ctx context.Context, entries []HistoryEntry) error
	Load(ctx context.Context) ([]HistoryEntry, error)
	Clear(ctx context.Context) error
}

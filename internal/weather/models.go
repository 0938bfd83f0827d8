package weather

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Coordinates is a geographic point. Comparable with ==.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// WeatherSnapshot is the decoded "current" block of a forecast response.
type WeatherSnapshot struct {
	Coordinates   Coordinates `json:"coordinates"`
	Timezone      string      `json:"timezone,omitempty"`
	Temperature   float64     `json:"temperatureC"`
	ConditionCode int         `json:"conditionCode"`
	WindSpeedKmh  float64     `json:"windSpeedKmh"`
	HumidityPct   *int        `json:"humidityPercent,omitempty"`
	ObservedAt    time.Time   `json:"observedAt"`
}

// CityCandidate is a single geocoding match.
type CityCandidate struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	Country     string      `json:"country,omitempty"`
	Region      string      `json:"region,omitempty"`
}

// DisplayName joins name, region and country, skipping the empty parts.
func (c CityCandidate) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Region, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// HistoryEntry records one successful search-originated weather lookup.
// Entries are identified by ID, not by city name.
type HistoryEntry struct {
	ID          uuid.UUID   `json:"id"`
	CityName    string      `json:"cityName"`
	Coordinates Coordinates `json:"coordinates"`
	SearchedAt  time.Time   `json:"searchedAt"`
}

// NewHistoryEntry builds an entry for the candidate with a fresh random ID.
func NewHistoryEntry(c CityCandidate, at time.Time) HistoryEntry {
	return HistoryEntry{
		ID:          uuid.New(),
		CityName:    c.DisplayName(),
		Coordinates: c.Coordinates,
		SearchedAt:  at.UTC(),
	}
}

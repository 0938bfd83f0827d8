package location

import (
	"github.com/i474232898/weather-lookup/internal/weather"
)

// StaticSensor reports a fixed position. Without a position it behaves like a
// device whose user refused location access.
type StaticSensor struct {
	coords *weather.Coordinates
}

var _ Sensor = (*StaticSensor)(nil)

func NewStaticSensor(coords *weather.Coordinates) *StaticSensor {
	return &StaticSensor{coords: coords}
}

func (s *StaticSensor) Authorization() Authorization {
	if s.coords == nil {
		return Denied
	}
	return Authorized
}

func (s *StaticSensor) RequestPermission() {}

func (s *StaticSensor) RequestLocation(onUpdate func([]weather.Coordinates), _ func(error)) {
	fix := *s.coords
	go onUpdate([]weather.Coordinates{fix})
}

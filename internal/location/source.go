// Package location bridges a callback-style location sensor into a blocking
// weather.LocationSource.
package location

import (
	"context"
	"errors"
	"sync"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Authorization is the sensor's permission status.
type Authorization int

const (
	NotDetermined Authorization = iota
	Restricted
	Denied
	Authorized
)

// ErrSensorDenied is reported through a sensor's failure callback when the
// platform revokes access mid-request.
var ErrSensorDenied = errors.New("location access denied by sensor")

// Sensor is a platform location provider. RequestLocation must return
// promptly and deliver its outcome later through one of the callbacks.
// Misbehaving sensors may invoke the callbacks more than once.
type Sensor interface {
	Authorization() Authorization
	RequestPermission()
	RequestLocation(onUpdate func([]weather.Coordinates), onFail func(error))
}

// Source implements weather.LocationSource on top of a Sensor.
type Source struct {
	sensor Sensor
}

var _ weather.LocationSource = (*Source)(nil)

func NewSource(sensor Sensor) *Source {
	return &Source{sensor: sensor}
}

// GetCurrentLocation checks authorization and then waits for one sensor fix.
func (s *Source) GetCurrentLocation(ctx context.Context) (weather.Coordinates, error) {
	switch s.sensor.Authorization() {
	case Authorized:
	case NotDetermined:
		s.sensor.RequestPermission()
		return weather.Coordinates{}, &weather.LocationError{Kind: weather.LocationPermissionDenied}
	default:
		return weather.Coordinates{}, &weather.LocationError{Kind: weather.LocationPermissionDenied}
	}

	p := newPromise()
	s.sensor.RequestLocation(p.update, p.fail)

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, &weather.LocationError{Kind: weather.LocationUnknown, Cause: ctx.Err()}
	case <-p.done:
		return p.coords, p.err
	}
}

// promise resolves once; later callbacks are dropped.
type promise struct {
	once   sync.Once
	done   chan struct{}
	coords weather.Coordinates
	err    error
}

func newPromise() *promise {
	return &promise{done: make(chan struct{})}
}

func (p *promise) update(fixes []weather.Coordinates) {
	p.once.Do(func() {
		if len(fixes) == 0 {
			p.err = &weather.LocationError{Kind: weather.LocationUnavailable}
		} else {
			p.coords = fixes[0]
		}
		close(p.done)
	})
}

func (p *promise) fail(err error) {
	p.once.Do(func() {
		if errors.Is(err, ErrSensorDenied) {
			p.err = &weather.LocationError{Kind: weather.LocationPermissionDenied, Cause: err}
		} else {
			p.err = &weather.LocationError{Kind: weather.LocationUnknown, Cause: err}
		}
		close(p.done)
	})
}

package lookup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// CurrentLocationName labels weather fetched for the device position.
const CurrentLocationName = "Current Location"

// CurrentLocation looks up weather for the device's GPS position.
type CurrentLocation struct {
	location weather.LocationSource
	client   weather.WeatherClient
	logger   *slog.Logger

	mu                   sync.RWMutex
	state                weather.ViewState
	showPermissionPrompt bool
	feed                 feed
}

func NewCurrentLocation(location weather.LocationSource, client weather.WeatherClient, opts ...Option) *CurrentLocation {
	o := buildOptions(opts)
	return &CurrentLocation{
		location: location,
		client:   client,
		logger:   o.logger,
		state:    weather.Idle(),
	}
}

// Fetch resolves the device position and then its weather. It returns the
// terminal state it published. Concurrent calls race; the last to finish wins.
func (c *CurrentLocation) Fetch(ctx context.Context) weather.ViewState {
	c.setState(weather.Loading())

	coords, err := c.location.GetCurrentLocation(ctx)
	if err != nil {
		c.logger.Warn("current location unavailable", "error", err)
		return c.fail(err)
	}

	snapshot, err := c.client.FetchWeather(ctx, coords)
	if err != nil {
		c.logger.Warn("current location weather fetch failed",
			"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
		return c.fail(err)
	}

	return c.setState(weather.Loaded(CurrentLocationName, snapshot))
}

// Refresh is Fetch again.
func (c *CurrentLocation) Refresh(ctx context.Context) weather.ViewState {
	return c.Fetch(ctx)
}

func (c *CurrentLocation) State() weather.ViewState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// ShowPermissionPrompt reports whether a fetch failed for lack of location
// permission since the prompt was last dismissed.
func (c *CurrentLocation) ShowPermissionPrompt() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showPermissionPrompt
}

func (c *CurrentLocation) DismissPermissionPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showPermissionPrompt = false
}

// Watch streams state transitions until cancel is called.
func (c *CurrentLocation) Watch() (<-chan weather.ViewState, func()) {
	return c.feed.watch()
}

func (c *CurrentLocation) fail(err error) weather.ViewState {
	s := weather.Failed(weather.FailureMessage(err))

	c.mu.Lock()
	defer c.mu.Unlock()
	if weather.IsPermissionDenied(err) {
		c.showPermissionPrompt = true
	}
	c.state = s
	c.feed.publish(s)
	return s
}

func (c *CurrentLocation) setState(s weather.ViewState) weather.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.feed.publish(s)
	return s
}

package lookup

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func humidity(v int) *int { return &v }

func mockSnapshot(temp float64) weather.WeatherSnapshot {
	return weather.WeatherSnapshot{
		Coordinates:   weather.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
		Timezone:      "America/New_York",
		Temperature:   temp,
		ConditionCode: 0,
		WindSpeedKmh:  15.3,
		HumidityPct:   humidity(65),
		ObservedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

type fakeLocation struct {
	mu     sync.Mutex
	coords weather.Coordinates
	err    error
	calls  int
	// when set, GetCurrentLocation signals entered and waits on release
	entered chan struct{}
	release chan struct{}
}

func (f *fakeLocation) GetCurrentLocation(ctx context.Context) (weather.Coordinates, error) {
	f.mu.Lock()
	f.calls++
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	return f.coords, f.err
}

func (f *fakeLocation) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeWeatherClient struct {
	mu         sync.Mutex
	snapshot   weather.WeatherSnapshot
	fetchErr   error
	fetchCalls int
	lastCoords weather.Coordinates

	results     []weather.CityCandidate
	searchErr   error
	searchCalls []string
	// overrides results/searchErr when set
	searchFn func(ctx context.Context, query string) ([]weather.CityCandidate, error)
}

func (f *fakeWeatherClient) FetchWeather(ctx context.Context, coords weather.Coordinates) (weather.WeatherSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.lastCoords = coords
	if f.fetchErr != nil {
		return weather.WeatherSnapshot{}, f.fetchErr
	}
	return f.snapshot, nil
}

func (f *fakeWeatherClient) SearchCities(ctx context.Context, query string) ([]weather.CityCandidate, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	fn, results, err := f.searchFn, f.results, f.searchErr
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return results, err
}

func (f *fakeWeatherClient) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeWeatherClient) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.searchCalls))
	copy(out, f.searchCalls)
	return out
}

type fakeHistoryStore struct {
	mu         sync.Mutex
	entries    []weather.HistoryEntry
	saved      [][]weather.HistoryEntry
	loadCalls  int
	clearCalls int
	loadErr    error
	saveErr    error
	clearErr   error
}

func (f *fakeHistoryStore) Save(ctx context.Context, entries []weather.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]weather.HistoryEntry, len(entries))
	copy(cp, entries)
	f.saved = append(f.saved, cp)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries = cp
	return nil
}

func (f *fakeHistoryStore) Load(ctx context.Context) ([]weather.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	cp := make([]weather.HistoryEntry, len(f.entries))
	copy(cp, f.entries)
	return cp, nil
}

func (f *fakeHistoryStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.entries = nil
	return nil
}

func (f *fakeHistoryStore) saveCalls() [][]weather.HistoryEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved
}

// fakeTimers records debounce timers and fires them on demand.
type fakeTimers struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (ft *fakeTimers) afterFunc(d time.Duration, f func()) func() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()

	t := &fakeTimer{d: d, f: f}
	ft.pending = append(ft.pending, t)
	return func() bool {
		ft.mu.Lock()
		defer ft.mu.Unlock()
		active := !t.stopped && !t.fired
		t.stopped = true
		return active
	}
}

// fire runs every timer that has not been stopped.
func (ft *fakeTimers) fire() {
	ft.mu.Lock()
	pending := ft.pending
	ft.pending = nil
	var due []func()
	for _, t := range pending {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	ft.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (ft *fakeTimers) lastDuration() time.Duration {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.pending) == 0 {
		return 0
	}
	return ft.pending[len(ft.pending)-1].d
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

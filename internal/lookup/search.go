package lookup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Search drives search-as-you-type over city names and the weather lookup
// for a chosen candidate.
//
// Query changes are debounced. Each search that actually starts gets a new
// generation; a result is applied only while its generation is current, so a
// slow response to an old query can never replace the results of a newer one.
type Search struct {
	client   weather.WeatherClient
	history  weather.HistoryStore
	logger   *slog.Logger
	debounce time.Duration
	after    AfterFunc
	now      func() time.Time

	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu           sync.RWMutex
	query        string
	candidates   []weather.CityCandidate
	isSearching  bool
	state        weather.ViewState
	feed         feed
	closed       bool
	lastIssued   string
	debounceSeq  uint64
	stopDebounce func() bool
	generation   uint64
	cancelSearch context.CancelFunc

	// serializes load-modify-save of history
	historyMu sync.Mutex
	searches  sync.WaitGroup
}

func NewSearch(client weather.WeatherClient, history weather.HistoryStore, opts ...Option) *Search {
	o := buildOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	return &Search{
		client:     client,
		history:    history,
		logger:     o.logger,
		debounce:   o.debounce,
		after:      o.afterFunc,
		now:        o.now,
		baseCtx:    ctx,
		baseCancel: cancel,
		candidates: []weather.CityCandidate{},
		state:      weather.Idle(),
	}
}

// SetQuery updates the query. An empty query clears the candidates at once;
// anything else is searched once it has been stable for the debounce window.
func (s *Search) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.query = query
	s.debounceSeq++
	if s.stopDebounce != nil {
		s.stopDebounce()
		s.stopDebounce = nil
	}

	if query == "" {
		s.cancelInFlightLocked()
		s.lastIssued = ""
		s.candidates = []weather.CityCandidate{}
		s.isSearching = false
		return
	}

	seq := s.debounceSeq
	s.stopDebounce = s.after(s.debounce, func() { s.startSearch(seq) })
}

func (s *Search) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Search) Candidates() []weather.CityCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]weather.CityCandidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

func (s *Search) IsSearching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isSearching
}

// startSearch runs when the debounce timer for seq fires.
func (s *Search) startSearch(seq uint64) {
	s.mu.Lock()
	if s.closed || seq != s.debounceSeq {
		s.mu.Unlock()
		return
	}
	s.stopDebounce = nil

	query := s.query
	if query == s.lastIssued {
		s.mu.Unlock()
		return
	}
	s.lastIssued = query

	s.cancelInFlightLocked()
	gen := s.generation
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancelSearch = cancel
	s.isSearching = true
	s.searches.Add(1)
	s.mu.Unlock()

	go s.runSearch(ctx, gen, query)
}

func (s *Search) runSearch(ctx context.Context, gen uint64, query string) {
	defer s.searches.Done()

	results, err := s.client.SearchCities(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug("discarding stale search result", "query", query)
		return
	}
	if s.cancelSearch != nil {
		s.cancelSearch()
		s.cancelSearch = nil
	}

	if err != nil {
		// Search field errors are shown as "no results".
		s.logger.Info("city search failed", "query", query, "error", err)
		results = nil
	}
	if results == nil {
		results = []weather.CityCandidate{}
	}
	s.candidates = results
	s.isSearching = false
}

// cancelInFlightLocked invalidates the current generation. It must be called
// with s.mu held.
func (s *Search) cancelInFlightLocked() {
	s.generation++
	if s.cancelSearch != nil {
		s.cancelSearch()
		s.cancelSearch = nil
	}
}

// FetchWeather looks up weather for candidate and, on success, records it in
// the search history. History failures are logged and never change the
// returned state.
func (s *Search) FetchWeather(ctx context.Context, candidate weather.CityCandidate) weather.ViewState {
	s.setState(weather.Loading())

	snapshot, err := s.client.FetchWeather(ctx, candidate.Coordinates)
	if err != nil {
		s.logger.Warn("weather fetch failed", "city", candidate.DisplayName(), "error", err)
		return s.setState(weather.Failed(weather.FailureMessage(err)))
	}

	state := s.setState(weather.Loaded(candidate.DisplayName(), snapshot))
	s.saveToHistory(context.WithoutCancel(ctx), candidate)
	return state
}

func (s *Search) saveToHistory(ctx context.Context, candidate weather.CityCandidate) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	history, err := s.history.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load search history", "error", err)
		return
	}

	entry := weather.NewHistoryEntry(candidate, s.now())
	history = weather.PrependHistory(history, entry)

	if err := s.history.Save(ctx, history); err != nil {
		s.logger.Error("failed to save search history", "city", entry.CityName, "error", err)
	}
}

func (s *Search) State() weather.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ClearWeather resets the weather detail state to Idle.
func (s *Search) ClearWeather() {
	s.setState(weather.Idle())
}

// Watch streams weather detail state transitions until cancel is called.
func (s *Search) Watch() (<-chan weather.ViewState, func()) {
	return s.feed.watch()
}

// Close stops the debounce timer and abandons any in-flight search.
func (s *Search) Close() {
	s.mu.Lock()
	s.closed = true
	if s.stopDebounce != nil {
		s.stopDebounce()
		s.stopDebounce = nil
	}
	s.cancelInFlightLocked()
	s.isSearching = false
	s.mu.Unlock()

	s.baseCancel()
}

func (s *Search) setState(st weather.ViewState) weather.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.feed.publish(st)
	return st
}

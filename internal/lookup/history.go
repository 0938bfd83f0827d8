package lookup

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// History manages the persisted search history and replays weather lookups
// for its entries. The in-memory list is authoritative for the session even
// when persisting it fails.
type History struct {
	client weather.WeatherClient
	store  weather.HistoryStore
	logger *slog.Logger

	// serializes store calls so loads and saves never overlap
	persistMu sync.Mutex

	mu    sync.RWMutex
	items []weather.HistoryEntry
	state weather.ViewState
	feed  feed
}

// NewHistory builds the orchestrator and loads the history immediately.
func NewHistory(ctx context.Context, client weather.WeatherClient, store weather.HistoryStore, opts ...Option) *History {
	o := buildOptions(opts)
	h := &History{
		client: client,
		store:  store,
		logger: o.logger,
		items:  []weather.HistoryEntry{},
		state:  weather.Idle(),
	}
	h.LoadHistory(ctx)
	return h
}

// LoadHistory replaces the in-memory list with the persisted one. A load
// failure leaves an empty list.
func (h *History) LoadHistory(ctx context.Context) {
	h.persistMu.Lock()
	defer h.persistMu.Unlock()

	items, err := h.store.Load(ctx)
	if err != nil {
		h.logger.Error("failed to load search history", "error", err)
	}
	if items == nil {
		items = []weather.HistoryEntry{}
	}

	h.mu.Lock()
	h.items = items
	h.mu.Unlock()
}

// Items returns a copy of the history, most recent first.
func (h *History) Items() []weather.HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]weather.HistoryEntry, len(h.items))
	copy(out, h.items)
	return out
}

// Entry looks up an entry by id.
func (h *History) Entry(id uuid.UUID) (weather.HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, e := range h.items {
		if e.ID == id {
			return e, true
		}
	}
	return weather.HistoryEntry{}, false
}

// DeleteItem removes the entry with id and persists the remaining list.
// It reports whether an entry was removed.
func (h *History) DeleteItem(ctx context.Context, id uuid.UUID) bool {
	h.persistMu.Lock()
	defer h.persistMu.Unlock()

	h.mu.Lock()
	before := len(h.items)
	h.items = weather.RemoveHistoryEntry(h.items, id)
	removed := len(h.items) != before
	remaining := make([]weather.HistoryEntry, len(h.items))
	copy(remaining, h.items)
	h.mu.Unlock()

	if err := h.store.Save(ctx, remaining); err != nil {
		h.logger.Error("failed to save search history", "error", err)
	}
	return removed
}

// ClearAllHistory empties the list and removes it from the store.
func (h *History) ClearAllHistory(ctx context.Context) {
	h.persistMu.Lock()
	defer h.persistMu.Unlock()

	h.mu.Lock()
	h.items = []weather.HistoryEntry{}
	h.mu.Unlock()

	if err := h.store.Clear(ctx); err != nil {
		h.logger.Error("failed to clear search history", "error", err)
	}
}

// FetchWeather replays a lookup for entry. It never modifies the history.
func (h *History) FetchWeather(ctx context.Context, entry weather.HistoryEntry) weather.ViewState {
	h.setState(weather.Loading())

	snapshot, err := h.client.FetchWeather(ctx, entry.Coordinates)
	if err != nil {
		h.logger.Warn("weather fetch failed", "city", entry.CityName, "error", err)
		return h.setState(weather.Failed(weather.FailureMessage(err)))
	}

	return h.setState(weather.Loaded(entry.CityName, snapshot))
}

// ClearWeather resets the weather state to Idle.
func (h *History) ClearWeather() {
	h.setState(weather.Idle())
}

func (h *History) State() weather.ViewState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *History) Watch() (<-chan weather.ViewState, func()) {
	return h.feed.watch()
}

func (h *History) setState(s weather.ViewState) weather.ViewState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = s
	h.feed.publish(s)
	return s
}

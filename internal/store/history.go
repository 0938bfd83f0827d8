package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// HistoryKey is the fixed key search history lives under.
const HistoryKey = "search_history_key"

// HistoryStore persists search history as one JSON document in a KeyValue.
type HistoryStore struct {
	kv     KeyValue
	logger *slog.Logger
}

var _ weather.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore(kv KeyValue, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{kv: kv, logger: logger}
}

// Save persists at most the first weather.MaxHistoryEntries entries.
func (s *HistoryStore) Save(ctx context.Context, entries []weather.HistoryEntry) error {
	entries = weather.TruncateHistory(entries)
	if entries == nil {
		entries = []weather.HistoryEntry{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return &weather.StorageError{Kind: weather.StorageEncodingError, Cause: err}
	}

	if err := s.kv.Set(ctx, HistoryKey, data); err != nil {
		return &weather.StorageError{Kind: weather.StorageWriteError, Cause: err}
	}

	s.logger.Debug("search history saved", "entries", len(entries))
	return nil
}

// Load returns the persisted history, or an empty list when nothing is stored.
func (s *HistoryStore) Load(ctx context.Context) ([]weather.HistoryEntry, error) {
	data, err := s.kv.Get(ctx, HistoryKey)
	if errors.Is(err, ErrNotFound) {
		return []weather.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, &weather.StorageError{Kind: weather.StorageReadError, Cause: err}
	}

	var entries []weather.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &weather.StorageError{Kind: weather.StorageDecodingError, Cause: err}
	}
	if entries == nil {
		entries = []weather.HistoryEntry{}
	}
	return entries, nil
}

// Clear removes the history key entirely.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, HistoryKey); err != nil {
		return &weather.StorageError{Kind: weather.StorageWriteError, Cause: err}
	}
	s.logger.Debug("search history cleared")
	return nil
}

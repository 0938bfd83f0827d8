package weather

import "github.com/google/uuid"

// MaxHistoryEntries caps persisted search history.
const MaxHistoryEntries = 20

// PrependHistory puts entry at the front of history, dropping any older entry
// with the same city name and anything beyond MaxHistoryEntries.
// The input slice is not modified.
func PrependHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.CityName == entry.CityName {
			continue
		}
		out = append(out, h)
	}
	return TruncateHistory(out)
}

// TruncateHistory keeps at most the first MaxHistoryEntries entries.
func TruncateHistory(history []HistoryEntry) []HistoryEntry {
	if len(history) > MaxHistoryEntries {
		return history[:MaxHistoryEntries]
	}
	return history
}

// RemoveHistoryEntry returns history without the entry identified by id.
func RemoveHistoryEntry(history []HistoryEntry, id uuid.UUID) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(history))
	for _, h := range history {
		if h.ID != id {
			out = append(out, h)
		}
	}
	return out
}

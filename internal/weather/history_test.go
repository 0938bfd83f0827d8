package weather

import (
	"fmt"
	"testing"
	"time"
)

func entry(city string) HistoryEntry {
	return NewHistoryEntry(CityCandidate{Name: city}, time.Now())
}

func TestPrependHistoryMovesDuplicateToFront(t *testing.T) {
	oldLondon := entry("London")
	paris := entry("Paris")
	history := []HistoryEntry{paris, oldLondon}

	newLondon := entry("London")
	got := PrependHistory(history, newLondon)

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != newLondon.ID {
		t.Errorf("expected newest London at front, got %+v", got[0])
	}
	if got[1].ID != paris.ID {
		t.Errorf("expected Paris second, got %+v", got[1])
	}
	if len(history) != 2 || history[1].ID != oldLondon.ID {
		t.Error("input slice was modified")
	}
}

func TestPrependHistoryCapsEntries(t *testing.T) {
	var history []HistoryEntry
	for i := 0; i < 50; i++ {
		history = PrependHistory(history, entry(fmt.Sprintf("City %d", i)))
		if len(history) > MaxHistoryEntries {
			t.Fatalf("history grew to %d entries", len(history))
		}
	}

	if len(history) != MaxHistoryEntries {
		t.Fatalf("expected %d entries, got %d", MaxHistoryEntries, len(history))
	}
	if history[0].CityName != "City 49" {
		t.Errorf("expected most recent first, got %q", history[0].CityName)
	}
	if history[MaxHistoryEntries-1].CityName != "City 30" {
		t.Errorf("expected oldest kept to be City 30, got %q", history[MaxHistoryEntries-1].CityName)
	}
}

func TestRemoveHistoryEntry(t *testing.T) {
	a, b := entry("A"), entry("B")

	got := RemoveHistoryEntry([]HistoryEntry{a, b}, a.ID)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("expected only B to remain, got %+v", got)
	}

	got = RemoveHistoryEntry(got, a.ID)
	if len(got) != 1 {
		t.Errorf("removing a missing id changed the list: %+v", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		candidate CityCandidate
		want      string
	}{
		{CityCandidate{Name: "London", Country: "United Kingdom"}, "London, United Kingdom"},
		{CityCandidate{Name: "New York", Region: "New York", Country: "United States"}, "New York, New York, United States"},
		{CityCandidate{Name: "Atlantis"}, "Atlantis"},
		{CityCandidate{Name: "Springfield", Region: "Illinois"}, "Springfield, Illinois"},
	}

	for _, tt := range tests {
		if got := tt.candidate.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}

package lookup

import (
	"sync"

	"github.com/i474232898/weather-lookup/internal/weather"
)

const watcherBuffer = 16

// feed fans ViewState transitions out to watchers. Sends never block: a
// watcher whose buffer is full misses the transition.
type feed struct {
	mu       sync.Mutex
	next     int
	watchers map[int]chan weather.ViewState
}

func (f *feed) watch() (<-chan weather.ViewState, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watchers == nil {
		f.watchers = make(map[int]chan weather.ViewState)
	}
	id := f.next
	f.next++
	ch := make(chan weather.ViewState, watcherBuffer)
	f.watchers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.watchers, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (f *feed) publish(s weather.ViewState) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.watchers {
		select {
		case ch <- s:
		default:
		}
	}
}

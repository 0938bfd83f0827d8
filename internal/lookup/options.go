package lookup

import (
	"log/slog"
	"time"
)

// DefaultDebounce is how long a query must stay unchanged before it is searched.
const DefaultDebounce = 500 * time.Millisecond

// AfterFunc schedules f after d and returns a function that cancels it.
// It has the semantics of time.AfterFunc(d, f).Stop.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type options struct {
	logger    *slog.Logger
	debounce  time.Duration
	afterFunc AfterFunc
	now       func() time.Time
}

// Option configures an orchestrator.
type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDebounce overrides DefaultDebounce for the search pipeline.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// WithAfterFunc replaces the timer used for debouncing.
func WithAfterFunc(f AfterFunc) Option {
	return func(o *options) { o.afterFunc = f }
}

// WithClock sets the time source used to stamp history entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{
		logger:    slog.Default(),
		debounce:  DefaultDebounce,
		afterFunc: realAfterFunc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

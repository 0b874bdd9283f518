package migrate

import (
	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/output"

	"go.uber.org/zap"
)

// Env carries the clients and settings shared by resource migrators.
type Env struct {
	// Source is the instance records are read from.
	Source api.Client

	// Dest is the instance records are written to.
	Dest api.Client

	// Log receives structured progress logs. Nil disables logging.
	Log *zap.Logger

	// Progress starts a progress display. Nil disables progress.
	Progress func(title string) output.Progress

	// Workers bounds concurrent detail requests.
	Workers int

	// PageSize is the pagination limit.
	PageSize int
}

// Logger returns the configured logger or a no-op logger.
func (e Env) Logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// Track starts a progress display for a paginated fetch. The returned stop
// function finishes the display.
func (e Env) Track(title string) (fetch.Option, func()) {
	if e.Progress == nil {
		return fetch.WithProgress(fetch.Nop), func() {}
	}
	p := e.Progress(title)
	return fetch.WithProgress(p), p.Done
}

// PageOption applies the configured page size.
func (e Env) PageOption() fetch.Option {
	return fetch.WithPageSize(e.PageSize)
}

// IndexBy indexes items by key. Later items win on duplicate keys.
func IndexBy[T any, K comparable](items []T, key func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, item := range items {
		out[key(item)] = item
	}
	return out
}

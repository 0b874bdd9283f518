package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"sublime-migrate/core/api"
)

// DefaultPageSize is the page limit used when none is configured.
const DefaultPageSize = 100

type options struct {
	pageSize int
	items    ItemsFunc
	total    TotalFunc
	progress Progress
}

// Option configures All.
type Option func(*options)

// WithPageSize sets the page limit. Values below one are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithItems replaces the default item extractor.
func WithItems(fn ItemsFunc) Option {
	return func(o *options) { o.items = fn }
}

// WithTotal replaces the default total extractor.
func WithTotal(fn TotalFunc) Option {
	return func(o *options) { o.total = fn }
}

// WithProgress reports progress to p after each page.
func WithProgress(p Progress) Option {
	return func(o *options) {
		if p != nil {
			o.progress = p
		}
	}
}

// All fetches every page of path and decodes the records as T.
// The total is read from the first page; fetching stops once that many
// records were collected or a page comes back empty. Any page error aborts
// the walk and no partial result is returned.
func All[T any](ctx context.Context, c api.Client, path string, params url.Values, opts ...Option) ([]T, error) {
	o := options{pageSize: DefaultPageSize, items: Items, total: Total, progress: Nop}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		out   []T
		total = -1
	)
	for offset := 0; ; offset += o.pageSize {
		page := clone(params)
		page.Set("limit", strconv.Itoa(o.pageSize))
		page.Set("offset", strconv.Itoa(offset))

		body, err := c.Get(ctx, path, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s (offset %d): %w", path, offset, err)
		}

		raw, err := o.items(body)
		if err != nil {
			return nil, fmt.Errorf("decode %s page: %w", path, err)
		}
		if total < 0 {
			total = o.total(body)
		}

		items, err := decode[T](raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s page: %w", path, err)
		}
		out = append(out, items...)
		o.progress.Update(len(out), total)

		if len(out) >= total || len(raw) == 0 {
			break
		}
	}

	if out == nil {
		out = []T{}
	}
	return out, nil
}

func clone(params url.Values) url.Values {
	out := make(url.Values, len(params)+2)
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func decode[T any](raw []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"sublime-migrate/core/api"
)

// List fetches a collection that is not paginated. The response may be a
// bare array or one of the known envelopes.
func List[T any](ctx context.Context, c api.Client, path string, params url.Values) ([]T, error) {
	body, err := c.Get(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}

	raw, err := Items(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	items, err := decode[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// One fetches and decodes a single record.
func One[T any](ctx context.Context, c api.Client, path string) (T, error) {
	var out T
	body, err := c.Get(ctx, path, nil)
	if err != nil {
		return out, fmt.Errorf("fetch %s: %w", path, err)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

package api

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cached memoizes successful GET responses of the wrapped client.
// Concurrent identical GETs share one in-flight request. Writes pass through
// untouched and do not invalidate the cache, so a Cached client is meant for
// read-mostly lookups against one instance during a single command.
type Cached struct {
	Client

	mu    sync.RWMutex
	cache map[string][]byte
	sf    singleflight.Group
}

// NewCached wraps c.
func NewCached(c Client) *Cached {
	return &Cached{Client: c, cache: make(map[string][]byte)}
}

func (c *Cached) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	c.mu.RLock()
	body, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return body, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		body, err := c.Client.Get(ctx, path, params)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[key] = body
		c.mu.Unlock()
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

package fetch

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"sublime-migrate/core/utils"
)

// ItemsFunc extracts the records of one page from a response body.
type ItemsFunc func(body []byte) ([]json.RawMessage, error)

// TotalFunc extracts the collection total from the first page.
type TotalFunc func(body []byte) int

// envelopeKeys are the object keys probed, in order, for a record array.
var envelopeKeys = []string{"rules", "feeds", "actions", "lists", "exclusions", "items", "data"}

// Items is the default ItemsFunc. A JSON array is returned as-is, an object
// yields the first envelope key holding an array or else itself as a single
// record, and anything else yields nothing.
func Items(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, err
		}
		if items, ok := envelope(obj); ok {
			return items, nil
		}
		return []json.RawMessage{json.RawMessage(body)}, nil
	default:
		return nil, nil
	}
}

// ItemsAt returns an ItemsFunc reading the array under key only.
func ItemsAt(key string) ItemsFunc {
	return func(body []byte) ([]json.RawMessage, error) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(obj[key], &items); err != nil {
			return nil, nil
		}
		return items, nil
	}
}

// Total is the default TotalFunc: total, count, meta.total or
// pagination.total, falling back to the length of the record array.
func Total(body []byte) int {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return 0
		}
		return len(items)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0
	}

	for _, key := range []string{"total", "count"} {
		if n, ok := number(obj[key]); ok {
			return n
		}
	}
	for _, parent := range []string{"meta", "pagination"} {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(obj[parent], &nested); err == nil {
			if n, ok := number(nested["total"]); ok {
				return n
			}
		}
	}

	if items, ok := envelope(obj); ok {
		return len(items)
	}
	return 0
}

func envelope(obj map[string]json.RawMessage) ([]json.RawMessage, bool) {
	for _, key := range envelopeKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil && items != nil {
			return items, true
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("[]")) {
			return []json.RawMessage{}, true
		}
	}
	return nil, false
}

// number reads a JSON number, or a string holding one.
func number(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		return utils.ToInt(n), true
	case string:
		if _, err := strconv.Atoi(strings.TrimSpace(n)); err != nil {
			return 0, false
		}
		return utils.ToInt(n), true
	default:
		return 0, false
	}
}

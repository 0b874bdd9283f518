package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind tags a resource type.
type Kind string

const (
	KindAction    Kind = "action"
	KindRule      Kind = "rule"
	KindList      Kind = "list"
	KindExclusion Kind = "exclusion"
	KindFeed      Kind = "feed"
)

// Decoders maps each kind to the decoder of a single wire object.
var Decoders = map[Kind]func([]byte) (any, error){
	KindAction:    decodeAs[Action],
	KindRule:      decodeAs[Rule],
	KindList:      decodeAs[List],
	KindExclusion: decodeAs[Exclusion],
	KindFeed:      decodeAs[Feed],
}

// Paths maps each kind to its collection endpoint.
var Paths = map[Kind]string{
	KindAction:    "/v1/actions",
	KindRule:      "/v1/rules",
	KindList:      "/v1/lists",
	KindExclusion: "/v1/exclusions",
	KindFeed:      "/v1/feeds",
}

// Decode decodes raw into the record type registered for kind.
func Decode(kind Kind, raw []byte) (any, error) {
	fn, ok := Decoders[kind]
	if !ok {
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
	return fn(raw)
}

// Kinds returns the known kinds in stable order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(Decoders))
	for k := range Decoders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func decodeAs[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return v, nil
}

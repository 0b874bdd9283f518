package exclusions

import "sublime-migrate/core/model"

// DefaultScope is used when the source record carries no scope.
const DefaultScope = "exclusion"

type exclusionPayload struct {
	Name        string   `json:"name"`
	Scope       string   `json:"scope"`
	Description string   `json:"description"`
	Source      string   `json:"source"`
	Active      bool     `json:"active"`
	Tags        []string `json:"tags,omitempty"`
}

// Payload builds the create body for e.
func Payload(e model.Exclusion) any {
	scope := e.Scope
	if scope == "" {
		scope = DefaultScope
	}
	return exclusionPayload{
		Name:        e.Name,
		Scope:       scope,
		Description: e.Description,
		Source:      e.Source,
		Active:      e.Active,
		Tags:        e.Tags,
	}
}

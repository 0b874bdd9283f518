package rules

import "sublime-migrate/core/model"

const defaultType = "detection"

type rulePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Active      bool   `json:"active"`
	Type        string `json:"type"`
	model.RuleMetadata
}

// Payload builds the create/update body for r. Unset metadata is omitted.
func Payload(r model.Rule) any {
	typ := r.Type
	if typ == "" {
		typ = defaultType
	}
	return rulePayload{
		Name:         r.Name,
		Description:  r.Description,
		Source:       r.Source,
		Active:       r.Active,
		Type:         typ,
		RuleMetadata: r.RuleMetadata,
	}
}

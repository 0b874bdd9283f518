package actions

import (
	"maps"

	"sublime-migrate/core/model"
	"sublime-migrate/core/utils"
)

const (
	typeWarningBanner = "warning_banner"
	typeWebhook       = "webhook"
)

type bannerConfig struct {
	Title string `json:"warning_banner_title"`
	Body  string `json:"warning_banner_body"`
}

// bannerPayload is the only shape the API accepts for warning banners.
type bannerPayload struct {
	Config bannerConfig `json:"config"`
}

type actionPayload struct {
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Active bool           `json:"active"`
	Config map[string]any `json:"config,omitempty"`

	WaitForCompleteRuleEvaluation *bool `json:"wait_for_complete_rule_evaluation,omitempty"`
}

// Payload builds the create/update body for a.
func Payload(a model.Action) any {
	if a.Type == typeWarningBanner {
		return bannerPayload{Config: bannerConfig{
			Title: utils.ToString(a.Config["warning_banner_title"]),
			Body:  utils.ToString(a.Config["warning_banner_body"]),
		}}
	}

	p := actionPayload{Name: a.Name, Type: a.Type, Active: a.Active}
	if len(a.Config) > 0 {
		p.Config = maps.Clone(a.Config)
	}
	if a.Type == typeWebhook && p.Config != nil {
		if _, ok := p.Config["custom_headers"]; !ok {
			p.Config["custom_headers"] = []any{}
		}
		p.WaitForCompleteRuleEvaluation = a.WaitForCompleteRuleEvaluation
	}
	return p
}

package feeds

import "sublime-migrate/core/model"

type feedPayload struct {
	Name                    string `json:"name"`
	GitURL                  string `json:"git_url"`
	GitBranch               string `json:"git_branch"`
	DetectionRuleFileFilter string `json:"detection_rule_file_filter"`
	TriageRuleFileFilter    string `json:"triage_rule_file_filter"`
	YaraFileFilter          string `json:"yara_file_filter"`
	AutoUpdateRules         bool   `json:"auto_update_rules"`
	AutoActivateNewRules    bool   `json:"auto_activate_new_rules"`
}

// Payload builds the create and update body for f.
func Payload(f model.Feed) any {
	return feedPayload{
		Name:                    f.Name,
		GitURL:                  f.GitURL,
		GitBranch:               f.GitBranch,
		DetectionRuleFileFilter: f.DetectionRuleFileFilter,
		TriageRuleFileFilter:    f.TriageRuleFileFilter,
		YaraFileFilter:          f.YaraFileFilter,
		AutoUpdateRules:         f.AutoUpdateRules,
		AutoActivateNewRules:    f.AutoActivateNewRules,
	}
}

// Changed reports whether any synchronized setting differs between a and b.
func Changed(a, b model.Feed) bool {
	return a.GitURL != b.GitURL ||
		a.GitBranch != b.GitBranch ||
		a.DetectionRuleFileFilter != b.DetectionRuleFileFilter ||
		a.TriageRuleFileFilter != b.TriageRuleFileFilter ||
		a.YaraFileFilter != b.YaraFileFilter ||
		a.AutoUpdateRules != b.AutoUpdateRules ||
		a.AutoActivateNewRules != b.AutoActivateNewRules
}

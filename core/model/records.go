package model

// Audit carries the creator fields shared by most records.
type Audit struct {
	CreatedByUserName string `json:"created_by_user_name,omitempty"`
	CreatedByOrgName  string `json:"created_by_org_name,omitempty"`
}

// Creators returns the user and organization that created the record.
func (a Audit) Creators() (user, org string) {
	return a.CreatedByUserName, a.CreatedByOrgName
}

// CreatedBy returns the best available creator label.
func (a Audit) CreatedBy() string {
	switch {
	case a.CreatedByUserName != "":
		return a.CreatedByUserName
	case a.CreatedByOrgName != "":
		return a.CreatedByOrgName
	default:
		return "Unknown"
	}
}

// Action is an automated response (webhook, banner, ...) that rules can trigger.
type Action struct {
	ID     string         `json:"id,omitempty"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Active bool           `json:"active"`
	Config map[string]any `json:"config,omitempty"`
	// WaitForCompleteRuleEvaluation is only meaningful for webhooks.
	WaitForCompleteRuleEvaluation *bool `json:"wait_for_complete_rule_evaluation,omitempty"`
	Audit
}

// Key returns the cross-instance identity of the action.
func (a Action) Key() ActionKey {
	return ActionKey{Name: a.Name, Type: a.Type}
}

// ActionKey identifies an action across instances, where ids differ.
type ActionKey struct {
	Name string
	Type string
}

// RuleAction is the abbreviated action embedded in a rule.
type RuleAction struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Active bool   `json:"active"`
}

// Key returns the cross-instance identity of the embedded action.
func (a RuleAction) Key() ActionKey {
	return ActionKey{Name: a.Name, Type: a.Type}
}

// RuleMetadata holds the optional descriptive fields of a rule.
// Nil means the source did not set the field. An empty list is kept.
type RuleMetadata struct {
	AttackTypes              []string `json:"attack_types,omitzero"`
	AutoReviewAutoShare      *bool    `json:"auto_review_auto_share,omitempty"`
	AutoReviewClassification *string  `json:"auto_review_classification,omitempty"`
	DetectionMethods         []string `json:"detection_methods,omitzero"`
	FalsePositives           []string `json:"false_positives,omitzero"`
	Maturity                 *string  `json:"maturity,omitempty"`
	References               []string `json:"references,omitzero"`
	Severity                 *string  `json:"severity,omitempty"`
	TacticsAndTechniques     []string `json:"tactics_and_techniques,omitzero"`
	Tags                     []string `json:"tags,omitzero"`
	UserProvidedTags         []string `json:"user_provided_tags,omitzero"`
	TriageAbuseReports       *bool    `json:"triage_abuse_reports,omitempty"`
	TriageFlaggedMessages    *bool    `json:"triage_flagged_messages,omitempty"`
}

// Rule is a detection or triage rule.
type Rule struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Source      string       `json:"source"`
	SourceMD5   string       `json:"source_md5,omitempty"`
	Active      bool         `json:"active"`
	Type        string       `json:"type"`
	Actions     []RuleAction `json:"actions,omitempty"`
	// Exclusions holds raw exclusion expressions; only rule detail responses carry them.
	Exclusions []string `json:"exclusions,omitempty"`
	RuleMetadata
	Audit
}

// Key returns the exact-match identity of the rule.
func (r Rule) Key() RuleKey {
	return RuleKey{Name: r.Name, SourceMD5: r.SourceMD5}
}

// SeverityOrEmpty returns the severity, or "" when unset.
func (r Rule) SeverityOrEmpty() string {
	if r.Severity == nil {
		return ""
	}
	return *r.Severity
}

// RuleKey identifies "the same rule with the same body" across instances.
type RuleKey struct {
	Name      string
	SourceMD5 string
}

// List entry types.
const (
	ListTypeString    = "string"
	ListTypeUserGroup = "user_group"
)

// List is a string list or a user group list.
type List struct {
	ID                string   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	EntryType         string   `json:"entry_type"`
	Entries           []string `json:"entries,omitempty"`
	EntryCount        int      `json:"entry_count,omitempty"`
	ProviderGroupName string   `json:"provider_group_name,omitempty"`
	ProviderGroupID   string   `json:"provider_group_id,omitempty"`
	Audit
}

// Feed is a git-backed rule feed.
type Feed struct {
	ID                      string `json:"id,omitempty"`
	Name                    string `json:"name"`
	GitURL                  string `json:"git_url"`
	GitBranch               string `json:"git_branch"`
	DetectionRuleFileFilter string `json:"detection_rule_file_filter"`
	TriageRuleFileFilter    string `json:"triage_rule_file_filter"`
	YaraFileFilter          string `json:"yara_file_filter"`
	AutoUpdateRules         bool   `json:"auto_update_rules"`
	AutoActivateNewRules    bool   `json:"auto_activate_new_rules"`
	IsSystem                bool   `json:"is_system"`
	Audit
}

// Exclusion is a global (non rule-scoped) exclusion.
type Exclusion struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Scope       string   `json:"scope"`
	Source      string   `json:"source"`
	Active      bool     `json:"active"`
	Tags        []string `json:"tags,omitempty"`
	Audit
}

// UserGroup is an identity provider group known to an instance.
type UserGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Me describes the account behind an API key.
type Me struct {
	OrgName      string `json:"org_name"`
	EmailAddress string `json:"email_address"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

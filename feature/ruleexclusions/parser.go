package ruleexclusions

import (
	"fmt"
	"regexp"
)

// Exclusion kinds accepted by the add-exclusion endpoint.
const (
	KindRecipientEmail = "recipient_email"
	KindSenderEmail    = "sender_email"
	KindSenderDomain   = "sender_domain"
)

// Exclusion is a parsed rule exclusion.
type Exclusion struct {
	Kind  string
	Value string
}

// Body is the add-exclusion request body, keyed by kind.
func (e Exclusion) Body() map[string]string {
	return map[string]string{e.Kind: e.Value}
}

func (e Exclusion) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Value)
}

// patterns are tried in order; the first match wins.
var patterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{KindRecipientEmail, regexp.MustCompile(`any\(recipients\.to, \.email\.email == '([^']+)'\)`)},
	{KindSenderEmail, regexp.MustCompile(`sender\.email\.email == '([^']+)'`)},
	{KindSenderDomain, regexp.MustCompile(`sender\.email\.domain\.domain == '([^']+)'`)},
}

// Parse recognizes an exclusion expression. It reports false for shapes that
// cannot be re-created.
func Parse(raw string) (Exclusion, bool) {
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(raw); m != nil {
			return Exclusion{Kind: p.kind, Value: m[1]}, true
		}
	}
	return Exclusion{}, false
}

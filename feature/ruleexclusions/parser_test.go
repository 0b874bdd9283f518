package ruleexclusions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Exclusion
		ok   bool
	}{
		{
			name: "RecipientEmail",
			raw:  "any(recipients.to, .email.email == 'ceo@example.com')",
			want: Exclusion{Kind: KindRecipientEmail, Value: "ceo@example.com"},
			ok:   true,
		},
		{
			name: "SenderEmail",
			raw:  "sender.email.email == 'alerts@vendor.io'",
			want: Exclusion{Kind: KindSenderEmail, Value: "alerts@vendor.io"},
			ok:   true,
		},
		{
			name: "SenderDomain",
			raw:  "sender.email.domain.domain == 'vendor.io'",
			want: Exclusion{Kind: KindSenderDomain, Value: "vendor.io"},
			ok:   true,
		},
		{
			name: "EmbeddedInLargerExpression",
			raw:  "not (sender.email.domain.domain == 'partner.com' and type.inbound)",
			want: Exclusion{Kind: KindSenderDomain, Value: "partner.com"},
			ok:   true,
		},
		{
			name: "FirstPatternWins",
			raw:  "any(recipients.to, .email.email == 'a@x.com') or sender.email.email == 'b@y.com'",
			want: Exclusion{Kind: KindRecipientEmail, Value: "a@x.com"},
			ok:   true,
		},
		{name: "Unsupported", raw: "sender.display_name == 'Bob'"},
		{name: "EmptyValue", raw: "sender.email.email == ''"},
		{name: "Empty", raw: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExclusionBody(t *testing.T) {
	e := Exclusion{Kind: KindSenderEmail, Value: "a@b.c"}
	assert.Equal(t, map[string]string{"sender_email": "a@b.c"}, e.Body())
	assert.Equal(t, "sender_email: a@b.c", e.String())
}

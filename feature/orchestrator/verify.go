package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/model"
	"sublime-migrate/core/output"
)

const mePath = "/v1/me"

// Verify reads the account behind c's API key.
func Verify(ctx context.Context, c api.Client) (model.Me, error) {
	return fetch.One[model.Me](ctx, c, mePath)
}

// Connection is a verified instance.
type Connection struct {
	Instance string `json:"instance"`
	OrgName  string `json:"org_name"`
	Email    string `json:"email_address"`
}

func (c Connection) String() string {
	return fmt.Sprintf("Connected to %s instance: %s (%s)", c.Instance, orUnknown(c.OrgName), orUnknown(c.Email))
}

func connect(ctx context.Context, instance string, c api.Client) (Connection, error) {
	me, err := Verify(ctx, c)
	if err != nil {
		return Connection{}, fmt.Errorf("%s instance: %w", instance, err)
	}
	return Connection{Instance: instance, OrgName: me.OrgName, Email: me.EmailAddress}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// Account is the identity behind a verified API key.
type Account struct {
	Region api.Region `json:"region"`
	model.Me
}

func (a Account) Sections() []output.Section {
	user := strings.TrimSpace(a.FirstName + " " + a.LastName)
	return []output.Section{{
		Title:   "Account",
		Headers: []string{"Region", "Organization", "User", "Email"},
		Rows:    [][]string{{a.Region.Description, orUnknown(a.OrgName), orUnknown(user), orUnknown(a.EmailAddress)}},
	}}
}

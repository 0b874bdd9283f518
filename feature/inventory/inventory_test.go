package inventory

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"sublime-migrate/core/api/mocks"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(c *mocks.Client) *Service {
	return NewService(migrate.Env{Source: c, Workers: 2})
}

func TestRuleQuery(t *testing.T) {
	in := true
	tests := []struct {
		name     string
		query    RuleQuery
		params   url.Values
		describe string
	}{
		{"Empty", RuleQuery{}, url.Values{}, ""},
		{"TypeAndActive", RuleQuery{Type: "triage", ActiveOnly: true}, url.Values{"type": {"triage"}}, "type=triage, active=true"},
		{"Feed", RuleQuery{Feed: "f1", InFeed: &in}, url.Values{"feed": {"f1"}, "in_feed": {"true"}}, "feed=f1, in_feed=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.params, tt.query.Params())
			assert.Equal(t, tt.describe, tt.query.Describe())
		})
	}
}

func TestRules(t *testing.T) {
	ctx := context.Background()

	t.Run("ActiveOnly", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("Get", ctx, "/v1/rules", mock.MatchedBy(func(p url.Values) bool {
			return p.Get("type") == "detection" && p.Get("offset") == "0"
		})).Return(`{"rules":[{"id":"1","name":"A","active":true},{"id":"2","name":"B","active":false}],"total":2}`, nil)

		rs, err := newService(c).Rules(ctx, RuleQuery{Type: "detection", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, rs, 1)
		assert.Equal(t, "A", rs[0].Name)
	})

	t.Run("WithExclusions", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("Get", ctx, "/v1/rules", mock.Anything).
			Return(`{"rules":[{"id":"1","name":"A"},{"id":"2","name":"B"}],"total":2}`, nil)
		c.On("Get", mock.Anything, "/v1/rules/1", url.Values(nil)).
			Return(`{"id":"1","name":"A","exclusions":["x"]}`, nil)
		c.On("Get", mock.Anything, "/v1/rules/2", url.Values(nil)).
			Return(nil, assert.AnError)

		rs, err := newService(c).Rules(ctx, RuleQuery{WithExclusions: true})
		require.NoError(t, err)
		require.Len(t, rs, 2)
		assert.Equal(t, []string{"x"}, rs[0].Exclusions)
		assert.Empty(t, rs[1].Exclusions)
		assert.Equal(t, "B", rs[1].Name)
	})

	t.Run("FetchFails", func(t *testing.T) {
		c := new(mocks.Client)
		c.On("Get", ctx, "/v1/rules", mock.Anything).Return(nil, assert.AnError)

		_, err := newService(c).Rules(ctx, RuleQuery{})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestLists(t *testing.T) {
	ctx := context.Background()
	c := new(mocks.Client)
	c.On("Get", ctx, "/v1/lists", url.Values{"list_types": {"user_group"}}).
		Return(`[{"id":"g","name":"Admins","entry_type":"user_group","provider_group_name":"admins"}]`, nil)

	s := newService(c)
	ls, err := s.Lists(ctx, "user_group")
	require.NoError(t, err)
	require.Len(t, ls, 1)
	assert.Equal(t, "admins", ls[0].ProviderGroupName)

	_, err = s.Lists(ctx, "bogus")
	var verr *migrate.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	c := new(mocks.Client)
	c.On("Get", ctx, "/v1/feeds/f1", url.Values(nil)).Return(`{"id":"f1","name":"Core","git_url":"https://g"}`, nil)
	c.On("Get", ctx, "/v1/actions/missing", url.Values(nil)).Return(nil, assert.AnError)

	s := newService(c)
	rec, err := s.Get(ctx, model.KindFeed, "f1")
	require.NoError(t, err)
	feed, ok := rec.(model.Feed)
	require.True(t, ok)
	assert.Equal(t, "https://g", feed.GitURL)

	res := Found("feed", rec)
	assert.True(t, res.Success)
	assert.Equal(t, "Successfully retrieved feed: Core", res.Message)
	assert.IsType(t, FeedDetail{}, res.Data)

	_, err = s.Get(ctx, model.KindAction, "missing")
	assert.ErrorIs(t, err, assert.AnError)

	_, err = s.Get(ctx, model.Kind("widget"), "x")
	assert.EqualError(t, err, `unknown resource kind "widget"`)
}

func TestRulesListed(t *testing.T) {
	sev := "high"
	table := RuleTable{Rules: []model.Rule{{
		ID: "1", Name: "A", Active: true,
		RuleMetadata: model.RuleMetadata{Severity: &sev},
		Actions:      []model.RuleAction{{Name: "x", Active: true}, {Name: "y"}},
		Exclusions:   []string{"e1", "e2"},
	}}, WithExclusions: true}

	res := RulesListed(table, RuleQuery{ActiveOnly: true})
	assert.Equal(t, "Successfully retrieved 1 rules", res.Message)
	assert.Equal(t, "Total: 1 rules (filtered by active=true)", res.Notes)

	secs := table.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, "Rules (with exclusion information)", secs[0].Title)
	assert.Equal(t, []string{"1", "A", "", "high", "✓", "1", "2"}, secs[0].Rows[0])

	data, err := json.Marshal(RuleTable{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestDetailJSONIsTheRecord(t *testing.T) {
	data, err := json.Marshal(Detail(model.Action{ID: "1", Name: "Hook", Type: "webhook"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","name":"Hook","type":"webhook","active":false}`, string(data))

	secs := Detail(model.List{Name: "L", EntryType: "string", Entries: []string{"a", "b"}}).(ListDetail).Sections()
	require.Len(t, secs, 2)
	assert.Len(t, secs[1].Rows, 2)
}

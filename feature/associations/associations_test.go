package associations

import (
	"context"
	"errors"
	"net/url"
	"sync/atomic"
	"testing"

	"sublime-migrate/core/api/mocks"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFilterActions(t *testing.T) {
	rs := []model.Rule{
		{ID: "r1", Actions: []model.RuleAction{{ID: "a1"}, {ID: "a2"}}},
		{ID: "r2", Actions: []model.RuleAction{{ID: "a2"}}},
	}

	t.Run("NoSelection", func(t *testing.T) {
		assert.Equal(t, rs, FilterActions(rs, "", ""))
	})

	t.Run("Include", func(t *testing.T) {
		got := FilterActions(rs, "a1", "")
		require.Len(t, got, 1)
		assert.Equal(t, "r1", got[0].ID)
		assert.Len(t, got[0].Actions, 1)
		assert.Len(t, rs[0].Actions, 2, "input must not be modified")
	})

	t.Run("ExcludeDropsEmptyRules", func(t *testing.T) {
		got := FilterActions(rs, "", "a2")
		require.Len(t, got, 1)
		assert.Equal(t, []model.RuleAction{{ID: "a1"}}, got[0].Actions)
	})
}

func TestMatch(t *testing.T) {
	source := []model.Rule{
		{ID: "s1", Name: "Phish", SourceMD5: "m1", Actions: []model.RuleAction{
			{ID: "sa1", Name: "Banner", Type: "warning_banner"},
			{ID: "sa2", Name: "Hook", Type: "webhook"},
		}},
		{ID: "s2", Name: "Changed", SourceMD5: "new", Actions: []model.RuleAction{{ID: "sa1", Name: "Banner", Type: "warning_banner"}}},
		{ID: "s3", Name: "OnlyMissing", SourceMD5: "m3", Actions: []model.RuleAction{{ID: "sa3", Name: "Gone", Type: "webhook"}}},
	}
	destRules := []model.Rule{
		{ID: "d1", Name: "Phish", SourceMD5: "m1"},
		{ID: "d2", Name: "Changed", SourceMD5: "old"},
		{ID: "d3", Name: "OnlyMissing", SourceMD5: "m3"},
	}
	destActions := []model.Action{
		{ID: "da1", Name: "Banner", Type: "warning_banner"},
		{ID: "da2", Name: "Hook", Type: "slack"},
	}

	plan := Match(source, destRules, destActions)

	require.Len(t, plan.Links, 1)
	assert.Equal(t, "d1", plan.Links[0].Dest.ID)
	assert.Equal(t, []model.RuleAction{{ID: "da1", Name: "Banner", Type: "warning_banner"}}, plan.Links[0].Actions)

	require.Len(t, plan.SkippedRules, 1)
	assert.Equal(t, "s2", plan.SkippedRules[0].Rule.ID)
	assert.Equal(t, ReasonRuleNotFound, plan.SkippedRules[0].Reason)

	require.Len(t, plan.SkippedActions, 2)
	assert.Equal(t, "No matching action found in destination (name='Hook', type='webhook')", plan.SkippedActions[0].Reason)
	assert.Equal(t, "Gone", plan.SkippedActions[1].Action.Name)
}

func TestResolveTypes(t *testing.T) {
	var calls atomic.Int32
	src := new(mocks.Client)
	src.On("Get", mock.Anything, "/v1/actions/a1", url.Values(nil)).
		Run(func(mock.Arguments) { calls.Add(1) }).
		Return(`{"id":"a1","name":"Banner","type":"warning_banner"}`, nil)
	src.On("Get", mock.Anything, "/v1/actions/a2", url.Values(nil)).Return(nil, errors.New("not found"))

	rs := []model.Rule{
		{ID: "r1", Actions: []model.RuleAction{{ID: "a1", Name: "Banner"}, {ID: "a2", Name: "Old"}}},
		{ID: "r2", Actions: []model.RuleAction{{ID: "a1", Name: "Banner"}}},
	}
	got := ResolveTypes(context.Background(), migrate.Env{Workers: 1}, src, rs)

	assert.Equal(t, "warning_banner", got[0].Actions[0].Type)
	assert.Empty(t, got[0].Actions[1].Type)
	assert.Equal(t, "warning_banner", got[1].Actions[0].Type)
	assert.Empty(t, rs[0].Actions[0].Type, "input must not be modified")
	assert.EqualValues(t, 1, calls.Load(), "identical lookups are served once")
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()
	live := mock.MatchedBy(func(p url.Values) bool { return p.Get("include_deleted") == "false" })

	t.Run("PatchesResolvedRules", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`{"rules":[
			{"id":"s1","name":"Phish","source_md5":"m1","actions":[{"id":"sa1","name":"Banner"}]},
			{"id":"s2","name":"Quiet","source_md5":"m2"}],"total":2}`, nil)
		src.On("Get", mock.Anything, "/v1/actions/sa1", url.Values(nil)).Return(`{"id":"sa1","type":"warning_banner"}`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", live).Return(`{"rules":[{"id":"d1","name":"Phish","source_md5":"m1"}],"total":1}`, nil)
		dst.On("Get", mock.Anything, "/v1/actions", url.Values(nil)).Return(`[{"id":"da1","name":"Banner","type":"warning_banner"}]`, nil)
		dst.On("Patch", mock.Anything, "/v1/rules/d1", associationPatch{ActionIDs: []string{"da1"}}).Return(`{}`, nil).Once()

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, preview, err := m.Plan(ctx)
		require.NoError(t, err)
		require.Len(t, preview.Update, 1)
		assert.Equal(t, "Banner", preview.Update[0].Info)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, "1 actions associated", result.Details[0].Reason)
		dst.AssertExpectations(t)
	})

	t.Run("NoRulesWithActions", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`[{"id":"s1","name":"Quiet"}]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.True(t, halt.Success)
		assert.Equal(t, "No rules with actions to process after applying filters.", halt.Message)
	})

	t.Run("ActionFilterLeavesNothing", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`[{"id":"s1","name":"Phish","actions":[{"id":"a1","name":"Banner"}]}]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{ExcludeActionIDs: "a1"}).Plan(ctx)
		assert.EqualError(t, err, "No rules with matching actions after applying action filters.")
	})

	t.Run("AllSkipped", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`[{"id":"s1","name":"Phish","source_md5":"x","actions":[{"id":"a1","name":"Banner"}]}]`, nil)
		src.On("Get", mock.Anything, "/v1/actions/a1", url.Values(nil)).Return(`{"id":"a1","type":"warning_banner"}`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", live).Return(`[{"id":"d1","name":"Phish","source_md5":"y"}]`, nil)
		dst.On("Get", mock.Anything, "/v1/actions", url.Values(nil)).Return(`[]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.Equal(t, map[string]int{"skipped_rules": 1, "skipped_actions": 0}, halt.Data)
	})
}

package ruleexclusions

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"sublime-migrate/core/api/mocks"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var live = mock.MatchedBy(func(p url.Values) bool { return p.Get("include_deleted") == "false" })

func TestMatch(t *testing.T) {
	source := []model.Rule{
		{ID: "s1", Name: "Phish", SourceMD5: "m1", Exclusions: []string{
			"sender.email.email == 'a@b.c'",
			"sender.display_name == 'Bob'",
		}},
		{ID: "s2", Name: "Drifted", SourceMD5: "new", Exclusions: []string{"sender.email.email == 'x@y.z'"}},
		{ID: "s3", Name: "Opaque", SourceMD5: "m3", Exclusions: []string{"headers.hops[0].index == 0"}},
	}
	dest := []model.Rule{
		{ID: "d1", Name: "Phish", SourceMD5: "m1"},
		{ID: "d2", Name: "Drifted", SourceMD5: "old"},
		{ID: "d3", Name: "Opaque", SourceMD5: "m3"},
	}

	plan := Match(source, dest)

	require.Len(t, plan.Targets, 1)
	assert.Equal(t, "d1", plan.Targets[0].Dest.ID)
	assert.Equal(t, []Exclusion{{Kind: KindSenderEmail, Value: "a@b.c"}}, plan.Targets[0].Exclusions)

	require.Len(t, plan.SkippedRules, 1)
	assert.Equal(t, ReasonRuleNotFound, plan.SkippedRules[0].Reason)

	require.Len(t, plan.SkippedExclusions, 2)
	assert.Equal(t, ReasonUnparsable, plan.SkippedExclusions[0].Reason)
	assert.Equal(t, "s3", plan.SkippedExclusions[1].Rule.ID)
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()

	setup := func() (*mocks.Client, *mocks.Client) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`{"rules":[
			{"id":"s1","name":"Phish","source_md5":"m1"},
			{"id":"s2","name":"Clean","source_md5":"m2"},
			{"id":"s3","name":"Broken","source_md5":"m3"}],"total":3}`, nil)
		src.On("Get", mock.Anything, "/v1/rules/s1", url.Values(nil)).Return(`{"id":"s1","name":"Phish","source_md5":"m1",
			"exclusions":["sender.email.email == 'a@b.c'","sender.email.domain.domain == 'b.c'"]}`, nil)
		src.On("Get", mock.Anything, "/v1/rules/s2", url.Values(nil)).Return(`{"id":"s2","name":"Clean","source_md5":"m2"}`, nil)
		src.On("Get", mock.Anything, "/v1/rules/s3", url.Values(nil)).Return(nil, errors.New("boom"))
		dst.On("Get", mock.Anything, "/v1/rules", live).Return(`{"rules":[{"id":"d1","name":"Phish","source_md5":"m1"}],"total":1}`, nil)
		return src, dst
	}

	t.Run("AddsEveryExclusion", func(t *testing.T) {
		src, dst := setup()
		dst.On("Post", mock.Anything, "/v1/rules/d1/add-exclusion", map[string]string{"sender_email": "a@b.c"}).Return(`{}`, nil).Once()
		dst.On("Post", mock.Anything, "/v1/rules/d1/add-exclusion", map[string]string{"sender_domain": "b.c"}).Return(`{}`, nil).Once()

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, preview, err := m.Plan(ctx)
		require.NoError(t, err)
		require.Len(t, preview.Update, 1)
		assert.Equal(t, "sender_email: a@b.c, sender_domain: b.c", preview.Update[0].Info)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Updated)
		require.Len(t, result.Details, 1)
		assert.Equal(t, 2, result.Details[0].ExclusionsCount)
		dst.AssertExpectations(t)
	})

	t.Run("PartialFailure", func(t *testing.T) {
		src, dst := setup()
		dst.On("Post", mock.Anything, "/v1/rules/d1/add-exclusion", map[string]string{"sender_email": "a@b.c"}).Return(nil, errors.New("API Error (409): duplicate"))
		dst.On("Post", mock.Anything, "/v1/rules/d1/add-exclusion", map[string]string{"sender_domain": "b.c"}).Return(`{}`, nil)

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, _, err := m.Plan(ctx)
		require.NoError(t, err)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 0, result.Failed)
		require.Len(t, result.Details, 2)
		assert.Equal(t, "Failed to add exclusion sender_email: a@b.c: API Error (409): duplicate", result.Details[0].Reason)
		assert.Equal(t, 1, result.Details[1].ExclusionsCount)
	})

	t.Run("AllFail", func(t *testing.T) {
		src, dst := setup()
		dst.On("Post", mock.Anything, "/v1/rules/d1/add-exclusion", mock.Anything).Return(nil, errors.New("API Error (500): down"))

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, _, err := m.Plan(ctx)
		require.NoError(t, err)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Details, 3)
		assert.Equal(t, "All exclusions failed to apply", result.Details[2].Reason)
	})

	t.Run("NoRulesWithExclusions", func(t *testing.T) {
		src, dst := setup()

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{IncludeRuleIDs: "s2,s3"}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.False(t, halt.Success)
		assert.Equal(t, "No rules with exclusions found after applying filters.", halt.Message)
		dst.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NothingMatches", func(t *testing.T) {
		src := new(mocks.Client)
		dst := new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", live).Return(`[{"id":"s1","name":"Phish","source_md5":"m1"}]`, nil)
		src.On("Get", mock.Anything, "/v1/rules/s1", url.Values(nil)).Return(`{"id":"s1","name":"Phish","source_md5":"m1","exclusions":["sender.email.email == 'a@b.c'"]}`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", live).Return(`[]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.Equal(t, "No rule exclusions can be migrated (all were skipped).", halt.Message)
		assert.Equal(t, map[string]int{"skipped_rules": 1, "skipped_exclusions": 0}, halt.Data)
	})
}

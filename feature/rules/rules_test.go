package rules

import (
	"context"
	"encoding/json"
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

func userRules() interface{} {
	return mock.MatchedBy(func(p url.Values) bool {
		return p.Get("include_deleted") == "false" && p.Get("in_feed") == "false"
	})
}

func TestCategorize(t *testing.T) {
	dest := []model.Rule{
		{ID: "d1", Name: "Same", SourceMD5: "aaa"},
		{ID: "d2", Name: "Diverged", SourceMD5: "bbb"},
	}
	source := []model.Rule{
		{ID: "s1", Name: "Same", SourceMD5: "aaa"},
		{ID: "s2", Name: "Diverged", SourceMD5: "ccc"},
		{ID: "s3", Name: "Fresh", SourceMD5: "ddd"},
	}

	plan := Categorize(source, dest)

	require.Len(t, plan.Update, 1)
	assert.Equal(t, "d1", plan.Update[0].Dest.ID)

	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, "s2", plan.Skipped[0].Rule.ID)
	assert.Equal(t, ReasonContentMismatch, plan.Skipped[0].Reason)

	require.Len(t, plan.New, 1)
	assert.Equal(t, "s3", plan.New[0].ID)
}

func TestCategorizeExactMatchIsNeverNew(t *testing.T) {
	// Duplicate names on the destination: the exact (name, md5) pair still wins.
	dest := []model.Rule{
		{ID: "d1", Name: "Dup", SourceMD5: "x"},
		{ID: "d2", Name: "Dup", SourceMD5: "y"},
	}
	for _, md5 := range []string{"x", "y"} {
		plan := Categorize([]model.Rule{{Name: "Dup", SourceMD5: md5}}, dest)
		assert.Len(t, plan.Update, 1, md5)
		assert.Empty(t, plan.New, md5)
		assert.Empty(t, plan.Skipped, md5)
	}
}

func TestPayload(t *testing.T) {
	sev := "high"
	share := false
	r := model.Rule{
		ID: "r1", Name: "Phish", Source: "type.inbound", SourceMD5: "abc", Active: true,
		RuleMetadata: model.RuleMetadata{Severity: &sev, AutoReviewAutoShare: &share, Tags: []string{"t1"}},
	}

	data, err := json.Marshal(Payload(r))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Phish","description":"","source":"type.inbound","active":true,
		"type":"detection","severity":"high","auto_review_auto_share":false,"tags":["t1"]}`, string(data))
}

func TestPayloadKeepsEmptyLists(t *testing.T) {
	var r model.Rule
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Phish","source":"x","tags":[],"references":null}`), &r))

	data, err := json.Marshal(Payload(r))
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &body))
	assert.JSONEq(t, `[]`, string(body["tags"]))
	assert.NotContains(t, body, "references")
	assert.NotContains(t, body, "attack_types")
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()

	t.Run("MismatchIsNeverWritten", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", userRules()).Return(
			`{"rules":[{"id":"s1","name":"Same","source_md5":"a","type":"detection"},
			           {"id":"s2","name":"Diverged","source_md5":"b","type":"triage"}],"total":2}`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", userRules()).Return(
			`{"rules":[{"id":"d1","name":"Same","source_md5":"a"},
			           {"id":"d2","name":"Diverged","source_md5":"zzz"}],"total":2}`, nil)
		dst.On("Patch", mock.Anything, "/v1/rules/d1", mock.Anything).Return(`{}`, nil).Once()

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, preview, err := m.Plan(ctx)
		require.NoError(t, err)
		assert.Len(t, preview.Update, 1)
		require.Len(t, preview.Skipped, 1)
		assert.NotEmpty(t, preview.Skipped[0].Reason)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Updated)
		dst.AssertNotCalled(t, "Patch", mock.Anything, "/v1/rules/d2", mock.Anything)
		dst.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TypeFilterIsSentToBothInstances", func(t *testing.T) {
		triage := mock.MatchedBy(func(p url.Values) bool { return p.Get("type") == "triage" })
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", triage).Return(`{"rules":[{"id":"s1","name":"New"}],"total":1}`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", triage).Return(`{"rules":[],"total":0}`, nil)
		dst.On("Post", mock.Anything, "/v1/rules", mock.Anything).Return(nil, errors.New("API Error (422): invalid source"))

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{Type: "triage"})
		plan, _, err := m.Plan(ctx)
		require.NoError(t, err)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, "API Error (422): invalid source", result.Details[0].Reason)
		src.AssertExpectations(t)
		dst.AssertExpectations(t)
	})

	t.Run("AllSkipped", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", userRules()).Return(`[{"id":"s1","name":"X","source_md5":"1"}]`, nil)
		dst.On("Get", mock.Anything, "/v1/rules", userRules()).Return(`[{"id":"d1","name":"X","source_md5":"2"}]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.True(t, halt.Success)
		assert.Equal(t, "No rules to migrate (all rules were skipped or already exist).", halt.Message)
		assert.Equal(t, map[string]int{"skipped_rules": 1}, halt.Data)
	})

	t.Run("IDFilterEmpty", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/rules", userRules()).Return(`[{"id":"s1","name":"X"}]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{ExcludeIDs: "s1"}).Plan(ctx)
		require.EqualError(t, err, "No rules to migrate after applying filters.")
	})
}

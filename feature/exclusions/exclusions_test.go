package exclusions

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

func bothScopes() interface{} {
	return mock.MatchedBy(func(p url.Values) bool {
		return p.Get("include_deleted") == "false" &&
			assert.ObjectsAreEqual([]string{"detection_exclusion", "exclusion"}, p["scope"])
	})
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name string
		in   model.Exclusion
		want string
	}{
		{
			name: "DefaultsScope",
			in:   model.Exclusion{Name: "Trusted", Source: "sender.email.domain.domain == 'a.com'", Active: true},
			want: `{"name":"Trusted","scope":"exclusion","description":"","source":"sender.email.domain.domain == 'a.com'","active":true}`,
		},
		{
			name: "KeepsScopeAndTags",
			in:   model.Exclusion{Name: "Det", Scope: "detection_exclusion", Tags: []string{"vip"}},
			want: `{"name":"Det","scope":"detection_exclusion","description":"","source":"","active":false,"tags":["vip"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(Payload(tt.in))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

// Exclusions match on name alone and are never overwritten, even when the
// destination body differs.
func TestCategorizeSkipsExistingNames(t *testing.T) {
	source := []model.Exclusion{
		{ID: "s1", Name: "Trusted", Source: "new body"},
		{ID: "s2", Name: "Fresh"},
	}
	dest := []model.Exclusion{{ID: "d1", Name: "Trusted", Source: "old body"}}

	plan := Categorize(source, dest)
	require.Len(t, plan.New, 1)
	assert.Equal(t, "s2", plan.New[0].ID)
	require.Len(t, plan.Skipped, 1)
	assert.Equal(t, ReasonExists, plan.Skipped[0].Reason)
}

func TestMigrator(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesOnlyMissing", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`{"exclusions":[
			{"id":"s1","name":"Trusted","scope":"exclusion"},
			{"id":"s2","name":"Fresh","scope":"detection_exclusion"},
			{"id":"s3","name":"Builtin","created_by_org_name":"Sublime Security"}],"total":3}`, nil)
		dst.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`{"exclusions":[{"id":"d1","name":"Trusted"}],"total":1}`, nil)
		dst.On("Post", mock.Anything, "/v1/exclusions", mock.Anything).Return(`{}`, nil).Once()

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, preview, err := m.Plan(ctx)
		require.NoError(t, err)
		assert.Len(t, preview.New, 1)
		assert.Len(t, preview.Skipped, 1)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Created)
		assert.Equal(t, 1, result.Skipped)
		dst.AssertExpectations(t)
		dst.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AllExist", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`[{"id":"s1","name":"Trusted"}]`, nil)
		dst.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`[{"id":"d1","name":"Trusted"}]`, nil)

		_, _, err := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{}).Plan(ctx)
		var halt *migrate.Halt
		require.ErrorAs(t, err, &halt)
		assert.True(t, halt.Success)
	})

	t.Run("CreateFailureIsRecorded", func(t *testing.T) {
		src, dst := new(mocks.Client), new(mocks.Client)
		src.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`[{"id":"s1","name":"Fresh"}]`, nil)
		dst.On("Get", mock.Anything, "/v1/exclusions", bothScopes()).Return(`[]`, nil)
		dst.On("Post", mock.Anything, "/v1/exclusions", mock.Anything).Return(nil, errors.New("API Error (400): bad source"))

		m := NewMigrator(migrate.Env{Source: src, Dest: dst}, Options{})
		plan, _, err := m.Plan(ctx)
		require.NoError(t, err)

		result := m.Apply(ctx, plan)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, "API Error (400): bad source", result.Details[0].Reason)
	})
}

package api_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sublime-migrate/core/api"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, ""},
		{"APIError", &api.APIError{StatusCode: 400, Message: "bad"}, "API Error (400): bad"},
		{"WrappedAPIError", fmt.Errorf("create rule: %w", &api.APIError{StatusCode: 409, Message: "exists"}), "create rule: API Error (409): exists"},
		{"ConfigError", &api.ConfigError{Message: "no key"}, "no key"},
		{"Canceled", fmt.Errorf("fetch: %w", context.Canceled), "operation canceled"},
		{"Timeout", context.DeadlineExceeded, "operation timed out"},
		{"Unknown", errors.New("boom"), "Unexpected error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, api.Describe(tt.err))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.True(t, api.IsFatal(&api.ConfigError{Message: "x"}))
	assert.True(t, api.IsFatal(&api.APIError{StatusCode: 500}))
	assert.True(t, api.IsFatal(&api.APIError{StatusCode: 401}))
	assert.False(t, api.IsFatal(&api.APIError{StatusCode: 422}))
	assert.False(t, api.IsFatal(errors.New("other")))
}

func TestRegions(t *testing.T) {
	all := api.Regions()
	assert.Len(t, all, 6)
	assert.Equal(t, api.DefaultRegion, all[0].Code)

	r, err := api.LookupRegion("")
	assert.NoError(t, err)
	assert.Equal(t, "https://platform.sublime.security", r.BaseURL)

	r, err = api.LookupRegion(" au")
	assert.Error(t, err)
	assert.Empty(t, r.Code)

	r, err = api.LookupRegion("australia")
	assert.NoError(t, err)
	assert.Equal(t, "https://au.platform.sublime.security", r.BaseURL)
}

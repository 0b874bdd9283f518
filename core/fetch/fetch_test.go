package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sublime-migrate/core/api/mocks"
	"sublime-migrate/core/fetch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func atOffset(offset string) interface{} {
	return mock.MatchedBy(func(p url.Values) bool { return p.Get("offset") == offset })
}

type recorder struct {
	mu      sync.Mutex
	updates [][2]int
}

func (r *recorder) Update(done, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, [2]int{done, total})
}

func TestAll(t *testing.T) {
	ctx := context.Background()

	t.Run("WalksPagesUntilTotal", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/feeds", atOffset("0")).
			Return(`{"feeds":[{"id":"1"},{"id":"2"},{"id":"3"}],"total":5}`, nil).Once()
		m.On("Get", mock.Anything, "/v1/feeds", atOffset("100")).
			Return(`{"feeds":[{"id":"4"},{"id":"5"}],"total":5}`, nil).Once()

		progress := &recorder{}
		items, err := fetch.All[record](ctx, m, "/v1/feeds", nil, fetch.WithProgress(progress))
		require.NoError(t, err)
		require.Len(t, items, 5)
		assert.Equal(t, "5", items[4].ID)
		assert.Equal(t, [][2]int{{3, 5}, {5, 5}}, progress.updates)
		m.AssertExpectations(t)
	})

	t.Run("MergesBaseParams", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/rules", mock.MatchedBy(func(p url.Values) bool {
			return p.Get("in_feed") == "false" && p.Get("limit") == "50" && p.Get("offset") == "0"
		})).Return(`[{"id":"r1"}]`, nil).Once()

		base := url.Values{"in_feed": {"false"}}
		items, err := fetch.All[record](ctx, m, "/v1/rules", base, fetch.WithPageSize(50))
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NotContains(t, base, "offset")
	})

	t.Run("StopsOnEmptyPage", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/exclusions", atOffset("0")).
			Return(`{"exclusions":[{"id":"1"}],"total":10}`, nil).Once()
		m.On("Get", mock.Anything, "/v1/exclusions", atOffset("1")).
			Return(`{"exclusions":[],"total":10}`, nil).Once()

		items, err := fetch.All[record](ctx, m, "/v1/exclusions", nil, fetch.WithPageSize(1))
		require.NoError(t, err)
		assert.Len(t, items, 1)
		m.AssertExpectations(t)
	})

	t.Run("PageErrorDiscardsPartialResults", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/feeds", atOffset("0")).
			Return(`{"feeds":[{"id":"1"}],"total":2}`, nil).Once()
		m.On("Get", mock.Anything, "/v1/feeds", atOffset("1")).
			Return(nil, errors.New("boom")).Once()

		items, err := fetch.All[record](ctx, m, "/v1/feeds", nil, fetch.WithPageSize(1))
		assert.Error(t, err)
		assert.Nil(t, items)
	})

	t.Run("CustomExtractors", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/custom", atOffset("0")).
			Return(`{"results":[{"id":"a"},{"id":"b"}],"n":2}`, nil).Once()

		items, err := fetch.All[record](ctx, m, "/v1/custom", nil,
			fetch.WithItems(fetch.ItemsAt("results")),
			fetch.WithTotal(func([]byte) int { return 2 }),
		)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("EmptyCollection", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("Get", mock.Anything, "/v1/actions", atOffset("0")).Return(`[]`, nil).Once()

		items, err := fetch.All[record](ctx, m, "/v1/actions", nil)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})
}

func TestItems(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"BareArray", `[{"id":1},{"id":2}]`, 2},
		{"RulesEnvelope", `{"rules":[{"id":1}],"total":1}`, 1},
		{"DataEnvelope", `{"data":[{"id":1},{"id":2},{"id":3}]}`, 3},
		{"EmptyEnvelope", `{"lists":[]}`, 0},
		{"SingleObject", `{"id":"x","name":"single"}`, 1},
		{"Scalar", `42`, 0},
		{"Null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := fetch.Items([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"TotalKey", `{"total":42,"count":3}`, 42},
		{"CountKey", `{"count":7}`, 7},
		{"StringTotal", `{"total":" 12 ","rules":[{}]}`, 12},
		{"NonNumericTotal", `{"total":"many","rules":[{},{}]}`, 2},
		{"NullTotal", `{"total":null,"count":4}`, 4},
		{"MetaTotal", `{"meta":{"total":11}}`, 11},
		{"PaginationTotal", `{"pagination":{"total":9}}`, 9},
		{"EnvelopeLength", `{"feeds":[{},{}]}`, 2},
		{"BareArray", `[{},{},{}]`, 3},
		{"Unknown", `{"other":true}`, 0},
		{"Scalar", `"text"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetch.Total([]byte(tt.body)))
		})
	}
}

func TestListAndOne(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)
	m.On("Get", mock.Anything, "/v1/user-groups", url.Values(nil)).Return(`[{"id":"g1","name":"Admins"}]`, nil)
	m.On("Get", mock.Anything, "/v1/actions/a1", url.Values(nil)).Return(`{"id":"a1","name":"Notify"}`, nil)
	m.On("Get", mock.Anything, "/v1/actions/bad", url.Values(nil)).Return(`not json`, nil)

	groups, err := fetch.List[record](ctx, m, "/v1/user-groups", nil)
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: "g1", Name: "Admins"}}, groups)

	action, err := fetch.One[record](ctx, m, "/v1/actions/a1")
	require.NoError(t, err)
	assert.Equal(t, "Notify", action.Name)

	_, err = fetch.One[record](ctx, m, "/v1/actions/bad")
	assert.Error(t, err)
}

func TestDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("PositionalResultsAndErrors", func(t *testing.T) {
		ids := []string{"a", "b", "c", "d"}
		out, errs := fetch.Details(ctx, ids, 2, func(_ context.Context, id string) (string, error) {
			if id == "c" {
				return "", fmt.Errorf("no %s", id)
			}
			return strings.ToUpper(id), nil
		})

		assert.Equal(t, []string{"A", "B", "", "D"}, out)
		assert.NoError(t, errs[0])
		assert.NoError(t, errs[1])
		assert.EqualError(t, errs[2], "no c")
		assert.NoError(t, errs[3])
	})

	t.Run("RespectsWorkerLimit", func(t *testing.T) {
		var inFlight, peak int32
		items := make([]int, 20)
		_, _ = fetch.Details(ctx, items, 3, func(context.Context, int) (int, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return 0, nil
		})
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	})

	t.Run("CanceledContext", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		var calls int32
		_, errs := fetch.Details(canceled, []int{1, 2}, 1, func(context.Context, int) (int, error) {
			atomic.AddInt32(&calls, 1)
			return 0, nil
		})
		assert.Zero(t, atomic.LoadInt32(&calls))
		assert.ErrorIs(t, errs[0], context.Canceled)
	})
}

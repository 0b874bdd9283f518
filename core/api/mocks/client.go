package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of api.Client
type Client struct {
	mock.Mock
}

func (m *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	args := m.Called(ctx, path, params)
	return bytesArg(args, 0), args.Error(1)
}

func (m *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	args := m.Called(ctx, path, body)
	return bytesArg(args, 0), args.Error(1)
}

func (m *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	args := m.Called(ctx, path, body)
	return bytesArg(args, 0), args.Error(1)
}

// bytesArg accepts []byte or string return values so tests can inline JSON.
func bytesArg(args mock.Arguments, i int) []byte {
	switch v := args.Get(i).(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}

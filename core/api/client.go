package api

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Client is the transport used by every fetch and apply step.
// Each method returns the raw JSON response body.
type Client interface {
	// Get issues a GET with optional query parameters.
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
	// Post sends body as JSON.
	Post(ctx context.Context, path string, body any) ([]byte, error)
	// Patch sends body as JSON.
	Patch(ctx context.Context, path string, body any) ([]byte, error)
}

const userAgent = "sublime-migrate"

// HTTPClient talks to one platform instance.
type HTTPClient struct {
	baseURL string
	apiKey  string
	region  Region
	timeout time.Duration
	http    *fiber.Client
}

// New creates a client for the given instance.
// It fails with a *ConfigError before any network call when the API key is
// missing or the region is unknown.
func New(cfg Config, instance Instance) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigError{Message: instance.missingKeyMessage()}
	}

	region, err := LookupRegion(cfg.Region)
	if err != nil {
		return nil, err
	}

	baseURL := region.BaseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		region:  region,
		timeout: time.Duration(timeout) * time.Second,
		http:    &fiber.Client{UserAgent: userAgent},
	}, nil
}

// Region returns the region the client was configured for.
func (c *HTTPClient) Region() Region { return c.region }

// BaseURL returns the URL requests are sent to.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, fiber.MethodGet, path, params, nil)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, fiber.MethodPost, path, nil, body)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, fiber.MethodPatch, path, nil, body)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = c.http.Post(target)
	case fiber.MethodPatch:
		agent = c.http.Patch(target)
	default:
		agent = c.http.Get(target)
	}

	agent.Set(fiber.HeaderAuthorization, "Bearer "+c.apiKey).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(c.requestTimeout(ctx))

	code, resp, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, &RequestError{Method: method, Path: path, Err: errors.Join(errs...)}
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, newAPIError(method, path, code, resp)
	}
	return resp, nil
}

// requestTimeout is the configured timeout, shortened to the context deadline.
func (c *HTTPClient) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

// Package api provides the transport to the Sublime Security REST API.
//
// The Client interface is the only thing the migration code depends on: three
// methods (Get, Post, Patch) that return the raw response body or an error.
// HTTPClient implements it on top of Fiber's HTTP client agents, and
// core/api/mocks provides a testify mock for unit tests.
//
// # Instances and credentials
//
// A migration talks to two instances. Each one is configured by a Config
// (API key, region code, optional base URL override) and identified by an
// Instance (Source or Destination), which decides the environment variable
// named in configuration errors:
//
//	src, err := api.New(cfg.Source, api.Source)
//	dst, err := api.New(cfg.Destination, api.Destination)
//
// # Errors
//
// Non-2xx responses become *APIError, network failures *RequestError and
// missing credentials or unknown regions *ConfigError. Describe turns any of
// them into user-facing text and IsFatal reports whether a command should stop.
//
// # Caching
//
// NewCached wraps a Client so identical GETs are served once; concurrent
// callers asking for the same resource share a single in-flight request.
package api

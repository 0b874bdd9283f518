package api

// Config holds the connection settings for one platform instance.
type Config struct {
	// APIKey is the bearer token used for every request.
	APIKey string `mapstructure:"api_key" default:""`
	// Region is the region code resolved to a base URL (see Regions).
	Region string `mapstructure:"region" default:"NA_EAST"`
	// BaseURL overrides the region URL when set.
	BaseURL string `mapstructure:"base_url" default:""`
	// TimeoutSeconds bounds each request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Instance identifies which side of a migration a client talks to.
type Instance int

const (
	// Source is the instance configuration is read from.
	Source Instance = iota
	// Destination is the instance configuration is written to.
	Destination
)

func (i Instance) String() string {
	if i == Destination {
		return "destination"
	}
	return "source"
}

// KeyEnv is the environment variable holding the instance API key.
func (i Instance) KeyEnv() string {
	if i == Destination {
		return "SUBLIME_DEST_API_KEY"
	}
	return "SUBLIME_API_KEY"
}

// RegionEnv is the environment variable holding the instance region.
func (i Instance) RegionEnv() string {
	if i == Destination {
		return "SUBLIME_DEST_REGION"
	}
	return "SUBLIME_REGION"
}

func (i Instance) missingKeyMessage() string {
	if i == Destination {
		return "Destination key not provided. Use --dest-api-key option or set " + i.KeyEnv() + " environment variable."
	}
	return "API key not provided. Use --api-key or --source-api-key option or set " + i.KeyEnv() + " environment variable."
}

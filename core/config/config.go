package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/database"
	"sublime-migrate/core/logger"
	"sublime-migrate/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Source is the instance configuration is read from.
	Source api.Config `mapstructure:"source"`
	// Destination is the instance configuration is written to.
	Destination api.Config `mapstructure:"destination"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Fetch tunes pagination and detail enrichment.
	Fetch FetchConfig `mapstructure:"fetch"`
	// Output selects how results are rendered.
	Output OutputConfig `mapstructure:"output"`
	// Storage holds configuration for the run archive bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the run history database.
	Database database.Config `mapstructure:"database"`
}

// FetchConfig tunes how records are read.
type FetchConfig struct {
	// PageSize is the limit of each paginated request.
	PageSize int `mapstructure:"page_size" default:"100"`
	// Workers bounds concurrent detail requests.
	Workers int `mapstructure:"workers" default:"5"`
}

// OutputConfig selects the result format.
type OutputConfig struct {
	// Format is table, json, yaml or markdown.
	Format string `mapstructure:"format" default:"table"`
	// File receives markdown output instead of stdout.
	File string `mapstructure:"file" default:""`
}

// envBindings are the platform variables read besides the nested keys.
var envBindings = map[string][]string{
	"source.api_key":      {"SUBLIME_API_KEY", "SOURCE_API_KEY"},
	"source.region":       {"SUBLIME_REGION", "SOURCE_REGION"},
	"destination.api_key": {"SUBLIME_DEST_API_KEY", "DESTINATION_API_KEY"},
	"destination.region":  {"SUBLIME_DEST_REGION", "DESTINATION_REGION"},
}

// ConfigDir returns the directory searched for a config file:
// $SUBLIME_CONFIG_DIR, or ~/.sublime-cli.
func ConfigDir() string {
	if dir := os.Getenv("SUBLIME_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sublime-cli"
	}
	return filepath.Join(home, ".sublime-cli")
}

// LoadConfig loads configuration from environment variables, a .env file in
// path and an optional config file in ConfigDir.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. FETCH_WORKERS -> fetch.workers)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.AddConfigPath(ConfigDir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}

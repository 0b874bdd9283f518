// Package config provides configuration management for sublime-migrate.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config file (config.yaml, config.json, ...)
// in $SUBLIME_CONFIG_DIR or ~/.sublime-cli. Command-line flags are applied
// on top by the cmd package.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Source, Destination: API key, region, base URL override and request timeout
//   - Log: Logging level and format
//   - Fetch: page size and detail workers
//   - Output: result format and markdown file
//   - Storage: S3/MinIO settings of the optional run archive
//   - Database: SQLite/MySQL settings of the optional run history
//
// The platform variables SUBLIME_API_KEY, SUBLIME_REGION, SUBLIME_DEST_API_KEY
// and SUBLIME_DEST_REGION are bound to the source and destination sections.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Source.Region)
package config

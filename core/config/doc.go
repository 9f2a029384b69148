// Package config provides configuration management for asset-resynch.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional config.yaml and a .env file. Command-line flags are applied on top
// by the cmd package.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - AEM: author and publish URLs, credentials, proxy, timeouts and retries
//   - Resynch: start path, delay, dry-run, workers and strict status mode
//   - Server: HTTP server settings (host, port, API key, plan cache)
//   - Database: run history connection (mysql or sqlite)
//   - Storage: S3/MinIO credentials and report bucket
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.AEM.AuthorURL)
package config

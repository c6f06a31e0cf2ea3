// Package config provides configuration management for the catalog sync service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults live next to each setting as `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key, enabled flag)
//   - Database: catalog database connection (mysql, postgres, sqlite)
//   - Queue: Redis address and queue tuning
//   - FTP: remote feed host, credentials and working directory
//   - Feed: feed file name, cron schedule, retention and decode buffer size
//   - Storage: S3/MinIO credentials used to archive downloaded feeds
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Feed.Cron)
package config

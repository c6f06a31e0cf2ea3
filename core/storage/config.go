package storage

import "time"

// Config holds configuration for the storage provider.
type Config struct {
	// Archive enables uploading every downloaded feed before it is processed.
	Archive bool `mapstructure:"archive" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket feeds are archived in.
	Bucket string `mapstructure:"bucket" default:"feeds"`
	// Prefix is the object prefix for archived feeds.
	Prefix string `mapstructure:"prefix" default:"feeds"`
	// Keep is the number of archived feeds retained; 0 keeps everything.
	Keep int `mapstructure:"keep" default:"30"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the connection timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

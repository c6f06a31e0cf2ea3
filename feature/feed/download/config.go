package download

import "time"

// Config holds the remote feed host settings.
type Config struct {
	// Host is the FTP host:port.
	Host string `mapstructure:"host" default:"localhost:21"`
	// User is the FTP login.
	User string `mapstructure:"user" default:"anonymous"`
	// Password is the FTP password.
	Password string `mapstructure:"password" default:""`
	// Dir is the remote working directory holding the feed.
	Dir string `mapstructure:"dir" default:"TOBACCO"`
	// TimeoutSeconds bounds dialing and each control exchange.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the configured timeout, defaulting to 30s.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Enabled toggles the observability HTTP server in the start command.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}

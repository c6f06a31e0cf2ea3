package queue

import "time"

// Config holds configuration for the Redis backed job queue.
type Config struct {
	// Addr is the Redis host:port.
	Addr string `mapstructure:"addr" default:"localhost:6379"`
	// Password is the Redis password.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis logical database.
	DB int `mapstructure:"db" default:"0"`
	// Name is the queue name; all keys are namespaced by it.
	Name string `mapstructure:"name" default:"default"`
	// PollInterval is how long an idle worker waits before polling again.
	PollInterval time.Duration `mapstructure:"poll_interval" default:"1s"`
	// Concurrency is the number of jobs one worker process runs at once.
	Concurrency int `mapstructure:"concurrency" default:"1"`
}

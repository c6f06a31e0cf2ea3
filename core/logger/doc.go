// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and two helpers that attach correlation fields:
//
//   - WithRayID extracts the RayID from a Fiber context (HTTP requests).
//   - WithJob attaches job_id and job_kind to every entry logged while a queue job runs.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	l := logger.WithJob(log, job.ID, job.Kind)
//	l.Error("Job failed", zap.Error(err))
package logger

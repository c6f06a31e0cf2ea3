// Package server holds the HTTP server configuration.
//
// The HTTP surface of catalog-sync is small and read-mostly: health, product
// listing, job observability and metrics. The start command decides whether to
// run it based on Config.Enabled.
package server

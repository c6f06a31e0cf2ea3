// Package metrics exposes Prometheus collectors for the sync pipeline.
//
// A Metrics value owns its own registry so tests can create as many as they need
// without colliding on the default registerer. The Fiber handler returned by
// Handler serves the registry in the Prometheus text format.
//
// # Collectors
//
//   - catalog_sync_jobs_total{kind,state}: finished jobs per kind and final state
//   - catalog_sync_job_duration_seconds{kind}: job execution time
//   - catalog_sync_records_total{outcome}: reconciled feed records per outcome
//   - catalog_sync_http_requests_total{method,route,status}: served API requests
package metrics

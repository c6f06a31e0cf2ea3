// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the API endpoints.
//   - rayid: a unique request id (ray id) for every request, stored in the
//     context and echoed in the X-Ray-ID response header for tracing.
package middleware

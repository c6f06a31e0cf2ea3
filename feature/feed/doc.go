// Package feed exposes the sync pipeline over HTTP.
//
//	GET  /jobs             queue counts, repeatable triggers, retained jobs
//	POST /jobs/download    queue a manual download (re-run after a failure)
//
// The pipeline itself lives in the sub packages: download (FTP), decode
// (streaming XML), reconcile (catalog diff) and pipeline (jobs and scheduling).
package feed

// Package queue implements the Redis backed job queue the feed pipeline runs on.
//
// Jobs are JSON documents moved between Redis lists: wait -> active ->
// completed | failed. Completed and failed lists are trimmed to the retention
// configured on each job, so history stays bounded.
//
// # Repeatables
//
// Enqueue with Options.Repeat registers a cron-scheduled trigger (one per kind,
// HSETNX, safe to call on every start). FireDue converts due triggers into
// queued jobs; each occurrence is claimed with SET NX so that several worker
// processes never queue it twice.
//
// # Worker
//
// Worker dispatches claimed jobs to handlers registered per kind. A job whose
// kind has no handler fails with UnknownJobKindError. Jobs are never retried
// automatically; OnCompleted and OnFailed observers receive every outcome.
//
// # Locks
//
// Lock provides per-resource mutual exclusion with token-checked release,
// used to keep two pipeline runs off the same feed file.
package queue

// Package pipeline wires the feed stages into queue jobs.
//
// Two job kinds exist:
//
//	init-daily-data-download  repeatable (feed.cron); downloads the feed, archives
//	                          it when enabled, then queues the processing job
//	process-daily-data        decodes the local feed and reconciles every record,
//	                          deleting the local file afterwards
//
// The Scheduler registers the recurring trigger at most once and chains the
// processing job only after a successful download; nothing is triggered by
// callbacks. Both handlers hold a per-file Redis lock, so a download never
// overwrites a feed that is still being processed and two processing runs of
// one file never overlap. A job that finds the lock taken fails immediately.
//
// Decoding and reconciliation run as a producer/consumer pair (Pipe) over a
// channel of feed.high_water records. Decoding stalls while the channel is full,
// which keeps memory flat for feeds of any size.
//
// A ReconciliationError aborts the processing job. Records reconciled before it
// stay committed; the next scheduled run or a manual enqueue starts over from the
// beginning of the file.
package pipeline

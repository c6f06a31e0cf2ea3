// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that archive
// logic can be unit tested with the mock in core/storage/mocks. The client
// works against AWS S3 and self-hosted MinIO instances.
//
// # Feed Archive
//
// Archiver uploads each downloaded feed file under
// <prefix>/<yyyy>/<mm>/<dd>/<timestamp>-<file> and prunes the oldest archives
// beyond the configured Keep count. Keys sort chronologically, so pruning is a
// single listing followed by one batch delete.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archiver := storage.NewArchiver(client, cfg.Storage)
//	key, err := archiver.Archive(ctx, "/var/lib/catalog-sync/TobaccoData.xml")
package storage

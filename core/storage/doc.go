// Package storage provides the object storage client used to archive
// command results.
//
// It wraps the MinIO Go client behind the Client interface so the archive can
// be tested with the mocks in core/storage/mocks. Both AWS S3 and self-hosted
// MinIO endpoints are supported.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage

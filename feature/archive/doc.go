// Package archive stores the full result of every run as a JSON object in
// an S3 compatible bucket, keyed <prefix>/<run_id>.json.
package archive

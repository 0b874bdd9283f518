package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"sublime-migrate/core/output"
	"sublime-migrate/core/storage"

	"github.com/minio/minio-go/v7"
)

// Record is the archived form of a run.
type Record struct {
	RunID     string                `json:"run_id"`
	Command   string                `json:"command"`
	StartedAt time.Time             `json:"started_at"`
	Result    *output.CommandResult `json:"result"`
}

// Entry describes an archived run.
type Entry struct {
	RunID        string    `json:"run_id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive reads and writes run records in one bucket.
type Archive struct {
	client storage.Client
	bucket string
	prefix string
	region string
}

// New creates an archive over client using the bucket settings of cfg.
func New(client storage.Client, cfg storage.Config) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		region: cfg.Region,
	}
}

// Key returns the object key of runID.
func (a *Archive) Key(runID string) string {
	return path.Join(a.prefix, runID+".json")
}

// Ensure creates the bucket when it does not exist.
func (a *Archive) Ensure(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Save uploads rec and returns its object key.
func (a *Archive) Save(ctx context.Context, rec Record) (string, error) {
	if err := a.Ensure(ctx); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run %s: %w", rec.RunID, err)
	}

	key := a.Key(rec.RunID)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"command": rec.Command},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

// Load downloads the record of runID.
func (a *Archive) Load(ctx context.Context, runID string) (*Record, error) {
	key := a.Key(runID)
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer obj.Close()

	var rec Record
	if err := json.NewDecoder(obj).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &rec, nil
}

// List returns the archived runs, newest first.
func (a *Archive) List(ctx context.Context) ([]Entry, error) {
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}

	var entries []Entry
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", a.bucket, obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if !strings.HasSuffix(name, ".json") || strings.Contains(name, "/") {
			continue
		}
		entries = append(entries, Entry{
			RunID:        strings.TrimSuffix(name, ".json"),
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	return entries, nil
}

// Entries is a listing of archived runs.
type Entries []Entry

func (es Entries) Sections() []output.Section {
	sec := output.Section{Title: "Archived runs", Headers: []string{"Run ID", "Key", "Size", "Last Modified"}}
	for _, e := range es {
		sec.Rows = append(sec.Rows, []string{e.RunID, e.Key, fmt.Sprintf("%d", e.Size), e.LastModified.Format(time.DateTime)})
	}
	return []output.Section{sec}
}

package gcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// Archiver writes transcript copies to a GCS bucket for audit. It is
// optional; the pipeline runs without it when no bucket is configured.
type Archiver struct {
	bucket *storage.BucketHandle
}

func NewArchiver(ctx context.Context, bucketName string) (*Archiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Storage client: %w", err)
	}
	return &Archiver{bucket: client.Bucket(bucketName)}, nil
}

// Archive writes content to a GCS object only if it doesn't already exist,
// so a reprocessed file never overwrites its earlier transcript.
func (a *Archiver) Archive(ctx context.Context, objectName, content string) error {
	writer := a.bucket.Object(objectName).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)

	if _, err := io.Copy(writer, strings.NewReader(content)); err != nil {
		_ = writer.Close()
		if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 412 {
			slog.Info("Transcript archive object already exists. Skipping.", "object", objectName)
			return nil // Not a failure in an idempotent workflow.
		}
		return fmt.Errorf("failed to write to GCS: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS write: %w", err)
	}
	return nil
}

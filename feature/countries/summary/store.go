package summary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"countrypulse/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectName is the fixed key the artifact lives under; every refresh
// overwrites it in place.
const ObjectName = "summary/countries.svg"

// ContentType is the MIME type of the rendered artifact.
const ContentType = "image/svg+xml"

// ErrNoArtifact marks retrieval before any artifact has been generated.
var ErrNoArtifact = errors.New("summary artifact not generated yet")

// ArtifactStore persists the rendered summary in object storage.
type ArtifactStore struct {
	client storage.Client
	bucket string
}

// NewArtifactStore creates an artifact store against the given bucket.
func NewArtifactStore(client storage.Client, bucket string) *ArtifactStore {
	return &ArtifactStore{client: client, bucket: bucket}
}

// Ensure creates the bucket when it does not exist yet.
func (a *ArtifactStore) Ensure(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check artifact bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create artifact bucket: %w", err)
	}
	return nil
}

// Put stores the rendered artifact, replacing the previous one.
func (a *ArtifactStore) Put(ctx context.Context, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, ObjectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: ContentType})
	if err != nil {
		return fmt.Errorf("store summary artifact: %w", err)
	}
	return nil
}

// Fetch returns the most recently stored artifact, or ErrNoArtifact if no
// refresh has generated one yet.
func (a *ArtifactStore) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, ObjectName, minio.GetObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNoArtifact
		}
		return nil, fmt.Errorf("fetch summary artifact: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// Minio surfaces a missing key at read time.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNoArtifact
		}
		return nil, fmt.Errorf("read summary artifact: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoArtifact
	}
	return data, nil
}

package adapter

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// Storage archives uploaded document images so past analyses can be
// recalled. Keys are opaque; callers derive them from history entry IDs.
type Storage interface {
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type gcsArchive struct {
	bucket *storage.BucketHandle
}

// NewStorage opens the Cloud Storage bucket backing the document archive.
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	return &gcsArchive{bucket: client.Bucket(bucketName)}, nil
}

func (a *gcsArchive) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	return a.bucket.Object(key).NewWriter(ctx), nil
}

func (a *gcsArchive) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	reader, err := a.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archived document", goerr.V("key", key))
	}
	return reader, nil
}

// Package storage keeps retention copies of built archives in a GCS
// bucket. The canonical publish target is the package index; this is an
// audit copy only.
package storage

import (
	"context"
	"io"
	"path"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// Client stores artifacts in a single bucket
type Client struct {
	bucket *gcs.BucketHandle
	name   string
}

// New creates a storage client for the bucket
func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &Client{
		bucket: c.Bucket(bucket),
		name:   bucket,
	}, nil
}

// Save stores the archive under <repository>/<tag>/<filename> and
// returns the object path
func (c *Client) Save(ctx context.Context, repository, tag, filename string, r io.Reader) (string, error) {
	key := path.Join(repository, tag, filename)

	w := c.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write artifact",
			goerr.V("bucket", c.name), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize artifact",
			goerr.V("bucket", c.name), goerr.V("key", key))
	}

	return key, nil
}

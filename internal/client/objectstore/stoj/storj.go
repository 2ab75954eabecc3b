package stoj

import (
	"context"
	"fmt"
	"io"
	"path"

	"storj.io/uplink"
)

// ClientImpl relays objects into a Storj DCS bucket. The bucket enforces
// per-object size and quota limits; upload errors carry those rejections
// through verbatim so the transfer engine can classify them.
type ClientImpl struct {
	project *uplink.Project
	bucket  string
	prefix  string
}

type StorjConfig struct {
	// AccessGrant is the Storj access grant string
	AccessGrant string
	// Bucket is the bucket name where objects will be stored
	Bucket string
	// Prefix is an optional key prefix applied to every object
	Prefix string
}

// NewClient creates a new Storj objectstore client
func NewClient(ctx context.Context, cfg StorjConfig) (*ClientImpl, error) {
	if cfg.AccessGrant == "" {
		return nil, fmt.Errorf("access grant is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	access, err := uplink.ParseAccess(cfg.AccessGrant)
	if err != nil {
		return nil, fmt.Errorf("parse access grant: %w", err)
	}

	project, err := uplink.OpenProject(ctx, access)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}

	// Ensure bucket exists
	_, err = project.EnsureBucket(ctx, cfg.Bucket)
	if err != nil {
		project.Close()
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	return &ClientImpl{
		project: project,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
	}, nil
}

// Close closes the Storj project connection
func (c *ClientImpl) Close() error {
	if c.project != nil {
		return c.project.Close()
	}
	return nil
}

func (c *ClientImpl) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return path.Join(c.prefix, key)
}

// Upload uploads an object to Storj
func (c *ClientImpl) Upload(ctx context.Context, key string, content io.Reader) error {
	upload, err := c.project.UploadObject(ctx, c.bucket, c.key(key), nil)
	if err != nil {
		return fmt.Errorf("initiate upload: %w", err)
	}

	_, err = io.Copy(upload, content)
	if err != nil {
		upload.Abort()
		return fmt.Errorf("write data: %w", err)
	}

	err = upload.Commit()
	if err != nil {
		return fmt.Errorf("commit upload: %w", err)
	}

	return nil
}

// Download downloads an object from Storj
func (c *ClientImpl) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	download, err := c.project.DownloadObject(ctx, c.bucket, c.key(key), nil)
	if err != nil {
		return nil, fmt.Errorf("download object: %w", err)
	}

	return download, nil
}

// Delete deletes an object from Storj
func (c *ClientImpl) Delete(ctx context.Context, key string) error {
	_, err := c.project.DeleteObject(ctx, c.bucket, c.key(key))
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

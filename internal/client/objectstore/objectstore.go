// Package objectstore defines the sink every relayed byte ends up in.
package objectstore

import (
	"context"
	"io"
)

// Client is the remote namespace a transfer uploads into. Implementations
// must stream content without buffering whole parts in memory, and must
// return backend size/quota rejections verbatim: the transfer engine
// classifies those errors to decide between retrying and falling back to a
// smaller chunk size.
type Client interface {
	// Upload stores content under key, replacing any existing object.
	Upload(ctx context.Context, key string, content io.Reader) error
	// Download opens the object at key for reading.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}

package source

import (
	"context"
	"io"
)

// SizeUnknown is reported when the provider cannot determine the object size
// before the stream completes.
const SizeUnknown int64 = -1

// Provider supplies the byte stream for one object. The returned size is the
// total expected length, or SizeUnknown if the source only knows it at EOF.
type Provider interface {
	Fetch(ctx context.Context, ref string) (io.ReadCloser, int64, error)
}

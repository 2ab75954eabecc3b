package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Part is one transferable unit: a bounded slice of the object staged as a
// discrete local file until its upload succeeds.
type Part struct {
	// Ordinal is 1-based and contiguous across the whole transfer, including
	// across chunk-size fallbacks. Retries re-upload the same part; they never
	// re-number it.
	Ordinal int
	Size    int64
	Path    string
}

// RemoteName derives the part's name in the target namespace from the
// transfer-scoped base name.
func (p Part) RemoteName(base string) string {
	return fmt.Sprintf("%s.part%04d", base, p.Ordinal)
}

// Release removes the part's staged bytes. Called after a successful upload,
// and on give-up, so at most one part occupies local storage at a time.
func (p Part) Release() error {
	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Chunker splits a byte stream into parts of exactly chunkSize bytes, except
// the final part which holds the remainder. A zero-length final part is never
// emitted. The sequence is lazy, finite and non-restartable; re-chunking a
// remainder after a strategy fallback is done by creating a new Chunker over
// the remaining stream with the next ordinal to continue from.
type Chunker struct {
	src       io.Reader
	dir       string
	chunkSize int64
	ordinal   int
	done      bool
}

// NewChunker returns a chunker staging parts under dir. firstOrdinal is the
// ordinal of the first part it will emit.
func NewChunker(src io.Reader, dir string, chunkSize int64, firstOrdinal int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if firstOrdinal < 1 {
		return nil, fmt.Errorf("first ordinal must be >= 1, got %d", firstOrdinal)
	}
	return &Chunker{
		src:       src,
		dir:       dir,
		chunkSize: chunkSize,
		ordinal:   firstOrdinal,
	}, nil
}

// Next stages the next part and returns it. It returns io.EOF when the stream
// is exhausted; any staged file for an empty read is removed before returning.
func (c *Chunker) Next() (Part, error) {
	if c.done {
		return Part{}, io.EOF
	}

	path := filepath.Join(c.dir, fmt.Sprintf("part-%04d", c.ordinal))
	f, err := os.Create(path)
	if err != nil {
		return Part{}, fmt.Errorf("stage part %d: %w", c.ordinal, err)
	}

	n, err := io.CopyN(f, c.src, c.chunkSize)
	if cerr := f.Close(); cerr != nil {
		os.Remove(path)
		return Part{}, fmt.Errorf("close staged part %d: %w", c.ordinal, cerr)
	}
	if err == io.EOF {
		c.done = true
		if n == 0 {
			// Stream ended exactly on a boundary: no trailing empty part.
			os.Remove(path)
			return Part{}, io.EOF
		}
	} else if err != nil {
		os.Remove(path)
		return Part{}, fmt.Errorf("read part %d: %w", c.ordinal, err)
	}

	part := Part{Ordinal: c.ordinal, Size: n, Path: path}
	c.ordinal++
	return part, nil
}

// NextOrdinal is the ordinal the next emitted part would receive.
func (c *Chunker) NextOrdinal() int {
	return c.ordinal
}

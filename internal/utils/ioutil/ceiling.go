package ioutil

import (
	"errors"
	"io"
)

// ErrCeilingExceeded is returned by a CeilingReader once more than its
// configured number of bytes has been read.
var ErrCeilingExceeded = errors.New("byte ceiling exceeded")

// CeilingReader fails the stream as soon as it grows past max bytes. Unlike
// io.LimitReader it surfaces a distinguishable error instead of a silent EOF,
// so an oversized object aborts the transfer rather than truncating it.
type CeilingReader struct {
	io.Reader
	max  int64
	read int64
}

func NewCeilingReader(reader io.Reader, max int64) *CeilingReader {
	return &CeilingReader{Reader: reader, max: max}
}

func (c *CeilingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.read += int64(n)
	if c.max > 0 && c.read > c.max {
		return n, ErrCeilingExceeded
	}
	return n, err
}

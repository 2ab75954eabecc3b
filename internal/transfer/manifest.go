package transfer

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// PartDescriptor records one uploaded part in the manifest, in ordinal order.
type PartDescriptor struct {
	Name    string `json:"name"`
	Size    int64  `json:"size"`
	Ordinal int    `json:"ordinal"`
}

// Manifest is the reassembly recipe for a multi-part object. It is immutable
// once uploaded; concatenating the named parts in ordinal order reproduces
// the original object byte-for-byte.
type Manifest struct {
	ObjectName string           `json:"object_name"`
	Owner      string           `json:"owner"`
	PartCount  int              `json:"part_count"`
	TotalSize  int64            `json:"total_size"`
	ChunkSize  int64            `json:"chunk_size"`
	Parts      []PartDescriptor `json:"parts"`
	CreatedAt  time.Time        `json:"created_at"`
	Digest     string           `json:"digest"`
	Reassembly string           `json:"reassembly"`
}

// ManifestName derives the manifest's remote name from the transfer-scoped
// base name.
func ManifestName(base string) string {
	return base + ".manifest.json"
}

// ManifestBuilder accumulates part descriptors as parts complete, so partial
// state survives a crash for diagnostics, and emits the final manifest once
// every part has been uploaded.
type ManifestBuilder struct {
	objectName string
	owner      string
	parts      []PartDescriptor
	total      int64
}

func NewManifestBuilder(objectName, owner string) *ManifestBuilder {
	return &ManifestBuilder{
		objectName: objectName,
		owner:      owner,
	}
}

// AddPart records one successfully uploaded part. Parts must be added in
// ordinal order with no gaps.
func (b *ManifestBuilder) AddPart(name string, size int64, ordinal int) error {
	if want := len(b.parts) + 1; ordinal != want {
		return fmt.Errorf("part ordinal %d out of order, want %d", ordinal, want)
	}
	b.parts = append(b.parts, PartDescriptor{Name: name, Size: size, Ordinal: ordinal})
	b.total += size
	return nil
}

// PartCount is the number of parts recorded so far.
func (b *ManifestBuilder) PartCount() int {
	return len(b.parts)
}

// TotalSize is the byte sum of all recorded parts.
func (b *ManifestBuilder) TotalSize() int64 {
	return b.total
}

// Build emits the immutable manifest. chunkSize is the bound in effect when
// the transfer finished; individual part sizes may differ after a strategy
// fallback and are authoritative for reassembly.
func (b *ManifestBuilder) Build(chunkSize int64, digest string) Manifest {
	parts := make([]PartDescriptor, len(b.parts))
	copy(parts, b.parts)
	return Manifest{
		ObjectName: b.objectName,
		Owner:      b.owner,
		PartCount:  len(parts),
		TotalSize:  b.total,
		ChunkSize:  chunkSize,
		Parts:      parts,
		CreatedAt:  time.Now().UTC(),
		Digest:     digest,
		Reassembly: fmt.Sprintf(
			"concatenate the %d parts in ascending ordinal order to reproduce %q byte-for-byte",
			len(parts), b.objectName),
	}
}

// Encode serializes the manifest as JSON. The encoded form is always uploaded
// as a single part; a manifest is never split.
func (m Manifest) Encode() ([]byte, error) {
	data, err := sonic.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

package transfer

import (
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestManifestBuilder(t *testing.T) {
	b := NewManifestBuilder("weights.bin", "owner-1")

	if err := b.AddPart("ns/weights.bin.part0001", 64, 1); err != nil {
		t.Fatalf("AddPart 1: %v", err)
	}
	if err := b.AddPart("ns/weights.bin.part0002", 64, 2); err != nil {
		t.Fatalf("AddPart 2: %v", err)
	}
	// Mixed sizes after a fallback are legal; gaps and reordering are not.
	if err := b.AddPart("ns/weights.bin.part0003", 16, 3); err != nil {
		t.Fatalf("AddPart 3: %v", err)
	}
	if err := b.AddPart("ns/weights.bin.part0005", 16, 5); err == nil {
		t.Fatal("gap in ordinals accepted")
	}
	if err := b.AddPart("ns/weights.bin.part0002", 64, 2); err == nil {
		t.Fatal("duplicate ordinal accepted")
	}

	if b.PartCount() != 3 {
		t.Errorf("PartCount = %d, want 3", b.PartCount())
	}
	if b.TotalSize() != 144 {
		t.Errorf("TotalSize = %d, want 144", b.TotalSize())
	}

	m := b.Build(64, "deadbeef")
	if m.PartCount != 3 || m.TotalSize != 144 || m.ChunkSize != 64 {
		t.Errorf("Build = count %d size %d chunk %d", m.PartCount, m.TotalSize, m.ChunkSize)
	}
	if m.Digest != "deadbeef" {
		t.Errorf("Digest = %q", m.Digest)
	}
	if m.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if !strings.Contains(m.Reassembly, "ascending ordinal order") {
		t.Errorf("Reassembly = %q", m.Reassembly)
	}

	// The built manifest must not alias the builder's slice.
	m.Parts[0].Size = 0
	if b.parts[0].Size != 64 {
		t.Error("Build shares its parts slice with the builder")
	}
}

func TestManifestEncode(t *testing.T) {
	b := NewManifestBuilder("weights.bin", "owner-1")
	if err := b.AddPart("ns/weights.bin.part0001", 10, 1); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	data, err := b.Build(10, "deadbeef").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var decoded Manifest
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ObjectName != "weights.bin" || decoded.Owner != "owner-1" {
		t.Errorf("decoded identity = %q/%q", decoded.ObjectName, decoded.Owner)
	}
	if len(decoded.Parts) != 1 || decoded.Parts[0].Ordinal != 1 {
		t.Errorf("decoded parts = %+v", decoded.Parts)
	}
}

func TestManifestName(t *testing.T) {
	if got := ManifestName("ns/weights.bin"); got != "ns/weights.bin.manifest.json" {
		t.Errorf("ManifestName = %q", got)
	}
}

package transfer

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// testLadder uses byte-scale sizes so tests stage tiny files.
var testLadder = Ladder{
	{Name: "xs", Threshold: 8, ChunkSize: 4},
	{Name: "sm", Threshold: 32, ChunkSize: 16},
	{Name: "lg", Threshold: 256, ChunkSize: 64},
}

// scriptedStore returns the scripted errors in order, then succeeds.
type scriptedStore struct {
	script  []error
	uploads int
}

func (s *scriptedStore) Upload(ctx context.Context, key string, content io.Reader) error {
	if _, err := io.Copy(io.Discard, content); err != nil {
		return err
	}
	s.uploads++
	if s.uploads <= len(s.script) {
		return s.script[s.uploads-1]
	}
	return nil
}

func (s *scriptedStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *scriptedStore) Delete(ctx context.Context, key string) error {
	return nil
}

func stagePart(t *testing.T, size int) Part {
	t.Helper()
	path := filepath.Join(t.TempDir(), "part-0001")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("stage part: %v", err)
	}
	return Part{Ordinal: 1, Size: int64(size), Path: path}
}

func newTestAttempter(t *testing.T, store *scriptedStore) *Attempter {
	t.Helper()
	a, err := NewAttempter(AttempterConfig{
		Store:     store,
		Ladder:    testLadder,
		BaseDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewAttempter: %v", err)
	}
	return a
}

func TestAttempterRetriesTransient(t *testing.T) {
	store := &scriptedStore{script: []error{
		errors.New("connection reset by peer"),
		errors.New("i/o timeout"),
	}}
	a := newTestAttempter(t, store)

	err := a.Attempt(context.Background(), stagePart(t, 4), "ns/obj.part0001", testLadder[0])
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if store.uploads != 3 {
		t.Errorf("got %d upload calls, want 3", store.uploads)
	}
	if a.Ceiling() != testLadder.Largest().ChunkSize {
		t.Errorf("ceiling moved on transient failures: %d", a.Ceiling())
	}
}

func TestAttempterExhaustsRetries(t *testing.T) {
	store := &scriptedStore{script: []error{
		errors.New("connection reset"),
		errors.New("connection reset"),
		errors.New("connection reset"),
	}}
	a := newTestAttempter(t, store)

	err := a.Attempt(context.Background(), stagePart(t, 4), "ns/obj.part0001", testLadder[0])
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Attempt = %v, want RetriesExhaustedError", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if store.uploads != 3 {
		t.Errorf("got %d upload calls, want 3", store.uploads)
	}
}

func TestAttempterQuotaFailsFast(t *testing.T) {
	store := &scriptedStore{script: []error{
		errors.New("403: namespace storage limit reached"),
	}}
	a := newTestAttempter(t, store)
	before := a.Ceiling()

	err := a.Attempt(context.Background(), stagePart(t, 64), "ns/obj.part0001", testLadder[2])
	var quota *QuotaError
	if !errors.As(err, &quota) {
		t.Fatalf("Attempt = %v, want QuotaError", err)
	}
	if quota.Strategy != "lg" {
		t.Errorf("QuotaError.Strategy = %q, want lg", quota.Strategy)
	}
	if store.uploads != 1 {
		t.Errorf("quota rejection was retried: %d upload calls", store.uploads)
	}
	if a.Ceiling() >= before {
		t.Errorf("ceiling did not shrink: %d -> %d", before, a.Ceiling())
	}
}

func TestAttempterCeilingFloor(t *testing.T) {
	store := &scriptedStore{}
	a := newTestAttempter(t, store)

	for i := 0; i < 50; i++ {
		a.shrinkCeiling()
	}
	if a.Ceiling() != testLadder.Smallest().ChunkSize {
		t.Errorf("ceiling %d fell past the smallest chunk size %d",
			a.Ceiling(), testLadder.Smallest().ChunkSize)
	}
}

func TestDefaultClassifier(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{errors.New("403 Forbidden"), KindQuota},
		{errors.New("namespace quota reached"), KindQuota},
		{errors.New("file exceeds maximum size"), KindQuota},
		{errors.New("requires LFS for files over limit"), KindQuota},
		{errors.New("connection reset by peer"), KindTransient},
		{errors.New("context deadline exceeded"), KindTransient},
		{nil, KindTransient},
	}
	for _, tc := range cases {
		if got := DefaultClassifier(tc.err); got != tc.want {
			t.Errorf("DefaultClassifier(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

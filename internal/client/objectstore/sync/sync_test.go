package sync

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// mockClient is a mock implementation of objectstore.Client for testing
type mockClient struct {
	mu          sync.Mutex
	uploads     map[string][]byte
	downloads   map[string][]byte
	deletes     []string
	uploadErr   error
	downloadErr error
	uploadDelay time.Duration
}

func newMockClient() *mockClient {
	return &mockClient{
		uploads:   make(map[string][]byte),
		downloads: make(map[string][]byte),
		deletes:   make([]string, 0),
	}
}

func (m *mockClient) Upload(ctx context.Context, key string, content io.Reader) error {
	if m.uploadDelay > 0 {
		time.Sleep(m.uploadDelay)
	}
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	m.uploads[key] = data
	return nil
}

func (m *mockClient) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.downloads[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockClient) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.uploads, key)
	delete(m.downloads, key)
	return nil
}

func TestNewSyncClient(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, err := NewSyncClient(SyncConfig{Client: newMockClient()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if client == nil {
			t.Fatal("expected client to be non-nil")
		}
	})

	t.Run("nil client returns error", func(t *testing.T) {
		_, err := NewSyncClient(SyncConfig{Client: nil})
		if err == nil {
			t.Fatal("expected error for nil client")
		}
	})
}

func TestSyncUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock := newMockClient()
		client, err := NewSyncClient(SyncConfig{Client: mock})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		key := "ns/part-0001"
		if err := client.Upload(ctx, key, strings.NewReader("part bytes")); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(mock.uploads[key]) != "part bytes" {
			t.Errorf("expected content %q, got %q", "part bytes", string(mock.uploads[key]))
		}
	})

	t.Run("concurrent uploads to same key are serialized", func(t *testing.T) {
		mock := newMockClient()
		mock.uploadDelay = 10 * time.Millisecond
		client, err := NewSyncClient(SyncConfig{Client: mock})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		key := "ns/part-0001"
		var wg sync.WaitGroup
		errs := make([]error, 3)
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				errs[idx] = client.Upload(ctx, key, strings.NewReader("content"+string(rune('0'+idx))))
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Errorf("upload %d failed: %v", i, err)
			}
		}
		if len(mock.uploads) != 1 {
			t.Errorf("expected 1 upload, got %d", len(mock.uploads))
		}
	})
}

func TestSyncDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("read lock released on close", func(t *testing.T) {
		mock := newMockClient()
		mock.downloads["ns/obj"] = []byte("object content")
		client, err := NewSyncClient(SyncConfig{Client: mock})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		reader, err := client.Download(ctx, "ns/obj")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(data) != "object content" {
			t.Errorf("expected %q, got %q", "object content", string(data))
		}
		if err := reader.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}

		// After close the write lock must be immediately acquirable.
		if err := client.Upload(ctx, "ns/obj", strings.NewReader("new content")); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
	})

	t.Run("download error releases lock", func(t *testing.T) {
		mock := newMockClient()
		mock.downloadErr = errors.New("download failed")
		client, err := NewSyncClient(SyncConfig{Client: mock})
		if err != nil {
			t.Fatalf("failed to create client: %v", err)
		}

		if _, err := client.Download(ctx, "ns/obj"); err == nil {
			t.Fatal("expected error")
		}
		mock.downloadErr = nil
		if err := client.Upload(ctx, "ns/obj", strings.NewReader("content")); err != nil {
			t.Fatalf("expected upload to succeed after download error, got %v", err)
		}
	})
}

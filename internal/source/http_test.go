package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProviderFetch(t *testing.T) {
	body := []byte("0123456789")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sized":
			w.Write(body)
		case "/chunked":
			w.WriteHeader(http.StatusOK)
			f := w.(http.Flusher)
			w.Write(body[:5])
			f.Flush()
			w.Write(body[5:])
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewHTTPProvider(HTTPConfig{})

	t.Run("content length reported", func(t *testing.T) {
		rc, size, err := p.Fetch(context.Background(), srv.URL+"/sized")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		defer rc.Close()
		if size != int64(len(body)) {
			t.Errorf("size = %d, want %d", size, len(body))
		}
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(got) != string(body) {
			t.Errorf("body = %q", got)
		}
	})

	t.Run("chunked response reports unknown size", func(t *testing.T) {
		rc, size, err := p.Fetch(context.Background(), srv.URL+"/chunked")
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		defer rc.Close()
		if size != SizeUnknown {
			t.Errorf("size = %d, want SizeUnknown", size)
		}
	})

	t.Run("non-200 fails", func(t *testing.T) {
		if _, _, err := p.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
			t.Error("404 did not fail the fetch")
		}
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		if _, _, err := p.Fetch(context.Background(), "ftp://host/obj"); err == nil {
			t.Error("ftp scheme accepted")
		}
	})
}

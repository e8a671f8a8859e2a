package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/mm/graph.mtx", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
			t.Errorf("User-Agent = %q, want %q", ua, DefaultUserAgent)
		}
		w.Header().Set("Content-Length", "11")
		if r.Method == http.MethodHead {
			return
		}
		w.Write([]byte("%%MatrixMkt"))
	})
	mux.HandleFunc("/missing.csr", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetFileSize(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient().WithHTTPClient(srv.Client())

	size, err := client.GetFileSize(context.Background(), srv.URL+"/mm/graph.mtx")
	if err != nil {
		t.Fatalf("GetFileSize: %v", err)
	}
	if size != 11 {
		t.Errorf("size = %d, want 11", size)
	}

	if _, err := client.GetFileSize(context.Background(), srv.URL+"/missing.csr"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestClient_DownloadFile(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient().WithHTTPClient(srv.Client())
	dest := filepath.Join(t.TempDir(), "market", "graph.mtx")

	var lastWritten, lastTotal int64
	n, err := client.DownloadFile(context.Background(), srv.URL+"/mm/graph.mtx", dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if n != 11 || lastWritten != 11 || lastTotal != 11 {
		t.Errorf("n = %d, progress = %d/%d, want 11/11", n, lastWritten, lastTotal)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%%MatrixMkt" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error(".part file should be gone after a successful download")
	}
}

func TestClient_DownloadFile_NotFound(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient().WithHTTPClient(srv.Client())
	dest := filepath.Join(t.TempDir(), "missing.csr")

	_, err := client.DownloadFile(context.Background(), srv.URL+"/missing.csr", dest, nil)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %v, want HTTP 404", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should be created on failure")
	}
}

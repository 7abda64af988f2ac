package fetch_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/chriscorrea/termweight/internal/fetch"
)

func TestGetContent(t *testing.T) {
	tests := []struct {
		name        string
		setupFunc   func(t *testing.T) string
		expectError bool
		expectData  string
	}{
		{
			name: "http URL success",
			setupFunc: func(t *testing.T) string {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "termweight/") {
						t.Errorf("unexpected User-Agent %q", ua)
					}
					_, _ = w.Write([]byte("1,records from http"))
				}))
				t.Cleanup(server.Close)
				return server.URL
			},
			expectData: "1,records from http",
		},
		{
			name: "https URL with untrusted certificate",
			setupFunc: func(t *testing.T) string {
				server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_, _ = w.Write([]byte("unreachable"))
				}))
				t.Cleanup(server.Close)
				return server.URL
			},
			expectError: true,
		},
		{
			name: "http URL with error status",
			setupFunc: func(t *testing.T) string {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNotFound)
				}))
				t.Cleanup(server.Close)
				return server.URL
			},
			expectError: true,
		},
		{
			name: "local file success",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "corpus.txt")
				if err := os.WriteFile(path, []byte("2,records from file"), 0o644); err != nil {
					t.Fatalf("Failed to write temp file: %v", err)
				}
				return path
			},
			expectData: "2,records from file",
		},
		{
			name: "directory is not a file",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			expectError: true,
		},
		{
			name: "non-existent file",
			setupFunc: func(t *testing.T) string {
				return "/path/that/does/not/exist.txt"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := tt.setupFunc(t)

			reader, err := fetch.GetContent(context.Background(), source)
			if tt.expectError {
				if err == nil {
					reader.Close()
					t.Errorf("GetContent() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetContent() error = %v, expected no error", err)
			}
			defer reader.Close()

			data, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to read from reader: %v", err)
			}
			if string(data) != tt.expectData {
				t.Errorf("GetContent() data = %q, expected %q", string(data), tt.expectData)
			}
		})
	}
}

func TestGetContentStdin(t *testing.T) {
	reader, err := fetch.GetContent(context.Background(), fetch.StdinSource)
	if err != nil {
		t.Fatalf("GetContent() error = %v, expected no error for stdin", err)
	}
	if reader == nil {
		t.Fatal("GetContent() for stdin returned a nil reader")
	}
	reader.Close()
}

func TestGetContentErrorMessages(t *testing.T) {
	_, err := fetch.GetContent(context.Background(), "http://invalid-domain-that-definitely-does-not-exist.invalid")
	if err == nil || !strings.Contains(err.Error(), "failed to fetch URL") {
		t.Errorf("URL error should mention URL fetching, got %v", err)
	}

	_, err = fetch.GetContent(context.Background(), "missing-corpus.txt")
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("file error should mention file not existing, got %v", err)
	}
}

func TestExpand(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}

	got, err := fetch.Expand([]string{"-", dir, "https://example.com/doc", "missing.txt"})
	if err != nil {
		t.Fatalf("Expand() unexpected error: %v", err)
	}

	want := []string{
		"-",
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		"https://example.com/doc",
		"missing.txt",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expand() = %q, want %q", got, want)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"http://example.com":  true,
		"https://example.com": true,
		"ftp://example.com":   false,
		"corpus.txt":          false,
		"-":                   false,
	}
	for source, want := range tests {
		if got := fetch.IsURL(source); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", source, got, want)
		}
	}
}

// Package fetch opens corpus sources: standard input, HTTP(S) URLs, local
// files and directories of files.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Size limits keep a single corpus source from exhausting memory; documents
// are held in memory for the whole run.
const (
	MaxFileSizeBytes = 50 * 1024 * 1024
	MaxHTTPSizeBytes = 100 * 1024 * 1024
)

// HTTPRequestTimeout bounds a whole URL fetch.
const HTTPRequestTimeout = 30 * time.Second

// StdinSource is the source name that reads standard input.
const StdinSource = "-"

// limitedReadCloser wraps an io.ReadCloser to enforce size limits
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
	source    string
}

func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, fmt.Errorf("content from %q exceeds size limit", l.source)
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.ReadCloser.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// httpClient is shared by all URL fetches and safe for concurrent use.
var httpClient = &http.Client{
	Timeout: HTTPRequestTimeout,
	Transport: &http.Transport{
		Dial: (&net.Dialer{
			Timeout: HTTPRequestTimeout / 6,
		}).Dial,
		TLSHandshakeTimeout:   HTTPRequestTimeout / 6,
		ResponseHeaderTimeout: HTTPRequestTimeout / 2,
		DisableKeepAlives:     true,
	},
}

// IsURL reports whether source is fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// GetContent opens a single source for reading. The caller closes the reader.
//   - "-" reads from standard input
//   - "http://" and "https://" sources are fetched with GET
//   - anything else is a local file path
func GetContent(ctx context.Context, source string) (io.ReadCloser, error) {
	switch {
	case source == StdinSource:
		return &limitedReadCloser{
			ReadCloser: io.NopCloser(os.Stdin),
			remaining:  MaxFileSizeBytes,
			source:     "stdin",
		}, nil
	case IsURL(source):
		return fetchURL(ctx, source)
	default:
		return fetchFile(source)
	}
}

// Expand replaces every directory in sources with the regular files it
// directly contains, sorted by name. Other sources are returned unchanged and
// in order.
func Expand(sources []string) ([]string, error) {
	expanded := make([]string, 0, len(sources))
	for _, source := range sources {
		if source == StdinSource || IsURL(source) {
			expanded = append(expanded, source)
			continue
		}

		info, err := os.Stat(source)
		if err != nil || !info.IsDir() {
			// missing files are reported by GetContent
			expanded = append(expanded, source)
			continue
		}

		entries, err := os.ReadDir(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %q: %w", source, err)
		}

		var files []string
		for _, entry := range entries {
			if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
				files = append(files, filepath.Join(source, entry.Name()))
			}
		}
		sort.Strings(files)

		slog.Debug("Expanded directory source", "directory", source, "files", len(files))
		expanded = append(expanded, files...)
	}
	return expanded, nil
}

// fetchURL retrieves content from an HTTP or HTTPS URL
func fetchURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %q: %w", url, err)
	}
	req.Header.Set("User-Agent", "termweight/0.1")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %q: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP request failed for URL %q: status %s", url, resp.Status)
	}

	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil && size > MaxHTTPSizeBytes {
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP content too large (%d bytes > %d bytes limit)", size, MaxHTTPSizeBytes)
		}
	}

	return &limitedReadCloser{
		ReadCloser: resp.Body,
		remaining:  MaxHTTPSizeBytes,
		source:     url,
	}, nil
}

// fetchFile opens a local file after checking that it exists and fits the
// size limit
func fetchFile(path string) (io.ReadCloser, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file %q does not exist", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to access file %q: %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if fileInfo.Size() > MaxFileSizeBytes {
		return nil, fmt.Errorf("file %q is too large (%d bytes > %d bytes limit)",
			path, fileInfo.Size(), MaxFileSizeBytes)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	return file, nil
}

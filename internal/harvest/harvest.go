// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest downloads RDF dumps into the data directory.
package harvest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/semagraph/internal/httputil"
	"github.com/pdiddy/semagraph/pkg/types"
)

// BatchResult holds the outcome of a batch harvest run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
	Files      []string
}

// Total returns the total number of URLs processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Fetch downloads one dump into cfg.DataDir, keeping the URL's filename.
// An existing file is not re-downloaded; skipped reports that case.
func Fetch(ctx context.Context, client *http.Client, rawURL string, cfg types.HarvestConfig, w io.Writer) (dest string, skipped bool, err error) {
	name, err := dumpName(rawURL)
	if err != nil {
		return "", false, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}

	dest = filepath.Join(cfg.DataDir, name)
	if _, err := os.Stat(dest); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return dest, true, nil
	}

	fmt.Fprintf(w, "downloading: %s\n", name)
	if err := download(ctx, client, rawURL, dest, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", name, err)
	}
	return dest, false, nil
}

// FetchAll downloads a batch of dumps with a polite delay between them.
func FetchAll(ctx context.Context, client *http.Client, urls []string, cfg types.HarvestConfig, w io.Writer) (BatchResult, error) {
	delay := cfg.DownloadDelay
	if delay <= 0 {
		delay = time.Second
	}

	var result BatchResult
	for i, u := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}

		dest, skipped, err := Fetch(ctx, client, u, cfg, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed: %s: %v\n", u, err)
			result.Failed++
		case skipped:
			result.Skipped++
			result.Files = append(result.Files, dest)
		default:
			result.Downloaded++
			result.Files = append(result.Files, dest)
		}
	}

	fmt.Fprintf(w, "\ndownloaded: %d, skipped: %d, failed: %d\n",
		result.Downloaded, result.Skipped, result.Failed)
	return result, nil
}

// download writes the response body to a temp file and renames it into
// place on success, so partial downloads never land at the destination.
func download(ctx context.Context, client *http.Client, rawURL, dest string, cfg types.HarvestConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".harvest-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	return os.Rename(tmpName, dest)
}

// dumpName derives the destination filename from the URL path.
func dumpName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("cannot derive filename from URL %q", rawURL)
	}
	return name, nil
}

// Package storms acquires the NOAA storm dataset and the event type
// vocabulary, from local files or over HTTP with an on-disk cache, and
// parses them into domain records.
package storms

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client localizes dataset sources. Remote sources are downloaded once
// into cacheDir and reused on later runs.
type Client struct {
	httpClient *http.Client
	cacheDir   string
	logger     *slog.Logger
}

// NewClient creates a Client that caches downloads under cacheDir.
func NewClient(cacheDir string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		cacheDir:   cacheDir,
		logger:     logger,
	}
}

// Localize resolves source to a readable local path. Local paths are
// returned as-is after an existence check; http(s) URLs are fetched into
// the cache unless already present.
func (c *Client) Localize(ctx context.Context, source string) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		if _, err := os.Stat(source); err != nil {
			return "", fmt.Errorf("stat source file: %w", err)
		}
		return source, nil
	}

	path := c.cachePath(source)
	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("using cached dataset", "path", path)
		return path, nil
	}

	if err := os.MkdirAll(c.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}
	if err := c.download(ctx, source, path); err != nil {
		return "", err
	}
	return path, nil
}

// cachePath derives a stable cache file name from the source URL,
// preserving the suffix so the reader can detect compression.
func (c *Client) cachePath(source string) string {
	sum := sha256.Sum256([]byte(source))
	suffix := filepath.Ext(source)
	if strings.HasSuffix(source, ".csv.bz2") {
		suffix = ".csv.bz2"
	}
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x%s", sum[:8], suffix))
}

func (c *Client) download(ctx context.Context, source, dest string) error {
	c.logger.Info("downloading dataset", "source", source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", source, resp.StatusCode)
	}

	// Write to a temp file and rename so an interrupted download never
	// poisons the cache.
	tmp := dest + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize cache file: %w", err)
	}

	c.logger.Info("dataset cached", "path", dest, "bytes", written)
	return nil
}

// Package net fetches remote input files into a local cache.
package net

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	dirMode      = 0700
	hashPrefixSz = 12
	partSuffix   = ".part"
)

var ErrorURLNotFound = errors.New("URL not found")

// IsRemote reports whether src is an http(s) URL.
func IsRemote(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch returns a local path for src. Local paths are returned as is;
// URLs are downloaded into cacheDir once and reused afterwards unless
// refresh is set. The cached file keeps the URL's base name, so .gz inputs
// stay recognizable.
func Fetch(ctx context.Context, src, cacheDir string, refresh bool) (string, error) {
	if !IsRemote(src) {
		return src, nil
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %s: %w", src, err)
	}

	sum := sha256.Sum256([]byte(src))
	name := hex.EncodeToString(sum[:])[:hashPrefixSz] + "-" + path.Base(u.Path)
	target := filepath.Join(cacheDir, name)

	if !refresh {
		if _, err := os.Stat(target); err == nil {
			slog.Debug("using cached download", "url", src, "path", target)
			return target, nil
		}
	}

	if err := os.MkdirAll(cacheDir, dirMode); err != nil {
		return "", fmt.Errorf("creating cache dir %s: %w", cacheDir, err)
	}

	slog.Info("downloading", "url", src)
	if err := Download(ctx, src, target); err != nil {
		return "", err
	}
	return target, nil
}

// Download writes the content at url into filePath. The file only appears
// once the transfer completed.
func Download(ctx context.Context, url string, filePath string) (retErr error) {
	tmp := filePath + partSuffix
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("error creating file %s: %w", tmp, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("closing file: %w", cerr)
		}
		if retErr != nil {
			os.Remove(tmp)
			return
		}
		if err := os.Rename(tmp, filePath); err != nil {
			retErr = fmt.Errorf("error moving download into place: %w", err)
		}
	}()

	resp, err := getResp(ctx, url)
	if err != nil {
		return fmt.Errorf("error executing HTTP Get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrorURLNotFound
	}

	if resp.StatusCode != http.StatusOK {
		PrintHTTPResponse(resp)
		return fmt.Errorf("error downloading file (status: %d - %s): %s", resp.StatusCode, resp.Status, url)
	}

	if _, err = io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("error saving downloaded content to file: %w", err)
	}

	return nil
}

func getResp(ctx context.Context, url string) (*http.Response, error) {
	c, err := GetHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP client: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP Get request: %w", err)
	}

	req.Header.Set("User-Agent", clientAgent)

	return c.Do(req) //nolint:gosec // URL comes from the user's own input flags
}

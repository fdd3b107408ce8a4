package customHttpClient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/campuskeep/NotesAPI/internal/config"
)

//TODO: make qdrant/llm/embedder reuse connections to avoid latency

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var downloadClient = &http.Client{
	Transport: customTransport,
	Timeout:   2 * time.Minute,
}

// DownloadToTempFile fetches the document behind url into temporary_data and
// returns the local path. The body is capped at config.MaxDownloadBytes so a
// bad link cannot fill the disk.
func DownloadToTempFile(ctx context.Context, url string, fileName string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := downloadClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading document: unexpected status %d", resp.StatusCode)
	}

	root, err := os.Getwd()
	if err != nil {
		return "", err
	}
	targetDir := filepath.Join(root, "temporary_data")
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", err
	}

	target := filepath.Join(targetDir, filepath.Base(fileName))
	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(resp.Body, config.MaxDownloadBytes+1))
	if err != nil {
		os.Remove(target)
		return "", fmt.Errorf("saving document: %w", err)
	}
	if written > config.MaxDownloadBytes {
		os.Remove(target)
		return "", fmt.Errorf("document exceeds %d byte limit", config.MaxDownloadBytes)
	}

	return target, nil
}

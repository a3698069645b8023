// Package netx holds HTTP helpers for presigned object URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxDownloadSize caps the body read from a presigned URL.
const maxDownloadSize = 8 << 20

// DownloadPresignedURL fetches the object behind a presigned GET URL.
func DownloadPresignedURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
}

// Package httptransport delivers registration bodies to the directory
// over HTTPS.
package httptransport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxResponseSize bounds how much of a response body is read. Directory
// responses are a few kilobytes; anything near this limit is garbage.
const maxResponseSize = 4 << 20

// Transport implements ports.Transport on net/http.
type Transport struct {
	client *http.Client
}

// New creates a transport. A nil client falls back to
// http.DefaultClient; callers owning timeout policy pass their own.
func New(client *http.Client) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &Transport{client: client}
}

// Post implements ports.Transport.
func (t *Transport) Post(ctx context.Context, endpoint string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-apple-plist")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned HTTP %d", resp.StatusCode)
	}
	return data, nil
}

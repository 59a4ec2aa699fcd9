package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cloudlab-go/internal/types"
)

// maxErrorBody bounds how much of a failed response ends up in an error message.
const maxErrorBody = 512

// Fetch downloads and decodes the transcript document at uri. There is no retry.
func (c *Client) Fetch(ctx context.Context, uri string) (*types.TranscriptDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("transcript request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("download transcript: status %d: %s", resp.StatusCode, string(b))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	c.log.WithField("bytes", len(body)).Debug("transcript downloaded")

	var doc types.TranscriptDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return &doc, nil
}

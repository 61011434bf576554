package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Speech synthesizes text with the given voice and returns the mp3
// blob. The voice must already be resolved to a value the service
// accepts; decoded records may carry voices outside the enumeration.
func (c *Client) Speech(ctx context.Context, text, voice, model string) ([]byte, error) {
	payload := map[string]any{
		"model":           model,
		"input":           text,
		"voice":           voice,
		"response_format": "mp3",
	}

	req, err := c.newRequest(ctx, "/audio/speech", payload)
	if err != nil {
		return nil, err
	}

	resp, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech request failed with status %d: %s", resp.StatusCode, string(body))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio blob: %w", err)
	}
	return blob, nil
}

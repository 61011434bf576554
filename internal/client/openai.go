package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/polyglot-cli/polyglot/internal/stream"
)

// DefaultAPIBase is the OpenAI-compatible endpoint used when the
// config does not override it.
const DefaultAPIBase = "https://api.openai.com/v1"

// Client talks to an OpenAI-compatible generation service.
type Client struct {
	apiBase string
	key     string
}

type (
	Message map[string]any
	Options map[string]any
)

// New builds a client for the given API base. The key is taken from
// POLYGLOT_API_KEY, falling back to OPENAI_API_KEY.
func New(apiBase string) (*Client, error) {
	key := os.Getenv("POLYGLOT_API_KEY")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, errors.New("no API key: set POLYGLOT_API_KEY or OPENAI_API_KEY")
	}
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{apiBase: strings.TrimRight(apiBase, "/"), key: key}, nil
}

// getHTTPClient returns a singleton HTTP client
var (
	httpClient     *http.Client
	httpClientOnce sync.Once
	defaultTimeout = 120 * time.Second
)

func getHTTPClient(ctx context.Context) *http.Client {
	httpClientOnce.Do(func() {
		transport := &http.Transport{
			MaxIdleConns:       100,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: false,
			DisableKeepAlives:  false,
			ForceAttemptHTTP2:  true,
		}

		transport.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext

		httpClient = &http.Client{
			Transport: transport,
		}
	})

	// Clone so a per-request deadline never leaks into the shared client.
	if deadline, ok := ctx.Deadline(); ok {
		clientCopy := *httpClient
		clientCopy.Timeout = time.Until(deadline)
		return &clientCopy
	}

	clientCopy := *httpClient
	clientCopy.Timeout = defaultTimeout
	return &clientCopy
}

func (c *Client) newRequest(ctx context.Context, path string, payload any) (*http.Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func chatPayload(prompt, model string, streaming bool) map[string]any {
	messages := []Message{
		{"role": "user", "content": prompt},
	}

	payload := make(map[string]any, 5)
	payload["messages"] = messages
	payload["model"] = model
	payload["n"] = 1
	payload["top_p"] = 1
	if streaming {
		payload["stream"] = true
	}
	return payload
}

// Stream POSTs a streaming chat completion and returns the chunk
// channel fed by the SSE parser. The channel closes when the response
// body is exhausted; the body is closed by the parser goroutine.
func (c *Client) Stream(ctx context.Context, prompt, model string) (<-chan stream.Chunk, error) {
	req, err := c.newRequest(ctx, "/chat/completions", chatPayload(prompt, model, true))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	parser := stream.NewParser(ctx)
	go func() {
		defer func() {
			if err := resp.Body.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close response body: %v\n", err)
			}
		}()
		parser.Process(resp.Body)
	}()
	return parser.Chunks(), nil
}

// Complete POSTs a non-streaming chat completion and returns the full
// response text.
func (c *Client) Complete(ctx context.Context, prompt, model string) (string, error) {
	req, err := c.newRequest(ctx, "/chat/completions", chatPayload(prompt, model, false))
	if err != nil {
		return "", err
	}

	resp, err := getHTTPClient(ctx).Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close response body: %v\n", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return result.Choices[0].Message.Content, nil
}

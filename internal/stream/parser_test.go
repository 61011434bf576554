package stream

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sseBody(lines ...string) io.ReadCloser {
	return io.NopCloser(strings.NewReader(strings.Join(lines, "\n")))
}

func collect(t *testing.T, chunks <-chan Chunk) (string, error) {
	t.Helper()
	var b strings.Builder
	for c := range chunks {
		if c.Err != nil {
			return b.String(), c.Err
		}
		b.WriteString(c.Content)
	}
	return b.String(), nil
}

func TestProcessDeltas(t *testing.T) {
	p := NewParser(context.Background())
	go p.Process(sseBody(
		`data: {"choices":[{"delta":{"content":"5|"}}]}`,
		``,
		`data: {"choices":[{"delta":{"content":"|||Hello||||"}}]}`,
		`data: [DONE]`,
	))

	got, err := collect(t, p.Chunks())
	require.NoError(t, err)
	require.Equal(t, "5||||Hello||||", got)
}

func TestProcessFallsBackToMessageContent(t *testing.T) {
	p := NewParser(context.Background())
	go p.Process(sseBody(
		`data: {"choices":[{"message":{"content":"whole reply"}}]}`,
	))

	got, err := collect(t, p.Chunks())
	require.NoError(t, err)
	require.Equal(t, "whole reply", got)
}

func TestProcessSkipsMalformedLines(t *testing.T) {
	p := NewParser(context.Background())
	go p.Process(sseBody(
		`data: not json`,
		`data: {"choices":[{"delta":{"content":"ok"}}]}`,
	))

	got, err := collect(t, p.Chunks())
	require.NoError(t, err)
	require.Equal(t, "ok", got)
}

func TestProcessHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewParser(ctx)
	go p.Process(sseBody(`data: {"choices":[{"delta":{"content":"late"}}]}`))

	_, err := collect(t, p.Chunks())
	require.ErrorIs(t, err, context.Canceled)
}

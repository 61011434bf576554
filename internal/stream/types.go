package stream

import "context"

// Chunk is one piece of raw response text delivered by the transport.
// A chunk with Err set is terminal: the stream failed and no further
// content follows.
type Chunk struct {
	Content string
	Err     error
}

// Parser turns a server-sent-event response body into a channel of
// chunks. The channel closes on stream exhaustion or after a terminal
// error chunk.
type Parser struct {
	ctx    context.Context
	chunks chan Chunk
}

func NewParser(ctx context.Context) *Parser {
	return &Parser{
		ctx:    ctx,
		chunks: make(chan Chunk),
	}
}

func (p *Parser) Chunks() <-chan Chunk {
	return p.chunks
}

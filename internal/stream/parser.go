package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// completionResponse is the shape of one chat-completions event. The
// streaming API fills Delta; the non-streaming API fills Message.
type completionResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Process reads SSE lines from body and forwards their content on the
// chunk channel until the body is exhausted, the context ends, or the
// reader fails. Malformed event lines are skipped; only reader and
// context errors produce a terminal error chunk. The chunk channel is
// closed on return; closing body stays with the caller.
func (p *Parser) Process(body io.ReadCloser) {
	defer close(p.chunks)
	done := p.ctx.Done()

	reader := bufio.NewReaderSize(body, 4096)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanLines)

	var event completionResponse

	for {
		select {
		case <-done:
			p.chunks <- Chunk{Err: p.ctx.Err()}
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					p.chunks <- Chunk{Err: err}
				}
				return
			}

			line := scanner.Text()
			if line == "" || line == "data: [DONE]" {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				continue
			}

			if len(event.Choices) > 0 {
				content := event.Choices[0].Delta.Content
				if content == "" {
					content = event.Choices[0].Message.Content
				}
				if content != "" {
					p.chunks <- Chunk{Content: content}
				}
			}
		}
	}
}

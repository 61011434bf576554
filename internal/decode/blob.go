package decode

import (
	"strings"

	"github.com/polyglot-cli/polyglot/internal/schema"
	"github.com/polyglot-cli/polyglot/internal/stream"
)

// ParseBlob applies the sentinel protocol to one complete response
// body in a single pass. The first N segments map positionally onto
// the schema; segments beyond N are ignored. Echoed labels are
// filtered per segment the same way the incremental scanner filters
// them. There is no buffer state: the blob is final.
func ParseBlob(text string, sc schema.Schema) schema.Record {
	scan := NewScanner(sc.Labels)
	segs := strings.Split(text, Sentinel)
	if len(segs) > 0 && strings.TrimSpace(segs[len(segs)-1]) == "" {
		segs = segs[:len(segs)-1]
	}
	var rec schema.Record
	pos := 0
	for _, seg := range segs {
		if pos >= sc.Len() {
			break
		}
		v, ok := scan.accept(strings.TrimSpace(seg))
		if !ok {
			continue
		}
		sc.Assign(&rec, pos, v)
		pos++
	}
	return rec
}

// ParseAll decodes every record in one complete body by reusing the
// incremental machinery with the body as a single fragment, including
// the tail flush. Fragmentation invariance makes this equivalent to
// any streamed delivery of the same text.
func ParseAll(text string, sc schema.Schema) []schema.Record {
	d := NewDecoder(sc, List)
	chunks := make(chan stream.Chunk, 1)
	chunks <- stream.Chunk{Content: text}
	close(chunks)
	// Err is only ever set by the transport; a literal chunk has none.
	_ = d.Run(chunks, nil)
	return d.Records()
}

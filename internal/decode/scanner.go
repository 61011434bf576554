package decode

import "strings"

// Sentinel is the four-character field terminator of the streamed wire
// protocol. No legitimate field value contains it.
const Sentinel = "||||"

// Scanner accumulates raw fragments and extracts sentinel-terminated
// values. Fragment boundaries are arbitrary; a sentinel split across
// fragments is found once the remaining bytes arrive because every
// scan runs over the full accumulated buffer.
type Scanner struct {
	buf     string
	labels  []string
	flushed bool
}

func NewScanner(labels []string) *Scanner {
	return &Scanner{labels: labels}
}

// Feed appends fragment to the buffer and returns every complete value
// found, in order. The buffer keeps only what follows the last
// consumed sentinel, so a partial value or partial sentinel survives
// until the next call. Echoed field labels are dropped and do not
// appear in the result.
func (s *Scanner) Feed(fragment string) []string {
	s.buf += fragment
	var values []string
	for {
		i := strings.Index(s.buf, Sentinel)
		if i < 0 {
			break
		}
		candidate := strings.TrimSpace(s.buf[:i])
		s.buf = s.buf[i+len(Sentinel):]
		if v, ok := s.accept(candidate); ok {
			values = append(values, v)
		}
	}
	return values
}

// Flush salvages a trailing, sentinel-less value once the stream has
// ended. Trailing sentinel fragments and whitespace are stripped; an
// empty remainder reports ok=false. Flush is idempotent: the second
// and later calls always report ok=false.
func (s *Scanner) Flush() (string, bool) {
	if s.flushed {
		return "", false
	}
	s.flushed = true
	rest := strings.TrimSpace(s.buf)
	rest = strings.TrimSpace(strings.TrimRight(rest, "|"))
	s.buf = ""
	if rest == "" {
		return "", false
	}
	return s.accept(rest)
}

// accept filters a candidate value. The generation service sometimes
// echoes a field label despite the format instructions: a candidate
// equal to a label is discarded outright, and a leading "label:"
// prefix is stripped from an otherwise usable value.
func (s *Scanner) accept(candidate string) (string, bool) {
	for _, label := range s.labels {
		if strings.EqualFold(candidate, label) {
			return "", false
		}
		if len(candidate) > len(label) && strings.EqualFold(candidate[:len(label)], label) {
			rest := candidate[len(label):]
			if strings.HasPrefix(rest, ":") {
				return strings.TrimSpace(rest[1:]), true
			}
		}
	}
	return candidate, true
}

package prompt

import (
	"fmt"
	"strings"

	"github.com/polyglot-cli/polyglot/internal/decode"
	"github.com/polyglot-cli/polyglot/internal/schema"
)

const protocol = `Answer with plain text only, no JSON and no markdown.
Write each field's value, then the delimiter %q, then a newline.
Never print the field names themselves, only the values, in this exact order:
%s
The delimiter must never appear inside a value.`

// Options builds the instruction for multi-option translation: count
// records of the 7-field option kind, fields in wire order, each value
// terminated by the sentinel.
func Options(text, targetLang string, count int) string {
	sc := schema.Option()
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text into %s.\n", targetLang)
	fmt.Fprintf(&b, "Give %d distinct translation options, from most common to least common.\n", count)
	b.WriteString("For every option, output these fields:\n")
	b.WriteString("number (1-based), the translation, how frequently it is used (in English), ")
	b.WriteString("the same frequency rating written in the target language, a latin transliteration, ")
	b.WriteString("a one-sentence explanation of nuance and register, and the best-fitting voice ")
	fmt.Fprintf(&b, "from this list: %s.\n\n", strings.Join(schema.Voices, ", "))
	fmt.Fprintf(&b, protocol, decode.Sentinel, strings.Join(sc.Labels, ", "))
	fmt.Fprintf(&b, "\n\nText: %s", text)
	return b.String()
}

// Detail builds the instruction for the single detailed record: the
// 8-field kind with the idiom field after the translation.
func Detail(text, targetLang string) string {
	sc := schema.Detail()
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text into %s and explain it in depth.\n", targetLang)
	b.WriteString("Output exactly one answer with these fields:\n")
	b.WriteString("number (always 1), the translation, whether the text is an idiom (yes or no, with the idiom's meaning if yes), ")
	b.WriteString("how frequently the translation is used (in English), the same frequency rating in the target language, ")
	b.WriteString("a latin transliteration, a detailed explanation of nuance, register, and grammar, ")
	fmt.Fprintf(&b, "and the best-fitting voice from this list: %s.\n\n", strings.Join(schema.Voices, ", "))
	fmt.Fprintf(&b, protocol, decode.Sentinel, strings.Join(sc.Labels, ", "))
	fmt.Fprintf(&b, "\n\nText: %s", text)
	return b.String()
}

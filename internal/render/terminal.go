package render

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/cli/go-gh/v2/pkg/markdown"
	"github.com/fatih/color"
	"github.com/polyglot-cli/polyglot/internal/decode"
	"github.com/polyglot-cli/polyglot/internal/schema"
)

type TerminalRenderer struct {
	markdown  *glamour.TermRenderer
	plainText bool
}

func NewTerminalRenderer(usePlainText bool) *TerminalRenderer {
	var md *glamour.TermRenderer
	if !usePlainText {
		md, _ = glamour.NewTermRenderer(
			markdown.WithWrap(120),
			glamour.WithAutoStyle(),
		)
	}

	return &TerminalRenderer{
		markdown:  md,
		plainText: usePlainText,
	}
}

// Live prints raw fragments as they arrive, dimmed so the structured
// summary printed afterwards stands out. It returns when raw closes.
func (t *TerminalRenderer) Live(raw <-chan string) {
	dim := color.New(color.Faint)
	for frag := range raw {
		if t.plainText {
			fmt.Print(frag)
		} else {
			dim.Print(frag)
		}
	}
	fmt.Println()
}

// Watch subscribes to the decoder's broadcast channel and prints a
// short notice on stderr each time a record arrives, until the stream
// completes or ctx ends.
func (t *TerminalRenderer) Watch(ctx context.Context, bus *decode.Broadcast) {
	ready := color.New(color.FgGreen)
	for {
		rec, ok := bus.AwaitNext(ctx)
		if !ok {
			return
		}
		if t.plainText {
			fmt.Fprintf(os.Stderr, "option %d ready\n", rec.Num)
		} else {
			ready.Fprintf(os.Stderr, "✓ option %d ready\n", rec.Num)
		}
	}
}

// Options renders the sealed translation options as markdown.
func (t *TerminalRenderer) Options(records []schema.Record) error {
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "### %d. %s\n\n", rec.Num, rec.Translation)
		fmt.Fprintf(&b, "- **Usage**: %s (%s)\n", rec.FrequencyRating, rec.FrequencyRatingLocalized)
		fmt.Fprintf(&b, "- **Transliteration**: %s\n", rec.Transliteration)
		fmt.Fprintf(&b, "- **Voice**: %s\n\n", rec.RecommendedVoice)
		fmt.Fprintf(&b, "%s\n\n", rec.Explanation)
	}
	return t.renderContent(b.String())
}

// Detail renders the single detailed record, including the idiom
// field the option kind does not carry.
func (t *TerminalRenderer) Detail(rec schema.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", rec.Translation)
	fmt.Fprintf(&b, "- **Idiom**: %s\n", rec.IdiomDetected)
	fmt.Fprintf(&b, "- **Usage**: %s (%s)\n", rec.FrequencyRating, rec.FrequencyRatingLocalized)
	fmt.Fprintf(&b, "- **Transliteration**: %s\n", rec.Transliteration)
	fmt.Fprintf(&b, "- **Voice**: %s\n\n", rec.RecommendedVoice)
	fmt.Fprintf(&b, "%s\n\n", rec.Explanation)
	return t.renderContent(b.String())
}

func (t *TerminalRenderer) renderContent(content string) error {
	if t.plainText {
		fmt.Print(content)
		return nil
	}

	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "#") {
		fmt.Println()
	}

	mdContent, err := t.markdown.Render(content)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	fmt.Println(strings.TrimSpace(mdContent))
	return nil
}

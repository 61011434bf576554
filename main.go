package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/polyglot-cli/polyglot/internal/args"
	"github.com/polyglot-cli/polyglot/internal/client"
	"github.com/polyglot-cli/polyglot/internal/config"
	"github.com/polyglot-cli/polyglot/internal/decode"
	"github.com/polyglot-cli/polyglot/internal/prompt"
	"github.com/polyglot-cli/polyglot/internal/render"
	"github.com/polyglot-cli/polyglot/internal/schema"
)

// main loads configuration, parses arguments, and runs the request.
func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	parsed, err := args.ParseArgs(ctx, *cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	if err := run(ctx, *cfg, parsed); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, a args.Arguments) error {
	cli, err := client.New(cfg.APIBase)
	if err != nil {
		return err
	}

	var (
		sc   schema.Schema
		mode decode.Mode
		text string
	)
	switch a.Mode {
	case args.ModeExplain:
		sc = schema.Detail()
		mode = decode.Single
		text = prompt.Detail(a.Text, a.Lang)
	default:
		sc = schema.Option()
		mode = decode.List
		text = prompt.Options(a.Text, a.Lang, a.Options)
	}

	renderer := render.NewTerminalRenderer(a.UsePlainText)

	var records []schema.Record
	if a.NoStream {
		body, err := cli.Complete(ctx, text, a.Model)
		if err != nil {
			return err
		}
		if mode == decode.Single {
			records = []schema.Record{decode.ParseBlob(body, sc)}
		} else {
			records = decode.ParseAll(body, sc)
		}
	} else {
		chunks, err := cli.Stream(ctx, text, a.Model)
		if err != nil {
			return err
		}

		d := decode.NewDecoder(sc, mode)
		raw := make(chan string, 64)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			renderer.Live(raw)
		}()
		if mode == decode.List {
			go renderer.Watch(ctx, d.Bus())
		}

		runErr := d.Run(chunks, raw)
		wg.Wait()
		if runErr != nil {
			return runErr
		}
		records = d.Records()
	}

	if len(records) == 0 {
		return fmt.Errorf("response contained no decodable records")
	}

	if mode == decode.Single {
		if err := renderer.Detail(records[len(records)-1]); err != nil {
			return err
		}
	} else {
		if err := renderer.Options(records); err != nil {
			return err
		}
	}

	if a.Speak {
		return speak(ctx, cli, cfg, a, records[0])
	}
	return nil
}

// speak synthesizes the first record's translation with its
// recommended voice, falling back to the configured voice when the
// record carries one outside the known enumeration.
func speak(ctx context.Context, cli *client.Client, cfg config.Config, a args.Arguments, rec schema.Record) error {
	voice := rec.RecommendedVoice
	if !schema.KnownVoice(voice) {
		voice = a.Voice
	}

	blob, err := cli.Speech(ctx, rec.Translation, voice, cfg.SpeechModel)
	if err != nil {
		return err
	}

	if err := os.WriteFile(a.AudioOut, blob, 0o644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes, voice %s)\n", a.AudioOut, len(blob), voice)
	return nil
}

package args

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/polyglot-cli/polyglot/internal/config"
	"github.com/spf13/cobra"
)

// Mode selects which generation the CLI runs.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeExplain   Mode = "explain"
)

// Arguments represents the parsed command line.
type Arguments struct {
	Mode         Mode
	Text         string
	Model        string
	Lang         string
	Options      int
	Voice        string
	UsePlainText bool
	NoStream     bool
	Speak        bool
	AudioOut     string
}

// ParseArgs parses the command line and stdin input, returning an
// Arguments struct. Cobra handles the two subcommands; a bare prompt
// with no subcommand runs translate. Piped stdin becomes the text when
// no positional argument is given.
func ParseArgs(ctx context.Context, cfg config.Config) (Arguments, error) {
	args := Arguments{Mode: ModeTranslate, Options: cfg.Options}

	rootCmd := &cobra.Command{
		Use:   "polyglot [command] [flags] [text]",
		Short: "Translate text with streamed, structured options and speech voices",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if len(cmdArgs) > 0 {
				args.Text = cmdArgs[0]
			}
			return nil
		},
		SilenceErrors: true, // We'll handle error reporting
		SilenceUsage:  true, // We'll handle usage display
	}

	rootCmd.PersistentFlags().StringVar(&args.Model, "model", cfg.Model, "The generation model to use")
	rootCmd.PersistentFlags().StringVar(&args.Lang, "lang", cfg.TargetLanguage, "Target language")
	rootCmd.PersistentFlags().StringVar(&args.Voice, "voice", cfg.Voice, "Fallback speech voice")
	rootCmd.PersistentFlags().BoolVar(&args.UsePlainText, "plain", shouldUsePlainText(cfg), "Disable markdown rendering")
	rootCmd.PersistentFlags().BoolVar(&args.NoStream, "no-stream", false, "Fetch the whole response at once instead of streaming")
	rootCmd.PersistentFlags().BoolVar(&args.Speak, "speak", false, "Synthesize the translation with the recommended voice")
	rootCmd.PersistentFlags().StringVar(&args.AudioOut, "audio-out", "polyglot.mp3", "File the synthesized audio is written to")

	translateCmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Stream several translation options as structured records",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			args.Mode = ModeTranslate
			if len(cmdArgs) > 0 {
				args.Text = cmdArgs[0]
			}
			return nil
		},
	}
	translateCmd.Flags().IntVar(&args.Options, "options", cfg.Options, "How many translation options to request")

	explainCmd := &cobra.Command{
		Use:   "explain [text]",
		Short: "Stream one detailed translation with idiom detection",
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			args.Mode = ModeExplain
			if len(cmdArgs) > 0 {
				args.Text = cmdArgs[0]
			}
			return nil
		},
	}

	rootCmd.AddCommand(translateCmd, explainCmd)

	// Read from stdin if available
	if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max buffer
		var buf strings.Builder
		for scanner.Scan() {
			buf.WriteString(scanner.Text())
			buf.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return Arguments{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		if piped := strings.TrimSpace(buf.String()); piped != "" {
			args.Text = piped
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return Arguments{}, err
	}

	if args.Text == "" {
		return Arguments{}, errors.New("no text provided")
	}

	return args, nil
}

// shouldUsePlainText determines if plain text output should be used based on environment and terminal settings.
func shouldUsePlainText(cfg config.Config) bool {
	// Check if the rendering format is set to plain
	if cfg.Render.Format == "plain" {
		return true
	}

	// Check if output is being redirected
	if fileInfo, _ := os.Stdout.Stat(); fileInfo != nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			return true
		}
	}

	// Check for NO_COLOR environment variable
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}

	// Check for TERM=dumb
	if term := os.Getenv("TERM"); term == "dumb" {
		return true
	}

	return false
}

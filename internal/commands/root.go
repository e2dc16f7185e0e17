// Package commands provides CLI commands for askchat.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// ErrNoAnswer is returned when a one-shot ask produced the fallback reply.
// The fallback has already been printed, so Execute only sets the exit code.
var ErrNoAnswer = errors.New("no answer from the answering service")

// rootOptions holds the flags shared by every command
type rootOptions struct {
	endpoint string
	logLevel string
	output   string
	file     string
}

// NewRootCmd creates the askchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "askchat [prompt]",
		Short: "Chat with an answering service from the terminal",
		Long: `askchat sends your questions to an answering service (POST /ask)
and renders the markdown answers in the terminal.

Examples:
  askchat                               Start interactive chat
  askchat chat                          Start interactive chat
  askchat "What is my baggage allowance?"
  askchat -f question.md                Read prompt from file
  cat question.md | askchat             Read prompt from stdin
  askchat "Hello" -o answer.md          Save answer to file
  askchat --endpoint http://host:8000/ask chat`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "askchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, opts, args)
			if err != nil {
				return err
			}
			if ok {
				return deps.runAsk(cmd.Context(), opts, prompt)
			}

			if deps.StdoutIsTTY() {
				return deps.runChat(cmd.Context(), opts)
			}

			// No input and no terminal - show help
			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&opts.endpoint, "endpoint", "e", "", "Answering service URL (overrides config and ASKCHAT_ENDPOINT)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save answer to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewAskCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

// readPrompt picks the one-shot prompt from --file, the positional
// argument or piped stdin, in that order. ok is false when none is given.
func readPrompt(deps *Dependencies, opts *rootOptions, args []string) (prompt string, ok bool, err error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command. An interrupt cancels a one-shot request.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, ErrNoAnswer) {
			tui.PrintError(err)
		}
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/render"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// NewAskCmd creates the one-shot ask command
func NewAskCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Ask a single question and print the answer",
		Long: `Send one question to the answering service and print the answer.

The prompt comes from the argument, --file, or piped stdin. When stdout is
not a terminal the raw answer text is printed without decoration. The exit
code is 1 when no answer could be obtained.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, ok, err := readPrompt(deps, opts, args)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no prompt given: pass an argument, --file or stdin")
			}
			return deps.runAsk(cmd.Context(), opts, prompt)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save answer to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read prompt from file")

	return cmd
}

// failureRecorder remembers whether the wrapped answerer failed, since the
// controller replaces failures with the fallback reply
type failureRecorder struct {
	api.Answerer

	mu  sync.Mutex
	err error
}

func (r *failureRecorder) Ask(ctx context.Context, prompt string) (string, error) {
	answer, err := r.Answerer.Ask(ctx, prompt)
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
	return answer, err
}

func (r *failureRecorder) failed() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// runAsk submits prompt through a controller and prints the reply.
// The raw text is printed when stdout is not a terminal.
func (d *Dependencies) runAsk(ctx context.Context, opts *rootOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	recorder := &failureRecorder{}
	sess, err := d.newSession(opts, func(a api.Answerer) api.Answerer {
		recorder.Answerer = a
		return recorder
	})
	if err != nil {
		return err
	}
	defer sess.close()

	rawOutput := !d.StdoutIsTTY()

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(d.Stderr, "Asking "+endpointHost(sess.cfg.Endpoint))
		spin.start()
	}

	sess.ctrl.SetDraft(prompt)
	if !sess.ctrl.Submit(ctx) {
		if spin != nil {
			spin.stopWithError("Not sent")
		}
		return fmt.Errorf("prompt was not submitted")
	}
	sess.ctrl.Wait()

	reply, _ := sess.ctrl.State().Last()
	text := reply.Content
	failure := recorder.failed()

	if spin != nil {
		if failure != nil {
			spin.stopWithError("No answer")
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	if rawOutput {
		if opts.output != "" && failure == nil {
			if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		} else {
			fmt.Fprint(d.Stdout, text)
		}
		if failure != nil {
			return ErrNoAnswer
		}
		return nil
	}

	fmt.Fprintln(d.Stderr)

	if failure == nil && sess.cfg.CopyToClipboard {
		if err := d.Clipboard(text); err != nil {
			sess.logger.Warn().Err(err).Msg("clipboard copy failed")
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorFailure).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			))
		} else {
			fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" && failure == nil {
		if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(d.Stderr, lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Answer saved to %s", opts.output),
		))
		return nil
	}

	bubbleWidth := d.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(d.Stdout, assistantLabelStyle.Render("✈ Co-Pilot"))
	rendered := render.Message(reply, render.OptionsFromConfigWithWidth(sess.cfg, contentWidth))
	fmt.Fprintln(d.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))

	if failure != nil {
		return ErrNoAnswer
	}
	return nil
}

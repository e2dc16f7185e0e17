package commands

import (
	"context"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/diogo/askchat/internal/render"
	"github.com/diogo/askchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the answering service.

Answers are rendered as markdown. Press Ctrl+Y to copy the last answer,
type /clear to start over, /save [path] to export the transcript
(.md, .json, .yaml or .html), and 'exit', 'quit', Esc or Ctrl+C to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.runChat(cmd.Context(), opts)
		},
	}
}

func (d *Dependencies) runChat(ctx context.Context, opts *rootOptions) error {
	sess, err := d.newSession(opts, nil)
	if err != nil {
		return err
	}
	defer sess.close()

	if sess.cfg.TUITheme != "" && !render.SetTUITheme(sess.cfg.TUITheme) {
		sess.logger.Warn().Str("theme", sess.cfg.TUITheme).Msg("unknown tui theme, using default")
	}
	tui.UpdateTheme()

	chatOpts := tui.DefaultChatOptions()
	if sess.cfg.Title != "" {
		chatOpts.Title = sess.cfg.Title
	}
	chatOpts.Subtitle = endpointHost(sess.cfg.Endpoint)
	chatOpts.Markdown = render.OptionsFromConfig(sess.cfg)

	err = d.TUI.RunChat(ctx, sess.ctrl, chatOpts)
	sess.logger.Info().Int("messages", sess.ctrl.State().Len()).Msg("chat ended")
	return err
}

// endpointHost returns the host part of endpoint for the header, or the
// endpoint itself when it does not parse as a URL
func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/conversation"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *conversation.Controller, opts tui.ChatOptions) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewAnswerer builds the answering-service client for cfg. The returned
	// function releases it.
	NewAnswerer func(cfg config.Config, logger zerolog.Logger) (api.Answerer, func(), error)

	// InitLogger builds the session logger
	InitLogger func(cfg config.Config, level string) (zerolog.Logger, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text for the one-shot ask
	Clipboard func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	StdinIsPipe   func() bool
	StdoutIsTTY   func() bool
	TerminalWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *conversation.Controller, opts tui.ChatOptions) error {
	return tui.RunChat(ctx, ctrl, opts)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewAnswerer:   newClient,
		InitLogger:    logging.Init,
		TUI:           &DefaultTUI{},
		Clipboard:     clipboard.WriteAll,
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		StdinIsPipe:   stdinIsPipe,
		StdoutIsTTY:   isStdoutTTY,
		TerminalWidth: getTerminalWidth,
	}
}

// newClient creates the tls-client backed answering-service client
func newClient(cfg config.Config, logger zerolog.Logger) (api.Answerer, func(), error) {
	client, err := api.NewClient(
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second),
		api.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// session is everything a chat or ask run needs
type session struct {
	cfg    config.Config
	logger zerolog.Logger
	ctrl   *conversation.Controller
	close  func()
}

// newSession loads config, applies flag overrides, starts logging and
// wires a controller to the answering service. wrap, when non-nil,
// decorates the client before the controller sees it.
func (d *Dependencies) newSession(opts *rootOptions, wrap func(api.Answerer) api.Answerer) (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}

	logger, err := d.InitLogger(cfg, opts.logLevel)
	if err != nil {
		fmt.Fprintf(d.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	answerer, release, err := d.NewAnswerer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	if release == nil {
		release = func() {}
	}
	if wrap != nil {
		answerer = wrap(answerer)
	}

	logger.Info().
		Str("endpoint", cfg.Endpoint).
		Int("timeout_seconds", cfg.TimeoutSeconds).
		Msg("session started")

	return &session{
		cfg:    cfg,
		logger: logger,
		ctrl:   conversation.New(answerer, conversation.WithLogger(logger)),
		close:  release,
	}, nil
}

// stdinIsPipe reports whether stdin is redirected from a file or pipe
func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

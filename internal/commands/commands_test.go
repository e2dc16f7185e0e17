package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/askchat/internal/api"
	"github.com/diogo/askchat/internal/config"
	"github.com/diogo/askchat/internal/conversation"
	"github.com/diogo/askchat/internal/logging"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
	"github.com/diogo/askchat/internal/tui"
)

// fakeTUI records the chat it was asked to run
type fakeTUI struct {
	called bool
	ctrl   *conversation.Controller
	opts   tui.ChatOptions
	err    error
}

func (f *fakeTUI) RunChat(ctx context.Context, ctrl *conversation.Controller, opts tui.ChatOptions) error {
	f.called = true
	f.ctrl = ctrl
	f.opts = opts
	return f.err
}

type testEnv struct {
	deps      *Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	logs      *bytes.Buffer
	tui       *fakeTUI
	home      string
	endpoints []string
	copied    []string
}

// newTestEnv isolates HOME and replaces every terminal and network dependency
func newTestEnv(t *testing.T, answerer api.Answerer) *testEnv {
	t.Helper()

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		logs:   &bytes.Buffer{},
		tui:    &fakeTUI{},
		home:   t.TempDir(),
	}
	t.Setenv("HOME", env.home)
	t.Setenv(config.EnvEndpoint, "")
	t.Setenv(render.EnvStyle, "")

	env.deps = &Dependencies{
		NewAnswerer: func(cfg config.Config, logger zerolog.Logger) (api.Answerer, func(), error) {
			env.endpoints = append(env.endpoints, cfg.Endpoint)
			return answerer, nil, nil
		},
		InitLogger: func(cfg config.Config, level string) (zerolog.Logger, error) {
			return logging.New(env.logs, level), nil
		},
		TUI: env.tui,
		Clipboard: func(s string) error {
			env.copied = append(env.copied, s)
			return nil
		},
		Stdin:         strings.NewReader(""),
		Stdout:        env.stdout,
		Stderr:        env.stderr,
		StdinIsPipe:   func() bool { return false },
		StdoutIsTTY:   func() bool { return false },
		TerminalWidth: func() int { return 100 },
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	if args == nil {
		args = []string{}
	}
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCommand_Metadata(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	cmd := NewRootCmd(env.deps)

	assert.Equal(t, "askchat [prompt]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"chat", "ask", "config"})

	for _, flag := range []string{"endpoint", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	for _, flag := range []string{"output", "file", "version"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
}

func TestRootCommand_VersionFlag(t *testing.T) {
	for _, arg := range []string{"-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			mock := api.NewMockAnswerer("ok")
			env := newTestEnv(t, mock)

			require.NoError(t, env.run(arg))
			assert.Contains(t, env.stdout.String(), "askchat "+Version)
			assert.Zero(t, mock.CallCount())
		})
	}
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	assert.Error(t, env.run("one", "two"))
}

func TestRootCommand_PromptSources(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, env *testEnv) []string
		prompt string
	}{
		{
			name: "positional argument",
			setup: func(t *testing.T, env *testEnv) []string {
				return []string{"What time is boarding?"}
			},
			prompt: "What time is boarding?",
		},
		{
			name: "piped stdin",
			setup: func(t *testing.T, env *testEnv) []string {
				env.deps.StdinIsPipe = func() bool { return true }
				env.deps.Stdin = strings.NewReader("  Can I bring a stroller?\n")
				return nil
			},
			prompt: "Can I bring a stroller?",
		},
		{
			name: "file flag",
			setup: func(t *testing.T, env *testEnv) []string {
				path := filepath.Join(t.TempDir(), "question.md")
				require.NoError(t, os.WriteFile(path, []byte("Is lounge access included?\n"), 0o644))
				return []string{"--file", path}
			},
			prompt: "Is lounge access included?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := api.NewMockAnswerer("Yes.")
			env := newTestEnv(t, mock)

			require.NoError(t, env.run(tt.setup(t, env)...))
			assert.Equal(t, []string{tt.prompt}, mock.Calls())
			assert.Equal(t, "Yes.", env.stdout.String())
			assert.False(t, env.tui.called)
		})
	}
}

func TestRootCommand_MissingFile(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))

	err := env.run("--file", filepath.Join(t.TempDir(), "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestRootCommand_NoInputOnTerminalStartsChat(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	env.deps.StdoutIsTTY = func() bool { return true }

	require.NoError(t, env.run())

	require.True(t, env.tui.called)
	assert.NotNil(t, env.tui.ctrl)
	assert.Equal(t, models.DefaultTitle, env.tui.opts.Title)
	assert.Equal(t, "localhost:8000", env.tui.opts.Subtitle)
	assert.Equal(t, models.DefaultPlaceholder, env.tui.opts.Placeholder)
	assert.Contains(t, env.logs.String(), "session started")
}

func TestRootCommand_NoInputWithoutTerminalShowsHelp(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))

	require.NoError(t, env.run())
	assert.Contains(t, env.stdout.String(), "Usage:")
	assert.False(t, env.tui.called)
}

func TestChatCommand(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	cfg := config.DefaultConfig()
	cfg.Title = "Ops Desk"
	cfg.Markdown.Style = render.ThemeLight
	require.NoError(t, config.SaveConfig(cfg))

	require.NoError(t, env.run("chat", "--endpoint", "http://answers.internal:9000/ask"))

	require.True(t, env.tui.called)
	assert.Equal(t, "Ops Desk", env.tui.opts.Title)
	assert.Equal(t, "answers.internal:9000", env.tui.opts.Subtitle)
	assert.Equal(t, render.ThemeLight, env.tui.opts.Markdown.Style)
	assert.Equal(t, []string{"http://answers.internal:9000/ask"}, env.endpoints)
}

func TestChatCommand_PropagatesTUIError(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	env.tui.err = errors.New("no tty")

	assert.EqualError(t, env.run("chat"), "no tty")
}

func TestAskCommand_Failure(t *testing.T) {
	mock := api.NewMockAnswererWithError(errors.New("connection refused"))
	env := newTestEnv(t, mock)

	err := env.run("ask", "Is my flight delayed?")

	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Equal(t, models.FallbackAnswer, env.stdout.String())
	assert.Contains(t, env.logs.String(), "ask request failed")
	assert.Contains(t, env.logs.String(), "connection refused")
}

func TestAskCommand_EmptyPrompt(t *testing.T) {
	mock := api.NewMockAnswerer("ok")
	env := newTestEnv(t, mock)

	err := env.run("ask", "   ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt cannot be empty")
	assert.Zero(t, mock.CallCount())
}

func TestAskCommand_NoPrompt(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))

	err := env.run("ask")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prompt given")
}

func TestAskCommand_OutputFile(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("# Itinerary\n\nDepart 09:40"))
	path := filepath.Join(t.TempDir(), "answer.md")

	require.NoError(t, env.run("ask", "--output", path, "Show my itinerary"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Itinerary\n\nDepart 09:40", string(data))
	assert.Empty(t, env.stdout.String())
}

func TestAskCommand_DecoratedOutput(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("**20kg** checked baggage."))
	env.deps.StdoutIsTTY = func() bool { return true }

	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	require.NoError(t, config.SaveConfig(cfg))

	require.NoError(t, env.run("ask", "Baggage allowance?"))

	out := ansi.Strip(env.stdout.String())
	assert.Contains(t, out, "Co-Pilot")
	assert.Contains(t, out, "20kg checked baggage.")
	assert.NotContains(t, out, "**")
	assert.Contains(t, env.stderr.String(), "Done")
	assert.Contains(t, env.stderr.String(), "Copied to clipboard")
	assert.Equal(t, []string{"**20kg** checked baggage."}, env.copied)
}

func TestAskCommand_DecoratedFailureSkipsClipboard(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswererWithError(errors.New("boom")))
	env.deps.StdoutIsTTY = func() bool { return true }

	cfg := config.DefaultConfig()
	cfg.CopyToClipboard = true
	require.NoError(t, config.SaveConfig(cfg))

	err := env.run("ask", "Hello?")

	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Contains(t, ansi.Strip(env.stdout.String()), models.FallbackAnswer)
	assert.Contains(t, env.stderr.String(), "No answer")
	assert.Empty(t, env.copied)
}

func TestAskCommand_EndpointSources(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		env := newTestEnv(t, api.NewMockAnswerer("ok"))
		t.Setenv(config.EnvEndpoint, "http://env:8000/ask")

		require.NoError(t, env.run("ask", "hi"))
		assert.Equal(t, []string{"http://env:8000/ask"}, env.endpoints)
	})

	t.Run("flag beats env", func(t *testing.T) {
		env := newTestEnv(t, api.NewMockAnswerer("ok"))
		t.Setenv(config.EnvEndpoint, "http://env:8000/ask")

		require.NoError(t, env.run("--endpoint", "http://flag:8000/ask", "ask", "hi"))
		assert.Equal(t, []string{"http://flag:8000/ask"}, env.endpoints)
	})
}

func TestAskCommand_ClientError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.deps.NewAnswerer = func(config.Config, zerolog.Logger) (api.Answerer, func(), error) {
		return nil, nil, errors.New("bad profile")
	}

	err := env.run("ask", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create client")
}

func TestConfigCommand(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))

	require.NoError(t, env.run("config", "path"))
	assert.Equal(t, filepath.Join(env.home, ".askchat", "config.json"), strings.TrimSpace(env.stdout.String()))

	env.stdout.Reset()
	require.NoError(t, env.run("config", "set", "endpoint", "http://svc:8000/ask"))
	assert.Equal(t, "endpoint = http://svc:8000/ask\n", env.stdout.String())

	env.stdout.Reset()
	require.NoError(t, env.run("config", "show"))
	assert.Contains(t, env.stdout.String(), `"endpoint": "http://svc:8000/ask"`)

	cfg, err := config.LoadConfigFile()
	require.NoError(t, err)
	assert.Equal(t, "http://svc:8000/ask", cfg.Endpoint)
}

func TestConfigCommand_SetDoesNotPersistEnvOverride(t *testing.T) {
	env := newTestEnv(t, api.NewMockAnswerer("ok"))
	t.Setenv(config.EnvEndpoint, "http://env:8000/ask")

	require.NoError(t, env.run("config", "set", "title", "Desk"))

	cfg, err := config.LoadConfigFile()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "Desk", cfg.Title)
}

func TestConfigCommand_SetErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}, "unknown config key"},
		{"unknown theme", []string{"config", "set", "tui_theme", "solarized"}, "unknown tui theme"},
		{"bad timeout", []string{"config", "set", "timeout_seconds", "0"}, "positive integer"},
		{"missing value", []string{"config", "set", "title"}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, api.NewMockAnswerer("ok"))

			err := env.run(tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEndpointHost(t *testing.T) {
	assert.Equal(t, "localhost:8000", endpointHost("http://localhost:8000/ask"))
	assert.Equal(t, "not a url", endpointHost("not a url"))
}

func TestSpinnerLifecycle(t *testing.T) {
	var out bytes.Buffer
	s := newSpinner(&out, "Asking")
	s.start()
	s.stopWithSuccess("done")
	s.stopWithError("again")

	assert.Contains(t, out.String(), "✓")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, out.String(), "again")
}

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/askchat/internal/conversation"
	"github.com/diogo/askchat/internal/models"
	"github.com/diogo/askchat/internal/render"
	"github.com/diogo/askchat/internal/transcript"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// resolvedMsg reports that the request started from the input has returned
	resolvedMsg  struct{}
	clipboardMsg struct {
		err   error
		empty bool
	}
	savedMsg struct {
		path  string
		err   error
		empty bool
	}
)

// defaultTranscriptPath is used by /save without an argument
const defaultTranscriptPath = "askchat-transcript.md"

// ChatOptions configures the chat screen
type ChatOptions struct {
	Title       string
	Subtitle    string
	Placeholder string
	Markdown    render.Options
}

// DefaultChatOptions returns the stock title, placeholder and markdown options
func DefaultChatOptions() ChatOptions {
	return ChatOptions{
		Title:       models.DefaultTitle,
		Placeholder: models.DefaultPlaceholder,
		Markdown:    render.DefaultOptions(),
	}
}

// Model represents the TUI state
type Model struct {
	ctx  context.Context
	ctrl *conversation.Controller
	sub  *subscription
	opts ChatOptions

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// state is the newest controller snapshot applied to the view
	state          conversation.State
	ready          bool
	animationFrame int
	scroll         smoothScroll
	notice         string

	// rendered caches the drawn form of each message in state.Messages
	rendered      []string
	renderedFrom  []models.Message
	renderedWidth int

	copyToClipboard func(string) error

	// Dimensions
	width  int
	height int
}

// NewChatModel creates the chat model for ctrl. Requests started from the
// input run with ctx.
func NewChatModel(ctx context.Context, ctrl *conversation.Controller, opts ChatOptions) Model {
	if opts.Title == "" {
		opts.Title = models.DefaultTitle
	}
	if opts.Placeholder == "" {
		opts.Placeholder = models.DefaultPlaceholder
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions()
	}

	ta := textarea.New()
	ta.Placeholder = opts.Placeholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:             ctx,
		ctrl:            ctrl,
		sub:             subscribe(ctrl),
		opts:            opts,
		textarea:        ta,
		spinner:         s,
		state:           ctrl.State(),
		copyToClipboard: clipboard.WriteAll,
	}
}

// Close stops receiving controller notifications
func (m Model) Close() {
	m.sub.close()
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.sub.wait(),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// newViewport builds a viewport whose keys do not collide with typing
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.KeyMap = viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
	return vp
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 2 // Notice and status bar
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = newViewport(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastAnswer()

		case "enter":
			return m.submit()
		}

	case stateMsg:
		cmds = append(cmds, m.applyState(msg.state), m.sub.wait())

	case resolvedMsg:
		// The reply arrives through the subscription

	case clipboardMsg:
		switch {
		case msg.empty:
			m.notice = "Nothing to copy yet"
		case msg.err != nil:
			m.notice = fmt.Sprintf("Clipboard unavailable: %v", msg.err)
		default:
			m.notice = "Copied last answer to clipboard"
		}

	case savedMsg:
		switch {
		case msg.empty:
			m.notice = "Nothing to save yet"
		case msg.err != nil:
			m.notice = fmt.Sprintf("Save failed: %v", msg.err)
		default:
			m.notice = "Saved transcript to " + msg.path
		}

	case scrollTickMsg:
		cmds = append(cmds, m.scroll.step(&m.viewport))

	case spinner.TickMsg:
		if m.state.Pending {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.updateViewport()
		}

	case animationTickMsg:
		if m.state.Pending {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.state.Pending {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			if value := m.textarea.Value(); value != m.state.Draft {
				m.ctrl.SetDraft(value)
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit handles enter: local commands first, then a controller submission
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Pending {
		return m, nil
	}

	input := strings.TrimSpace(m.textarea.Value())
	switch {
	case input == "":
		return m, nil
	case input == "exit", input == "quit", input == "/exit", input == "/quit":
		return m, tea.Quit
	case input == "/clear":
		m.clearInput()
		if !m.ctrl.Reset() {
			m.notice = "Wait for the answer before clearing"
		} else {
			m.notice = ""
		}
		return m, nil
	case input == "/save" || strings.HasPrefix(input, "/save "):
		m.clearInput()
		path := strings.TrimSpace(strings.TrimPrefix(input, "/save"))
		if path == "" {
			path = defaultTranscriptPath
		}
		return m, m.saveTranscript(path)
	}

	m.ctrl.SetDraft(m.textarea.Value())
	prompt, ok := m.ctrl.Begin()
	if !ok {
		return m, nil
	}
	m.textarea.Reset()
	m.notice = ""

	return m, m.resolve(prompt)
}

// clearInput empties the textarea and the controller draft
func (m *Model) clearInput() {
	m.textarea.Reset()
	m.ctrl.SetDraft("")
}

// saveTranscript writes the current log to path as a command
func (m Model) saveTranscript(path string) tea.Cmd {
	title, messages := m.opts.Title, m.state.Messages
	return func() tea.Msg {
		if len(messages) == 0 {
			return savedMsg{empty: true}
		}
		return savedMsg{path: path, err: transcript.Write(path, title, messages)}
	}
}

// resolve runs the request for prompt as a command
func (m Model) resolve(prompt string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ctrl.Resolve(ctx, prompt)
		return resolvedMsg{}
	}
}

// applyState adopts a newer snapshot. Older or repeated versions are ignored.
func (m *Model) applyState(st conversation.State) tea.Cmd {
	if st.Version <= m.state.Version {
		return nil
	}

	prevLen, prevPending := m.state.Len(), m.state.Pending
	m.state = st

	var cmds []tea.Cmd
	if st.Pending != prevPending {
		if st.Pending {
			m.textarea.Blur()
			m.animationFrame = 0
			cmds = append(cmds, m.spinner.Tick, animationTick())
		} else {
			cmds = append(cmds, m.textarea.Focus())
		}
	}

	if st.Len() != prevLen || st.Pending != prevPending {
		m.updateViewport()
	}
	if st.Len() != prevLen {
		cmds = append(cmds, m.scroll.start())
	}

	return tea.Batch(cmds...)
}

// copyLastAnswer copies the newest assistant message to the clipboard
func (m Model) copyLastAnswer() tea.Cmd {
	answer := m.state.LastAnswer()
	write := m.copyToClipboard
	return func() tea.Msg {
		if answer == "" {
			return clipboardMsg{empty: true}
		}
		return clipboardMsg{err: write(answer)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render("✈ " + m.opts.Title)}
	if m.opts.Subtitle != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.opts.Subtitle),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if m.state.Len() == 0 && !m.state.Pending {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input
	var inputContent string
	if m.state.Pending {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✈"),
		"",
		welcomeTitleStyle.Width(width).Render(m.opts.Title),
		"",
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated indicator shown in place of
// the input while a request is pending
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Waiting for an answer ")

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy answer"},
		{"/clear", "Clear"},
		{"/save", "Save"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// bubbleWidth is the width of a message bubble inside the viewport
func (m Model) bubbleWidth() int {
	w := m.viewport.Width - 6
	if w < 10 {
		w = 10
	}
	return w
}

// updateViewport refreshes the viewport content. Messages already drawn at
// the current width are reused; only new ones go through the renderer.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	width := m.bubbleWidth()
	if width != m.renderedWidth {
		m.rendered, m.renderedFrom = nil, nil
		m.renderedWidth = width
	}

	keep := 0
	for keep < len(m.renderedFrom) && keep < len(m.state.Messages) && m.renderedFrom[keep] == m.state.Messages[keep] {
		keep++
	}
	m.rendered = m.rendered[:keep:keep]
	m.renderedFrom = m.renderedFrom[:keep:keep]

	for _, msg := range m.state.Messages[keep:] {
		m.rendered = append(m.rendered, m.renderEntry(msg, width))
		m.renderedFrom = append(m.renderedFrom, msg)
	}

	entries := m.rendered
	if m.state.Pending {
		entries = append(entries[:len(entries):len(entries)], m.renderThinking())
	}

	m.viewport.SetContent(strings.Join(entries, "\n\n"))
}

// renderEntry draws one message with its label
func (m Model) renderEntry(msg models.Message, width int) string {
	opts := m.opts.Markdown.WithWidth(width - 4)

	if msg.IsUser() {
		label := userLabelStyle.Render("● You")
		bubble := userBubbleStyle.Width(width).Render(render.Message(msg, opts))
		return label + "\n" + bubble
	}

	label := assistantLabelStyle.Render("✈ Co-Pilot")
	bubble := assistantBubbleStyle.Width(width).Render(render.Message(msg, opts))
	return label + "\n" + bubble
}

// renderThinking draws the transient entry shown while a request is pending
func (m Model) renderThinking() string {
	label := assistantLabelStyle.Render("✈ Co-Pilot")
	return label + "\n" + thinkingStyle.Render(m.spinner.View()+" "+models.ThinkingLabel)
}

// RunChat starts the chat TUI on ctrl
func RunChat(ctx context.Context, ctrl *conversation.Controller, opts ChatOptions) error {
	m := NewChatModel(ctx, ctrl, opts)
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}

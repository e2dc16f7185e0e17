package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// scrollStep is how many lines the viewport moves per animation tick
	scrollStep     = 3
	scrollInterval = 16 * time.Millisecond
)

type scrollTickMsg time.Time

func scrollTick() tea.Cmd {
	return tea.Tick(scrollInterval, func(t time.Time) tea.Msg {
		return scrollTickMsg(t)
	})
}

// smoothScroll animates the viewport toward its bottom edge.
type smoothScroll struct {
	active bool
	// requests counts scrolls started, one per change in message count
	requests int
}

// start requests a scroll to the bottom. A running animation picks up the
// new bottom on its next tick, so no second tick chain is started.
func (s *smoothScroll) start() tea.Cmd {
	s.requests++
	if s.active {
		return nil
	}
	s.active = true
	return scrollTick()
}

// step advances vp by one tick and returns the next tick, or nil when done.
func (s *smoothScroll) step(vp *viewport.Model) tea.Cmd {
	if !s.active {
		return nil
	}
	if !vp.AtBottom() {
		vp.SetYOffset(vp.YOffset + scrollStep)
	}
	if vp.AtBottom() {
		s.active = false
		return nil
	}
	return scrollTick()
}

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/askchat/internal/conversation"
)

// stateMsg carries a controller snapshot into the event loop
type stateMsg struct {
	state conversation.State
}

// subscription queues controller snapshots for the event loop. The queue is
// unbounded so the controller never blocks and no snapshot is lost.
type subscription struct {
	mu          sync.Mutex
	queue       []conversation.State
	notify      chan struct{}
	unsubscribe func()
}

func subscribe(ctrl *conversation.Controller) *subscription {
	s := &subscription{notify: make(chan struct{}, 1)}
	s.unsubscribe = ctrl.Subscribe(s.deliver)
	return s
}

func (s *subscription) deliver(st conversation.State) {
	s.mu.Lock()
	s.queue = append(s.queue, st)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// poll removes and returns the oldest queued snapshot
func (s *subscription) poll() (conversation.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return conversation.State{}, false
	}
	st := s.queue[0]
	s.queue = s.queue[1:]
	return st, true
}

// wait returns a command that yields the next snapshot as a stateMsg
func (s *subscription) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			if st, ok := s.poll(); ok {
				return stateMsg{state: st}
			}
			<-s.notify
		}
	}
}

func (s *subscription) close() {
	if s != nil && s.unsubscribe != nil {
		s.unsubscribe()
	}
}

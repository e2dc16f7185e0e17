package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/askchat/internal/api"
	apierrors "github.com/diogo/askchat/internal/errors"
	"github.com/diogo/askchat/internal/models"
)

// Controller is the conversation controller. Its methods are safe to call
// from multiple goroutines; at most one request is ever in flight.
type Controller struct {
	answerer api.Answerer
	logger   zerolog.Logger
	fallback string

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int

	inflight sync.WaitGroup
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger that receives swallowed request errors
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithFallbackText overrides the assistant message used when a request fails
func WithFallbackText(text string) Option {
	return func(c *Controller) {
		c.fallback = text
	}
}

// New creates a Controller with an empty conversation
func New(answerer api.Answerer, opts ...Option) *Controller {
	c := &Controller{
		answerer:    answerer,
		logger:      zerolog.Nop(),
		fallback:    models.FallbackAnswer,
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current conversation state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to be called with a snapshot after every mutation.
// fn runs on the goroutine that caused the mutation, outside the controller
// lock. The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subscribers, id)
			c.mu.Unlock()
		})
	}
}

// SetDraft replaces the in-progress text
func (c *Controller) SetDraft(text string) {
	c.mutate(func(s *State) bool {
		if s.Draft == text {
			return false
		}
		s.Draft = text
		return true
	})
}

// Submit sends the current draft. It returns false without any effect when
// the trimmed draft is empty or a request is already pending. Otherwise the
// user message is appended before Submit returns and the request runs in
// the background; Wait blocks until it has finished.
func (c *Controller) Submit(ctx context.Context) bool {
	prompt, ok := c.Begin()
	if !ok {
		return false
	}

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.Resolve(ctx, prompt)
	}()
	return true
}

// Begin performs the synchronous half of a submission: it appends the user
// message, marks the conversation pending and clears the draft. The caller
// must follow a successful Begin with exactly one Resolve.
func (c *Controller) Begin() (prompt string, ok bool) {
	c.mutate(func(s *State) bool {
		if s.Pending || strings.TrimSpace(s.Draft) == "" {
			return false
		}
		prompt = s.Draft
		s.Messages = append(s.Messages, models.UserMessage(prompt))
		s.Pending = true
		s.Draft = ""
		ok = true
		return true
	})
	return prompt, ok
}

// Resolve performs the request for a prompt returned by Begin and appends
// the assistant reply, or the fallback text when the request fails. The
// pending flag is cleared in the same mutation.
func (c *Controller) Resolve(ctx context.Context, prompt string) {
	answer, err := c.answerer.Ask(ctx, prompt)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("endpoint", apierrors.GetEndpoint(err)).
			Int("status", apierrors.GetHTTPStatus(err)).
			Int("prompt_len", len(prompt)).
			Msg("ask request failed")
		answer = c.fallback
	}

	c.mutate(func(s *State) bool {
		s.Messages = append(s.Messages, models.AssistantMessage(answer))
		s.Pending = false
		return true
	})
}

// Wait blocks until every request started by Submit has completed
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Reset clears the log and the draft. It returns false while a request is
// pending, since the reply would otherwise land in an empty conversation.
func (c *Controller) Reset() bool {
	var ok bool
	c.mutate(func(s *State) bool {
		if s.Pending {
			return false
		}
		s.Messages = nil
		s.Draft = ""
		ok = true
		return true
	})
	return ok
}

// mutate applies fn under the lock. When fn reports a change, the version is
// bumped and subscribers are notified with the new snapshot.
func (c *Controller) mutate(fn func(s *State) bool) {
	c.mu.Lock()
	if !fn(&c.state) {
		c.mu.Unlock()
		return
	}
	c.state.Version++
	snapshot := c.state.clone()
	subs := make([]func(State), 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot.clone())
	}
}

// Package conversation holds the chat state machine: an append-only message
// list plus a pending flag that admits one outstanding query at a time.
//
// Example usage:
//
//	store := conversation.NewStore(client)
//	unsubscribe := store.Subscribe(render)
//	defer unsubscribe()
//	if call, ok := store.Submit("What is chapter 3 about?"); ok {
//		call.Run(ctx)
//	}
package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/longkey1/askdoc/internal/askdoc"
	"github.com/longkey1/askdoc/internal/askdoc/query"
	"github.com/rs/zerolog/log"
)

const (
	DefaultGreeting = "Hello! I'm your AI assistant. How can I help you with the book content today?"
	DefaultFallback = "Sorry, I encountered an error. Please try again."
)

// Observer is notified synchronously after every mutation
type Observer func(State)

// Outcome is the result of one query, ready to be resolved into the store
type Outcome struct {
	Reply string
	Err   error
}

// Option configures a Store
type Option func(*Store)

// WithGreeting sets the seeded bot greeting
func WithGreeting(greeting string) Option {
	return func(s *Store) {
		if greeting != "" {
			s.greeting = greeting
		}
	}
}

// WithFallback sets the text shown in place of any failed reply
func WithFallback(fallback string) Option {
	return func(s *Store) {
		if fallback != "" {
			s.fallback = fallback
		}
	}
}

// Store owns one conversation
type Store struct {
	mu        sync.Mutex
	querier   askdoc.Querier
	greeting  string
	fallback  string
	messages  []Message
	pending   bool
	nextID    int64
	observers map[int]Observer
	nextObsID int
}

// NewStore creates a store seeded with the bot greeting
func NewStore(querier askdoc.Querier, opts ...Option) *Store {
	s := &Store{
		querier:   querier,
		greeting:  DefaultGreeting,
		fallback:  DefaultFallback,
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.appendLocked(SenderBot, s.greeting)
	return s
}

// Fallback returns the text shown for failed replies
func (s *Store) Fallback() string {
	return s.fallback
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Pending reports whether a query is in flight
func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(observer Observer) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = observer
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Submit appends a user message and marks a query in flight.
// Blank text and submissions made while a query is pending are ignored and
// return false. The returned Call must be run exactly once.
func (s *Store) Submit(text string) (*Call, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		log.Debug().Msg("submission rejected: query already pending")
		return nil, false
	}
	msg := s.appendLocked(SenderUser, text)
	s.pending = true
	state, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, state)

	return &Call{store: s, query: text, messageID: msg.ID}, true
}

// OnQuerySuccess appends the bot reply and clears the pending flag
func (s *Store) OnQuerySuccess(reply string) {
	s.complete(reply, nil)
}

// OnQueryFailure appends the fallback text and clears the pending flag.
// The error itself is only logged.
func (s *Store) OnQueryFailure(err error) {
	s.complete(s.fallback, err)
}

// Resolve applies the outcome of a query
func (s *Store) Resolve(outcome Outcome) {
	if outcome.Err != nil {
		s.OnQueryFailure(outcome.Err)
		return
	}
	s.OnQuerySuccess(outcome.Reply)
}

func (s *Store) complete(text string, err error) {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		log.Warn().Err(err).Msg("query completion ignored: no query pending")
		return
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("kind", query.KindOf(err).String()).
			Msg("query failed")
	}
	s.appendLocked(SenderBot, text)
	s.pending = false
	state, observers := s.snapshotLocked(), s.observersLocked()
	s.mu.Unlock()

	notify(observers, state)
}

func (s *Store) appendLocked(sender Sender, text string) Message {
	s.nextID++
	msg := Message{ID: s.nextID, Text: text, Sender: sender}
	s.messages = append(s.messages, msg)
	return msg
}

func (s *Store) snapshotLocked() State {
	messages := make([]Message, len(s.messages))
	copy(messages, s.messages)
	return State{Messages: messages, Pending: s.pending}
}

func (s *Store) observersLocked() []Observer {
	observers := make([]Observer, 0, len(s.observers))
	for id := 0; id < s.nextObsID; id++ {
		if o, ok := s.observers[id]; ok {
			observers = append(observers, o)
		}
	}
	return observers
}

func notify(observers []Observer, state State) {
	for _, o := range observers {
		o(state)
	}
}

// Call is one accepted submission waiting for its query to run
type Call struct {
	store     *Store
	query     string
	messageID int64
	once      sync.Once
}

// Query returns the submitted text
func (c *Call) Query() string {
	return c.query
}

// MessageID returns the ID of the user message this call answers
func (c *Call) MessageID() int64 {
	return c.messageID
}

// Do issues the query without touching the store.
// Hosts with an event loop run Do off-loop and pass the outcome to Store.Resolve.
func (c *Call) Do(ctx context.Context) Outcome {
	if c.store.querier == nil {
		return Outcome{Err: &query.Error{Kind: query.KindUnknown, Message: "no querier configured"}}
	}
	reply, err := c.store.querier.Send(ctx, c.query)
	return Outcome{Reply: reply, Err: err}
}

// Run issues the query and resolves the store with its outcome.
// Only the first Run has any effect.
func (c *Call) Run(ctx context.Context) {
	c.once.Do(func() {
		c.store.Resolve(c.Do(ctx))
	})
}

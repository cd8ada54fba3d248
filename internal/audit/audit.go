// Package audit captures structured audit events for person and account
// lifecycle actions. It is append-only and uses a pluggable store so tests
// can swap sinks easily.
package audit

import (
	"context"
	"sync"
	"time"
)

// Action names for the events this service emits.
const (
	ActionPersonCreated     = "person_created"
	ActionPersonUpdated     = "person_updated"
	ActionPersonDeleted     = "person_deleted"
	ActionAccountRegistered = "account_registered"
	ActionLoginSucceeded    = "login_succeeded"
	ActionTokenRevoked      = "token_revoked"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	ActorID   string
	SubjectID string
	Action    string
	RequestID string
	Detail    string
}

// Store is the persistence contract for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
}

// Publisher captures structured audit events synchronously.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends the event, stamping the timestamp when the caller left it zero.
// A nil publisher drops events so wiring stays optional.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

// List returns the recorded events for one subject.
func (p *Publisher) List(ctx context.Context, subjectID string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}

// Queue decouples emission from persistence: Append enqueues for a Worker to
// drain. The queue drops events when full rather than blocking the request
// path.
type Queue struct {
	inbox chan Event
}

func NewQueue(buffer int) *Queue {
	return &Queue{inbox: make(chan Event, buffer)}
}

// Inbox exposes the channel a Worker consumes.
func (q *Queue) Inbox() <-chan Event {
	return q.inbox
}

func (q *Queue) Append(_ context.Context, event Event) error {
	select {
	case q.inbox <- event:
	default:
	}
	return nil
}

// ListBySubject is unsupported on a queue; read from the worker's store.
func (q *Queue) ListBySubject(context.Context, string) ([]Event, error) {
	return nil, nil
}

// InMemoryStore keeps audit events per subject. It intentionally favors
// clarity over performance.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SubjectID] = append(s.events[event.SubjectID], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subjectID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[subjectID]...), nil
}

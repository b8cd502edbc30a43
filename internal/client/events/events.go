// Package events is the in-process bus for session lifecycle events.
//
// The request layer only publishes. Navigation (sending the user back to the
// login prompt, dropping cached state) is done by subscribers registered at
// the application boundary.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/medportal/internal/logging"
)

type Type string

const (
	// SessionExpired is published once per credential the API rejected
	// with 401.
	SessionExpired Type = "session.expired"
	// LoggedOut is published after an explicit logout.
	LoggedOut Type = "session.logged_out"
)

type Event struct {
	Type Type
	// RequestPath is the request that observed the expiry, if any.
	RequestPath string
	At          time.Time
}

type Handler func(context.Context, Event) error

// Publisher is the narrow view handed to components that only emit.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type subscription struct {
	id      uuid.UUID
	handler Handler
}

// Bus dispatches events synchronously to a snapshot of the handlers
// registered for the event type. Handler errors are logged and do not stop
// the remaining handlers.
type Bus struct {
	mu   sync.RWMutex
	subs map[Type][]subscription
	log  logging.Logger
}

func NewBus(log logging.Logger) *Bus {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Bus{subs: make(map[Type][]subscription), log: log}
}

// Subscribe registers h for t and returns a function that removes it.
func (b *Bus) Subscribe(t Type, h Handler) (unsubscribe func()) {
	id := uuid.New()

	b.mu.Lock()
	b.subs[t] = append(b.subs[t], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[t]
		for i, s := range list {
			if s.id == id {
				b.subs[t] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	handlers := append([]subscription(nil), b.subs[ev.Type]...)
	b.mu.RUnlock()

	for _, s := range handlers {
		if err := s.handler(ctx, ev); err != nil {
			b.log.Warn(ctx, "event handler failed", "event", string(ev.Type), "error", err)
		}
	}
}

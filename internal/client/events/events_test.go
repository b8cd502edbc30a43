package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DeliversToMatchingType(t *testing.T) {
	b := NewBus(nil)
	ctx := context.Background()

	var expired, loggedOut []Event
	b.Subscribe(SessionExpired, func(_ context.Context, ev Event) error {
		expired = append(expired, ev)
		return nil
	})
	b.Subscribe(LoggedOut, func(_ context.Context, ev Event) error {
		loggedOut = append(loggedOut, ev)
		return nil
	})

	b.Publish(ctx, Event{Type: SessionExpired, RequestPath: "/doctors/"})

	require.Len(t, expired, 1)
	assert.Equal(t, "/doctors/", expired[0].RequestPath)
	assert.False(t, expired[0].At.IsZero(), "publish stamps the time")
	assert.Empty(t, loggedOut)
}

func TestBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	b := NewBus(nil)
	calls := 0
	b.Subscribe(LoggedOut, func(context.Context, Event) error {
		calls++
		return errors.New("boom")
	})
	b.Subscribe(LoggedOut, func(context.Context, Event) error {
		calls++
		return nil
	})

	b.Publish(context.Background(), Event{Type: LoggedOut})
	assert.Equal(t, 2, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus(nil)
	var first, second int
	unsub := b.Subscribe(SessionExpired, func(context.Context, Event) error { first++; return nil })
	b.Subscribe(SessionExpired, func(context.Context, Event) error { second++; return nil })

	unsub()
	unsub()
	b.Publish(context.Background(), Event{Type: SessionExpired})

	assert.Equal(t, 0, first)
	assert.Equal(t, 1, second)
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	b := NewBus(nil)
	late := 0
	b.Subscribe(SessionExpired, func(context.Context, Event) error {
		b.Subscribe(SessionExpired, func(context.Context, Event) error { late++; return nil })
		return nil
	})

	b.Publish(context.Background(), Event{Type: SessionExpired})
	assert.Equal(t, 0, late, "handlers added while publishing see the next event")

	b.Publish(context.Background(), Event{Type: SessionExpired})
	assert.Equal(t, 1, late)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	b := NewBus(nil)
	var mu sync.Mutex
	n := 0
	b.Subscribe(SessionExpired, func(context.Context, Event) error {
		mu.Lock()
		n++
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Publish(context.Background(), Event{Type: SessionExpired})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, n)
}

package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_Emit(t *testing.T) {
	t.Run("delivers to subscribers of the type", func(t *testing.T) {
		bus := NewBus()

		var mu sync.Mutex
		var got []Event
		done := make(chan struct{})
		bus.Subscribe(EventTypeCommandUsed, func(ctx context.Context, event Event) {
			mu.Lock()
			got = append(got, event)
			mu.Unlock()
			close(done)
		})
		bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
			t.Error("wrong event type delivered")
		})

		bus.Emit(context.Background(), CommandUsedEvent{UserID: 1, Command: "daily"})

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler was never invoked")
		}

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, got, 1)
		used, ok := got[0].(CommandUsedEvent)
		require.True(t, ok)
		assert.Equal(t, "daily", used.Command)
	})

	t.Run("no subscribers is a no-op", func(t *testing.T) {
		NewBus().Emit(context.Background(), AccountCreatedEvent{UserID: 1})
	})

	t.Run("panicking handler does not stop delivery", func(t *testing.T) {
		bus := NewBus()

		done := make(chan struct{})
		bus.Subscribe(EventTypeGameResolved, func(ctx context.Context, event Event) {
			panic("boom")
		})
		bus.Subscribe(EventTypeGameResolved, func(ctx context.Context, event Event) {
			close(done)
		})

		bus.Emit(context.Background(), GameResolvedEvent{UserID: 2, Country: "France", Guesses: 3})

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("second handler was never invoked")
		}
	})
}

func TestTransactionalBus(t *testing.T) {
	newCounting := func() (*Bus, *sync.WaitGroup, *atomic.Int32) {
		bus := NewBus()
		var wg sync.WaitGroup
		var count atomic.Int32
		bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
			count.Add(1)
			wg.Done()
		})
		return bus, &wg, &count
	}

	t.Run("flush forwards after commit", func(t *testing.T) {
		bus, wg, count := newCounting()
		txBus := NewTransactionalBus(bus)

		txBus.Publish(BalanceChangeEvent{UserID: 1})
		txBus.Publish(BalanceChangeEvent{UserID: 2})
		assert.Zero(t, count.Load(), "nothing should emit before flush")

		wg.Add(2)
		txBus.Flush(context.Background())
		wg.Wait()
		assert.Equal(t, int32(2), count.Load())
	})

	t.Run("discard drops pending events", func(t *testing.T) {
		bus, wg, count := newCounting()
		txBus := NewTransactionalBus(bus)

		txBus.Publish(BalanceChangeEvent{UserID: 1})
		txBus.Discard()
		txBus.Flush(context.Background())
		wg.Wait()
		assert.Zero(t, count.Load())
	})
}

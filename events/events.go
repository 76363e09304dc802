package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"popcat/models"
)

// EventType represents different types of events in the system.
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeGameResolved   EventType = "game_resolved"
	EventTypeCommandUsed    EventType = "command_used"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
}

// BalanceChangeEvent fires after a ledger mutation commits.
type BalanceChangeEvent struct {
	UserID          int64
	PocketBefore    int64
	PocketAfter     int64
	BankBefore      int64
	BankAfter       int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent fires on a user's first economic interaction.
type AccountCreatedEvent struct {
	UserID         int64
	InitialBalance int64
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// GameResolvedEvent fires when a geography game session ends with a correct
// guess.
type GameResolvedEvent struct {
	UserID  int64
	Country string
	Guesses int
}

func (e GameResolvedEvent) Type() EventType {
	return EventTypeGameResolved
}

// CommandUsedEvent fires once per handled slash command, driving the usage
// counters.
type CommandUsedEvent struct {
	UserID  int64
	GuildID int64
	Command string
}

func (e CommandUsedEvent) Type() EventType {
	return EventTypeCommandUsed
}

// Handler is a function that handles events.
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]Handler)}
}

// Subscribe adds a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit publishes an event to all registered handlers. Handlers run on their
// own goroutines so a slow subscriber cannot block the emitting command.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and
// forwards them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps the real bus for one unit of work.
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush or Discard.
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits pending events after a successful commit. Emission uses a
// background context so event handling outlives the transaction context.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

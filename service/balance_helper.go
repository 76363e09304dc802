package service

import (
	"context"
	"fmt"

	"popcat/events"
	"popcat/models"
)

// RecordBalanceChange records a ledger audit entry and emits the matching
// events. This is the single entry point for all balance changes in the
// system; it must run inside the unit of work that applied the change.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, entry *models.BalanceEntry) error {
	if err := uow.BalanceEntryRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record balance entry: %w", err)
	}

	// Flushed after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          entry.UserID,
		PocketBefore:    entry.PocketBefore,
		PocketAfter:     entry.PocketAfter,
		BankBefore:      entry.BankBefore,
		BankAfter:       entry.BankAfter,
		TransactionType: entry.TransactionType,
		ChangeAmount:    entry.ChangeAmount,
	})

	if entry.TransactionType == models.TransactionTypeInitial {
		uow.EventBus().Publish(events.AccountCreatedEvent{
			UserID:         entry.UserID,
			InitialBalance: entry.PocketAfter,
		})
	}

	return nil
}

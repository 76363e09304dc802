package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/events"
	"popcat/service"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
	inventoryRepo    service.InventoryRepository
	stockRepo        service.StockRepository
	balanceEntryRepo service.BalanceEntryRepository
	guildConfigRepo  service.GuildConfigRepository
	customCmdRepo    service.CustomCommandRepository
	warningRepo      service.WarningRepository
	gameResultRepo   service.GameResultRepository
	commandCountRepo service.CommandCountRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.inventoryRepo = newInventoryRepositoryWithTx(tx)
	u.stockRepo = newStockRepositoryWithTx(tx)
	u.balanceEntryRepo = newBalanceEntryRepositoryWithTx(tx)
	u.guildConfigRepo = newGuildConfigRepositoryWithTx(tx)
	u.customCmdRepo = newCustomCommandRepositoryWithTx(tx)
	u.warningRepo = newWarningRepositoryWithTx(tx)
	u.gameResultRepo = newGameResultRepositoryWithTx(tx)
	u.commandCountRepo = newCommandCountRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events.
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

func (u *unitOfWork) InventoryRepository() service.InventoryRepository {
	if u.inventoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.inventoryRepo
}

func (u *unitOfWork) StockRepository() service.StockRepository {
	if u.stockRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stockRepo
}

func (u *unitOfWork) BalanceEntryRepository() service.BalanceEntryRepository {
	if u.balanceEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceEntryRepo
}

func (u *unitOfWork) GuildConfigRepository() service.GuildConfigRepository {
	if u.guildConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildConfigRepo
}

func (u *unitOfWork) CustomCommandRepository() service.CustomCommandRepository {
	if u.customCmdRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.customCmdRepo
}

func (u *unitOfWork) WarningRepository() service.WarningRepository {
	if u.warningRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.warningRepo
}

func (u *unitOfWork) GameResultRepository() service.GameResultRepository {
	if u.gameResultRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameResultRepo
}

func (u *unitOfWork) CommandCountRepository() service.CommandCountRepository {
	if u.commandCountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.commandCountRepo
}

// EventBus returns the transactional event bus for this unit of work.
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"popcat/events"
	"popcat/models"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) CreateIfAbsent(ctx context.Context, userID int64, initialPocket int64) (bool, error) {
	args := m.Called(ctx, userID, initialPocket)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) AddPocket(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductPocket(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) AddBank(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) DeductBank(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) Deposit(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) Withdraw(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) AddKarma(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) SellKarma(ctx context.Context, userID int64, units int64, payout int64) error {
	args := m.Called(ctx, userID, units, payout)
	return args.Error(0)
}

func (m *MockAccountRepository) ClaimWindowed(ctx context.Context, userID int64, column models.ClaimColumn, amount int64, windowStart int64) (bool, error) {
	args := m.Called(ctx, userID, column, amount, windowStart)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) TopByPocket(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) TopByBank(ctx context.Context, limit int) ([]*models.Account, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Quantity(ctx context.Context, userID int64, item models.Item) (int64, error) {
	args := m.Called(ctx, userID, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, userID int64) ([]*models.InventoryEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryEntry), args.Error(1)
}

func (m *MockInventoryRepository) Add(ctx context.Context, userID int64, item models.Item, quantity int64) error {
	args := m.Called(ctx, userID, item, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) Deduct(ctx context.Context, userID int64, item models.Item, quantity int64) error {
	args := m.Called(ctx, userID, item, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) TopByItem(ctx context.Context, item models.Item, limit int) ([]*models.InventoryEntry, error) {
	args := m.Called(ctx, item, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryEntry), args.Error(1)
}

// MockStockRepository is a mock implementation of StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Append(ctx context.Context, txn *models.StockTransaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockStockRepository) ListByUser(ctx context.Context, userID int64) ([]*models.StockTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockTransaction), args.Error(1)
}

func (m *MockStockRepository) NetShares(ctx context.Context, userID int64, symbol string) (float64, error) {
	args := m.Called(ctx, userID, symbol)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStockRepository) TopInvestors(ctx context.Context, limit int) ([]*models.InvestedValue, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InvestedValue), args.Error(1)
}

// MockBalanceEntryRepository is a mock implementation of BalanceEntryRepository
type MockBalanceEntryRepository struct {
	mock.Mock
}

func (m *MockBalanceEntryRepository) Record(ctx context.Context, entry *models.BalanceEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockBalanceEntryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceEntry), args.Error(1)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockCustomCommandRepository is a mock implementation of CustomCommandRepository
type MockCustomCommandRepository struct {
	mock.Mock
}

func (m *MockCustomCommandRepository) Create(ctx context.Context, cmd *models.CustomCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomCommandRepository) Get(ctx context.Context, guildID int64, trigger string) (*models.CustomCommand, error) {
	args := m.Called(ctx, guildID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandRepository) Delete(ctx context.Context, guildID int64, trigger string) (bool, error) {
	args := m.Called(ctx, guildID, trigger)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomCommandRepository) List(ctx context.Context, guildID int64) ([]*models.CustomCommand, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CustomCommand), args.Error(1)
}

// MockWarningRepository is a mock implementation of WarningRepository
type MockWarningRepository struct {
	mock.Mock
}

func (m *MockWarningRepository) Add(ctx context.Context, warning *models.Warning) error {
	args := m.Called(ctx, warning)
	return args.Error(0)
}

func (m *MockWarningRepository) ListByUser(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Warning), args.Error(1)
}

func (m *MockWarningRepository) RemoveByPosition(ctx context.Context, guildID, userID int64, position int) (bool, error) {
	args := m.Called(ctx, guildID, userID, position)
	return args.Bool(0), args.Error(1)
}

// MockGameResultRepository is a mock implementation of GameResultRepository
type MockGameResultRepository struct {
	mock.Mock
}

func (m *MockGameResultRepository) Record(ctx context.Context, result *models.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockGameResultRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.GameResult, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameResult), args.Error(1)
}

func (m *MockGameResultRepository) WinsLeaderboard(ctx context.Context, limit int) ([]*models.WinCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WinCount), args.Error(1)
}

// MockCommandCountRepository is a mock implementation of CommandCountRepository
type MockCommandCountRepository struct {
	mock.Mock
}

func (m *MockCommandCountRepository) Increment(ctx context.Context, scope models.CommandScope, scopeID int64) error {
	args := m.Called(ctx, scope, scopeID)
	return args.Error(0)
}

func (m *MockCommandCountRepository) Get(ctx context.Context, scope models.CommandScope, scopeID int64) (int64, error) {
	args := m.Called(ctx, scope, scopeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommandCountRepository) Total(ctx context.Context, scope models.CommandScope) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

// MockCooldownStore is a mock implementation of CooldownStore
type MockCooldownStore struct {
	mock.Mock
}

func (m *MockCooldownStore) Check(ctx context.Context, userID int64, action string) (models.Remaining, bool, error) {
	args := m.Called(ctx, userID, action)
	return args.Get(0).(models.Remaining), args.Bool(1), args.Error(2)
}

func (m *MockCooldownStore) Set(ctx context.Context, userID int64, action string, d time.Duration) error {
	args := m.Called(ctx, userID, action, d)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, userID int64) (*models.GameSession, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameSession), args.Error(1)
}

func (m *MockSessionStore) Put(ctx context.Context, userID int64, session *models.GameSession) error {
	args := m.Called(ctx, userID, session)
	return args.Error(0)
}

func (m *MockSessionStore) IncrementGuess(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionStore) ActiveUsers(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockQuoteProvider is a mock implementation of QuoteProvider
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) Get(ctx context.Context, symbol string) (*models.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher drops events; the default when a test does not care.
type noopPublisher struct{}

func (noopPublisher) Publish(events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit and
// Rollback are expectation-driven; the repository getters hand back whatever
// SetRepositories installed.
type MockUnitOfWork struct {
	mock.Mock
	accountRepo      AccountRepository
	inventoryRepo    InventoryRepository
	stockRepo        StockRepository
	balanceEntryRepo BalanceEntryRepository
	guildConfigRepo  GuildConfigRepository
	customCmdRepo    CustomCommandRepository
	warningRepo      WarningRepository
	gameResultRepo   GameResultRepository
	commandCountRepo CommandCountRepository
	publisher        EventPublisher
}

// SetRepositories installs the ledger-path repositories most tests need.
func (m *MockUnitOfWork) SetRepositories(account AccountRepository, inventory InventoryRepository, balanceEntry BalanceEntryRepository) {
	m.accountRepo = account
	m.inventoryRepo = inventory
	m.balanceEntryRepo = balanceEntry
}

// SetStockRepository installs the trade log repository.
func (m *MockUnitOfWork) SetStockRepository(stock StockRepository) {
	m.stockRepo = stock
}

// SetGuildRepositories installs the guild-scope repositories.
func (m *MockUnitOfWork) SetGuildRepositories(config GuildConfigRepository, customCmd CustomCommandRepository, warning WarningRepository, counts CommandCountRepository) {
	m.guildConfigRepo = config
	m.customCmdRepo = customCmd
	m.warningRepo = warning
	m.commandCountRepo = counts
}

// SetGameResultRepository installs the game record repository.
func (m *MockUnitOfWork) SetGameResultRepository(results GameResultRepository) {
	m.gameResultRepo = results
}

// SetEventPublisher installs a publisher; events are dropped otherwise.
func (m *MockUnitOfWork) SetEventPublisher(p EventPublisher) {
	m.publisher = p
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) InventoryRepository() InventoryRepository {
	return m.inventoryRepo
}

func (m *MockUnitOfWork) StockRepository() StockRepository {
	return m.stockRepo
}

func (m *MockUnitOfWork) BalanceEntryRepository() BalanceEntryRepository {
	return m.balanceEntryRepo
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) CustomCommandRepository() CustomCommandRepository {
	return m.customCmdRepo
}

func (m *MockUnitOfWork) WarningRepository() WarningRepository {
	return m.warningRepo
}

func (m *MockUnitOfWork) GameResultRepository() GameResultRepository {
	return m.gameResultRepo
}

func (m *MockUnitOfWork) CommandCountRepository() CommandCountRepository {
	return m.commandCountRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		return noopPublisher{}
	}
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

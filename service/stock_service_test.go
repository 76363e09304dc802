package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"popcat/models"
)

func newStockFixture(t *testing.T) (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockAccountRepository, *MockStockRepository, *MockBalanceEntryRepository, *MockQuoteProvider) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAccountRepo := new(MockAccountRepository)
	mockStockRepo := new(MockStockRepository)
	mockEntryRepo := new(MockBalanceEntryRepository)
	mockQuotes := new(MockQuoteProvider)

	mockUoW.SetRepositories(mockAccountRepo, nil, mockEntryRepo)
	mockUoW.SetStockRepository(mockStockRepo)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockAccountRepo, mockStockRepo, mockEntryRepo, mockQuotes
}

func TestStockService_Buy_SettlesAgainstBank(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockStockRepo, mockEntryRepo, mockQuotes := newStockFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewStockService(mockFactory, mockQuotes)

	mockQuotes.On("Get", ctx, "AAPL").Return(&models.Quote{Symbol: "AAPL", Current: 200}, nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Bank: 5000})
	mockAccountRepo.On("DeductBank", ctx, int64(1), int64(1000)).Return(nil)
	mockStockRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.StockTransaction) bool {
		return txn.Symbol == "AAPL" && txn.Action == models.StockActionBuy &&
			txn.Shares == 5.0 && txn.Price == 200
	})).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.TransactionType == models.TransactionTypeStockBuy &&
			e.BankBefore == 5000 && e.BankAfter == 4000
	})).Return(nil)

	result, err := svc.Buy(ctx, 1, "aapl", 1000)

	require.NoError(t, err)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, 5.0, result.Shares)
	mockStockRepo.AssertExpectations(t)
}

func TestStockService_Buy_InsufficientBank(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockStockRepo, _, mockQuotes := newStockFixture(t)

	svc := NewStockService(mockFactory, mockQuotes)

	mockQuotes.On("Get", ctx, "AAPL").Return(&models.Quote{Symbol: "AAPL", Current: 200}, nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Bank: 10})
	mockAccountRepo.On("DeductBank", ctx, int64(1), int64(1000)).Return(models.ErrInsufficientFunds)

	_, err := svc.Buy(ctx, 1, "AAPL", 1000)

	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	mockStockRepo.AssertNotCalled(t, "Append")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestStockService_Sell_RejectsOverselling(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockStockRepo, _, mockQuotes := newStockFixture(t)

	svc := NewStockService(mockFactory, mockQuotes)

	mockQuotes.On("Get", ctx, "AAPL").Return(&models.Quote{Symbol: "AAPL", Current: 200}, nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Bank: 0})
	mockStockRepo.On("NetShares", ctx, int64(1), "AAPL").Return(1.0, nil)

	// 1000 coins at 200/share needs 5 shares; only 1 is held.
	_, err := svc.Sell(ctx, 1, "AAPL", 1000)

	assert.ErrorIs(t, err, models.ErrInsufficientInventory)
	mockStockRepo.AssertNotCalled(t, "Append")
	mockAccountRepo.AssertNotCalled(t, "AddBank")
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestStockService_Sell_CreditsBank(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockAccountRepo, mockStockRepo, mockEntryRepo, mockQuotes := newStockFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewStockService(mockFactory, mockQuotes)

	mockQuotes.On("Get", ctx, "AAPL").Return(&models.Quote{Symbol: "AAPL", Current: 200}, nil)
	expectEnsureAccount(mockAccountRepo, &models.Account{UserID: 1, Bank: 100})
	mockStockRepo.On("NetShares", ctx, int64(1), "AAPL").Return(10.0, nil)
	mockStockRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.StockTransaction) bool {
		return txn.Action == models.StockActionSell && txn.Shares == 5.0
	})).Return(nil)
	mockAccountRepo.On("AddBank", ctx, int64(1), int64(1000)).Return(nil)
	mockEntryRepo.On("Record", ctx, mock.MatchedBy(func(e *models.BalanceEntry) bool {
		return e.TransactionType == models.TransactionTypeStockSell && e.ChangeAmount == 1000
	})).Return(nil)

	result, err := svc.Sell(ctx, 1, "AAPL", 1000)

	require.NoError(t, err)
	assert.Equal(t, 5.0, result.Shares)
}

func TestStockService_Quote_UnknownSymbol(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockQuotes := newStockFixture(t)

	svc := NewStockService(mockFactory, mockQuotes)

	mockQuotes.On("Get", ctx, "NOPE").Return(nil, models.ErrNotFound)

	_, err := svc.Quote(ctx, "nope")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStockService_Portfolio_FoldsTransactionLog(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, _, mockStockRepo, _, mockQuotes := newStockFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewStockService(mockFactory, mockQuotes)

	mockStockRepo.On("ListByUser", ctx, int64(1)).Return([]*models.StockTransaction{
		{Symbol: "AAPL", Action: models.StockActionBuy, Shares: 5, Price: 200},
		{Symbol: "AAPL", Action: models.StockActionSell, Shares: 2, Price: 250},
		{Symbol: "TSLA", Action: models.StockActionBuy, Shares: 1, Price: 700},
	}, nil)

	portfolio, err := svc.Portfolio(ctx, 1)

	require.NoError(t, err)
	require.Len(t, portfolio, 2)
	assert.Equal(t, 3.0, portfolio["AAPL"].Shares)
	assert.Equal(t, 1.0, portfolio["TSLA"].Shares)
}

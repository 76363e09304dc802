package service

import (
	"context"
	"fmt"
	"strings"

	"popcat/models"
)

// TradeResult describes one executed stock order.
type TradeResult struct {
	Symbol string
	Shares float64
	Price  float64
	Amount int64
}

// StockService defines the interface for stock trading. Orders are placed in
// coins; the share count is derived from the live quote. All trades settle
// against the bank balance.
type StockService interface {
	// Quote returns the current price snapshot for a symbol
	Quote(ctx context.Context, symbol string) (*models.Quote, error)

	// Buy invests amount coins from the bank into a symbol
	Buy(ctx context.Context, userID int64, symbol string, amount int64) (*TradeResult, error)

	// Sell liquidates amount coins' worth of a position into the bank
	Sell(ctx context.Context, userID int64, symbol string, amount int64) (*TradeResult, error)

	// Portfolio folds the user's trade log into per-symbol positions
	Portfolio(ctx context.Context, userID int64) (models.Portfolio, error)

	// TopInvestors ranks users by net coins committed to positions
	TopInvestors(ctx context.Context, limit int) ([]*models.InvestedValue, error)
}

// stockService implements the StockService interface
type stockService struct {
	uowFactory UnitOfWorkFactory
	quotes     QuoteProvider
}

// NewStockService creates a new stock service.
func NewStockService(uowFactory UnitOfWorkFactory, quotes QuoteProvider) StockService {
	return &stockService{
		uowFactory: uowFactory,
		quotes:     quotes,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *stockService) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrValidation)
	}
	return s.quotes.Get(ctx, symbol)
}

func (s *stockService) Buy(ctx context.Context, userID int64, symbol string, amount int64) (*TradeResult, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	quote, err := s.quotes.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	shares := float64(amount) / quote.Current

	err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		// Settlement and the log append share the transaction.
		if err := uow.AccountRepository().DeductBank(ctx, userID, amount); err != nil {
			return err
		}
		if err := uow.StockRepository().Append(ctx, &models.StockTransaction{
			UserID: userID,
			Symbol: symbol,
			Action: models.StockActionBuy,
			Shares: shares,
			Price:  quote.Current,
		}); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank - amount,
			ChangeAmount:    -amount,
			TransactionType: models.TransactionTypeStockBuy,
			Metadata:        map[string]any{"symbol": symbol, "shares": shares, "price": quote.Current},
		})
	})
	if err != nil {
		return nil, err
	}

	return &TradeResult{Symbol: symbol, Shares: shares, Price: quote.Current, Amount: amount}, nil
}

func (s *stockService) Sell(ctx context.Context, userID int64, symbol string, amount int64) (*TradeResult, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	quote, err := s.quotes.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	shares := float64(amount) / quote.Current

	err = runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		before, err := ensureAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		// The position check and the append run inside one transaction so
		// two racing sells cannot both pass it.
		held, err := uow.StockRepository().NetShares(ctx, userID, symbol)
		if err != nil {
			return err
		}
		if held < shares {
			return fmt.Errorf("%w: user %d holds %.4f shares of %s, needs %.4f",
				models.ErrInsufficientInventory, userID, held, symbol, shares)
		}

		if err := uow.StockRepository().Append(ctx, &models.StockTransaction{
			UserID: userID,
			Symbol: symbol,
			Action: models.StockActionSell,
			Shares: shares,
			Price:  quote.Current,
		}); err != nil {
			return err
		}
		if err := uow.AccountRepository().AddBank(ctx, userID, amount); err != nil {
			return err
		}
		return RecordBalanceChange(ctx, uow, &models.BalanceEntry{
			UserID:          userID,
			PocketBefore:    before.Pocket,
			PocketAfter:     before.Pocket,
			BankBefore:      before.Bank,
			BankAfter:       before.Bank + amount,
			ChangeAmount:    amount,
			TransactionType: models.TransactionTypeStockSell,
			Metadata:        map[string]any{"symbol": symbol, "shares": shares, "price": quote.Current},
		})
	})
	if err != nil {
		return nil, err
	}

	return &TradeResult{Symbol: symbol, Shares: shares, Price: quote.Current, Amount: amount}, nil
}

func (s *stockService) Portfolio(ctx context.Context, userID int64) (models.Portfolio, error) {
	var txns []*models.StockTransaction
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		txns, err = uow.StockRepository().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.BuildPortfolio(txns), nil
}

func (s *stockService) TopInvestors(ctx context.Context, limit int) ([]*models.InvestedValue, error) {
	var values []*models.InvestedValue
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		values, err = uow.StockRepository().TopInvestors(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

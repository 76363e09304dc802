package repository

import (
	"context"
	"fmt"

	"popcat/database"
	"popcat/models"
)

// StockRepository implements the service.StockRepository interface. The
// transaction log is append-only; positions are always recomputed from it.
type StockRepository struct {
	q queryable
}

// NewStockRepository creates a new stock repository.
func NewStockRepository(db *database.DB) *StockRepository {
	return &StockRepository{q: db.Pool}
}

func newStockRepositoryWithTx(tx queryable) *StockRepository {
	return &StockRepository{q: tx}
}

// Append records one buy or sell in the transaction log.
func (r *StockRepository) Append(ctx context.Context, txn *models.StockTransaction) error {
	if txn.Shares <= 0 || txn.Price <= 0 {
		return fmt.Errorf("%w: shares and price must be positive", models.ErrValidation)
	}

	query := `
		INSERT INTO stock_transactions (user_id, symbol, action, shares, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		txn.UserID, txn.Symbol, string(txn.Action), txn.Shares, txn.Price,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append stock transaction for user %d: %w", txn.UserID, err)
	}
	return nil
}

// ListByUser returns the user's full transaction log in insertion order.
func (r *StockRepository) ListByUser(ctx context.Context, userID int64) ([]*models.StockTransaction, error) {
	query := `
		SELECT id, user_id, symbol, action, shares, price, created_at
		FROM stock_transactions
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txns []*models.StockTransaction
	for rows.Next() {
		var t models.StockTransaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Action, &t.Shares, &t.Price, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock transaction: %w", err)
		}
		txns = append(txns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock transactions: %w", err)
	}
	return txns, nil
}

// NetShares folds the log for one symbol into the user's current position.
func (r *StockRepository) NetShares(ctx context.Context, userID int64, symbol string) (float64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN action = 'sell' THEN -shares ELSE shares END), 0)
		FROM stock_transactions
		WHERE user_id = $1 AND symbol = $2
	`

	var shares float64
	err := r.q.QueryRow(ctx, query, userID, symbol).Scan(&shares)
	if err != nil {
		return 0, fmt.Errorf("failed to compute net shares of %s for user %d: %w", symbol, userID, err)
	}
	return shares, nil
}

// TopInvestors ranks users by net coins committed to stock positions.
func (r *StockRepository) TopInvestors(ctx context.Context, limit int) ([]*models.InvestedValue, error) {
	query := `
		SELECT user_id,
		       SUM(CASE WHEN action = 'sell' THEN -shares * price ELSE shares * price END) AS invested
		FROM stock_transactions
		GROUP BY user_id
		HAVING SUM(CASE WHEN action = 'sell' THEN -shares * price ELSE shares * price END) > 0
		ORDER BY invested DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top investors: %w", err)
	}
	defer rows.Close()

	var values []*models.InvestedValue
	for rows.Next() {
		var v models.InvestedValue
		if err := rows.Scan(&v.UserID, &v.Invested); err != nil {
			return nil, fmt.Errorf("failed to scan invested value: %w", err)
		}
		values = append(values, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invested values: %w", err)
	}
	return values, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/models"
)

// AccountRepository implements the service.AccountRepository interface.
//
// Every guarded decrement is a single conditional UPDATE whose WHERE clause
// carries the precondition; RowsAffected distinguishes "precondition failed"
// from success, which closes all check-then-act races on balances.
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// GetByUserID retrieves an account, or nil if the user has never interacted
// with the economy.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT user_id, pocket, bank, karma, last_daily, last_mansion, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`

	var a models.Account
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&a.UserID, &a.Pocket, &a.Bank, &a.Karma,
		&a.LastDaily, &a.LastMansion, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}
	return &a, nil
}

// CreateIfAbsent inserts a new account with the initial pocket balance. The
// conditional insert makes concurrent first touches by the same user
// idempotent; it reports whether this call created the row.
func (r *AccountRepository) CreateIfAbsent(ctx context.Context, userID int64, initialPocket int64) (bool, error) {
	query := `
		INSERT INTO accounts (user_id, pocket)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, userID, initialPocket)
	if err != nil {
		return false, fmt.Errorf("failed to create account for user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}

// AddPocket unconditionally increments a user's pocket balance.
func (r *AccountRepository) AddPocket(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET pocket = pocket + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add pocket balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account for user %d", models.ErrNotFound, userID)
	}
	return nil
}

// DeductPocket decrements a user's pocket balance only if it covers the
// amount.
func (r *AccountRepository) DeductPocket(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET pocket = pocket - $1, updated_at = NOW()
		WHERE user_id = $2 AND pocket >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct pocket balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d in pocket", models.ErrInsufficientFunds, userID, amount)
	}
	return nil
}

// Deposit moves amount from pocket to bank in one conditional update, so a
// crash can never apply half of it.
func (r *AccountRepository) Deposit(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET pocket = pocket - $1, bank = bank + $1, updated_at = NOW()
		WHERE user_id = $2 AND pocket >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deposit for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d in pocket", models.ErrInsufficientFunds, userID, amount)
	}
	return nil
}

// Withdraw moves amount from bank to pocket in one conditional update.
func (r *AccountRepository) Withdraw(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET bank = bank - $1, pocket = pocket + $1, updated_at = NOW()
		WHERE user_id = $2 AND bank >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to withdraw for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d in bank", models.ErrInsufficientFunds, userID, amount)
	}
	return nil
}

// AddBank unconditionally increments a user's bank balance.
func (r *AccountRepository) AddBank(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET bank = bank + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add bank balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account for user %d", models.ErrNotFound, userID)
	}
	return nil
}

// DeductBank decrements a user's bank balance only if it covers the amount.
func (r *AccountRepository) DeductBank(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET bank = bank - $1, updated_at = NOW()
		WHERE user_id = $2 AND bank >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct bank balance for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d in bank", models.ErrInsufficientFunds, userID, amount)
	}
	return nil
}

// AddKarma unconditionally increments a user's karma.
func (r *AccountRepository) AddKarma(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET karma = karma + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add karma for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: account for user %d", models.ErrNotFound, userID)
	}
	return nil
}

// SellKarma trades units of karma for payout coins in one conditional
// update.
func (r *AccountRepository) SellKarma(ctx context.Context, userID int64, units int64, payout int64) error {
	if units <= 0 || payout < 0 {
		return fmt.Errorf("%w: units must be positive", models.ErrValidation)
	}

	query := `
		UPDATE accounts
		SET karma = karma - $1, pocket = pocket + $2, updated_at = NOW()
		WHERE user_id = $3 AND karma >= $1
	`

	result, err := r.q.Exec(ctx, query, units, payout, userID)
	if err != nil {
		return fmt.Errorf("failed to sell karma for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d karma", models.ErrInsufficientInventory, userID, units)
	}
	return nil
}

// ClaimWindowed grants a cadence reward: it pays amount into pocket and
// advances the named claim timestamp to windowStart, but only if the stored
// timestamp predates the window. Reports whether the claim applied.
func (r *AccountRepository) ClaimWindowed(ctx context.Context, userID int64, column models.ClaimColumn, amount int64, windowStart int64) (bool, error) {
	var query string
	switch column {
	case models.ClaimDaily:
		query = `
			UPDATE accounts
			SET pocket = pocket + $1, last_daily = $2, updated_at = NOW()
			WHERE user_id = $3 AND last_daily < $2
		`
	case models.ClaimMansion:
		query = `
			UPDATE accounts
			SET pocket = pocket + $1, last_mansion = $2, updated_at = NOW()
			WHERE user_id = $3 AND last_mansion < $2
		`
	default:
		return false, fmt.Errorf("%w: unknown claim column %q", models.ErrValidation, column)
	}

	result, err := r.q.Exec(ctx, query, amount, windowStart, userID)
	if err != nil {
		return false, fmt.Errorf("failed to claim %s for user %d: %w", column, userID, err)
	}
	return result.RowsAffected() > 0, nil
}

// TopByPocket returns the accounts with the highest pocket balances.
func (r *AccountRepository) TopByPocket(ctx context.Context, limit int) ([]*models.Account, error) {
	return r.top(ctx, "pocket", limit)
}

// TopByBank returns the accounts with the highest bank balances.
func (r *AccountRepository) TopByBank(ctx context.Context, limit int) ([]*models.Account, error) {
	return r.top(ctx, "bank", limit)
}

func (r *AccountRepository) top(ctx context.Context, column string, limit int) ([]*models.Account, error) {
	query := fmt.Sprintf(`
		SELECT user_id, pocket, bank, karma, last_daily, last_mansion, created_at, updated_at
		FROM accounts
		ORDER BY %s DESC
		LIMIT $1
	`, column)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top accounts by %s: %w", column, err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(
			&a.UserID, &a.Pocket, &a.Bank, &a.Karma,
			&a.LastDaily, &a.LastMansion, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"popcat/database"
	"popcat/models"
)

// InventoryRepository implements the service.InventoryRepository interface.
type InventoryRepository struct {
	q queryable
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

func newInventoryRepositoryWithTx(tx queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

// Quantity returns how many of item the user holds. A user who never owned
// the item holds zero.
func (r *InventoryRepository) Quantity(ctx context.Context, userID int64, item models.Item) (int64, error) {
	query := `
		SELECT quantity
		FROM inventory_items
		WHERE user_id = $1 AND item = $2
	`

	var quantity int64
	err := r.q.QueryRow(ctx, query, userID, string(item)).Scan(&quantity)
	if err == pgx.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s quantity for user %d: %w", item, userID, err)
	}
	return quantity, nil
}

// List returns the user's full inventory, omitting zero stacks.
func (r *InventoryRepository) List(ctx context.Context, userID int64) ([]*models.InventoryEntry, error) {
	query := `
		SELECT user_id, item, quantity
		FROM inventory_items
		WHERE user_id = $1 AND quantity > 0
		ORDER BY item
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.InventoryEntry
	for rows.Next() {
		var e models.InventoryEntry
		if err := rows.Scan(&e.UserID, &e.Item, &e.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return entries, nil
}

// Add grants the user quantity of item, creating the stack on first grant.
func (r *InventoryRepository) Add(ctx context.Context, userID int64, item models.Item, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	query := `
		INSERT INTO inventory_items (user_id, item, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item) DO UPDATE
		SET quantity = inventory_items.quantity + EXCLUDED.quantity
	`

	if _, err := r.q.Exec(ctx, query, userID, string(item), quantity); err != nil {
		return fmt.Errorf("failed to add %d %s for user %d: %w", quantity, item, userID, err)
	}
	return nil
}

// Deduct removes quantity of item from the user's stack only if the stack
// covers it.
func (r *InventoryRepository) Deduct(ctx context.Context, userID int64, item models.Item, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	query := `
		UPDATE inventory_items
		SET quantity = quantity - $1
		WHERE user_id = $2 AND item = $3 AND quantity >= $1
	`

	result, err := r.q.Exec(ctx, query, quantity, userID, string(item))
	if err != nil {
		return fmt.Errorf("failed to deduct %d %s for user %d: %w", quantity, item, userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d needs %d %s", models.ErrInsufficientInventory, userID, quantity, item)
	}
	return nil
}

// TopByItem returns the users holding the most of item.
func (r *InventoryRepository) TopByItem(ctx context.Context, item models.Item, limit int) ([]*models.InventoryEntry, error) {
	query := `
		SELECT user_id, item, quantity
		FROM inventory_items
		WHERE item = $1 AND quantity > 0
		ORDER BY quantity DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, string(item), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top holders of %s: %w", item, err)
	}
	defer rows.Close()

	var entries []*models.InventoryEntry
	for rows.Next() {
		var e models.InventoryEntry
		if err := rows.Scan(&e.UserID, &e.Item, &e.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan inventory entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory: %w", err)
	}
	return entries, nil
}

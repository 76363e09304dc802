package repository

import (
	"context"
	"fmt"

	"popcat/database"
	"popcat/models"
)

// GameResultRepository implements the service.GameResultRepository
// interface.
type GameResultRepository struct {
	q queryable
}

// NewGameResultRepository creates a new game result repository.
func NewGameResultRepository(db *database.DB) *GameResultRepository {
	return &GameResultRepository{q: db.Pool}
}

func newGameResultRepositoryWithTx(tx queryable) *GameResultRepository {
	return &GameResultRepository{q: tx}
}

// Record stores one completed game.
func (r *GameResultRepository) Record(ctx context.Context, result *models.GameResult) error {
	query := `
		INSERT INTO game_results (user_id, country, guesses)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		result.UserID, result.Country, result.Guesses,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record game result for user %d: %w", result.UserID, err)
	}
	return nil
}

// ListByUser returns a user's most recent wins, newest first.
func (r *GameResultRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.GameResult, error) {
	query := `
		SELECT id, user_id, country, guesses, created_at
		FROM game_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game results for user %d: %w", userID, err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		var g models.GameResult
		if err := rows.Scan(&g.ID, &g.UserID, &g.Country, &g.Guesses, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}
	return results, nil
}

// WinsLeaderboard ranks users by number of games won.
func (r *GameResultRepository) WinsLeaderboard(ctx context.Context, limit int) ([]*models.WinCount, error) {
	query := `
		SELECT user_id, COUNT(*) AS wins
		FROM game_results
		GROUP BY user_id
		ORDER BY wins DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game wins leaderboard: %w", err)
	}
	defer rows.Close()

	var counts []*models.WinCount
	for rows.Next() {
		var w models.WinCount
		if err := rows.Scan(&w.UserID, &w.Wins); err != nil {
			return nil, fmt.Errorf("failed to scan win count: %w", err)
		}
		counts = append(counts, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate win counts: %w", err)
	}
	return counts, nil
}

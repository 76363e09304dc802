package service

import (
	"context"
	"fmt"
	"strings"

	"popcat/events"
	"popcat/geo"
	"popcat/models"
)

// GuessResult describes the outcome of one guess.
type GuessResult struct {
	Correct bool
	// Guesses is the number the player is on, counting this one.
	Guesses int
	// DistanceKM is the great-circle distance from the guessed country to
	// the target; only meaningful for wrong guesses.
	DistanceKM float64
	Country    string
	Shortcode  string
}

// GameService defines the interface for the guess-the-country game. A user
// holds at most one session at a time.
type GameService interface {
	// Start creates a session with a random target country, rejecting with
	// ErrGameActive if one is already in flight
	Start(ctx context.Context, userID int64) (*models.GameSession, error)

	// Guess checks a country name against the session's target
	Guess(ctx context.Context, userID int64, country string) (*GuessResult, error)

	// GiveUp abandons the session, returning the country that was hidden
	GiveUp(ctx context.Context, userID int64) (string, error)

	// Active returns the user's in-flight session, or nil
	Active(ctx context.Context, userID int64) (*models.GameSession, error)

	// ActiveUsers lists the user IDs with a session in flight
	ActiveUsers(ctx context.Context) ([]int64, error)

	// History returns the user's past wins, newest first
	History(ctx context.Context, userID int64, limit int) ([]*models.GameResult, error)

	// Leaderboard ranks users by number of games won
	Leaderboard(ctx context.Context, limit int) ([]*models.WinCount, error)
}

// gameService implements the GameService interface
type gameService struct {
	uowFactory UnitOfWorkFactory
	sessions   SessionStore
	catalog    *geo.Catalog
}

// NewGameService creates a new game service.
func NewGameService(uowFactory UnitOfWorkFactory, sessions SessionStore, catalog *geo.Catalog) GameService {
	return &gameService{
		uowFactory: uowFactory,
		sessions:   sessions,
		catalog:    catalog,
	}
}

func (s *gameService) Start(ctx context.Context, userID int64) (*models.GameSession, error) {
	existing, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user %d already has a game in flight", models.ErrGameActive, userID)
	}

	target := s.catalog.Random()
	session := &models.GameSession{
		CountryName: target.Name,
		Shortcode:   target.Shortcode,
		Lat:         target.Lat,
		Lng:         target.Lng,
		History:     1,
	}
	if err := s.sessions.Put(ctx, userID, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *gameService) Guess(ctx context.Context, userID int64, country string) (*GuessResult, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, fmt.Errorf("%w: country name is required", models.ErrValidation)
	}

	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: start a game first", models.ErrNoActiveGame)
	}

	guessed, ok := s.catalog.Lookup(country)
	if !ok {
		return nil, fmt.Errorf("%w: unknown country %q", models.ErrValidation, country)
	}

	if strings.EqualFold(guessed.Name, session.CountryName) {
		result := &GuessResult{
			Correct:   true,
			Guesses:   session.History,
			Country:   session.CountryName,
			Shortcode: session.Shortcode,
		}

		err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
			if err := uow.GameResultRepository().Record(ctx, &models.GameResult{
				UserID:  userID,
				Country: session.CountryName,
				Guesses: session.History,
			}); err != nil {
				return err
			}
			uow.EventBus().Publish(events.GameResolvedEvent{
				UserID:  userID,
				Country: session.CountryName,
				Guesses: session.History,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}

		// The win is durable; losing the delete only leaves a stale
		// session the next start command surfaces.
		if err := s.sessions.Delete(ctx, userID); err != nil {
			return nil, err
		}
		return result, nil
	}

	// Atomic increment tolerates duplicate command delivery.
	guesses, err := s.sessions.IncrementGuess(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &GuessResult{
		Correct:    false,
		Guesses:    guesses,
		DistanceKM: geo.Haversine(session.Lat, session.Lng, guessed.Lat, guessed.Lng),
		Country:    guessed.Name,
		Shortcode:  session.Shortcode,
	}, nil
}

func (s *gameService) GiveUp(ctx context.Context, userID int64) (string, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", fmt.Errorf("%w: no game to give up", models.ErrNoActiveGame)
	}

	if err := s.sessions.Delete(ctx, userID); err != nil {
		return "", err
	}
	return session.CountryName, nil
}

func (s *gameService) Active(ctx context.Context, userID int64) (*models.GameSession, error) {
	return s.sessions.Get(ctx, userID)
}

func (s *gameService) ActiveUsers(ctx context.Context) ([]int64, error) {
	return s.sessions.ActiveUsers(ctx)
}

func (s *gameService) History(ctx context.Context, userID int64, limit int) ([]*models.GameResult, error) {
	var results []*models.GameResult
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		results, err = uow.GameResultRepository().ListByUser(ctx, userID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *gameService) Leaderboard(ctx context.Context, limit int) ([]*models.WinCount, error) {
	var counts []*models.WinCount
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		counts, err = uow.GameResultRepository().WinsLeaderboard(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

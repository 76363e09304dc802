package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"popcat/geo"
	"popcat/models"
)

func testCatalog() *geo.Catalog {
	return geo.NewCatalog([]geo.Country{
		{Name: "France", Shortcode: "fr", Lat: 46.0, Lng: 2.0},
		{Name: "Japan", Shortcode: "jp", Lat: 36.0, Lng: 138.0},
		{Name: "Brazil", Shortcode: "br", Lat: -10.0, Lng: -55.0},
	})
}

func newGameFixture(t *testing.T) (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockSessionStore, *MockGameResultRepository) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockSessions := new(MockSessionStore)
	mockResults := new(MockGameResultRepository)

	mockUoW.SetGameResultRepository(mockResults)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockSessions, mockResults
}

func TestGameService_Start_CreatesSessionWithHistoryOne(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	mockSessions.On("Get", ctx, int64(1)).Return(nil, nil)
	mockSessions.On("Put", ctx, int64(1), mock.MatchedBy(func(s *models.GameSession) bool {
		return s.History == 1 && s.CountryName != "" && s.Shortcode != ""
	})).Return(nil)

	session, err := svc.Start(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, session.History)
	mockSessions.AssertExpectations(t)
}

func TestGameService_Start_RejectsSecondSession(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	active := &models.GameSession{CountryName: "France", Shortcode: "fr", History: 2}
	mockSessions.On("Get", ctx, int64(1)).Return(active, nil)

	_, err := svc.Start(ctx, 1)

	assert.ErrorIs(t, err, models.ErrGameActive)
	mockSessions.AssertNotCalled(t, "Put")
}

func TestGameService_Guess_WithoutSession(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	mockSessions.On("Get", ctx, int64(1)).Return(nil, nil)

	_, err := svc.Guess(ctx, 1, "France")

	assert.ErrorIs(t, err, models.ErrNoActiveGame)
}

func TestGameService_Guess_UnknownCountry(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	active := &models.GameSession{CountryName: "France", Shortcode: "fr", Lat: 46, Lng: 2, History: 1}
	mockSessions.On("Get", ctx, int64(1)).Return(active, nil)

	_, err := svc.Guess(ctx, 1, "Atlantis")

	assert.ErrorIs(t, err, models.ErrValidation)
	mockSessions.AssertNotCalled(t, "IncrementGuess")
}

func TestGameService_Guess_WrongIncrementsAndHints(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	active := &models.GameSession{CountryName: "France", Shortcode: "fr", Lat: 46, Lng: 2, History: 1}
	mockSessions.On("Get", ctx, int64(1)).Return(active, nil)
	mockSessions.On("IncrementGuess", ctx, int64(1)).Return(2, nil)

	result, err := svc.Guess(ctx, 1, "Japan")

	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 2, result.Guesses)
	// Paris to Tokyo is on the order of ten thousand kilometers.
	assert.InDelta(t, 9850, result.DistanceKM, 500)
}

func TestGameService_Guess_CorrectRecordsAndDeletes(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockSessions, mockResults := newGameFixture(t)
	mockUoW.On("Commit").Return(nil)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	active := &models.GameSession{CountryName: "France", Shortcode: "fr", Lat: 46, Lng: 2, History: 4}
	mockSessions.On("Get", ctx, int64(1)).Return(active, nil)
	mockResults.On("Record", ctx, mock.MatchedBy(func(r *models.GameResult) bool {
		return r.UserID == 1 && r.Country == "France" && r.Guesses == 4
	})).Return(nil)
	mockSessions.On("Delete", ctx, int64(1)).Return(nil)

	result, err := svc.Guess(ctx, 1, "france")

	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, 4, result.Guesses)
	mockResults.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}

func TestGameService_GiveUp(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	active := &models.GameSession{CountryName: "Brazil", Shortcode: "br", History: 2}
	mockSessions.On("Get", ctx, int64(1)).Return(active, nil).Once()
	mockSessions.On("Delete", ctx, int64(1)).Return(nil)

	country, err := svc.GiveUp(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, "Brazil", country)

	// Guessing after giving up finds no session.
	mockSessions.On("Get", ctx, int64(1)).Return(nil, nil).Once()
	_, err = svc.Guess(ctx, 1, "France")
	assert.ErrorIs(t, err, models.ErrNoActiveGame)
}

func TestGameService_GiveUp_WithoutSession(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockSessions, _ := newGameFixture(t)

	svc := NewGameService(mockFactory, mockSessions, testCatalog())

	mockSessions.On("Get", ctx, int64(1)).Return(nil, nil)

	_, err := svc.GiveUp(ctx, 1)

	assert.ErrorIs(t, err, models.ErrNoActiveGame)
	mockSessions.AssertNotCalled(t, "Delete")
}

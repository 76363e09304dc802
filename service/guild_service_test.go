package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"popcat/models"
)

func newGuildFixture(t *testing.T) (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockGuildConfigRepository, *MockCustomCommandRepository, *MockWarningRepository, *MockCommandCountRepository) {
	t.Helper()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockCmdRepo := new(MockCustomCommandRepository)
	mockWarnRepo := new(MockWarningRepository)
	mockCountRepo := new(MockCommandCountRepository)

	mockUoW.SetGuildRepositories(mockConfigRepo, mockCmdRepo, mockWarnRepo, mockCountRepo)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockUoW, mockFactory, mockConfigRepo, mockCmdRepo, mockWarnRepo, mockCountRepo
}

func TestGuildService_SetWelcome(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockConfigRepo, _, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockConfigRepo.On("GetOrCreate", ctx, int64(100)).Return(&models.GuildConfig{GuildID: 100}, nil)
	mockConfigRepo.On("Update", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return c.WelcomeEnabled() && *c.WelcomeChannelID == 555 && *c.WelcomeMessage == "hello {user}"
	})).Return(nil)

	err := svc.SetWelcome(ctx, 100, 555, "hello {user}")

	assert.NoError(t, err)
	mockConfigRepo.AssertExpectations(t)
}

func TestGuildService_DisableWelcome_Idempotent(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockConfigRepo, _, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	channel := int64(555)
	message := "hi"
	enabled := &models.GuildConfig{GuildID: 100, WelcomeChannelID: &channel, WelcomeMessage: &message}
	mockConfigRepo.On("GetOrCreate", ctx, int64(100)).Return(enabled, nil).Once()
	mockConfigRepo.On("Update", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return !c.WelcomeEnabled()
	})).Return(nil)

	was, err := svc.DisableWelcome(ctx, 100)
	require.NoError(t, err)
	assert.True(t, was)

	// Second disable reports it was already off, without erroring.
	mockConfigRepo.On("GetOrCreate", ctx, int64(100)).Return(&models.GuildConfig{GuildID: 100}, nil).Once()

	was, err = svc.DisableWelcome(ctx, 100)
	require.NoError(t, err)
	assert.False(t, was)
}

func TestGuildService_DisableTicket_LeavesOtherModulesAlone(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, mockConfigRepo, _, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	channel := int64(555)
	message := "hi"
	category := int64(42)
	role := int64(9)
	config := &models.GuildConfig{
		GuildID:          100,
		WelcomeChannelID: &channel,
		WelcomeMessage:   &message,
		TicketCategoryID: &category,
		TicketRoleID:     &role,
	}
	mockConfigRepo.On("GetOrCreate", ctx, int64(100)).Return(config, nil)
	mockConfigRepo.On("Update", ctx, mock.MatchedBy(func(c *models.GuildConfig) bool {
		return !c.TicketEnabled() && c.WelcomeEnabled()
	})).Return(nil)

	was, err := svc.DisableTicket(ctx, 100)

	require.NoError(t, err)
	assert.True(t, was)
	mockConfigRepo.AssertExpectations(t)
}

func TestGuildService_AddCustomCommand_NormalizesTrigger(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, mockCmdRepo, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockCmdRepo.On("Create", ctx, mock.MatchedBy(func(c *models.CustomCommand) bool {
		return c.Trigger == "hello" && c.Response == "world"
	})).Return(true, nil)

	created, err := svc.AddCustomCommand(ctx, 100, "  HeLLo ", "world")

	require.NoError(t, err)
	assert.True(t, created)
}

func TestGuildService_AddCustomCommand_DuplicateTrigger(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, mockCmdRepo, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockCmdRepo.On("Create", ctx, mock.Anything).Return(false, nil)

	created, err := svc.AddCustomCommand(ctx, 100, "hello", "again")

	require.NoError(t, err)
	assert.False(t, created)
}

func TestGuildService_RemoveCustomCommand_AbsentIsNotAnError(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, mockCmdRepo, _, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockCmdRepo.On("Delete", ctx, int64(100), "gone").Return(false, nil)

	removed, err := svc.RemoveCustomCommand(ctx, 100, "gone")

	require.NoError(t, err)
	assert.False(t, removed)
}

func TestGuildService_Warn_RequiresReason(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, mockWarnRepo, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	_, err := svc.Warn(ctx, 100, 7, 8, "   ")

	assert.ErrorIs(t, err, models.ErrValidation)
	mockWarnRepo.AssertNotCalled(t, "Add")
}

func TestGuildService_RemoveWarning_ByPosition(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, mockWarnRepo, _ := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockWarnRepo.On("RemoveByPosition", ctx, int64(100), int64(7), 2).Return(true, nil)

	removed, err := svc.RemoveWarning(ctx, 100, 7, 2)

	require.NoError(t, err)
	assert.True(t, removed)
}

func TestGuildService_CountCommand_BumpsBothScopes(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockCountRepo := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockCountRepo.On("Increment", ctx, models.CommandScopeUser, int64(7)).Return(nil)
	mockCountRepo.On("Increment", ctx, models.CommandScopeGuild, int64(100)).Return(nil)

	err := svc.CountCommand(ctx, 100, 7)

	assert.NoError(t, err)
	mockCountRepo.AssertExpectations(t)
}

func TestGuildService_CountCommand_DirectMessageSkipsGuildScope(t *testing.T) {
	ctx := context.Background()
	_, mockFactory, _, _, _, mockCountRepo := newGuildFixture(t)

	svc := NewGuildService(mockFactory)

	mockCountRepo.On("Increment", ctx, models.CommandScopeUser, int64(7)).Return(nil)

	err := svc.CountCommand(ctx, 0, 7)

	assert.NoError(t, err)
	mockCountRepo.AssertNotCalled(t, "Increment", ctx, models.CommandScopeGuild, mock.Anything)
}

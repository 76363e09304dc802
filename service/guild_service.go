package service

import (
	"context"
	"fmt"
	"strings"

	"popcat/models"
)

// GuildService defines the interface for per-guild configuration,
// moderation, and custom commands. Every module's settings are independent;
// disabling one never touches another.
type GuildService interface {
	// Config returns a guild's configuration, creating an all-disabled one
	// on first touch
	Config(ctx context.Context, guildID int64) (*models.GuildConfig, error)

	// SetWelcome enables the welcome module
	SetWelcome(ctx context.Context, guildID, channelID int64, message string) error

	// DisableWelcome disables the welcome module, reporting whether it was
	// enabled
	DisableWelcome(ctx context.Context, guildID int64) (bool, error)

	// SetTicket enables the ticket module
	SetTicket(ctx context.Context, guildID, categoryID, roleID int64) error

	// DisableTicket disables the ticket module, reporting whether it was
	// enabled
	DisableTicket(ctx context.Context, guildID int64) (bool, error)

	// SetSuggestionChannel routes suggestions to a channel
	SetSuggestionChannel(ctx context.Context, guildID, channelID int64) error

	// DisableSuggestions unsets the suggestion channel, reporting whether
	// it was set
	DisableSuggestions(ctx context.Context, guildID int64) (bool, error)

	// SetChatbotChannel routes chatbot replies to a channel
	SetChatbotChannel(ctx context.Context, guildID, channelID int64) error

	// DisableChatbot unsets the chatbot channel, reporting whether it was
	// set
	DisableChatbot(ctx context.Context, guildID int64) (bool, error)

	// AddCustomCommand registers a trigger/response pair, reporting whether
	// the trigger was new
	AddCustomCommand(ctx context.Context, guildID int64, trigger, response string) (bool, error)

	// CustomCommandResponse resolves a trigger, nil result if unknown
	CustomCommandResponse(ctx context.Context, guildID int64, trigger string) (*models.CustomCommand, error)

	// RemoveCustomCommand deletes a trigger, reporting whether it existed
	RemoveCustomCommand(ctx context.Context, guildID int64, trigger string) (bool, error)

	// ListCustomCommands returns all of a guild's triggers
	ListCustomCommands(ctx context.Context, guildID int64) ([]*models.CustomCommand, error)

	// Warn records a moderation warning against a user
	Warn(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*models.Warning, error)

	// Warnings returns a user's warnings in creation order
	Warnings(ctx context.Context, guildID, userID int64) ([]*models.Warning, error)

	// RemoveWarning deletes the Nth warning (1-based), reporting whether
	// one existed at that position
	RemoveWarning(ctx context.Context, guildID, userID int64, position int) (bool, error)

	// CountCommand bumps the per-user and per-guild usage counters
	CountCommand(ctx context.Context, guildID, userID int64) error

	// CommandCount returns the counter for one scope
	CommandCount(ctx context.Context, scope models.CommandScope, scopeID int64) (int64, error)
}

// guildService implements the GuildService interface
type guildService struct {
	uowFactory UnitOfWorkFactory
}

// NewGuildService creates a new guild service.
func NewGuildService(uowFactory UnitOfWorkFactory) GuildService {
	return &guildService{uowFactory: uowFactory}
}

func (s *guildService) Config(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	var config *models.GuildConfig
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		config, err = uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return config, nil
}

// mutateConfig applies fn to the guild's current config and writes it back
// in the same transaction.
func (s *guildService) mutateConfig(ctx context.Context, guildID int64, fn func(c *models.GuildConfig)) error {
	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
		if err != nil {
			return err
		}
		fn(config)
		return uow.GuildConfigRepository().Update(ctx, config)
	})
}

func (s *guildService) SetWelcome(ctx context.Context, guildID, channelID int64, message string) error {
	if message == "" {
		return fmt.Errorf("%w: welcome message is required", models.ErrValidation)
	}
	return s.mutateConfig(ctx, guildID, func(c *models.GuildConfig) {
		c.WelcomeChannelID = &channelID
		c.WelcomeMessage = &message
	})
}

func (s *guildService) DisableWelcome(ctx context.Context, guildID int64) (bool, error) {
	return s.disable(ctx, guildID, func(c *models.GuildConfig) bool {
		was := c.WelcomeEnabled()
		c.WelcomeChannelID = nil
		c.WelcomeMessage = nil
		return was
	})
}

func (s *guildService) SetTicket(ctx context.Context, guildID, categoryID, roleID int64) error {
	return s.mutateConfig(ctx, guildID, func(c *models.GuildConfig) {
		c.TicketCategoryID = &categoryID
		c.TicketRoleID = &roleID
	})
}

func (s *guildService) DisableTicket(ctx context.Context, guildID int64) (bool, error) {
	return s.disable(ctx, guildID, func(c *models.GuildConfig) bool {
		was := c.TicketEnabled()
		c.TicketCategoryID = nil
		c.TicketRoleID = nil
		return was
	})
}

func (s *guildService) SetSuggestionChannel(ctx context.Context, guildID, channelID int64) error {
	return s.mutateConfig(ctx, guildID, func(c *models.GuildConfig) {
		c.SuggestionChannelID = &channelID
	})
}

func (s *guildService) DisableSuggestions(ctx context.Context, guildID int64) (bool, error) {
	return s.disable(ctx, guildID, func(c *models.GuildConfig) bool {
		was := c.SuggestionChannelID != nil
		c.SuggestionChannelID = nil
		return was
	})
}

func (s *guildService) SetChatbotChannel(ctx context.Context, guildID, channelID int64) error {
	return s.mutateConfig(ctx, guildID, func(c *models.GuildConfig) {
		c.ChatbotChannelID = &channelID
	})
}

func (s *guildService) DisableChatbot(ctx context.Context, guildID int64) (bool, error) {
	return s.disable(ctx, guildID, func(c *models.GuildConfig) bool {
		was := c.ChatbotChannelID != nil
		c.ChatbotChannelID = nil
		return was
	})
}

// disable clears a module via fn and reports whether it had been enabled.
// Disabling an already-disabled module is a no-op, not an error.
func (s *guildService) disable(ctx context.Context, guildID int64, fn func(c *models.GuildConfig) bool) (bool, error) {
	var was bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		config, err := uow.GuildConfigRepository().GetOrCreate(ctx, guildID)
		if err != nil {
			return err
		}
		was = fn(config)
		return uow.GuildConfigRepository().Update(ctx, config)
	})
	if err != nil {
		return false, err
	}
	return was, nil
}

func normalizeTrigger(trigger string) string {
	return strings.ToLower(strings.TrimSpace(trigger))
}

func (s *guildService) AddCustomCommand(ctx context.Context, guildID int64, trigger, response string) (bool, error) {
	trigger = normalizeTrigger(trigger)
	if trigger == "" || response == "" {
		return false, fmt.Errorf("%w: trigger and response are required", models.ErrValidation)
	}

	var created bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		created, err = uow.CustomCommandRepository().Create(ctx, &models.CustomCommand{
			GuildID:  guildID,
			Trigger:  trigger,
			Response: response,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *guildService) CustomCommandResponse(ctx context.Context, guildID int64, trigger string) (*models.CustomCommand, error) {
	var cmd *models.CustomCommand
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		cmd, err = uow.CustomCommandRepository().Get(ctx, guildID, normalizeTrigger(trigger))
		return err
	})
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

func (s *guildService) RemoveCustomCommand(ctx context.Context, guildID int64, trigger string) (bool, error) {
	var removed bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		removed, err = uow.CustomCommandRepository().Delete(ctx, guildID, normalizeTrigger(trigger))
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *guildService) ListCustomCommands(ctx context.Context, guildID int64) ([]*models.CustomCommand, error) {
	var cmds []*models.CustomCommand
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		cmds, err = uow.CustomCommandRepository().List(ctx, guildID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cmds, nil
}

func (s *guildService) Warn(ctx context.Context, guildID, userID, moderatorID int64, reason string) (*models.Warning, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a warning needs a reason", models.ErrValidation)
	}

	warning := &models.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
	}
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		return uow.WarningRepository().Add(ctx, warning)
	})
	if err != nil {
		return nil, err
	}
	return warning, nil
}

func (s *guildService) Warnings(ctx context.Context, guildID, userID int64) ([]*models.Warning, error) {
	var warnings []*models.Warning
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		warnings, err = uow.WarningRepository().ListByUser(ctx, guildID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return warnings, nil
}

func (s *guildService) RemoveWarning(ctx context.Context, guildID, userID int64, position int) (bool, error) {
	var removed bool
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		removed, err = uow.WarningRepository().RemoveByPosition(ctx, guildID, userID, position)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *guildService) CountCommand(ctx context.Context, guildID, userID int64) error {
	return runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		if err := uow.CommandCountRepository().Increment(ctx, models.CommandScopeUser, userID); err != nil {
			return err
		}
		if guildID != 0 {
			if err := uow.CommandCountRepository().Increment(ctx, models.CommandScopeGuild, guildID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *guildService) CommandCount(ctx context.Context, scope models.CommandScope, scopeID int64) (int64, error) {
	var count int64
	err := runInTx(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		count, err = uow.CommandCountRepository().Get(ctx, scope, scopeID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

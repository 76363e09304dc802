package bot

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"popcat/bot/common"
	"popcat/bot/features/afk"
	"popcat/bot/features/customcommands"
	"popcat/bot/features/economy"
	"popcat/bot/features/game"
	"popcat/bot/features/moderation"
	"popcat/bot/features/settings"
	"popcat/bot/features/shop"
	"popcat/bot/features/stocks"
	"popcat/bot/features/tickets"
	"popcat/chatbot"
	"popcat/events"
	"popcat/geo"
	"popcat/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	LeaderboardSize int
}

type Bot struct {
	config         Config
	session        *discordgo.Session
	economyService service.EconomyService
	stockService   service.StockService
	gameService    service.GameService
	guildService   service.GuildService
	afkStore       service.AFKStore
	chatClient     *chatbot.Client // nil when the chatbot module is not configured
	eventBus       *events.Bus

	economyFeature        *economy.Feature
	shopFeature           *shop.Feature
	stocksFeature         *stocks.Feature
	gameFeature           *game.Feature
	afkFeature            *afk.Feature
	moderationFeature     *moderation.Feature
	settingsFeature       *settings.Feature
	customCommandsFeature *customcommands.Feature
	ticketsFeature        *tickets.Feature
}

func New(config Config, economyService service.EconomyService, stockService service.StockService, gameService service.GameService, guildService service.GuildService, afkStore service.AFKStore, geoClient *geo.Client, chatClient *chatbot.Client, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	bot := &Bot{
		config:         config,
		session:        dg,
		economyService: economyService,
		stockService:   stockService,
		gameService:    gameService,
		guildService:   guildService,
		afkStore:       afkStore,
		chatClient:     chatClient,
		eventBus:       eventBus,

		economyFeature:        economy.New(economyService, config.LeaderboardSize),
		shopFeature:           shop.New(economyService),
		stocksFeature:         stocks.New(stockService, config.LeaderboardSize),
		gameFeature:           game.New(gameService, geoClient, config.LeaderboardSize),
		afkFeature:            afk.New(afkStore),
		moderationFeature:     moderation.New(guildService),
		settingsFeature:       settings.New(guildService),
		customCommandsFeature: customcommands.New(guildService),
		ticketsFeature:        tickets.New(guildService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register message handlers for AFK markers, custom command triggers,
	// welcomes and suggestion routing
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleGuildMemberAdd)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Rotate the presence line with the active game count
	go bot.startPresenceLoop()

	// Count every handled command against the user and guild scopes
	eventBus.Subscribe(events.EventTypeCommandUsed, func(ctx context.Context, event events.Event) {
		used, ok := event.(events.CommandUsedEvent)
		if !ok {
			return
		}
		if err := bot.guildService.CountCommand(ctx, used.GuildID, used.UserID); err != nil {
			log.Errorf("Failed to count command usage: %v", err)
		}
	})

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	switch name {
	case "open", "balance", "deposit", "withdraw", "daily", "beg", "work", "transfer", "slots", "history", "rich":
		b.economyFeature.HandleCommand(s, i)
	case "shop", "buy", "use", "inventory", "sell", "postmeme":
		b.shopFeature.HandleCommand(s, i)
	case "stocks":
		b.stocksFeature.HandleCommand(s, i)
	case "country":
		b.gameFeature.HandleCommand(s, i)
	case "afk":
		b.afkFeature.HandleCommand(s, i)
	case "warnings":
		b.moderationFeature.HandleCommand(s, i)
	case "settings":
		b.settingsFeature.HandleCommand(s, i)
	case "custom":
		b.customCommandsFeature.HandleCommand(s, i)
	case "ticket":
		b.ticketsFeature.HandleCommand(s, i)
	case "usage":
		b.handleUsage(s, i)
	default:
		return
	}

	userID, err := common.InteractionUserID(i)
	if err != nil {
		return
	}
	b.eventBus.Emit(context.Background(), events.CommandUsedEvent{
		UserID:  userID,
		GuildID: common.InteractionGuildID(i),
		Command: name,
	})
}

// startPresenceLoop refreshes the status line with the number of games in
// flight
func (b *Bot) startPresenceLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		users, err := b.gameService.ActiveUsers(ctx)
		cancel()
		if err != nil {
			log.Warnf("Failed to count active games: %v", err)
			continue
		}

		status := "pop pop pop"
		if len(users) > 0 {
			status = fmt.Sprintf("%d country game(s)", len(users))
		}
		if err := b.session.UpdateGameStatus(0, status); err != nil {
			log.Warnf("Failed to update presence: %v", err)
		}
	}
}

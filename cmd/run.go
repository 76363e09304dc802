package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"popcat/bot"
	"popcat/cache"
	"popcat/chatbot"
	"popcat/config"
	"popcat/database"
	"popcat/events"
	"popcat/geo"
	"popcat/quotes"
	"popcat/repository"
	"popcat/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting pop cat bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize redis for cooldowns, game sessions and AFK markers
	log.Info("Connecting to redis...")
	cacheClient, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Redis connection established successfully")

	cooldownStore := cache.NewCooldownStore(cacheClient)
	sessionStore := cache.NewSessionStore(cacheClient)
	afkStore := cache.NewAFKStore(cacheClient)

	httpClient := &http.Client{Timeout: 10 * time.Second}

	// Load the country catalog once; the game cannot run without it
	log.Info("Loading country catalog...")
	geoClient := geo.NewClient(cfg.CountryAPIBaseURL, httpClient)
	catalog, err := geoClient.LoadCatalog(ctx)
	if err != nil {
		cacheClient.Close()
		db.Close()
		return fmt.Errorf("failed to load country catalog: %w", err)
	}
	log.Infof("Country catalog loaded with %d countries", catalog.Len())

	quoteClient := quotes.NewClient(cfg.QuoteAPIBaseURL, httpClient)

	// The chat relay stays dormant unless credentials were configured
	var chatClient *chatbot.Client
	if cfg.ChatbotConfigured() {
		chatClient = chatbot.NewClient(cfg.ChatbotAPIBaseURL, cfg.ChatbotBrainID, cfg.ChatbotAPIKey, httpClient)
		log.Info("Chatbot relay enabled")
	}

	// Initialize event bus
	log.Info("Initializing event bus...")
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Info("Initializing services...")
	economyService := service.NewEconomyService(uowFactory, cooldownStore, cfg.InitialPocket)
	stockService := service.NewStockService(uowFactory, quoteClient)
	gameService := service.NewGameService(uowFactory, sessionStore, catalog)
	guildService := service.NewGuildService(uowFactory)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.DiscordGuildID,
		LeaderboardSize: cfg.LeaderboardSize,
	}
	discordBot, err := bot.New(botConfig, economyService, stockService, gameService, guildService, afkStore, geoClient, chatClient, eventBus)
	if err != nil {
		cacheClient.Close()
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close storage connections
	log.Info("Closing storage connections...")
	if err := cacheClient.Close(); err != nil {
		log.Errorf("Error closing redis client: %v", err)
	}
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

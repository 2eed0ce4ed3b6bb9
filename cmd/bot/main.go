package main

import (
	"github.com/xaenox/calendar-bot/internal/assistant"
	"github.com/xaenox/calendar-bot/internal/bot"
	"github.com/xaenox/calendar-bot/internal/calendar"
	"github.com/xaenox/calendar-bot/internal/parser"
	"github.com/xaenox/calendar-bot/internal/profile"
	"github.com/xaenox/calendar-bot/internal/storage"
	"github.com/xaenox/calendar-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize calendar gateway
	var gateway calendar.Gateway
	switch cfg.Calendar.Provider {
	case "memory":
		logger.Info("Using in-memory calendar")
		gateway = calendar.NewMemoryGateway()
	default:
		logger.Info("Using ICS file calendar", zap.String("path", cfg.Calendar.ICSPath))
		gateway = calendar.NewICSGateway(cfg.Calendar.ICSPath, logger)
	}

	// Initialize the conversational core
	profiles := profile.NewStore(store, logger)
	p := parser.New(cfg.Assistant.ResolveWeekdays)
	asst := assistant.New(profiles, gateway, p, logger)

	// Initialize bot
	b, err := bot.New(cfg.Telegram.Token, asst, gateway, logger)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Start the bot
	if err := b.Start(); err != nil {
		logger.Fatal("Bot error", zap.Error(err))
	}
}

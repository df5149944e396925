// Package main is the entry point for the Tài Xỉu betting bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"taixiu-game-bot/internal/bot"
	"taixiu-game-bot/internal/config"
	"taixiu-game-bot/internal/game"
	"taixiu-game-bot/internal/game/chanle"
	"taixiu-game-bot/internal/game/doanso"
	"taixiu-game-bot/internal/game/slot"
	"taixiu-game-bot/internal/game/taixiu"
	"taixiu-game-bot/internal/ledger"
	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/pkg/db"
	"taixiu-game-bot/internal/pkg/lock"
	"taixiu-game-bot/internal/repository"
	"taixiu-game-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	potRepo := repository.NewPotRepository(dbPool.Pool)

	// Initialize the ledger and the per-user lock
	ldg := ledger.NewPostgresLedger(userRepo, txRepo, potRepo)
	userLock := lock.NewUserLock()

	// Initialize services
	accountService := service.NewAccountService(
		userRepo,
		txRepo,
		userLock,
		cfg.Account.InitialBalance,
		cfg.Account.DailyBonus,
	)

	// Initialize game registry and register games
	gameRegistry := game.NewRegistry()

	games := []game.Game{
		taixiu.New(&taixiu.Config{
			MinBet:     cfg.Games.TaiXiu.MinBet,
			MaxBet:     cfg.Games.TaiXiu.MaxBet,
			Multiplier: cfg.Games.TaiXiu.Multiplier,
		}),
		chanle.New(&chanle.Config{
			MinBet:     cfg.Games.ChanLe.MinBet,
			MaxBet:     cfg.Games.ChanLe.MaxBet,
			Multiplier: cfg.Games.ChanLe.Multiplier,
		}),
		doanso.New(&doanso.Config{
			MinBet:     cfg.Games.DoanSo.MinBet,
			MaxBet:     cfg.Games.DoanSo.MaxBet,
			Multiplier: cfg.Games.DoanSo.Multiplier,
		}),
		slot.New(&slot.Config{
			MinBet:              cfg.Games.Slot.MinBet,
			MaxBet:              cfg.Games.Slot.MaxBet,
			MultiplierTwoSame:   cfg.Games.Slot.MultiplierTwoSame,
			MultiplierThreeSame: cfg.Games.Slot.MultiplierThreeSame,
			MultiplierJackpot:   cfg.Games.Slot.MultiplierJackpot,
		}),
	}
	for _, g := range games {
		if err := gameRegistry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Command()).Msg("Failed to register game")
		}
	}

	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	gameService := service.NewGameService(gameRegistry, ldg, userLock, cfg.Games.PotContributionRate)

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		GameService:    gameService,
		Ledger:         ldg,
		AppCtx:         ctx,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	cancel()
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			total_bet BIGINT NOT NULL DEFAULT 0,
			last_checkin VARCHAR(10) NOT NULL DEFAULT '',
			banned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: transactions table created")

	// Migration 3: Create pots table and seed the game pots
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS pots (
			name VARCHAR(50) PRIMARY KEY,
			amount BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	for _, name := range []string{model.PotTaiXiu, model.PotChanLe, model.PotDoanSo, model.PotSlot} {
		_, err = pool.Exec(ctx, `
			INSERT INTO pots (name, amount, updated_at)
			VALUES ($1, 100000, NOW())
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			return err
		}
	}
	log.Info().Msg("Migration 3: pots table created and seeded")

	log.Info().Msg("All migrations completed successfully")
	return nil
}

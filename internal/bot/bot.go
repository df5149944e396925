package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/config"
	"taixiu-game-bot/internal/handler"
	"taixiu-game-bot/internal/ledger"
	"taixiu-game-bot/internal/model"
	"taixiu-game-bot/internal/room"
	"taixiu-game-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot      *tele.Bot
	cfg      *config.Config
	notifier *TelegramNotifier
	rooms    *room.Manager

	accountHandler *handler.AccountHandler
	gameHandler    *handler.GameHandler
	roomHandler    *handler.RoomHandler
	potHandler     *handler.PotHandler
	adminHandler   *handler.AdminHandler
}

// Dependencies holds everything the bot needs.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	GameService    *service.GameService
	Ledger         ledger.Ledger

	// AppCtx bounds the lifetime of room countdown goroutines.
	AppCtx context.Context
}

// New creates a new Bot instance with the given dependencies. The room
// manager is built here because its notifier needs the live telebot
// connection.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	notifier := NewTelegramNotifier(teleBot)
	rooms := room.NewManager(roomConfig(deps.Config), deps.Ledger, notifier)

	b := &Bot{
		bot:      teleBot,
		cfg:      deps.Config,
		notifier: notifier,
		rooms:    rooms,
	}

	b.accountHandler = handler.NewAccountHandler(deps.AccountService)
	b.gameHandler = handler.NewGameHandler(deps.GameService)
	b.roomHandler = handler.NewRoomHandler(rooms, deps.AppCtx)
	b.potHandler = handler.NewPotHandler(deps.Ledger)
	b.adminHandler = handler.NewAdminHandler(deps.AccountService)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// roomConfig maps the application config onto the room's rules.
func roomConfig(cfg *config.Config) room.Config {
	return room.Config{
		MinBet:              cfg.Room.MinBet,
		MaxBet:              cfg.Room.MaxBet,
		MultiplierHighLow:   cfg.Room.MultiplierHighLow,
		MultiplierEvenOdd:   cfg.Room.MultiplierEvenOdd,
		CountdownSeconds:    cfg.Room.CountdownSeconds,
		CooldownSeconds:     cfg.Room.CooldownSeconds,
		PotContributionRate: cfg.Room.PotContributionRate,
		HistoryCapacity:     cfg.Room.HistoryCapacity,
		AutoRestart:         cfg.Room.AutoRestart,
		PotName:             model.PotTaiXiu,
	}
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg))
	b.bot.Use(LoggingMiddleware())
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Account commands
	b.bot.Handle("/start", b.accountHandler.HandleRegister)
	b.bot.Handle("/register", b.accountHandler.HandleRegister)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/daily", b.accountHandler.HandleDaily)
	b.bot.Handle("/history", b.accountHandler.HandleHistory)
	b.bot.Handle("/top", b.accountHandler.HandleTop)
	b.bot.Handle("/pot", b.potHandler.HandlePot)

	// Instant games
	b.bot.Handle("/taixiu", b.gameHandler.HandleTaiXiu)
	b.bot.Handle("/chanle", b.gameHandler.HandleChanLe)
	b.bot.Handle("/doanso", b.gameHandler.HandleDoanSo)
	b.bot.Handle("/slot", b.gameHandler.HandleSlot)

	// Betting room
	b.bot.Handle("/txroom", b.roomHandler.HandleRoomStart)
	b.bot.Handle("/tx", b.roomHandler.HandleBet)
	b.bot.Handle("/txinfo", b.roomHandler.HandleRoomInfo)

	// Admin commands
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_add", b.adminHandler.HandleAdminAdd)
	adminGroup.Handle("/admin_sub", b.adminHandler.HandleAdminSub)
	adminGroup.Handle("/admin_set", b.adminHandler.HandleAdminSet)
	adminGroup.Handle("/admin_ban", b.adminHandler.HandleAdminBan)
	adminGroup.Handle("/admin_unban", b.adminHandler.HandleAdminUnban)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes inline button callbacks.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	// Telebot v3 may add a \f prefix to callback data.
	data := strings.TrimPrefix(callback.Data, "\f")
	if i := strings.IndexByte(data, '|'); i >= 0 {
		data = data[:i]
	}

	if data == StartRoundCallback {
		return b.roomHandler.HandleStartCallback(c)
	}

	return c.Respond()
}

// Rooms returns the room manager.
func (b *Bot) Rooms() *room.Manager {
	return b.rooms
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

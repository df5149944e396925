// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Whitelist WhitelistConfig `mapstructure:"whitelist"`
	Account   AccountConfig   `mapstructure:"account"`
	Room      RoomConfig      `mapstructure:"room"`
	Games     GamesConfig     `mapstructure:"games"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token string `mapstructure:"token"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// AdminConfig holds admin user configuration.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// WhitelistConfig holds chat whitelist configuration.
type WhitelistConfig struct {
	Chats []int64 `mapstructure:"chats"`
}

// AccountConfig holds registration and daily bonus configuration.
type AccountConfig struct {
	InitialBalance int64 `mapstructure:"initial_balance"`
	DailyBonus     int64 `mapstructure:"daily_bonus"`
}

// RoomConfig holds the multiplayer betting room configuration.
type RoomConfig struct {
	MinBet              int64   `mapstructure:"min_bet"`
	MaxBet              int64   `mapstructure:"max_bet"`
	MultiplierHighLow   float64 `mapstructure:"multiplier_taixiu"`
	MultiplierEvenOdd   float64 `mapstructure:"multiplier_chanle"`
	CountdownSeconds    int     `mapstructure:"countdown_seconds"`
	CooldownSeconds     int     `mapstructure:"cooldown_seconds"`
	PotContributionRate float64 `mapstructure:"pot_contribution_rate"`
	HistoryCapacity     int     `mapstructure:"history_capacity"`
	AutoRestart         bool    `mapstructure:"auto_restart"`
}

// GamesConfig holds instant game configuration.
type GamesConfig struct {
	TaiXiu BetRangeConfig `mapstructure:"taixiu"`
	ChanLe BetRangeConfig `mapstructure:"chanle"`
	DoanSo BetRangeConfig `mapstructure:"doanso"`
	Slot   SlotConfig     `mapstructure:"slot"`

	PotContributionRate float64 `mapstructure:"pot_contribution_rate"`
}

// BetRangeConfig holds min/max bet bounds and the win multiplier
// for a single-outcome instant game.
type BetRangeConfig struct {
	MinBet     int64   `mapstructure:"min_bet"`
	MaxBet     int64   `mapstructure:"max_bet"`
	Multiplier float64 `mapstructure:"multiplier"`
}

// SlotConfig holds slot machine configuration.
type SlotConfig struct {
	MinBet              int64   `mapstructure:"min_bet"`
	MaxBet              int64   `mapstructure:"max_bet"`
	MultiplierTwoSame   float64 `mapstructure:"multiplier_two_same"`
	MultiplierThreeSame float64 `mapstructure:"multiplier_three_same"`
	MultiplierJackpot   float64 `mapstructure:"multiplier_jackpot"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase,
	// e.g. BOT_TOKEN, DATABASE_HOST, ROOM_MIN_BET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - env vars can provide all config
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "taixiubot")
	v.SetDefault("database.name", "taixiubot")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Account defaults
	v.SetDefault("account.initial_balance", 10000)
	v.SetDefault("account.daily_bonus", 1000)

	// Room defaults
	v.SetDefault("room.min_bet", 5000)
	v.SetDefault("room.max_bet", 1000000)
	v.SetDefault("room.multiplier_taixiu", 1.95)
	v.SetDefault("room.multiplier_chanle", 1.90)
	v.SetDefault("room.countdown_seconds", 60)
	v.SetDefault("room.cooldown_seconds", 10)
	v.SetDefault("room.pot_contribution_rate", 0.05)
	v.SetDefault("room.history_capacity", 20)
	v.SetDefault("room.auto_restart", false)

	// Instant game defaults
	v.SetDefault("games.pot_contribution_rate", 0.05)
	v.SetDefault("games.taixiu.min_bet", 10000)
	v.SetDefault("games.taixiu.max_bet", 1000000)
	v.SetDefault("games.taixiu.multiplier", 1.8)
	v.SetDefault("games.chanle.min_bet", 10000)
	v.SetDefault("games.chanle.max_bet", 1000000)
	v.SetDefault("games.chanle.multiplier", 1.9)
	v.SetDefault("games.doanso.min_bet", 10000)
	v.SetDefault("games.doanso.max_bet", 500000)
	v.SetDefault("games.doanso.multiplier", 7)
	v.SetDefault("games.slot.min_bet", 10000)
	v.SetDefault("games.slot.max_bet", 500000)
	v.SetDefault("games.slot.multiplier_two_same", 1.5)
	v.SetDefault("games.slot.multiplier_three_same", 5)
	v.SetDefault("games.slot.multiplier_jackpot", 10)
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsChatAllowed checks if a chat ID is in the whitelist.
func (c *Config) IsChatAllowed(chatID int64) bool {
	// Empty whitelist means all chats are allowed
	if len(c.Whitelist.Chats) == 0 {
		return true
	}
	for _, id := range c.Whitelist.Chats {
		if id == chatID {
			return true
		}
	}
	return false
}

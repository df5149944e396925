// Package doanso implements the instant Đoán Số guessing game.
// A number from 1 to 10 is drawn; the player wins 7x by guessing it.
package doanso

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"taixiu-game-bot/internal/game"
	"taixiu-game-bot/internal/model"
)

const (
	// DefaultMinBet is the minimum allowed bet.
	DefaultMinBet = 10000

	// DefaultMaxBet is the maximum allowed bet.
	DefaultMaxBet = 500000

	// DefaultMultiplier is the win multiplier.
	DefaultMultiplier = 7
)

// Errors for the Đoán Số game.
var (
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrBetTooLow     = errors.New("bet is below minimum")
	ErrBetTooHigh    = errors.New("bet exceeds maximum allowed")
	ErrInvalidGuess  = errors.New("guess must be between 1 and 10")
	ErrInvalidNumber = errors.New("number must be between 1 and 10")
)

// DoanSoGame implements the Game interface for number guessing.
type DoanSoGame struct {
	minBet     int64
	maxBet     int64
	multiplier float64
}

// Config holds configuration for the game.
type Config struct {
	MinBet     int64
	MaxBet     int64
	Multiplier float64
}

// New creates a new DoanSoGame with the given configuration.
func New(cfg *Config) *DoanSoGame {
	g := &DoanSoGame{
		minBet:     DefaultMinBet,
		maxBet:     DefaultMaxBet,
		multiplier: DefaultMultiplier,
	}
	if cfg != nil {
		if cfg.MinBet > 0 {
			g.minBet = cfg.MinBet
		}
		if cfg.MaxBet > 0 {
			g.maxBet = cfg.MaxBet
		}
		if cfg.Multiplier > 0 {
			g.multiplier = cfg.Multiplier
		}
	}
	return g
}

// Name returns the game's display name.
func (g *DoanSoGame) Name() string {
	return "Đoán Số"
}

// Command returns the command that triggers this game.
func (g *DoanSoGame) Command() string {
	return "doanso"
}

// Description returns a brief description of the game.
func (g *DoanSoGame) Description() string {
	return "Đoán số từ 1 đến 10, đoán đúng thắng x7"
}

// MinBet returns the minimum allowed bet.
func (g *DoanSoGame) MinBet() int64 {
	return g.minBet
}

// MaxBet returns the maximum allowed bet.
func (g *DoanSoGame) MaxBet() int64 {
	return g.maxBet
}

// PotName returns the shared pot this game feeds.
func (g *DoanSoGame) PotName() string {
	return model.PotDoanSo
}

// ValidateBet checks the bet amount and the guess.
func (g *DoanSoGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet < g.minBet {
		return fmt.Errorf("%w: min bet is %d", ErrBetTooLow, g.minBet)
	}
	if bet > g.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, g.maxBet)
	}
	guess, ok := game.ExtractInt(params, "guess")
	if !ok || guess < 1 || guess > 10 {
		return ErrInvalidGuess
	}
	return nil
}

// Play draws a number and settles the player's guess.
func (g *DoanSoGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	guess, _ := game.ExtractInt(params, "guess")

	number, err := drawNumber(params)
	if err != nil {
		return nil, err
	}

	win := guess == number
	var winAmount int64
	if win {
		winAmount = int64(float64(bet) * g.multiplier)
	}

	var description string
	if win {
		description = fmt.Sprintf("🔮 Số may mắn: %d\n🎉 Đoán trúng! Bạn thắng %d đ!", number, winAmount)
	} else {
		description = fmt.Sprintf("🔮 Số may mắn: %d (bạn đoán %d)\n😢 Bạn thua %d đ.", number, guess, bet)
	}

	return &game.GameResult{
		Win:         win,
		WinAmount:   winAmount,
		Description: description,
		Details: map[string]any{
			"number": number,
			"guess":  guess,
			"bet":    bet,
		},
	}, nil
}

// drawNumber draws 1..10, or uses the value supplied in params.
func drawNumber(params map[string]any) (int, error) {
	if n, ok := game.ExtractInt(params, "number"); ok {
		if n < 1 || n > 10 {
			return 0, ErrInvalidNumber
		}
		return n, nil
	}
	return rand.Intn(10) + 1, nil
}

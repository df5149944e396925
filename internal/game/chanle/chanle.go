// Package chanle implements the instant Chẵn Lẻ game.
// A number from 1 to 100 is drawn; the player bets on it being even
// (chẵn) or odd (lẻ).
package chanle

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
	DefaultMaxBet = 1000000

	// DefaultMultiplier is the win multiplier.
	DefaultMultiplier = 1.9
)

// Errors for the Chẵn Lẻ game.
var (
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrBetTooLow     = errors.New("bet is below minimum")
	ErrBetTooHigh    = errors.New("bet exceeds maximum allowed")
	ErrMissingChoice = errors.New("choice must be chan or le")
	ErrInvalidNumber = errors.New("number must be between 1 and 100")
)

// ChanLeGame implements the Game interface for Chẵn Lẻ.
type ChanLeGame struct {
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

// New creates a new ChanLeGame with the given configuration.
func New(cfg *Config) *ChanLeGame {
	g := &ChanLeGame{
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
func (g *ChanLeGame) Name() string {
	return "Chẵn Lẻ"
}

// Command returns the command that triggers this game.
func (g *ChanLeGame) Command() string {
	return "chanle"
}

// Description returns a brief description of the game.
func (g *ChanLeGame) Description() string {
	return "Quay số 1-100, đoán Chẵn hoặc Lẻ, thắng x1.9"
}

// MinBet returns the minimum allowed bet.
func (g *ChanLeGame) MinBet() int64 {
	return g.minBet
}

// MaxBet returns the maximum allowed bet.
func (g *ChanLeGame) MaxBet() int64 {
	return g.maxBet
}

// PotName returns the shared pot this game feeds.
func (g *ChanLeGame) PotName() string {
	return model.PotChanLe
}

// ValidateBet checks the bet amount and the chan/le choice.
func (g *ChanLeGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet < g.minBet {
		return fmt.Errorf("%w: min bet is %d", ErrBetTooLow, g.minBet)
	}
	if bet > g.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, g.maxBet)
	}
	choice, ok := game.ExtractString(params, "choice")
	if !ok || (choice != "chan" && choice != "le") {
		return ErrMissingChoice
	}
	return nil
}

// Play draws a number and settles the player's choice.
func (g *ChanLeGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	choice, _ := game.ExtractString(params, "choice")

	number, err := drawNumber(params)
	if err != nil {
		return nil, err
	}
	isEven := number%2 == 0

	win := (choice == "chan") == isEven
	var winAmount int64
	if win {
		winAmount = int64(float64(bet) * g.multiplier)
	}

	outcome := "Lẻ"
	if isEven {
		outcome = "Chẵn"
	}

	var description string
	if win {
		description = fmt.Sprintf("🔢 Số %d (%s)\n🎉 Bạn thắng %d đ!", number, outcome, winAmount)
	} else {
		description = fmt.Sprintf("🔢 Số %d (%s)\n😢 Bạn thua %d đ.", number, outcome, bet)
	}

	return &game.GameResult{
		Win:         win,
		WinAmount:   winAmount,
		Description: description,
		Details: map[string]any{
			"number": number,
			"choice": choice,
			"bet":    bet,
		},
	}, nil
}

// drawNumber draws 1..100, or uses the value supplied in params.
func drawNumber(params map[string]any) (int, error) {
	if n, ok := game.ExtractInt(params, "number"); ok {
		if n < 1 || n > 100 {
			return 0, ErrInvalidNumber
		}
		return n, nil
	}
	return rand.Intn(100) + 1, nil
}

// Package taixiu implements the instant Tài Xỉu dice game.
// Three dice are rolled; the player bets on the sum being high (Tài,
// over 10) or low (Xỉu, 10 or under).
package taixiu

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
	DefaultMultiplier = 1.8
)

// Errors for the Tài Xỉu game.
var (
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrBetTooLow     = errors.New("bet is below minimum")
	ErrBetTooHigh    = errors.New("bet exceeds maximum allowed")
	ErrMissingChoice = errors.New("choice must be tai or xiu")
	ErrInvalidDice   = errors.New("dice values must be between 1 and 6")
)

// TaiXiuGame implements the Game interface for instant Tài Xỉu.
type TaiXiuGame struct {
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

// New creates a new TaiXiuGame with the given configuration.
func New(cfg *Config) *TaiXiuGame {
	g := &TaiXiuGame{
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
func (g *TaiXiuGame) Name() string {
	return "Tài Xỉu"
}

// Command returns the command that triggers this game.
func (g *TaiXiuGame) Command() string {
	return "taixiu"
}

// Description returns a brief description of the game.
func (g *TaiXiuGame) Description() string {
	return "Lắc 3 xúc xắc, đoán Tài (trên 10) hoặc Xỉu (từ 10 trở xuống), thắng x1.8"
}

// MinBet returns the minimum allowed bet.
func (g *TaiXiuGame) MinBet() int64 {
	return g.minBet
}

// MaxBet returns the maximum allowed bet.
func (g *TaiXiuGame) MaxBet() int64 {
	return g.maxBet
}

// PotName returns the shared pot this game feeds.
func (g *TaiXiuGame) PotName() string {
	return model.PotTaiXiu
}

// ValidateBet checks the bet amount and the tai/xiu choice.
func (g *TaiXiuGame) ValidateBet(bet int64, params map[string]any) error {
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
	if !ok || (choice != "tai" && choice != "xiu") {
		return ErrMissingChoice
	}
	return nil
}

// Play rolls three dice and settles the player's choice.
func (g *TaiXiuGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}
	choice, _ := game.ExtractString(params, "choice")

	dice, err := rollDice(params)
	if err != nil {
		return nil, err
	}
	sum := dice[0] + dice[1] + dice[2]
	isHigh := sum > 10

	win := (choice == "tai") == isHigh
	var winAmount int64
	if win {
		winAmount = int64(float64(bet) * g.multiplier)
	}

	outcome := "Xỉu"
	if isHigh {
		outcome = "Tài"
	}

	var description string
	if win {
		description = fmt.Sprintf("🎲 %d - %d - %d = %d (%s)\n🎉 Bạn thắng %d đ!",
			dice[0], dice[1], dice[2], sum, outcome, winAmount)
	} else {
		description = fmt.Sprintf("🎲 %d - %d - %d = %d (%s)\n😢 Bạn thua %d đ.",
			dice[0], dice[1], dice[2], sum, outcome, bet)
	}

	return &game.GameResult{
		Win:         win,
		WinAmount:   winAmount,
		Description: description,
		Details: map[string]any{
			"dice":   []int{dice[0], dice[1], dice[2]},
			"sum":    sum,
			"choice": choice,
			"bet":    bet,
		},
	}, nil
}

// rollDice rolls three dice, or uses the values supplied in params.
func rollDice(params map[string]any) ([3]int, error) {
	var dice [3]int
	if vals, ok := game.ExtractInts(params, "dice"); ok {
		if len(vals) != 3 {
			return dice, ErrInvalidDice
		}
		for i, v := range vals {
			if v < 1 || v > 6 {
				return dice, ErrInvalidDice
			}
			dice[i] = v
		}
		return dice, nil
	}
	for i := range dice {
		dice[i] = rand.Intn(6) + 1
	}
	return dice, nil
}

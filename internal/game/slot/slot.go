// Package slot implements the slot machine game.
// Three reels spin over seven symbols; two matching symbols pay 1.5x,
// three matching pay 5x, and three 7️⃣ pay the 10x jackpot.
package slot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"taixiu-game-bot/internal/game"
	"taixiu-game-bot/internal/model"
)

const (
	// DefaultMinBet is the minimum allowed bet.
	DefaultMinBet = 10000

	// DefaultMaxBet is the maximum allowed bet.
	DefaultMaxBet = 500000

	// DefaultMultiplierTwoSame pays for two matching symbols.
	DefaultMultiplierTwoSame = 1.5

	// DefaultMultiplierThreeSame pays for three matching symbols.
	DefaultMultiplierThreeSame = 5

	// DefaultMultiplierJackpot pays for three jackpot symbols.
	DefaultMultiplierJackpot = 10
)

// Symbols are the reel faces. The last entry is the jackpot symbol.
var Symbols = []string{"🍒", "🍋", "🍊", "🍉", "⭐", "💎", "7️⃣"}

// jackpotIndex is the position of the jackpot symbol in Symbols.
const jackpotIndex = 6

// Errors for the slot machine.
var (
	ErrInvalidBet   = errors.New("bet amount must be positive")
	ErrBetTooLow    = errors.New("bet is below minimum")
	ErrBetTooHigh   = errors.New("bet exceeds maximum allowed")
	ErrInvalidReels = errors.New("reel values must index the symbol table")
)

// SlotGame implements the Game interface for the slot machine.
type SlotGame struct {
	minBet              int64
	maxBet              int64
	multiplierTwoSame   float64
	multiplierThreeSame float64
	multiplierJackpot   float64
}

// Config holds configuration for the slot machine.
type Config struct {
	MinBet              int64
	MaxBet              int64
	MultiplierTwoSame   float64
	MultiplierThreeSame float64
	MultiplierJackpot   float64
}

// New creates a new SlotGame with the given configuration.
func New(cfg *Config) *SlotGame {
	g := &SlotGame{
		minBet:              DefaultMinBet,
		maxBet:              DefaultMaxBet,
		multiplierTwoSame:   DefaultMultiplierTwoSame,
		multiplierThreeSame: DefaultMultiplierThreeSame,
		multiplierJackpot:   DefaultMultiplierJackpot,
	}
	if cfg != nil {
		if cfg.MinBet > 0 {
			g.minBet = cfg.MinBet
		}
		if cfg.MaxBet > 0 {
			g.maxBet = cfg.MaxBet
		}
		if cfg.MultiplierTwoSame > 0 {
			g.multiplierTwoSame = cfg.MultiplierTwoSame
		}
		if cfg.MultiplierThreeSame > 0 {
			g.multiplierThreeSame = cfg.MultiplierThreeSame
		}
		if cfg.MultiplierJackpot > 0 {
			g.multiplierJackpot = cfg.MultiplierJackpot
		}
	}
	return g
}

// Name returns the game's display name.
func (g *SlotGame) Name() string {
	return "Slot Machine"
}

// Command returns the command that triggers this game.
func (g *SlotGame) Command() string {
	return "slot"
}

// Description returns a brief description of the game.
func (g *SlotGame) Description() string {
	return "Quay 3 ô, 2 ô giống x1.5, 3 ô giống x5, ba 7️⃣ nổ hũ x10"
}

// MinBet returns the minimum allowed bet.
func (g *SlotGame) MinBet() int64 {
	return g.minBet
}

// MaxBet returns the maximum allowed bet.
func (g *SlotGame) MaxBet() int64 {
	return g.maxBet
}

// PotName returns the shared pot this game feeds.
func (g *SlotGame) PotName() string {
	return model.PotSlot
}

// ValidateBet checks the bet amount.
func (g *SlotGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet < g.minBet {
		return fmt.Errorf("%w: min bet is %d", ErrBetTooLow, g.minBet)
	}
	if bet > g.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, g.maxBet)
	}
	return nil
}

// Play spins the reels and computes the payout.
func (g *SlotGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.GameResult, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	reels, err := spinReels(params)
	if err != nil {
		return nil, err
	}

	multiplier, label := g.payout(reels)
	win := multiplier > 0
	var winAmount int64
	if win {
		winAmount = int64(float64(bet) * multiplier)
	}

	display := fmt.Sprintf("[ %s | %s | %s ]",
		Symbols[reels[0]], Symbols[reels[1]], Symbols[reels[2]])

	var description string
	if win {
		description = fmt.Sprintf("🎰 %s\n%s Bạn thắng %d đ!", display, label, winAmount)
	} else {
		description = fmt.Sprintf("🎰 %s\n😢 Bạn thua %d đ.", display, bet)
	}

	return &game.GameResult{
		Win:         win,
		WinAmount:   winAmount,
		Description: description,
		Details: map[string]any{
			"reels":   []int{reels[0], reels[1], reels[2]},
			"symbols": strings.Join([]string{Symbols[reels[0]], Symbols[reels[1]], Symbols[reels[2]]}, ""),
			"bet":     bet,
		},
	}, nil
}

// payout returns the win multiplier and a result label for the reels.
// Returns 0 for a losing spin.
func (g *SlotGame) payout(reels [3]int) (float64, string) {
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == jackpotIndex {
			return g.multiplierJackpot, "💥 NỔ HŨ!"
		}
		return g.multiplierThreeSame, "🎊 Ba ô giống nhau!"
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return g.multiplierTwoSame, "🎉 Hai ô giống nhau!"
	}
	return 0, ""
}

// spinReels spins three reels, or uses the indices supplied in params.
func spinReels(params map[string]any) ([3]int, error) {
	var reels [3]int
	if vals, ok := game.ExtractInts(params, "reels"); ok {
		if len(vals) != 3 {
			return reels, ErrInvalidReels
		}
		for i, v := range vals {
			if v < 0 || v >= len(Symbols) {
				return reels, ErrInvalidReels
			}
			reels[i] = v
		}
		return reels, nil
	}
	for i := range reels {
		reels[i] = rand.Intn(len(Symbols))
	}
	return reels, nil
}

// Package game defines the common interface and registry for the
// instant games. Each game is a single synchronous play: validate,
// roll, compute win or loss. Balance changes are handled by the
// service layer, not the games themselves.
package game

import "context"

// GameResult represents the outcome of a single play.
type GameResult struct {
	Win         bool           // whether the play won
	WinAmount   int64          // gross winnings to credit, 0 on a loss
	Description string         // human-readable result description
	Details     map[string]any // game-specific details (dice, symbols, ...)
}

// Game defines the interface every instant game implements. Adding a
// game means implementing this interface and registering it.
type Game interface {
	// Name returns the game's display name (e.g. "Tài Xỉu").
	Name() string

	// Command returns the command that triggers this game (e.g. "taixiu").
	Command() string

	// Description returns a brief description of the game.
	Description() string

	// Play executes one round. The outcome is rolled internally;
	// params may carry the player's choice (bet category, guessed
	// number) and tests may override the roll through params.
	Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*GameResult, error)

	// ValidateBet checks the bet amount and parameters.
	// Returns nil if valid, or an error describing the failure.
	ValidateBet(bet int64, params map[string]any) error

	// MinBet returns the minimum allowed bet for this game.
	MinBet() int64

	// MaxBet returns the maximum allowed bet for this game.
	MaxBet() int64

	// PotName returns the shared pot this game feeds.
	PotName() string
}

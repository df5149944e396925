package room

import "errors"

// Errors returned by room operations. All are user-correctable and
// surfaced to the bettor by the handler layer.
var (
	ErrRoomNotAccepting    = errors.New("room is not accepting bets")
	ErrRoundInProgress     = errors.New("a round is already in progress")
	ErrUnknownUser         = errors.New("user is not registered")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("bet amount out of range")
	ErrInvalidCategory     = errors.New("invalid bet category")
)

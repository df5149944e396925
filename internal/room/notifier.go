package room

// Notifier delivers room messages. All calls are best-effort and
// fire-and-forget: implementations log failures and never return them,
// so delivery problems cannot block or roll back settlement.
type Notifier interface {
	// PublishStatus updates the venue's live status panel, editing the
	// previous panel in place when the transport supports it.
	PublishStatus(venueID int64, text string)

	// Announce sends a standalone message to the venue (countdown
	// warnings, lock and result announcements).
	Announce(venueID int64, text string)

	// PromptNewRound sends a message with a "start new round" action
	// attached, shown when a round ends without auto-restart.
	PromptNewRound(venueID int64, text string)

	// NotifyUser sends a private win/loss notice to one bettor.
	NotifyUser(userID int64, text string)
}

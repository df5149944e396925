package bot

import (
	"sync"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// StartRoundCallback is the callback data on the "start new round"
// button attached to PromptNewRound messages.
const StartRoundCallback = "start_taixiu_room"

// TelegramNotifier delivers room messages over telebot. Every call is
// fire-and-forget: delivery runs in its own goroutine and failures are
// logged, never returned, so the room's settlement path can never be
// blocked or rolled back by the transport.
type TelegramNotifier struct {
	bot *tele.Bot

	// panels holds the last status message per venue so the display
	// can be edited in place instead of flooding the chat.
	mu     sync.Mutex
	panels map[int64]*tele.Message
}

// NewTelegramNotifier creates a notifier over the given bot.
func NewTelegramNotifier(b *tele.Bot) *TelegramNotifier {
	return &TelegramNotifier{
		bot:    b,
		panels: make(map[int64]*tele.Message),
	}
}

// PublishStatus edits the venue's status panel in place, sending a new
// message when there is no panel yet or the edit fails.
func (n *TelegramNotifier) PublishStatus(venueID int64, text string) {
	go func() {
		n.mu.Lock()
		panel := n.panels[venueID]
		n.mu.Unlock()

		if panel != nil {
			if _, err := n.bot.Edit(panel, text); err == nil {
				return
			}
		}

		msg, err := n.bot.Send(tele.ChatID(venueID), text)
		if err != nil {
			log.Debug().Err(err).Int64("venue_id", venueID).Msg("Failed to publish room status")
			return
		}

		n.mu.Lock()
		n.panels[venueID] = msg
		n.mu.Unlock()
	}()
}

// Announce sends a standalone message to the venue.
func (n *TelegramNotifier) Announce(venueID int64, text string) {
	go func() {
		if _, err := n.bot.Send(tele.ChatID(venueID), text); err != nil {
			log.Debug().Err(err).Int64("venue_id", venueID).Msg("Failed to announce to venue")
		}
	}()
}

// PromptNewRound sends a message with a "start new round" button. The
// venue's status panel is dropped so the next round starts fresh.
func (n *TelegramNotifier) PromptNewRound(venueID int64, text string) {
	n.mu.Lock()
	delete(n.panels, venueID)
	n.mu.Unlock()

	go func() {
		markup := &tele.ReplyMarkup{}
		btn := markup.Data("🎲 Bắt đầu ván mới", StartRoundCallback)
		markup.Inline(markup.Row(btn))

		if _, err := n.bot.Send(tele.ChatID(venueID), text, markup); err != nil {
			log.Debug().Err(err).Int64("venue_id", venueID).Msg("Failed to send new round prompt")
		}
	}()
}

// NotifyUser sends a private win/loss notice to one bettor. Users who
// never opened a private chat with the bot simply miss the notice.
func (n *TelegramNotifier) NotifyUser(userID int64, text string) {
	go func() {
		if _, err := n.bot.Send(&tele.User{ID: userID}, text); err != nil {
			log.Debug().Err(err).Int64("user_id", userID).Msg("Failed to notify user")
		}
	}()
}

package handler

import (
	"context"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/ledger"
	"taixiu-game-bot/internal/model"
)

// PotHandler handles the shared pot inspection command.
type PotHandler struct {
	ledger ledger.Ledger
}

// NewPotHandler creates a new PotHandler.
func NewPotHandler(l ledger.Ledger) *PotHandler {
	return &PotHandler{ledger: l}
}

// HandlePot handles the /pot command, listing every shared pot.
func (h *PotHandler) HandlePot(c tele.Context) error {
	pots, err := h.ledger.GetPots(context.Background())
	if err != nil {
		return c.Reply("❌ Không lấy được hũ thưởng, vui lòng thử lại sau")
	}
	return c.Reply(potText(pots))
}

// potText renders the pot balances message.
func potText(pots []*model.Pot) string {
	if len(pots) == 0 {
		return "🏆 Chưa có hũ thưởng nào"
	}

	var b strings.Builder
	b.WriteString("🏆 HŨ THƯỞNG\n")
	b.WriteString("━━━━━━━━━━━━━━━\n")
	for _, pot := range pots {
		fmt.Fprintf(&b, "🎰 %s: %s đ\n", potLabel(pot.Name), formatAmount(pot.Amount))
	}
	b.WriteString("━━━━━━━━━━━━━━━")
	return b.String()
}

// potLabel maps a pot name to its display label.
func potLabel(name string) string {
	switch name {
	case model.PotTaiXiu:
		return "Tài Xỉu"
	case model.PotChanLe:
		return "Chẵn Lẻ"
	case model.PotDoanSo:
		return "Đoán Số"
	case model.PotSlot:
		return "Slot Machine"
	}
	return name
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/room"
)

// RoomHandler handles the multiplayer betting room commands.
type RoomHandler struct {
	rooms *room.Manager

	// appCtx outlives handler calls. Countdown goroutines started from
	// a command must not die with the update that triggered them.
	appCtx context.Context
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(rooms *room.Manager, appCtx context.Context) *RoomHandler {
	return &RoomHandler{rooms: rooms, appCtx: appCtx}
}

// HandleRoomStart handles the /txroom command, starting a new round.
func (h *RoomHandler) HandleRoomStart(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	if _, err := h.rooms.StartRound(h.appCtx, chat.ID); err != nil {
		if errors.Is(err, room.ErrRoundInProgress) {
			return c.Reply("ℹ️ Ván đang diễn ra, dùng /tx để đặt cược")
		}
		return c.Reply("❌ Không mở được ván mới, vui lòng thử lại sau")
	}
	return nil
}

// HandleStartCallback handles the "start new round" button.
func (h *RoomHandler) HandleStartCallback(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	_, err := h.rooms.StartRound(h.appCtx, chat.ID)
	if err != nil && !errors.Is(err, room.ErrRoundInProgress) {
		return c.Respond(&tele.CallbackResponse{Text: "Không mở được ván mới"})
	}
	return c.Respond(&tele.CallbackResponse{Text: "Ván mới bắt đầu!"})
}

// HandleBet handles /tx <tai|xiu|chan|le> <amount>.
func (h *RoomHandler) HandleBet(c tele.Context) error {
	const usage = "Dùng: /tx <tai|xiu|chan|le> <số tiền>"

	chat := c.Chat()
	sender := c.Sender()
	if chat == nil || sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ " + usage)
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}

	confirmation, err := h.rooms.PlaceBet(h.appCtx, chat.ID, sender.ID, args[0], amount)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrRoomNotAccepting):
			return c.Reply("❌ Chưa có ván nào đang nhận cược. Dùng /txroom để mở ván mới.")
		case errors.Is(err, room.ErrUnknownUser):
			return c.Reply("❌ Bạn chưa có tài khoản. Dùng /register để đăng ký.")
		case errors.Is(err, room.ErrInsufficientBalance):
			return c.Reply("❌ Số dư không đủ để đặt cược")
		case errors.Is(err, room.ErrInvalidAmount):
			return c.Reply("❌ Số tiền cược ngoài giới hạn cho phép")
		case errors.Is(err, room.ErrInvalidCategory):
			return c.Reply("❌ " + usage)
		}
		return c.Reply("❌ Đặt cược thất bại, vui lòng thử lại sau")
	}

	return c.Reply(confirmation)
}

// HandleRoomInfo handles /txinfo, showing a snapshot of the room.
func (h *RoomHandler) HandleRoomInfo(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	snap := h.rooms.State(chat.ID)
	if snap.Phase == room.PhaseIdle && snap.RoundID == 0 {
		return c.Reply("ℹ️ Chưa có ván nào. Dùng /txroom để mở ván mới.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎲 Ván #%d\n", snap.RoundID)
	switch snap.Phase {
	case room.PhaseAccepting:
		fmt.Fprintf(&b, "⏳ Đang nhận cược, còn %d giây\n", snap.Remaining)
	case room.PhaseLocked:
		b.WriteString("🔒 Đã khoá cược, chờ kết quả\n")
	default:
		b.WriteString("🏁 Ván đã kết thúc\n")
	}

	for _, cat := range []room.Category{room.CategoryTai, room.CategoryXiu, room.CategoryChan, room.CategoryLe} {
		fmt.Fprintf(&b, "%s: %s đ (%d cược)\n", cat.Label(), formatAmount(snap.Totals[cat]), snap.Counts[cat])
	}

	if len(snap.History) > 0 {
		b.WriteString("📊 Cầu: ")
		limit := len(snap.History)
		if limit > 10 {
			limit = 10
		}
		for i := limit - 1; i >= 0; i-- {
			b.WriteString(snap.History[i].Marker())
			if i > 0 {
				b.WriteByte(' ')
			}
		}
	}

	return c.Reply(b.String())
}

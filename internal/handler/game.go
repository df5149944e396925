package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"taixiu-game-bot/internal/service"
)

// GameHandler handles the instant game commands.
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// HandleTaiXiu handles /taixiu <tai|xiu> <amount>.
func (h *GameHandler) HandleTaiXiu(c tele.Context) error {
	const usage = "Dùng: /taixiu <tai|xiu> <số tiền>"

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ " + usage)
	}
	choice := args[0]
	if choice != "tai" && choice != "xiu" {
		return c.Reply("❌ " + usage)
	}
	bet, err := parseAmount(args[1])
	if err != nil {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}

	return h.play(c, "taixiu", bet, map[string]any{"choice": choice}, usage)
}

// HandleChanLe handles /chanle <chan|le> <amount>.
func (h *GameHandler) HandleChanLe(c tele.Context) error {
	const usage = "Dùng: /chanle <chan|le> <số tiền>"

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ " + usage)
	}
	choice := args[0]
	if choice != "chan" && choice != "le" {
		return c.Reply("❌ " + usage)
	}
	bet, err := parseAmount(args[1])
	if err != nil {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}

	return h.play(c, "chanle", bet, map[string]any{"choice": choice}, usage)
}

// HandleDoanSo handles /doanso <1-10> <amount>.
func (h *GameHandler) HandleDoanSo(c tele.Context) error {
	const usage = "Dùng: /doanso <số 1-10> <số tiền>"

	args := c.Args()
	if len(args) != 2 {
		return c.Reply("❌ " + usage)
	}
	guess, err := strconv.Atoi(args[0])
	if err != nil || guess < 1 || guess > 10 {
		return c.Reply("❌ " + usage)
	}
	bet, err := parseAmount(args[1])
	if err != nil {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}

	return h.play(c, "doanso", bet, map[string]any{"guess": guess}, usage)
}

// HandleSlot handles /slot <amount>.
func (h *GameHandler) HandleSlot(c tele.Context) error {
	const usage = "Dùng: /slot <số tiền>"

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("❌ " + usage)
	}
	bet, err := parseAmount(args[0])
	if err != nil {
		return c.Reply("❌ Số tiền không hợp lệ. " + usage)
	}

	return h.play(c, "slot", bet, nil, usage)
}

// play runs a game through the service and formats the reply.
func (h *GameHandler) play(c tele.Context, command string, bet int64, params map[string]any, usage string) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	result, user, err := h.gameService.Play(ctx, command, sender.ID, bet, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotRegistered):
			return c.Reply("❌ Bạn chưa có tài khoản. Dùng /register để đăng ký.")
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Reply("❌ Số dư không đủ để đặt cược")
		case errors.Is(err, service.ErrUnknownGame):
			return c.Reply("❌ Trò chơi không tồn tại")
		}
		// Validation errors (bet bounds, bad params).
		return c.Reply("❌ Cược không hợp lệ. " + usage)
	}

	return c.Reply(fmt.Sprintf("%s\n💰 Số dư: %s đ", result.Description, formatAmount(user.Balance)))
}

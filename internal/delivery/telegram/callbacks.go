package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var notice string
	switch data.Action {
	case actionTable:
		notice = h.handleTableCallback(chatID, data)
	case actionQuiz:
		notice = h.handleQuizCallback(chatID, data)
	default:
		h.logger.Warn("unknown callback action",
			zap.Int64("chat_id", chatID),
			zap.String("data", data.Raw),
		)
	}

	// Remove the user's "clock".
	h.answerCallback(cb.ID, notice)
}

// handleTableCallback handles the selection screen. It returns a notice for the callback answer.
func (h *Handler) handleTableCallback(chatID int64, data callbackData) string {
	game := h.gameFor(chatID)

	switch data.sub() {
	case tableToggle:
		table, ok := data.intParam(1)
		if !ok || !h.isOffered(table) {
			h.logger.Warn("invalid table in callback", zap.String("data", data.Raw))
			return ""
		}
		game.OnToggle(table)

	case tableStart:
		if game.IsRunning() {
			return msgGameRunning
		}
		if game.IsEmpty() {
			return msgSelectTable
		}
		game.OnStart()
	}

	return ""
}

// handleQuizCallback handles answers and the summary screen.
func (h *Handler) handleQuizCallback(chatID int64, data callbackData) string {
	game := h.gameFor(chatID)

	switch data.sub() {
	case quizAnswer:
		seq, ok1 := data.intParam(1)
		value, ok2 := data.intParam(2)
		if !ok1 || !ok2 {
			h.logger.Warn("invalid answer callback", zap.String("data", data.Raw))
			return ""
		}
		if !game.SubmitAnswer(seq, value) {
			return msgQuestionOver
		}

	case quizContinue:
		game.OnContinue()
	}

	return ""
}

func (h *Handler) isOffered(table int) bool {
	for _, t := range h.opts.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

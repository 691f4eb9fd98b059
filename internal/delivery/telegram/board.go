package telegram

import (
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

// board renders a chat's game into a single message that is edited in place.
type board struct {
	mu     sync.Mutex
	bot    BotSender
	chatID int64
	tables []int
	logger *zap.Logger

	messageID int
	question  entities.Question
	marks     []entities.AnswerMark
	seconds   int
}

func newBoard(bot BotSender, chatID int64, tables []int, logger *zap.Logger) *board {
	return &board{
		bot:     bot,
		chatID:  chatID,
		tables:  tables,
		logger:  logger,
		seconds: -1,
	}
}

// Detach makes the next render post a fresh message instead of editing the old one.
func (b *board) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messageID = 0
}

func (b *board) ShowSelection(selected []int, startEnabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kb := buildSelectionKeyboard(b.tables, selected, startEnabled)
	b.render(formatSelection(selected), &kb)
}

func (b *board) ShowQuestion(q entities.Question) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.question = q
	b.marks = nil
	b.seconds = -1
	b.renderQuestion()
}

func (b *board) ShowTime(seconds int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seconds = seconds
	b.renderQuestion()
}

func (b *board) ShowMarks(marks []entities.AnswerMark) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.marks = marks
	b.renderQuestion()
}

func (b *board) ShowSummary(s entities.Summary) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kb := buildSummaryKeyboard()
	b.render(formatSummary(s), &kb)
}

func (b *board) renderQuestion() {
	kb := buildAnswerKeyboard(b.question, b.marks)
	b.render(formatQuestion(b.question, b.seconds), &kb)
}

// render edits the board message, posting a new one if there is none yet.
func (b *board) render(text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if b.messageID != 0 {
		_, err := b.bot.Send(newEdit(b.chatID, b.messageID, text, kb))
		if err == nil || isNotModified(err) {
			return
		}
		b.logger.Warn("failed to edit board, posting a new one",
			zap.Int64("chat_id", b.chatID),
			zap.Error(err),
		)
	}

	msg := newMessage(b.chatID, text)
	msg.ReplyMarkup = kb

	sent, err := b.bot.Send(msg)
	if err != nil {
		b.logger.Error("failed to send board",
			zap.Int64("chat_id", b.chatID),
			zap.Error(err),
		)
		return
	}
	b.messageID = sent.MessageID
}

// isNotModified reports Telegram's error for an edit that changes nothing.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
	"github.com/aliskhannn/times-tables-bot/internal/service"
)

// BotSender is the part of the Telegram client used to talk to a chat.
type BotSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// BotAPI is the Telegram client used by the handler.
type BotAPI interface {
	BotSender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type ResultService interface {
	Record(ctx context.Context, result *entities.GameResult) error
	History(ctx context.Context, chatID int64) ([]*entities.GameResult, error)
	Stats(ctx context.Context, chatID int64) (*entities.ChatStats, error)
}

type GameStorage interface {
	GetOrCreate(chatID int64, newGame func() *service.QuizController) *service.QuizController
	SetOnEvict(fn func(chatID int64))
}

// GameOptions configures the games created for new chats.
type GameOptions struct {
	Quiz      service.QuizConfig
	Tables    []int
	Scheduler service.Scheduler
	Generator *service.AnswerGenerator
	Observer  service.Observer
}

type Handler struct {
	bot     BotAPI
	logger  *zap.Logger
	games   GameStorage
	results ResultService
	opts    GameOptions

	mu     sync.Mutex
	boards map[int64]*board
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	games GameStorage,
	results ResultService,
	opts GameOptions,
) *Handler {
	h := &Handler{
		bot:     bot,
		logger:  logger,
		games:   games,
		results: results,
		opts:    opts,
		boards:  make(map[int64]*board),
	}
	games.SetOnEvict(h.dropBoard)
	return h
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		h.send(newMessage(chatID, md(msgUnknownCommand)))
		return
	}

	switch update.Message.Command() {
	case "start":
		h.send(newMessage(chatID, welcomeMarkdownV2()))
		h.showBoard(chatID)

	case "play":
		h.showBoard(chatID)

	case "reset":
		h.resetGame(chatID)

	case "stats":
		_ = h.withErrorHandling(h.withRecover(h.statsHandler()))(ctx, chatID)

	case "help":
		h.send(newMessage(chatID, helpMarkdownV2()))

	default:
		h.send(newMessage(chatID, md(msgUnknownCommand)))
	}
}

// gameFor returns the controller of a chat, creating it on first use.
func (h *Handler) gameFor(chatID int64) *service.QuizController {
	return h.games.GetOrCreate(chatID, func() *service.QuizController {
		b := newBoard(h.bot, chatID, h.opts.Tables, h.logger)

		h.mu.Lock()
		h.boards[chatID] = b
		h.mu.Unlock()

		game := service.NewQuizController(chatID, h.opts.Quiz, b, h.opts.Scheduler, h.opts.Generator, h.logger)
		game.SetRecorder(h.results)
		game.SetObserver(h.opts.Observer)
		return game
	})
}

func (h *Handler) boardFor(chatID int64) (*board, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.boards[chatID]
	return b, ok
}

func (h *Handler) dropBoard(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.boards, chatID)
}

// showBoard posts a fresh selection board unless a game is running.
func (h *Handler) showBoard(chatID int64) {
	game := h.gameFor(chatID)
	if game.IsRunning() {
		h.sendError(chatID, msgGameRunning)
		return
	}

	if b, ok := h.boardFor(chatID); ok {
		b.Detach()
	}
	game.OnContinue()
}

// resetGame aborts the chat's game and posts an empty selection board.
func (h *Handler) resetGame(chatID int64) {
	game := h.gameFor(chatID)
	if b, ok := h.boardFor(chatID); ok {
		b.Detach()
	}
	game.OnReset()
}

func (h *Handler) statsHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.results.Stats(ctx, chatID)
		if err != nil {
			return err
		}

		history, err := h.results.History(ctx, chatID)
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, formatStats(stats, history)))
		return nil
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newMessage(chatID, md(err)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

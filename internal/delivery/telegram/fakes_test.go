package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
	"github.com/aliskhannn/times-tables-bot/internal/service"
)

// fakeBot records everything sent to Telegram.
type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	sendErr  error
	editErr  error
	updates  chan tgbotapi.Update
}

func newFakeBot() *fakeBot {
	return &fakeBot{nextID: 100, updates: make(chan tgbotapi.Update)}
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sent = append(b.sent, c)
	if _, ok := c.(tgbotapi.EditMessageTextConfig); ok && b.editErr != nil {
		return tgbotapi.Message{}, b.editErr
	}
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
	b.requests = nil
}

// last returns the text and keyboard of the last sent message or edit.
func (b *fakeBot) last() (string, *tgbotapi.InlineKeyboardMarkup) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return "", nil
	}
	return content(b.sent[len(b.sent)-1])
}

func (b *fakeBot) lastNotice() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		if cb, ok := b.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb.Text
		}
	}
	return ""
}

func content(c tgbotapi.Chattable) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		kb, _ := m.ReplyMarkup.(*tgbotapi.InlineKeyboardMarkup)
		return m.Text, kb
	case tgbotapi.EditMessageTextConfig:
		return m.Text, m.ReplyMarkup
	}
	return "", nil
}

// fakeTimer and manualScheduler let tests fire delayed callbacks on demand.
type fakeTimer struct {
	fn      func()
	every   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *manualScheduler) After(_ time.Duration, fn func()) service.Timer {
	return s.add(&fakeTimer{fn: fn})
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) service.Timer {
	return s.add(&fakeTimer{fn: fn, every: true})
}

func (s *manualScheduler) add(t *fakeTimer) service.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timers = append(s.timers, t)
	return t
}

func (s *manualScheduler) active(every bool) []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && t.every == every {
			out = append(out, t)
		}
	}
	return out
}

func (s *manualScheduler) Tick() {
	for _, t := range s.active(true) {
		t.fn()
	}
}

func (s *manualScheduler) Flush() {
	for _, t := range s.active(false) {
		t.stopped = true
		t.fn()
	}
}

// fakeResults is an in-memory ResultService.
type fakeResults struct {
	mu       sync.Mutex
	recorded []*entities.GameResult
	stats    *entities.ChatStats
	history  []*entities.GameResult
	err      error
}

func (r *fakeResults) Record(_ context.Context, result *entities.GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, result)
	return nil
}

func (r *fakeResults) History(context.Context, int64) ([]*entities.GameResult, error) {
	return r.history, r.err
}

func (r *fakeResults) Stats(_ context.Context, chatID int64) (*entities.ChatStats, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.stats == nil {
		return &entities.ChatStats{ChatID: chatID}, nil
	}
	return r.stats, nil
}

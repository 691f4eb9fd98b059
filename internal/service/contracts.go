package service

import (
	"context"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

// Renderer is the presentation boundary of a quiz game.
type Renderer interface {
	ShowSelection(selected []int, startEnabled bool)
	ShowQuestion(q entities.Question)
	ShowTime(seconds int)
	ShowMarks(marks []entities.AnswerMark)
	ShowSummary(s entities.Summary)
}

// ResultRecorder stores finished games.
type ResultRecorder interface {
	Record(ctx context.Context, result *entities.GameResult) error
}

//go:generate mockgen -destination=mocks/result_repository_mock.go -package=mocks github.com/aliskhannn/times-tables-bot/internal/service ResultRepository

// ResultRepository manages game result persistence.
type ResultRepository interface {
	Save(ctx context.Context, result *entities.GameResult) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*entities.GameResult, error)
	GetChatStats(ctx context.Context, chatID int64) (*entities.ChatStats, error)
}

// Answer outcomes reported to the Observer.
const (
	OutcomeCorrect   = "correct"
	OutcomeIncorrect = "incorrect"
	OutcomeTimeout   = "timeout"
)

// Observer receives game lifecycle events, e.g. for metrics.
type Observer interface {
	GameStarted(tables int)
	AnswerRecorded(outcome string)
	GameFinished(s entities.Summary)
	GameAborted()
}

type nopObserver struct{}

func (nopObserver) GameStarted(int)               {}
func (nopObserver) AnswerRecorded(string)         {}
func (nopObserver) GameFinished(entities.Summary) {}
func (nopObserver) GameAborted()                  {}

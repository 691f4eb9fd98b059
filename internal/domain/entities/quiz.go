package entities

import (
	"time"

	"github.com/google/uuid"
)

// GameResult represents a finished game stored for the chat history.
type GameResult struct {
	GameID     uuid.UUID // unique game ID assigned at start
	ChatID     int64     // chat the game was played in
	Tables     []int     // tables drilled, ascending
	Correct    int       // number of correct answers
	Total      int       // number of questions asked
	Percentage float64   // score in percent
	StartedAt  time.Time // timestamp when the game started
	FinishedAt time.Time // timestamp when the summary was shown
}

// NewGameResult builds a result from a finished game summary.
func NewGameResult(gameID uuid.UUID, chatID int64, tables []int, s Summary, startedAt, finishedAt time.Time) *GameResult {
	return &GameResult{
		GameID:     gameID,
		ChatID:     chatID,
		Tables:     append([]int(nil), tables...),
		Correct:    s.Correct,
		Total:      s.Total,
		Percentage: s.Percentage,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}

// Summary returns the score part of the result.
func (r *GameResult) Summary() Summary {
	return Summary{Correct: r.Correct, Total: r.Total, Percentage: r.Percentage}
}

// Duration returns how long the game took.
func (r *GameResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ChatStats aggregates every finished game of a chat.
type ChatStats struct {
	ChatID         int64
	GamesPlayed    int
	TotalCorrect   int
	TotalQuestions int
	BestPercentage float64
	LastPlayedAt   time.Time
}

// Accuracy returns the share of correct answers across all games, in percent.
func (s *ChatStats) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalCorrect) * 100 / float64(s.TotalQuestions)
}

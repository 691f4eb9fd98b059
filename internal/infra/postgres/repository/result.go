package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
	"github.com/aliskhannn/times-tables-bot/internal/infra/postgres"
)

var ErrStatsNotFound = errors.New("chat stats not found")

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ResultRepository provides access to finished game results in the database.
type ResultRepository struct {
	db postgres.DBTX
	tx TxRunner
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(db postgres.DBTX, tx TxRunner) *ResultRepository {
	return &ResultRepository{db: db, tx: tx}
}

// Save inserts a game result and folds it into the chat totals in one transaction.
func (r *ResultRepository) Save(ctx context.Context, result *entities.GameResult) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO game_results (
				game_id, chat_id, tables, correct, total,
				percentage, started_at, finished_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`

		_, err := tx.Exec(
			ctx,
			insertQuery,
			result.GameID,
			result.ChatID,
			result.Tables,
			result.Correct,
			result.Total,
			result.Percentage,
			result.StartedAt,
			result.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("insert game result: %w", err)
		}

		statsQuery := `
			INSERT INTO chat_stats (
				chat_id, games_played, total_correct, total_questions,
				best_percentage, last_played_at
			) VALUES ($1, 1, $2, $3, $4, $5)
			ON CONFLICT (chat_id) DO UPDATE SET
				games_played    = chat_stats.games_played + 1,
				total_correct   = chat_stats.total_correct + EXCLUDED.total_correct,
				total_questions = chat_stats.total_questions + EXCLUDED.total_questions,
				best_percentage = GREATEST(chat_stats.best_percentage, EXCLUDED.best_percentage),
				last_played_at  = EXCLUDED.last_played_at
		`

		_, err = tx.Exec(
			ctx,
			statsQuery,
			result.ChatID,
			result.Correct,
			result.Total,
			result.Percentage,
			result.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert chat stats: %w", err)
		}

		return nil
	})
}

// ListByChat returns up to limit results of a chat, newest first.
func (r *ResultRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]*entities.GameResult, error) {
	query := `
		SELECT game_id, chat_id, tables, correct, total,
		       percentage, started_at, finished_at
		FROM game_results
		WHERE chat_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query game results: %w", err)
	}
	defer rows.Close()

	var results []*entities.GameResult
	for rows.Next() {
		var res entities.GameResult
		if err := rows.Scan(
			&res.GameID,
			&res.ChatID,
			&res.Tables,
			&res.Correct,
			&res.Total,
			&res.Percentage,
			&res.StartedAt,
			&res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		results = append(results, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game results: %w", err)
	}

	return results, nil
}

// GetChatStats returns the aggregated totals of a chat.
func (r *ResultRepository) GetChatStats(ctx context.Context, chatID int64) (*entities.ChatStats, error) {
	query := `
		SELECT chat_id, games_played, total_correct, total_questions,
		       best_percentage, last_played_at
		FROM chat_stats
		WHERE chat_id = $1
	`

	var stats entities.ChatStats
	err := r.db.QueryRow(ctx, query, chatID).Scan(
		&stats.ChatID,
		&stats.GamesPlayed,
		&stats.TotalCorrect,
		&stats.TotalQuestions,
		&stats.BestPercentage,
		&stats.LastPlayedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatsNotFound
		}
		return nil, fmt.Errorf("get chat stats: %w", err)
	}

	return &stats, nil
}

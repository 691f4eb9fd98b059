package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
	"github.com/aliskhannn/times-tables-bot/internal/infra/postgres/repository"
)

var ErrInvalidResult = errors.New("invalid game result")

const defaultHistoryLimit = 5

// ResultService stores finished games and reads a chat's history.
type ResultService struct {
	repo         ResultRepository
	logger       *zap.Logger
	historyLimit int
}

// NewResultService creates a new result service.
func NewResultService(repo ResultRepository, logger *zap.Logger, historyLimit int) *ResultService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ResultService{
		repo:         repo,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// Record validates and saves a finished game.
func (s *ResultService) Record(ctx context.Context, result *entities.GameResult) error {
	if err := validateResult(result); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, result); err != nil {
		return fmt.Errorf("save game result: %w", err)
	}

	s.logger.Info("game result recorded",
		zap.Int64("chat_id", result.ChatID),
		zap.String("game_id", result.GameID.String()),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
		zap.Duration("duration", result.Duration()),
	)

	return nil
}

// History returns the most recent results of a chat, newest first.
func (s *ResultService) History(ctx context.Context, chatID int64) ([]*entities.GameResult, error) {
	results, err := s.repo.ListByChat(ctx, chatID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list game results: %w", err)
	}
	return results, nil
}

// Stats returns the aggregated totals of a chat. A chat without finished
// games gets empty stats.
func (s *ResultService) Stats(ctx context.Context, chatID int64) (*entities.ChatStats, error) {
	stats, err := s.repo.GetChatStats(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrStatsNotFound) {
			return &entities.ChatStats{ChatID: chatID}, nil
		}
		return nil, fmt.Errorf("get chat stats: %w", err)
	}
	return stats, nil
}

func validateResult(r *entities.GameResult) error {
	switch {
	case r == nil:
		return fmt.Errorf("%w: nil result", ErrInvalidResult)
	case len(r.Tables) == 0:
		return fmt.Errorf("%w: no tables", ErrInvalidResult)
	case r.Total != len(r.Tables)*entities.MultipliersPerTable:
		return fmt.Errorf("%w: total %d does not match %d tables", ErrInvalidResult, r.Total, len(r.Tables))
	case r.Correct < 0 || r.Correct > r.Total:
		return fmt.Errorf("%w: correct %d out of range", ErrInvalidResult, r.Correct)
	case r.Duration() < 0:
		return fmt.Errorf("%w: finished before it started", ErrInvalidResult)
	}
	return nil
}

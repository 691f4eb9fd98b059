package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/times-tables-bot/internal/service"
)

// GameStorage provides in-memory storage for quiz controllers by chat ID.
type GameStorage struct {
	mu      sync.RWMutex
	games   map[int64]*service.QuizController
	onEvict func(chatID int64)
}

// NewGameStorage creates a new GameStorage.
func NewGameStorage() *GameStorage {
	return &GameStorage{
		games: make(map[int64]*service.QuizController),
	}
}

// GetOrCreate returns the controller of a chat, creating it with newGame if missing.
func (s *GameStorage) GetOrCreate(chatID int64, newGame func() *service.QuizController) *service.QuizController {
	s.mu.RLock()
	game, ok := s.games[chatID]
	s.mu.RUnlock()
	if ok {
		return game
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[chatID]; ok {
		return game
	}
	game = newGame()
	s.games[chatID] = game
	return game
}

// SetOnEvict registers fn to be called for every chat removed from the storage.
func (s *GameStorage) SetOnEvict(fn func(chatID int64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvict = fn
}

// Len returns the number of stored controllers.
func (s *GameStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// EvictIdle removes controllers that are not running a game and were last
// used before the cutoff. It returns the number of removed controllers.
// Controllers are inspected without holding the storage lock, since a
// controller may be busy rendering.
func (s *GameStorage) EvictIdle(before time.Time) int {
	s.mu.RLock()
	snapshot := make(map[int64]*service.QuizController, len(s.games))
	for chatID, game := range s.games {
		snapshot[chatID] = game
	}
	s.mu.RUnlock()

	var idle []int64
	for chatID, game := range snapshot {
		if game.IsRunning() || !game.LastActivity().Before(before) {
			continue
		}
		idle = append(idle, chatID)
	}
	if len(idle) == 0 {
		return 0
	}

	s.mu.Lock()
	removed := make([]*service.QuizController, 0, len(idle))
	var evicted []int64
	for _, chatID := range idle {
		if s.games[chatID] != snapshot[chatID] {
			continue
		}
		delete(s.games, chatID)
		removed = append(removed, snapshot[chatID])
		evicted = append(evicted, chatID)
	}
	onEvict := s.onEvict
	s.mu.Unlock()

	for i, chatID := range evicted {
		removed[i].Close()
		if onEvict != nil {
			onEvict(chatID)
		}
	}
	return len(evicted)
}

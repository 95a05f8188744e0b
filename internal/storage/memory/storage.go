package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	games map[model.GameID]*model.Game
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games: make(map[model.GameID]*model.Game),
	}
}

// Ensure Storage implements the interface
var _ storage.GameStore = (*Storage)(nil)

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameExists, game.ID)
	}
	s.games[game.ID] = game.Clone()
	return game.Clone(), nil
}

func (s *Storage) FindGames(ctx context.Context, filter model.GameFilter) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*model.Game, 0, len(s.games))
	for _, g := range s.games {
		if filter.Matches(g) {
			games = append(games, g.Clone())
		}
	}
	storage.SortByGameDateDesc(games)
	return games, nil
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, update model.GameUpdate) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	update.Apply(game)
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	delete(s.games, id)
	return game, nil
}

func (s *Storage) DeleteGames(ctx context.Context, filter model.GameFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, g := range s.games {
		if filter.Matches(g) {
			delete(s.games, id)
			n++
		}
	}
	return n, nil
}

// Ping always succeeds
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

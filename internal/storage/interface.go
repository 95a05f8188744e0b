package storage

import (
	"context"

	"github.com/mcoot/rinkbook/internal/model"
)

// GameStore defines the persistence contract for games.
// Lookups that do not resolve return model.ErrGameNotFound.
type GameStore interface {
	// CreateGame stores a new game. The game's ID is already assigned.
	CreateGame(ctx context.Context, game *model.Game) (*model.Game, error)

	// FindGames returns every game matching filter, most recent gameDate first
	FindGames(ctx context.Context, filter model.GameFilter) ([]*model.Game, error)

	FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error)

	// UpdateGame applies update to the stored game as a single atomic
	// read-modify-write and returns the result
	UpdateGame(ctx context.Context, id model.GameID, update model.GameUpdate) (*model.Game, error)

	// DeleteGame removes the game and returns what was stored
	DeleteGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// DeleteGames removes every game matching filter and returns how many
	// were removed. An empty filter removes all games.
	DeleteGames(ctx context.Context, filter model.GameFilter) (int64, error)

	// Ping checks the backing store is reachable
	Ping(ctx context.Context) error

	Close() error
}

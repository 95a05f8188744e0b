package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/storage"
)

// ErrUpdateConflict is returned when an update keeps losing optimistic
// transaction races past the retry bound
var ErrUpdateConflict = errors.New("game update conflict")

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the server responds
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Ensure Storage implements the interface
var _ storage.GameStore = (*Storage)(nil)

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	data, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}

	created, err := s.client.SetNX(ctx, gameKey(game.ID), data, s.cfg.GameTTL).Result()
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%w: %s", storage.ErrGameExists, game.ID)
	}

	// Index updates in one pipeline
	pipe := s.client.Pipeline()
	pipe.SAdd(ctx, gamesIndexKey(), string(game.ID))
	pipe.SAdd(ctx, teamGamesIndexKey(game.TeamID), string(game.ID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return game.Clone(), nil
}

func (s *Storage) FindGames(ctx context.Context, filter model.GameFilter) ([]*model.Game, error) {
	games, err := s.loadIndexed(ctx, filter)
	if err != nil {
		return nil, err
	}
	storage.SortByGameDateDesc(games)
	return games, nil
}

// loadIndexed reads every game reachable from the narrowest index for
// filter and keeps the ones that match
func (s *Storage) loadIndexed(ctx context.Context, filter model.GameFilter) ([]*model.Game, error) {
	indexKey := gamesIndexKey()
	if filter.TeamID != "" {
		indexKey = teamGamesIndexKey(filter.TeamID)
	}

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var expired []any
	for i, val := range values {
		if val == nil {
			expired = append(expired, ids[i])
			continue
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(str), &game); err != nil {
			return nil, err
		}
		if filter.Matches(&game) {
			games = append(games, &game)
		}
	}

	if len(expired) > 0 {
		if err := s.pruneIndex(ctx, indexKey, expired); err != nil {
			return nil, fmt.Errorf("prune expired game ids: %w", err)
		}
	}

	return games, nil
}

// pruneIndex drops ids whose game key has expired. The owning team of an
// expired game is unknown, so only the scanned index and the global index
// are cleaned; other team indexes are pruned when they are next read.
func (s *Storage) pruneIndex(ctx context.Context, indexKey string, ids []any) error {
	pipe := s.client.Pipeline()
	pipe.SRem(ctx, indexKey, ids...)
	if indexKey != gamesIndexKey() {
		pipe.SRem(ctx, gamesIndexKey(), ids...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame runs the read-modify-write inside WATCH/MULTI so a concurrent
// writer to the same game forces a retry rather than a lost update
func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, update model.GameUpdate) (*model.Game, error) {
	key := gameKey(id)
	var updated *model.Game

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}
		update.Apply(&game)

		out, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, redis.KeepTTL)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &game
		return nil
	}

	attempts := max(s.cfg.MaxUpdateRetries, 1)
	for range attempts {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrUpdateConflict
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.GetDel(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	pipe.SRem(ctx, gamesIndexKey(), string(id))
	pipe.SRem(ctx, teamGamesIndexKey(game.TeamID), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	return &game, nil
}

func (s *Storage) DeleteGames(ctx context.Context, filter model.GameFilter) (int64, error) {
	games, err := s.loadIndexed(ctx, filter)
	if err != nil {
		return 0, err
	}

	if len(games) == 0 {
		return 0, nil
	}

	// Delete documents and index entries in one pipeline
	pipe := s.client.Pipeline()
	dels := make([]*redis.IntCmd, len(games))
	for i, g := range games {
		dels[i] = pipe.Del(ctx, gameKey(g.ID))
		pipe.SRem(ctx, gamesIndexKey(), string(g.ID))
		pipe.SRem(ctx, teamGamesIndexKey(g.TeamID), string(g.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	var n int64
	for _, cmd := range dels {
		n += cmd.Val()
	}
	return n, nil
}

// Package sqlstore provides a database/sql backed game store. Each game is
// kept as a JSON document next to the columns used for filtering and ordering.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/storage"
)

// Config selects the database to open
type Config struct {
	// Driver is "sqlite" or "postgres"
	Driver string

	// DSN is a file path or ":memory:" for sqlite, a connection URL for postgres
	DSN string

	// ConnectTimeout bounds the initial ping
	ConnectTimeout time.Duration
}

// Store persists games through database/sql
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Ensure Store implements the interface
var _ storage.GameStore = (*Store)(nil)

// Open connects to the configured database and applies the schema
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("%s dsn is required", dialect.Name)
	}

	db, err := sql.Open(dialect.Name, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", dialect.Name, err)
	}

	if dialect.Name == SQLite.Name {
		// One writer at a time, and ":memory:" databases are per connection
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect.Name, err)
	}

	s := New(db, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle. The schema is not applied.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Close closes the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func (s *Store) args() *args {
	return &args{d: s.dialect}
}

func (s *Store) CreateGame(ctx context.Context, game *model.Game) (*model.Game, error) {
	doc, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}

	a := s.args()
	query := fmt.Sprintf(
		`INSERT INTO games (id, team_id, game_type, game_date_ms, date_created_ms, doc) VALUES (%s, %s, %s, %s, %s, %s)`,
		a.add(string(game.ID)),
		a.add(game.TeamID),
		a.add(string(game.GameType)),
		a.add(toMillis(game.GameDate)),
		a.add(toMillis(game.DateCreated)),
		a.add(string(doc)),
	)

	if _, err := s.db.ExecContext(ctx, query, a.values...); err != nil {
		if s.dialect.isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrGameExists, game.ID)
		}
		return nil, err
	}
	return game.Clone(), nil
}

// where renders the filter as a WHERE clause, or "" for an empty filter
func (s *Store) where(a *args, filter model.GameFilter) string {
	var conds []string
	if filter.TeamID != "" {
		conds = append(conds, "team_id = "+a.add(filter.TeamID))
	}
	if filter.GameType != "" {
		conds = append(conds, "game_type = "+a.add(string(filter.GameType)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (s *Store) FindGames(ctx context.Context, filter model.GameFilter) ([]*model.Game, error) {
	a := s.args()
	query := `SELECT doc FROM games` + s.where(a, filter) +
		` ORDER BY game_date_ms DESC, date_created_ms DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*model.Game, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		game, err := decode(doc)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *Store) FindGameByID(ctx context.Context, id model.GameID) (*model.Game, error) {
	a := s.args()
	query := `SELECT doc FROM games WHERE id = ` + a.add(string(id))

	var doc string
	if err := s.db.QueryRowContext(ctx, query, a.values...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return decode(doc)
}

// UpdateGame reads, applies and writes back inside one transaction. The
// row is locked for the read where the dialect supports it.
func (s *Store) UpdateGame(ctx context.Context, id model.GameID, update model.GameUpdate) (_ *model.Game, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	a := s.args()
	query := `SELECT doc FROM games WHERE id = ` + a.add(string(id)) + s.dialect.lockSuffix

	var doc string
	if err := tx.QueryRowContext(ctx, query, a.values...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	game, err := decode(doc)
	if err != nil {
		return nil, err
	}
	update.Apply(game)

	out, err := json.Marshal(game)
	if err != nil {
		return nil, err
	}

	a = s.args()
	query = fmt.Sprintf(
		`UPDATE games SET game_type = %s, game_date_ms = %s, doc = %s WHERE id = %s`,
		a.add(string(game.GameType)),
		a.add(toMillis(game.GameDate)),
		a.add(string(out)),
		a.add(string(id)),
	)
	if _, err := tx.ExecContext(ctx, query, a.values...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *Store) DeleteGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	a := s.args()
	query := `DELETE FROM games WHERE id = ` + a.add(string(id)) + ` RETURNING doc`

	var doc string
	if err := s.db.QueryRowContext(ctx, query, a.values...).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return decode(doc)
}

func (s *Store) DeleteGames(ctx context.Context, filter model.GameFilter) (int64, error) {
	a := s.args()
	res, err := s.db.ExecContext(ctx, `DELETE FROM games`+s.where(a, filter), a.values...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func decode(doc string) (*model.Game, error) {
	var game model.Game
	if err := json.Unmarshal([]byte(doc), &game); err != nil {
		return nil, fmt.Errorf("decode game document: %w", err)
	}
	return &game, nil
}

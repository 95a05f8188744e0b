package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcoot/rinkbook/internal/model"
)

// schemaStatements creates the games table. The game_type CHECK is built
// from the canonical game type set so the schema cannot drift from it.
func schemaStatements() []string {
	types := model.GameTypes()
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = "'" + string(t) + "'"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS games (
  id TEXT PRIMARY KEY,
  team_id TEXT NOT NULL,
  game_type TEXT NOT NULL CHECK (game_type IN (%s)),
  game_date_ms BIGINT NOT NULL,
  date_created_ms BIGINT NOT NULL,
  doc TEXT NOT NULL
)`, strings.Join(quoted, ", ")),
		`CREATE INDEX IF NOT EXISTS games_team_id_idx ON games (team_id)`,
		`CREATE INDEX IF NOT EXISTS games_game_type_idx ON games (game_type)`,
		`CREATE INDEX IF NOT EXISTS games_game_date_idx ON games (game_date_ms)`,
	}
}

// Migrate creates the schema if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/storage"
	"github.com/mcoot/rinkbook/internal/storage/storagetest"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	return s
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &storagetest.GameStoreSuite{
		NewStore: func() storage.GameStore { return openMemory(t) },
	})
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	require.NoError(t, s.Migrate(context.Background()))
}

func TestSchemaRejectsUnknownGameType(t *testing.T) {
	s := openMemory(t)
	defer s.Close()

	g := storagetest.NewGame("g1", "T1", model.GameType("pickup"), time.Now())
	_, err := s.CreateGame(context.Background(), g)
	assert.Error(t, err)
}

func TestSchemaListsEveryGameType(t *testing.T) {
	ddl := schemaStatements()[0]
	for _, gt := range model.GameTypes() {
		assert.Contains(t, ddl, "'"+string(gt)+"'")
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestPostgresPlaceholders(t *testing.T) {
	a := &args{d: Postgres}
	assert.Equal(t, "$1", a.add("x"))
	assert.Equal(t, "$2", a.add(2))
	assert.Equal(t, []any{"x", 2}, a.values)

	s := New(nil, Postgres)
	a = s.args()
	where := s.where(a, model.GameFilter{TeamID: "T1", GameType: model.GameTypePlayoff})
	assert.Equal(t, " WHERE team_id = $1 AND game_type = $2", where)
	assert.Equal(t, " FOR UPDATE", Postgres.lockSuffix)
}

func TestSQLitePlaceholders(t *testing.T) {
	s := New(nil, SQLite)
	a := s.args()
	assert.Equal(t, "", s.where(a, model.GameFilter{}))
	assert.Equal(t, " WHERE team_id = ?", s.where(a, model.GameFilter{TeamID: "T1"}))
}

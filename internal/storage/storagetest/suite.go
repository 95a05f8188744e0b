// Package storagetest holds the behaviour every GameStore implementation
// must share, as a testify suite each implementation runs against itself.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/storage"
)

// GameStoreSuite exercises a GameStore. Set NewStore before running.
type GameStoreSuite struct {
	suite.Suite

	// NewStore returns an empty store for each test
	NewStore func() storage.GameStore

	store storage.GameStore
	ctx   context.Context
}

var baseDate = time.Date(2024, 3, 1, 19, 0, 0, 0, time.UTC)

func (s *GameStoreSuite) SetupTest() {
	s.Require().NotNil(s.NewStore, "NewStore must be set")
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *GameStoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// NewGame builds a complete scheduled game
func NewGame(id model.GameID, teamID string, gameType model.GameType, date time.Time) *model.Game {
	lineup := make([]model.LineupEntry, model.LineupSize)
	roster := make([]model.OpponentPlayer, model.LineupSize)
	for i := range model.LineupSize {
		lineup[i] = model.LineupEntry{PlayerID: fmt.Sprintf("player-%d", i+1), Slot: i + 1}
		roster[i] = model.OpponentPlayer{Number: float64(i + 10), Name: fmt.Sprintf("Opponent %d", i+1)}
	}
	return &model.Game{
		ID:          id,
		TeamID:      teamID,
		GameType:    gameType,
		GameDate:    date,
		Lineup:      lineup,
		Opponent:    model.Opponent{TeamName: "Towson", Roster: roster},
		Status:      model.GameStatusScheduled,
		DateCreated: baseDate,
	}
}

func (s *GameStoreSuite) mustCreate(g *model.Game) *model.Game {
	created, err := s.store.CreateGame(s.ctx, g)
	s.Require().NoError(err)
	return created
}

func ids(games []*model.Game) []model.GameID {
	out := make([]model.GameID, len(games))
	for i, g := range games {
		out[i] = g.ID
	}
	return out
}

// Create / read tests

func (s *GameStoreSuite) TestCreateAndFindByID() {
	g := NewGame("g1", "T1", model.GameTypeLeague, baseDate)

	created := s.mustCreate(g)
	s.Equal(g.ID, created.ID)

	found, err := s.store.FindGameByID(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("T1", found.TeamID)
	s.Equal(model.GameTypeLeague, found.GameType)
	s.True(baseDate.Equal(found.GameDate))
	s.Equal(g.Lineup, found.Lineup)
	s.Equal(g.Opponent, found.Opponent)
	s.Equal(model.GameStatusScheduled, found.Status)
	s.Nil(found.Result)
	s.Nil(found.DateUpdated)
}

func (s *GameStoreSuite) TestCreateRejectsDuplicateID() {
	s.mustCreate(NewGame("g1", "T1", model.GameTypeLeague, baseDate))

	_, err := s.store.CreateGame(s.ctx, NewGame("g1", "T2", model.GameTypeFinal, baseDate))
	s.ErrorIs(err, storage.ErrGameExists)
}

func (s *GameStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindGameByID(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GameStoreSuite) TestReturnedGamesDoNotAliasStore() {
	s.mustCreate(NewGame("g1", "T1", model.GameTypeLeague, baseDate))

	found, err := s.store.FindGameByID(s.ctx, "g1")
	s.Require().NoError(err)
	found.Lineup[0].PlayerID = "changed"

	again, err := s.store.FindGameByID(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("player-1", again.Lineup[0].PlayerID)
}

// Find tests

func (s *GameStoreSuite) TestFindGamesSortsByGameDateDescending() {
	s.mustCreate(NewGame("old", "T1", model.GameTypeLeague, baseDate.AddDate(0, 0, -7)))
	s.mustCreate(NewGame("new", "T1", model.GameTypeLeague, baseDate.AddDate(0, 0, 7)))
	s.mustCreate(NewGame("mid", "T1", model.GameTypeLeague, baseDate))

	games, err := s.store.FindGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"new", "mid", "old"}, ids(games))
}

func (s *GameStoreSuite) TestFindGamesFilters() {
	s.mustCreate(NewGame("a", "T1", model.GameTypePlayoff, baseDate))
	s.mustCreate(NewGame("b", "T1", model.GameTypeLeague, baseDate.AddDate(0, 0, 1)))
	s.mustCreate(NewGame("c", "T2", model.GameTypePlayoff, baseDate.AddDate(0, 0, 2)))

	games, err := s.store.FindGames(s.ctx, model.GameFilter{TeamID: "T1"})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"b", "a"}, ids(games))

	games, err = s.store.FindGames(s.ctx, model.GameFilter{GameType: model.GameTypePlayoff})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"c", "a"}, ids(games))

	games, err = s.store.FindGames(s.ctx, model.GameFilter{TeamID: "T1", GameType: model.GameTypePlayoff})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"a"}, ids(games))
}

func (s *GameStoreSuite) TestFindGamesEmpty() {
	games, err := s.store.FindGames(s.ctx, model.GameFilter{TeamID: "nobody"})
	s.Require().NoError(err)
	s.NotNil(games)
	s.Empty(games)
}

// Update tests

func (s *GameStoreSuite) TestUpdateGameAppliesPartialUpdate() {
	s.mustCreate(NewGame("g1", "T1", model.GameTypeLeague, baseDate))

	status := model.GameStatusFinished
	result := model.ResultWin
	now := baseDate.Add(3 * time.Hour)
	updated, err := s.store.UpdateGame(s.ctx, "g1", model.GameUpdate{
		Score:        &model.Score{Us: 3, Them: 2},
		Status:       &status,
		Result:       &result,
		DateUpdated:  &now,
		DateFinished: &now,
	})
	s.Require().NoError(err)
	s.Equal(model.Score{Us: 3, Them: 2}, updated.Score)
	s.Equal(model.GameStatusFinished, updated.Status)
	s.Require().NotNil(updated.Result)
	s.Equal(model.ResultWin, *updated.Result)

	found, err := s.store.FindGameByID(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.GameTypeLeague, found.GameType)
	s.Equal("Towson", found.Opponent.TeamName)
	s.Require().NotNil(found.DateFinished)
	s.True(now.Equal(*found.DateFinished))
}

func (s *GameStoreSuite) TestUpdateGameChangesIndexedFields() {
	s.mustCreate(NewGame("g1", "T1", model.GameTypeLeague, baseDate))

	gt := model.GameTypeFinal
	_, err := s.store.UpdateGame(s.ctx, "g1", model.GameUpdate{GameType: &gt})
	s.Require().NoError(err)

	games, err := s.store.FindGames(s.ctx, model.GameFilter{GameType: model.GameTypeFinal})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"g1"}, ids(games))

	games, err = s.store.FindGames(s.ctx, model.GameFilter{GameType: model.GameTypeLeague})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *GameStoreSuite) TestUpdateGameNotFound() {
	_, err := s.store.UpdateGame(s.ctx, "missing", model.GameUpdate{})
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Delete tests

func (s *GameStoreSuite) TestDeleteGame() {
	s.mustCreate(NewGame("g1", "T1", model.GameTypeLeague, baseDate))

	deleted, err := s.store.DeleteGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(model.GameID("g1"), deleted.ID)

	_, err = s.store.FindGameByID(s.ctx, "g1")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.store.FindGames(s.ctx, model.GameFilter{TeamID: "T1"})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *GameStoreSuite) TestDeleteGameNotFound() {
	_, err := s.store.DeleteGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *GameStoreSuite) TestDeleteGamesByTeam() {
	s.mustCreate(NewGame("a", "T1", model.GameTypeLeague, baseDate))
	s.mustCreate(NewGame("b", "T1", model.GameTypeFinal, baseDate))
	s.mustCreate(NewGame("c", "T2", model.GameTypeLeague, baseDate))

	n, err := s.store.DeleteGames(s.ctx, model.GameFilter{TeamID: "T1"})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	games, err := s.store.FindGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	s.Equal([]model.GameID{"c"}, ids(games))
}

func (s *GameStoreSuite) TestDeleteGamesEmptyFilterRemovesEverything() {
	s.mustCreate(NewGame("a", "T1", model.GameTypeLeague, baseDate))
	s.mustCreate(NewGame("b", "T2", model.GameTypeFinal, baseDate))

	n, err := s.store.DeleteGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	games, err := s.store.FindGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	s.Empty(games)

	n, err = s.store.DeleteGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *GameStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}

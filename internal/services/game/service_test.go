package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rinkbook/internal/dependencies/mocks"
	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/services/rules"
	"github.com/mcoot/rinkbook/internal/storage"
	"github.com/mcoot/rinkbook/internal/storage/memory"
	"github.com/mcoot/rinkbook/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	store    *memory.Storage
	clock    *mocks.MockClock
	ids      *mocks.MockIDs
	recorder *countingRecorder
	logs     *bytes.Buffer
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *ServiceSuite) SetupTest() {
	s.store = memory.New()
	s.clock = mocks.NewMockClock(start)
	s.ids = mocks.NewMockIDs()
	s.recorder = &countingRecorder{finished: map[string]int{}}
	logger, logs := testutil.BufferLogger()
	s.logs = logs
	s.service = New(s.store, s.clock, s.ids, s.recorder, logger)
	s.ctx = context.Background()
}

type countingRecorder struct {
	created  int
	finished map[string]int
	scores   int
	deleted  int64
}

func (r *countingRecorder) GameCreated(string)     { r.created++ }
func (r *countingRecorder) GameFinished(res string) { r.finished[res]++ }
func (r *countingRecorder) ScoreUpdated()          { r.scores++ }
func (r *countingRecorder) GamesDeleted(n int64)   { r.deleted += n }

// failingStore fails every call with err
type failingStore struct {
	storage.GameStore
	err error
}

func (f failingStore) CreateGame(context.Context, *model.Game) (*model.Game, error) {
	return nil, f.err
}

func (f failingStore) FindGames(context.Context, model.GameFilter) ([]*model.Game, error) {
	return nil, f.err
}

func (f failingStore) FindGameByID(context.Context, model.GameID) (*model.Game, error) {
	return nil, f.err
}

func (f failingStore) UpdateGame(context.Context, model.GameID, model.GameUpdate) (*model.Game, error) {
	return nil, f.err
}

func (f failingStore) DeleteGame(context.Context, model.GameID) (*model.Game, error) {
	return nil, f.err
}

func (f failingStore) DeleteGames(context.Context, model.GameFilter) (int64, error) {
	return 0, f.err
}

// recordingStore remembers the last filter it was queried with
type recordingStore struct {
	storage.GameStore
	lastFilter model.GameFilter
}

func (r *recordingStore) FindGames(ctx context.Context, f model.GameFilter) ([]*model.Game, error) {
	r.lastFilter = f
	return r.GameStore.FindGames(ctx, f)
}

func lineup() []rules.LineupCandidate {
	out := make([]rules.LineupCandidate, model.LineupSize)
	for i := range out {
		out[i] = rules.LineupCandidate{PlayerID: fmt.Sprintf("player-%d", i+1), Slot: float64(i + 1)}
	}
	return out
}

func roster() []rules.RosterCandidate {
	out := make([]rules.RosterCandidate, model.LineupSize)
	for i := range out {
		out[i] = rules.RosterCandidate{Number: float64(i + 2), Name: fmt.Sprintf(" Opponent %d ", i+1)}
	}
	return out
}

var gameDate = time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		TeamID:           Present("T1"),
		GameType:         Present("REGULAR-SEASON"),
		GameDate:         Present(Date{Time: gameDate, Valid: true}),
		Lineup:           Present(lineup()),
		OpponentTeamName: Present("  Towson "),
		OpponentRoster:   Present(roster()),
	}
}

func (s *ServiceSuite) create() *model.Game {
	game, err := s.service.Create(s.ctx, validDraft())
	s.Require().NoError(err)
	return game
}

func (s *ServiceSuite) createFor(teamID string, gameType string, date time.Time) *model.Game {
	d := validDraft()
	d.TeamID = Present(teamID)
	d.GameType = Present(gameType)
	d.GameDate = Present(Date{Time: date, Valid: true})
	game, err := s.service.Create(s.ctx, d)
	s.Require().NoError(err)
	return game
}

func (s *ServiceSuite) count() int {
	games, err := s.store.FindGames(s.ctx, model.GameFilter{})
	s.Require().NoError(err)
	return len(games)
}

// Create tests

func (s *ServiceSuite) TestCreateNormalizesAndDefaults() {
	s.ids.Queue("game-1")

	game := s.create()

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal("T1", game.TeamID)
	s.Equal(model.GameTypeRegularSeason, game.GameType)
	s.Equal(gameDate, game.GameDate)
	s.Equal(model.GameStatusScheduled, game.Status)
	s.Equal(model.Score{Us: 0, Them: 0}, game.Score)
	s.Nil(game.Result)
	s.Nil(game.DateUpdated)
	s.Nil(game.DateFinished)
	s.Equal(start, game.DateCreated)
	s.Equal("Towson", game.Opponent.TeamName)
	s.Equal("Opponent 1", game.Opponent.Roster[0].Name)
	s.Equal(float64(2), game.Opponent.Roster[0].Number)
	s.Equal(model.LineupEntry{PlayerID: "player-1", Slot: 1}, game.Lineup[0])
	s.Equal(1, s.recorder.created)

	stored, err := s.service.Get(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game, stored)
}

func (s *ServiceSuite) TestCreateValidationOrder() {
	tests := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"missing type", func(d *Draft) { d.GameType = Field[string]{} }, ErrInvalidGameType},
		{"unknown type", func(d *Draft) { d.GameType = Present("pickup") }, ErrInvalidGameType},
		{"type before date", func(d *Draft) {
			d.GameType = Present("pickup")
			d.GameDate = Present(Date{})
		}, ErrInvalidGameType},
		{"missing date", func(d *Draft) { d.GameDate = Field[Date]{} }, ErrInvalidGameDate},
		{"bad date", func(d *Draft) { d.GameDate = Present(Date{}) }, ErrInvalidGameDate},
		{"date before lineup", func(d *Draft) {
			d.GameDate = Present(Date{})
			d.Lineup = Field[[]rules.LineupCandidate]{}
		}, ErrInvalidGameDate},
		{"missing lineup", func(d *Draft) { d.Lineup = Field[[]rules.LineupCandidate]{} }, ErrInvalidLineup},
		{"duplicate player", func(d *Draft) { d.Lineup.Value[14].PlayerID = "player-1" }, ErrInvalidLineup},
		{"lineup before name", func(d *Draft) {
			d.Lineup.Value[0].Slot = 99
			d.OpponentTeamName = Present("")
		}, ErrInvalidLineup},
		{"blank opponent", func(d *Draft) { d.OpponentTeamName = Present("   ") }, ErrOpponentNameRequired},
		{"missing opponent", func(d *Draft) { d.OpponentTeamName = Field[string]{} }, ErrOpponentNameRequired},
		{"name before roster", func(d *Draft) {
			d.OpponentTeamName = Present("")
			d.OpponentRoster = Field[[]rules.RosterCandidate]{}
		}, ErrOpponentNameRequired},
		{"short roster", func(d *Draft) { d.OpponentRoster.Value = d.OpponentRoster.Value[:14] }, ErrInvalidOpponentRoster},
		{"roster NaN", func(d *Draft) { d.OpponentRoster.Value[3].Number = math.NaN() }, ErrInvalidOpponentRoster},
		{"roster before team", func(d *Draft) {
			d.OpponentRoster = Field[[]rules.RosterCandidate]{}
			d.TeamID = Field[string]{}
		}, ErrInvalidOpponentRoster},
		{"missing team", func(d *Draft) { d.TeamID = Field[string]{} }, ErrTeamIDRequired},
		{"blank team", func(d *Draft) { d.TeamID = Present("  ") }, ErrTeamIDRequired},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			d := validDraft()
			tt.mutate(&d)

			_, err := s.service.Create(s.ctx, d)
			s.ErrorIs(err, tt.want)

			var ve *ValidationError
			s.Require().ErrorAs(err, &ve)
			s.Equal(tt.want.Error(), ve.Message)
		})
	}

	s.Zero(s.count())
	s.Zero(s.ids.Issued())
}

func (s *ServiceSuite) TestCreateStorageFailure() {
	s.service.store = failingStore{err: errors.New("connection refused")}

	_, err := s.service.Create(s.ctx, validDraft())

	var se *StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal(OpCreate, se.Op)
	s.Equal("Failed to create game", se.PublicMessage())
	s.Contains(s.logs.String(), "connection refused")
	s.Zero(s.recorder.created)
}

// List tests

func (s *ServiceSuite) TestListFiltersAndSorts() {
	s.ids.Queue("a", "b", "c", "d")
	s.createFor("T1", "playoff", gameDate.AddDate(0, 0, -1))
	s.createFor("T1", "playoff", gameDate.AddDate(0, 0, 1))
	s.createFor("T1", "league", gameDate)
	s.createFor("T2", "playoff", gameDate)

	games, err := s.service.List(s.ctx, ListQuery{TeamID: " T1 ", Type: Present("PLAYOFF")})
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("b"), games[0].ID)
	s.Equal(model.GameID("a"), games[1].ID)
}

func (s *ServiceSuite) TestListPassesNormalizedFilterToStore() {
	rec := &recordingStore{GameStore: s.store}
	s.service.store = rec

	_, err := s.service.List(s.ctx, ListQuery{TeamID: " T1 ", Type: Present("PLAYOFF")})
	s.Require().NoError(err)
	s.Equal(model.GameFilter{TeamID: "T1", GameType: model.GameTypePlayoff}, rec.lastFilter)

	_, err = s.service.List(s.ctx, ListQuery{TeamID: "   "})
	s.Require().NoError(err)
	s.Equal(model.GameFilter{}, rec.lastFilter)
}

func (s *ServiceSuite) TestListRejectsInvalidTypeFilter() {
	_, err := s.service.List(s.ctx, ListQuery{Type: Present("pickup")})
	s.ErrorIs(err, ErrInvalidGameTypeFilter)

	_, err = s.service.List(s.ctx, ListQuery{Type: Present("")})
	s.ErrorIs(err, ErrInvalidGameTypeFilter)
}

func (s *ServiceSuite) TestListEmptyIsNotAnError() {
	games, err := s.service.List(s.ctx, ListQuery{TeamID: "nobody"})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ServiceSuite) TestListStorageFailure() {
	s.service.store = failingStore{err: errors.New("timeout")}

	_, err := s.service.List(s.ctx, ListQuery{})
	var se *StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal("Failed to retrieve games", se.PublicMessage())
}

// Get tests

func (s *ServiceSuite) TestGetIsIdempotent() {
	game := s.create()

	first, err := s.service.Get(s.ctx, game.ID)
	s.Require().NoError(err)
	second, err := s.service.Get(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *ServiceSuite) TestGetNotFoundIsNotLogged() {
	_, err := s.service.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)

	var se *StorageError
	s.False(errors.As(err, &se))
	s.Empty(s.logs.String())
}

// UpdateScore tests

func (s *ServiceSuite) TestUpdateScoreMarksInProgress() {
	game := s.create()
	s.clock.Advance(time.Hour)

	updated, err := s.service.UpdateScore(s.ctx, game.ID, ScoreDraft{Us: 2, Them: 1})
	s.Require().NoError(err)

	s.Equal(model.Score{Us: 2, Them: 1}, updated.Score)
	s.Equal(model.GameStatusInProgress, updated.Status)
	s.Require().NotNil(updated.DateUpdated)
	s.Equal(start.Add(time.Hour), *updated.DateUpdated)
	s.Equal(start, updated.DateCreated)
	s.Nil(updated.Result)
	s.Equal(1, s.recorder.scores)
}

func (s *ServiceSuite) TestUpdateScoreRejectsInvalidValues() {
	game := s.create()

	for _, sd := range []ScoreDraft{
		{Us: -1, Them: 0},
		{Us: 0, Them: -2},
		{Us: math.NaN(), Them: 0},
		{Us: 0, Them: math.Inf(1)},
		MissingScore(),
	} {
		_, err := s.service.UpdateScore(s.ctx, game.ID, sd)
		s.ErrorIs(err, ErrInvalidScore)
	}

	stored, err := s.service.Get(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(model.GameStatusScheduled, stored.Status)
	s.Nil(stored.DateUpdated)
}

func (s *ServiceSuite) TestUpdateScoreValidatesBeforeLookup() {
	_, err := s.service.UpdateScore(s.ctx, "missing", ScoreDraft{Us: -1})
	s.ErrorIs(err, ErrInvalidScore)
}

func (s *ServiceSuite) TestUpdateScoreNotFound() {
	_, err := s.service.UpdateScore(s.ctx, "missing", ScoreDraft{Us: 1, Them: 1})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestUpdateScoreAfterFinishKeepsResult() {
	game := s.create()
	_, err := s.service.Finish(s.ctx, game.ID, ScoreDraft{Us: 3, Them: 2})
	s.Require().NoError(err)

	reopened, err := s.service.UpdateScore(s.ctx, game.ID, ScoreDraft{Us: 3, Them: 5})
	s.Require().NoError(err)

	s.Equal(model.GameStatusInProgress, reopened.Status)
	s.Require().NotNil(reopened.Result)
	s.Equal(model.ResultWin, *reopened.Result)
	s.Contains(s.logs.String(), "score updated on finished game")
}

// Finish tests

func (s *ServiceSuite) TestFinishDerivesResult() {
	tests := []struct {
		us, them float64
		want     model.GameResult
	}{
		{3, 2, model.ResultWin},
		{1, 4, model.ResultLoss},
		{2, 2, model.ResultTie},
		{0, 0, model.ResultTie},
	}

	for _, tt := range tests {
		game := s.create()
		s.clock.Advance(time.Minute)

		finished, err := s.service.Finish(s.ctx, game.ID, ScoreDraft{Us: tt.us, Them: tt.them})
		s.Require().NoError(err)

		s.Equal(model.GameStatusFinished, finished.Status)
		s.Equal(model.Score{Us: tt.us, Them: tt.them}, finished.Score)
		s.Require().NotNil(finished.Result)
		s.Equal(tt.want, *finished.Result)
		s.Require().NotNil(finished.DateUpdated)
		s.Require().NotNil(finished.DateFinished)
		s.Equal(s.clock.Now(), *finished.DateFinished)
	}

	s.Equal(map[string]int{"Win": 1, "Loss": 1, "Tie": 2}, s.recorder.finished)
}

func (s *ServiceSuite) TestFinishRejectsInvalidScore() {
	game := s.create()

	_, err := s.service.Finish(s.ctx, game.ID, ScoreDraft{Us: 1, Them: math.NaN()})
	s.ErrorIs(err, ErrInvalidScore)

	stored, _ := s.service.Get(s.ctx, game.ID)
	s.Equal(model.GameStatusScheduled, stored.Status)
	s.Nil(stored.Result)
}

func (s *ServiceSuite) TestFinishNotFound() {
	_, err := s.service.Finish(s.ctx, "missing", ScoreDraft{Us: 1, Them: 0})
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestFinishStorageFailure() {
	s.service.store = failingStore{err: errors.New("boom")}

	_, err := s.service.Finish(s.ctx, "g1", ScoreDraft{Us: 1, Them: 0})
	var se *StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal("Failed to finish game", se.PublicMessage())
	s.Contains(s.logs.String(), `"game_id":"g1"`)
}

// UpdateInfo tests

func (s *ServiceSuite) TestUpdateInfoAppliesOnlySetFields() {
	game := s.create()
	s.clock.Advance(time.Hour)

	newDate := gameDate.AddDate(0, 1, 0)
	updated, err := s.service.UpdateInfo(s.ctx, game.ID, Draft{
		GameType:         Present(" Final "),
		GameDate:         Present(Date{Time: newDate, Valid: true}),
		OpponentTeamName: Present(" Loyola "),
	})
	s.Require().NoError(err)

	s.Equal(model.GameTypeFinal, updated.GameType)
	s.Equal(newDate, updated.GameDate)
	s.Equal("Loyola", updated.Opponent.TeamName)
	s.Equal(game.Opponent.Roster, updated.Opponent.Roster)
	s.Equal(game.Lineup, updated.Lineup)
	s.Equal(model.GameStatusScheduled, updated.Status)
	s.Require().NotNil(updated.DateUpdated)
	s.Equal(start.Add(time.Hour), *updated.DateUpdated)
}

func (s *ServiceSuite) TestUpdateInfoReplacesLineupAndRoster() {
	game := s.create()

	newLineup := lineup()
	newLineup[0], newLineup[1] = newLineup[1], newLineup[0]
	newLineup[0].Slot, newLineup[1].Slot = 1, 2
	newRoster := roster()
	newRoster[0].Name = "  Zed "

	updated, err := s.service.UpdateInfo(s.ctx, game.ID, Draft{
		Lineup:         Present(newLineup),
		OpponentRoster: Present(newRoster),
	})
	s.Require().NoError(err)

	s.Equal(model.LineupEntry{PlayerID: "player-2", Slot: 1}, updated.Lineup[0])
	s.Equal("Zed", updated.Opponent.Roster[0].Name)
}

func (s *ServiceSuite) TestUpdateInfoEmptyStampsDateUpdated() {
	game := s.create()

	updated, err := s.service.UpdateInfo(s.ctx, game.ID, Draft{})
	s.Require().NoError(err)
	s.NotNil(updated.DateUpdated)
	s.Equal(game.GameType, updated.GameType)
}

func (s *ServiceSuite) TestUpdateInfoRejectsWholeUpdate() {
	game := s.create()

	tests := []struct {
		name  string
		draft Draft
		want  error
	}{
		{"bad type", Draft{GameType: Present("pickup"), OpponentTeamName: Present("Loyola")}, ErrInvalidGameType},
		{"bad date", Draft{GameDate: Present(Date{}), GameType: Present("final")}, ErrInvalidGameDate},
		{"bad lineup", Draft{Lineup: Present([]rules.LineupCandidate(nil)), GameType: Present("final")}, ErrInvalidLineup},
		{"blank name", Draft{OpponentTeamName: Present(" "), GameType: Present("final")}, ErrInvalidOpponentName},
		{"bad roster", Draft{OpponentRoster: Present(roster()[:3]), GameType: Present("final")}, ErrInvalidOpponentRoster},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.UpdateInfo(s.ctx, game.ID, tt.draft)
			s.ErrorIs(err, tt.want)
		})
	}

	stored, err := s.service.Get(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game, stored)
}

func (s *ServiceSuite) TestUpdateInfoNotFound() {
	_, err := s.service.UpdateInfo(s.ctx, "missing", Draft{GameType: Present("league")})
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Delete tests

func (s *ServiceSuite) TestDelete() {
	game := s.create()

	s.Require().NoError(s.service.Delete(s.ctx, game.ID))

	_, err := s.service.Get(s.ctx, game.ID)
	s.ErrorIs(err, model.ErrGameNotFound)
	s.Equal(int64(1), s.recorder.deleted)
}

func (s *ServiceSuite) TestDeleteNotFound() {
	s.ErrorIs(s.service.Delete(s.ctx, "missing"), model.ErrGameNotFound)
	s.Zero(s.recorder.deleted)
}

func (s *ServiceSuite) TestDeleteAllByTeam() {
	s.createFor("T1", "league", gameDate)
	s.createFor("T1", "final", gameDate)
	s.createFor("T2", "league", gameDate)

	n, err := s.service.DeleteAll(s.ctx, " T1 ")
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	s.Equal(1, s.count())
}

func (s *ServiceSuite) TestDeleteAllWithoutFilterRemovesEverything() {
	s.createFor("T1", "league", gameDate)
	s.createFor("T2", "league", gameDate)

	n, err := s.service.DeleteAll(s.ctx, "")
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	s.Zero(s.count())

	n, err = s.service.DeleteAll(s.ctx, "")
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *ServiceSuite) TestDeleteAllStorageFailure() {
	s.service.store = failingStore{err: errors.New("boom")}

	_, err := s.service.DeleteAll(s.ctx, "T1")
	var se *StorageError
	s.Require().ErrorAs(err, &se)
	s.Equal("Failed to delete games", se.PublicMessage())
}

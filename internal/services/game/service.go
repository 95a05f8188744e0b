package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/rinkbook/internal/dependencies/clock"
	"github.com/mcoot/rinkbook/internal/dependencies/ids"
	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/services/rules"
	"github.com/mcoot/rinkbook/internal/storage"
)

// Recorder receives lifecycle events. *metrics.Recorder satisfies it.
type Recorder interface {
	GameCreated(gameType string)
	GameFinished(result string)
	ScoreUpdated()
	GamesDeleted(n int64)
}

type nopRecorder struct{}

func (nopRecorder) GameCreated(string)  {}
func (nopRecorder) GameFinished(string) {}
func (nopRecorder) ScoreUpdated()       {}
func (nopRecorder) GamesDeleted(int64)  {}

// Service validates game payloads and drives the game lifecycle
type Service struct {
	store    storage.GameStore
	clock    clock.Clock
	ids      ids.Generator
	recorder Recorder
	logger   *slog.Logger
}

// New creates a new game Service. recorder may be nil.
func New(
	store storage.GameStore,
	clock clock.Clock,
	ids ids.Generator,
	recorder Recorder,
	logger *slog.Logger,
) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		store:    store,
		clock:    clock,
		ids:      ids,
		recorder: recorder,
		logger:   logger,
	}
}

// storageFailure logs err and wraps it. Not-found passes through untouched.
func (s *Service) storageFailure(op string, id model.GameID, err error) error {
	if errors.Is(err, model.ErrGameNotFound) {
		return err
	}
	attrs := []any{
		slog.String("op", op),
		slog.String("error", err.Error()),
	}
	if id != "" {
		attrs = append(attrs, slog.String("game_id", string(id)))
	}
	s.logger.Error("game storage failure", attrs...)
	return &StorageError{Op: op, Err: err}
}

// Create validates a new game and stores it as scheduled with a 0-0 score.
// Checks run in a fixed order and the first failure is returned.
func (s *Service) Create(ctx context.Context, d Draft) (*model.Game, error) {
	gameType, ok := rules.NormalizeGameType(d.GameType.Value)
	if !ok {
		return nil, ErrInvalidGameType
	}

	if !d.GameDate.Set || !d.GameDate.Value.Valid {
		return nil, ErrInvalidGameDate
	}

	if !rules.ValidLineup(d.Lineup.Value) {
		return nil, ErrInvalidLineup
	}

	opponentName := strings.TrimSpace(d.OpponentTeamName.Value)
	if opponentName == "" {
		return nil, ErrOpponentNameRequired
	}

	if !rules.ValidOpponentRoster(d.OpponentRoster.Value) {
		return nil, ErrInvalidOpponentRoster
	}

	teamID := strings.TrimSpace(d.TeamID.Value)
	if teamID == "" {
		return nil, ErrTeamIDRequired
	}

	game := &model.Game{
		ID:       model.GameID(s.ids.NewID()),
		TeamID:   teamID,
		GameType: gameType,
		GameDate: d.GameDate.Value.Time,
		Lineup:   rules.Lineup(d.Lineup.Value),
		Opponent: model.Opponent{
			TeamName: opponentName,
			Roster:   rules.OpponentRoster(d.OpponentRoster.Value),
		},
		Score:       model.Score{Us: 0, Them: 0},
		Status:      model.GameStatusScheduled,
		DateCreated: s.clock.Now(),
	}

	created, err := s.store.CreateGame(ctx, game)
	if err != nil {
		return nil, s.storageFailure(OpCreate, game.ID, err)
	}

	s.recorder.GameCreated(string(created.GameType))
	s.logger.Info("game created",
		slog.String("game_id", string(created.ID)),
		slog.String("team_id", created.TeamID),
		slog.String("game_type", string(created.GameType)),
	)

	return created, nil
}

// List returns the games matching q, most recent game date first
func (s *Service) List(ctx context.Context, q ListQuery) ([]*model.Game, error) {
	filter := model.GameFilter{TeamID: strings.TrimSpace(q.TeamID)}

	if q.Type.Set {
		gameType, ok := rules.NormalizeGameType(q.Type.Value)
		if !ok {
			return nil, ErrInvalidGameTypeFilter
		}
		filter.GameType = gameType
	}

	games, err := s.store.FindGames(ctx, filter)
	if err != nil {
		return nil, s.storageFailure(OpList, "", err)
	}
	return games, nil
}

// Get returns a single game, or model.ErrGameNotFound
func (s *Service) Get(ctx context.Context, id model.GameID) (*model.Game, error) {
	game, err := s.store.FindGameByID(ctx, id)
	if err != nil {
		return nil, s.storageFailure(OpGet, id, err)
	}
	return game, nil
}

// UpdateScore records a running score and marks the game in progress.
// This applies to finished games too; their result is left as it was.
func (s *Service) UpdateScore(ctx context.Context, id model.GameID, sd ScoreDraft) (*model.Game, error) {
	if !rules.ValidScore(sd.Us, sd.Them) {
		return nil, ErrInvalidScore
	}

	now := s.clock.Now()
	status := model.GameStatusInProgress
	game, err := s.store.UpdateGame(ctx, id, model.GameUpdate{
		Score:       &model.Score{Us: sd.Us, Them: sd.Them},
		Status:      &status,
		DateUpdated: &now,
	})
	if err != nil {
		return nil, s.storageFailure(OpUpdateScore, id, err)
	}

	if game.Result != nil {
		s.logger.Warn("score updated on finished game, result kept",
			slog.String("game_id", string(game.ID)),
			slog.String("result", string(*game.Result)),
		)
	}
	s.recorder.ScoreUpdated()

	return game, nil
}

// Finish records the final score, derives the result and closes the game
func (s *Service) Finish(ctx context.Context, id model.GameID, sd ScoreDraft) (*model.Game, error) {
	if !rules.ValidScore(sd.Us, sd.Them) {
		return nil, ErrInvalidScore
	}

	score := model.Score{Us: sd.Us, Them: sd.Them}
	result := rules.DeriveResult(score)
	status := model.GameStatusFinished
	now := s.clock.Now()

	game, err := s.store.UpdateGame(ctx, id, model.GameUpdate{
		Score:        &score,
		Status:       &status,
		Result:       &result,
		DateUpdated:  &now,
		DateFinished: &now,
	})
	if err != nil {
		return nil, s.storageFailure(OpFinish, id, err)
	}

	s.recorder.GameFinished(string(result))
	s.logger.Info("game finished",
		slog.String("game_id", string(game.ID)),
		slog.String("result", string(result)),
	)

	return game, nil
}

// UpdateInfo applies a partial update. Only set fields are validated and
// written; the first invalid field rejects the whole update.
func (s *Service) UpdateInfo(ctx context.Context, id model.GameID, d Draft) (*model.Game, error) {
	var update model.GameUpdate

	if d.GameType.Set {
		gameType, ok := rules.NormalizeGameType(d.GameType.Value)
		if !ok {
			return nil, ErrInvalidGameType
		}
		update.GameType = &gameType
	}

	if d.GameDate.Set {
		if !d.GameDate.Value.Valid {
			return nil, ErrInvalidGameDate
		}
		date := d.GameDate.Value.Time
		update.GameDate = &date
	}

	if d.Lineup.Set {
		if !rules.ValidLineup(d.Lineup.Value) {
			return nil, ErrInvalidLineup
		}
		update.Lineup = rules.Lineup(d.Lineup.Value)
	}

	if d.OpponentTeamName.Set {
		name := strings.TrimSpace(d.OpponentTeamName.Value)
		if name == "" {
			return nil, ErrInvalidOpponentName
		}
		update.OpponentTeamName = &name
	}

	if d.OpponentRoster.Set {
		if !rules.ValidOpponentRoster(d.OpponentRoster.Value) {
			return nil, ErrInvalidOpponentRoster
		}
		update.OpponentRoster = rules.OpponentRoster(d.OpponentRoster.Value)
	}

	now := s.clock.Now()
	update.DateUpdated = &now

	game, err := s.store.UpdateGame(ctx, id, update)
	if err != nil {
		return nil, s.storageFailure(OpUpdateInfo, id, err)
	}
	return game, nil
}

// Delete removes one game, or returns model.ErrGameNotFound
func (s *Service) Delete(ctx context.Context, id model.GameID) error {
	if _, err := s.store.DeleteGame(ctx, id); err != nil {
		return s.storageFailure(OpDelete, id, err)
	}

	s.recorder.GamesDeleted(1)
	s.logger.Info("game deleted", slog.String("game_id", string(id)))
	return nil
}

// DeleteAll removes every game owned by teamID, or every game at all when
// teamID is blank. It succeeds when nothing matched.
func (s *Service) DeleteAll(ctx context.Context, teamID string) (int64, error) {
	filter := model.GameFilter{TeamID: strings.TrimSpace(teamID)}

	n, err := s.store.DeleteGames(ctx, filter)
	if err != nil {
		return 0, s.storageFailure(OpDeleteAll, "", err)
	}

	s.recorder.GamesDeleted(n)
	s.logger.Info("games deleted",
		slog.String("team_id", filter.TeamID),
		slog.Int64("count", n),
	)
	return n, nil
}

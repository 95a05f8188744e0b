package model

import "time"

// GameUpdate is a partial update to a stored game. Nil fields are left untouched.
type GameUpdate struct {
	GameType         *GameType
	GameDate         *time.Time
	Lineup           []LineupEntry
	OpponentTeamName *string
	OpponentRoster   []OpponentPlayer
	Score            *Score
	Status           *GameStatus
	Result           *GameResult
	DateUpdated      *time.Time
	DateFinished     *time.Time
}

// Apply writes every set field onto g
func (u GameUpdate) Apply(g *Game) {
	if u.GameType != nil {
		g.GameType = *u.GameType
	}
	if u.GameDate != nil {
		g.GameDate = *u.GameDate
	}
	if u.Lineup != nil {
		g.Lineup = append([]LineupEntry(nil), u.Lineup...)
	}
	if u.OpponentTeamName != nil {
		g.Opponent.TeamName = *u.OpponentTeamName
	}
	if u.OpponentRoster != nil {
		g.Opponent.Roster = append([]OpponentPlayer(nil), u.OpponentRoster...)
	}
	if u.Score != nil {
		g.Score = *u.Score
	}
	if u.Status != nil {
		g.Status = *u.Status
	}
	if u.Result != nil {
		r := *u.Result
		g.Result = &r
	}
	if u.DateUpdated != nil {
		g.DateUpdated = cloneTime(u.DateUpdated)
	}
	if u.DateFinished != nil {
		g.DateFinished = cloneTime(u.DateFinished)
	}
}

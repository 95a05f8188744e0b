package model

import "time"

// GameID uniquely identifies a game. Assigned once on creation.
type GameID string

// LineupSize is the number of entries required in a lineup and in an opponent roster
const LineupSize = 15

// GameStatus represents where a game is in its lifecycle
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"   // Created, no score reported yet
	GameStatusInProgress GameStatus = "in-progress" // At least one score update
	GameStatusFinished   GameStatus = "finished"    // Final score recorded
)

// GameResult is the outcome derived from the final score
type GameResult string

const (
	ResultWin  GameResult = "Win"
	ResultLoss GameResult = "Loss"
	ResultTie  GameResult = "Tie"
)

// LineupEntry places one of our players into a numbered slot
type LineupEntry struct {
	PlayerID string `json:"playerId"`
	Slot     int    `json:"slot"`
}

// OpponentPlayer is a row in the opposing team's roster
type OpponentPlayer struct {
	Number float64 `json:"number"`
	Name   string  `json:"name"`
}

// Opponent describes the team we are playing against
type Opponent struct {
	TeamName string           `json:"teamName"`
	Roster   []OpponentPlayer `json:"roster"`
}

// Score is the running or final score from our team's perspective
type Score struct {
	Us   float64 `json:"us"`
	Them float64 `json:"them"`
}

// Game is a single fixture for a team, with its lineup and score history
type Game struct {
	ID           GameID        `json:"id"`
	TeamID       string        `json:"teamId"`
	GameType     GameType      `json:"gameType"`
	GameDate     time.Time     `json:"gameDate"`
	Lineup       []LineupEntry `json:"lineup"`
	Opponent     Opponent      `json:"opponent"`
	Score        Score         `json:"score"`
	Status       GameStatus    `json:"status"`
	Result       *GameResult   `json:"result,omitempty"`
	DateCreated  time.Time     `json:"dateCreated"`
	DateUpdated  *time.Time    `json:"dateUpdated,omitempty"`
	DateFinished *time.Time    `json:"dateFinished,omitempty"`
}

// Clone returns a deep copy so stored documents never alias caller memory
func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	c := *g
	c.Lineup = append([]LineupEntry(nil), g.Lineup...)
	c.Opponent.Roster = append([]OpponentPlayer(nil), g.Opponent.Roster...)
	if g.Result != nil {
		r := *g.Result
		c.Result = &r
	}
	c.DateUpdated = cloneTime(g.DateUpdated)
	c.DateFinished = cloneTime(g.DateFinished)
	return &c
}

// IsFinished returns true once a final score has been recorded
func (g *Game) IsFinished() bool {
	return g.Status == GameStatusFinished
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// GameFilter narrows list and bulk-delete operations. Zero values match everything.
type GameFilter struct {
	TeamID   string
	GameType GameType
}

// Matches reports whether the game satisfies every set criterion
func (f GameFilter) Matches(g *Game) bool {
	if f.TeamID != "" && g.TeamID != f.TeamID {
		return false
	}
	if f.GameType != "" && g.GameType != f.GameType {
		return false
	}
	return true
}

// IsEmpty returns true when the filter matches every game
func (f GameFilter) IsEmpty() bool {
	return f.TeamID == "" && f.GameType == ""
}

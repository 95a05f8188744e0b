package game

import (
	"math"
	"time"

	"github.com/mcoot/rinkbook/internal/services/rules"
)

// Field is an optional payload value. Set is false when the key was absent.
type Field[T any] struct {
	Value T
	Set   bool
}

// Present returns a set field holding v
func Present[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Date is a submitted date. Valid is false when it had no date reading.
type Date struct {
	Time  time.Time
	Valid bool
}

// Draft is a parsed create or update payload. Values that had the wrong
// shape are carried as candidates that fail their validator, so checks
// still run in their documented order.
type Draft struct {
	TeamID           Field[string]
	GameType         Field[string]
	GameDate         Field[Date]
	Lineup           Field[[]rules.LineupCandidate]
	OpponentTeamName Field[string]
	OpponentRoster   Field[[]rules.RosterCandidate]
}

// ScoreDraft is a submitted score. Missing or non-numeric sides are NaN.
type ScoreDraft struct {
	Us   float64
	Them float64
}

// MissingScore is a ScoreDraft with neither side submitted
func MissingScore() ScoreDraft {
	return ScoreDraft{Us: math.NaN(), Them: math.NaN()}
}

// ListQuery narrows List. TeamID is ignored when blank; Type is validated
// whenever it is set, even to an empty string.
type ListQuery struct {
	TeamID string
	Type   Field[string]
}

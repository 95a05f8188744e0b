package model

// GameType categorises a game. Stored lowercase.
type GameType string

const (
	GameTypeRegularSeason GameType = "regular-season"
	GameTypeLeague        GameType = "league"
	GameTypeOutOfLeague   GameType = "out-of-league"
	GameTypePlayoff       GameType = "playoff"
	GameTypeFinal         GameType = "final"
	GameTypeTournament    GameType = "tournament"
)

// gameTypes is the canonical ordered set. Never mutated after init.
var gameTypes = [...]GameType{
	GameTypeRegularSeason,
	GameTypeLeague,
	GameTypeOutOfLeague,
	GameTypePlayoff,
	GameTypeFinal,
	GameTypeTournament,
}

// GameTypes returns the allowed game types in canonical order.
// The returned slice is a copy.
func GameTypes() []GameType {
	out := make([]GameType, len(gameTypes))
	copy(out, gameTypes[:])
	return out
}

// IsValid reports whether t is exactly one of the canonical values
func (t GameType) IsValid() bool {
	for _, v := range gameTypes {
		if v == t {
			return true
		}
	}
	return false
}

package redis

import (
	"fmt"

	"github.com/mcoot/rinkbook/internal/model"
)

// Key prefix for all rinkbook data
const keyPrefix = "rinkbook"

// gameKey returns the Redis key for a Game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of every game id
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// teamGamesIndexKey returns the Redis key for the SET of game ids owned by a team
func teamGamesIndexKey(teamID string) string {
	return fmt.Sprintf("%s:idx:team_games:%s", keyPrefix, teamID)
}

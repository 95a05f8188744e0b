package response

import (
	"time"

	"github.com/mcoot/rinkbook/internal/model"
)

// Messages returned by confirmation responses
const (
	MessageGameFinished = "Game finished and saved to history"
	MessageGameDeleted  = "Game deleted successfully"
	MessageGamesDeleted = "Games deleted successfully"
	MessageRoot         = "rinkbook API server"
)

// Message is a bare confirmation
type Message struct {
	Message string `json:"message"`
}

// FinishResponse wraps the finished game
type FinishResponse struct {
	Message string      `json:"message"`
	Game    *model.Game `json:"game"`
}

// Health reports the server and store state
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Storage   string    `json:"storage,omitempty"`
}

// Games returns a non-nil slice so an empty list encodes as []
func Games(games []*model.Game) []*model.Game {
	if games == nil {
		return []*model.Game{}
	}
	return games
}

package game

import "fmt"

// ValidationError is a rejected payload. Message is safe to show callers.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation failures, one per check
var (
	ErrInvalidGameType       = &ValidationError{"Invalid game type"}
	ErrInvalidGameTypeFilter = &ValidationError{"Invalid game type filter"}
	ErrInvalidGameDate       = &ValidationError{"Invalid game date"}
	ErrInvalidLineup         = &ValidationError{"Lineup must have exactly 15 players with unique slots 1-15"}
	ErrOpponentNameRequired  = &ValidationError{"Opponent team name is required"}
	ErrInvalidOpponentName   = &ValidationError{"Invalid opponent team name"}
	ErrInvalidOpponentRoster = &ValidationError{"Opponent roster must have exactly 15 players (number + name)"}
	ErrTeamIDRequired        = &ValidationError{"Team ID is required"}
	ErrInvalidScore          = &ValidationError{"Invalid score values"}
)

// Storage operations, named for the public failure message
const (
	OpCreate      = "create"
	OpList        = "list"
	OpGet         = "get"
	OpUpdateScore = "update_score"
	OpFinish      = "finish"
	OpUpdateInfo  = "update_info"
	OpDelete      = "delete"
	OpDeleteAll   = "delete_all"
)

var publicMessages = map[string]string{
	OpCreate:      "Failed to create game",
	OpList:        "Failed to retrieve games",
	OpGet:         "Failed to retrieve game",
	OpUpdateScore: "Failed to update score",
	OpFinish:      "Failed to finish game",
	OpUpdateInfo:  "Failed to update game info",
	OpDelete:      "Failed to delete game",
	OpDeleteAll:   "Failed to delete games",
}

// StorageError wraps an unexpected failure from the game store
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PublicMessage is the generic message reported to callers, without detail
func (e *StorageError) PublicMessage() string {
	if msg, ok := publicMessages[e.Op]; ok {
		return msg
	}
	return "Internal server error"
}

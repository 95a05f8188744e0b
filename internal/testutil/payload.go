package testutil

import "fmt"

// LineupPayload returns a decoded JSON lineup of 15 distinct players in slots 1-15
func LineupPayload() []any {
	out := make([]any, 15)
	for i := range out {
		out[i] = map[string]any{
			"playerId": fmt.Sprintf("player-%d", i+1),
			"slot":     float64(i + 1),
		}
	}
	return out
}

// RosterPayload returns a decoded JSON opponent roster of 15 players
func RosterPayload() []any {
	out := make([]any, 15)
	for i := range out {
		out[i] = map[string]any{
			"number": float64(i + 2),
			"name":   fmt.Sprintf("Opponent %d", i+1),
		}
	}
	return out
}

// CreatePayload returns a decoded JSON body that creates a valid game
func CreatePayload() map[string]any {
	return map[string]any{
		"teamId":           "T1",
		"gameType":         "REGULAR-SEASON",
		"gameDate":         "2024-03-01T19:30:00Z",
		"lineup":           LineupPayload(),
		"opponentTeamName": "Towson",
		"opponentRoster":   RosterPayload(),
	}
}

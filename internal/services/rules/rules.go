// Package rules holds the pure validation and derivation rules for games.
package rules

import (
	"math"
	"strings"

	"github.com/mcoot/rinkbook/internal/coerce"
	"github.com/mcoot/rinkbook/internal/model"
)

// LineupCandidate is a lineup entry as submitted, before validation.
// PlayerID is empty when the submitted id was missing or falsy.
// Slot is NaN when the submitted slot had no numeric reading.
type LineupCandidate struct {
	PlayerID string
	Slot     float64
}

// RosterCandidate is an opponent roster entry as submitted.
// Name is empty when the submitted name was not a string.
type RosterCandidate struct {
	Number float64
	Name   string
}

// NormalizeGameType returns the canonical game type for v. Only strings
// are accepted; surrounding whitespace and letter case are ignored.
func NormalizeGameType(v any) (model.GameType, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	t := model.GameType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", false
	}
	return t, true
}

// ValidLineup reports whether entries form a complete lineup: exactly
// LineupSize entries, each with a player id and an integer slot in
// [1, LineupSize], with no slot and no player used twice.
// A nil slice (no array submitted) is invalid.
func ValidLineup(entries []LineupCandidate) bool {
	if len(entries) != model.LineupSize {
		return false
	}

	slots := make(map[int]struct{}, model.LineupSize)
	players := make(map[string]struct{}, model.LineupSize)

	for _, e := range entries {
		if e.PlayerID == "" {
			return false
		}
		if !isSlot(e.Slot) {
			return false
		}

		slot := int(e.Slot)
		if _, dup := players[e.PlayerID]; dup {
			return false
		}
		if _, dup := slots[slot]; dup {
			return false
		}

		players[e.PlayerID] = struct{}{}
		slots[slot] = struct{}{}
	}

	return true
}

func isSlot(f float64) bool {
	return coerce.IsFinite(f) && f == math.Trunc(f) && f >= 1 && f <= model.LineupSize
}

// ValidOpponentRoster reports whether entries form a complete opponent
// roster: exactly LineupSize entries, each with a finite number and a
// non-blank name. Duplicates are allowed.
func ValidOpponentRoster(entries []RosterCandidate) bool {
	if len(entries) != model.LineupSize {
		return false
	}
	for _, p := range entries {
		if !coerce.IsFinite(p.Number) {
			return false
		}
		if strings.TrimSpace(p.Name) == "" {
			return false
		}
	}
	return true
}

// ValidScore reports whether both sides are finite and non-negative
func ValidScore(us, them float64) bool {
	return coerce.IsFinite(us) && us >= 0 && coerce.IsFinite(them) && them >= 0
}

// DeriveResult computes the outcome of a final score
func DeriveResult(s model.Score) model.GameResult {
	switch {
	case s.Us > s.Them:
		return model.ResultWin
	case s.Them > s.Us:
		return model.ResultLoss
	default:
		return model.ResultTie
	}
}

// Lineup converts validated candidates to stored lineup entries
func Lineup(entries []LineupCandidate) []model.LineupEntry {
	out := make([]model.LineupEntry, len(entries))
	for i, e := range entries {
		out[i] = model.LineupEntry{PlayerID: e.PlayerID, Slot: int(e.Slot)}
	}
	return out
}

// OpponentRoster converts validated candidates to stored roster rows,
// trimming names.
func OpponentRoster(entries []RosterCandidate) []model.OpponentPlayer {
	out := make([]model.OpponentPlayer, len(entries))
	for i, p := range entries {
		out[i] = model.OpponentPlayer{Number: p.Number, Name: strings.TrimSpace(p.Name)}
	}
	return out
}

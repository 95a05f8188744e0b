// Package request turns decoded request bodies and query strings into the
// typed drafts the game service accepts.
package request

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/rinkbook/internal/api/apierr"
	"github.com/mcoot/rinkbook/internal/coerce"
	"github.com/mcoot/rinkbook/internal/services/game"
	"github.com/mcoot/rinkbook/internal/services/rules"
)

// MaxBodyBytes bounds every JSON request body
const MaxBodyBytes = 1 << 20

// DecodeBody reads a JSON object body. An empty body decodes to an empty
// object; anything that is not a JSON object is an invalid request.
func DecodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, apierr.NewInvalidRequestError(apierr.MessageInvalidBody)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apierr.NewInvalidRequestError(apierr.MessageInvalidBody)
	}
	if payload == nil {
		// JSON null
		return map[string]any{}, nil
	}
	return payload, nil
}

// ParseGamePayload converts a create or update body into a draft. Keys
// that are absent stay unset; present keys with the wrong shape become
// values their validator rejects.
func ParseGamePayload(body map[string]any) game.Draft {
	var d game.Draft

	if v, ok := body["teamId"]; ok {
		d.TeamID = game.Present(identifier(v))
	}
	if v, ok := body["gameType"]; ok {
		s, _ := v.(string)
		d.GameType = game.Present(s)
	}
	if v, ok := body["gameDate"]; ok {
		t, valid := coerce.Date(v)
		d.GameDate = game.Present(game.Date{Time: t, Valid: valid})
	}
	if v, ok := body["lineup"]; ok {
		d.Lineup = game.Present(lineup(v))
	}
	if v, ok := body["opponentTeamName"]; ok {
		s, _ := v.(string)
		d.OpponentTeamName = game.Present(s)
	}
	if v, ok := body["opponentRoster"]; ok {
		d.OpponentRoster = game.Present(roster(v))
	}

	return d
}

// identifier reads an id that may arrive as a string or a number
func identifier(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64, json.Number:
		return coerce.String(x)
	default:
		return ""
	}
}

func lineup(v any) []rules.LineupCandidate {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]rules.LineupCandidate, len(items))
	for i, item := range items {
		out[i] = rules.LineupCandidate{Slot: math.NaN()}

		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if pid := entry["playerId"]; coerce.Truthy(pid) {
			out[i].PlayerID = coerce.String(pid)
		}
		if slot, ok := entry["slot"]; ok {
			out[i].Slot = coerce.Number(slot)
		}
	}
	return out
}

func roster(v any) []rules.RosterCandidate {
	items, ok := v.([]any)
	if !ok {
		return nil
	}

	out := make([]rules.RosterCandidate, len(items))
	for i, item := range items {
		out[i] = rules.RosterCandidate{Number: math.NaN()}

		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := entry["number"]; ok {
			out[i].Number = coerce.Number(n)
		}
		out[i].Name, _ = entry["name"].(string)
	}
	return out
}

// ParseScorePayload reads {us, them}. A missing side is NaN.
func ParseScorePayload(body map[string]any) game.ScoreDraft {
	sd := game.MissingScore()
	if v, ok := body["us"]; ok {
		sd.Us = coerce.Number(v)
	}
	if v, ok := body["them"]; ok {
		sd.Them = coerce.Number(v)
	}
	return sd
}

// ParseListQuery reads the teamId and type filters. A repeated parameter
// is not a single value: a repeated teamId is ignored and a repeated type
// is rejected.
func ParseListQuery(q url.Values) game.ListQuery {
	var lq game.ListQuery

	if ids := q["teamId"]; len(ids) == 1 {
		lq.TeamID = ids[0]
	}

	if types, ok := q["type"]; ok {
		if len(types) == 1 {
			lq.Type = game.Present(types[0])
		} else {
			lq.Type = game.Present("")
		}
	}

	return lq
}

// ParseTeamFilter reads the teamId used by bulk delete
func ParseTeamFilter(q url.Values) string {
	if ids := q["teamId"]; len(ids) == 1 {
		return ids[0]
	}
	return ""
}

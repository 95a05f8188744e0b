package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rinkbook/internal/api/apierr"
	"github.com/mcoot/rinkbook/internal/api/request"
	"github.com/mcoot/rinkbook/internal/api/response"
	"github.com/mcoot/rinkbook/internal/model"
	"github.com/mcoot/rinkbook/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	games *game.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Service) *GameHandler {
	return &GameHandler{games: games}
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// List handles GET /api/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	games, err := h.games.List(r.Context(), request.ParseListQuery(r.URL.Query()))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Games(games))
}

// Create handles POST /api/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(w, r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.games.Create(r.Context(), request.ParseGamePayload(body))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, g)
}

// Get handles GET /api/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.games.Get(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// UpdateScore handles PUT /api/games/{id}/score
func (h *GameHandler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(w, r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.games.UpdateScore(r.Context(), gameID(r), request.ParseScorePayload(body))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// Finish handles PUT /api/games/{id}/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(w, r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.games.Finish(r.Context(), gameID(r), request.ParseScorePayload(body))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FinishResponse{
		Message: response.MessageGameFinished,
		Game:    g,
	})
}

// UpdateInfo handles PUT /api/games/{id}
func (h *GameHandler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	body, err := request.DecodeBody(w, r)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.games.UpdateInfo(r.Context(), gameID(r), request.ParseGamePayload(body))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, g)
}

// Delete handles DELETE /api/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(r.Context(), gameID(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: response.MessageGameDeleted})
}

// DeleteAll handles DELETE /api/games
func (h *GameHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.games.DeleteAll(r.Context(), request.ParseTeamFilter(r.URL.Query())); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Message{Message: response.MessageGamesDeleted})
}

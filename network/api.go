package network

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"pong/logger"
	"pong/metrics"
	"pong/session"
)

type loginRequest struct {
	Username string `json:"username"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	Username string `json:"username"`
}

type createGameRequest struct {
	Opponents []string `json:"opponents,omitempty"`
}

type gameRef struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type authedHandler func(w http.ResponseWriter, r *http.Request, username string)

func (h *Handler) authenticated(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, err := h.auth.Verify(bearerToken(r.Header.Get("Authorization")))
		if err != nil {
			metrics.AuthFailures.WithLabelValues("http").Inc()
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, username)
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}
	token, err := h.auth.Issue(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid username")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (h *Handler) user(w http.ResponseWriter, _ *http.Request, username string) {
	writeJSON(w, http.StatusOK, userResponse{Username: username})
}

func (h *Handler) userGames(w http.ResponseWriter, _ *http.Request, username string) {
	ids := h.registry.ListForIdentity(username)
	out := make([]gameRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, gameRef{ID: id})
	}
	writeJSON(w, http.StatusOK, out)
}

// createGame seats the caller in slot 0 followed by the opponents, or twice
// for a hot seat match when no opponents are given.
func (h *Handler) createGame(w http.ResponseWriter, r *http.Request, username string) {
	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid body")
		return
	}

	for _, o := range req.Opponents {
		if !ValidUsername(o) {
			writeError(w, http.StatusBadRequest, "Invalid opponent username")
			return
		}
	}

	players := []string{username, username}
	if len(req.Opponents) > 0 {
		players = append([]string{username}, req.Opponents...)
	}

	s, err := h.registry.Create(players)
	if err != nil {
		if errors.Is(err, session.ErrInvalidComposition) {
			writeError(w, http.StatusBadRequest, "Invalid number of opponents")
			return
		}
		logger.Error("Create game failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) getGame(w http.ResponseWriter, r *http.Request, _ string) {
	st, ok := h.registry.Snapshot(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) pauseGame(paused bool) authedHandler {
	return func(w http.ResponseWriter, r *http.Request, _ string) {
		st, ok := h.registry.SetPaused(r.PathValue("id"), paused)
		if !ok {
			writeError(w, http.StatusNotFound, "Game not found")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("Write response failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

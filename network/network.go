package network

import (
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"pong/config"
	"pong/logger"
	"pong/metrics"
	"pong/session"
)

// Handler exposes the session registry over HTTP and websockets.
type Handler struct {
	registry   *session.Registry
	auth       *TokenAuth
	ws         config.WebSocketConfig
	tokenParam string
	upgrader   websocket.Upgrader
}

func NewHandler(registry *session.Registry, auth *TokenAuth, ws config.WebSocketConfig, tokenParam string) *Handler {
	return &Handler{
		registry:   registry,
		auth:       auth,
		ws:         ws,
		tokenParam: tokenParam,
		upgrader: websocket.Upgrader{
			// Browser clients are served from another origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("GET /api/user", h.authenticated(h.user))
	mux.HandleFunc("GET /api/user/games", h.authenticated(h.userGames))
	mux.HandleFunc("POST /api/game", h.authenticated(h.createGame))
	mux.HandleFunc("GET /api/game/{id}", h.authenticated(h.getGame))
	mux.HandleFunc("POST /api/game/{id}/pause", h.authenticated(h.pauseGame(true)))
	mux.HandleFunc("POST /api/game/{id}/unpause", h.authenticated(h.pauseGame(false)))
	mux.HandleFunc("GET /ws/game/{id}", h.gameSocket)
	return mux
}

// gameSocket binds an authenticated player to a session for the lifetime of
// the websocket.
func (h *Handler) gameSocket(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	username, err := h.auth.Verify(r.URL.Query().Get(h.tokenParam))
	if err != nil {
		metrics.AuthFailures.WithLabelValues("websocket").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	s, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return
	}
	if !slices.Contains(s.Identities(), username) {
		writeError(w, http.StatusForbidden, "Not a player in this game")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("Upgrade failed", "err", err)
		return
	}
	ws := &wsConn{conn: conn, writeTimeout: h.ws.WriteTimeout}

	peer, err := h.registry.Attach(id, username, ws)
	if err != nil {
		logger.Debug("Attach failed", "session", id, "identity", username, "err", err)
		_ = ws.Close()
		return
	}

	conn.SetReadLimit(h.ws.MessageSizeLimit)
	_ = conn.SetReadDeadline(time.Now().Add(h.ws.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.ws.PongTimeout))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(h.ws.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := ws.ping(); err != nil {
					return
				}
			case <-peer.Done():
				return
			case <-done:
				return
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Read failed", "session", id, "identity", username, "err", err)
			}
			break
		}
		peer.HandleMessage(msg)
	}
	peer.HandleClose()
}

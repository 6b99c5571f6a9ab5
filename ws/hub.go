package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fractaloutlook/Incremental/auth"
	"github.com/fractaloutlook/Incremental/config"
	"github.com/fractaloutlook/Incremental/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development; restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub maintains the set of connected clients, one game session each.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Config     *config.Config
	Engine     *game.Engine
	Verifier   *auth.Verifier

	// Telemetry is handed to every new session; optional.
	Telemetry game.TelemetrySink

	// done is closed when Run returns; later registrations are refused.
	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub(cfg *config.Config, engine *game.Engine, verifier *auth.Verifier, telemetry game.TelemetrySink) *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Config:     cfg,
		Engine:     engine,
		Verifier:   verifier,
		Telemetry:  telemetry,
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Should be run as a goroutine.
// When ctx is cancelled (e.g. on server shutdown), every session is stopped and Run returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			slog.Info("shutdown signal received, stopping sessions", "tag", "hub", "clients", len(h.Clients))
			for client := range h.Clients {
				delete(h.Clients, client)
				client.Session.Stop()
			}
			return
		case client := <-h.Register:
			h.Clients[client] = true
			go client.Session.Run()
			slog.Info("client connected", "tag", "hub", "session", client.Session.ID, "clients", len(h.Clients))

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				slog.Info("client disconnected", "tag", "hub", "session", client.Session.ID, "clients", len(h.Clients))
				// Close Send only after the session can no longer write to it.
				go func(s *game.Session, send chan []byte) {
					s.Stop()
					<-s.Done
					close(send)
				}(client.Session, client.Send)
			}
		}
	}
}

// NewClient builds a client and its session for conn.
func (h *Hub) NewClient(conn *websocket.Conn) *Client {
	send := make(chan []byte, 256)
	session := game.NewSession(uuid.NewString(), h.Config, h.Engine, send)
	if h.Telemetry != nil {
		session.TelemetrySink = h.Telemetry
	}
	return &Client{
		Hub:     h,
		Conn:    conn,
		Send:    send,
		Session: session,
	}
}

// ServeWS handles WebSocket upgrade requests and starts a session for the new client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "tag", "hub", "err", err)
		return
	}

	client := h.NewClient(conn)
	if !h.register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// register hands client to Run. It reports false once the hub has shut down.
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister hands client to Run, or stops its session directly after shutdown.
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
		client.Session.Stop()
	}
}

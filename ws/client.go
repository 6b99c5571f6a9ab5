package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fractaloutlook/Incremental/game"
	"github.com/fractaloutlook/Incremental/notify"
	"github.com/fractaloutlook/Incremental/wsutil"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Room for the envelope around a save file.
	envelopeOverhead = 4096
)

// Client is a middleman between the websocket connection and its session.
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Send    chan []byte
	Session *game.Session
}

// ReadPump pumps messages from the websocket connection to the session.
// It runs in its own goroutine per connection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(int64(c.Hub.Config.MaxSaveBytes) + envelopeOverhead)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("WebSocket read error", "tag", "ws", "session", c.Session.ID, "err", err)
			}
			break
		}

		c.handleMessage(message, time.Now())
	}
}

// WritePump pumps messages from the send channel to the websocket connection.
// It runs in its own goroutine per connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes one inbound frame. receivedAt stamps clicks for combo timing.
func (c *Client) handleMessage(data []byte, receivedAt time.Time) {
	var envelope InboundEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.sendError("Invalid message format.")
		return
	}

	switch envelope.Type {
	case "auth":
		c.handleAuth(envelope.Raw)
	case "click":
		c.post(game.Action{Type: game.ActionClick, At: receivedAt})
	case "purchase_upgrade":
		var msg PurchaseUpgradeMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil || msg.UpgradeID == "" {
			c.sendError("Invalid purchase_upgrade message.")
			return
		}
		c.post(game.Action{Type: game.ActionPurchaseUpgrade, ID: msg.UpgradeID})
	case "activate_artifact":
		var msg ActivateArtifactMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil || msg.ArtifactID == "" {
			c.sendError("Invalid activate_artifact message.")
			return
		}
		c.post(game.Action{Type: game.ActionActivateArtifact, ID: msg.ArtifactID})
	case "activate_event":
		c.post(game.Action{Type: game.ActionActivateEvent, At: receivedAt})
	case "prestige":
		c.post(game.Action{Type: game.ActionPrestige})
	case "load_save":
		var msg LoadSaveMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil {
			c.sendError("Invalid load_save message.")
			return
		}
		save, err := msg.SaveBytes()
		if err != nil {
			c.sendError("Invalid load_save message.")
			return
		}
		c.post(game.Action{Type: game.ActionLoadSave, Data: save})
	case "export_save":
		c.post(game.Action{Type: game.ActionExportSave, At: receivedAt})
	case "claim_quest":
		var msg ClaimQuestMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil || msg.QuestID == "" {
			c.sendError("Invalid claim_quest message.")
			return
		}
		c.post(game.Action{Type: game.ActionClaimQuest, ID: msg.QuestID})
	case "key":
		var msg KeyMsg
		if err := json.Unmarshal(envelope.Raw, &msg); err != nil || msg.Code == "" {
			c.sendError("Invalid key message.")
			return
		}
		c.post(game.Action{Type: game.ActionKey, ID: msg.Code})
	default:
		c.sendError("Unknown message type: " + envelope.Type)
	}
}

func (c *Client) handleAuth(raw json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Token == "" {
		c.sendError("Invalid auth message.")
		return
	}
	if !c.Hub.Verifier.Configured() {
		c.sendError("Server auth not configured.")
		return
	}
	id, err := c.Hub.Verifier.Verify(msg.Token)
	if err != nil {
		slog.Info("auth rejected", "tag", "ws", "session", c.Session.ID, "err", err)
		c.sendError("Authentication failed.")
		return
	}
	c.post(game.Action{Type: game.ActionIdentify, ID: id.UserID})
	c.sendJSON(game.NotificationMsg{Type: "notification", Notification: notify.Notification{
		Kind:        notify.Success,
		Title:       "Signed In",
		Message:     "Welcome, " + id.Name + "!",
		AutoCloseMS: 3000,
	}})
}

// post hands an action to the session unless it has already stopped.
func (c *Client) post(a game.Action) {
	select {
	case c.Session.Actions <- a:
	case <-c.Session.Done:
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(ErrorMsg{Type: "error", Message: message})
}

func (c *Client) sendJSON(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling message", "tag", "ws", "err", err)
		return
	}
	wsutil.SafeSend(c.Send, data)
}

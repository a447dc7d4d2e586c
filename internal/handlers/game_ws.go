// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RomanSery/rent-day-sub000/internal/engine"
	"github.com/RomanSery/rent-day-sub000/internal/middleware"
)

// wsClient is one connected spectator or player of a game.
type wsClient struct {
	conn   *websocket.Conn
	userID uuid.UUID
	name   string
}

// Hub fans engine events out to every WebSocket client subscribed to a game.
// Wire Hub.Broadcast into engine.Engine.BroadcastFn.
type Hub struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]map[*wsClient]struct{}
	log   *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*wsClient]struct{}),
		log:   logger,
	}
}

func (h *Hub) add(gameID uuid.UUID, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[gameID]
	if !ok {
		room = make(map[*wsClient]struct{})
		h.rooms[gameID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(gameID uuid.UUID, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[gameID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, gameID)
		}
	}
}

// Broadcast sends the event to every client of the game. The engine calls
// this after a successful save; writes happen asynchronously so a slow
// client cannot block game logic.
func (h *Hub) Broadcast(gameID uuid.UUID, ev engine.Event) {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.rooms[gameID]))
	for c := range h.rooms[gameID] {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Errorf("marshal broadcast event (%s) for game %s: %v", ev.Type, gameID, err)
		return
	}

	go func() {
		for _, c := range clients {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				h.log.Warnf("write broadcast to %s in game %s: %v", c.userID, gameID, err)
			}
		}
	}()
}

// chatMessage is the only client-to-server WebSocket payload; all game
// actions travel over the HTTP routes.
type chatMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to a WebSocket subscribed to one
// game's event stream (/game/ws/{game_id}). It authenticates the user,
// registers the connection with the hub, and relays chat messages.
func GameWSHandler(logger *logrus.Logger, s *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameIDStr := strings.TrimPrefix(r.URL.Path, "/game/ws/")
		gameID, err := uuid.Parse(gameIDStr)
		if err != nil {
			http.Error(w, "invalid game_id format (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}

		g, err := s.Engine.GetGame(r.Context(), gameID)
		if errors.Is(err, engine.ErrNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		// Authenticate before the upgrade: EnsureEphemeralUser may still
		// need to set the session cookie on the HTTP response.
		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("User authentication failed for game %s: %v", gameID, err)
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "game" {
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'game' subprotocol.")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		name := "Spectator"
		if pl := g.PlayerByID(userID); pl != nil {
			name = pl.Name
		}

		client := &wsClient{conn: c, userID: userID, name: name}
		s.Hub.add(gameID, client)
		defer s.Hub.remove(gameID, client)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readChatMessages(ctx, c, s, gameID, client, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readChatMessages blocks reading client frames until the connection closes.
// Chat messages are rebroadcast to the room; pings get an immediate pong.
func readChatMessages(ctx context.Context, c *websocket.Conn, s *GameServer, gameID uuid.UUID, client *wsClient, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg chatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, logger, "Invalid JSON format.")
			continue
		}

		switch msg.Type {
		case "chat":
			if strings.TrimSpace(msg.Text) == "" {
				continue
			}
			s.Hub.Broadcast(gameID, engine.Event{
				Type:    engine.EventChatMessage,
				GameID:  gameID,
				Message: client.name + ": " + msg.Text,
			})
		case "ping":
			sendWsMessage(ctx, c, logger, map[string]string{"type": "pong"})
		default:
			sendWsError(ctx, c, logger, "Unknown message type: "+msg.Type)
		}
	}
}

// sendWsMessage marshals a message and sends it to the WebSocket client with
// a write timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, message interface{}) {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		logger.Errorf("marshal WebSocket message: %v", err)
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			logger.Warnf("write WebSocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, logger *logrus.Logger, errorMsg string) {
	sendWsMessage(ctx, c, logger, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}

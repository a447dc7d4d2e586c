// internal/engine/events.go
package engine

import (
	"github.com/google/uuid"
)

// EventType categorizes the one-way notifications fanned out to connected
// clients of a game. Delivery is at-most-once and owned by the transport;
// the engine only emits, and only after the corresponding save completed.
type EventType string

const (
	EventGameState     EventType = "game-state-updated"
	EventAuction       EventType = "auction-updated"
	EventLotto         EventType = "lotto-updated"
	EventTreasure      EventType = "treasure-updated"
	EventTrade         EventType = "trade-updated"
	EventChatMessage   EventType = "chat-message"
	EventServerMessage EventType = "show-server-message"
)

// Event is one notification for all clients of a game.
type Event struct {
	Type    EventType   `json:"type"`
	GameID  uuid.UUID   `json:"gameId"`
	Payload interface{} `json:"payload,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ActionRecord is the audit entry pushed to the historian queue for every
// applied action.
type ActionRecord struct {
	GameID      uuid.UUID              `json:"game_id"`
	ActionIndex int                    `json:"action_index"`
	ActorUserID uuid.UUID              `json:"actor_user_id"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// Recorder receives action records. Implementations must not block game
// progress on delivery failures.
type Recorder interface {
	Record(rec ActionRecord)
}

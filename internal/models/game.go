// internal/models/game.go
package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// GameStatus tracks the lifecycle of a game document.
type GameStatus string

const (
	GameStatusJoining  GameStatus = "JOINING"
	GameStatusActive   GameStatus = "ACTIVE"
	GameStatusFinished GameStatus = "FINISHED"
)

// GameSettings holds the host-chosen parameters fixed at creation.
type GameSettings struct {
	InitialMoney     int `json:"initialMoney"`
	MaxPlayers       int `json:"maxPlayers"`
	TurnTimeLimitSec int `json:"turnTimeLimitSec"`
}

// TurnResult summarizes the most recent roll for display.
type TurnResult struct {
	Die1        int    `json:"die1"`
	Die2        int    `json:"die2"`
	Description string `json:"description"`
	ChanceEvent string `json:"chanceEvent,omitempty"`
}

// Game is the root aggregate. Every player and square mutation goes through
// this document so that one turn step persists atomically. Version is the
// optimistic concurrency token checked on save.
type Game struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Version  int          `json:"version"`
	Status   GameStatus   `json:"status"`
	Settings GameSettings `json:"settings"`

	// Players in join order; shuffled once when the game starts.
	Players []*Player `json:"players"`

	// Squares maps square id (1..40) to its mutable per-game state.
	Squares map[int]*SquareGameData `json:"squares"`

	NextPlayerToAct uuid.UUID `json:"nextPlayerToAct"`

	// At most one sub-game reference is non-nil at a time.
	AuctionID  *uuid.UUID `json:"auctionId,omitempty"`
	LottoID    *uuid.UUID `json:"lottoId,omitempty"`
	TreasureID *uuid.UUID `json:"treasureId,omitempty"`

	LastResult *TurnResult `json:"lastResult,omitempty"`

	// ActDeadline is when the acting player's turn expires; compared against
	// the clock on demand rather than driven by a timer callback.
	ActDeadline time.Time `json:"actDeadline"`

	CreatedAt time.Time `json:"createdAt"`
}

// PlayerByID returns the player with the given id, or nil.
func (g *Game) PlayerByID(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ActivePlayers returns players that have not gone bankrupt.
func (g *Game) ActivePlayers() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.State != PlayerStateBankrupt {
			out = append(out, p)
		}
	}
	return out
}

// SquaresOwnedBy returns the square ids owned by the given player, ascending.
func (g *Game) SquaresOwnedBy(playerID uuid.UUID) []int {
	var ids []int
	for id, sq := range g.Squares {
		if sq.OwnerID != nil && *sq.OwnerID == playerID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

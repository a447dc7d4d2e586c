// internal/engine/engine.go
package engine

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// Engine owns every rule transition of the game. All mutating actions for a
// given game id are serialized through a per-game mutex (single writer per
// aggregate); the store's version check guards against writers outside this
// process. Each action follows load -> validate -> mutate -> save; rule
// violations are returned as human-readable strings with no partial
// mutation, and broadcasts happen only after the save succeeded.
type Engine struct {
	store Store
	log   *logrus.Logger

	// BroadcastFn fans an event out to all connected clients of a game.
	// Nil disables broadcasting (tests observe state directly instead).
	BroadcastFn func(gameID uuid.UUID, ev Event)

	// Recorder receives the action audit log; nil disables recording.
	Recorder Recorder

	// now is the clock used for turn deadlines; replaceable in tests.
	now func() time.Time

	// intn draws a uniform integer in [0, n); replaceable in tests.
	intn func(n int) int

	mu          sync.Mutex
	gameLocks   map[uuid.UUID]*sync.Mutex
	actionIndex map[uuid.UUID]int
}

// New builds an Engine over the given store.
func New(store Store, log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
	}
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		store:       store,
		log:         log,
		now:         time.Now,
		intn:        r.Intn,
		gameLocks:   make(map[uuid.UUID]*sync.Mutex),
		actionIndex: make(map[uuid.UUID]int),
	}
}

// GetGame returns the current state of a game for read-only use.
func (e *Engine) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	return e.store.GetGame(ctx, id)
}

// GetAuction returns the current state of an auction for read-only use.
func (e *Engine) GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	return e.store.GetAuction(ctx, id)
}

// GetLotto returns the current state of a lotto for read-only use.
func (e *Engine) GetLotto(ctx context.Context, id uuid.UUID) (*models.Lotto, error) {
	return e.store.GetLotto(ctx, id)
}

// GetTreasure returns the current state of a treasure chase for read-only use.
func (e *Engine) GetTreasure(ctx context.Context, id uuid.UUID) (*models.Treasure, error) {
	return e.store.GetTreasure(ctx, id)
}

// GetTrade returns the current state of a trade offer for read-only use.
func (e *Engine) GetTrade(ctx context.Context, id uuid.UUID) (*models.TradeOffer, error) {
	return e.store.GetTrade(ctx, id)
}

// lockGame serializes all mutations for one game id.
func (e *Engine) lockGame(gameID uuid.UUID) func() {
	e.mu.Lock()
	l, ok := e.gameLocks[gameID]
	if !ok {
		l = &sync.Mutex{}
		e.gameLocks[gameID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// rollDie draws one uniform die value in [1, 6].
func (e *Engine) rollDie() int {
	return e.intn(6) + 1
}

// draw100 draws a uniform integer in [1, 100].
func (e *Engine) draw100() int {
	return e.intn(100) + 1
}

// emit broadcasts an event if a broadcast function is wired.
func (e *Engine) emit(gameID uuid.UUID, ev Event) {
	if e.BroadcastFn != nil {
		ev.GameID = gameID
		e.BroadcastFn(gameID, ev)
	}
}

// record appends an action to the historian log, best effort.
func (e *Engine) record(gameID, actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	if e.Recorder == nil {
		return
	}
	e.mu.Lock()
	e.actionIndex[gameID]++
	idx := e.actionIndex[gameID]
	e.mu.Unlock()
	e.Recorder.Record(ActionRecord{
		GameID:      gameID,
		ActionIndex: idx,
		ActorUserID: actorID,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   e.now().Unix(),
	})
}

// resetDeadline restarts the acting player's turn clock.
func (e *Engine) resetDeadline(g *models.Game) {
	if g.Settings.TurnTimeLimitSec > 0 {
		g.ActDeadline = e.now().Add(time.Duration(g.Settings.TurnTimeLimitSec) * time.Second)
	}
}

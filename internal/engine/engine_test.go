// internal/engine/engine_test.go
package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

var testCtx = context.Background()

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []Event
}

func (mb *mockBroadcaster) broadcast(_ uuid.UUID, ev Event) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) eventsOfType(t EventType) []Event {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []Event
	for _, ev := range mb.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = nil
}

// mockRecorder collects action records in memory.
type mockRecorder struct {
	mu   sync.Mutex
	recs []ActionRecord
}

func (mr *mockRecorder) Record(rec ActionRecord) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.recs = append(mr.recs, rec)
}

func (mr *mockRecorder) actionTypes() []string {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	var out []string
	for _, r := range mr.recs {
		out = append(out, r.ActionType)
	}
	return out
}

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestEngine builds an engine over a MemStore with a fixed clock and a
// zero-returning random source, both overridable per test.
func newTestEngine(t *testing.T) (*Engine, *MemStore, *mockBroadcaster) {
	t.Helper()
	store := NewMemStore()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	e := New(store, logger)
	e.now = func() time.Time { return testStart }
	e.intn = func(n int) int { return 0 }
	mb := &mockBroadcaster{}
	e.BroadcastFn = mb.broadcast
	return e, store, mb
}

// scriptRand replaces the engine's random source with a queue of raw intn
// return values, falling back to 0 once drained.
func scriptRand(e *Engine, vals ...int) {
	queue := vals
	e.intn = func(n int) int {
		if len(queue) == 0 {
			return 0
		}
		v := queue[0]
		queue = queue[1:]
		return v % n
	}
}

// setupTestGame creates a game and fills it, returning the started game.
// Players join cycling through models.PlayerClasses in declaration order; the
// zero-valued shuffle still permutes seats, so read order from g.Players.
func setupTestGame(t *testing.T, e *Engine, numPlayers int) *models.Game {
	t.Helper()
	g, errMsg, err := e.CreateGame(testCtx, "test game", models.GameSettings{
		InitialMoney:     1500,
		MaxPlayers:       numPlayers,
		TurnTimeLimitSec: 60,
	})
	require.NoError(t, err)
	require.Empty(t, errMsg)

	for i := 0; i < numPlayers; i++ {
		actx := models.ActionContext{GameID: g.ID, UserID: uuid.New()}
		g, errMsg, err = e.JoinGame(testCtx, actx,
			fmt.Sprintf("player-%d", i), fmt.Sprintf("piece-%d", i),
			models.PlayerClasses[i%len(models.PlayerClasses)])
		require.NoError(t, err)
		require.Empty(t, errMsg)
	}
	require.Equal(t, models.GameStatusActive, g.Status)
	return g
}

// mutateGame applies fn to the stored game document and saves it back,
// bypassing the action surface so tests can stage board states directly.
func mutateGame(t *testing.T, store *MemStore, gameID uuid.UUID, fn func(g *models.Game)) *models.Game {
	t.Helper()
	g, err := store.GetGame(testCtx, gameID)
	require.NoError(t, err)
	fn(g)
	require.NoError(t, store.SaveGame(testCtx, g))
	return g
}

// reload fetches a fresh copy of the game document.
func reload(t *testing.T, store *MemStore, gameID uuid.UUID) *models.Game {
	t.Helper()
	g, err := store.GetGame(testCtx, gameID)
	require.NoError(t, err)
	return g
}

// actingPlayer returns the player whose turn it is.
func actingPlayer(t *testing.T, g *models.Game) *models.Player {
	t.Helper()
	pl := g.PlayerByID(g.NextPlayerToAct)
	require.NotNil(t, pl)
	return pl
}

// giveAllSquares assigns every purchasable square to one player so rolls
// trigger no auctions; useful when a test only cares about movement.
func giveAllSquares(t *testing.T, store *MemStore, gameID uuid.UUID, ownerID uuid.UUID) *models.Game {
	t.Helper()
	return mutateGame(t, store, gameID, func(g *models.Game) {
		for id, sq := range g.Squares {
			cfg := board.MustGet(id)
			if cfg.IsPurchasable() {
				owner := ownerID
				sq.OwnerID = &owner
				sq.PurchasePrice = cfg.Price
				sq.MortgageValue = cfg.Price * 30 / 100
			}
		}
	})
}

func TestMemStoreVersioning(t *testing.T) {
	store := NewMemStore()
	g := &models.Game{ID: uuid.New(), Name: "versioned"}
	require.NoError(t, store.CreateGame(testCtx, g))
	require.Equal(t, 1, g.Version)

	copy1, err := store.GetGame(testCtx, g.ID)
	require.NoError(t, err)
	copy2, err := store.GetGame(testCtx, g.ID)
	require.NoError(t, err)

	copy1.Name = "first writer"
	require.NoError(t, store.SaveGame(testCtx, copy1))
	require.Equal(t, 2, copy1.Version)

	copy2.Name = "second writer"
	require.ErrorIs(t, store.SaveGame(testCtx, copy2), ErrVersionConflict)

	_, err = store.GetGame(testCtx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

// internal/engine/lifecycle_test.go
package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

func TestCreateGameInitializesBoard(t *testing.T) {
	e, _, _ := newTestEngine(t)

	g, errMsg, err := e.CreateGame(testCtx, "friday night", models.GameSettings{})
	require.NoError(t, err)
	require.Empty(t, errMsg)

	assert.Equal(t, models.GameStatusJoining, g.Status)
	assert.Equal(t, DefaultSettings, g.Settings, "zero settings fall back to defaults")
	assert.Len(t, g.Squares, board.NumSquares)
	for id := 1; id <= board.NumSquares; id++ {
		sq := g.Squares[id]
		require.NotNil(t, sq, "square %d missing", id)
		assert.Nil(t, sq.OwnerID)
		assert.Equal(t, board.MustGet(id).Rent, sq.Rent)
	}

	_, errMsg, err = e.CreateGame(testCtx, "   ", models.GameSettings{})
	require.NoError(t, err)
	assert.Equal(t, "game name is required", errMsg)
}

func TestJoinGameValidation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g, _, err := e.CreateGame(testCtx, "test game", models.GameSettings{MaxPlayers: 3})
	require.NoError(t, err)

	u1 := uuid.New()
	_, errMsg, err := e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1}, "alice", "hat", "WIZARD")
	require.NoError(t, err)
	assert.Equal(t, "unknown player class", errMsg)

	_, errMsg, err = e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1}, "", "hat", models.ClassGambler)
	require.NoError(t, err)
	assert.Equal(t, "player name is required", errMsg)

	g2, errMsg, err := e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1}, "alice", "hat", models.ClassGambler)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	require.Len(t, g2.Players, 1)
	pl := g2.Players[0]
	assert.Equal(t, board.PayDayPosition, pl.Position)
	assert.Equal(t, DefaultSettings.InitialMoney, pl.Money)
	assert.Equal(t, traits.For(models.ClassGambler).StartingSkills, pl.Skills)

	_, errMsg, err = e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1}, "alice again", "dog", models.ClassBanker)
	require.NoError(t, err)
	assert.Equal(t, "you have already joined this game", errMsg)

	_, errMsg, err = e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: uuid.New()}, "bob", "hat", models.ClassBanker)
	require.NoError(t, err)
	assert.Equal(t, "the hat piece is already taken", errMsg)
}

func TestGameStartsWhenFull(t *testing.T) {
	e, _, mb := newTestEngine(t)
	g := setupTestGame(t, e, 4)

	assert.Equal(t, models.GameStatusActive, g.Status)
	assert.Equal(t, g.Players[0].ID, g.NextPlayerToAct)
	assert.False(t, g.ActDeadline.IsZero())

	seen := map[string]bool{}
	for _, pl := range g.Players {
		assert.NotEmpty(t, pl.Color)
		assert.False(t, seen[pl.Color], "colors must be unique")
		seen[pl.Color] = true
		assert.Zero(t, pl.TaxesPerTurn)
		assert.Equal(t, pl.Money, pl.TotalAssets, "no holdings at start")
	}
	assert.NotEmpty(t, mb.eventsOfType(EventServerMessage))

	// A fifth player cannot join a started game.
	_, errMsg, err := e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: uuid.New()}, "late", "boot", models.ClassGambler)
	require.NoError(t, err)
	assert.Equal(t, "the game is no longer accepting players", errMsg)
}

func TestLeaveWhileJoiningRemovesPlayer(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g, _, err := e.CreateGame(testCtx, "test game", models.GameSettings{MaxPlayers: 3})
	require.NoError(t, err)

	u1, u2 := uuid.New(), uuid.New()
	_, _, err = e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1}, "alice", "hat", models.ClassGambler)
	require.NoError(t, err)
	_, _, err = e.JoinGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u2}, "bob", "dog", models.ClassBanker)
	require.NoError(t, err)

	g2, errMsg, err := e.LeaveGame(testCtx, models.ActionContext{GameID: g.ID, UserID: u1})
	require.NoError(t, err)
	require.Empty(t, errMsg)
	require.Len(t, g2.Players, 1)
	assert.Equal(t, u2, g2.Players[0].ID)
}

func TestLeaveActiveGameBankruptsPlayer(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 3)
	leaver := g.Players[0]
	mutateGame(t, store, g.ID, func(g *models.Game) {
		id := leaver.ID
		g.Squares[2].OwnerID = &id
		g.Squares[2].PurchasePrice = 60
		g.Squares[2].MortgageValue = 18
		g.Squares[2].NumHouses = 2
	})

	g2, errMsg, err := e.LeaveGame(testCtx, models.ActionContext{GameID: g.ID, UserID: leaver.ID})
	require.NoError(t, err)
	require.Empty(t, errMsg)

	require.Len(t, g2.Players, 3, "bankrupt players stay in the document")
	pl := g2.PlayerByID(leaver.ID)
	assert.Equal(t, models.PlayerStateBankrupt, pl.State)
	assert.Nil(t, g2.Squares[2].OwnerID, "squares return to the bank")
	assert.Equal(t, 0, g2.Squares[2].NumHouses)
	assert.NotEqual(t, leaver.ID, g2.NextPlayerToAct)
	assert.Equal(t, models.GameStatusActive, g2.Status, "two solvent players remain")
}

func TestGameFinishesWhenOnePlayerRemains(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)

	g2, errMsg, err := e.LeaveGame(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[0].ID})
	require.NoError(t, err)
	require.Empty(t, errMsg)

	assert.Equal(t, models.GameStatusFinished, g2.Status)
	require.NotNil(t, g2.LastResult)
	assert.Contains(t, g2.LastResult.Description, g.Players[1].Name)
	assert.Contains(t, g2.LastResult.Description, "wins")
	assert.True(t, g2.ActDeadline.IsZero())
}

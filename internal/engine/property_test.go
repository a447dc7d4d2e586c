// internal/engine/property_test.go
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// stageOwnedGroup gives the first player the full first color group (2, 4, 5).
func stageOwnedGroup(t *testing.T, store *MemStore, g *models.Game) {
	t.Helper()
	mutateGame(t, store, g.ID, func(g *models.Game) {
		for _, id := range []int{2, 4, 5} {
			owner := g.Players[0].ID
			g.Squares[id].OwnerID = &owner
			g.Squares[id].PurchasePrice = 60
			g.Squares[id].MortgageValue = 18
		}
	})
}

func TestMortgageAndRedeem(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	owner := g.Players[0]
	stageOwnedGroup(t, store, g)
	actx := models.ActionContext{GameID: g.ID, UserID: owner.ID}

	g2, errMsg, err := e.Mortgage(testCtx, actx, 2)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.True(t, g2.Squares[2].IsMortgaged)
	assert.Equal(t, 1500+18, g2.PlayerByID(owner.ID).Money)

	_, errMsg, err = e.Mortgage(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "the square is already mortgaged", errMsg)

	// Redeeming costs the mortgage value plus 10% interest.
	g3, errMsg, err := e.Redeem(testCtx, actx, 2)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.False(t, g3.Squares[2].IsMortgaged)
	assert.Equal(t, 1500+18-19, g3.PlayerByID(owner.ID).Money)

	_, errMsg, err = e.Redeem(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "the square is not mortgaged", errMsg)
}

func TestMortgageRequiresOwnershipAndNoHouses(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	owner, other := g.Players[0], g.Players[1]
	stageOwnedGroup(t, store, g)

	_, errMsg, err := e.Mortgage(testCtx, models.ActionContext{GameID: g.ID, UserID: other.ID}, 2)
	require.NoError(t, err)
	assert.Equal(t, "you do not own this square", errMsg)

	mutateGame(t, store, g.ID, func(g *models.Game) {
		g.Squares[2].NumHouses = 1
	})
	_, errMsg, err = e.Mortgage(testCtx, models.ActionContext{GameID: g.ID, UserID: owner.ID}, 2)
	require.NoError(t, err)
	assert.Equal(t, "sell the houses before mortgaging", errMsg)
}

func TestBuildHouseRequiresFullGroup(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	owner := g.Players[0]
	actx := models.ActionContext{GameID: g.ID, UserID: owner.ID}

	// Owning only part of the group blocks building.
	mutateGame(t, store, g.ID, func(g *models.Game) {
		id := owner.ID
		g.Squares[2].OwnerID = &id
		g.Squares[2].PurchasePrice = 60
		g.Squares[2].MortgageValue = 18
	})
	_, errMsg, err := e.BuildHouse(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "you must own the entire color group to build", errMsg)

	stageOwnedGroup(t, store, g)
	g2, errMsg, err := e.BuildHouse(testCtx, actx, 2)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.Equal(t, 1, g2.Squares[2].NumHouses)
	assert.Equal(t, 1500-50, g2.PlayerByID(owner.ID).Money)

	// A mortgaged square anywhere in the group blocks further building.
	mutateGame(t, store, g.ID, func(g *models.Game) {
		g.Squares[4].IsMortgaged = true
	})
	_, errMsg, err = e.BuildHouse(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "you cannot build while a square in the group is mortgaged", errMsg)
}

func TestBuildHouseCapsAtHotel(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	owner := g.Players[0]
	stageOwnedGroup(t, store, g)
	mutateGame(t, store, g.ID, func(g *models.Game) {
		g.Squares[2].NumHouses = 5
	})

	_, errMsg, err := e.BuildHouse(testCtx, models.ActionContext{GameID: g.ID, UserID: owner.ID}, 2)
	require.NoError(t, err)
	assert.Equal(t, "the square already has a hotel", errMsg)
}

func TestSellHouseRefundsHalfCost(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	owner := g.Players[0]
	stageOwnedGroup(t, store, g)
	mutateGame(t, store, g.ID, func(g *models.Game) {
		g.Squares[2].NumHouses = 2
	})
	actx := models.ActionContext{GameID: g.ID, UserID: owner.ID}

	g2, errMsg, err := e.SellHouse(testCtx, actx, 2)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.Equal(t, 1, g2.Squares[2].NumHouses)
	assert.Equal(t, 1500+25, g2.PlayerByID(owner.ID).Money)

	mutateGame(t, store, g.ID, func(g *models.Game) {
		g.Squares[2].NumHouses = 0
	})
	_, errMsg, err = e.SellHouse(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "there are no houses to sell", errMsg)
}

func TestPayIsolationFine(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	pl := g.Players[0]
	actx := models.ActionContext{GameID: g.ID, UserID: pl.ID}

	_, errMsg, err := e.PayIsolationFine(testCtx, actx)
	require.NoError(t, err)
	assert.Equal(t, "you are not in isolation", errMsg)

	mutateGame(t, store, g.ID, func(g *models.Game) {
		p := g.PlayerByID(pl.ID)
		p.State = models.PlayerStateInIsolation
		p.IsolationTurnsLeft = IsolationHoldTurns
	})
	g2, errMsg, err := e.PayIsolationFine(testCtx, actx)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	p := g2.PlayerByID(pl.ID)
	assert.Equal(t, models.PlayerStateActive, p.State)
	assert.Equal(t, 0, p.IsolationTurnsLeft)
	assert.Equal(t, 1500-IsolationFine, p.Money)
}

func TestConductorTravelBetweenOwnedStations(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)

	var conductor *models.Player
	for _, pl := range g.Players {
		if pl.Class == models.ClassConductor {
			conductor = pl
		}
	}
	require.NotNil(t, conductor)
	actx := models.ActionContext{GameID: g.ID, UserID: conductor.ID}

	mutateGame(t, store, g.ID, func(g *models.Game) {
		id := conductor.ID
		for _, sid := range []int{6, 16} {
			g.Squares[sid].OwnerID = &id
			g.Squares[sid].PurchasePrice = 200
			g.Squares[sid].MortgageValue = 60
		}
		p := g.PlayerByID(conductor.ID)
		p.Position = 6
		p.CanTravel = true
	})

	_, errMsg, err := e.Travel(testCtx, actx, 6)
	require.NoError(t, err)
	assert.Equal(t, "you are already there", errMsg)

	_, errMsg, err = e.Travel(testCtx, actx, 26)
	require.NoError(t, err)
	assert.Equal(t, "you do not own that station", errMsg)

	_, errMsg, err = e.Travel(testCtx, actx, 2)
	require.NoError(t, err)
	assert.Equal(t, "you can only travel to a train station", errMsg)

	g2, errMsg, err := e.Travel(testCtx, actx, 16)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	p := g2.PlayerByID(conductor.ID)
	assert.Equal(t, 16, p.Position)
	assert.True(t, p.HasTraveled)
	assert.False(t, p.CanTravel)

	_, errMsg, err = e.Travel(testCtx, actx, 6)
	require.NoError(t, err)
	assert.Equal(t, "you are not at one of your stations", errMsg)
}

func TestTravelRequiresConductorClass(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)

	var gambler *models.Player
	for _, pl := range g.Players {
		if pl.Class == models.ClassGambler {
			gambler = pl
		}
	}
	require.NotNil(t, gambler)

	_, errMsg, err := e.Travel(testCtx, models.ActionContext{GameID: g.ID, UserID: gambler.ID}, 16)
	require.NoError(t, err)
	assert.Equal(t, "your class cannot travel", errMsg)
}

func TestUseSkillPoint(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	pl := g.Players[0]
	actx := models.ActionContext{GameID: g.ID, UserID: pl.ID}

	_, errMsg, err := e.UseSkillPoint(testCtx, actx, "charisma")
	require.NoError(t, err)
	assert.Equal(t, "unknown skill", errMsg)

	before := pl.Skills
	g2, errMsg, err := e.UseSkillPoint(testCtx, actx, "corruption")
	require.NoError(t, err)
	require.Empty(t, errMsg)
	after := g2.PlayerByID(pl.ID).Skills
	assert.Equal(t, before.Corruption+1, after.Corruption)
	assert.Equal(t, before.AbilityPoints-1, after.AbilityPoints)

	// Starting classes have exactly one unspent point.
	_, errMsg, err = e.UseSkillPoint(testCtx, actx, "luck")
	require.NoError(t, err)
	assert.Equal(t, "you have no ability points to spend", errMsg)
}

// internal/engine/auction_test.go
package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// openAuction rolls the acting player onto square 5 so a live auction exists.
func openAuction(t *testing.T, e *Engine, store *MemStore, g *models.Game) *models.Auction {
	t.Helper()
	mover := actingPlayer(t, g)
	scriptRand(e, 2, 0) // dice 3 and 1: 1+4 = 5
	g2, errMsg, err := e.Roll(testCtx, models.ActionContext{GameID: g.ID, UserID: mover.ID})
	require.NoError(t, err)
	require.Empty(t, errMsg)
	require.NotNil(t, g2.AuctionID)
	a, err := store.GetAuction(testCtx, *g2.AuctionID)
	require.NoError(t, err)
	return a
}

func TestAuctionHighestBidderWins(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	openAuction(t, e, store, g)
	mover := actingPlayer(t, g)
	other := g.Players[1]

	_, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: mover.ID}, 150)
	require.NoError(t, err)
	require.Empty(t, errMsg)

	a, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: other.ID}, 100)
	require.NoError(t, err)
	require.Empty(t, errMsg)

	require.True(t, a.Finished)
	require.False(t, a.IsTie)
	require.NotNil(t, a.WinnerID)
	assert.Equal(t, mover.ID, *a.WinnerID)

	g2 := reload(t, store, g.ID)
	assert.Nil(t, g2.AuctionID)
	sq := g2.Squares[5]
	require.NotNil(t, sq.OwnerID)
	assert.Equal(t, mover.ID, *sq.OwnerID)
	assert.Equal(t, 150, sq.PurchasePrice, "purchase price is the winning bid, not the list price")
	assert.Equal(t, 45, sq.MortgageValue)
	assert.Equal(t, 1500-150, g2.PlayerByID(mover.ID).Money)
	assert.Equal(t, 1500, g2.PlayerByID(other.ID).Money)
}

func TestAuctionTieVoidsSale(t *testing.T) {
	e, store, mb := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	openAuction(t, e, store, g)
	mb.clear()

	for _, pl := range g.Players {
		_, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: pl.ID}, 150)
		require.NoError(t, err)
		require.Empty(t, errMsg)
	}

	g2 := reload(t, store, g.ID)
	assert.Nil(t, g2.AuctionID)
	assert.Nil(t, g2.Squares[5].OwnerID, "a tied auction sells to nobody")
	for _, pl := range g2.Players {
		assert.Equal(t, 1500, pl.Money)
	}
	assert.NotEmpty(t, mb.eventsOfType(EventServerMessage))
}

func TestAuctionBidValidation(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	openAuction(t, e, store, g)
	mover := actingPlayer(t, g)
	actx := models.ActionContext{GameID: g.ID, UserID: mover.ID}

	_, errMsg, err := e.Bid(testCtx, actx, -1)
	require.NoError(t, err)
	assert.Equal(t, "bid cannot be negative", errMsg)

	_, errMsg, err = e.Bid(testCtx, actx, 1501)
	require.NoError(t, err)
	assert.Equal(t, "you cannot bid more money than you have", errMsg)

	// Bidding the entire balance is legal.
	a, errMsg, err := e.Bid(testCtx, actx, 1500)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.True(t, a.BidderByID(mover.ID).SubmittedBid)

	// Double submission is rejected.
	_, errMsg, err = e.Bid(testCtx, actx, 10)
	require.NoError(t, err)
	assert.Equal(t, "you have already bid", errMsg)

	// An outsider cannot bid.
	_, errMsg, err = e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: uuid.New()}, 10)
	require.NoError(t, err)
	assert.Equal(t, "you are not part of this auction", errMsg)
}

func TestAuctionStaysOpenUntilAllBidsIn(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 3)
	openAuction(t, e, store, g)

	a, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[0].ID}, 50)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.False(t, a.Finished)

	a, errMsg, err = e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[1].ID}, 60)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.False(t, a.Finished)

	g2 := reload(t, store, g.ID)
	require.NotNil(t, g2.AuctionID, "the game still references the open auction")

	a, errMsg, err = e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[2].ID}, 40)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	assert.True(t, a.Finished)
	require.NotNil(t, a.WinnerID)
	assert.Equal(t, g.Players[1].ID, *a.WinnerID)
}

func TestBidWithNoAuctionInProgress(t *testing.T) {
	e, _, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)

	_, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[0].ID}, 10)
	require.NoError(t, err)
	assert.Equal(t, "no auction in progress", errMsg)
}

func TestAuctionZeroBidIsAPass(t *testing.T) {
	e, store, _ := newTestEngine(t)
	g := setupTestGame(t, e, 2)
	openAuction(t, e, store, g)

	_, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[0].ID}, 0)
	require.NoError(t, err)
	require.Empty(t, errMsg)

	a, errMsg, err := e.Bid(testCtx, models.ActionContext{GameID: g.ID, UserID: g.Players[1].ID}, 30)
	require.NoError(t, err)
	require.Empty(t, errMsg)
	require.True(t, a.Finished)
	assert.Equal(t, g.Players[1].ID, *a.WinnerID)

	g2 := reload(t, store, g.ID)
	assert.Equal(t, 1500-30, g2.PlayerByID(g.Players[1].ID).Money)
}

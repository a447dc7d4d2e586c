// internal/money/money_test.go
package money

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

func TestMortgageAndRedeemMath(t *testing.T) {
	assert.Equal(t, 18, MortgageValueOf(60))
	assert.Equal(t, 120, MortgageValueOf(400))
	assert.Equal(t, 0, MortgageValueOf(0))

	assert.Equal(t, 19, RedeemCostOf(18))
	assert.Equal(t, 132, RedeemCostOf(120))

	assert.Equal(t, 25, HouseSaleValueOf(50))
	assert.Equal(t, 100, HouseSaleValueOf(200))
}

// rentGame builds a bare game document with the given squares owned.
func rentGame(owned map[int]uuid.UUID) *models.Game {
	g := &models.Game{Squares: map[int]*models.SquareGameData{}}
	for id, ownerID := range owned {
		owner := ownerID
		cfg := board.MustGet(id)
		g.Squares[id] = &models.SquareGameData{
			SquareID:      id,
			OwnerID:       &owner,
			PurchasePrice: cfg.Price,
			MortgageValue: MortgageValueOf(cfg.Price),
			Rent:          cfg.Rent,
		}
	}
	return g
}

func TestRentOwedOnProperty(t *testing.T) {
	owner := uuid.New()
	visitor := uuid.New()
	g := rentGame(map[int]uuid.UUID{5: owner})

	assert.Equal(t, 6, RentOwed(g, 5, visitor))

	g.Squares[5].NumHouses = 3
	assert.Equal(t, 270, RentOwed(g, 5, visitor))

	g.Squares[5].NumHouses = 5
	assert.Equal(t, 550, RentOwed(g, 5, visitor))
}

func TestRentOwedOnStationsScalesWithHoldings(t *testing.T) {
	owner := uuid.New()
	visitor := uuid.New()

	g := rentGame(map[int]uuid.UUID{6: owner})
	assert.Equal(t, 25, RentOwed(g, 6, visitor))

	g = rentGame(map[int]uuid.UUID{6: owner, 16: owner})
	assert.Equal(t, 50, RentOwed(g, 6, visitor))

	g = rentGame(map[int]uuid.UUID{6: owner, 16: owner, 26: owner, 36: owner})
	assert.Equal(t, 200, RentOwed(g, 36, visitor))
}

func TestRentOwedOnUtilities(t *testing.T) {
	owner := uuid.New()
	visitor := uuid.New()

	g := rentGame(map[int]uuid.UUID{13: owner})
	assert.Equal(t, 20, RentOwed(g, 13, visitor))

	g = rentGame(map[int]uuid.UUID{13: owner, 29: owner})
	assert.Equal(t, 40, RentOwed(g, 13, visitor))
}

func TestRentOwedSkipsUnownedMortgagedAndSelf(t *testing.T) {
	owner := uuid.New()
	visitor := uuid.New()
	g := rentGame(map[int]uuid.UUID{5: owner})

	assert.Equal(t, 0, RentOwed(g, 2, visitor), "unowned square")
	assert.Equal(t, 0, RentOwed(g, 5, owner), "own square")

	g.Squares[5].IsMortgaged = true
	assert.Equal(t, 0, RentOwed(g, 5, visitor), "mortgaged square")
}

func TestCollectRent(t *testing.T) {
	payer := &models.Player{Money: 100}
	owner := &models.Player{Money: 100}

	CollectRent(payer, owner, 60)
	assert.Equal(t, 40, payer.Money)
	assert.Equal(t, 160, owner.Money)

	// The payer may go negative; bankruptcy is resolved elsewhere.
	CollectRent(payer, owner, 60)
	assert.Equal(t, -20, payer.Money)

	CollectRent(payer, owner, 0)
	assert.Equal(t, -20, payer.Money)
	assert.Equal(t, 220, owner.Money)
}

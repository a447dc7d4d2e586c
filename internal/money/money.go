// internal/money/money.go
package money

import (
	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// Design constants for property finance.
const (
	// MortgagePercent of purchase price is paid out when mortgaging.
	MortgagePercent = 30
	// RedeemInterestPercent is added on top of the mortgage value to redeem.
	RedeemInterestPercent = 10
)

// MortgageValueOf returns the cash received for mortgaging a square bought
// at the given price.
func MortgageValueOf(purchasePrice int) int {
	return purchasePrice * MortgagePercent / 100
}

// RedeemCostOf returns the cash required to lift a mortgage.
func RedeemCostOf(mortgageValue int) int {
	return mortgageValue + mortgageValue*RedeemInterestPercent/100
}

// HouseSaleValueOf returns the cash received for selling one house, half of
// its build cost.
func HouseSaleValueOf(houseCost int) int {
	return houseCost / 2
}

// RentOwed computes the rent due when visitor lands on the given square.
// Returns 0 when the square is unowned, mortgaged, or owned by the visitor.
func RentOwed(g *models.Game, squareID int, visitorID uuid.UUID) int {
	sq := g.Squares[squareID]
	if sq == nil || sq.OwnerID == nil || sq.IsMortgaged || *sq.OwnerID == visitorID {
		return 0
	}
	cfg := board.MustGet(squareID)
	switch cfg.Type {
	case board.TypeProperty:
		return sq.Rent[sq.NumHouses]
	case board.TypeTrainStation:
		owned := countOwnedOfType(g, *sq.OwnerID, board.TypeTrainStation)
		if owned < 1 {
			owned = 1
		}
		if owned > 4 {
			owned = 4
		}
		return sq.Rent[owned-1]
	case board.TypeUtility:
		if countOwnedOfType(g, *sq.OwnerID, board.TypeUtility) >= 2 {
			return sq.Rent[1]
		}
		return sq.Rent[0]
	}
	return 0
}

// CollectRent moves the amount from payer to owner. The payer's balance may
// go negative; bankruptcy is checked separately.
func CollectRent(payer, owner *models.Player, amount int) {
	if amount <= 0 {
		return
	}
	payer.Money -= amount
	owner.Money += amount
}

func countOwnedOfType(g *models.Game, ownerID uuid.UUID, t board.SquareType) int {
	n := 0
	for id, sq := range g.Squares {
		if sq.OwnedBy(ownerID) && board.MustGet(id).Type == t {
			n++
		}
	}
	return n
}

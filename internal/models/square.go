// internal/models/square.go
package models

import "github.com/google/uuid"

// SquareGameData is the mutable per-game state of one board square.
//
// Tax, HouseCost and Rent are copied in from the board configuration table at
// game creation so that later table edits cannot retroactively affect a game
// in progress. Invariants: a non-nil OwnerID implies PurchasePrice and
// MortgageValue are set; NumHouses > 0 implies the square is not mortgaged
// and its owner holds the full color group.
type SquareGameData struct {
	SquareID int `json:"squareId"`

	OwnerID *uuid.UUID `json:"ownerId,omitempty"`
	// Color caches the owner's color for rendering.
	Color string `json:"color,omitempty"`

	// NumHouses ranges 0-5; 5 represents a hotel.
	NumHouses     int  `json:"numHouses"`
	IsMortgaged   bool `json:"isMortgaged"`
	PurchasePrice int  `json:"purchasePrice"`
	MortgageValue int  `json:"mortgageValue"`

	HouseCost int     `json:"houseCost"`
	Tax       float64 `json:"tax"`
	Rent      [6]int  `json:"rent"`
}

// OwnedBy reports whether the square is owned by the given player.
func (s *SquareGameData) OwnedBy(playerID uuid.UUID) bool {
	return s.OwnerID != nil && *s.OwnerID == playerID
}

// Release clears all ownership state, returning the square to the bank.
func (s *SquareGameData) Release() {
	s.OwnerID = nil
	s.Color = ""
	s.NumHouses = 0
	s.IsMortgaged = false
	s.PurchasePrice = 0
	s.MortgageValue = 0
}

// internal/models/auction.go
package models

import "github.com/google/uuid"

// Bidder is one participant in a sealed-bid auction. Bid stays nil until the
// player submits; a submitted zero bid is a deliberate pass.
type Bidder struct {
	PlayerID     uuid.UUID `json:"playerId"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Piece        string    `json:"piece"`
	Bid          *int      `json:"bid,omitempty"`
	SubmittedBid bool      `json:"submittedBid"`
}

// Auction is created when a player lands on an unowned purchasable square and
// dereferenced from the game once resolved.
type Auction struct {
	ID       uuid.UUID `json:"id"`
	GameID   uuid.UUID `json:"gameId"`
	SquareID int       `json:"squareId"`
	Version  int       `json:"version"`

	Bidders  []*Bidder  `json:"bidders"`
	Finished bool       `json:"finished"`
	IsTie    bool       `json:"isTie"`
	WinnerID *uuid.UUID `json:"winnerId,omitempty"`
}

// BidderByID returns the bidder entry for a player, or nil.
func (a *Auction) BidderByID(playerID uuid.UUID) *Bidder {
	for _, b := range a.Bidders {
		if b.PlayerID == playerID {
			return b
		}
	}
	return nil
}

// AllBidsSubmitted reports whether every bidder has a recorded bid.
func (a *Auction) AllBidsSubmitted() bool {
	for _, b := range a.Bidders {
		if !b.SubmittedBid || b.Bid == nil {
			return false
		}
	}
	return len(a.Bidders) > 0
}

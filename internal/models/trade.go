// internal/models/trade.go
package models

import "github.com/google/uuid"

// TradeStatus is terminal once accepted or declined.
type TradeStatus string

const (
	TradeStatusOffered  TradeStatus = "OFFERED"
	TradeStatusAccepted TradeStatus = "ACCEPTED"
	TradeStatusDeclined TradeStatus = "DECLINED"
)

// TradeParticipant is one side of an offer: the money and squares that side
// gives away if the trade is accepted.
type TradeParticipant struct {
	PlayerID  uuid.UUID `json:"playerId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Amount    int       `json:"amount"`
	SquareIDs []int     `json:"squareIds"`
}

// TradeOffer is a bilateral offer from participant 1 (the offerer) to
// participant 2 (the receiver), who alone may accept or decline.
type TradeOffer struct {
	ID      uuid.UUID `json:"id"`
	GameID  uuid.UUID `json:"gameId"`
	Version int       `json:"version"`

	Participant1 TradeParticipant `json:"participant1"`
	Participant2 TradeParticipant `json:"participant2"`

	Status TradeStatus `json:"status"`
}

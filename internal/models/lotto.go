// internal/models/lotto.go
package models

import "github.com/google/uuid"

// PrizeOption pairs a prize amount with a win percentage (1-100).
type PrizeOption struct {
	Amount  int `json:"amount"`
	Percent int `json:"percent"`
}

// Lotto is a single-player mini-game created when its owner lands on a lotto
// square. The chosen option wins when the drawn number is <= its percent.
type Lotto struct {
	ID      uuid.UUID `json:"id"`
	GameID  uuid.UUID `json:"gameId"`
	Version int       `json:"version"`

	PlayerID    uuid.UUID `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	PlayerColor string    `json:"playerColor"`

	Options [3]PrizeOption `json:"options"`

	ChosenOption int  `json:"chosenOption"`
	RandomNum    int  `json:"randomNum"`
	Prize        int  `json:"prize"`
	Resolved     bool `json:"resolved"`
}

// Treasure is the chance-square counterpart of Lotto. It carries the same
// shape but is a distinct aggregate referenced by Game.TreasureID.
type Treasure struct {
	ID      uuid.UUID `json:"id"`
	GameID  uuid.UUID `json:"gameId"`
	Version int       `json:"version"`

	PlayerID    uuid.UUID `json:"playerId"`
	PlayerName  string    `json:"playerName"`
	PlayerColor string    `json:"playerColor"`

	Options [3]PrizeOption `json:"options"`

	ChosenOption int  `json:"chosenOption"`
	RandomNum    int  `json:"randomNum"`
	Prize        int  `json:"prize"`
	Resolved     bool `json:"resolved"`
}

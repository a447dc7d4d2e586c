// internal/models/player.go
package models

import "github.com/google/uuid"

// PlayerClass is a closed set; per-class behavior lives in the traits table.
type PlayerClass string

const (
	ClassGambler   PlayerClass = "GAMBLER"
	ClassConductor PlayerClass = "CONDUCTOR"
	ClassGovernor  PlayerClass = "GOVERNOR"
	ClassBanker    PlayerClass = "BANKER"
)

// PlayerClasses lists every valid class, for validation and exhaustive checks.
var PlayerClasses = []PlayerClass{ClassGambler, ClassConductor, ClassGovernor, ClassBanker}

// PlayerState tracks a player's lifecycle within one game. Players are never
// removed from an active game; they transition to BANKRUPT instead.
type PlayerState string

const (
	PlayerStateActive      PlayerState = "ACTIVE"
	PlayerStateInIsolation PlayerState = "IN_ISOLATION"
	PlayerStateBankrupt    PlayerState = "BANKRUPT"
)

// Skills are the per-player skill points. AbilityPoints are unspent.
type Skills struct {
	Negotiation   int `json:"negotiation"`
	Luck          int `json:"luck"`
	Corruption    int `json:"corruption"`
	AbilityPoints int `json:"abilityPoints"`
}

// DiceRoll is one recorded roll of two dice.
type DiceRoll struct {
	Die1 int `json:"die1"`
	Die2 int `json:"die2"`
}

// IsDouble reports whether both dice show the same value.
func (d DiceRoll) IsDouble() bool {
	return d.Die1 == d.Die2
}

// Player is embedded in the Game document.
type Player struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Class PlayerClass `json:"class"`
	State PlayerState `json:"state"`

	// Money is a signed amount; it may legitimately go negative until the
	// next bankruptcy check.
	Money    int    `json:"money"`
	Position int    `json:"position"`
	Color    string `json:"color"`
	Piece    string `json:"piece"`

	Skills Skills `json:"skills"`

	// Derived per-turn figures maintained by the cost calculator.
	TaxesPerTurn            int    `json:"taxesPerTurn"`
	ElectricityCostsPerTurn int    `json:"electricityCostsPerTurn"`
	TotalAssets             int    `json:"totalAssets"`
	MortgageableValue       int    `json:"mortgageableValue"`
	RedeemableValue         int    `json:"redeemableValue"`
	TaxTooltip              string `json:"taxTooltip"`
	ElectricityTooltip      string `json:"electricityTooltip"`

	// Turn bookkeeping. The three roll slots detect three consecutive doubles.
	HasRolled  bool      `json:"hasRolled"`
	LastRoll   *DiceRoll `json:"lastRoll,omitempty"`
	SecondRoll *DiceRoll `json:"secondRoll,omitempty"`
	ThirdRoll  *DiceRoll `json:"thirdRoll,omitempty"`

	HasTraveled bool `json:"hasTraveled"`
	CanTravel   bool `json:"canTravel"`

	// IsolationTurnsLeft counts down on each completed turn while IN_ISOLATION.
	IsolationTurnsLeft int `json:"isolationTurnsLeft"`
}

// RolledThreeDoubles reports whether the last three recorded rolls were all doubles.
func (p *Player) RolledThreeDoubles() bool {
	return p.LastRoll != nil && p.SecondRoll != nil && p.ThirdRoll != nil &&
		p.LastRoll.IsDouble() && p.SecondRoll.IsDouble() && p.ThirdRoll.IsDouble()
}

// ClearRollHistory resets the doubles-detection slots at the end of a turn.
func (p *Player) ClearRollHistory() {
	p.LastRoll = nil
	p.SecondRoll = nil
	p.ThirdRoll = nil
}

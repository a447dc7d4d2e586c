// internal/costs/costs.go
package costs

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/money"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

// CorruptionTaxReductionPercent is the per-skill-point tax discount.
const CorruptionTaxReductionPercent = 3

// Recalculate derives every per-turn financial figure for one player from
// current ownership state. It must run after any ownership, house, or
// mortgage change that touches the player.
func Recalculate(g *models.Game, p *models.Player) {
	recalcElectricity(g, p)
	recalcTaxes(g, p)
	recalcMortgageValues(g, p)
	recalcTotalAssets(g, p)
}

// RecalculateAll runs the derivation for every player in the game.
func RecalculateAll(g *models.Game) {
	for _, p := range g.Players {
		Recalculate(g, p)
	}
}

func recalcElectricity(g *models.Game, p *models.Player) {
	if traits.For(p.Class).ElectricityImmunity {
		p.ElectricityCostsPerTurn = 0
		p.ElectricityTooltip = "Exempt from electricity costs (Governor)"
		return
	}
	if sq := g.Squares[board.SolarFarmPosition]; sq != nil && sq.OwnedBy(p.ID) {
		p.ElectricityCostsPerTurn = 0
		p.ElectricityTooltip = "No electricity costs: you own the Solar Farm"
		return
	}

	total := 0
	var parts []string
	for _, id := range g.SquaresOwnedBy(p.ID) {
		sq := g.Squares[id]
		if sq.IsMortgaged || sq.NumHouses == 0 {
			continue
		}
		cost := sq.NumHouses * board.MustGet(id).ElectricityCost
		total += cost
		parts = append(parts, fmt.Sprintf("%d,%d", id, cost))
	}
	p.ElectricityCostsPerTurn = total
	p.ElectricityTooltip = strings.Join(parts, ";")
}

type taxEntry struct {
	squareID int
	tax      int
	adjusted int
}

func recalcTaxes(g *models.Game, p *models.Player) {
	classMult := traits.For(p.Class).TaxMultiplier
	corruptionMult := 1.0 - float64(CorruptionTaxReductionPercent)*float64(p.Skills.Corruption)/100.0
	if corruptionMult < 0 {
		corruptionMult = 0
	}

	total := 0
	var entries []taxEntry
	for _, id := range g.SquaresOwnedBy(p.ID) {
		sq := g.Squares[id]
		if sq.IsMortgaged || sq.Tax <= 0 {
			continue
		}
		base := int(math.Round(float64(sq.PurchasePrice) * sq.Tax / 100.0))
		adjusted := int(math.Round(float64(base) * classMult * corruptionMult))
		total += adjusted
		entries = append(entries, taxEntry{squareID: id, tax: base, adjusted: adjusted})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].adjusted > entries[j].adjusted
	})
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%d,%d,%d", e.squareID, e.tax, e.adjusted))
	}

	p.TaxesPerTurn = total
	p.TaxTooltip = strings.Join(parts, ";")
}

func recalcMortgageValues(g *models.Game, p *models.Player) {
	mortgageable := 0
	redeemable := 0
	for _, id := range g.SquaresOwnedBy(p.ID) {
		sq := g.Squares[id]
		if sq.IsMortgaged {
			redeemable += money.RedeemCostOf(sq.MortgageValue)
		} else {
			mortgageable += sq.MortgageValue
		}
	}
	p.MortgageableValue = mortgageable
	p.RedeemableValue = redeemable
}

func recalcTotalAssets(g *models.Game, p *models.Player) {
	houses := 0
	for _, id := range g.SquaresOwnedBy(p.ID) {
		sq := g.Squares[id]
		houses += sq.NumHouses * money.HouseSaleValueOf(sq.HouseCost)
	}
	p.TotalAssets = p.Money + p.MortgageableValue + houses
}

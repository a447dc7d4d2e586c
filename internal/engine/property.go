// internal/engine/property.go
package engine

import (
	"context"
	"errors"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/costs"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/money"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

// IsolationFine is the cost of buying an early release from isolation.
const IsolationFine = 50

// propertyAction is the shared load-validate-apply wrapper for the square
// level operations. The apply function returns a rejection string or "".
func (e *Engine) propertyAction(ctx context.Context, actx models.ActionContext, actionType string,
	apply func(g *models.Game, pl *models.Player) string) (*models.Game, string, error) {

	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if g.Status != models.GameStatusActive {
		return nil, "game is not active", nil
	}
	pl := g.PlayerByID(actx.UserID)
	if pl == nil {
		return nil, "you are not in this game", nil
	}
	if pl.State == models.PlayerStateBankrupt {
		return nil, "you are bankrupt", nil
	}

	if msg := apply(g, pl); msg != "" {
		return nil, msg, nil
	}
	costs.Recalculate(g, pl)

	if err := e.store.SaveGame(ctx, g); err != nil {
		return nil, "", err
	}
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	e.record(g.ID, pl.ID, actionType, nil)
	return g, "", nil
}

// Mortgage pledges an owned square for its mortgage value.
func (e *Engine) Mortgage(ctx context.Context, actx models.ActionContext, squareID int) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "mortgage", func(g *models.Game, pl *models.Player) string {
		sq, ok := g.Squares[squareID]
		if !ok {
			return "invalid square"
		}
		if !sq.OwnedBy(pl.ID) {
			return "you do not own this square"
		}
		if sq.IsMortgaged {
			return "the square is already mortgaged"
		}
		if sq.NumHouses > 0 {
			return "sell the houses before mortgaging"
		}
		sq.IsMortgaged = true
		pl.Money += sq.MortgageValue
		return ""
	})
}

// Redeem lifts a mortgage for its mortgage value plus interest.
func (e *Engine) Redeem(ctx context.Context, actx models.ActionContext, squareID int) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "redeem", func(g *models.Game, pl *models.Player) string {
		sq, ok := g.Squares[squareID]
		if !ok {
			return "invalid square"
		}
		if !sq.OwnedBy(pl.ID) {
			return "you do not own this square"
		}
		if !sq.IsMortgaged {
			return "the square is not mortgaged"
		}
		cost := money.RedeemCostOf(sq.MortgageValue)
		if pl.Money < cost {
			return "you cannot afford to redeem this square"
		}
		sq.IsMortgaged = false
		pl.Money -= cost
		return ""
	})
}

// BuildHouse adds one house to a property whose full color group the caller
// owns unmortgaged.
func (e *Engine) BuildHouse(ctx context.Context, actx models.ActionContext, squareID int) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "build_house", func(g *models.Game, pl *models.Player) string {
		sq, ok := g.Squares[squareID]
		if !ok {
			return "invalid square"
		}
		cfg := board.MustGet(squareID)
		if cfg.Type != board.TypeProperty {
			return "houses can only be built on properties"
		}
		if !sq.OwnedBy(pl.ID) {
			return "you do not own this square"
		}
		if sq.NumHouses >= 5 {
			return "the square already has a hotel"
		}
		for _, id := range board.GroupSquares(cfg.GroupID) {
			group := g.Squares[id]
			if !group.OwnedBy(pl.ID) {
				return "you must own the entire color group to build"
			}
			if group.IsMortgaged {
				return "you cannot build while a square in the group is mortgaged"
			}
		}
		if pl.Money < sq.HouseCost {
			return "you cannot afford a house here"
		}
		pl.Money -= sq.HouseCost
		sq.NumHouses++
		return ""
	})
}

// SellHouse removes one house, refunding half its build cost.
func (e *Engine) SellHouse(ctx context.Context, actx models.ActionContext, squareID int) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "sell_house", func(g *models.Game, pl *models.Player) string {
		sq, ok := g.Squares[squareID]
		if !ok {
			return "invalid square"
		}
		if !sq.OwnedBy(pl.ID) {
			return "you do not own this square"
		}
		if sq.NumHouses == 0 {
			return "there are no houses to sell"
		}
		sq.NumHouses--
		pl.Money += money.HouseSaleValueOf(sq.HouseCost)
		return ""
	})
}

// PayIsolationFine releases the caller from isolation immediately for a fee.
func (e *Engine) PayIsolationFine(ctx context.Context, actx models.ActionContext) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "pay_isolation_fine", func(g *models.Game, pl *models.Player) string {
		if pl.State != models.PlayerStateInIsolation {
			return "you are not in isolation"
		}
		if pl.Money < IsolationFine {
			return "you cannot afford the fine"
		}
		pl.Money -= IsolationFine
		pl.State = models.PlayerStateActive
		pl.IsolationTurnsLeft = 0
		return ""
	})
}

// Travel moves a Conductor from one owned station to another, once per turn.
func (e *Engine) Travel(ctx context.Context, actx models.ActionContext, squareID int) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "travel", func(g *models.Game, pl *models.Player) string {
		if !traits.For(pl.Class).CanTravel {
			return "your class cannot travel"
		}
		if !pl.CanTravel {
			return "you are not at one of your stations"
		}
		if pl.HasTraveled {
			return "you have already traveled this turn"
		}
		sq, ok := g.Squares[squareID]
		if !ok || board.MustGet(squareID).Type != board.TypeTrainStation {
			return "you can only travel to a train station"
		}
		if !sq.OwnedBy(pl.ID) {
			return "you do not own that station"
		}
		if pl.Position == squareID {
			return "you are already there"
		}
		pl.Position = squareID
		pl.HasTraveled = true
		pl.CanTravel = false
		return ""
	})
}

// UseSkillPoint spends one unspent ability point on a named skill.
func (e *Engine) UseSkillPoint(ctx context.Context, actx models.ActionContext, skill string) (*models.Game, string, error) {
	return e.propertyAction(ctx, actx, "use_skill_point", func(g *models.Game, pl *models.Player) string {
		if pl.Skills.AbilityPoints <= 0 {
			return "you have no ability points to spend"
		}
		switch skill {
		case "negotiation":
			pl.Skills.Negotiation++
		case "luck":
			pl.Skills.Luck++
		case "corruption":
			pl.Skills.Corruption++
		default:
			return "unknown skill"
		}
		pl.Skills.AbilityPoints--
		return ""
	})
}

// internal/engine/roll.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/money"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

// IsolationHoldTurns is how many of their own turns a player spends in
// isolation before being released automatically.
const IsolationHoldTurns = 2

// RollProcessor advances the acting player: dice, movement, pay-day,
// doubles tracking, and the single post-move trigger (auction, lotto,
// treasure, or rent).
type RollProcessor struct {
	e    *Engine
	actx models.ActionContext

	game   *models.Game
	player *models.Player
}

// NewRollProcessor builds a processor for one action context. Callers go
// through Engine.Roll / Engine.CompleteTurn, which serialize per game.
func NewRollProcessor(e *Engine, actx models.ActionContext) *RollProcessor {
	return &RollProcessor{e: e, actx: actx}
}

// Init loads the game and resolves the acting player.
func (p *RollProcessor) Init(ctx context.Context) error {
	g, err := p.e.store.GetGame(ctx, p.actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p.game = g
	p.player = g.PlayerByID(p.actx.UserID)
	return nil
}

// GetErrMsg runs the roll pre-flight; an empty string means the roll may
// proceed.
func (p *RollProcessor) GetErrMsg() string {
	if p.game == nil {
		return "game not found"
	}
	if p.game.Status != models.GameStatusActive {
		return "game is not active"
	}
	if p.player == nil {
		return "you are not in this game"
	}
	if p.game.NextPlayerToAct != p.player.ID {
		return "it is not your turn"
	}
	if p.player.HasRolled {
		return "you have already rolled this turn"
	}
	if p.player.State == models.PlayerStateInIsolation {
		return "you cannot roll while in isolation"
	}
	// A doubles roll hands the dice back while its landing trigger may still
	// be open; a sub-game reference is only cleared on resolution, so a new
	// roll here would orphan it.
	if p.game.AuctionID != nil {
		return "an auction is still in progress"
	}
	if p.game.LottoID != nil {
		return "resolve your lotto first"
	}
	if p.game.TreasureID != nil {
		return "resolve your treasure first"
	}
	return ""
}

// Roll draws two dice, applies the move, persists the game, and emits
// events for whatever the landing triggered.
func (p *RollProcessor) Roll(ctx context.Context) error {
	return p.apply(ctx, p.e.rollDie(), p.e.rollDie())
}

// apply performs the move for known dice values; Roll and the auto-move
// processor both funnel through here.
func (p *RollProcessor) apply(ctx context.Context, die1, die2 int) error {
	g, pl := p.game, p.player

	pl.ThirdRoll = pl.SecondRoll
	pl.SecondRoll = pl.LastRoll
	pl.LastRoll = &models.DiceRoll{Die1: die1, Die2: die2}

	var createdAuction *models.Auction
	var createdLotto *models.Lotto
	var createdTreasure *models.Treasure
	var desc string

	if pl.RolledThreeDoubles() {
		// Movement is overridden entirely: no displacement, no pay-day
		// credit, and hasRolled stays untouched.
		pl.Position = board.IsolationPosition
		pl.State = models.PlayerStateInIsolation
		pl.IsolationTurnsLeft = IsolationHoldTurns
		pl.ClearRollHistory()
		desc = fmt.Sprintf("%s rolled three doubles in a row and was sent to Isolation", pl.Name)
	} else {
		newPos := pl.Position + die1 + die2
		if newPos > board.NumSquares {
			newPos -= board.NumSquares - 1
			pl.Money += traits.For(pl.Class).Salary
		}
		pl.Position = newPos
		if die1 != die2 {
			pl.HasRolled = true
		}

		cfg := board.MustGet(newPos)
		sq := g.Squares[newPos]
		desc = fmt.Sprintf("%s landed on %s", pl.Name, cfg.Name)

		switch {
		case cfg.Type == board.TypeGoToIsolation:
			pl.Position = board.IsolationPosition
			pl.State = models.PlayerStateInIsolation
			pl.IsolationTurnsLeft = IsolationHoldTurns
			pl.HasRolled = true
			pl.ClearRollHistory()
			desc = fmt.Sprintf("%s was sent to Isolation", pl.Name)

		case cfg.IsPurchasable() && sq.OwnerID == nil:
			a := buildAuction(g, newPos)
			if err := p.e.store.CreateAuction(ctx, a); err != nil {
				return fmt.Errorf("create auction: %w", err)
			}
			g.AuctionID = &a.ID
			createdAuction = a
			desc += "; up for auction"

		case cfg.Type == board.TypeLotto:
			l := p.e.buildLotto(g, pl)
			if err := p.e.store.CreateLotto(ctx, l); err != nil {
				return fmt.Errorf("create lotto: %w", err)
			}
			g.LottoID = &l.ID
			createdLotto = l

		case cfg.Type == board.TypeChance:
			t := p.e.buildTreasure(g, pl)
			if err := p.e.store.CreateTreasure(ctx, t); err != nil {
				return fmt.Errorf("create treasure: %w", err)
			}
			g.TreasureID = &t.ID
			createdTreasure = t

		case sq.OwnerID != nil && *sq.OwnerID != pl.ID && !sq.IsMortgaged:
			owner := g.PlayerByID(*sq.OwnerID)
			if owner != nil && owner.State != models.PlayerStateBankrupt {
				rent := money.RentOwed(g, newPos, pl.ID)
				money.CollectRent(pl, owner, rent)
				desc += fmt.Sprintf(" and paid $%d rent to %s", rent, owner.Name)
			}

		case sq.OwnedBy(pl.ID) && cfg.Type == board.TypeTrainStation:
			if traits.For(pl.Class).CanTravel && !pl.HasTraveled {
				pl.CanTravel = true
			}
		}

		if die1 == die2 && pl.State != models.PlayerStateInIsolation {
			desc += "; rolled a double so go again"
		}
	}

	g.LastResult = &models.TurnResult{Die1: die1, Die2: die2, Description: desc}
	p.e.resetDeadline(g)

	if err := p.e.store.SaveGame(ctx, g); err != nil {
		return err
	}

	p.e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	if createdAuction != nil {
		p.e.emit(g.ID, Event{Type: EventAuction, Payload: createdAuction})
	}
	if createdLotto != nil {
		p.e.emit(g.ID, Event{Type: EventLotto, Payload: createdLotto})
	}
	if createdTreasure != nil {
		p.e.emit(g.ID, Event{Type: EventTreasure, Payload: createdTreasure})
	}
	p.e.record(g.ID, pl.ID, "roll", map[string]interface{}{
		"die1": die1, "die2": die2, "position": pl.Position,
	})
	return nil
}

// completeErrMsg is the pre-flight for ending a turn.
func (p *RollProcessor) completeErrMsg() string {
	if p.game == nil {
		return "game not found"
	}
	if p.game.Status != models.GameStatusActive {
		return "game is not active"
	}
	if p.player == nil {
		return "you are not in this game"
	}
	if p.game.NextPlayerToAct != p.player.ID {
		return "it is not your turn"
	}
	if !p.player.HasRolled && p.player.State != models.PlayerStateInIsolation {
		return "you must roll before completing your turn"
	}
	if p.game.AuctionID != nil {
		return "an auction is still in progress"
	}
	if p.game.LottoID != nil {
		return "resolve your lotto first"
	}
	if p.game.TreasureID != nil {
		return "resolve your treasure first"
	}
	return ""
}

// completeTurn advances nextPlayerToAct to the next non-bankrupt player and
// clears the finished player's turn bookkeeping. Isolated players serve one
// hold turn per completion and are released when the hold reaches zero.
func (p *RollProcessor) completeTurn(ctx context.Context) error {
	g, pl := p.game, p.player

	if pl.State == models.PlayerStateInIsolation {
		pl.IsolationTurnsLeft--
		if pl.IsolationTurnsLeft <= 0 {
			pl.IsolationTurnsLeft = 0
			pl.State = models.PlayerStateActive
		}
	}
	pl.HasRolled = false
	pl.HasTraveled = false
	pl.CanTravel = false
	pl.ClearRollHistory()

	g.NextPlayerToAct = nextActingPlayer(g, pl.ID)
	p.e.resetDeadline(g)

	if err := p.e.store.SaveGame(ctx, g); err != nil {
		return err
	}
	p.e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	p.e.record(g.ID, pl.ID, "complete_turn", nil)
	return nil
}

// nextActingPlayer finds the next non-bankrupt player after the given one,
// wrapping in join (post-shuffle) order.
func nextActingPlayer(g *models.Game, after uuid.UUID) uuid.UUID {
	idx := -1
	for i, pl := range g.Players {
		if pl.ID == after {
			idx = i
			break
		}
	}
	if idx < 0 {
		return after
	}
	for step := 1; step <= len(g.Players); step++ {
		cand := g.Players[(idx+step)%len(g.Players)]
		if cand.State != models.PlayerStateBankrupt {
			return cand.ID
		}
	}
	return after
}

// Roll is the action surface entry point: it serializes on the game,
// validates, applies, and persists a roll.
func (e *Engine) Roll(ctx context.Context, actx models.ActionContext) (*models.Game, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	p := NewRollProcessor(e, actx)
	if err := p.Init(ctx); err != nil {
		return nil, "", err
	}
	if msg := p.GetErrMsg(); msg != "" {
		return nil, msg, nil
	}
	if err := p.Roll(ctx); err != nil {
		return nil, "", err
	}
	return p.game, "", nil
}

// CompleteTurn ends the acting player's turn.
func (e *Engine) CompleteTurn(ctx context.Context, actx models.ActionContext) (*models.Game, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	p := NewRollProcessor(e, actx)
	if err := p.Init(ctx); err != nil {
		return nil, "", err
	}
	if msg := p.completeErrMsg(); msg != "" {
		return nil, msg, nil
	}
	if err := p.completeTurn(ctx); err != nil {
		return nil, "", err
	}
	return p.game, "", nil
}

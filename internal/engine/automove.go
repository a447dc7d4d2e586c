// internal/engine/automove.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// CheckAutoMove enforces the turn time limit. It compares the stored
// deadline against the clock, so it is idempotent and safe to invoke from
// any request path, including being piggybacked on state polling. When the
// acting player's deadline has passed it resolves their pending mini-game
// (option 1), bankrupts them if they are under water, and otherwise forces
// either a roll or a turn completion on their behalf.
func (e *Engine) CheckAutoMove(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	unlock := e.lockGame(gameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, gameID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if g.Status != models.GameStatusActive || g.ActDeadline.IsZero() || e.now().Before(g.ActDeadline) {
		return g, nil
	}

	pl := g.PlayerByID(g.NextPlayerToAct)
	if pl == nil {
		return g, nil
	}
	e.log.WithField("game", g.ID).WithField("player", pl.Name).Info("turn deadline passed, forcing a move")

	// A pending mini-game blocks turn completion, so settle it first.
	if g.LottoID != nil {
		l, err := e.store.GetLotto(ctx, *g.LottoID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if l != nil && !l.Resolved && l.PlayerID == pl.ID {
			if err := e.applyPickLotto(ctx, g, l, 1); err != nil {
				return nil, err
			}
		} else {
			g.LottoID = nil
		}
	}
	if g.TreasureID != nil {
		t, err := e.store.GetTreasure(ctx, *g.TreasureID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if t != nil && !t.Resolved && t.PlayerID == pl.ID {
			if err := e.applyPickTreasure(ctx, g, t, 1); err != nil {
				return nil, err
			}
		} else {
			g.TreasureID = nil
		}
	}

	if pl.Money < 0 {
		BankruptPlayer(g, pl.ID)
		e.finishIfDecided(g)
		e.resetDeadline(g)
		if err := e.store.SaveGame(ctx, g); err != nil {
			return nil, err
		}
		e.emit(g.ID, Event{Type: EventGameState, Payload: g})
		e.emit(g.ID, Event{Type: EventServerMessage, Message: fmt.Sprintf("%s went bankrupt", pl.Name)})
		e.record(g.ID, pl.ID, "auto_bankrupt", nil)
		return g, nil
	}

	// An unfinished auction involves other players' bids; neither a forced
	// re-roll nor a forced completion may bulldoze it, so the deadline keeps
	// extending until it resolves. This also covers auctions created by a
	// doubles roll, where hasRolled is still false.
	if g.AuctionID != nil {
		e.resetDeadline(g)
		if err := e.store.SaveGame(ctx, g); err != nil {
			return nil, err
		}
		return g, nil
	}

	p := &RollProcessor{e: e, actx: models.ActionContext{GameID: g.ID, UserID: pl.ID}, game: g, player: pl}
	if pl.HasRolled || pl.State == models.PlayerStateInIsolation {
		if err := p.completeTurn(ctx); err != nil {
			return nil, err
		}
		e.record(g.ID, pl.ID, "auto_complete_turn", nil)
		return g, nil
	}

	if err := p.Roll(ctx); err != nil {
		return nil, err
	}
	e.record(g.ID, pl.ID, "auto_roll", nil)
	return g, nil
}

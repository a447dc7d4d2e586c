// internal/engine/lotto.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

// Option value ranges for the two mini-games. Each game offers a safe, a
// middling, and a long-shot option; win percents are adjusted by the owning
// player's class lotto bonus and luck skill, clamped to [1, 95].
var (
	lottoAmountBase    = [3]int{50, 150, 400}
	lottoAmountSpread  = [3]int{50, 150, 300}
	lottoPercentBase   = [3]int{60, 35, 10}
	treasAmountBase    = [3]int{100, 250, 600}
	treasAmountSpread  = [3]int{100, 250, 400}
	treasPercentBase   = [3]int{55, 30, 8}
	maxOptionWinChance = 95
)

func (e *Engine) buildOptions(pl *models.Player, amountBase, amountSpread, percentBase [3]int) [3]models.PrizeOption {
	bonus := traits.For(pl.Class).LottoPercentBonus + pl.Skills.Luck
	var opts [3]models.PrizeOption
	for i := 0; i < 3; i++ {
		percent := percentBase[i] + bonus
		if percent > maxOptionWinChance {
			percent = maxOptionWinChance
		}
		if percent < 1 {
			percent = 1
		}
		opts[i] = models.PrizeOption{
			Amount:  amountBase[i] + e.intn(amountSpread[i]+1),
			Percent: percent,
		}
	}
	return opts
}

func (e *Engine) buildLotto(g *models.Game, pl *models.Player) *models.Lotto {
	return &models.Lotto{
		ID:          uuid.New(),
		GameID:      g.ID,
		PlayerID:    pl.ID,
		PlayerName:  pl.Name,
		PlayerColor: pl.Color,
		Options:     e.buildOptions(pl, lottoAmountBase, lottoAmountSpread, lottoPercentBase),
	}
}

func (e *Engine) buildTreasure(g *models.Game, pl *models.Player) *models.Treasure {
	return &models.Treasure{
		ID:          uuid.New(),
		GameID:      g.ID,
		PlayerID:    pl.ID,
		PlayerName:  pl.Name,
		PlayerColor: pl.Color,
		Options:     e.buildOptions(pl, treasAmountBase, treasAmountSpread, treasPercentBase),
	}
}

// pickErrMsg validates a mini-game option pick shared by lotto and treasure.
func pickErrMsg(g *models.Game, resolved bool, ownerID, caller uuid.UUID, option int) string {
	if g == nil {
		return "game not found"
	}
	if resolved {
		return "this mini-game has already been resolved"
	}
	if ownerID != caller {
		return "this mini-game is not yours"
	}
	if option < 1 || option > 3 {
		return "pick option 1, 2 or 3"
	}
	return ""
}

// resolveDraw applies the unified win rule: the chosen option wins when the
// drawn number is at or below its win percent, so a higher percent always
// means a better chance.
func resolveDraw(draw int, opt models.PrizeOption) int {
	if draw <= opt.Percent {
		return opt.Amount
	}
	return 0
}

// PickLotto resolves the game's active lotto with the caller's chosen
// option, credits any prize, and dereferences the lotto from the game.
func (e *Engine) PickLotto(ctx context.Context, actx models.ActionContext, option int) (*models.Lotto, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if g.LottoID == nil {
		return nil, "no lotto in progress", nil
	}
	l, err := e.store.GetLotto(ctx, *g.LottoID)
	if errors.Is(err, ErrNotFound) {
		return nil, "no lotto in progress", nil
	}
	if err != nil {
		return nil, "", err
	}
	if msg := pickErrMsg(g, l.Resolved, l.PlayerID, actx.UserID, option); msg != "" {
		return nil, msg, nil
	}
	if err := e.applyPickLotto(ctx, g, l, option); err != nil {
		return nil, "", err
	}
	return l, "", nil
}

// applyPickLotto resolves a validated lotto pick and persists both
// documents. Shared with the auto-move processor.
func (e *Engine) applyPickLotto(ctx context.Context, g *models.Game, l *models.Lotto, option int) error {
	l.ChosenOption = option
	l.RandomNum = e.draw100()
	l.Prize = resolveDraw(l.RandomNum, l.Options[option-1])
	l.Resolved = true

	pl := g.PlayerByID(l.PlayerID)
	pl.Money += l.Prize
	g.LottoID = nil

	if err := e.store.SaveLotto(ctx, l); err != nil {
		return err
	}
	if err := e.store.SaveGame(ctx, g); err != nil {
		return err
	}

	e.emit(g.ID, Event{Type: EventLotto, Payload: l})
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	e.emit(g.ID, Event{Type: EventServerMessage, Message: lottoResultMessage(pl.Name, l.Prize)})
	e.record(g.ID, pl.ID, "lotto_picked", map[string]interface{}{"option": option, "prize": l.Prize})
	return nil
}

// PickTreasure resolves the game's active treasure the same way.
func (e *Engine) PickTreasure(ctx context.Context, actx models.ActionContext, option int) (*models.Treasure, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if g.TreasureID == nil {
		return nil, "no treasure in progress", nil
	}
	t, err := e.store.GetTreasure(ctx, *g.TreasureID)
	if errors.Is(err, ErrNotFound) {
		return nil, "no treasure in progress", nil
	}
	if err != nil {
		return nil, "", err
	}
	if msg := pickErrMsg(g, t.Resolved, t.PlayerID, actx.UserID, option); msg != "" {
		return nil, msg, nil
	}
	if err := e.applyPickTreasure(ctx, g, t, option); err != nil {
		return nil, "", err
	}
	return t, "", nil
}

// applyPickTreasure mirrors applyPickLotto for the chance-square game.
func (e *Engine) applyPickTreasure(ctx context.Context, g *models.Game, t *models.Treasure, option int) error {
	t.ChosenOption = option
	t.RandomNum = e.draw100()
	t.Prize = resolveDraw(t.RandomNum, t.Options[option-1])
	t.Resolved = true

	pl := g.PlayerByID(t.PlayerID)
	pl.Money += t.Prize
	g.TreasureID = nil

	if err := e.store.SaveTreasure(ctx, t); err != nil {
		return err
	}
	if err := e.store.SaveGame(ctx, g); err != nil {
		return err
	}

	e.emit(g.ID, Event{Type: EventTreasure, Payload: t})
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	e.emit(g.ID, Event{Type: EventServerMessage, Message: lottoResultMessage(pl.Name, t.Prize)})
	e.record(g.ID, pl.ID, "treasure_picked", map[string]interface{}{"option": option, "prize": t.Prize})
	return nil
}

func lottoResultMessage(name string, prize int) string {
	if prize > 0 {
		return fmt.Sprintf("%s won $%d", name, prize)
	}
	return fmt.Sprintf("%s won nothing", name)
}

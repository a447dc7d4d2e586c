// internal/engine/trade.go
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/costs"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// TradeOfferParams describes one proposed trade from the offerer's point of
// view: what they give and what they ask the other player to give.
type TradeOfferParams struct {
	OtherPlayerID uuid.UUID `json:"otherPlayerId"`
	MySquares     []int     `json:"mySquares"`
	TheirSquares  []int     `json:"theirSquares"`
	MyAmount      int       `json:"myAmount"`
	TheirAmount   int       `json:"theirAmount"`
}

// tradeSidesErrMsg validates both sides of a trade against current game
// state. It runs at offer time and again, against freshly loaded state, at
// accept time, since ownership may have changed in between.
func tradeSidesErrMsg(g *models.Game, offer *models.TradeOffer) string {
	if g.Status != models.GameStatusActive {
		return "game is not active"
	}
	for _, part := range []*models.TradeParticipant{&offer.Participant1, &offer.Participant2} {
		pl := g.PlayerByID(part.PlayerID)
		if pl == nil {
			return "player not found"
		}
		if pl.State == models.PlayerStateBankrupt {
			return fmt.Sprintf("%s is bankrupt", pl.Name)
		}
		if part.Amount < 0 {
			return "trade amounts cannot be negative"
		}
		if part.Amount > pl.Money {
			return fmt.Sprintf("%s cannot afford the offered amount", pl.Name)
		}
		for _, id := range part.SquareIDs {
			sq, ok := g.Squares[id]
			if !ok {
				return "invalid square in trade"
			}
			if !sq.OwnedBy(part.PlayerID) {
				return fmt.Sprintf("%s does not own square %d", pl.Name, id)
			}
		}
	}
	if offer.Participant1.Amount == 0 && offer.Participant2.Amount == 0 &&
		len(offer.Participant1.SquareIDs) == 0 && len(offer.Participant2.SquareIDs) == 0 {
		return "the trade is empty"
	}
	return ""
}

// OfferTrade creates a trade offer in OFFERED status. No game state changes
// until the receiving player accepts.
func (e *Engine) OfferTrade(ctx context.Context, actx models.ActionContext, params TradeOfferParams) (*models.TradeOffer, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}

	me := g.PlayerByID(actx.UserID)
	them := g.PlayerByID(params.OtherPlayerID)
	if me == nil || them == nil {
		return nil, "player not found", nil
	}
	if me.ID == them.ID {
		return nil, "you cannot trade with yourself", nil
	}

	offer := &models.TradeOffer{
		ID:     uuid.New(),
		GameID: g.ID,
		Participant1: models.TradeParticipant{
			PlayerID: me.ID, Name: me.Name, Color: me.Color,
			Amount: params.MyAmount, SquareIDs: params.MySquares,
		},
		Participant2: models.TradeParticipant{
			PlayerID: them.ID, Name: them.Name, Color: them.Color,
			Amount: params.TheirAmount, SquareIDs: params.TheirSquares,
		},
		Status: models.TradeStatusOffered,
	}

	if msg := tradeSidesErrMsg(g, offer); msg != "" {
		return nil, msg, nil
	}
	if err := e.store.CreateTrade(ctx, offer); err != nil {
		return nil, "", err
	}

	e.emit(g.ID, Event{Type: EventTrade, Payload: offer})
	e.record(g.ID, me.ID, "trade_offered", map[string]interface{}{"tradeId": offer.ID})
	return offer, "", nil
}

// AcceptTrade applies an offered trade. Only the receiving participant may
// accept, and every side condition is re-validated against fresh state
// before the swap commits atomically in the game document.
func (e *Engine) AcceptTrade(ctx context.Context, actx models.ActionContext, tradeID uuid.UUID) (*models.TradeOffer, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	offer, msg, err := e.loadTradeForUpdate(ctx, actx, tradeID)
	if msg != "" || err != nil {
		return nil, msg, err
	}

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if msg := tradeSidesErrMsg(g, offer); msg != "" {
		return nil, msg, nil
	}

	p1 := g.PlayerByID(offer.Participant1.PlayerID)
	p2 := g.PlayerByID(offer.Participant2.PlayerID)

	p1.Money = p1.Money - offer.Participant1.Amount + offer.Participant2.Amount
	p2.Money = p2.Money - offer.Participant2.Amount + offer.Participant1.Amount
	transferSquares(g, offer.Participant1.SquareIDs, p2)
	transferSquares(g, offer.Participant2.SquareIDs, p1)
	costs.Recalculate(g, p1)
	costs.Recalculate(g, p2)

	offer.Status = models.TradeStatusAccepted
	if err := e.store.SaveGame(ctx, g); err != nil {
		return nil, "", err
	}
	if err := e.store.SaveTrade(ctx, offer); err != nil {
		return nil, "", err
	}

	e.emit(g.ID, Event{Type: EventTrade, Payload: offer})
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	e.record(g.ID, actx.UserID, "trade_accepted", map[string]interface{}{"tradeId": offer.ID})
	return offer, "", nil
}

// DeclineTrade marks an offered trade declined; no game state changes.
func (e *Engine) DeclineTrade(ctx context.Context, actx models.ActionContext, tradeID uuid.UUID) (*models.TradeOffer, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	offer, msg, err := e.loadTradeForUpdate(ctx, actx, tradeID)
	if msg != "" || err != nil {
		return nil, msg, err
	}

	offer.Status = models.TradeStatusDeclined
	if err := e.store.SaveTrade(ctx, offer); err != nil {
		return nil, "", err
	}
	e.emit(offer.GameID, Event{Type: EventTrade, Payload: offer})
	e.record(offer.GameID, actx.UserID, "trade_declined", map[string]interface{}{"tradeId": offer.ID})
	return offer, "", nil
}

// loadTradeForUpdate fetches a trade and checks the caller may resolve it.
func (e *Engine) loadTradeForUpdate(ctx context.Context, actx models.ActionContext, tradeID uuid.UUID) (*models.TradeOffer, string, error) {
	offer, err := e.store.GetTrade(ctx, tradeID)
	if errors.Is(err, ErrNotFound) {
		return nil, "trade not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if offer.GameID != actx.GameID {
		return nil, "trade does not belong to this game", nil
	}
	switch offer.Status {
	case models.TradeStatusAccepted:
		return nil, "the trade was already accepted", nil
	case models.TradeStatusDeclined:
		return nil, "the trade was already declined", nil
	}
	if offer.Participant2.PlayerID != actx.UserID {
		return nil, "only the receiving player can resolve this trade", nil
	}
	return offer, "", nil
}

// transferSquares moves ownership of the listed squares to the receiver.
// Houses reset to zero since group-completeness no longer holds for the new
// owner.
func transferSquares(g *models.Game, squareIDs []int, to *models.Player) {
	for _, id := range squareIDs {
		sq := g.Squares[id]
		sq.OwnerID = &to.ID
		sq.Color = to.Color
		sq.NumHouses = 0
	}
}

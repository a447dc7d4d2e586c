// internal/engine/auction.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/RomanSery/rent-day-sub000/internal/costs"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/money"
	"github.com/google/uuid"
)

// buildAuction creates an auction document for an unowned purchasable
// square, with one bidder entry per non-bankrupt player.
func buildAuction(g *models.Game, squareID int) *models.Auction {
	a := &models.Auction{
		ID:       uuid.New(),
		GameID:   g.ID,
		SquareID: squareID,
	}
	for _, pl := range g.ActivePlayers() {
		a.Bidders = append(a.Bidders, &models.Bidder{
			PlayerID: pl.ID,
			Name:     pl.Name,
			Color:    pl.Color,
			Piece:    pl.Piece,
		})
	}
	return a
}

// AuctionProcessor runs the sealed-bid auction for one square.
type AuctionProcessor struct {
	e    *Engine
	actx models.ActionContext

	game    *models.Game
	auction *models.Auction
	bidder  *models.Bidder
}

// NewAuctionProcessor builds a processor for one action context.
func NewAuctionProcessor(e *Engine, actx models.ActionContext) *AuctionProcessor {
	return &AuctionProcessor{e: e, actx: actx}
}

// Init loads the game and its referenced auction.
func (p *AuctionProcessor) Init(ctx context.Context) error {
	g, err := p.e.store.GetGame(ctx, p.actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p.game = g
	if g.AuctionID == nil {
		return nil
	}
	a, err := p.e.store.GetAuction(ctx, *g.AuctionID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p.auction = a
	p.bidder = a.BidderByID(p.actx.UserID)
	return nil
}

// GetErrMsg validates a prospective bid; empty means it may be placed.
func (p *AuctionProcessor) GetErrMsg(bid int) string {
	if p.game == nil {
		return "game not found"
	}
	if p.auction == nil {
		return "no auction in progress"
	}
	if p.auction.Finished {
		return "the auction has already finished"
	}
	if p.bidder == nil {
		return "you are not part of this auction"
	}
	if p.bidder.SubmittedBid {
		return "you have already bid"
	}
	player := p.game.PlayerByID(p.actx.UserID)
	if player == nil {
		return "you are not in this game"
	}
	if bid < 0 {
		return "bid cannot be negative"
	}
	if bid > player.Money {
		return "you cannot bid more money than you have"
	}
	return ""
}

// PlaceBid records the caller's sealed bid. When the last bid arrives the
// auction resolves: the unique top bidder buys the square at their bid, or a
// tied top bid voids the sale.
func (p *AuctionProcessor) PlaceBid(ctx context.Context, bid int) error {
	b := bid
	p.bidder.Bid = &b
	p.bidder.SubmittedBid = true

	if !p.auction.AllBidsSubmitted() {
		if err := p.e.store.SaveAuction(ctx, p.auction); err != nil {
			return err
		}
		p.e.emit(p.game.ID, Event{Type: EventAuction, Payload: p.auction})
		p.e.record(p.game.ID, p.actx.UserID, "auction_bid", nil)
		return nil
	}
	return p.finish(ctx)
}

// finish resolves the completed auction and clears its reference from the
// game.
func (p *AuctionProcessor) finish(ctx context.Context) error {
	a, g := p.auction, p.game

	sorted := make([]*models.Bidder, len(a.Bidders))
	copy(sorted, a.Bidders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].Bid > *sorted[j].Bid
	})

	a.Finished = true
	top := sorted[0]
	if len(sorted) > 1 && *sorted[1].Bid == *top.Bid {
		a.IsTie = true
	} else {
		winner := g.PlayerByID(top.PlayerID)
		if winner == nil {
			return fmt.Errorf("auction winner %s not in game", top.PlayerID)
		}
		a.WinnerID = &winner.ID

		sq := g.Squares[a.SquareID]
		winner.Money -= *top.Bid
		sq.OwnerID = &winner.ID
		sq.Color = winner.Color
		sq.PurchasePrice = *top.Bid
		sq.MortgageValue = money.MortgageValueOf(*top.Bid)
		costs.Recalculate(g, winner)
	}

	g.AuctionID = nil
	if err := p.e.store.SaveAuction(ctx, a); err != nil {
		return err
	}
	if err := p.e.store.SaveGame(ctx, g); err != nil {
		return err
	}

	p.e.emit(g.ID, Event{Type: EventAuction, Payload: a})
	p.e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	if a.IsTie {
		p.e.emit(g.ID, Event{Type: EventServerMessage, Message: "The auction ended in a tie; nobody wins"})
	}
	p.e.record(g.ID, p.actx.UserID, "auction_finished", map[string]interface{}{
		"squareId": a.SquareID, "isTie": a.IsTie,
	})
	return nil
}

// Bid is the action surface entry point for placing an auction bid.
func (e *Engine) Bid(ctx context.Context, actx models.ActionContext, bid int) (*models.Auction, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	p := NewAuctionProcessor(e, actx)
	if err := p.Init(ctx); err != nil {
		return nil, "", err
	}
	if msg := p.GetErrMsg(bid); msg != "" {
		return nil, msg, nil
	}
	if err := p.PlaceBid(ctx, bid); err != nil {
		return nil, "", err
	}
	return p.auction, "", nil
}

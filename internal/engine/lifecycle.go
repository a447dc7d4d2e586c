// internal/engine/lifecycle.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/board"
	"github.com/RomanSery/rent-day-sub000/internal/costs"
	"github.com/RomanSery/rent-day-sub000/internal/models"
	"github.com/RomanSery/rent-day-sub000/internal/traits"
)

// playerColors is the palette assigned at game start, one per seat.
var playerColors = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "teal"}

// DefaultSettings are applied where the host left a setting zero.
var DefaultSettings = models.GameSettings{
	InitialMoney:     1500,
	MaxPlayers:       4,
	TurnTimeLimitSec: 60,
}

// CreateGame builds a fresh JOINING game with all 40 squares initialized
// from the board configuration table.
func (e *Engine) CreateGame(ctx context.Context, name string, settings models.GameSettings) (*models.Game, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "game name is required", nil
	}
	if settings.InitialMoney <= 0 {
		settings.InitialMoney = DefaultSettings.InitialMoney
	}
	if settings.MaxPlayers < 2 || settings.MaxPlayers > len(playerColors) {
		settings.MaxPlayers = DefaultSettings.MaxPlayers
	}
	if settings.TurnTimeLimitSec <= 0 {
		settings.TurnTimeLimitSec = DefaultSettings.TurnTimeLimitSec
	}

	g := &models.Game{
		ID:        uuid.New(),
		Name:      name,
		Status:    models.GameStatusJoining,
		Settings:  settings,
		Squares:   make(map[int]*models.SquareGameData, board.NumSquares),
		CreatedAt: e.now(),
	}
	for id := 1; id <= board.NumSquares; id++ {
		cfg := board.MustGet(id)
		g.Squares[id] = &models.SquareGameData{
			SquareID:  id,
			HouseCost: cfg.HouseCost,
			Tax:       cfg.Tax,
			Rent:      cfg.Rent,
		}
	}

	if err := e.store.CreateGame(ctx, g); err != nil {
		return nil, "", err
	}
	e.record(g.ID, uuid.Nil, "game_created", map[string]interface{}{"name": name})
	return g, "", nil
}

// JoinGame appends a player to a joining game. Reaching the configured
// player count starts the game: order is shuffled once, colors assigned,
// and every player's derived costs are computed.
func (e *Engine) JoinGame(ctx context.Context, actx models.ActionContext, name, piece string, class models.PlayerClass) (*models.Game, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	if g.Status != models.GameStatusJoining {
		return nil, "the game is no longer accepting players", nil
	}
	if !traits.Valid(class) {
		return nil, "unknown player class", nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "player name is required", nil
	}
	for _, pl := range g.Players {
		if pl.ID == actx.UserID {
			return nil, "you have already joined this game", nil
		}
		if pl.Piece == piece {
			return nil, fmt.Sprintf("the %s piece is already taken", piece), nil
		}
	}

	trait := traits.For(class)
	g.Players = append(g.Players, &models.Player{
		ID:       actx.UserID,
		Name:     name,
		Class:    class,
		State:    models.PlayerStateActive,
		Money:    g.Settings.InitialMoney,
		Position: board.PayDayPosition,
		Piece:    piece,
		Skills:   trait.StartingSkills,
	})

	if len(g.Players) >= g.Settings.MaxPlayers {
		e.startGame(g)
	}

	if err := e.store.SaveGame(ctx, g); err != nil {
		return nil, "", err
	}
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	if g.Status == models.GameStatusActive {
		e.emit(g.ID, Event{Type: EventServerMessage, Message: "All players are in; the game begins"})
	}
	e.record(g.ID, actx.UserID, "join_game", map[string]interface{}{"name": name, "piece": piece})
	return g, "", nil
}

// startGame shuffles play order, assigns colors, and activates the game.
func (e *Engine) startGame(g *models.Game) {
	for i := len(g.Players) - 1; i > 0; i-- {
		j := e.intn(i + 1)
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	}
	for i, pl := range g.Players {
		pl.Color = playerColors[i]
	}
	g.Status = models.GameStatusActive
	g.NextPlayerToAct = g.Players[0].ID
	e.resetDeadline(g)
	costs.RecalculateAll(g)
}

// LeaveGame removes a player from a joining game, or converts the departure
// into a bankruptcy if the game is already running so the board stays
// consistent for everyone else.
func (e *Engine) LeaveGame(ctx context.Context, actx models.ActionContext) (*models.Game, string, error) {
	unlock := e.lockGame(actx.GameID)
	defer unlock()

	g, err := e.store.GetGame(ctx, actx.GameID)
	if errors.Is(err, ErrNotFound) {
		return nil, "game not found", nil
	}
	if err != nil {
		return nil, "", err
	}
	pl := g.PlayerByID(actx.UserID)
	if pl == nil {
		return nil, "you are not in this game", nil
	}

	switch g.Status {
	case models.GameStatusJoining:
		for i, other := range g.Players {
			if other.ID == pl.ID {
				g.Players = append(g.Players[:i], g.Players[i+1:]...)
				break
			}
		}
	case models.GameStatusActive:
		BankruptPlayer(g, pl.ID)
		e.finishIfDecided(g)
	default:
		return nil, "the game has already finished", nil
	}

	if err := e.store.SaveGame(ctx, g); err != nil {
		return nil, "", err
	}
	e.emit(g.ID, Event{Type: EventGameState, Payload: g})
	e.emit(g.ID, Event{Type: EventServerMessage, Message: fmt.Sprintf("%s left the game", pl.Name)})
	e.record(g.ID, actx.UserID, "leave_game", nil)
	return g, "", nil
}

// BankruptPlayer eliminates a player in place: their squares return to the
// bank and turn advancement skips them from now on. The player record stays
// in the document.
func BankruptPlayer(g *models.Game, playerID uuid.UUID) {
	pl := g.PlayerByID(playerID)
	if pl == nil || pl.State == models.PlayerStateBankrupt {
		return
	}
	pl.State = models.PlayerStateBankrupt
	pl.HasRolled = true
	pl.HasTraveled = true
	pl.CanTravel = false
	pl.ClearRollHistory()

	for _, id := range g.SquaresOwnedBy(playerID) {
		g.Squares[id].Release()
	}
	pl.TaxesPerTurn = 0
	pl.ElectricityCostsPerTurn = 0
	pl.MortgageableValue = 0
	pl.RedeemableValue = 0
	pl.TotalAssets = pl.Money
	pl.TaxTooltip = ""
	pl.ElectricityTooltip = ""

	if g.NextPlayerToAct == playerID {
		g.NextPlayerToAct = nextActingPlayer(g, playerID)
	}
}

// finishIfDecided ends the game when at most one solvent player remains.
func (e *Engine) finishIfDecided(g *models.Game) {
	remaining := g.ActivePlayers()
	if len(remaining) > 1 {
		return
	}
	g.Status = models.GameStatusFinished
	if len(remaining) == 1 {
		g.LastResult = &models.TurnResult{
			Description: fmt.Sprintf("%s wins the game", remaining[0].Name),
		}
	}
	g.ActDeadline = time.Time{}
}

// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RomanSery/rent-day-sub000/internal/engine"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// GameServer routes HTTP game actions into the engine. Every mutating route
// answers with the post-action game state plus an errMsg field: a non-empty
// errMsg means the action was rejected by the rules and nothing changed.
type GameServer struct {
	Engine *engine.Engine
	Hub    *Hub
	Log    *logrus.Logger
}

func NewGameServer(eng *engine.Engine, hub *Hub, logger *logrus.Logger) *GameServer {
	return &GameServer{Engine: eng, Hub: hub, Log: logger}
}

// actionResponse is the envelope for game-mutating routes.
type actionResponse struct {
	Game   *models.Game `json:"game,omitempty"`
	ErrMsg string       `json:"errMsg,omitempty"`
}

// ServeHTTP dispatches /game/... routes.
//
//	POST /game/create
//	GET  /game/{id}
//	GET  /game/{id}/auction | lotto | treasure
//	POST /game/{id}/join | leave | roll | complete-turn | bid
//	POST /game/{id}/mortgage | redeem | build-house | sell-house
//	POST /game/{id}/lotto | treasure | travel | skill | pay-fine
//	POST /game/{id}/trade
//	POST /game/{id}/trade/{tradeId}/accept | decline
//
// WebSocket endpoints live in game_ws.go under /game/ws/{id}.
func (s *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/game/")

	if rest == "create" && r.Method == http.MethodPost {
		s.handleCreateGame(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	gameID, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleGetGame(w, r, gameID)
		return
	}

	if parts[1] == "trade" && len(parts) == 4 && r.Method == http.MethodPost {
		s.handleTradeResolve(w, r, gameID, parts[2], parts[3])
		return
	}

	if len(parts) != 2 {
		http.Error(w, "unsupported route", http.StatusNotFound)
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetSubGame(w, r, gameID, parts[1])
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.handleAction(w, r, gameID, parts[1])
}

type createGameRequest struct {
	Name     string               `json:"name"`
	Settings *models.GameSettings `json:"settings,omitempty"`
}

func (s *GameServer) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if _, err := EnsureEphemeralUser(w, r); err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	settings := engine.DefaultSettings
	if req.Settings != nil {
		settings = *req.Settings
	}

	g, errMsg, err := s.Engine.CreateGame(r.Context(), req.Name, settings)
	if err != nil {
		s.Log.Errorf("create game: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if errMsg != "" {
		writeJSON(w, http.StatusOK, actionResponse{ErrMsg: errMsg})
		return
	}
	writeJSON(w, http.StatusCreated, actionResponse{Game: g})
}

// handleGetGame returns the current game state. Polling this route doubles as
// the turn-timeout tick: overdue turns are auto-resolved before answering.
func (s *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	g, err := s.Engine.CheckAutoMove(r.Context(), gameID)
	if err != nil {
		s.Log.Errorf("auto move check for game %s: %v", gameID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if g == nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Game: g})
}

func (s *GameServer) handleGetSubGame(w http.ResponseWriter, r *http.Request, gameID uuid.UUID, kind string) {
	g, err := s.Engine.GetGame(r.Context(), gameID)
	if errors.Is(err, engine.ErrNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var payload interface{}
	switch kind {
	case "auction":
		if g.AuctionID != nil {
			payload, err = s.Engine.GetAuction(r.Context(), *g.AuctionID)
		}
	case "lotto":
		if g.LottoID != nil {
			payload, err = s.Engine.GetLotto(r.Context(), *g.LottoID)
		}
	case "treasure":
		if g.TreasureID != nil {
			payload, err = s.Engine.GetTreasure(r.Context(), *g.TreasureID)
		}
	default:
		http.Error(w, "unsupported route", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Log.Errorf("load %s for game %s: %v", kind, gameID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if payload == nil {
		http.Error(w, "no "+kind+" in progress", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

type actionRequest struct {
	Name   string                   `json:"name,omitempty"`
	Piece  string                   `json:"piece,omitempty"`
	Class  models.PlayerClass       `json:"class,omitempty"`
	Bid    *int                     `json:"bid,omitempty"`
	Square int                      `json:"squareId,omitempty"`
	Option int                      `json:"option,omitempty"`
	Skill  string                   `json:"skill,omitempty"`
	Trade  *engine.TradeOfferParams `json:"trade,omitempty"`
}

func (s *GameServer) handleAction(w http.ResponseWriter, r *http.Request, gameID uuid.UUID, action string) {
	userID, err := authedUserID(r)
	if err != nil {
		if action == "join" {
			// guests may join without an account
			userID, err = EnsureEphemeralUser(w, r)
		}
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			return
		}
	}
	actx := models.ActionContext{GameID: gameID, UserID: userID}

	var req actionRequest
	if r.Body != nil {
		// several actions carry no body; tolerate empty
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var (
		g      *models.Game
		errMsg string
	)
	ctx := r.Context()

	switch action {
	case "join":
		g, errMsg, err = s.Engine.JoinGame(ctx, actx, req.Name, req.Piece, req.Class)
	case "leave":
		g, errMsg, err = s.Engine.LeaveGame(ctx, actx)
	case "roll":
		g, errMsg, err = s.Engine.Roll(ctx, actx)
	case "complete-turn":
		g, errMsg, err = s.Engine.CompleteTurn(ctx, actx)
	case "bid":
		if req.Bid == nil {
			http.Error(w, "missing bid", http.StatusBadRequest)
			return
		}
		_, errMsg, err = s.Engine.Bid(ctx, actx, *req.Bid)
	case "mortgage":
		g, errMsg, err = s.Engine.Mortgage(ctx, actx, req.Square)
	case "redeem":
		g, errMsg, err = s.Engine.Redeem(ctx, actx, req.Square)
	case "build-house":
		g, errMsg, err = s.Engine.BuildHouse(ctx, actx, req.Square)
	case "sell-house":
		g, errMsg, err = s.Engine.SellHouse(ctx, actx, req.Square)
	case "lotto":
		_, errMsg, err = s.Engine.PickLotto(ctx, actx, req.Option)
	case "treasure":
		_, errMsg, err = s.Engine.PickTreasure(ctx, actx, req.Option)
	case "travel":
		g, errMsg, err = s.Engine.Travel(ctx, actx, req.Square)
	case "skill":
		g, errMsg, err = s.Engine.UseSkillPoint(ctx, actx, req.Skill)
	case "pay-fine":
		g, errMsg, err = s.Engine.PayIsolationFine(ctx, actx)
	case "trade":
		if req.Trade == nil {
			http.Error(w, "missing trade", http.StatusBadRequest)
			return
		}
		_, errMsg, err = s.Engine.OfferTrade(ctx, actx, *req.Trade)
	default:
		http.Error(w, "unsupported route", http.StatusNotFound)
		return
	}

	if err != nil {
		s.Log.Errorf("action %s on game %s by %s: %v", action, gameID, userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if errMsg != "" {
		writeJSON(w, http.StatusOK, actionResponse{ErrMsg: errMsg})
		return
	}
	if g == nil {
		// sub-game actions answer with the refreshed game state too
		g, err = s.Engine.GetGame(ctx, gameID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, http.StatusOK, actionResponse{Game: g})
}

func (s *GameServer) handleTradeResolve(w http.ResponseWriter, r *http.Request, gameID uuid.UUID, tradeIDStr, verb string) {
	userID, err := authedUserID(r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}
	tradeID, err := uuid.Parse(tradeIDStr)
	if err != nil {
		http.Error(w, "invalid trade id", http.StatusBadRequest)
		return
	}
	actx := models.ActionContext{GameID: gameID, UserID: userID}

	var errMsg string
	switch verb {
	case "accept":
		_, errMsg, err = s.Engine.AcceptTrade(r.Context(), actx, tradeID)
	case "decline":
		_, errMsg, err = s.Engine.DeclineTrade(r.Context(), actx, tradeID)
	default:
		http.Error(w, "unsupported route", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Log.Errorf("trade %s on game %s by %s: %v", verb, gameID, userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if errMsg != "" {
		writeJSON(w, http.StatusOK, actionResponse{ErrMsg: errMsg})
		return
	}
	g, err := s.Engine.GetGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Game: g})
}

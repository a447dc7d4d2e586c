// internal/engine/store.go
package engine

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

var (
	// ErrNotFound is returned when an aggregate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a save observes a stale version.
	// The per-game lock makes this rare, but the store still enforces it so
	// a second process cannot cause a lost update.
	ErrVersionConflict = errors.New("version conflict")
)

// Store is the document store behind the engine. Implementations must bump
// the aggregate's Version on every successful save and reject saves whose
// in-memory version does not match the stored one.
type Store interface {
	CreateGame(ctx context.Context, g *models.Game) error
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	SaveGame(ctx context.Context, g *models.Game) error

	CreateAuction(ctx context.Context, a *models.Auction) error
	GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error)
	SaveAuction(ctx context.Context, a *models.Auction) error

	CreateLotto(ctx context.Context, l *models.Lotto) error
	GetLotto(ctx context.Context, id uuid.UUID) (*models.Lotto, error)
	SaveLotto(ctx context.Context, l *models.Lotto) error

	CreateTreasure(ctx context.Context, t *models.Treasure) error
	GetTreasure(ctx context.Context, id uuid.UUID) (*models.Treasure, error)
	SaveTreasure(ctx context.Context, t *models.Treasure) error

	CreateTrade(ctx context.Context, tr *models.TradeOffer) error
	GetTrade(ctx context.Context, id uuid.UUID) (*models.TradeOffer, error)
	SaveTrade(ctx context.Context, tr *models.TradeOffer) error
}

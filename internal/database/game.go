// internal/database/game.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RomanSery/rent-day-sub000/internal/engine"
	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// PgStore persists each aggregate as a JSONB document row with a version
// column. Saves are conditional on the version the caller loaded, so a
// concurrent writer outside the engine's per-game lock cannot cause a lost
// update; stale saves surface as engine.ErrVersionConflict.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps a pgx pool in the engine's Store interface.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// Schema is the DDL for the document tables; applied by the operator or a
// migration tool, kept here so the shape is visible next to the queries.
const Schema = `
CREATE TABLE IF NOT EXISTS games     (id UUID PRIMARY KEY, version INT NOT NULL, doc JSONB NOT NULL);
CREATE TABLE IF NOT EXISTS auctions  (id UUID PRIMARY KEY, version INT NOT NULL, doc JSONB NOT NULL);
CREATE TABLE IF NOT EXISTS lottos    (id UUID PRIMARY KEY, version INT NOT NULL, doc JSONB NOT NULL);
CREATE TABLE IF NOT EXISTS treasures (id UUID PRIMARY KEY, version INT NOT NULL, doc JSONB NOT NULL);
CREATE TABLE IF NOT EXISTS trades    (id UUID PRIMARY KEY, version INT NOT NULL, doc JSONB NOT NULL);
`

func (s *PgStore) createDoc(ctx context.Context, table string, id uuid.UUID, doc interface{}, version *int) error {
	*version = 1
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s doc: %w", table, err)
	}
	q := fmt.Sprintf(`INSERT INTO %s (id, version, doc) VALUES ($1, 1, $2)`, table)
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, e := tx.Exec(ctx, q, id, data)
		return e
	})
}

func (s *PgStore) getDoc(ctx context.Context, table string, id uuid.UUID, out interface{}) error {
	q := fmt.Sprintf(`SELECT doc FROM %s WHERE id=$1`, table)
	var data []byte
	err := s.pool.QueryRow(ctx, q, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load %s doc: %w", table, err)
	}
	return json.Unmarshal(data, out)
}

func (s *PgStore) saveDoc(ctx context.Context, table string, id uuid.UUID, doc interface{}, version *int) error {
	next := *version + 1
	*version = next
	data, err := json.Marshal(doc)
	if err != nil {
		*version = next - 1
		return fmt.Errorf("marshal %s doc: %w", table, err)
	}
	q := fmt.Sprintf(`UPDATE %s SET version=$1, doc=$2 WHERE id=$3 AND version=$4`, table)
	err = pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, e := tx.Exec(ctx, q, next, data, id, next-1)
		if e != nil {
			return e
		}
		if tag.RowsAffected() == 0 {
			return engine.ErrVersionConflict
		}
		return nil
	})
	if err != nil {
		*version = next - 1
	}
	return err
}

func (s *PgStore) CreateGame(ctx context.Context, g *models.Game) error {
	return s.createDoc(ctx, "games", g.ID, g, &g.Version)
}

func (s *PgStore) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var g models.Game
	if err := s.getDoc(ctx, "games", id, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PgStore) SaveGame(ctx context.Context, g *models.Game) error {
	return s.saveDoc(ctx, "games", g.ID, g, &g.Version)
}

func (s *PgStore) CreateAuction(ctx context.Context, a *models.Auction) error {
	return s.createDoc(ctx, "auctions", a.ID, a, &a.Version)
}

func (s *PgStore) GetAuction(ctx context.Context, id uuid.UUID) (*models.Auction, error) {
	var a models.Auction
	if err := s.getDoc(ctx, "auctions", id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PgStore) SaveAuction(ctx context.Context, a *models.Auction) error {
	return s.saveDoc(ctx, "auctions", a.ID, a, &a.Version)
}

func (s *PgStore) CreateLotto(ctx context.Context, l *models.Lotto) error {
	return s.createDoc(ctx, "lottos", l.ID, l, &l.Version)
}

func (s *PgStore) GetLotto(ctx context.Context, id uuid.UUID) (*models.Lotto, error) {
	var l models.Lotto
	if err := s.getDoc(ctx, "lottos", id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PgStore) SaveLotto(ctx context.Context, l *models.Lotto) error {
	return s.saveDoc(ctx, "lottos", l.ID, l, &l.Version)
}

func (s *PgStore) CreateTreasure(ctx context.Context, t *models.Treasure) error {
	return s.createDoc(ctx, "treasures", t.ID, t, &t.Version)
}

func (s *PgStore) GetTreasure(ctx context.Context, id uuid.UUID) (*models.Treasure, error) {
	var t models.Treasure
	if err := s.getDoc(ctx, "treasures", id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PgStore) SaveTreasure(ctx context.Context, t *models.Treasure) error {
	return s.saveDoc(ctx, "treasures", t.ID, t, &t.Version)
}

func (s *PgStore) CreateTrade(ctx context.Context, tr *models.TradeOffer) error {
	return s.createDoc(ctx, "trades", tr.ID, tr, &tr.Version)
}

func (s *PgStore) GetTrade(ctx context.Context, id uuid.UUID) (*models.TradeOffer, error) {
	var tr models.TradeOffer
	if err := s.getDoc(ctx, "trades", id, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (s *PgStore) SaveTrade(ctx context.Context, tr *models.TradeOffer) error {
	return s.saveDoc(ctx, "trades", tr.ID, tr, &tr.Version)
}

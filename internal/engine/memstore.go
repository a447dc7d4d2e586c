// internal/engine/memstore.go
package engine

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/RomanSery/rent-day-sub000/internal/models"
)

// MemStore is an in-memory Store with the same versioning semantics as the
// postgres implementation. It deep-copies documents on every read and write
// so callers can never mutate stored state without going through a save.
type MemStore struct {
	mu        sync.Mutex
	games     map[uuid.UUID][]byte
	auctions  map[uuid.UUID][]byte
	lottos    map[uuid.UUID][]byte
	treasures map[uuid.UUID][]byte
	trades    map[uuid.UUID][]byte
	versions  map[uuid.UUID]int
}

// NewMemStore builds an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		games:     make(map[uuid.UUID][]byte),
		auctions:  make(map[uuid.UUID][]byte),
		lottos:    make(map[uuid.UUID][]byte),
		treasures: make(map[uuid.UUID][]byte),
		trades:    make(map[uuid.UUID][]byte),
		versions:  make(map[uuid.UUID]int),
	}
}

func (s *MemStore) create(m map[uuid.UUID][]byte, id uuid.UUID, doc interface{}, version *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*version = 1
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m[id] = data
	s.versions[id] = 1
	return nil
}

func (s *MemStore) get(m map[uuid.UUID][]byte, id uuid.UUID, out interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := m[id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (s *MemStore) save(m map[uuid.UUID][]byte, id uuid.UUID, doc interface{}, version *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := m[id]; !ok {
		return ErrNotFound
	}
	if s.versions[id] != *version {
		return ErrVersionConflict
	}
	*version++
	data, err := json.Marshal(doc)
	if err != nil {
		*version--
		return err
	}
	m[id] = data
	s.versions[id] = *version
	return nil
}

func (s *MemStore) CreateGame(_ context.Context, g *models.Game) error {
	return s.create(s.games, g.ID, g, &g.Version)
}

func (s *MemStore) GetGame(_ context.Context, id uuid.UUID) (*models.Game, error) {
	var g models.Game
	if err := s.get(s.games, id, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *MemStore) SaveGame(_ context.Context, g *models.Game) error {
	return s.save(s.games, g.ID, g, &g.Version)
}

func (s *MemStore) CreateAuction(_ context.Context, a *models.Auction) error {
	return s.create(s.auctions, a.ID, a, &a.Version)
}

func (s *MemStore) GetAuction(_ context.Context, id uuid.UUID) (*models.Auction, error) {
	var a models.Auction
	if err := s.get(s.auctions, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MemStore) SaveAuction(_ context.Context, a *models.Auction) error {
	return s.save(s.auctions, a.ID, a, &a.Version)
}

func (s *MemStore) CreateLotto(_ context.Context, l *models.Lotto) error {
	return s.create(s.lottos, l.ID, l, &l.Version)
}

func (s *MemStore) GetLotto(_ context.Context, id uuid.UUID) (*models.Lotto, error) {
	var l models.Lotto
	if err := s.get(s.lottos, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *MemStore) SaveLotto(_ context.Context, l *models.Lotto) error {
	return s.save(s.lottos, l.ID, l, &l.Version)
}

func (s *MemStore) CreateTreasure(_ context.Context, t *models.Treasure) error {
	return s.create(s.treasures, t.ID, t, &t.Version)
}

func (s *MemStore) GetTreasure(_ context.Context, id uuid.UUID) (*models.Treasure, error) {
	var t models.Treasure
	if err := s.get(s.treasures, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MemStore) SaveTreasure(_ context.Context, t *models.Treasure) error {
	return s.save(s.treasures, t.ID, t, &t.Version)
}

func (s *MemStore) CreateTrade(_ context.Context, tr *models.TradeOffer) error {
	return s.create(s.trades, tr.ID, tr, &tr.Version)
}

func (s *MemStore) GetTrade(_ context.Context, id uuid.UUID) (*models.TradeOffer, error) {
	var tr models.TradeOffer
	if err := s.get(s.trades, id, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (s *MemStore) SaveTrade(_ context.Context, tr *models.TradeOffer) error {
	return s.save(s.trades, tr.ID, tr, &tr.Version)
}

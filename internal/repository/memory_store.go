package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"GoldCast/internal/domain/models"
	domrepo "GoldCast/internal/domain/repository"
)

// MemoryStore keeps all three tables in process memory. Used with storage.type=memory and in tests.
type MemoryStore struct {
	mu          sync.RWMutex
	prices      map[string][]models.PricePoint
	predictions map[string]*models.Prediction
	order       []string // prediction ids in insertion order
	snapshots   map[string][]models.Snapshot
	maxPrices   int
}

var _ domrepo.Store = (*MemoryStore)(nil)

// NewMemoryStore keeps at most maxPrices price rows per symbol; 0 means unbounded.
func NewMemoryStore(maxPrices int) *MemoryStore {
	return &MemoryStore{
		prices:      make(map[string][]models.PricePoint),
		predictions: make(map[string]*models.Prediction),
		snapshots:   make(map[string][]models.Snapshot),
		maxPrices:   maxPrices,
	}
}

func (s *MemoryStore) SavePrice(_ context.Context, symbol string, p models.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := append(s.prices[symbol], p)
	if s.maxPrices > 0 && len(rows) > s.maxPrices {
		rows = rows[len(rows)-s.maxPrices:]
	}
	s.prices[symbol] = rows
	return nil
}

// Prices returns a copy of the stored price rows for symbol.
func (s *MemoryStore) Prices(symbol string) []models.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PricePoint(nil), s.prices[symbol]...)
}

func (s *MemoryStore) SavePrediction(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.predictions[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.predictions[p.ID] = p.Clone()
	return nil
}

func (s *MemoryStore) UpdatePrediction(_ context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.predictions[p.ID]
	if !ok {
		return models.ErrNotFound
	}
	if !cur.Pending() {
		return models.ErrAlreadyVerified
	}
	s.predictions[p.ID] = p.Clone()
	return nil
}

func (s *MemoryStore) PendingPredictions(_ context.Context, symbol string, dueBefore time.Time) ([]*models.Prediction, error) {
	return s.collect(symbol, func(p *models.Prediction) bool {
		return p.Pending() && !p.Timestamp.After(dueBefore)
	}, false, 0), nil
}

func (s *MemoryStore) VerifiedSince(_ context.Context, symbol string, since time.Time) ([]*models.Prediction, error) {
	return s.collect(symbol, func(p *models.Prediction) bool {
		return p.Status == models.StatusVerified && p.Accuracy != nil && !p.Timestamp.Before(since)
	}, true, 0), nil
}

func (s *MemoryStore) RecentAccuracies(_ context.Context, symbol string, limit int) ([]float64, error) {
	preds := s.collect(symbol, func(p *models.Prediction) bool {
		return p.Status == models.StatusVerified && p.Accuracy != nil
	}, true, limit)
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = *p.Accuracy
	}
	return out, nil
}

func (s *MemoryStore) ListPredictions(_ context.Context, symbol string, f models.PredictionFilter) ([]*models.Prediction, error) {
	return s.collect(symbol, func(p *models.Prediction) bool {
		if f.Status != "" && p.Status != f.Status {
			return false
		}
		if !f.From.IsZero() && p.Timestamp.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && p.Timestamp.After(f.To) {
			return false
		}
		return true
	}, true, f.Limit), nil
}

func (s *MemoryStore) CountPredictions(_ context.Context, symbol string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.predictions {
		if p.Symbol == symbol {
			n++
		}
	}
	return n, nil
}

// collect filters predictions of a symbol ordered by timestamp, newest first when desc.
func (s *MemoryStore) collect(symbol string, keep func(*models.Prediction) bool, desc bool, limit int) []*models.Prediction {
	s.mu.RLock()
	out := make([]*models.Prediction, 0)
	for _, id := range s.order {
		p := s.predictions[id]
		if p.Symbol == symbol && keep(p) {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, symbol string, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[symbol] = append(s.snapshots[symbol], snap)
	return nil
}

func (s *MemoryStore) LatestSnapshot(_ context.Context, symbol string) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.snapshots[symbol]
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}
	latest := rows[0]
	for _, r := range rows[1:] {
		if !r.Timestamp.Before(latest.Timestamp) {
			latest = r
		}
	}
	return &latest, nil
}

func (s *MemoryStore) Health(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

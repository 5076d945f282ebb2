package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

const (
	FavoriteIDsKey  = "favoriteCafes"
	FavoriteDataKey = "favoriteCafesData"
)

var ErrFavoriteRecordMismatch = errors.New("favorite record does not match place id")

// FavoriteService keeps the favorite id list and the cached favorite records
// in lockstep. Every mutation is written to the store immediately.
type FavoriteService struct {
	store  ports.KeyValueStore
	logger *slog.Logger

	mu sync.Mutex
}

func NewFavoriteService(store ports.KeyValueStore, logger *slog.Logger) *FavoriteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FavoriteService{store: store, logger: logger}
}

func (s *FavoriteService) IsFavorite(ctx context.Context, placeID string) (bool, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, placeID) >= 0, nil
}

// IDs returns favorite place ids in the order they were added.
func (s *FavoriteService) IDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := s.load(ctx)
	return ids, err
}

func (s *FavoriteService) Count(ctx context.Context) (int, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// AllFavoriteRecords returns the cached record of every favorite, in
// favorite-add order.
func (s *FavoriteService) AllFavoriteRecords(ctx context.Context) ([]domain.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Place, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	out := make([]domain.Place, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ToggleFavorite removes placeID from favorites when present, otherwise adds
// it with record. Adding requires the record so both collections stay
// matched. It returns the new favorite state.
func (s *FavoriteService) ToggleFavorite(ctx context.Context, placeID string, record *domain.Place) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, records, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if idx := indexOf(ids, placeID); idx >= 0 {
		ids = append(ids[:idx], ids[idx+1:]...)
		records = withoutRecord(records, placeID)
		if err := s.persist(ctx, ids, records); err != nil {
			return true, err
		}
		s.logger.Info("favorite removed", slog.String("place_id", placeID), slog.Int("count", len(ids)))
		return false, nil
	}

	if record == nil {
		return false, domain.ErrFavoriteRecordRequired
	}
	if record.ID != placeID {
		return false, fmt.Errorf("%w: %q != %q", ErrFavoriteRecordMismatch, record.ID, placeID)
	}

	ids = append(ids, placeID)
	records = append(withoutRecord(records, placeID), *record)
	if err := s.persist(ctx, ids, records); err != nil {
		return false, err
	}
	s.logger.Info("favorite added", slog.String("place_id", placeID), slog.Int("count", len(ids)))
	return true, nil
}

// load reads both collections. Data that fails to parse is treated as empty.
func (s *FavoriteService) load(ctx context.Context) ([]string, []domain.Place, error) {
	rawIDs, _, err := s.store.Get(ctx, FavoriteIDsKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", FavoriteIDsKey, err)
	}
	rawData, _, err := s.store.Get(ctx, FavoriteDataKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", FavoriteDataKey, err)
	}

	ids := []string{}
	if rawIDs != "" {
		if err := json.Unmarshal([]byte(rawIDs), &ids); err != nil {
			s.logger.Warn("favorites: discarding unreadable ids", slog.String("error", err.Error()))
			ids = []string{}
		}
	}
	ids = dedupe(ids)

	records := []domain.Place{}
	if rawData != "" {
		if err := json.Unmarshal([]byte(rawData), &records); err != nil {
			s.logger.Warn("favorites: discarding unreadable records", slog.String("error", err.Error()))
			records = []domain.Place{}
		}
	}
	return ids, records, nil
}

func (s *FavoriteService) persist(ctx context.Context, ids []string, records []domain.Place) error {
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	dataJSON, err := json.Marshal(records)
	if err != nil {
		return err
	}

	if batch, ok := s.store.(ports.BatchWriter); ok {
		return batch.SetMany(ctx, []ports.KeyValue{
			{Key: FavoriteDataKey, Value: string(dataJSON)},
			{Key: FavoriteIDsKey, Value: string(idsJSON)},
		})
	}

	previous, hadPrevious, err := s.store.Get(ctx, FavoriteDataKey)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, FavoriteDataKey, string(dataJSON)); err != nil {
		return err
	}
	if err := s.store.Set(ctx, FavoriteIDsKey, string(idsJSON)); err != nil {
		if !hadPrevious {
			previous = "[]"
		}
		if rbErr := s.store.Set(ctx, FavoriteDataKey, previous); rbErr != nil {
			s.logger.Error("favorites: restore after failed write", slog.String("error", rbErr.Error()))
		}
		return err
	}
	return nil
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func withoutRecord(records []domain.Place, placeID string) []domain.Place {
	out := make([]domain.Place, 0, len(records))
	for _, r := range records {
		if r.ID != placeID {
			out = append(out, r)
		}
	}
	return out
}

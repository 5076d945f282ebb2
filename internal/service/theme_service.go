package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/njprem/NoirBrew_Web/internal/domain"
	"github.com/njprem/NoirBrew_Web/internal/repository/ports"
)

const ThemeKey = "theme"

type ThemeService struct {
	store    ports.KeyValueStore
	fallback domain.Theme

	mu sync.Mutex
}

func NewThemeService(store ports.KeyValueStore, fallback domain.Theme) *ThemeService {
	return &ThemeService{store: store, fallback: domain.ParseTheme(string(fallback), domain.ThemeDark)}
}

// Current returns the saved theme, or the fallback when none is saved.
func (s *ThemeService) Current(ctx context.Context) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(ctx)
}

func (s *ThemeService) Toggle(ctx context.Context) (domain.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current(ctx)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if err := s.store.Set(ctx, ThemeKey, string(next)); err != nil {
		return cur, fmt.Errorf("save theme: %w", err)
	}
	return next, nil
}

func (s *ThemeService) current(ctx context.Context) (domain.Theme, error) {
	raw, found, err := s.store.Get(ctx, ThemeKey)
	if err != nil {
		return s.fallback, fmt.Errorf("read theme: %w", err)
	}
	if !found {
		return s.fallback, nil
	}
	return domain.ParseTheme(raw, s.fallback), nil
}

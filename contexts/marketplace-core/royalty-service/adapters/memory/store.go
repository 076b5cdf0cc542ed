package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"
)

type Store struct {
	mu      sync.RWMutex
	configs map[string]entities.RoyaltyConfig
}

func NewStore() *Store {
	return &Store{configs: make(map[string]entities.RoyaltyConfig)}
}

func (s *Store) CreateConfig(_ context.Context, config entities.RoyaltyConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(config.CollectionID)
	if id == "" {
		return domainerrors.ErrInvalidConfigInput
	}
	if _, exists := s.configs[id]; exists {
		return domainerrors.ErrConfigExists
	}
	s.configs[id] = config
	return nil
}

func (s *Store) GetConfig(_ context.Context, collectionID string) (entities.RoyaltyConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.configs[strings.TrimSpace(collectionID)]
	if !ok {
		return entities.RoyaltyConfig{}, domainerrors.ErrConfigNotFound
	}
	return config, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

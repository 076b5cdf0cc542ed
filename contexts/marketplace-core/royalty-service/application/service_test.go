package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"
	"turnstile/contexts/marketplace-core/royalty-service/ports"
)

type testRepo struct {
	configs map[string]entities.RoyaltyConfig
}

func newTestRepo() *testRepo {
	return &testRepo{configs: make(map[string]entities.RoyaltyConfig)}
}

func (r *testRepo) CreateConfig(_ context.Context, config entities.RoyaltyConfig) error {
	if _, exists := r.configs[config.CollectionID]; exists {
		return domainerrors.ErrConfigExists
	}
	r.configs[config.CollectionID] = config
	return nil
}

func (r *testRepo) GetConfig(_ context.Context, collectionID string) (entities.RoyaltyConfig, error) {
	config, ok := r.configs[collectionID]
	if !ok {
		return entities.RoyaltyConfig{}, domainerrors.ErrConfigNotFound
	}
	return config, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

func validInput() ports.ConfigureInput {
	return ports.ConfigureInput{
		CollectionID:    "collection-1",
		ArtistWallet:    "artist",
		VenueWallet:     "venue",
		PlatformWallet:  "platform",
		ArtistBP:        1000,
		VenueBP:         500,
		PlatformBP:      100,
		CapMultiplierBP: 20000,
		Authority:       "authority",
	}
}

func newService(repo ports.Repository) Service {
	return Service{
		Repo:  repo,
		Clock: fixedClock{now: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestConfigureCreatesConfig(t *testing.T) {
	service := newService(newTestRepo())

	config, err := service.Configure(context.Background(), validInput())
	if err != nil {
		t.Fatalf("configure failed: %v", err)
	}
	if config.CollectionID != "collection-1" {
		t.Fatalf("unexpected collection id %q", config.CollectionID)
	}
	if config.CapMultiplierBP != 20000 {
		t.Fatalf("unexpected cap multiplier %d", config.CapMultiplierBP)
	}
}

func TestConfigureRejectsOversizedSplit(t *testing.T) {
	service := newService(newTestRepo())

	input := validInput()
	input.ArtistBP = 9000
	input.VenueBP = 900
	input.PlatformBP = 101

	_, err := service.Configure(context.Background(), input)
	if !errors.Is(err, domainerrors.ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}

func TestConfigureAcceptsSplitAtExactly100Percent(t *testing.T) {
	service := newService(newTestRepo())

	input := validInput()
	input.ArtistBP = 9000
	input.VenueBP = 900
	input.PlatformBP = 100

	if _, err := service.Configure(context.Background(), input); err != nil {
		t.Fatalf("expected split of exactly 10000 bp to pass, got %v", err)
	}
}

func TestConfigureIsCreateOncePerCollection(t *testing.T) {
	service := newService(newTestRepo())

	if _, err := service.Configure(context.Background(), validInput()); err != nil {
		t.Fatalf("first configure failed: %v", err)
	}
	_, err := service.Configure(context.Background(), validInput())
	if !errors.Is(err, domainerrors.ErrConfigExists) {
		t.Fatalf("expected ErrConfigExists, got %v", err)
	}
}

func TestPreviewSplitUsesStoredConfig(t *testing.T) {
	service := newService(newTestRepo())
	if _, err := service.Configure(context.Background(), validInput()); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	result, err := service.PreviewSplit(context.Background(), "collection-1", 1000)
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if result.ArtistShare != 100 || result.VenueShare != 50 || result.PlatformShare != 10 || result.SellerShare != 840 {
		t.Fatalf("unexpected settlement %+v", result)
	}
}

func TestGetConfigUnknownCollection(t *testing.T) {
	service := newService(newTestRepo())

	_, err := service.GetConfig(context.Background(), "missing")
	if !errors.Is(err, domainerrors.ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

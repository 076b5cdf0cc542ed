package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"
	"turnstile/contexts/marketplace-core/royalty-service/ports"
	"turnstile/internal/shared/settlement"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

// Configure creates the one royalty config a collection gets. Re-creation
// is rejected with ErrConfigExists; split updates are not part of this
// service.
func (s Service) Configure(ctx context.Context, input ports.ConfigureInput) (entities.RoyaltyConfig, error) {
	config, err := entities.NewRoyaltyConfig(
		input.CollectionID,
		input.ArtistWallet,
		input.VenueWallet,
		input.PlatformWallet,
		input.ArtistBP,
		input.VenueBP,
		input.PlatformBP,
		input.CapMultiplierBP,
		input.Authority,
		s.now(),
	)
	if err != nil {
		return entities.RoyaltyConfig{}, err
	}

	if err := s.Repo.CreateConfig(ctx, config); err != nil {
		return entities.RoyaltyConfig{}, err
	}

	resolveLogger(s.Logger).Info("royalty config created",
		"event", "royalty_config_created",
		"module", "marketplace-core/royalty-service",
		"layer", "application",
		"collection_id", config.CollectionID,
		"artist_bp", config.ArtistBP,
		"venue_bp", config.VenueBP,
		"platform_bp", config.PlatformBP,
		"cap_multiplier_bp", config.CapMultiplierBP,
	)
	return config, nil
}

func (s Service) GetConfig(ctx context.Context, collectionID string) (entities.RoyaltyConfig, error) {
	if strings.TrimSpace(collectionID) == "" {
		return entities.RoyaltyConfig{}, domainerrors.ErrInvalidConfigInput
	}
	return s.Repo.GetConfig(ctx, strings.TrimSpace(collectionID))
}

// PreviewSplit computes the settlement a sale of total would produce under
// the collection's config, without moving any funds.
func (s Service) PreviewSplit(ctx context.Context, collectionID string, total uint64) (settlement.Settlement, error) {
	config, err := s.GetConfig(ctx, collectionID)
	if err != nil {
		return settlement.Settlement{}, err
	}
	return settlement.Split(total, config.Royalty())
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

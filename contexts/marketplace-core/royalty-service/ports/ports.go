package ports

import (
	"context"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
)

type ConfigureInput struct {
	CollectionID    string
	ArtistWallet    string
	VenueWallet     string
	PlatformWallet  string
	ArtistBP        uint16
	VenueBP         uint16
	PlatformBP      uint16
	CapMultiplierBP uint16
	Authority       string
}

type Repository interface {
	// CreateConfig persists a new config; creation is one-shot per
	// collection and a duplicate maps to ErrConfigExists.
	CreateConfig(ctx context.Context, config entities.RoyaltyConfig) error
	GetConfig(ctx context.Context, collectionID string) (entities.RoyaltyConfig, error)
}

type Clock interface {
	Now() time.Time
}

package entities

import (
	"strings"
	"time"

	domainerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"
	"turnstile/internal/shared/settlement"
)

// RoyaltyConfig is the per-collection split configuration: who gets paid on
// every resale, how much in basis points, and how far above the original
// price a resale may go. Created once per collection by its authority and
// immutable for the lifetime of listings and auctions referencing it.
type RoyaltyConfig struct {
	CollectionID    string
	ArtistWallet    string
	VenueWallet     string
	PlatformWallet  string
	ArtistBP        uint16
	VenueBP         uint16
	PlatformBP      uint16
	CapMultiplierBP uint16
	Authority       string
	CreatedAt       time.Time
}

func NewRoyaltyConfig(
	collectionID string,
	artistWallet string,
	venueWallet string,
	platformWallet string,
	artistBP uint16,
	venueBP uint16,
	platformBP uint16,
	capMultiplierBP uint16,
	authority string,
	createdAt time.Time,
) (RoyaltyConfig, error) {
	if strings.TrimSpace(collectionID) == "" ||
		strings.TrimSpace(artistWallet) == "" ||
		strings.TrimSpace(venueWallet) == "" ||
		strings.TrimSpace(platformWallet) == "" ||
		strings.TrimSpace(authority) == "" {
		return RoyaltyConfig{}, domainerrors.ErrInvalidConfigInput
	}
	if capMultiplierBP == 0 {
		return RoyaltyConfig{}, domainerrors.ErrInvalidConfigInput
	}
	royalty := settlement.Royalty{ArtistBP: artistBP, VenueBP: venueBP, PlatformBP: platformBP}
	if err := royalty.Validate(); err != nil {
		return RoyaltyConfig{}, domainerrors.ErrInvalidSplit
	}

	return RoyaltyConfig{
		CollectionID:    strings.TrimSpace(collectionID),
		ArtistWallet:    strings.TrimSpace(artistWallet),
		VenueWallet:     strings.TrimSpace(venueWallet),
		PlatformWallet:  strings.TrimSpace(platformWallet),
		ArtistBP:        artistBP,
		VenueBP:         venueBP,
		PlatformBP:      platformBP,
		CapMultiplierBP: capMultiplierBP,
		Authority:       strings.TrimSpace(authority),
		CreatedAt:       createdAt.UTC(),
	}, nil
}

// Royalty projects the config into the shape the settlement splitter
// consumes.
func (c RoyaltyConfig) Royalty() settlement.Royalty {
	return settlement.Royalty{
		ArtistWallet:   c.ArtistWallet,
		VenueWallet:    c.VenueWallet,
		PlatformWallet: c.PlatformWallet,
		ArtistBP:       c.ArtistBP,
		VenueBP:        c.VenueBP,
		PlatformBP:     c.PlatformBP,
	}
}

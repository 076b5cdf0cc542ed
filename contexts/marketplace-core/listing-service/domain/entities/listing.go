package entities

import (
	"strings"
	"time"

	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
)

type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
	ListingStatusExpired   ListingStatus = "expired"
)

// Listing is one ticket held in escrow and offered at a capped resale
// price. PriceCap is derived once at creation from the ticket's original
// price and the collection's cap multiplier; Price may never exceed it.
// Status leaves Active exactly once and never returns.
type Listing struct {
	ListingID     string
	TicketID      string
	CollectionID  string
	Seller        string
	Price         uint64
	OriginalPrice uint64
	PriceCap      uint64
	ExpiresAt     *time.Time
	AllowOffers   bool
	Status        ListingStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewListing(
	listingID string,
	ticketID string,
	collectionID string,
	seller string,
	price uint64,
	originalPrice uint64,
	priceCap uint64,
	expiresAt *time.Time,
	allowOffers bool,
	createdAt time.Time,
) (Listing, error) {
	if strings.TrimSpace(listingID) == "" ||
		strings.TrimSpace(ticketID) == "" ||
		strings.TrimSpace(collectionID) == "" ||
		strings.TrimSpace(seller) == "" {
		return Listing{}, domainerrors.ErrInvalidListingInput
	}
	if price > priceCap {
		return Listing{}, domainerrors.ErrPriceExceedsCap
	}
	if expiresAt != nil && !expiresAt.After(createdAt) {
		return Listing{}, domainerrors.ErrListingExpired
	}

	var expiry *time.Time
	if expiresAt != nil {
		utc := expiresAt.UTC()
		expiry = &utc
	}
	return Listing{
		ListingID:     strings.TrimSpace(listingID),
		TicketID:      strings.TrimSpace(ticketID),
		CollectionID:  strings.TrimSpace(collectionID),
		Seller:        strings.TrimSpace(seller),
		Price:         price,
		OriginalPrice: originalPrice,
		PriceCap:      priceCap,
		ExpiresAt:     expiry,
		AllowOffers:   allowOffers,
		Status:        ListingStatusActive,
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}, nil
}

// IsExpired is the data-level expiry predicate; the status field flips to
// Expired only when the expiry sweep or an operation observes it.
func (l Listing) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now.UTC())
}

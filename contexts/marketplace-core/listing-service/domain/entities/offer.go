package entities

import (
	"strings"
	"time"

	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
)

type OfferStatus string

const (
	OfferStatusActive         OfferStatus = "active"
	OfferStatusAccepted       OfferStatus = "accepted"
	OfferStatusRejected       OfferStatus = "rejected"
	OfferStatusCancelled      OfferStatus = "cancelled"
	OfferStatusExpired        OfferStatus = "expired"
	OfferStatusCounterOffered OfferStatus = "counter_offered"
)

// Offer is a buyer's below-or-off-asking proposal against a listing that
// allows offers. Terminal on any status other than Active. After a
// counter, Amount and ExpiresAt carry the seller's proposed terms.
type Offer struct {
	OfferID   string
	ListingID string
	Buyer     string
	Amount    uint64
	ExpiresAt time.Time
	Status    OfferStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOffer(
	offerID string,
	listingID string,
	buyer string,
	amount uint64,
	expiresAt time.Time,
	createdAt time.Time,
) (Offer, error) {
	if strings.TrimSpace(offerID) == "" ||
		strings.TrimSpace(listingID) == "" ||
		strings.TrimSpace(buyer) == "" {
		return Offer{}, domainerrors.ErrInvalidOfferInput
	}
	if amount == 0 {
		return Offer{}, domainerrors.ErrInsufficientFunds
	}
	if !expiresAt.After(createdAt) {
		return Offer{}, domainerrors.ErrOfferExpired
	}

	return Offer{
		OfferID:   strings.TrimSpace(offerID),
		ListingID: strings.TrimSpace(listingID),
		Buyer:     strings.TrimSpace(buyer),
		Amount:    amount,
		ExpiresAt: expiresAt.UTC(),
		Status:    OfferStatusActive,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}, nil
}

func (o Offer) IsExpired(now time.Time) bool {
	return !o.ExpiresAt.After(now.UTC())
}

package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	"turnstile/contexts/marketplace-core/listing-service/ports"
	"turnstile/internal/shared/keys"
	"turnstile/internal/shared/settlement"
)

type Service struct {
	UoW       ports.UnitOfWork
	Repo      ports.Repository
	Tickets   ports.TicketDirectory
	Royalties ports.RoyaltySource
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CreateListing escrows the ticket and opens an Active listing. The price
// cap derives from the ticket's original price and the collection's cap
// multiplier; a price above it never reaches the ledger.
func (s Service) CreateListing(ctx context.Context, input ports.CreateListingInput) (entities.Listing, error) {
	ticket, err := s.Tickets.Describe(ctx, input.TicketID)
	if err != nil {
		return entities.Listing{}, err
	}
	royalty, err := s.Royalties.Royalty(ctx, ticket.CollectionID)
	if err != nil {
		return entities.Listing{}, err
	}

	priceCap, err := settlement.PriceCap(ticket.OriginalPrice, royalty.CapMultiplierBP)
	if err != nil {
		return entities.Listing{}, err
	}

	listingID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Listing{}, err
	}
	listing, err := entities.NewListing(
		listingID,
		ticket.TicketID,
		ticket.CollectionID,
		input.Seller,
		input.Price,
		ticket.OriginalPrice,
		priceCap,
		input.ExpiresAt,
		input.AllowOffers,
		s.now(),
	)
	if err != nil {
		return entities.Listing{}, err
	}

	err = s.UoW.Execute(ctx, func(tx ports.Tx) error {
		if err := tx.LockTicket(listing.TicketID, listing.Seller, keys.ListingVault(listing.ListingID)); err != nil {
			return err
		}
		return tx.SaveListing(listing)
	})
	if err != nil {
		return entities.Listing{}, err
	}

	resolveLogger(s.Logger).Info("listing created",
		"event", "listing_created",
		"module", "marketplace-core/listing-service",
		"layer", "application",
		"listing_id", listing.ListingID,
		"ticket_id", listing.TicketID,
		"seller", listing.Seller,
		"price", listing.Price,
		"price_cap", listing.PriceCap,
	)
	return listing, nil
}

// Buy settles an Active listing at its asking price: royalty shares and
// the seller remainder are paid from the buyer, the escrowed ticket is
// released to the buyer, and the listing goes Sold, all in one unit of
// work.
func (s Service) Buy(ctx context.Context, listingID string, buyer string) (entities.Listing, settlement.Settlement, error) {
	if strings.TrimSpace(buyer) == "" {
		return entities.Listing{}, settlement.Settlement{}, domainerrors.ErrInvalidListingInput
	}

	var (
		sold  entities.Listing
		split settlement.Settlement
	)
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		listing, err := tx.GetListing(listingID)
		if err != nil {
			return err
		}
		if err := requireActiveListing(listing, now); err != nil {
			return err
		}

		royalty, err := s.Royalties.Royalty(ctx, listing.CollectionID)
		if err != nil {
			return err
		}
		split, err = settlement.Split(listing.Price, royalty.Split)
		if err != nil {
			return err
		}
		if err := s.paySettlement(tx, strings.TrimSpace(buyer), listing.Seller, royalty.Split, split); err != nil {
			return err
		}
		if err := tx.ReleaseTicket(keys.ListingVault(listing.ListingID), strings.TrimSpace(buyer)); err != nil {
			return err
		}

		listing.Status = entities.ListingStatusSold
		listing.UpdatedAt = now
		if err := tx.SaveListing(listing); err != nil {
			return err
		}
		sold = listing
		return s.appendSaleOutbox(ctx, tx, "listing.sold", listing, strings.TrimSpace(buyer), split, now)
	})
	if err != nil {
		return entities.Listing{}, settlement.Settlement{}, err
	}

	resolveLogger(s.Logger).Info("listing sold",
		"event", "listing_sold",
		"module", "marketplace-core/listing-service",
		"layer", "application",
		"listing_id", sold.ListingID,
		"buyer", buyer,
		"total", split.Total,
		"artist_share", split.ArtistShare,
		"venue_share", split.VenueShare,
		"platform_share", split.PlatformShare,
		"seller_share", split.SellerShare,
	)
	return sold, split, nil
}

// CancelListing returns the escrowed ticket to the seller. No funds move.
func (s Service) CancelListing(ctx context.Context, listingID string, caller string) (entities.Listing, error) {
	var cancelled entities.Listing
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		listing, err := tx.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.Seller != strings.TrimSpace(caller) {
			return domainerrors.ErrUnauthorized
		}
		if err := requireListingStatusActive(listing); err != nil {
			return err
		}

		if err := tx.ReleaseTicket(keys.ListingVault(listing.ListingID), listing.Seller); err != nil {
			return err
		}
		listing.Status = entities.ListingStatusCancelled
		listing.UpdatedAt = now
		if err := tx.SaveListing(listing); err != nil {
			return err
		}
		cancelled = listing
		return nil
	})
	if err != nil {
		return entities.Listing{}, err
	}

	resolveLogger(s.Logger).Info("listing cancelled",
		"event", "listing_cancelled",
		"module", "marketplace-core/listing-service",
		"layer", "application",
		"listing_id", cancelled.ListingID,
	)
	return cancelled, nil
}

// UpdateListing applies only the fields supplied. A new price is checked
// against the cap fixed at creation.
func (s Service) UpdateListing(ctx context.Context, listingID string, caller string, input ports.UpdateListingInput) (entities.Listing, error) {
	var updated entities.Listing
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		listing, err := tx.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.Seller != strings.TrimSpace(caller) {
			return domainerrors.ErrUnauthorized
		}
		if err := requireActiveListing(listing, now); err != nil {
			return err
		}

		if input.Price != nil {
			if *input.Price > listing.PriceCap {
				return domainerrors.ErrPriceExceedsCap
			}
			listing.Price = *input.Price
		}
		if input.ExpiresAt != nil {
			if !input.ExpiresAt.After(now) {
				return domainerrors.ErrListingExpired
			}
			utc := input.ExpiresAt.UTC()
			listing.ExpiresAt = &utc
		}
		if input.AllowOffers != nil {
			listing.AllowOffers = *input.AllowOffers
		}
		listing.UpdatedAt = now
		if err := tx.SaveListing(listing); err != nil {
			return err
		}
		updated = listing
		return nil
	})
	if err != nil {
		return entities.Listing{}, err
	}
	return updated, nil
}

// MakeOffer records a buyer's proposal against an offer-enabled listing.
func (s Service) MakeOffer(ctx context.Context, listingID string, input ports.MakeOfferInput) (entities.Offer, error) {
	offerID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Offer{}, err
	}

	var created entities.Offer
	now := s.now()
	err = s.UoW.Execute(ctx, func(tx ports.Tx) error {
		listing, err := tx.GetListing(listingID)
		if err != nil {
			return err
		}
		if err := requireListingStatusActive(listing); err != nil {
			return err
		}
		if !listing.AllowOffers {
			return domainerrors.ErrOffersNotAllowed
		}

		offer, err := entities.NewOffer(offerID, listing.ListingID, input.Buyer, input.Amount, input.ExpiresAt, now)
		if err != nil {
			return err
		}
		if err := tx.SaveOffer(offer); err != nil {
			return err
		}
		created = offer
		return nil
	})
	if err != nil {
		return entities.Offer{}, err
	}

	resolveLogger(s.Logger).Info("offer made",
		"event", "offer_made",
		"module", "marketplace-core/listing-service",
		"layer", "application",
		"offer_id", created.OfferID,
		"listing_id", created.ListingID,
		"amount", created.Amount,
	)
	return created, nil
}

// AcceptOffer settles the listing at the offer amount instead of the
// asking price, through the same settlement path as Buy.
func (s Service) AcceptOffer(ctx context.Context, offerID string, caller string) (entities.Offer, settlement.Settlement, error) {
	var (
		accepted entities.Offer
		split    settlement.Settlement
	)
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		offer, err := tx.GetOffer(offerID)
		if err != nil {
			return err
		}
		if err := requireActiveOffer(offer, now); err != nil {
			return err
		}

		listing, err := tx.GetListing(offer.ListingID)
		if err != nil {
			return err
		}
		if listing.Seller != strings.TrimSpace(caller) {
			return domainerrors.ErrUnauthorized
		}
		if err := requireActiveListing(listing, now); err != nil {
			return err
		}

		royalty, err := s.Royalties.Royalty(ctx, listing.CollectionID)
		if err != nil {
			return err
		}
		split, err = settlement.Split(offer.Amount, royalty.Split)
		if err != nil {
			return err
		}
		if err := s.paySettlement(tx, offer.Buyer, listing.Seller, royalty.Split, split); err != nil {
			return err
		}
		if err := tx.ReleaseTicket(keys.ListingVault(listing.ListingID), offer.Buyer); err != nil {
			return err
		}

		listing.Status = entities.ListingStatusSold
		listing.UpdatedAt = now
		if err := tx.SaveListing(listing); err != nil {
			return err
		}
		offer.Status = entities.OfferStatusAccepted
		offer.UpdatedAt = now
		if err := tx.SaveOffer(offer); err != nil {
			return err
		}
		accepted = offer
		return s.appendSaleOutbox(ctx, tx, "offer.accepted", listing, offer.Buyer, split, now)
	})
	if err != nil {
		return entities.Offer{}, settlement.Settlement{}, err
	}

	resolveLogger(s.Logger).Info("offer accepted",
		"event", "offer_accepted",
		"module", "marketplace-core/listing-service",
		"layer", "application",
		"offer_id", accepted.OfferID,
		"listing_id", accepted.ListingID,
		"total", split.Total,
	)
	return accepted, split, nil
}

// RejectOffer terminates an active offer with no settlement.
func (s Service) RejectOffer(ctx context.Context, offerID string, caller string) (entities.Offer, error) {
	return s.settleOfferTerms(ctx, offerID, caller, func(offer *entities.Offer, now time.Time) error {
		offer.Status = entities.OfferStatusRejected
		return nil
	})
}

// CounterOffer moves the offer to CounterOffered and records the seller's
// proposed amount and expiry as its current terms.
func (s Service) CounterOffer(ctx context.Context, offerID string, caller string, newAmount uint64, newExpiry time.Time) (entities.Offer, error) {
	return s.settleOfferTerms(ctx, offerID, caller, func(offer *entities.Offer, now time.Time) error {
		if newAmount == 0 {
			return domainerrors.ErrInsufficientFunds
		}
		if !newExpiry.After(now) {
			return domainerrors.ErrOfferExpired
		}
		offer.Status = entities.OfferStatusCounterOffered
		offer.Amount = newAmount
		offer.ExpiresAt = newExpiry.UTC()
		return nil
	})
}

// ExpireDueListing flips one due listing to Expired and returns the ticket
// to the seller. A listing that is no longer Active or not yet due is left
// alone.
func (s Service) ExpireDueListing(ctx context.Context, listingID string) (bool, error) {
	expired := false
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		listing, err := tx.GetListing(listingID)
		if err != nil {
			return err
		}
		if listing.Status != entities.ListingStatusActive || !listing.IsExpired(now) {
			return nil
		}

		if err := tx.ReleaseTicket(keys.ListingVault(listing.ListingID), listing.Seller); err != nil {
			return err
		}
		listing.Status = entities.ListingStatusExpired
		listing.UpdatedAt = now
		if err := tx.SaveListing(listing); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}

func (s Service) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	if strings.TrimSpace(listingID) == "" {
		return entities.Listing{}, domainerrors.ErrInvalidListingInput
	}
	return s.Repo.GetListing(ctx, strings.TrimSpace(listingID))
}

func (s Service) ListListingsBySeller(ctx context.Context, seller string) ([]entities.Listing, error) {
	if strings.TrimSpace(seller) == "" {
		return nil, domainerrors.ErrInvalidListingInput
	}
	return s.Repo.ListListingsBySeller(ctx, strings.TrimSpace(seller))
}

func (s Service) ListOffers(ctx context.Context, listingID string) ([]entities.Offer, error) {
	if strings.TrimSpace(listingID) == "" {
		return nil, domainerrors.ErrInvalidListingInput
	}
	return s.Repo.ListOffersByListing(ctx, strings.TrimSpace(listingID))
}

// settleOfferTerms runs seller-side offer transitions that move no funds.
func (s Service) settleOfferTerms(
	ctx context.Context,
	offerID string,
	caller string,
	mutate func(offer *entities.Offer, now time.Time) error,
) (entities.Offer, error) {
	var result entities.Offer
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		offer, err := tx.GetOffer(offerID)
		if err != nil {
			return err
		}
		if err := requireActiveOffer(offer, now); err != nil {
			return err
		}
		listing, err := tx.GetListing(offer.ListingID)
		if err != nil {
			return err
		}
		if listing.Seller != strings.TrimSpace(caller) {
			return domainerrors.ErrUnauthorized
		}

		if err := mutate(&offer, now); err != nil {
			return err
		}
		offer.UpdatedAt = now
		if err := tx.SaveOffer(offer); err != nil {
			return err
		}
		result = offer
		return nil
	})
	if err != nil {
		return entities.Offer{}, err
	}
	return result, nil
}

// paySettlement moves the computed shares from the buyer. Zero royalty
// shares are skipped; the seller share always transfers, even when zero
// remains after royalties.
func (s Service) paySettlement(tx ports.Tx, buyer string, seller string, royalty settlement.Royalty, split settlement.Settlement) error {
	if err := tx.Pay(buyer, seller, split.SellerShare); err != nil {
		return err
	}
	if split.ArtistShare > 0 {
		if err := tx.Pay(buyer, royalty.ArtistWallet, split.ArtistShare); err != nil {
			return err
		}
	}
	if split.VenueShare > 0 {
		if err := tx.Pay(buyer, royalty.VenueWallet, split.VenueShare); err != nil {
			return err
		}
	}
	if split.PlatformShare > 0 {
		if err := tx.Pay(buyer, royalty.PlatformWallet, split.PlatformShare); err != nil {
			return err
		}
	}
	return nil
}

func (s Service) appendSaleOutbox(
	ctx context.Context,
	tx ports.Tx,
	eventType string,
	listing entities.Listing,
	buyer string,
	split settlement.Settlement,
	occurredAt time.Time,
) error {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"listing_id":     listing.ListingID,
		"ticket_id":      listing.TicketID,
		"collection_id":  listing.CollectionID,
		"seller":         listing.Seller,
		"buyer":          buyer,
		"total":          split.Total,
		"artist_share":   split.ArtistShare,
		"venue_share":    split.VenueShare,
		"platform_share": split.PlatformShare,
		"seller_share":   split.SellerShare,
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "listing-service",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     listing.ListingID,
		Data:             data,
	})
}

// requireActiveListing enforces the Active status and the expiry
// predicate; requireListingStatusActive checks status alone for paths
// where expiry is irrelevant (cancel, make offer).
func requireActiveListing(listing entities.Listing, now time.Time) error {
	if err := requireListingStatusActive(listing); err != nil {
		return err
	}
	if listing.IsExpired(now) {
		return domainerrors.ErrListingExpired
	}
	return nil
}

func requireListingStatusActive(listing entities.Listing) error {
	switch listing.Status {
	case entities.ListingStatusActive:
		return nil
	case entities.ListingStatusSold, entities.ListingStatusCancelled, entities.ListingStatusExpired:
		return domainerrors.ErrListingNotActive
	default:
		return domainerrors.ErrListingNotActive
	}
}

func requireActiveOffer(offer entities.Offer, now time.Time) error {
	switch offer.Status {
	case entities.OfferStatusActive:
	case entities.OfferStatusAccepted,
		entities.OfferStatusRejected,
		entities.OfferStatusCancelled,
		entities.OfferStatusExpired,
		entities.OfferStatusCounterOffered:
		return domainerrors.ErrOfferNotActive
	default:
		return domainerrors.ErrOfferNotActive
	}
	if offer.IsExpired(now) {
		return domainerrors.ErrOfferExpired
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// ResolveLogger is shared with the worker sweeps in this context.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	return ResolveLogger(logger)
}

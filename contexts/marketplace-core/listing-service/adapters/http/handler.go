package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/application"
	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	"turnstile/contexts/marketplace-core/listing-service/ports"
	httptransport "turnstile/contexts/marketplace-core/listing-service/transport/http"
	"turnstile/internal/shared/settlement"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateListingHandler(
	ctx context.Context,
	seller string,
	req httptransport.CreateListingRequest,
) (httptransport.ListingResponse, error) {
	expiresAt, err := parseOptionalTime(req.ExpiresAt)
	if err != nil {
		return httptransport.ListingResponse{}, domainerrors.ErrInvalidListingInput
	}
	listing, err := h.Service.CreateListing(ctx, ports.CreateListingInput{
		TicketID:    req.TicketID,
		Seller:      seller,
		Price:       req.Price,
		ExpiresAt:   expiresAt,
		AllowOffers: req.AllowOffers,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) BuyHandler(
	ctx context.Context,
	listingID string,
	buyer string,
) (httptransport.SaleResponse, error) {
	listing, split, err := h.Service.Buy(ctx, listingID, buyer)
	if err != nil {
		return httptransport.SaleResponse{}, err
	}
	return httptransport.SaleResponse{
		Status: "success",
		Data: httptransport.SaleDTO{
			Listing:    listingDTO(listing),
			Settlement: settlementDTO(split),
		},
	}, nil
}

func (h Handler) CancelListingHandler(
	ctx context.Context,
	listingID string,
	caller string,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.CancelListing(ctx, listingID, caller)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) UpdateListingHandler(
	ctx context.Context,
	listingID string,
	caller string,
	req httptransport.UpdateListingRequest,
) (httptransport.ListingResponse, error) {
	expiresAt, err := parseOptionalTime(req.ExpiresAt)
	if err != nil {
		return httptransport.ListingResponse{}, domainerrors.ErrInvalidListingInput
	}
	listing, err := h.Service.UpdateListing(ctx, listingID, caller, ports.UpdateListingInput{
		Price:       req.Price,
		ExpiresAt:   expiresAt,
		AllowOffers: req.AllowOffers,
	})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) GetListingHandler(
	ctx context.Context,
	listingID string,
) (httptransport.ListingResponse, error) {
	listing, err := h.Service.GetListing(ctx, listingID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: listingDTO(listing)}, nil
}

func (h Handler) ListListingsBySellerHandler(
	ctx context.Context,
	seller string,
) (httptransport.ListingsResponse, error) {
	listings, err := h.Service.ListListingsBySeller(ctx, seller)
	if err != nil {
		return httptransport.ListingsResponse{}, err
	}
	items := make([]httptransport.ListingDTO, 0, len(listings))
	for _, listing := range listings {
		items = append(items, listingDTO(listing))
	}
	return httptransport.ListingsResponse{Status: "success", Data: items}, nil
}

func (h Handler) MakeOfferHandler(
	ctx context.Context,
	listingID string,
	buyer string,
	req httptransport.MakeOfferRequest,
) (httptransport.OfferResponse, error) {
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		return httptransport.OfferResponse{}, domainerrors.ErrInvalidOfferInput
	}
	offer, err := h.Service.MakeOffer(ctx, listingID, ports.MakeOfferInput{
		Buyer:     buyer,
		Amount:    req.Amount,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Status: "success", Data: offerDTO(offer)}, nil
}

func (h Handler) AcceptOfferHandler(
	ctx context.Context,
	offerID string,
	caller string,
) (httptransport.AcceptedOfferResponse, error) {
	offer, split, err := h.Service.AcceptOffer(ctx, offerID, caller)
	if err != nil {
		return httptransport.AcceptedOfferResponse{}, err
	}
	return httptransport.AcceptedOfferResponse{
		Status: "success",
		Data: httptransport.AcceptedOfferDTO{
			Offer:      offerDTO(offer),
			Settlement: settlementDTO(split),
		},
	}, nil
}

func (h Handler) RejectOfferHandler(
	ctx context.Context,
	offerID string,
	caller string,
) (httptransport.OfferResponse, error) {
	offer, err := h.Service.RejectOffer(ctx, offerID, caller)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Status: "success", Data: offerDTO(offer)}, nil
}

func (h Handler) CounterOfferHandler(
	ctx context.Context,
	offerID string,
	caller string,
	req httptransport.CounterOfferRequest,
) (httptransport.OfferResponse, error) {
	expiresAt, err := time.Parse(time.RFC3339, req.ExpiresAt)
	if err != nil {
		return httptransport.OfferResponse{}, domainerrors.ErrInvalidOfferInput
	}
	offer, err := h.Service.CounterOffer(ctx, offerID, caller, req.Amount, expiresAt)
	if err != nil {
		return httptransport.OfferResponse{}, err
	}
	return httptransport.OfferResponse{Status: "success", Data: offerDTO(offer)}, nil
}

func (h Handler) ListOffersHandler(
	ctx context.Context,
	listingID string,
) (httptransport.OffersResponse, error) {
	offers, err := h.Service.ListOffers(ctx, listingID)
	if err != nil {
		return httptransport.OffersResponse{}, err
	}
	items := make([]httptransport.OfferDTO, 0, len(offers))
	for _, offer := range offers {
		items = append(items, offerDTO(offer))
	}
	return httptransport.OffersResponse{Status: "success", Data: items}, nil
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func listingDTO(listing entities.Listing) httptransport.ListingDTO {
	dto := httptransport.ListingDTO{
		ListingID:     listing.ListingID,
		TicketID:      listing.TicketID,
		CollectionID:  listing.CollectionID,
		Seller:        listing.Seller,
		Price:         listing.Price,
		OriginalPrice: listing.OriginalPrice,
		PriceCap:      listing.PriceCap,
		AllowOffers:   listing.AllowOffers,
		Status:        string(listing.Status),
		CreatedAt:     listing.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     listing.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if listing.ExpiresAt != nil {
		formatted := listing.ExpiresAt.UTC().Format(time.RFC3339)
		dto.ExpiresAt = &formatted
	}
	return dto
}

func offerDTO(offer entities.Offer) httptransport.OfferDTO {
	return httptransport.OfferDTO{
		OfferID:   offer.OfferID,
		ListingID: offer.ListingID,
		Buyer:     offer.Buyer,
		Amount:    offer.Amount,
		ExpiresAt: offer.ExpiresAt.UTC().Format(time.RFC3339),
		Status:    string(offer.Status),
		CreatedAt: offer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: offer.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func settlementDTO(split settlement.Settlement) httptransport.SettlementDTO {
	return httptransport.SettlementDTO{
		Total:         split.Total,
		ArtistShare:   split.ArtistShare,
		VenueShare:    split.VenueShare,
		PlatformShare: split.PlatformShare,
		SellerShare:   split.SellerShare,
	}
}

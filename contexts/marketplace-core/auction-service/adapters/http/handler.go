package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"turnstile/contexts/marketplace-core/auction-service/application"
	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	"turnstile/contexts/marketplace-core/auction-service/ports"
	httptransport "turnstile/contexts/marketplace-core/auction-service/transport/http"
	"turnstile/internal/shared/settlement"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateAuctionHandler(
	ctx context.Context,
	seller string,
	req httptransport.CreateAuctionRequest,
) (httptransport.AuctionResponse, error) {
	auctionType, err := parseAuctionType(req.Type)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	auction, err := h.Service.CreateAuction(ctx, ports.CreateAuctionInput{
		TicketID:    req.TicketID,
		Seller:      seller,
		Type:        auctionType,
		StartingBid: req.StartingBid,
		FloorPrice:  req.FloorPrice,
		Duration:    time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: auctionDTO(auction)}, nil
}

func (h Handler) PlaceBidHandler(
	ctx context.Context,
	auctionID string,
	bidder string,
	req httptransport.PlaceBidRequest,
) (httptransport.BidResponse, error) {
	auction, split, err := h.Service.PlaceBid(ctx, auctionID, bidder, req.Amount)
	if err != nil {
		return httptransport.BidResponse{}, err
	}
	data := httptransport.BidDTO{Auction: auctionDTO(auction)}
	if split != nil {
		dto := settlementDTO(*split)
		data.Settlement = &dto
	}
	return httptransport.BidResponse{Status: "success", Data: data}, nil
}

func (h Handler) EndAuctionHandler(
	ctx context.Context,
	auctionID string,
) (httptransport.BidResponse, error) {
	auction, split, err := h.Service.EndAuction(ctx, auctionID)
	if err != nil {
		return httptransport.BidResponse{}, err
	}
	data := httptransport.BidDTO{Auction: auctionDTO(auction)}
	if split != nil {
		dto := settlementDTO(*split)
		data.Settlement = &dto
	}
	return httptransport.BidResponse{Status: "success", Data: data}, nil
}

func (h Handler) GetAuctionHandler(
	ctx context.Context,
	auctionID string,
) (httptransport.AuctionResponse, error) {
	auction, err := h.Service.GetAuction(ctx, auctionID)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: auctionDTO(auction)}, nil
}

func (h Handler) ListAuctionsBySellerHandler(
	ctx context.Context,
	seller string,
) (httptransport.AuctionsResponse, error) {
	auctions, err := h.Service.ListAuctionsBySeller(ctx, seller)
	if err != nil {
		return httptransport.AuctionsResponse{}, err
	}
	items := make([]httptransport.AuctionDTO, 0, len(auctions))
	for _, auction := range auctions {
		items = append(items, auctionDTO(auction))
	}
	return httptransport.AuctionsResponse{Status: "success", Data: items}, nil
}

func (h Handler) CurrentPriceHandler(
	ctx context.Context,
	auctionID string,
) (httptransport.CurrentPriceResponse, error) {
	price, err := h.Service.CurrentPrice(ctx, auctionID)
	if err != nil {
		return httptransport.CurrentPriceResponse{}, err
	}
	return httptransport.CurrentPriceResponse{
		Status: "success",
		Data: httptransport.CurrentPriceDTO{
			AuctionID: auctionID,
			Price:     price,
		},
	}, nil
}

func parseAuctionType(value string) (entities.AuctionType, error) {
	switch entities.AuctionType(value) {
	case entities.AuctionTypeEnglish:
		return entities.AuctionTypeEnglish, nil
	case entities.AuctionTypeDutch:
		return entities.AuctionTypeDutch, nil
	default:
		return "", domainerrors.ErrInvalidAuctionInput
	}
}

func auctionDTO(auction entities.Auction) httptransport.AuctionDTO {
	return httptransport.AuctionDTO{
		AuctionID:     auction.AuctionID,
		TicketID:      auction.TicketID,
		CollectionID:  auction.CollectionID,
		Seller:        auction.Seller,
		Type:          string(auction.Type),
		StartingBid:   auction.StartingBid,
		CurrentBid:    auction.CurrentBid,
		FloorPrice:    auction.FloorPrice,
		HighestBidder: auction.HighestBidder,
		StartTime:     auction.StartTime.UTC().Format(time.RFC3339),
		EndTime:       auction.EndTime.UTC().Format(time.RFC3339),
		Status:        string(auction.Status),
		CreatedAt:     auction.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     auction.UpdatedAt.UTC().Format(time.RFC3339),
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

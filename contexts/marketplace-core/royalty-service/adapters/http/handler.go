package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"turnstile/contexts/marketplace-core/royalty-service/application"
	"turnstile/contexts/marketplace-core/royalty-service/domain/entities"
	"turnstile/contexts/marketplace-core/royalty-service/ports"
	httptransport "turnstile/contexts/marketplace-core/royalty-service/transport/http"
	"turnstile/internal/shared/settlement"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ConfigureHandler(
	ctx context.Context,
	authority string,
	req httptransport.ConfigureRoyaltyRequest,
) (httptransport.RoyaltyConfigResponse, error) {
	config, err := h.Service.Configure(ctx, ports.ConfigureInput{
		CollectionID:    req.CollectionID,
		ArtistWallet:    req.ArtistWallet,
		VenueWallet:     req.VenueWallet,
		PlatformWallet:  req.PlatformWallet,
		ArtistBP:        req.ArtistBP,
		VenueBP:         req.VenueBP,
		PlatformBP:      req.PlatformBP,
		CapMultiplierBP: req.CapMultiplierBP,
		Authority:       authority,
	})
	if err != nil {
		return httptransport.RoyaltyConfigResponse{}, err
	}
	return httptransport.RoyaltyConfigResponse{Status: "success", Data: toDTO(config)}, nil
}

func (h Handler) GetConfigHandler(
	ctx context.Context,
	collectionID string,
) (httptransport.RoyaltyConfigResponse, error) {
	config, err := h.Service.GetConfig(ctx, collectionID)
	if err != nil {
		return httptransport.RoyaltyConfigResponse{}, err
	}
	return httptransport.RoyaltyConfigResponse{Status: "success", Data: toDTO(config)}, nil
}

func (h Handler) PreviewSplitHandler(
	ctx context.Context,
	collectionID string,
	total uint64,
) (httptransport.PreviewSplitResponse, error) {
	result, err := h.Service.PreviewSplit(ctx, collectionID, total)
	if err != nil {
		return httptransport.PreviewSplitResponse{}, err
	}
	return httptransport.PreviewSplitResponse{Status: "success", Data: settlementDTO(result)}, nil
}

func toDTO(config entities.RoyaltyConfig) httptransport.RoyaltyConfigDTO {
	return httptransport.RoyaltyConfigDTO{
		CollectionID:    config.CollectionID,
		ArtistWallet:    config.ArtistWallet,
		VenueWallet:     config.VenueWallet,
		PlatformWallet:  config.PlatformWallet,
		ArtistBP:        config.ArtistBP,
		VenueBP:         config.VenueBP,
		PlatformBP:      config.PlatformBP,
		CapMultiplierBP: config.CapMultiplierBP,
		Authority:       config.Authority,
		CreatedAt:       config.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func settlementDTO(result settlement.Settlement) httptransport.SettlementDTO {
	return httptransport.SettlementDTO{
		Total:         result.Total,
		ArtistShare:   result.ArtistShare,
		VenueShare:    result.VenueShare,
		PlatformShare: result.PlatformShare,
		SellerShare:   result.SellerShare,
	}
}

package workers

import (
	"context"
	"log/slog"

	"turnstile/contexts/marketplace-core/listing-service/application"
	"turnstile/contexts/marketplace-core/listing-service/ports"
)

// ListingExpirer sweeps Active listings past their expires_at. Each due
// listing is closed in its own unit of work so the escrowed ticket goes
// back to the seller even if another listing in the batch fails.
type ListingExpirer struct {
	Service   application.Service
	Repo      ports.Repository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce expires one bounded batch of due listings and sweeps stale
// offers. Returns the number of listings expired.
func (w ListingExpirer) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := w.Clock.Now().UTC()

	due, err := w.Repo.ListDueListingIDs(ctx, now, limit)
	if err != nil {
		logger.Error("listing expiry sweep list failed",
			"event", "listing_expiry_list_failed",
			"module", "marketplace-core/listing-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	expired := 0
	for _, listingID := range due {
		changed, err := w.Service.ExpireDueListing(ctx, listingID)
		if err != nil {
			logger.Error("listing expiry failed",
				"event", "listing_expiry_failed",
				"module", "marketplace-core/listing-service",
				"layer", "worker",
				"listing_id", listingID,
				"error", err.Error(),
			)
			return expired, err
		}
		if changed {
			expired++
		}
	}

	swept, err := w.Repo.ExpireActiveOffers(ctx, now)
	if err != nil {
		logger.Error("offer expiry sweep failed",
			"event", "offer_expiry_sweep_failed",
			"module", "marketplace-core/listing-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return expired, err
	}

	if expired > 0 || swept > 0 {
		logger.Info("expiry sweep completed",
			"event", "listing_expiry_sweep_completed",
			"module", "marketplace-core/listing-service",
			"layer", "worker",
			"listings_expired", expired,
			"offers_expired", swept,
		)
	}
	return expired, nil
}

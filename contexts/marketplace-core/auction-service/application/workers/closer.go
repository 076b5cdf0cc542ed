package workers

import (
	"context"
	"log/slog"

	"turnstile/contexts/marketplace-core/auction-service/application"
	"turnstile/contexts/marketplace-core/auction-service/ports"
)

// AuctionCloser sweeps Active auctions past end_time. Each due auction
// closes in its own unit of work so a failure on one auction leaves the
// rest of the batch unaffected.
type AuctionCloser struct {
	Service   application.Service
	Repo      ports.Repository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce closes one bounded batch of due auctions and returns how many
// actually closed.
func (w AuctionCloser) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := w.Clock.Now().UTC()

	due, err := w.Repo.ListDueAuctionIDs(ctx, now, limit)
	if err != nil {
		logger.Error("auction closing sweep list failed",
			"event", "auction_close_list_failed",
			"module", "marketplace-core/auction-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	closed := 0
	for _, auctionID := range due {
		changed, err := w.Service.CloseDueAuction(ctx, auctionID)
		if err != nil {
			logger.Error("auction close failed",
				"event", "auction_close_failed",
				"module", "marketplace-core/auction-service",
				"layer", "worker",
				"auction_id", auctionID,
				"error", err.Error(),
			)
			return closed, err
		}
		if changed {
			closed++
		}
	}

	if closed > 0 {
		logger.Info("auction closing sweep completed",
			"event", "auction_close_sweep_completed",
			"module", "marketplace-core/auction-service",
			"layer", "worker",
			"auctions_closed", closed,
		)
	}
	return closed, nil
}

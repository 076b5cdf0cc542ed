package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"turnstile/contexts/marketplace-core/auction-service/application"
	"turnstile/contexts/marketplace-core/auction-service/ports"
)

// OutboxRelay publishes committed auction events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows and marks each
// row published only after the broker accepts it. It stops at the first
// failure so the next cycle reprocesses the remainder.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("auction outbox list failed",
			"event", "auction_outbox_list_failed",
			"module", "marketplace-core/auction-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	now := r.Clock.Now().UTC()
	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("auction outbox decode failed",
				"event", "auction_outbox_decode_failed",
				"module", "marketplace-core/auction-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		topic := event.EventType
		if topic == "" {
			topic = row.EventType
		}
		if err := r.Publisher.Publish(ctx, topic, event); err != nil {
			logger.Error("auction outbox publish failed",
				"event", "auction_outbox_publish_failed",
				"module", "marketplace-core/auction-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_type", event.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			logger.Error("auction outbox mark published failed",
				"event", "auction_outbox_mark_published_failed",
				"module", "marketplace-core/auction-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("auction outbox relay cycle completed",
		"event", "auction_outbox_relay_completed",
		"module", "marketplace-core/auction-service",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}

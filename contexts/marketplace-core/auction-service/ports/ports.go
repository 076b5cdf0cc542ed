package ports

import (
	"context"
	"time"

	contractsv1 "turnstile/contracts/gen/events/v1"
	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
	"turnstile/internal/shared/settlement"
)

type CreateAuctionInput struct {
	TicketID    string
	Seller      string
	Type        entities.AuctionType
	StartingBid uint64
	FloorPrice  uint64
	Duration    time.Duration
}

// TicketInfo is the collection-metadata view of one ticket.
type TicketInfo struct {
	TicketID      string
	CollectionID  string
	OriginalPrice uint64
}

type TicketDirectory interface {
	Describe(ctx context.Context, ticketID string) (TicketInfo, error)
}

// RoyaltyInfo is the royalty-service view a finalized auction settles
// against.
type RoyaltyInfo struct {
	Split           settlement.Royalty
	CapMultiplierBP uint16
}

type RoyaltySource interface {
	Royalty(ctx context.Context, collectionID string) (RoyaltyInfo, error)
}

// UnitOfWork is the ledger substrate's atomic boundary for auction
// operations.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
}

type Tx interface {
	GetAuction(auctionID string) (entities.Auction, error)
	SaveAuction(auction entities.Auction) error

	Pay(from string, to string, amount uint64) error
	LockTicket(ticketID string, from string, vault string) error
	ReleaseTicket(vault string, to string) error

	AppendOutbox(envelope EventEnvelope) error
}

type Repository interface {
	GetAuction(ctx context.Context, auctionID string) (entities.Auction, error)
	ListAuctionsBySeller(ctx context.Context, seller string) ([]entities.Auction, error)

	// ListDueAuctionIDs returns Active auctions whose end_time has
	// passed, for the closing sweep.
	ListDueAuctionIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventPublisher pushes committed auction events onto the bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

package ports

import (
	"context"
	"time"

	contractsv1 "turnstile/contracts/gen/events/v1"
	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	"turnstile/internal/shared/settlement"
)

type CreateListingInput struct {
	TicketID    string
	Seller      string
	Price       uint64
	ExpiresAt   *time.Time
	AllowOffers bool
}

type UpdateListingInput struct {
	Price       *uint64
	ExpiresAt   *time.Time
	AllowOffers *bool
}

type MakeOfferInput struct {
	Buyer     string
	Amount    uint64
	ExpiresAt time.Time
}

// TicketInfo is the collection-metadata view of one ticket: which
// collection it belongs to and what it originally sold for.
type TicketInfo struct {
	TicketID      string
	CollectionID  string
	OriginalPrice uint64
}

// TicketDirectory is the read-only collection metadata service.
type TicketDirectory interface {
	Describe(ctx context.Context, ticketID string) (TicketInfo, error)
}

// RoyaltyInfo is the royalty-service view a sale is settled against.
type RoyaltyInfo struct {
	Split           settlement.Royalty
	CapMultiplierBP uint16
}

type RoyaltySource interface {
	Royalty(ctx context.Context, collectionID string) (RoyaltyInfo, error)
}

// UnitOfWork is the ledger substrate's atomic boundary. Execute runs fn as
// one all-or-nothing transaction: every fund transfer, custody move,
// entity save, and outbox append fn stages commits together or not at all.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is one in-flight unit of work. Reads observe staged writes.
type Tx interface {
	GetListing(listingID string) (entities.Listing, error)
	SaveListing(listing entities.Listing) error
	GetOffer(offerID string) (entities.Offer, error)
	SaveOffer(offer entities.Offer) error

	// Pay moves funds; zero amounts are skipped at transfer time.
	Pay(from string, to string, amount uint64) error
	// LockTicket moves the ticket from its holder into an escrow vault.
	LockTicket(ticketID string, from string, vault string) error
	// ReleaseTicket empties an escrow vault to its destination.
	ReleaseTicket(vault string, to string) error

	AppendOutbox(envelope EventEnvelope) error
}

// Repository serves reads outside any unit of work.
type Repository interface {
	GetListing(ctx context.Context, listingID string) (entities.Listing, error)
	ListListingsBySeller(ctx context.Context, seller string) ([]entities.Listing, error)
	GetOffer(ctx context.Context, offerID string) (entities.Offer, error)
	ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error)

	// ListDueListingIDs returns Active listings whose expires_at has
	// passed, for the expiry sweep.
	ListDueListingIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	// ExpireActiveOffers flips Active offers past expires_at to Expired
	// and reports how many changed.
	ExpireActiveOffers(ctx context.Context, now time.Time) (int, error)
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

// EventPublisher pushes committed outbox events onto the bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

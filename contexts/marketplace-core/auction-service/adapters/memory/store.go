package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	"turnstile/contexts/marketplace-core/auction-service/ports"
	"turnstile/internal/shared/ledger"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Store backs the auction service with mutex-guarded maps on top of the
// shared ledger substrate. Execute serializes units of work: auction
// saves and outbox appends commit in the same all-or-nothing step as the
// staged ledger effects.
type Store struct {
	mu       sync.RWMutex
	ledger   *ledger.Ledger
	auctions map[string]entities.Auction
	tickets  map[string]ports.TicketInfo
	outbox   map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

func NewStore(l *ledger.Ledger) *Store {
	return &Store{
		ledger:   l,
		auctions: make(map[string]entities.Auction),
		tickets:  make(map[string]ports.TicketInfo),
		outbox:   make(map[string]outboxRecord),
	}
}

// RegisterTicket seeds collection metadata for one ticket.
func (s *Store) RegisterTicket(info ports.TicketInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[strings.TrimSpace(info.TicketID)] = info
}

func (s *Store) Describe(_ context.Context, ticketID string) (ports.TicketInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.tickets[strings.TrimSpace(ticketID)]
	if !ok {
		return ports.TicketInfo{}, domainerrors.ErrTicketNotFound
	}
	return info, nil
}

func (s *Store) Execute(ctx context.Context, fn func(tx ports.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ledger.Execute(ctx, func(ltx *ledger.Tx) error {
		tx := &memTx{
			store:    s,
			ledger:   ltx,
			auctions: make(map[string]entities.Auction),
		}
		if err := fn(tx); err != nil {
			return err
		}
		tx.apply()
		return nil
	})
}

type memTx struct {
	store    *Store
	ledger   *ledger.Tx
	auctions map[string]entities.Auction
	outbox   []ports.EventEnvelope
}

func (t *memTx) GetAuction(auctionID string) (entities.Auction, error) {
	id := strings.TrimSpace(auctionID)
	if staged, ok := t.auctions[id]; ok {
		return staged, nil
	}
	auction, ok := t.store.auctions[id]
	if !ok {
		return entities.Auction{}, domainerrors.ErrAuctionNotFound
	}
	return auction, nil
}

func (t *memTx) SaveAuction(auction entities.Auction) error {
	if strings.TrimSpace(auction.AuctionID) == "" {
		return domainerrors.ErrInvalidAuctionInput
	}
	t.auctions[auction.AuctionID] = auction
	return nil
}

func (t *memTx) Pay(from string, to string, amount uint64) error {
	return t.ledger.Pay(from, to, amount)
}

func (t *memTx) LockTicket(ticketID string, from string, vault string) error {
	return t.ledger.Lock(ticketID, from, vault)
}

func (t *memTx) ReleaseTicket(vault string, to string) error {
	return t.ledger.Release(vault, to)
}

func (t *memTx) AppendOutbox(envelope ports.EventEnvelope) error {
	t.outbox = append(t.outbox, envelope)
	return nil
}

func (t *memTx) apply() {
	for id, auction := range t.auctions {
		t.store.auctions[id] = auction
	}
	for _, envelope := range t.outbox {
		payload, err := json.Marshal(envelope)
		if err != nil {
			continue
		}
		t.store.outbox[envelope.EventID] = outboxRecord{
			Message: ports.OutboxMessage{
				OutboxID:     envelope.EventID,
				EventType:    envelope.EventType,
				PartitionKey: envelope.PartitionKey,
				Payload:      payload,
				CreatedAt:    envelope.OccurredAt.UTC(),
			},
			Status: outboxStatusPending,
		}
	}
}

func (s *Store) GetAuction(_ context.Context, auctionID string) (entities.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[strings.TrimSpace(auctionID)]
	if !ok {
		return entities.Auction{}, domainerrors.ErrAuctionNotFound
	}
	return auction, nil
}

func (s *Store) ListAuctionsBySeller(_ context.Context, seller string) ([]entities.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Auction, 0)
	for _, auction := range s.auctions {
		if auction.Seller == strings.TrimSpace(seller) {
			items = append(items, auction)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListDueAuctionIDs(_ context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	ids := make([]string, 0)
	for id, auction := range s.auctions {
		if auction.Status == entities.AuctionStatusActive && auction.Ended(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrAuctionNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

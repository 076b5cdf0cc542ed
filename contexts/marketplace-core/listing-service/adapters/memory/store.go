package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	"turnstile/contexts/marketplace-core/listing-service/ports"
	"turnstile/internal/shared/ledger"

	"github.com/google/uuid"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

// Store backs the listing service with mutex-guarded maps on top of the
// shared ledger substrate. Execute serializes units of work: entity saves
// and outbox appends commit in the same all-or-nothing step as the staged
// ledger effects.
type Store struct {
	mu       sync.RWMutex
	ledger   *ledger.Ledger
	listings map[string]entities.Listing
	offers   map[string]entities.Offer
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
		listings: make(map[string]entities.Listing),
		offers:   make(map[string]entities.Offer),
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
			listings: make(map[string]entities.Listing),
			offers:   make(map[string]entities.Offer),
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
	listings map[string]entities.Listing
	offers   map[string]entities.Offer
	outbox   []ports.EventEnvelope
}

func (t *memTx) GetListing(listingID string) (entities.Listing, error) {
	id := strings.TrimSpace(listingID)
	if staged, ok := t.listings[id]; ok {
		return staged, nil
	}
	listing, ok := t.store.listings[id]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (t *memTx) SaveListing(listing entities.Listing) error {
	if strings.TrimSpace(listing.ListingID) == "" {
		return domainerrors.ErrInvalidListingInput
	}
	t.listings[listing.ListingID] = listing
	return nil
}

func (t *memTx) GetOffer(offerID string) (entities.Offer, error) {
	id := strings.TrimSpace(offerID)
	if staged, ok := t.offers[id]; ok {
		return staged, nil
	}
	offer, ok := t.store.offers[id]
	if !ok {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (t *memTx) SaveOffer(offer entities.Offer) error {
	if strings.TrimSpace(offer.OfferID) == "" {
		return domainerrors.ErrInvalidOfferInput
	}
	t.offers[offer.OfferID] = offer
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
	for id, listing := range t.listings {
		t.store.listings[id] = listing
	}
	for id, offer := range t.offers {
		t.store.offers[id] = offer
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

func (s *Store) GetListing(_ context.Context, listingID string) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[strings.TrimSpace(listingID)]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	return listing, nil
}

func (s *Store) ListListingsBySeller(_ context.Context, seller string) ([]entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Listing, 0)
	for _, listing := range s.listings {
		if listing.Seller == strings.TrimSpace(seller) {
			items = append(items, listing)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) GetOffer(_ context.Context, offerID string) (entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[strings.TrimSpace(offerID)]
	if !ok {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Store) ListOffersByListing(_ context.Context, listingID string) ([]entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Offer, 0)
	for _, offer := range s.offers {
		if offer.ListingID == strings.TrimSpace(listingID) {
			items = append(items, offer)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListDueListingIDs(_ context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	ids := make([]string, 0)
	for id, listing := range s.listings {
		if listing.Status == entities.ListingStatusActive && listing.IsExpired(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (s *Store) ExpireActiveOffers(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, offer := range s.offers {
		if offer.Status != entities.OfferStatusActive || !offer.IsExpired(now) {
			continue
		}
		offer.Status = entities.OfferStatusExpired
		offer.UpdatedAt = now.UTC()
		s.offers[id] = offer
		expired++
	}
	return expired, nil
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
		return domainerrors.ErrListingNotFound
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

package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/adapters/memory"
	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	"turnstile/contexts/marketplace-core/listing-service/ports"
	"turnstile/internal/shared/keys"
	"turnstile/internal/shared/ledger"
	"turnstile/internal/shared/settlement"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type fixedRoyaltySource struct {
	info ports.RoyaltyInfo
}

func (s fixedRoyaltySource) Royalty(_ context.Context, _ string) (ports.RoyaltyInfo, error) {
	return s.info, nil
}

type fixture struct {
	ledger  *ledger.Ledger
	store   *memory.Store
	clock   *testClock
	service Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := ledger.New()
	store := memory.NewStore(l)
	clock := &testClock{now: time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)}

	l.Issue("ticket-1", "seller")
	store.RegisterTicket(ports.TicketInfo{
		TicketID:      "ticket-1",
		CollectionID:  "collection-1",
		OriginalPrice: 500,
	})

	source := fixedRoyaltySource{info: ports.RoyaltyInfo{
		Split: settlement.Royalty{
			ArtistWallet:   "artist",
			VenueWallet:    "venue",
			PlatformWallet: "platform",
			ArtistBP:       1000,
			VenueBP:        500,
			PlatformBP:     100,
		},
		CapMultiplierBP: 20000,
	}}

	return &fixture{
		ledger: l,
		store:  store,
		clock:  clock,
		service: Service{
			UoW:       store,
			Repo:      store,
			Tickets:   store,
			Royalties: source,
			Clock:     clock,
			IDGen:     store,
		},
	}
}

func (f *fixture) createListing(t *testing.T, price uint64, allowOffers bool) entities.Listing {
	t.Helper()
	listing, err := f.service.CreateListing(context.Background(), ports.CreateListingInput{
		TicketID:    "ticket-1",
		Seller:      "seller",
		Price:       price,
		AllowOffers: allowOffers,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	return listing
}

func TestCreateListingEscrowsTicket(t *testing.T) {
	f := newFixture(t)

	listing := f.createListing(t, 1000, false)

	if listing.Status != entities.ListingStatusActive {
		t.Fatalf("unexpected status %q", listing.Status)
	}
	if listing.PriceCap != 1000 {
		t.Fatalf("unexpected price cap %d", listing.PriceCap)
	}
	holder, ok := f.ledger.Holder("ticket-1")
	if !ok || holder != keys.ListingVault(listing.ListingID) {
		t.Fatalf("ticket not escrowed, holder %q", holder)
	}
}

func TestCreateListingRejectsPriceAboveCap(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateListing(context.Background(), ports.CreateListingInput{
		TicketID: "ticket-1",
		Seller:   "seller",
		Price:    1001,
	})
	if !errors.Is(err, domainerrors.ErrPriceExceedsCap) {
		t.Fatalf("expected ErrPriceExceedsCap, got %v", err)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "seller" {
		t.Fatalf("ticket moved on rejected listing, holder %q", holder)
	}
}

func TestCreateListingRejectsSecondListingForSameTicket(t *testing.T) {
	f := newFixture(t)
	f.createListing(t, 1000, false)

	_, err := f.service.CreateListing(context.Background(), ports.CreateListingInput{
		TicketID: "ticket-1",
		Seller:   "seller",
		Price:    900,
	})
	if !errors.Is(err, ledger.ErrWrongQuantity) {
		t.Fatalf("expected ErrWrongQuantity, got %v", err)
	}
}

func TestBuySettlesSplitAndReleasesTicket(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 1000)
	listing := f.createListing(t, 1000, false)

	sold, split, err := f.service.Buy(context.Background(), listing.ListingID, "buyer")
	if err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	if sold.Status != entities.ListingStatusSold {
		t.Fatalf("unexpected status %q", sold.Status)
	}
	if split.ArtistShare != 100 || split.VenueShare != 50 || split.PlatformShare != 10 || split.SellerShare != 840 {
		t.Fatalf("unexpected split %+v", split)
	}

	if got := f.ledger.Balance("artist"); got != 100 {
		t.Fatalf("artist balance %d", got)
	}
	if got := f.ledger.Balance("venue"); got != 50 {
		t.Fatalf("venue balance %d", got)
	}
	if got := f.ledger.Balance("platform"); got != 10 {
		t.Fatalf("platform balance %d", got)
	}
	if got := f.ledger.Balance("seller"); got != 840 {
		t.Fatalf("seller balance %d", got)
	}
	if got := f.ledger.Balance("buyer"); got != 0 {
		t.Fatalf("buyer balance %d", got)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "buyer" {
		t.Fatalf("ticket holder %q", holder)
	}
}

func TestBuyWithInsufficientFundsLeavesNoPartialEffects(t *testing.T) {
	f := newFixture(t)
	// 900 covers the seller share but not the royalty shares, so the
	// transaction must roll back midway.
	f.ledger.Credit("buyer", 900)
	listing := f.createListing(t, 1000, false)

	_, _, err := f.service.Buy(context.Background(), listing.ListingID, "buyer")
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := f.ledger.Balance("seller"); got != 0 {
		t.Fatalf("seller balance %d after failed buy", got)
	}
	if got := f.ledger.Balance("buyer"); got != 900 {
		t.Fatalf("buyer balance %d after failed buy", got)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != keys.ListingVault(listing.ListingID) {
		t.Fatalf("ticket left escrow on failed buy, holder %q", holder)
	}
	current, err := f.service.GetListing(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("get listing failed: %v", err)
	}
	if current.Status != entities.ListingStatusActive {
		t.Fatalf("listing status %q after failed buy", current.Status)
	}
}

func TestBuyRejectsInactiveListing(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 2000)
	listing := f.createListing(t, 1000, false)

	if _, _, err := f.service.Buy(context.Background(), listing.ListingID, "buyer"); err != nil {
		t.Fatalf("first buy failed: %v", err)
	}
	_, _, err := f.service.Buy(context.Background(), listing.ListingID, "buyer")
	if !errors.Is(err, domainerrors.ErrListingNotActive) {
		t.Fatalf("expected ErrListingNotActive, got %v", err)
	}
}

func TestCancelListingReturnsTicketToSeller(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, 1000, false)

	cancelled, err := f.service.CancelListing(context.Background(), listing.ListingID, "seller")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entities.ListingStatusCancelled {
		t.Fatalf("unexpected status %q", cancelled.Status)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "seller" {
		t.Fatalf("ticket holder %q", holder)
	}
}

func TestCancelListingRejectsNonSeller(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, 1000, false)

	_, err := f.service.CancelListing(context.Background(), listing.ListingID, "intruder")
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateListingEnforcesCap(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, 800, false)

	tooHigh := uint64(1001)
	_, err := f.service.UpdateListing(context.Background(), listing.ListingID, "seller", ports.UpdateListingInput{
		Price: &tooHigh,
	})
	if !errors.Is(err, domainerrors.ErrPriceExceedsCap) {
		t.Fatalf("expected ErrPriceExceedsCap, got %v", err)
	}

	ok := uint64(1000)
	updated, err := f.service.UpdateListing(context.Background(), listing.ListingID, "seller", ports.UpdateListingInput{
		Price: &ok,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Price != 1000 {
		t.Fatalf("unexpected price %d", updated.Price)
	}
	if updated.AllowOffers != listing.AllowOffers {
		t.Fatalf("allow_offers changed without being supplied")
	}
}

func TestMakeOfferRequiresOffersEnabled(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, 1000, false)

	_, err := f.service.MakeOffer(context.Background(), listing.ListingID, ports.MakeOfferInput{
		Buyer:     "buyer",
		Amount:    700,
		ExpiresAt: f.clock.now.Add(time.Hour),
	})
	if !errors.Is(err, domainerrors.ErrOffersNotAllowed) {
		t.Fatalf("expected ErrOffersNotAllowed, got %v", err)
	}
}

func TestAcceptOfferSettlesAtOfferAmount(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 900)
	listing := f.createListing(t, 1000, true)

	offer, err := f.service.MakeOffer(context.Background(), listing.ListingID, ports.MakeOfferInput{
		Buyer:     "buyer",
		Amount:    900,
		ExpiresAt: f.clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	accepted, split, err := f.service.AcceptOffer(context.Background(), offer.OfferID, "seller")
	if err != nil {
		t.Fatalf("accept offer failed: %v", err)
	}
	if accepted.Status != entities.OfferStatusAccepted {
		t.Fatalf("unexpected offer status %q", accepted.Status)
	}
	if split.Total != 900 || split.ArtistShare != 90 || split.VenueShare != 45 || split.PlatformShare != 9 || split.SellerShare != 756 {
		t.Fatalf("unexpected split %+v", split)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "buyer" {
		t.Fatalf("ticket holder %q", holder)
	}
	current, err := f.service.GetListing(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("get listing failed: %v", err)
	}
	if current.Status != entities.ListingStatusSold {
		t.Fatalf("listing status %q", current.Status)
	}
}

func TestAcceptOfferRejectsNonSeller(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 900)
	listing := f.createListing(t, 1000, true)

	offer, err := f.service.MakeOffer(context.Background(), listing.ListingID, ports.MakeOfferInput{
		Buyer:     "buyer",
		Amount:    900,
		ExpiresAt: f.clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	_, _, err = f.service.AcceptOffer(context.Background(), offer.OfferID, "buyer")
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAcceptOfferRejectsExpiredOffer(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 900)
	listing := f.createListing(t, 1000, true)

	offer, err := f.service.MakeOffer(context.Background(), listing.ListingID, ports.MakeOfferInput{
		Buyer:     "buyer",
		Amount:    900,
		ExpiresAt: f.clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	_, _, err = f.service.AcceptOffer(context.Background(), offer.OfferID, "seller")
	if !errors.Is(err, domainerrors.ErrOfferExpired) {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
}

func TestCounterOfferRecordsNewTerms(t *testing.T) {
	f := newFixture(t)
	listing := f.createListing(t, 1000, true)

	offer, err := f.service.MakeOffer(context.Background(), listing.ListingID, ports.MakeOfferInput{
		Buyer:     "buyer",
		Amount:    700,
		ExpiresAt: f.clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	countered, err := f.service.CounterOffer(context.Background(), offer.OfferID, "seller", 850, f.clock.now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("counter offer failed: %v", err)
	}
	if countered.Status != entities.OfferStatusCounterOffered {
		t.Fatalf("unexpected status %q", countered.Status)
	}
	if countered.Amount != 850 {
		t.Fatalf("unexpected amount %d", countered.Amount)
	}
}

func TestExpireDueListingReturnsTicket(t *testing.T) {
	f := newFixture(t)
	expiresAt := f.clock.now.Add(time.Hour)
	listing, err := f.service.CreateListing(context.Background(), ports.CreateListingInput{
		TicketID:  "ticket-1",
		Seller:    "seller",
		Price:     1000,
		ExpiresAt: &expiresAt,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	expired, err := f.service.ExpireDueListing(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if !expired {
		t.Fatalf("listing not expired")
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "seller" {
		t.Fatalf("ticket holder %q", holder)
	}

	// Second sweep is a no-op.
	expired, err = f.service.ExpireDueListing(context.Background(), listing.ListingID)
	if err != nil {
		t.Fatalf("second expire failed: %v", err)
	}
	if expired {
		t.Fatalf("expired listing swept twice")
	}
}

func TestBuyAppendsOutboxEvent(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("buyer", 1000)
	listing := f.createListing(t, 1000, false)

	if _, _, err := f.service.Buy(context.Background(), listing.ListingID, "buyer"); err != nil {
		t.Fatalf("buy failed: %v", err)
	}
	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(pending))
	}
	if pending[0].EventType != "listing.sold" {
		t.Fatalf("unexpected event type %q", pending[0].EventType)
	}
}

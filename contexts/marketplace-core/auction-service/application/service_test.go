package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"turnstile/contexts/marketplace-core/auction-service/adapters/memory"
	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	"turnstile/contexts/marketplace-core/auction-service/ports"
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

func (f *fixture) createEnglish(t *testing.T, startingBid uint64) entities.Auction {
	t.Helper()
	auction, err := f.service.CreateAuction(context.Background(), ports.CreateAuctionInput{
		TicketID:    "ticket-1",
		Seller:      "seller",
		Type:        entities.AuctionTypeEnglish,
		StartingBid: startingBid,
		Duration:    time.Hour,
	})
	if err != nil {
		t.Fatalf("create auction failed: %v", err)
	}
	return auction
}

func (f *fixture) createDutch(t *testing.T, startingBid uint64, floor uint64) entities.Auction {
	t.Helper()
	auction, err := f.service.CreateAuction(context.Background(), ports.CreateAuctionInput{
		TicketID:    "ticket-1",
		Seller:      "seller",
		Type:        entities.AuctionTypeDutch,
		StartingBid: startingBid,
		FloorPrice:  floor,
		Duration:    time.Hour,
	})
	if err != nil {
		t.Fatalf("create dutch auction failed: %v", err)
	}
	return auction
}

func TestCreateAuctionEscrowsTicket(t *testing.T) {
	f := newFixture(t)

	auction := f.createEnglish(t, 100)

	if auction.Status != entities.AuctionStatusActive {
		t.Fatalf("unexpected status %q", auction.Status)
	}
	if auction.CurrentBid != 100 || auction.HasBid() {
		t.Fatalf("unexpected initial bid state %+v", auction)
	}
	holder, ok := f.ledger.Holder("ticket-1")
	if !ok || holder != keys.AuctionVault(auction.AuctionID) {
		t.Fatalf("ticket not escrowed, holder %q", holder)
	}
}

func TestCreateAuctionValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.CreateAuction(context.Background(), ports.CreateAuctionInput{
		TicketID:    "ticket-1",
		Seller:      "seller",
		Type:        entities.AuctionTypeDutch,
		StartingBid: 100,
		FloorPrice:  100,
		Duration:    time.Hour,
	})
	if !errors.Is(err, domainerrors.ErrInvalidAuctionInput) {
		t.Fatalf("expected ErrInvalidAuctionInput for floor >= starting, got %v", err)
	}
}

func TestPlaceBidRefundsDisplacedBidder(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 150)
	f.ledger.Credit("bob", 200)
	auction := f.createEnglish(t, 100)
	escrow := keys.AuctionEscrow(auction.AuctionID)

	updated, split, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 150)
	if err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	if split != nil {
		t.Fatalf("english bid returned settlement")
	}
	if updated.CurrentBid != 150 || updated.HighestBidder != "alice" {
		t.Fatalf("unexpected auction state %+v", updated)
	}
	if got := f.ledger.Balance(escrow); got != 150 {
		t.Fatalf("escrow balance %d after first bid", got)
	}

	_, _, err = f.service.PlaceBid(context.Background(), auction.AuctionID, "bob", 140)
	if !errors.Is(err, domainerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow, got %v", err)
	}

	updated, _, err = f.service.PlaceBid(context.Background(), auction.AuctionID, "bob", 200)
	if err != nil {
		t.Fatalf("outbid failed: %v", err)
	}
	if updated.CurrentBid != 200 || updated.HighestBidder != "bob" {
		t.Fatalf("unexpected auction state %+v", updated)
	}
	if got := f.ledger.Balance("alice"); got != 150 {
		t.Fatalf("alice not refunded, balance %d", got)
	}
	if got := f.ledger.Balance(escrow); got != 200 {
		t.Fatalf("escrow balance %d after outbid", got)
	}
}

func TestPlaceBidSameBidderTopsUpDifference(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 200)
	auction := f.createEnglish(t, 100)
	escrow := keys.AuctionEscrow(auction.AuctionID)

	if _, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 150); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	if _, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 180); err != nil {
		t.Fatalf("raise failed: %v", err)
	}

	if got := f.ledger.Balance(escrow); got != 180 {
		t.Fatalf("escrow balance %d, want the raised bid only", got)
	}
	if got := f.ledger.Balance("alice"); got != 20 {
		t.Fatalf("alice balance %d", got)
	}
}

func TestPlaceBidWithoutFundsLeavesNoPartialEffects(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 150)
	auction := f.createEnglish(t, 100)
	escrow := keys.AuctionEscrow(auction.AuctionID)

	if _, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 150); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}

	// Bob is refunding alice then failing his own deposit; the refund
	// must roll back with the rest of the transaction.
	_, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "bob", 200)
	if !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := f.ledger.Balance("alice"); got != 0 {
		t.Fatalf("alice balance %d after failed outbid", got)
	}
	if got := f.ledger.Balance(escrow); got != 150 {
		t.Fatalf("escrow balance %d after failed outbid", got)
	}
	current, err := f.service.GetAuction(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("get auction failed: %v", err)
	}
	if current.HighestBidder != "alice" || current.CurrentBid != 150 {
		t.Fatalf("auction mutated by failed bid %+v", current)
	}
}

func TestEndAuctionSettlesWinner(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 1000)
	auction := f.createEnglish(t, 100)

	if _, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 1000); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	_, _, err := f.service.EndAuction(context.Background(), auction.AuctionID)
	if !errors.Is(err, domainerrors.ErrAuctionNotYetEnded) {
		t.Fatalf("expected ErrAuctionNotYetEnded, got %v", err)
	}

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	closed, split, err := f.service.EndAuction(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("end auction failed: %v", err)
	}
	if closed.Status != entities.AuctionStatusEnded {
		t.Fatalf("unexpected status %q", closed.Status)
	}
	if split == nil || split.ArtistShare != 100 || split.VenueShare != 50 || split.PlatformShare != 10 || split.SellerShare != 840 {
		t.Fatalf("unexpected split %+v", split)
	}
	if got := f.ledger.Balance("seller"); got != 840 {
		t.Fatalf("seller balance %d", got)
	}
	if got := f.ledger.Balance(keys.AuctionEscrow(auction.AuctionID)); got != 0 {
		t.Fatalf("escrow not drained, balance %d", got)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "alice" {
		t.Fatalf("ticket holder %q", holder)
	}
}

func TestEndAuctionWithNoBidsReturnsTicket(t *testing.T) {
	f := newFixture(t)
	auction := f.createEnglish(t, 100)

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	closed, split, err := f.service.EndAuction(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("end auction failed: %v", err)
	}
	if closed.Status != entities.AuctionStatusCancelled {
		t.Fatalf("unexpected status %q", closed.Status)
	}
	if split != nil {
		t.Fatalf("no-bid close produced a settlement")
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "seller" {
		t.Fatalf("ticket holder %q", holder)
	}
	if got := f.ledger.Balance("seller"); got != 0 {
		t.Fatalf("funds moved on no-bid close, seller balance %d", got)
	}
}

func TestEndAuctionRejectsClosedAuction(t *testing.T) {
	f := newFixture(t)
	auction := f.createEnglish(t, 100)

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	if _, _, err := f.service.EndAuction(context.Background(), auction.AuctionID); err != nil {
		t.Fatalf("end auction failed: %v", err)
	}
	_, _, err := f.service.EndAuction(context.Background(), auction.AuctionID)
	if !errors.Is(err, domainerrors.ErrAuctionNotActive) {
		t.Fatalf("expected ErrAuctionNotActive, got %v", err)
	}
}

func TestDutchPriceDecaysLinearly(t *testing.T) {
	f := newFixture(t)
	auction := f.createDutch(t, 1000, 400)

	price, err := f.service.CurrentPrice(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("current price failed: %v", err)
	}
	if price != 1000 {
		t.Fatalf("price at start %d", price)
	}

	f.clock.now = f.clock.now.Add(30 * time.Minute)
	price, err = f.service.CurrentPrice(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("current price failed: %v", err)
	}
	if price != 700 {
		t.Fatalf("price at midpoint %d, want 700", price)
	}

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	price, err = f.service.CurrentPrice(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("current price failed: %v", err)
	}
	if price != 400 {
		t.Fatalf("price past end %d, want floor", price)
	}
}

func TestDutchBidFinalizesAtDisplayedPrice(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 1000)
	auction := f.createDutch(t, 1000, 400)

	f.clock.now = f.clock.now.Add(30 * time.Minute)
	_, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 650)
	if !errors.Is(err, domainerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow below displayed price, got %v", err)
	}

	updated, split, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 900)
	if err != nil {
		t.Fatalf("dutch take failed: %v", err)
	}
	if updated.Status != entities.AuctionStatusEnded {
		t.Fatalf("unexpected status %q", updated.Status)
	}
	if updated.CurrentBid != 700 {
		t.Fatalf("finalized at %d, want displayed price 700", updated.CurrentBid)
	}
	if split == nil || split.Total != 700 {
		t.Fatalf("unexpected settlement %+v", split)
	}
	// 700 split: artist 70, venue 35, platform 7, seller 588.
	if got := f.ledger.Balance("seller"); got != 588 {
		t.Fatalf("seller balance %d", got)
	}
	if got := f.ledger.Balance("alice"); got != 300 {
		t.Fatalf("alice balance %d, want only the displayed price deducted", got)
	}
	holder, _ := f.ledger.Holder("ticket-1")
	if holder != "alice" {
		t.Fatalf("ticket holder %q", holder)
	}
}

func TestCloseDueAuctionSweepSkipsRaces(t *testing.T) {
	f := newFixture(t)
	auction := f.createEnglish(t, 100)

	f.clock.now = f.clock.now.Add(2 * time.Hour)
	closed, err := f.service.CloseDueAuction(context.Background(), auction.AuctionID)
	if err != nil || !closed {
		t.Fatalf("close due auction: closed=%v err=%v", closed, err)
	}
	closed, err = f.service.CloseDueAuction(context.Background(), auction.AuctionID)
	if err != nil {
		t.Fatalf("second sweep errored: %v", err)
	}
	if closed {
		t.Fatalf("closed auction swept twice")
	}
}

func TestEndAuctionAppendsOutboxEvent(t *testing.T) {
	f := newFixture(t)
	f.ledger.Credit("alice", 500)
	auction := f.createEnglish(t, 100)

	if _, _, err := f.service.PlaceBid(context.Background(), auction.AuctionID, "alice", 500); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	f.clock.now = f.clock.now.Add(2 * time.Hour)
	if _, _, err := f.service.EndAuction(context.Background(), auction.AuctionID); err != nil {
		t.Fatalf("end auction failed: %v", err)
	}

	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending event, got %d", len(pending))
	}
	if pending[0].EventType != "auction.ended" {
		t.Fatalf("unexpected event type %q", pending[0].EventType)
	}
}

package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
	domainerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	"turnstile/contexts/marketplace-core/auction-service/ports"
	"turnstile/internal/shared/keys"
	"turnstile/internal/shared/settlement"
)

type Service struct {
	UoW       ports.UnitOfWork
	Repo      ports.Repository
	Tickets   ports.TicketDirectory
	Royalties ports.RoyaltySource
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CreateAuction escrows the ticket and opens an Active auction. The
// seller funds nothing; bid money enters the auction's escrow account as
// bids arrive.
func (s Service) CreateAuction(ctx context.Context, input ports.CreateAuctionInput) (entities.Auction, error) {
	ticket, err := s.Tickets.Describe(ctx, input.TicketID)
	if err != nil {
		return entities.Auction{}, err
	}

	auctionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Auction{}, err
	}
	auction, err := entities.NewAuction(
		auctionID,
		ticket.TicketID,
		ticket.CollectionID,
		input.Seller,
		input.Type,
		input.StartingBid,
		input.FloorPrice,
		input.Duration,
		s.now(),
	)
	if err != nil {
		return entities.Auction{}, err
	}

	err = s.UoW.Execute(ctx, func(tx ports.Tx) error {
		if err := tx.LockTicket(auction.TicketID, auction.Seller, keys.AuctionVault(auction.AuctionID)); err != nil {
			return err
		}
		return tx.SaveAuction(auction)
	})
	if err != nil {
		return entities.Auction{}, err
	}

	resolveLogger(s.Logger).Info("auction created",
		"event", "auction_created",
		"module", "marketplace-core/auction-service",
		"layer", "application",
		"auction_id", auction.AuctionID,
		"ticket_id", auction.TicketID,
		"auction_type", string(auction.Type),
		"starting_bid", auction.StartingBid,
		"end_time", auction.EndTime,
	)
	return auction, nil
}

// PlaceBid accepts a bid. English auctions escrow the bid and refund the
// displaced bidder first; the refund precedes the deposit so escrowed
// funds never exceed the current bid. A Dutch bid at or above the
// displayed price finalizes immediately, returning the settlement.
func (s Service) PlaceBid(ctx context.Context, auctionID string, bidder string, amount uint64) (entities.Auction, *settlement.Settlement, error) {
	bidder = strings.TrimSpace(bidder)
	if bidder == "" {
		return entities.Auction{}, nil, domainerrors.ErrInvalidAuctionInput
	}

	var (
		updated entities.Auction
		split   *settlement.Settlement
	)
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		auction, err := tx.GetAuction(auctionID)
		if err != nil {
			return err
		}
		if err := requireActiveAuction(auction); err != nil {
			return err
		}
		if auction.Ended(now) {
			return domainerrors.ErrAuctionNotActive
		}

		switch auction.Type {
		case entities.AuctionTypeEnglish:
			updated, err = s.placeEnglishBid(tx, auction, bidder, amount, now)
			return err
		case entities.AuctionTypeDutch:
			updated, split, err = s.takeDutchPrice(ctx, tx, auction, bidder, amount, now)
			return err
		default:
			return domainerrors.ErrInvalidAuctionInput
		}
	})
	if err != nil {
		return entities.Auction{}, nil, err
	}

	logger := resolveLogger(s.Logger)
	if split != nil {
		logger.Info("dutch auction taken",
			"event", "auction_taken",
			"module", "marketplace-core/auction-service",
			"layer", "application",
			"auction_id", updated.AuctionID,
			"winner", bidder,
			"price", updated.CurrentBid,
		)
	} else {
		logger.Info("bid placed",
			"event", "bid_placed",
			"module", "marketplace-core/auction-service",
			"layer", "application",
			"auction_id", updated.AuctionID,
			"bidder", bidder,
			"amount", amount,
		)
	}
	return updated, split, nil
}

func (s Service) placeEnglishBid(tx ports.Tx, auction entities.Auction, bidder string, amount uint64, now time.Time) (entities.Auction, error) {
	if amount <= auction.CurrentBid {
		return entities.Auction{}, domainerrors.ErrBidTooLow
	}

	escrow := keys.AuctionEscrow(auction.AuctionID)
	deposit := amount
	switch {
	case auction.HighestBidder == bidder:
		// Raising own bid tops up the difference so the escrow
		// account holds exactly the current bid.
		deposit = amount - auction.CurrentBid
	case auction.HasBid():
		// Refund before deposit: the escrow never holds two bids.
		if err := tx.Pay(escrow, auction.HighestBidder, auction.CurrentBid); err != nil {
			return entities.Auction{}, err
		}
	}
	if err := tx.Pay(bidder, escrow, deposit); err != nil {
		return entities.Auction{}, err
	}

	auction.CurrentBid = amount
	auction.HighestBidder = bidder
	auction.UpdatedAt = now
	if err := tx.SaveAuction(auction); err != nil {
		return entities.Auction{}, err
	}
	return auction, nil
}

func (s Service) takeDutchPrice(ctx context.Context, tx ports.Tx, auction entities.Auction, bidder string, amount uint64, now time.Time) (entities.Auction, *settlement.Settlement, error) {
	price, err := auction.PriceAt(now)
	if err != nil {
		return entities.Auction{}, nil, err
	}
	if amount < price {
		return entities.Auction{}, nil, domainerrors.ErrBidTooLow
	}

	royalty, err := s.Royalties.Royalty(ctx, auction.CollectionID)
	if err != nil {
		return entities.Auction{}, nil, err
	}
	split, err := settlement.Split(price, royalty.Split)
	if err != nil {
		return entities.Auction{}, nil, err
	}
	if err := paySettlement(tx, bidder, auction.Seller, royalty.Split, split); err != nil {
		return entities.Auction{}, nil, err
	}
	if err := tx.ReleaseTicket(keys.AuctionVault(auction.AuctionID), bidder); err != nil {
		return entities.Auction{}, nil, err
	}

	auction.CurrentBid = price
	auction.HighestBidder = bidder
	auction.Status = entities.AuctionStatusEnded
	auction.UpdatedAt = now
	if err := tx.SaveAuction(auction); err != nil {
		return entities.Auction{}, nil, err
	}
	if err := s.appendAuctionOutbox(ctx, tx, "auction.ended", auction, split, now); err != nil {
		return entities.Auction{}, nil, err
	}
	return auction, &split, nil
}

// EndAuction closes an auction past its end_time. With a highest bidder
// the escrowed bid is split among seller, artist, venue, and platform and
// the ticket goes to the winner; with no bids the ticket returns to the
// seller and the auction is Cancelled.
func (s Service) EndAuction(ctx context.Context, auctionID string) (entities.Auction, *settlement.Settlement, error) {
	var (
		closed entities.Auction
		split  *settlement.Settlement
	)
	now := s.now()
	err := s.UoW.Execute(ctx, func(tx ports.Tx) error {
		auction, err := tx.GetAuction(auctionID)
		if err != nil {
			return err
		}
		if err := requireActiveAuction(auction); err != nil {
			return err
		}
		if !auction.Ended(now) {
			return domainerrors.ErrAuctionNotYetEnded
		}

		if auction.HasBid() {
			royalty, err := s.Royalties.Royalty(ctx, auction.CollectionID)
			if err != nil {
				return err
			}
			result, err := settlement.Split(auction.CurrentBid, royalty.Split)
			if err != nil {
				return err
			}
			escrow := keys.AuctionEscrow(auction.AuctionID)
			if err := paySettlement(tx, escrow, auction.Seller, royalty.Split, result); err != nil {
				return err
			}
			if err := tx.ReleaseTicket(keys.AuctionVault(auction.AuctionID), auction.HighestBidder); err != nil {
				return err
			}
			auction.Status = entities.AuctionStatusEnded
			auction.UpdatedAt = now
			if err := tx.SaveAuction(auction); err != nil {
				return err
			}
			closed = auction
			split = &result
			return s.appendAuctionOutbox(ctx, tx, "auction.ended", auction, result, now)
		}

		if err := tx.ReleaseTicket(keys.AuctionVault(auction.AuctionID), auction.Seller); err != nil {
			return err
		}
		auction.Status = entities.AuctionStatusCancelled
		auction.UpdatedAt = now
		if err := tx.SaveAuction(auction); err != nil {
			return err
		}
		closed = auction
		return s.appendAuctionOutbox(ctx, tx, "auction.cancelled", auction, settlement.Settlement{}, now)
	})
	if err != nil {
		return entities.Auction{}, nil, err
	}

	resolveLogger(s.Logger).Info("auction closed",
		"event", "auction_closed",
		"module", "marketplace-core/auction-service",
		"layer", "application",
		"auction_id", closed.AuctionID,
		"status", string(closed.Status),
		"winner", closed.HighestBidder,
		"final_price", closed.CurrentBid,
	)
	return closed, split, nil
}

// CloseDueAuction ends one due auction for the closing sweep. An auction
// that is no longer Active or not yet due is left alone.
func (s Service) CloseDueAuction(ctx context.Context, auctionID string) (bool, error) {
	_, _, err := s.EndAuction(ctx, auctionID)
	if err != nil {
		switch {
		case isBenignSweepError(err):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func (s Service) GetAuction(ctx context.Context, auctionID string) (entities.Auction, error) {
	if strings.TrimSpace(auctionID) == "" {
		return entities.Auction{}, domainerrors.ErrInvalidAuctionInput
	}
	return s.Repo.GetAuction(ctx, strings.TrimSpace(auctionID))
}

func (s Service) ListAuctionsBySeller(ctx context.Context, seller string) ([]entities.Auction, error) {
	if strings.TrimSpace(seller) == "" {
		return nil, domainerrors.ErrInvalidAuctionInput
	}
	return s.Repo.ListAuctionsBySeller(ctx, strings.TrimSpace(seller))
}

// CurrentPrice returns the displayed price right now, without mutating
// anything. For Dutch auctions this is the decayed price a taker pays.
func (s Service) CurrentPrice(ctx context.Context, auctionID string) (uint64, error) {
	auction, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return 0, err
	}
	return auction.PriceAt(s.now())
}

func paySettlement(tx ports.Tx, from string, seller string, royalty settlement.Royalty, split settlement.Settlement) error {
	if err := tx.Pay(from, seller, split.SellerShare); err != nil {
		return err
	}
	if split.ArtistShare > 0 {
		if err := tx.Pay(from, royalty.ArtistWallet, split.ArtistShare); err != nil {
			return err
		}
	}
	if split.VenueShare > 0 {
		if err := tx.Pay(from, royalty.VenueWallet, split.VenueShare); err != nil {
			return err
		}
	}
	if split.PlatformShare > 0 {
		if err := tx.Pay(from, royalty.PlatformWallet, split.PlatformShare); err != nil {
			return err
		}
	}
	return nil
}

func (s Service) appendAuctionOutbox(
	ctx context.Context,
	tx ports.Tx,
	eventType string,
	auction entities.Auction,
	split settlement.Settlement,
	occurredAt time.Time,
) error {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"auction_id":     auction.AuctionID,
		"ticket_id":      auction.TicketID,
		"collection_id":  auction.CollectionID,
		"seller":         auction.Seller,
		"winner":         auction.HighestBidder,
		"auction_type":   string(auction.Type),
		"final_price":    auction.CurrentBid,
		"artist_share":   split.ArtistShare,
		"venue_share":    split.VenueShare,
		"platform_share": split.PlatformShare,
		"seller_share":   split.SellerShare,
	})
	if err != nil {
		return err
	}
	return tx.AppendOutbox(ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "auction-service",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "auction_id",
		PartitionKey:     auction.AuctionID,
		Data:             data,
	})
}

func requireActiveAuction(auction entities.Auction) error {
	switch auction.Status {
	case entities.AuctionStatusActive:
		return nil
	case entities.AuctionStatusEnded, entities.AuctionStatusCancelled:
		return domainerrors.ErrAuctionNotActive
	default:
		return domainerrors.ErrAuctionNotActive
	}
}

// isBenignSweepError filters conditions a due-auction sweep may race
// into: another call closed the auction first.
func isBenignSweepError(err error) bool {
	return errors.Is(err, domainerrors.ErrAuctionNotActive) ||
		errors.Is(err, domainerrors.ErrAuctionNotYetEnded)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

// ResolveLogger is shared with the worker sweeps in this context.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	return ResolveLogger(logger)
}

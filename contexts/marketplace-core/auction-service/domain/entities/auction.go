package entities

import (
	"strings"
	"time"

	domainerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	"turnstile/internal/shared/settlement"
)

type AuctionType string

const (
	AuctionTypeEnglish AuctionType = "english"
	AuctionTypeDutch   AuctionType = "dutch"
)

type AuctionStatus string

const (
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// Auction is one unit up for timed sale. For English auctions CurrentBid
// tracks the highest accepted bid and the matching funds sit in the
// auction's escrow account. For Dutch auctions CurrentBid holds the
// starting price until the first taker finalizes at the displayed price.
type Auction struct {
	AuctionID     string
	TicketID      string
	CollectionID  string
	Seller        string
	Type          AuctionType
	StartingBid   uint64
	CurrentBid    uint64
	FloorPrice    uint64
	HighestBidder string
	StartTime     time.Time
	EndTime       time.Time
	Status        AuctionStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewAuction(
	auctionID string,
	ticketID string,
	collectionID string,
	seller string,
	auctionType AuctionType,
	startingBid uint64,
	floorPrice uint64,
	duration time.Duration,
	now time.Time,
) (Auction, error) {
	auctionID = strings.TrimSpace(auctionID)
	ticketID = strings.TrimSpace(ticketID)
	collectionID = strings.TrimSpace(collectionID)
	seller = strings.TrimSpace(seller)
	if auctionID == "" || ticketID == "" || collectionID == "" || seller == "" {
		return Auction{}, domainerrors.ErrInvalidAuctionInput
	}
	if startingBid == 0 || duration <= 0 {
		return Auction{}, domainerrors.ErrInvalidAuctionInput
	}
	switch auctionType {
	case AuctionTypeEnglish:
		if floorPrice != 0 {
			return Auction{}, domainerrors.ErrInvalidAuctionInput
		}
	case AuctionTypeDutch:
		if floorPrice == 0 || floorPrice >= startingBid {
			return Auction{}, domainerrors.ErrInvalidAuctionInput
		}
	default:
		return Auction{}, domainerrors.ErrInvalidAuctionInput
	}

	now = now.UTC()
	return Auction{
		AuctionID:    auctionID,
		TicketID:     ticketID,
		CollectionID: collectionID,
		Seller:       seller,
		Type:         auctionType,
		StartingBid:  startingBid,
		CurrentBid:   startingBid,
		FloorPrice:   floorPrice,
		StartTime:    now,
		EndTime:      now.Add(duration),
		Status:       AuctionStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// HasBid reports whether any bid has been accepted.
func (a Auction) HasBid() bool { return a.HighestBidder != "" }

// Ended reports whether end_time has passed.
func (a Auction) Ended(now time.Time) bool { return !now.Before(a.EndTime) }

// PriceAt returns the displayed price at the given instant. English
// auctions display the current bid, which a new bid must exceed; Dutch
// auctions decay linearly from the starting bid to the floor over the
// auction window.
func (a Auction) PriceAt(now time.Time) (uint64, error) {
	if a.Type != AuctionTypeDutch {
		return a.CurrentBid, nil
	}
	now = now.UTC()
	if !now.After(a.StartTime) {
		return a.StartingBid, nil
	}
	if !now.Before(a.EndTime) {
		return a.FloorPrice, nil
	}
	elapsed := uint64(now.Sub(a.StartTime) / time.Second)
	window := uint64(a.EndTime.Sub(a.StartTime) / time.Second)
	if window == 0 {
		return a.FloorPrice, nil
	}
	span := a.StartingBid - a.FloorPrice
	reduction, err := mulDiv(span, elapsed, window)
	if err != nil {
		return 0, err
	}
	if reduction >= span {
		return a.FloorPrice, nil
	}
	return a.StartingBid - reduction, nil
}

func mulDiv(value uint64, numerator uint64, denominator uint64) (uint64, error) {
	if value == 0 || numerator == 0 {
		return 0, nil
	}
	product := value * numerator
	if product/numerator != value {
		return 0, settlement.ErrArithmeticOverflow
	}
	return product / denominator, nil
}

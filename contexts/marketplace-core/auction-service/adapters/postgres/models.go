package postgresadapter

import (
	"encoding/json"
	"time"

	"turnstile/contexts/marketplace-core/auction-service/domain/entities"
)

type auctionModel struct {
	AuctionID     string    `gorm:"column:auction_id;primaryKey"`
	TicketID      string    `gorm:"column:ticket_id;index"`
	CollectionID  string    `gorm:"column:collection_id;index"`
	Seller        string    `gorm:"column:seller;index"`
	Type          string    `gorm:"column:auction_type"`
	StartingBid   uint64    `gorm:"column:starting_bid"`
	CurrentBid    uint64    `gorm:"column:current_bid"`
	FloorPrice    uint64    `gorm:"column:floor_price"`
	HighestBidder string    `gorm:"column:highest_bidder"`
	StartTime     time.Time `gorm:"column:start_time"`
	EndTime       time.Time `gorm:"column:end_time;index"`
	Status        string    `gorm:"column:status;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (auctionModel) TableName() string { return "auctions" }

func auctionModelFromEntity(auction entities.Auction) auctionModel {
	return auctionModel{
		AuctionID:     auction.AuctionID,
		TicketID:      auction.TicketID,
		CollectionID:  auction.CollectionID,
		Seller:        auction.Seller,
		Type:          string(auction.Type),
		StartingBid:   auction.StartingBid,
		CurrentBid:    auction.CurrentBid,
		FloorPrice:    auction.FloorPrice,
		HighestBidder: auction.HighestBidder,
		StartTime:     auction.StartTime,
		EndTime:       auction.EndTime,
		Status:        string(auction.Status),
		CreatedAt:     auction.CreatedAt,
		UpdatedAt:     auction.UpdatedAt,
	}
}

func (m auctionModel) toEntity() entities.Auction {
	return entities.Auction{
		AuctionID:     m.AuctionID,
		TicketID:      m.TicketID,
		CollectionID:  m.CollectionID,
		Seller:        m.Seller,
		Type:          entities.AuctionType(m.Type),
		StartingBid:   m.StartingBid,
		CurrentBid:    m.CurrentBid,
		FloorPrice:    m.FloorPrice,
		HighestBidder: m.HighestBidder,
		StartTime:     m.StartTime,
		EndTime:       m.EndTime,
		Status:        entities.AuctionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type ticketModel struct {
	TicketID      string `gorm:"column:ticket_id;primaryKey"`
	CollectionID  string `gorm:"column:collection_id;index"`
	OriginalPrice uint64 `gorm:"column:original_price"`
}

func (ticketModel) TableName() string { return "tickets" }

type accountBalanceModel struct {
	Account string `gorm:"column:account;primaryKey"`
	Balance uint64 `gorm:"column:balance"`
}

func (accountBalanceModel) TableName() string { return "account_balances" }

type unitCustodyModel struct {
	Unit   string `gorm:"column:unit;primaryKey"`
	Holder string `gorm:"column:holder;index"`
}

func (unitCustodyModel) TableName() string { return "unit_custody" }

type escrowVaultModel struct {
	Vault string `gorm:"column:vault;primaryKey"`
	Unit  string `gorm:"column:unit;index"`
}

func (escrowVaultModel) TableName() string { return "escrow_vaults" }

type outboxModel struct {
	OutboxID     string          `gorm:"column:outbox_id;primaryKey"`
	EventType    string          `gorm:"column:event_type;index"`
	PartitionKey string          `gorm:"column:partition_key"`
	Payload      json.RawMessage `gorm:"column:payload;type:jsonb"`
	Status       string          `gorm:"column:status;index"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	PublishedAt  *time.Time      `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "auction_outbox" }

package postgresadapter

import (
	"encoding/json"
	"time"

	"turnstile/contexts/marketplace-core/listing-service/domain/entities"
)

type listingModel struct {
	ListingID     string     `gorm:"column:listing_id;primaryKey"`
	TicketID      string     `gorm:"column:ticket_id;index"`
	CollectionID  string     `gorm:"column:collection_id;index"`
	Seller        string     `gorm:"column:seller;index"`
	Price         uint64     `gorm:"column:price"`
	OriginalPrice uint64     `gorm:"column:original_price"`
	PriceCap      uint64     `gorm:"column:price_cap"`
	ExpiresAt     *time.Time `gorm:"column:expires_at"`
	AllowOffers   bool       `gorm:"column:allow_offers"`
	Status        string     `gorm:"column:status;index"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (listingModel) TableName() string { return "listings" }

func listingModelFromEntity(listing entities.Listing) listingModel {
	return listingModel{
		ListingID:     listing.ListingID,
		TicketID:      listing.TicketID,
		CollectionID:  listing.CollectionID,
		Seller:        listing.Seller,
		Price:         listing.Price,
		OriginalPrice: listing.OriginalPrice,
		PriceCap:      listing.PriceCap,
		ExpiresAt:     listing.ExpiresAt,
		AllowOffers:   listing.AllowOffers,
		Status:        string(listing.Status),
		CreatedAt:     listing.CreatedAt,
		UpdatedAt:     listing.UpdatedAt,
	}
}

func (m listingModel) toEntity() entities.Listing {
	return entities.Listing{
		ListingID:     m.ListingID,
		TicketID:      m.TicketID,
		CollectionID:  m.CollectionID,
		Seller:        m.Seller,
		Price:         m.Price,
		OriginalPrice: m.OriginalPrice,
		PriceCap:      m.PriceCap,
		ExpiresAt:     m.ExpiresAt,
		AllowOffers:   m.AllowOffers,
		Status:        entities.ListingStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type offerModel struct {
	OfferID   string    `gorm:"column:offer_id;primaryKey"`
	ListingID string    `gorm:"column:listing_id;index"`
	Buyer     string    `gorm:"column:buyer;index"`
	Amount    uint64    `gorm:"column:amount"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (offerModel) TableName() string { return "offers" }

func offerModelFromEntity(offer entities.Offer) offerModel {
	return offerModel{
		OfferID:   offer.OfferID,
		ListingID: offer.ListingID,
		Buyer:     offer.Buyer,
		Amount:    offer.Amount,
		ExpiresAt: offer.ExpiresAt,
		Status:    string(offer.Status),
		CreatedAt: offer.CreatedAt,
		UpdatedAt: offer.UpdatedAt,
	}
}

func (m offerModel) toEntity() entities.Offer {
	return entities.Offer{
		OfferID:   m.OfferID,
		ListingID: m.ListingID,
		Buyer:     m.Buyer,
		Amount:    m.Amount,
		ExpiresAt: m.ExpiresAt,
		Status:    entities.OfferStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
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

func (outboxModel) TableName() string { return "listing_outbox" }

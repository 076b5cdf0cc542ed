package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateListingRequest struct {
	TicketID    string  `json:"ticket_id"`
	Price       uint64  `json:"price"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	AllowOffers bool    `json:"allow_offers"`
}

type UpdateListingRequest struct {
	Price       *uint64 `json:"price,omitempty"`
	ExpiresAt   *string `json:"expires_at,omitempty"`
	AllowOffers *bool   `json:"allow_offers,omitempty"`
}

type MakeOfferRequest struct {
	Amount    uint64 `json:"amount"`
	ExpiresAt string `json:"expires_at"`
}

type CounterOfferRequest struct {
	Amount    uint64 `json:"amount"`
	ExpiresAt string `json:"expires_at"`
}

type ListingDTO struct {
	ListingID     string  `json:"listing_id"`
	TicketID      string  `json:"ticket_id"`
	CollectionID  string  `json:"collection_id"`
	Seller        string  `json:"seller"`
	Price         uint64  `json:"price"`
	OriginalPrice uint64  `json:"original_price"`
	PriceCap      uint64  `json:"price_cap"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	AllowOffers   bool    `json:"allow_offers"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type OfferDTO struct {
	OfferID   string `json:"offer_id"`
	ListingID string `json:"listing_id"`
	Buyer     string `json:"buyer"`
	Amount    uint64 `json:"amount"`
	ExpiresAt string `json:"expires_at"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type SettlementDTO struct {
	Total         uint64 `json:"total"`
	ArtistShare   uint64 `json:"artist_share"`
	VenueShare    uint64 `json:"venue_share"`
	PlatformShare uint64 `json:"platform_share"`
	SellerShare   uint64 `json:"seller_share"`
}

type ListingResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type ListingsResponse struct {
	Status string       `json:"status"`
	Data   []ListingDTO `json:"data"`
}

type SaleDTO struct {
	Listing    ListingDTO    `json:"listing"`
	Settlement SettlementDTO `json:"settlement"`
}

type SaleResponse struct {
	Status string  `json:"status"`
	Data   SaleDTO `json:"data"`
}

type OfferResponse struct {
	Status string   `json:"status"`
	Data   OfferDTO `json:"data"`
}

type OffersResponse struct {
	Status string     `json:"status"`
	Data   []OfferDTO `json:"data"`
}

type AcceptedOfferDTO struct {
	Offer      OfferDTO      `json:"offer"`
	Settlement SettlementDTO `json:"settlement"`
}

type AcceptedOfferResponse struct {
	Status string           `json:"status"`
	Data   AcceptedOfferDTO `json:"data"`
}

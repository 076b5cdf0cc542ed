package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateAuctionRequest struct {
	TicketID        string `json:"ticket_id"`
	Type            string `json:"type"`
	StartingBid     uint64 `json:"starting_bid"`
	FloorPrice      uint64 `json:"floor_price,omitempty"`
	DurationSeconds int64  `json:"duration_seconds"`
}

type PlaceBidRequest struct {
	Amount uint64 `json:"amount"`
}

type AuctionDTO struct {
	AuctionID     string `json:"auction_id"`
	TicketID      string `json:"ticket_id"`
	CollectionID  string `json:"collection_id"`
	Seller        string `json:"seller"`
	Type          string `json:"type"`
	StartingBid   uint64 `json:"starting_bid"`
	CurrentBid    uint64 `json:"current_bid"`
	FloorPrice    uint64 `json:"floor_price,omitempty"`
	HighestBidder string `json:"highest_bidder,omitempty"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type SettlementDTO struct {
	Total         uint64 `json:"total"`
	ArtistShare   uint64 `json:"artist_share"`
	VenueShare    uint64 `json:"venue_share"`
	PlatformShare uint64 `json:"platform_share"`
	SellerShare   uint64 `json:"seller_share"`
}

type AuctionResponse struct {
	Status string     `json:"status"`
	Data   AuctionDTO `json:"data"`
}

type AuctionsResponse struct {
	Status string       `json:"status"`
	Data   []AuctionDTO `json:"data"`
}

// BidDTO reports the auction state after a bid and, when the bid
// finalized the auction, the resulting settlement.
type BidDTO struct {
	Auction    AuctionDTO     `json:"auction"`
	Settlement *SettlementDTO `json:"settlement,omitempty"`
}

type BidResponse struct {
	Status string `json:"status"`
	Data   BidDTO `json:"data"`
}

type CurrentPriceDTO struct {
	AuctionID string `json:"auction_id"`
	Price     uint64 `json:"price"`
}

type CurrentPriceResponse struct {
	Status string          `json:"status"`
	Data   CurrentPriceDTO `json:"data"`
}

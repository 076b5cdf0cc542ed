package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ConfigureRoyaltyRequest struct {
	CollectionID    string `json:"collection_id"`
	ArtistWallet    string `json:"artist_wallet"`
	VenueWallet     string `json:"venue_wallet"`
	PlatformWallet  string `json:"platform_wallet"`
	ArtistBP        uint16 `json:"artist_bp"`
	VenueBP         uint16 `json:"venue_bp"`
	PlatformBP      uint16 `json:"platform_bp"`
	CapMultiplierBP uint16 `json:"cap_multiplier_bp"`
}

type RoyaltyConfigDTO struct {
	CollectionID    string `json:"collection_id"`
	ArtistWallet    string `json:"artist_wallet"`
	VenueWallet     string `json:"venue_wallet"`
	PlatformWallet  string `json:"platform_wallet"`
	ArtistBP        uint16 `json:"artist_bp"`
	VenueBP         uint16 `json:"venue_bp"`
	PlatformBP      uint16 `json:"platform_bp"`
	CapMultiplierBP uint16 `json:"cap_multiplier_bp"`
	Authority       string `json:"authority"`
	CreatedAt       string `json:"created_at"`
}

type RoyaltyConfigResponse struct {
	Status string           `json:"status"`
	Data   RoyaltyConfigDTO `json:"data"`
}

type SettlementDTO struct {
	Total         uint64 `json:"total"`
	ArtistShare   uint64 `json:"artist_share"`
	VenueShare    uint64 `json:"venue_share"`
	PlatformShare uint64 `json:"platform_share"`
	SellerShare   uint64 `json:"seller_share"`
}

type PreviewSplitResponse struct {
	Status string        `json:"status"`
	Data   SettlementDTO `json:"data"`
}

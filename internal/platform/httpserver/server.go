package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	auctionservice "turnstile/contexts/marketplace-core/auction-service"
	auctionerrors "turnstile/contexts/marketplace-core/auction-service/domain/errors"
	auctionhttp "turnstile/contexts/marketplace-core/auction-service/transport/http"
	listingservice "turnstile/contexts/marketplace-core/listing-service"
	listingerrors "turnstile/contexts/marketplace-core/listing-service/domain/errors"
	listinghttp "turnstile/contexts/marketplace-core/listing-service/transport/http"
	royaltyservice "turnstile/contexts/marketplace-core/royalty-service"
	royaltyerrors "turnstile/contexts/marketplace-core/royalty-service/domain/errors"
	royaltyhttp "turnstile/contexts/marketplace-core/royalty-service/transport/http"
	"turnstile/internal/shared/ledger"
	"turnstile/internal/shared/settlement"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "turnstile/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	royalty  royaltyservice.Module
	listings listingservice.Module
	auctions auctionservice.Module
}

func New(
	royalty royaltyservice.Module,
	listings listingservice.Module,
	auctions auctionservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		royalty:  royalty,
		listings: listings,
		auctions: auctions,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/royalties", s.handleConfigureRoyalty)
	s.mux.HandleFunc("GET /v1/royalties/{collection_id}", s.handleGetRoyalty)
	s.mux.HandleFunc("GET /v1/royalties/{collection_id}/preview", s.handlePreviewSplit)

	s.mux.HandleFunc("POST /v1/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /v1/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("PATCH /v1/listings/{listing_id}", s.handleUpdateListing)
	s.mux.HandleFunc("POST /v1/listings/{listing_id}/buy", s.handleBuyListing)
	s.mux.HandleFunc("POST /v1/listings/{listing_id}/cancel", s.handleCancelListing)
	s.mux.HandleFunc("GET /v1/sellers/{seller_id}/listings", s.handleListSellerListings)

	s.mux.HandleFunc("POST /v1/listings/{listing_id}/offers", s.handleMakeOffer)
	s.mux.HandleFunc("GET /v1/listings/{listing_id}/offers", s.handleListOffers)
	s.mux.HandleFunc("POST /v1/offers/{offer_id}/accept", s.handleAcceptOffer)
	s.mux.HandleFunc("POST /v1/offers/{offer_id}/reject", s.handleRejectOffer)
	s.mux.HandleFunc("POST /v1/offers/{offer_id}/counter", s.handleCounterOffer)

	s.mux.HandleFunc("POST /v1/auctions", s.handleCreateAuction)
	s.mux.HandleFunc("GET /v1/auctions/{auction_id}", s.handleGetAuction)
	s.mux.HandleFunc("GET /v1/auctions/{auction_id}/price", s.handleCurrentPrice)
	s.mux.HandleFunc("POST /v1/auctions/{auction_id}/bids", s.handlePlaceBid)
	s.mux.HandleFunc("POST /v1/auctions/{auction_id}/end", s.handleEndAuction)
	s.mux.HandleFunc("GET /v1/sellers/{seller_id}/auctions", s.handleListSellerAuctions)
}

func (s *Server) handleConfigureRoyalty(w http.ResponseWriter, r *http.Request) {
	authority := r.Header.Get("X-User-Id")
	if authority == "" {
		writeRoyaltyError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req royaltyhttp.ConfigureRoyaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRoyaltyError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.royalty.Handler.ConfigureHandler(r.Context(), authority, req)
	if err != nil {
		writeRoyaltyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetRoyalty(w http.ResponseWriter, r *http.Request) {
	resp, err := s.royalty.Handler.GetConfigHandler(r.Context(), r.PathValue("collection_id"))
	if err != nil {
		writeRoyaltyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreviewSplit(w http.ResponseWriter, r *http.Request) {
	total, err := strconv.ParseUint(r.URL.Query().Get("total"), 10, 64)
	if err != nil {
		writeRoyaltyError(w, http.StatusBadRequest, "invalid_total", "total must be a non-negative integer")
		return
	}
	resp, err := s.royalty.Handler.PreviewSplitHandler(r.Context(), r.PathValue("collection_id"), total)
	if err != nil {
		writeRoyaltyDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	seller := r.Header.Get("X-User-Id")
	if seller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req listinghttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listings.Handler.CreateListingHandler(r.Context(), seller, req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listings.Handler.GetListingHandler(r.Context(), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req listinghttp.UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listings.Handler.UpdateListingHandler(r.Context(), r.PathValue("listing_id"), caller, req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBuyListing(w http.ResponseWriter, r *http.Request) {
	buyer := r.Header.Get("X-User-Id")
	if buyer == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.listings.Handler.BuyHandler(r.Context(), r.PathValue("listing_id"), buyer)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.listings.Handler.CancelListingHandler(r.Context(), r.PathValue("listing_id"), caller)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSellerListings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listings.Handler.ListListingsBySellerHandler(r.Context(), r.PathValue("seller_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMakeOffer(w http.ResponseWriter, r *http.Request) {
	buyer := r.Header.Get("X-User-Id")
	if buyer == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req listinghttp.MakeOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listings.Handler.MakeOfferHandler(r.Context(), r.PathValue("listing_id"), buyer, req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listings.Handler.ListOffersHandler(r.Context(), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.listings.Handler.AcceptOfferHandler(r.Context(), r.PathValue("offer_id"), caller)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectOffer(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.listings.Handler.RejectOfferHandler(r.Context(), r.PathValue("offer_id"), caller)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCounterOffer(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req listinghttp.CounterOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.listings.Handler.CounterOfferHandler(r.Context(), r.PathValue("offer_id"), caller, req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateAuction(w http.ResponseWriter, r *http.Request) {
	seller := r.Header.Get("X-User-Id")
	if seller == "" {
		writeAuctionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req auctionhttp.CreateAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuctionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auctions.Handler.CreateAuctionHandler(r.Context(), seller, req)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.GetAuctionHandler(r.Context(), r.PathValue("auction_id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.CurrentPriceHandler(r.Context(), r.PathValue("auction_id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request) {
	bidder := r.Header.Get("X-User-Id")
	if bidder == "" {
		writeAuctionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req auctionhttp.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuctionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.auctions.Handler.PlaceBidHandler(r.Context(), r.PathValue("auction_id"), bidder, req)
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndAuction(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.EndAuctionHandler(r.Context(), r.PathValue("auction_id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSellerAuctions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.auctions.Handler.ListAuctionsBySellerHandler(r.Context(), r.PathValue("seller_id"))
	if err != nil {
		writeAuctionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRoyaltyDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, royaltyerrors.ErrConfigNotFound):
		writeRoyaltyError(w, http.StatusNotFound, "config_not_found", err.Error())
	case errors.Is(err, royaltyerrors.ErrConfigExists):
		writeRoyaltyError(w, http.StatusConflict, "config_exists", err.Error())
	case errors.Is(err, royaltyerrors.ErrInvalidSplit),
		errors.Is(err, settlement.ErrInvalidSplit):
		writeRoyaltyError(w, http.StatusUnprocessableEntity, "invalid_split", err.Error())
	case errors.Is(err, royaltyerrors.ErrInvalidConfigInput):
		writeRoyaltyError(w, http.StatusBadRequest, "invalid_config", err.Error())
	case errors.Is(err, settlement.ErrArithmeticOverflow):
		writeRoyaltyError(w, http.StatusUnprocessableEntity, "arithmetic_overflow", err.Error())
	default:
		writeRoyaltyError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeListingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, listingerrors.ErrListingNotFound):
		writeListingError(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, listingerrors.ErrOfferNotFound):
		writeListingError(w, http.StatusNotFound, "offer_not_found", err.Error())
	case errors.Is(err, listingerrors.ErrTicketNotFound):
		writeListingError(w, http.StatusNotFound, "ticket_not_found", err.Error())
	case errors.Is(err, listingerrors.ErrPriceExceedsCap):
		writeListingError(w, http.StatusUnprocessableEntity, "price_exceeds_cap", err.Error())
	case errors.Is(err, listingerrors.ErrListingNotActive),
		errors.Is(err, listingerrors.ErrListingExpired),
		errors.Is(err, listingerrors.ErrOfferNotActive),
		errors.Is(err, listingerrors.ErrOfferExpired),
		errors.Is(err, listingerrors.ErrOffersNotAllowed):
		writeListingError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, listingerrors.ErrUnauthorized):
		writeListingError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, listingerrors.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientFunds):
		writeListingError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, ledger.ErrWrongQuantity),
		errors.Is(err, ledger.ErrVaultOccupied),
		errors.Is(err, ledger.ErrEmptyVault):
		writeListingError(w, http.StatusConflict, "escrow_conflict", err.Error())
	case errors.Is(err, listingerrors.ErrInvalidListingInput),
		errors.Is(err, listingerrors.ErrInvalidOfferInput):
		writeListingError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, settlement.ErrInvalidSplit),
		errors.Is(err, settlement.ErrArithmeticOverflow):
		writeListingError(w, http.StatusUnprocessableEntity, "settlement_error", err.Error())
	default:
		writeListingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeAuctionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		writeAuctionError(w, http.StatusNotFound, "auction_not_found", err.Error())
	case errors.Is(err, auctionerrors.ErrTicketNotFound):
		writeAuctionError(w, http.StatusNotFound, "ticket_not_found", err.Error())
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		writeAuctionError(w, http.StatusUnprocessableEntity, "bid_too_low", err.Error())
	case errors.Is(err, auctionerrors.ErrAuctionNotActive),
		errors.Is(err, auctionerrors.ErrAuctionNotYetEnded):
		writeAuctionError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, auctionerrors.ErrUnauthorized):
		writeAuctionError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeAuctionError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, ledger.ErrWrongQuantity),
		errors.Is(err, ledger.ErrVaultOccupied),
		errors.Is(err, ledger.ErrEmptyVault):
		writeAuctionError(w, http.StatusConflict, "escrow_conflict", err.Error())
	case errors.Is(err, auctionerrors.ErrInvalidAuctionInput):
		writeAuctionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, settlement.ErrInvalidSplit),
		errors.Is(err, settlement.ErrArithmeticOverflow):
		writeAuctionError(w, http.StatusUnprocessableEntity, "settlement_error", err.Error())
	default:
		writeAuctionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRoyaltyError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, royaltyhttp.ErrorResponse{Code: code, Message: message})
}

func writeListingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, listinghttp.ErrorResponse{Code: code, Message: message})
}

func writeAuctionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, auctionhttp.ErrorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package errors

import "errors"

var (
	ErrInvalidListingInput = errors.New("listing input is invalid")
	ErrInvalidOfferInput   = errors.New("offer input is invalid")
	ErrPriceExceedsCap     = errors.New("price exceeds maximum allowed by price cap")
	ErrListingNotActive    = errors.New("listing is not active")
	ErrListingExpired      = errors.New("listing has expired")
	ErrListingNotFound     = errors.New("listing not found")
	ErrUnauthorized        = errors.New("caller is not the listing seller")
	ErrOffersNotAllowed    = errors.New("listing does not accept offers")
	ErrOfferExpired        = errors.New("offer has expired")
	ErrOfferNotActive      = errors.New("offer is not active")
	ErrOfferNotFound       = errors.New("offer not found")
	ErrInsufficientFunds   = errors.New("insufficient funds for offer")
	ErrTicketNotFound      = errors.New("ticket metadata not found")
)

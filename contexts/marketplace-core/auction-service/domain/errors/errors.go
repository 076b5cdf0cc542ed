package errors

import "errors"

var (
	ErrInvalidAuctionInput = errors.New("invalid auction input")
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrAuctionNotActive    = errors.New("auction not active")
	ErrAuctionNotYetEnded  = errors.New("auction not yet ended")
	ErrBidTooLow           = errors.New("bid too low")
	ErrUnauthorized        = errors.New("caller not authorized")
	ErrTicketNotFound      = errors.New("ticket not found")
)

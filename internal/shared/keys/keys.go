package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Package keys derives deterministic storage and account identifiers from
// stable domain identifiers. A derived key is a reproducible lookup path,
// never an ownership claim: ownership lives in the entity's own seller or
// owner field and is checked on every mutating call.

// Derive hashes a namespace plus ordered identifier parts into a stable
// hex key. Any caller holding the same identifiers derives the same key.
func Derive(namespace string, ids ...string) string {
	h := sha256.New()
	h.Write([]byte(namespace))
	for _, id := range ids {
		// Length-prefix style separator so ("ab","c") and ("a","bc")
		// cannot collide.
		h.Write([]byte{0})
		h.Write([]byte(strings.TrimSpace(id)))
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

// ListingVault is the escrow vault holding the ticket of one listing.
func ListingVault(listingID string) string {
	return Derive("listing-vault", listingID)
}

// AuctionVault is the escrow vault holding the ticket of one auction.
func AuctionVault(auctionID string) string {
	return Derive("auction-vault", auctionID)
}

// AuctionEscrow is the ledger account holding the escrowed bid funds of
// one auction.
func AuctionEscrow(auctionID string) string {
	return Derive("auction-escrow", auctionID)
}

package settlement

import "errors"

// Basis points denominator: 10000 = 100%.
const BasisPointsTotal = 10000

var (
	// ErrInvalidSplit rejects royalty percentages that sum above 100%.
	ErrInvalidSplit = errors.New("royalty basis points exceed 10000")
	// ErrArithmeticOverflow covers any multiply or subtract that would
	// leave the uint64 range.
	ErrArithmeticOverflow = errors.New("settlement arithmetic overflow")
)

// Royalty is the split configuration a settlement is computed from.
// Wallet fields identify payees; basis-point fields size their shares.
type Royalty struct {
	ArtistWallet   string
	VenueWallet    string
	PlatformWallet string
	ArtistBP       uint16
	VenueBP        uint16
	PlatformBP     uint16
}

// Validate enforces the split invariant: the three royalty shares may not
// exceed the whole.
func (r Royalty) Validate() error {
	if uint32(r.ArtistBP)+uint32(r.VenueBP)+uint32(r.PlatformBP) > BasisPointsTotal {
		return ErrInvalidSplit
	}
	return nil
}

// Settlement is the exact division of one sale among the payees.
// ArtistShare + VenueShare + PlatformShare + SellerShare == Total always;
// the seller share absorbs the floor-division remainder.
type Settlement struct {
	Total         uint64
	ArtistShare   uint64
	VenueShare    uint64
	PlatformShare uint64
	SellerShare   uint64
}

// Split computes the royalty-bounded settlement for total against royalty.
// Each share is floor(total * bp / 10000) with overflow-checked
// multiplication.
func Split(total uint64, royalty Royalty) (Settlement, error) {
	if err := royalty.Validate(); err != nil {
		return Settlement{}, err
	}

	artist, err := share(total, royalty.ArtistBP)
	if err != nil {
		return Settlement{}, err
	}
	venue, err := share(total, royalty.VenueBP)
	if err != nil {
		return Settlement{}, err
	}
	platform, err := share(total, royalty.PlatformBP)
	if err != nil {
		return Settlement{}, err
	}

	// Each share is <= total and the bps sum to <= 10000, so the seller
	// remainder cannot underflow with a validated config. Check anyway.
	deducted := artist + venue + platform
	if deducted > total {
		return Settlement{}, ErrArithmeticOverflow
	}

	return Settlement{
		Total:         total,
		ArtistShare:   artist,
		VenueShare:    venue,
		PlatformShare: platform,
		SellerShare:   total - deducted,
	}, nil
}

// PriceCap computes originalPrice * multiplierBP / 10000, the resale
// ceiling for a listing.
func PriceCap(originalPrice uint64, multiplierBP uint16) (uint64, error) {
	product, err := checkedMul(originalPrice, uint64(multiplierBP))
	if err != nil {
		return 0, err
	}
	return product / BasisPointsTotal, nil
}

func share(total uint64, bp uint16) (uint64, error) {
	product, err := checkedMul(total, uint64(bp))
	if err != nil {
		return 0, err
	}
	return product / BasisPointsTotal, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrArithmeticOverflow
	}
	return product, nil
}

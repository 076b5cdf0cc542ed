package settlement

import (
	"errors"
	"math"
	"testing"
)

func TestSplitDistributesExactly(t *testing.T) {
	royalty := Royalty{ArtistBP: 1000, VenueBP: 500, PlatformBP: 100}

	result, err := Split(1000, royalty)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if result.ArtistShare != 100 {
		t.Fatalf("expected artist share 100, got %d", result.ArtistShare)
	}
	if result.VenueShare != 50 {
		t.Fatalf("expected venue share 50, got %d", result.VenueShare)
	}
	if result.PlatformShare != 10 {
		t.Fatalf("expected platform share 10, got %d", result.PlatformShare)
	}
	if result.SellerShare != 840 {
		t.Fatalf("expected seller share 840, got %d", result.SellerShare)
	}
	sum := result.ArtistShare + result.VenueShare + result.PlatformShare + result.SellerShare
	if sum != result.Total {
		t.Fatalf("shares sum to %d, want total %d", sum, result.Total)
	}
}

func TestSplitSellerAbsorbsRemainder(t *testing.T) {
	// 999 * 3333 / 10000 floors; the truncated cents land with the seller.
	result, err := Split(999, Royalty{ArtistBP: 3333, VenueBP: 3333, PlatformBP: 3333})
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	sum := result.ArtistShare + result.VenueShare + result.PlatformShare + result.SellerShare
	if sum != 999 {
		t.Fatalf("shares sum to %d, want 999", sum)
	}
	if result.SellerShare == 0 {
		t.Fatal("expected seller to keep the rounding remainder")
	}
}

func TestSplitRejectsOversizedConfig(t *testing.T) {
	_, err := Split(1000, Royalty{ArtistBP: 9000, VenueBP: 900, PlatformBP: 101})
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}

func TestSplitOverflows(t *testing.T) {
	_, err := Split(math.MaxUint64, Royalty{ArtistBP: 2})
	if !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestSplitZeroTotal(t *testing.T) {
	result, err := Split(0, Royalty{ArtistBP: 1000, VenueBP: 500, PlatformBP: 100})
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	if result.SellerShare != 0 || result.ArtistShare != 0 {
		t.Fatalf("expected all-zero settlement, got %+v", result)
	}
}

func TestPriceCap(t *testing.T) {
	cap, err := PriceCap(5_000_000_000, 20000)
	if err != nil {
		t.Fatalf("price cap failed: %v", err)
	}
	if cap != 10_000_000_000 {
		t.Fatalf("expected cap 10_000_000_000, got %d", cap)
	}
}

func TestPriceCapOverflow(t *testing.T) {
	_, err := PriceCap(math.MaxUint64/2, 20000)
	if !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

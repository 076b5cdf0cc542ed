package keys

import "testing"

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive("listing-vault", "collection-1", "ticket-9")
	b := Derive("listing-vault", "collection-1", "ticket-9")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestDeriveSeparatesNamespaces(t *testing.T) {
	if Derive("listing-vault", "x") == Derive("auction-vault", "x") {
		t.Fatal("expected different namespaces to derive different keys")
	}
}

func TestDeriveDoesNotCollideOnPartBoundaries(t *testing.T) {
	if Derive("v", "ab", "c") == Derive("v", "a", "bc") {
		t.Fatal("expected part boundaries to be collision-free")
	}
}

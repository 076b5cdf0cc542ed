package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestExecuteCommitsAllStagedEffects(t *testing.T) {
	l := New()
	l.Credit("buyer", 1000)
	l.Issue("ticket-1", "seller")

	err := l.Execute(context.Background(), func(tx *Tx) error {
		if err := tx.Pay("buyer", "seller", 400); err != nil {
			return err
		}
		return tx.Lock("ticket-1", "seller", "vault-1")
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if got := l.Balance("seller"); got != 400 {
		t.Fatalf("expected seller balance 400, got %d", got)
	}
	if holder, _ := l.Holder("ticket-1"); holder != "vault-1" {
		t.Fatalf("expected ticket in vault-1, got %q", holder)
	}
}

func TestExecuteDiscardsEverythingOnFailure(t *testing.T) {
	l := New()
	l.Credit("buyer", 100)
	l.Issue("ticket-1", "seller")

	err := l.Execute(context.Background(), func(tx *Tx) error {
		if err := tx.Pay("buyer", "seller", 100); err != nil {
			return err
		}
		// Second transfer exceeds the staged balance and must sink the
		// first one with it.
		return tx.Pay("buyer", "platform", 1)
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance("buyer"); got != 100 {
		t.Fatalf("expected buyer balance untouched at 100, got %d", got)
	}
	if got := l.Balance("seller"); got != 0 {
		t.Fatalf("expected seller balance untouched at 0, got %d", got)
	}
}

func TestLockRequiresExactHolder(t *testing.T) {
	l := New()
	l.Issue("ticket-1", "seller")

	err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Lock("ticket-1", "someone-else", "vault-1")
	})
	if !errors.Is(err, ErrWrongQuantity) {
		t.Fatalf("expected ErrWrongQuantity, got %v", err)
	}
}

func TestLockedUnitCannotBeLockedAgain(t *testing.T) {
	l := New()
	l.Issue("ticket-1", "seller")

	if err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Lock("ticket-1", "seller", "vault-1")
	}); err != nil {
		t.Fatalf("first lock failed: %v", err)
	}

	// The seller no longer holds the unit, so a second listing attempt
	// fails the holder check.
	err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Lock("ticket-1", "seller", "vault-2")
	})
	if !errors.Is(err, ErrWrongQuantity) {
		t.Fatalf("expected ErrWrongQuantity, got %v", err)
	}
}

func TestReleaseExactlyOnce(t *testing.T) {
	l := New()
	l.Issue("ticket-1", "seller")

	if err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Lock("ticket-1", "seller", "vault-1")
	}); err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Release("vault-1", "buyer")
	}); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if holder, _ := l.Holder("ticket-1"); holder != "buyer" {
		t.Fatalf("expected buyer custody, got %q", holder)
	}

	err := l.Execute(context.Background(), func(tx *Tx) error {
		return tx.Release("vault-1", "buyer")
	})
	if !errors.Is(err, ErrEmptyVault) {
		t.Fatalf("expected ErrEmptyVault on double release, got %v", err)
	}
}

func TestRefundThenDepositWithinOneUnit(t *testing.T) {
	// English auction outbid path: the escrow refunds the previous bidder
	// before accepting the new deposit, inside one unit of work.
	l := New()
	l.Credit("escrow", 150)
	l.Credit("bidder-b", 200)

	err := l.Execute(context.Background(), func(tx *Tx) error {
		if err := tx.Pay("escrow", "bidder-a", 150); err != nil {
			return err
		}
		return tx.Pay("bidder-b", "escrow", 200)
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if got := l.Balance("escrow"); got != 200 {
		t.Fatalf("expected escrow 200, got %d", got)
	}
	if got := l.Balance("bidder-a"); got != 150 {
		t.Fatalf("expected refunded bidder 150, got %d", got)
	}
}

package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// Package ledger is the in-process ledger substrate: account balances,
// unit custody, and single-unit escrow vaults, mutated only through an
// all-or-nothing unit of work. Services stage transfers and custody moves
// inside Execute; nothing is visible to other operations until the whole
// unit commits, and a failed step discards every staged effect.

var (
	// ErrInsufficientFunds rejects a transfer larger than the payer's
	// staged balance.
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")
	// ErrWrongQuantity rejects locking a unit its claimed holder does not
	// hold.
	ErrWrongQuantity = errors.New("holder does not hold exactly one unit")
	// ErrEmptyVault rejects releasing a vault that holds nothing,
	// including a second release of the same vault.
	ErrEmptyVault = errors.New("vault holds no unit")
	// ErrVaultOccupied rejects locking into a vault that already holds a
	// unit.
	ErrVaultOccupied = errors.New("vault already holds a unit")
)

type Ledger struct {
	mu       sync.Mutex
	balances map[string]uint64
	custody  map[string]string // unit -> holder (account or vault key)
	vaults   map[string]string // vault key -> held unit
}

func New() *Ledger {
	return &Ledger{
		balances: make(map[string]uint64),
		custody:  make(map[string]string),
		vaults:   make(map[string]string),
	}
}

// Credit funds an account outside any unit of work. Seeding only; business
// operations move funds through Tx.Pay.
func (l *Ledger) Credit(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[strings.TrimSpace(account)] += amount
}

// Issue places a freshly minted unit into holder's custody.
func (l *Ledger) Issue(unit string, holder string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.custody[strings.TrimSpace(unit)] = strings.TrimSpace(holder)
}

func (l *Ledger) Balance(account string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[strings.TrimSpace(account)]
}

// Holder reports which account or vault currently holds unit.
func (l *Ledger) Holder(unit string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	holder, ok := l.custody[strings.TrimSpace(unit)]
	return holder, ok
}

// Execute runs fn as one atomic unit. Every transfer, lock, and release fn
// stages commits together when fn returns nil, and is discarded entirely
// when fn returns an error. Units of work are serialized: two operations
// can never observe each other's partial effects.
func (l *Ledger) Execute(_ context.Context, fn func(tx *Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Tx{
		base:     l,
		balances: make(map[string]uint64),
		custody:  make(map[string]string),
		vaults:   make(map[string]string),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Tx stages ledger mutations against shadow state. All reads see staged
// writes first and fall through to committed state.
type Tx struct {
	base     *Ledger
	balances map[string]uint64
	custody  map[string]string
	vaults   map[string]string // staged "" means emptied
}

func (t *Tx) balance(account string) uint64 {
	if v, ok := t.balances[account]; ok {
		return v
	}
	return t.base.balances[account]
}

func (t *Tx) holder(unit string) (string, bool) {
	if v, ok := t.custody[unit]; ok {
		return v, v != ""
	}
	v, ok := t.base.custody[unit]
	return v, ok
}

func (t *Tx) vaultUnit(vault string) (string, bool) {
	if v, ok := t.vaults[vault]; ok {
		return v, v != ""
	}
	v, ok := t.base.vaults[vault]
	return v, ok
}

// Pay moves amount from one account to another. A zero amount is a no-op;
// callers skip zero shares at transfer time anyway.
func (t *Tx) Pay(from string, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if t.balance(from) < amount {
		return ErrInsufficientFunds
	}
	t.balances[from] = t.balance(from) - amount
	t.balances[to] = t.balance(to) + amount
	return nil
}

// Lock takes exclusive custody of unit from holder into vault.
func (t *Tx) Lock(unit string, from string, vault string) error {
	unit = strings.TrimSpace(unit)
	from = strings.TrimSpace(from)
	vault = strings.TrimSpace(vault)

	holder, ok := t.holder(unit)
	if !ok || holder != from {
		return ErrWrongQuantity
	}
	if _, occupied := t.vaultUnit(vault); occupied {
		return ErrVaultOccupied
	}
	t.custody[unit] = vault
	t.vaults[vault] = unit
	return nil
}

// Release moves the vault's unit to destination and empties the vault.
// A vault transitions locked to released exactly once.
func (t *Tx) Release(vault string, to string) error {
	vault = strings.TrimSpace(vault)
	to = strings.TrimSpace(to)

	unit, ok := t.vaultUnit(vault)
	if !ok {
		return ErrEmptyVault
	}
	t.custody[unit] = to
	t.vaults[vault] = ""
	return nil
}

func (t *Tx) commit() {
	for account, balance := range t.balances {
		t.base.balances[account] = balance
	}
	for unit, holder := range t.custody {
		t.base.custody[unit] = holder
	}
	for vault, unit := range t.vaults {
		if unit == "" {
			delete(t.base.vaults, vault)
			continue
		}
		t.base.vaults[vault] = unit
	}
}

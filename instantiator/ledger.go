// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantiator

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/luxfi/covenant/types"
)

// ErrInsufficientBalance is returned by Ledger.Move when the source
// account does not hold enough of the denom being moved.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is the in-memory multi-account, multi-denom balance sheet that
// backs local/devnet wiring and tests, generalized from
// dex/pool_manager.go's StateDB.GetBalance/AddBalance single-native-asset
// account model to the covenant graph's many denoms. Accounts are keyed
// by types.Receiver (a plain string) rather than types.Principal so the
// same ledger can hold both local agent accounts (keyed by
// Principal.Hex()) and opaque remote receivers reached through a
// Forwarder, without a separate bridging map.
type Ledger struct {
	mu       sync.Mutex
	balances map[types.Receiver]map[types.Denom]*big.Int
}

// NewLedger builds an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[types.Receiver]map[types.Denom]*big.Int)}
}

func (l *Ledger) balanceLocked(account types.Receiver, denom types.Denom) *big.Int {
	accts, ok := l.balances[account]
	if !ok {
		return big.NewInt(0)
	}
	v, ok := accts[denom]
	if !ok {
		return big.NewInt(0)
	}
	return v
}

// Balance reports account's current holding of denom.
func (l *Ledger) Balance(account types.Receiver, denom types.Denom) types.Amount {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.balanceLocked(account, denom))
}

// Credit adds amount of denom to account, creating the account if absent.
func (l *Ledger) Credit(account types.Receiver, denom types.Denom, amount types.Amount) {
	l.mu.Lock()
	defer l.mu.Unlock()
	accts, ok := l.balances[account]
	if !ok {
		accts = make(map[types.Denom]*big.Int)
		l.balances[account] = accts
	}
	cur := accts[denom]
	if cur == nil {
		cur = big.NewInt(0)
	}
	accts[denom] = new(big.Int).Add(cur, amount)
}

// Debit removes amount of denom from account, failing rather than
// going negative.
func (l *Ledger) Debit(account types.Receiver, denom types.Denom, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	cur := l.balanceLocked(account, denom)
	if cur.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s has %s, needs %s of %s", ErrInsufficientBalance, account, cur, amount, denom)
	}
	l.balances[account][denom] = new(big.Int).Sub(cur, amount)
	return nil
}

// Move debits amount of denom from from and credits it to to - the
// atomic settlement of one types.BankSend against this ledger.
func (l *Ledger) Move(from, to types.Receiver, denom types.Denom, amount types.Amount) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if err := l.Debit(from, denom, amount); err != nil {
		return err
	}
	l.Credit(to, denom, amount)
	return nil
}

// AccountView is a Ledger handle scoped to a single account, satisfying
// every agent's BalanceReader interface (holder, pooler, router all
// declare the identical Balance(ctx, denom) shape).
type AccountView struct {
	ledger  *Ledger
	account types.Receiver
}

// ViewFor returns an AccountView scoped to principal's local account.
func (l *Ledger) ViewFor(principal types.Principal) *AccountView {
	return &AccountView{ledger: l, account: types.Receiver(principal.Hex())}
}

// Balance implements every agent package's BalanceReader.
func (v *AccountView) Balance(ctx types.Ctx, denom types.Denom) (types.Amount, error) {
	return v.ledger.Balance(v.account, denom), nil
}

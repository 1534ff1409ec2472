// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"sync"

	"github.com/luxfi/covenant/split"
	"github.com/luxfi/covenant/types"
)

// Splitter converts one incoming remote denom into per-agent shares.
// It reads its own local balance of the configured denom each tick and
// emits BankSend messages per its split.Config.
type Splitter struct {
	mu        sync.Mutex
	address   types.Principal
	clockAddr types.Principal
	denom     types.Denom
	cfg       split.Config
	balances  BalanceReader
}

// NewSplitter builds a Splitter for one denom.
func NewSplitter(address, clockAddr types.Principal, denom types.Denom, cfg split.Config, balances BalanceReader) (*Splitter, error) {
	if err := split.ValidateShares(cfg); err != nil {
		return nil, err
	}
	return &Splitter{address: address, clockAddr: clockAddr, denom: denom, cfg: cfg, balances: balances}, nil
}

func (s *Splitter) Address() types.Principal { return s.address }

// DepositAddress is where the Splitter receives its incoming denom.
func (s *Splitter) DepositAddress() types.Principal { return s.address }

// Tick reads the current local balance and emits the split's transfer
// messages. A zero balance is a no-op, not a failure, so repeated ticks
// stay idempotent.
func (s *Splitter) Tick(ctx types.Ctx) ([]types.BankSend, uint64, error) {
	if ctx.Caller != s.clockAddr {
		return nil, 0, ErrNotClock
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bal, err := s.balances.Balance(ctx, s.denom)
	if err != nil {
		return nil, 0, err
	}
	if bal == nil || bal.Sign() <= 0 {
		return nil, 0, nil
	}
	sends, err := split.TransferMessages(s.cfg, bal, s.denom, nil)
	if err != nil {
		return nil, 0, err
	}
	return sends, 0, nil
}

// NativeSplitter is the same-chain counterpart of Splitter: it skips
// the remote-account leg entirely and applies its split.Config
// directly against local balances, per the original Rust
// native-splitter contract.
type NativeSplitter struct {
	*Splitter
}

// NewNativeSplitter builds a NativeSplitter - identical wiring to
// Splitter, since the only behavioral difference from the interchain
// Splitter is upstream (no remote leg feeds it), not in its own tick
// logic.
func NewNativeSplitter(address, clockAddr types.Principal, denom types.Denom, cfg split.Config, balances BalanceReader) (*NativeSplitter, error) {
	s, err := NewSplitter(address, clockAddr, denom, cfg, balances)
	if err != nil {
		return nil, err
	}
	return &NativeSplitter{Splitter: s}, nil
}

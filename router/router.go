// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package router

import (
	"sync"

	"github.com/luxfi/covenant/types"
)

// Router is a terminal, local payout address: it receives funds routed
// for one party and forwards every configured denom on to that party's
// final receiver on each tick, holding nothing back.
type Router struct {
	mu        sync.Mutex
	address   types.Principal
	clockAddr types.Principal
	final     types.Receiver
	denoms    []types.Denom
	balances  BalanceReader
}

// NewRouter builds a Router that forwards balances of denoms to final.
func NewRouter(address, clockAddr types.Principal, final types.Receiver, denoms []types.Denom, balances BalanceReader) *Router {
	return &Router{
		address:   address,
		clockAddr: clockAddr,
		final:     final,
		denoms:    append([]types.Denom(nil), denoms...),
		balances:  balances,
	}
}

func (r *Router) Address() types.Principal        { return r.address }
func (r *Router) DepositAddress() types.Principal { return r.address }

// Tick forwards every positive balance of r's configured denoms to the
// final receiver. A tick with nothing to forward is a no-op.
func (r *Router) Tick(ctx types.Ctx) ([]types.BankSend, error) {
	if ctx.Caller != r.clockAddr {
		return nil, ErrNotClock
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var sends []types.BankSend
	for _, denom := range r.denoms {
		bal, err := r.balances.Balance(ctx, denom)
		if err != nil {
			return nil, err
		}
		if bal == nil || bal.Sign() <= 0 {
			continue
		}
		sends = append(sends, types.BankSend{Receiver: r.final, Denom: denom, Amount: bal})
	}
	return sends, nil
}

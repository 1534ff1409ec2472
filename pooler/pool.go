// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pooler implements the liquid pooler: the agent that turns
// on-hand balances of two configured denoms into AMM liquidity,
// preferring double-sided provision and falling back to single-sided
// within configured caps. The external AMM is modeled as the Pool
// interface, a reserve-and-position bookkeeping shape generalized from
// concentrated ticks down to a simple (A, B) constant-ratio reserve pair.
package pooler

import (
	"errors"

	"github.com/luxfi/covenant/types"
)

// PairType identifies which two denoms a pool trades, checked against
// the pooler's own configured pair before every provision.
type PairType struct {
	DenomA types.Denom
	DenomB types.Denom
}

// Pool is the external AMM surface the Liquid Pooler depends on.
type Pool interface {
	Pair() PairType
	Reserves() (a, b types.Amount, err error)
	ProvideLiquidity(ctx types.Ctx, receiver types.Principal, amountA, amountB types.Amount, slippageBps uint32) error
	WithdrawLiquidity(ctx types.Ctx, receiver types.Principal, lpAmount types.Amount) (a, b types.Amount, err error)
	LPBalance(owner types.Principal) (types.Amount, error)
}

// BalanceReader reads the pooler's own on-hand balance of denom.
type BalanceReader interface {
	Balance(ctx types.Ctx, denom types.Denom) (types.Amount, error)
}

var (
	ErrPairTypeMismatch  = errors.New("pool pair type does not match configured pair")
	ErrNoProvisionNeeded = errors.New("both balances are zero, awaiting funding")
)

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pooler

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/covenant/types"
)

// ProvidedLiquidityInfo is the pooler's running, monotone-until-
// withdrawal tally of what it has contributed to the AMM position.
type ProvidedLiquidityInfo struct {
	ProvidedA types.Amount
	ProvidedB types.Amount
}

// SingleSideLPLimits caps how much of either denom may be provided
// single-sided in one tick.
type SingleSideLPLimits struct {
	A types.Amount
	B types.Amount
}

var (
	ErrNotClock          = types.ErrNotClock
	ErrNotHolder         = errors.New("caller is not the holder")
	ErrAMMWithdrawFailed = errors.New("amm withdraw failed")
)

// LiquidPooler converts the pooler's own on-hand balances of two
// configured denoms into AMM liquidity, one tick at a time.
type LiquidPooler struct {
	mu sync.Mutex

	address    types.Principal
	clockAddr  types.Principal
	holderAddr types.Principal

	pair        PairType
	ratioRange  types.DecimalRange
	singleLimit SingleSideLPLimits
	slippageBps uint32

	pool     Pool
	balances BalanceReader

	provided ProvidedLiquidityInfo
}

// NewLiquidPooler builds a LiquidPooler wired to one external pool.
func NewLiquidPooler(
	address, clockAddr, holderAddr types.Principal,
	pair PairType,
	ratioRange types.DecimalRange,
	singleLimit SingleSideLPLimits,
	slippageBps uint32,
	pool Pool,
	balances BalanceReader,
) *LiquidPooler {
	return &LiquidPooler{
		address:     address,
		clockAddr:   clockAddr,
		holderAddr:  holderAddr,
		pair:        pair,
		ratioRange:  ratioRange,
		singleLimit: singleLimit,
		slippageBps: slippageBps,
		pool:        pool,
		balances:    balances,
		provided: ProvidedLiquidityInfo{
			ProvidedA: big.NewInt(0),
			ProvidedB: big.NewInt(0),
		},
	}
}

func (p *LiquidPooler) Address() types.Principal { return p.address }

// ProvidedLiquidity returns a copy of the running contribution tally.
func (p *LiquidPooler) ProvidedLiquidity() ProvidedLiquidityInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProvidedLiquidityInfo{
		ProvidedA: new(big.Int).Set(p.provided.ProvidedA),
		ProvidedB: new(big.Int).Set(p.provided.ProvidedB),
	}
}

// Tick runs the per-tick provisioning algorithm: check the pair,
// check the pool ratio is within range, read self-balances, and
// dispatch on which of the two balances are present.
func (p *LiquidPooler) Tick(ctx types.Ctx) error {
	if ctx.Caller != p.clockAddr {
		return ErrNotClock
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pool.Pair() != p.pair {
		return ErrPairTypeMismatch
	}

	reserveA, reserveB, err := p.pool.Reserves()
	if err != nil {
		return err
	}
	ratio, err := ratioOf(reserveA, reserveB)
	if err != nil {
		return err
	}
	if !p.ratioRange.Contains(ratio) {
		return types.ErrPriceRangeError
	}

	ca, err := p.balances.Balance(ctx, p.pair.DenomA)
	if err != nil {
		return err
	}
	cb, err := p.balances.Balance(ctx, p.pair.DenomB)
	if err != nil {
		return err
	}

	switch {
	case ca.Sign() != 0 && cb.Sign() != 0:
		return p.provideDoubleSided(ctx, ratio, reserveA, reserveB, ca, cb)
	case ca.Sign() == 0 && cb.Sign() != 0:
		return p.provideSingleSided(ctx, cb, p.singleLimit.B, false)
	case cb.Sign() == 0 && ca.Sign() != 0:
		return p.provideSingleSided(ctx, ca, p.singleLimit.A, true)
	default:
		return ErrNoProvisionNeeded
	}
}

// ratioOf computes a/b as a Rational, failing on a zero denominator.
func ratioOf(a, b types.Amount) (types.Rational, error) {
	if b.Sign() == 0 {
		return types.Rational{}, types.ErrDivideByZero
	}
	ra := types.NewRationalFromScaled(new(big.Int).Mul(a, types.Scale))
	rb := types.NewRationalFromScaled(new(big.Int).Mul(b, types.Scale))
	return ra.Div(rb)
}

// provideDoubleSided implements need_a = ratio * cb; if ca covers it,
// provide (need_a, cb); otherwise provide (ca, (B/A) * ca).
func (p *LiquidPooler) provideDoubleSided(ctx types.Ctx, ratio types.Rational, reserveA, reserveB, ca, cb types.Amount) error {
	needA, err := ratio.MulAmount(cb)
	if err != nil {
		return err
	}

	var amountA, amountB types.Amount
	if ca.Cmp(needA) >= 0 {
		amountA, amountB = needA, cb
	} else {
		ratioInv, err := ratioOf(reserveB, reserveA)
		if err != nil {
			return err
		}
		amountB, err = ratioInv.MulAmount(ca)
		if err != nil {
			return err
		}
		amountA = ca
	}

	if err := p.pool.ProvideLiquidity(ctx, p.holderAddr, amountA, amountB, p.slippageBps); err != nil {
		return nil // non-fatal: retried next tick
	}
	p.provided.ProvidedA = new(big.Int).Add(p.provided.ProvidedA, amountA)
	p.provided.ProvidedB = new(big.Int).Add(p.provided.ProvidedB, amountB)
	return nil
}

// provideSingleSided provides have entirely to one side of the pool,
// as long as it does not exceed the configured cap for that side.
func (p *LiquidPooler) provideSingleSided(ctx types.Ctx, have, limit types.Amount, isA bool) error {
	if have.Cmp(limit) > 0 {
		return nil // over cap: no-op, retried next tick
	}
	amountA, amountB := big.NewInt(0), have
	if isA {
		amountA, amountB = have, big.NewInt(0)
	}
	if err := p.pool.ProvideLiquidity(ctx, p.holderAddr, amountA, amountB, p.slippageBps); err != nil {
		return nil
	}
	if isA {
		p.provided.ProvidedA = new(big.Int).Add(p.provided.ProvidedA, have)
	} else {
		p.provided.ProvidedB = new(big.Int).Add(p.provided.ProvidedB, have)
	}
	return nil
}

// WithdrawResult carries the coins an AMM withdrawal yielded, to be
// routed into the Holder's Distribute entry point by the caller.
type WithdrawResult struct {
	CoinA types.Coin
	CoinB types.Coin
}

// Withdraw burns floor(lp_balance * percentage) LP tokens (the whole
// balance if percentage is nil) and reports the resulting coins. On AMM
// failure it returns ErrAMMWithdrawFailed; the caller routes that into
// the Holder's WithdrawFailed entry point rather than Distribute.
func (p *LiquidPooler) Withdraw(ctx types.Ctx, percentage *types.Rational) (WithdrawResult, error) {
	if ctx.Caller != p.holderAddr {
		return WithdrawResult{}, ErrNotHolder
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	lpBalance, err := p.pool.LPBalance(p.holderAddr)
	if err != nil {
		return WithdrawResult{}, err
	}
	burnAmount := lpBalance
	if percentage != nil {
		burnAmount, err = percentage.MulAmount(lpBalance)
		if err != nil {
			return WithdrawResult{}, err
		}
	}

	a, b, err := p.pool.WithdrawLiquidity(ctx, p.holderAddr, burnAmount)
	if err != nil {
		return WithdrawResult{}, ErrAMMWithdrawFailed
	}
	return WithdrawResult{
		CoinA: types.NewCoin(p.pair.DenomA, a),
		CoinB: types.NewCoin(p.pair.DenomB, b),
	}, nil
}

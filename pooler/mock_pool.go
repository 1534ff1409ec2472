// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pooler

import (
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/covenant/types"
)

// MockPool is an in-memory reference AMM used by tests and by
// devnet/local wiring: a map-of-pools-plus-mutex store collapsed from
// concentrated ticks down to a single constant-ratio reserve pair.
type MockPool struct {
	mu sync.Mutex

	pair       PairType
	reserveA   *big.Int
	reserveB   *big.Int
	lpSupply   *big.Int
	lpBalances map[types.Principal]*big.Int

	failProvide  bool
	failWithdraw bool
}

var ErrMockPoolFailure = errors.New("mock pool induced failure")

// NewMockPool builds a MockPool seeded with the given reserves.
func NewMockPool(pair PairType, reserveA, reserveB *big.Int) *MockPool {
	return &MockPool{
		pair:       pair,
		reserveA:   new(big.Int).Set(reserveA),
		reserveB:   new(big.Int).Set(reserveB),
		lpSupply:   big.NewInt(0),
		lpBalances: make(map[types.Principal]*big.Int),
	}
}

// SetFailProvide forces the next ProvideLiquidity call to fail.
func (m *MockPool) SetFailProvide(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failProvide = fail
}

// SetFailWithdraw forces the next WithdrawLiquidity call to fail.
func (m *MockPool) SetFailWithdraw(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWithdraw = fail
}

func (m *MockPool) Pair() PairType { return m.pair }

func (m *MockPool) Reserves() (*big.Int, *big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.reserveA), new(big.Int).Set(m.reserveB), nil
}

// ProvideLiquidity adds both amounts to the reserves and mints
// amountA+amountB LP tokens to receiver, whatever the existing reserves
// or LP supply. slippageBps is not checked.
func (m *MockPool) ProvideLiquidity(ctx types.Ctx, receiver types.Principal, amountA, amountB *big.Int, slippageBps uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failProvide {
		m.failProvide = false
		return ErrMockPoolFailure
	}
	minted := new(big.Int).Add(amountA, amountB)
	m.reserveA.Add(m.reserveA, amountA)
	m.reserveB.Add(m.reserveB, amountB)
	m.lpSupply.Add(m.lpSupply, minted)
	bal, ok := m.lpBalances[receiver]
	if !ok {
		bal = big.NewInt(0)
		m.lpBalances[receiver] = bal
	}
	bal.Add(bal, minted)
	return nil
}

func (m *MockPool) WithdrawLiquidity(ctx types.Ctx, receiver types.Principal, lpAmount *big.Int) (*big.Int, *big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWithdraw {
		m.failWithdraw = false
		return nil, nil, ErrMockPoolFailure
	}
	bal, ok := m.lpBalances[receiver]
	if !ok || bal.Cmp(lpAmount) < 0 {
		return nil, nil, errors.New("insufficient lp balance")
	}
	if m.lpSupply.Sign() == 0 {
		return big.NewInt(0), big.NewInt(0), nil
	}
	outA := new(big.Int).Div(new(big.Int).Mul(m.reserveA, lpAmount), m.lpSupply)
	outB := new(big.Int).Div(new(big.Int).Mul(m.reserveB, lpAmount), m.lpSupply)
	m.reserveA.Sub(m.reserveA, outA)
	m.reserveB.Sub(m.reserveB, outB)
	m.lpSupply.Sub(m.lpSupply, lpAmount)
	bal.Sub(bal, lpAmount)
	return outA, outB, nil
}

func (m *MockPool) LPBalance(owner types.Principal) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.lpBalances[owner]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(bal), nil
}

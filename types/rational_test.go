// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"math/big"
	"testing"
)

func TestRationalFromFraction(t *testing.T) {
	half, err := NewRationalFromFraction(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if half.String() != "0.500000000000000000" {
		t.Fatalf("expected 0.5, got %s", half.String())
	}

	if _, err := NewRationalFromFraction(1, 0); err != ErrDivideByZero {
		t.Fatalf("expected ErrDivideByZero, got %v", err)
	}
}

func TestRationalAddSubOneZero(t *testing.T) {
	half, _ := NewRationalFromFraction(1, 2)
	sum := half.Add(half)
	if !sum.IsOne() {
		t.Fatalf("expected 0.5+0.5 == 1, got %s", sum.String())
	}

	zero, err := sum.Sub(One())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !zero.IsZero() {
		t.Fatalf("expected 1-1 == 0, got %s", zero.String())
	}

	if _, err := Zero().Sub(One()); err != ErrNegativeResult {
		t.Fatalf("expected ErrNegativeResult, got %v", err)
	}
}

func TestRationalMulAmountRoundsTowardZero(t *testing.T) {
	third, _ := NewRationalFromFraction(1, 3)
	amount := big.NewInt(10)
	got, err := third.MulAmount(amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10/3 = 3.33.., floors to 3.
	if got.Cmp(big.NewInt(3)) != 0 {
		t.Fatalf("expected 3, got %s", got.String())
	}
}

func TestRationalMulOverflow(t *testing.T) {
	huge := NewRationalFromScaled(new(big.Int).Lsh(big.NewInt(1), 255))
	if _, err := huge.Mul(huge); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestRationalDivRoundTrip(t *testing.T) {
	a, _ := NewRationalFromFraction(3, 1)
	b, _ := NewRationalFromFraction(4, 1)
	ratio, err := a.Div(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expect, _ := NewRationalFromFraction(3, 4)
	if ratio.Cmp(expect) != 0 {
		t.Fatalf("expected 0.75, got %s", ratio.String())
	}
}

func TestDecimalRangeFromSpread(t *testing.T) {
	mid, _ := NewRationalFromFraction(1, 1)
	spread, _ := NewRationalFromFraction(5, 100)
	rng, err := NewDecimalRangeFromSpread(mid, spread)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inRange, _ := NewRationalFromFraction(103, 100)
	if !rng.Contains(inRange) {
		t.Fatalf("expected 1.03 within [0.95,1.05]")
	}
	outOfRange, _ := NewRationalFromFraction(112, 100)
	if rng.Contains(outOfRange) {
		t.Fatalf("expected 1.12 outside [0.95,1.05]")
	}
}

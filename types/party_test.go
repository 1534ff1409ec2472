// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"math/big"
	"testing"

	"github.com/luxfi/geth/common"
)

func newTestParty(principalByte byte, allocNum, allocDen int64) Party {
	alloc, _ := NewRationalFromFraction(allocNum, allocDen)
	var principal common.Address
	principal[19] = principalByte
	return Party{
		Principal:  principal,
		Receiver:   Receiver("receiver"),
		Router:     Receiver("router"),
		Denom:      Denom("uatom"),
		Amount:     big.NewInt(500),
		Allocation: alloc,
	}
}

func TestCovenantConfigValidate(t *testing.T) {
	cfg := CovenantConfig{
		PartyA: newTestParty(1, 1, 2),
		PartyB: newTestParty(2, 1, 2),
		Type:   CovenantShare,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := cfg
	bad.PartyB = newTestParty(2, 1, 3)
	if err := bad.Validate(); err != ErrAllocationsDoNotSumToOne {
		t.Fatalf("expected ErrAllocationsDoNotSumToOne, got %v", err)
	}
}

func TestCovenantConfigRejectsCoincidentParties(t *testing.T) {
	partyA := newTestParty(1, 1, 2)
	partyB := newTestParty(1, 1, 2)
	cfg := CovenantConfig{PartyA: partyA, PartyB: partyB, Type: CovenantShare}
	if err := cfg.Validate(); err != ErrInvalidConfig {
		t.Fatalf("expected ErrInvalidConfig for coincident parties, got %v", err)
	}
}

func TestNewSinglePartyConfig(t *testing.T) {
	party := newTestParty(1, 1, 1)
	cfg := NewSinglePartyConfig(party, CovenantSide)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.IsSinglePartySide(cfg.PartyB) {
		t.Fatal("expected party B to be the degenerate single-party side")
	}
}

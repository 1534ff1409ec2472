// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"errors"
	"math/big"

	"github.com/luxfi/geth/common"
)

// Principal is the authenticated caller identity checked by every
// execute entry point. It is the same 20-byte address type the whole
// retrieval pack uses for "chain account".
type Principal = common.Address

// Receiver is a payout destination. It may be a local Principal-shaped
// address or an opaque remote (e.g. IBC bech32) string - no encoding is
// prescribed, so Receiver stays a plain string and callers compare it
// for equality, never parse it here.
type Receiver string

// Denom identifies a fungible asset by its local or remote denom
// string (e.g. "uatom", an IBC hash denom, or an ERC20 address's hex
// string).
type Denom string

// Party is one side of a covenant.
type Party struct {
	Principal  Principal // authenticated principal (local)
	Receiver   Receiver  // receiver address (local or remote)
	Router     Receiver  // router address for payouts
	Denom      Denom     // contribution denom
	Amount     Amount    // contribution amount
	Allocation Rational  // current allocation share, in [0,1]
}

// Amount is a non-negative token amount, carried as *big.Int - the same
// type the dex/bridge packages use for balances - and never let go
// negative.
type Amount = *big.Int

// CovenantType selects how the Holder distributes proceeds.
type CovenantType uint8

const (
	// CovenantShare distributes by each party's allocation on claim.
	CovenantShare CovenantType = iota
	// CovenantSide treats the position as co-owned, distributing every
	// denom according to fixed per-denom splits regardless of claimer.
	CovenantSide
)

func (t CovenantType) String() string {
	switch t {
	case CovenantShare:
		return "share"
	case CovenantSide:
		return "side"
	default:
		return "unknown"
	}
}

// CovenantConfig is the two-party agreement shape.
type CovenantConfig struct {
	PartyA Party
	PartyB Party
	Type   CovenantType
}

var (
	ErrAllocationsDoNotSumToOne = errors.New("party allocations do not sum to one")
	ErrInvalidConfig            = errors.New("invalid covenant config")
)

// Validate checks the allocation-conservation invariant: the two
// parties' allocations sum to exactly one. A single-party covenant is
// represented by PartyB carrying a zero Allocation and a zero Amount,
// in which case PartyA must hold the whole allocation.
func (c CovenantConfig) Validate() error {
	sum := c.PartyA.Allocation.Add(c.PartyB.Allocation)
	if !sum.IsOne() {
		return ErrAllocationsDoNotSumToOne
	}
	if c.PartyA.Principal == c.PartyB.Principal {
		return ErrInvalidConfig
	}
	return nil
}

// IsSinglePartySide reports whether p is the degenerate "absent" party
// of single-party covenant mode.
func (c CovenantConfig) IsSinglePartySide(p Party) bool {
	return p.Router == "" && p.Allocation.IsZero()
}

// NewSinglePartyConfig builds a CovenantConfig whose second party has a
// zero contribution and allocation, so Holder logic treats it as
// already-claimed from the start. PartyB.Amount is the zero big.Int
// (never nil) so any accidental arithmetic against it fails loudly with
// a comparison rather than a nil-pointer panic; Holder's deposit and
// refund paths additionally skip PartyB outright via IsSinglePartySide.
func NewSinglePartyConfig(party Party, covenantType CovenantType) CovenantConfig {
	party.Allocation = One()
	return CovenantConfig{
		PartyA: party,
		PartyB: Party{Allocation: Zero(), Amount: big.NewInt(0)},
		Type:   covenantType,
	}
}

// Ctx carries the authenticated caller and the current logical time for
// a single atomic entry-point invocation.
type Ctx struct {
	Caller Principal
	Height uint64
	Time   int64
}

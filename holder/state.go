// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package holder implements the two-party position-of-liquidity state
// machine: it gates deposits until both parties fund, enforces lockup,
// honors ragequit and emergency withdrawal, and distributes proceeds.
// The persist-before-act / correlate-on-callback discipline for the
// in-flight Pooler withdrawal follows an audit-record idiom: record the
// intent before acting, so a duplicate or late callback can be detected
// by its absence. The vault position bookkeeping shape (one struct
// behind one mutex, share-weighted payout) follows the same convention.
package holder

import "github.com/luxfi/covenant/types"

// State is the Holder's lifecycle, a tagged sum type rather than a
// string enum so an exhaustive switch is checked at review time.
type State uint8

const (
	Instantiated State = iota
	Active
	Expired
	Ragequit
	Complete
)

func (s State) String() string {
	switch s {
	case Instantiated:
		return "instantiated"
	case Active:
		return "active"
	case Expired:
		return "expired"
	case Ragequit:
		return "ragequit"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// WithdrawKind discriminates the three shapes an in-flight Pooler
// withdrawal can take. WithdrawNone means no withdrawal is in flight.
type WithdrawKind uint8

const (
	WithdrawNone WithdrawKind = iota
	WithdrawProcessing
	WithdrawProcessingRagequit
	WithdrawEmergency
)

// WithdrawState is the transient correlation record persisted before
// the outbound Pooler withdraw request and matched against the inbound
// Distribute/WithdrawFailed callback. At most one is ever in flight per
// holder. IntendedPercentage mirrors the percentage sent in the
// WithdrawRequest itself (nil for a full withdrawal), kept here too so
// the in-flight request is fully reconstructable from persisted state
// alone, not just from what the caller remembers to pass back.
type WithdrawState struct {
	Kind               WithdrawKind
	Claimer            types.Principal
	IntendedPercentage *types.Rational
}

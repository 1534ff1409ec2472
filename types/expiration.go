// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

// ExpirationKind discriminates the three ways a deadline can be
// expressed. It is a tagged sum type, not a string enum, so an
// exhaustive switch over it is caught by `go vet`'s unreachable-case
// analysis during review.
type ExpirationKind uint8

const (
	Never ExpirationKind = iota
	AtHeight
	AtTime
)

// Expiration is one of {Never, AtHeight(h), AtTime(t)}.
type Expiration struct {
	Kind   ExpirationKind
	Height uint64
	Time   int64
}

// NeverExpires is the zero-value Never expiration.
func NeverExpires() Expiration { return Expiration{Kind: Never} }

// NewAtHeight builds an AtHeight(h) expiration.
func NewAtHeight(h uint64) Expiration { return Expiration{Kind: AtHeight, Height: h} }

// NewAtTime builds an AtTime(t) expiration.
func NewAtTime(t int64) Expiration { return Expiration{Kind: AtTime, Time: t} }

// IsExpired reports whether ctx's current height/time has passed e.
// Never never expires.
func (e Expiration) IsExpired(ctx Ctx) bool {
	switch e.Kind {
	case Never:
		return false
	case AtHeight:
		return ctx.Height >= e.Height
	case AtTime:
		return ctx.Time >= e.Time
	default:
		return false
	}
}

var (
	ErrDepositDeadlineValidation = errors.New("deposit deadline validation error")
	ErrLockupValidation          = errors.New("lockup validation error")
	ErrExpirationValidation      = errors.New("expiration validation error")
)

// before reports whether e strictly precedes other, treating Never as
// "latest possible": every bounded expiration precedes Never, and Never
// precedes nothing (not even another Never).
func (e Expiration) before(other Expiration) bool {
	if other.Kind == Never {
		return e.Kind != Never
	}
	if e.Kind == Never {
		return false
	}
	// Mixed height/time comparisons are only meaningful if both sides
	// use the same kind; a covenant's deposit deadline and lockup must
	// share a kind when both are bounded.
	if e.Kind != other.Kind {
		return false
	}
	if e.Kind == AtHeight {
		return e.Height < other.Height
	}
	return e.Time < other.Time
}

// ValidateDepositBeforeLockup enforces that the deposit deadline
// strictly precedes the lockup expiration, whenever both are bounded.
func ValidateDepositBeforeLockup(deadline, lockup Expiration) error {
	if deadline.Kind == Never || lockup.Kind == Never {
		return nil
	}
	if !deadline.before(lockup) {
		return ErrDepositDeadlineValidation
	}
	return nil
}

// RagequitConfig is Disabled or Enabled{penalty}.
type RagequitConfig struct {
	Enabled bool
	Penalty Rational
}

// RagequitDisabled is the zero-value disabled ragequit configuration.
func RagequitDisabled() RagequitConfig { return RagequitConfig{Enabled: false} }

// NewRagequitEnabled builds an enabled config, validating that penalty
// is strictly less than the smaller of the two parties' allocations.
func NewRagequitEnabled(penalty Rational, partyA, partyB Rational) (RagequitConfig, error) {
	min := partyA
	if partyB.Cmp(min) < 0 {
		min = partyB
	}
	if penalty.Cmp(min) >= 0 {
		return RagequitConfig{}, ErrRagequitPenaltyOutOfRange
	}
	return RagequitConfig{Enabled: true, Penalty: penalty}, nil
}

var ErrRagequitPenaltyOutOfRange = errors.New("ragequit penalty out of range")

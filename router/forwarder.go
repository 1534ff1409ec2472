// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package router implements the Forwarder/Router/Splitter external
// collaborators: agents that move typed denoms between local and
// remote accounts with at-least-once delivery and idempotent retry on
// transport timeout. The status/nonce/deadline bookkeeping generalizes
// a multi-chain signed bridge gateway down to a single opaque "remote
// funds mover".
package router

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/covenant/types"
)

// TransferStatus tracks one outbound remote transfer.
type TransferStatus uint8

const (
	StatusPending TransferStatus = iota
	StatusInFlight
	StatusCompleted
	StatusFailed
	StatusTimedOut
)

func (s TransferStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInFlight:
		return "in_flight"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// TransferRequest is one forwarding attempt, keyed by a nonce so
// repeated ticks against the same funds are idempotent.
type TransferRequest struct {
	Nonce    uint64
	Denom    types.Denom
	Amount   types.Amount
	Dest     types.Receiver
	Deadline int64
	Status   TransferStatus
	Attempts uint32
}

// RemoteMover is the opaque remote funds mover: cross-chain account
// establishment and IBC transfer plumbing live entirely outside this
// repo. Send is fire-and-forget; the mover reports outcome
// asynchronously through ReportResult.
type RemoteMover interface {
	Send(ctx types.Ctx, req TransferRequest) error
}

// BalanceReader reads the Forwarder's local on-hand balance of denom.
type BalanceReader interface {
	Balance(ctx types.Ctx, denom types.Denom) (types.Amount, error)
}

var (
	ErrNoMover          = errors.New("no remote mover configured")
	ErrTransferNotFound = errors.New("transfer request not found")
	ErrAlreadySettled   = errors.New("transfer request already settled")
	ErrNotClock         = types.ErrNotClock
)

// Forwarder moves one configured denom from a local account to a
// remote destination, retrying on timeout.
type Forwarder struct {
	mu          sync.Mutex
	address     types.Principal
	clockAddr   types.Principal
	denom       types.Denom
	dest        types.Receiver
	mover       RemoteMover
	balances    BalanceReader
	timeoutSecs int64

	nextNonce uint64
	pending   map[uint64]*TransferRequest
}

// NewForwarder builds a Forwarder for one denom/destination pair.
func NewForwarder(address, clockAddr types.Principal, denom types.Denom, dest types.Receiver, mover RemoteMover, balances BalanceReader, timeoutSecs int64) *Forwarder {
	return &Forwarder{
		address:     address,
		clockAddr:   clockAddr,
		denom:       denom,
		dest:        dest,
		mover:       mover,
		balances:    balances,
		timeoutSecs: timeoutSecs,
		pending:     make(map[uint64]*TransferRequest),
	}
}

// Address identifies the Forwarder as a Clock subscriber.
func (f *Forwarder) Address() types.Principal { return f.address }

// DepositAddress returns the address to which the preceding pipeline
// stage should send funds - here, the Forwarder's own local account.
func (f *Forwarder) DepositAddress() types.Principal { return f.address }

// Tick advances the Forwarder's own state: it re-checks in-flight
// transfers for timeout, then attempts to move any newly-available
// local balance. Idempotent under repeated ticks.
func (f *Forwarder) Tick(ctx types.Ctx) (uint64, error) {
	if ctx.Caller != f.clockAddr {
		return 0, ErrNotClock
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, req := range f.pending {
		if req.Status == StatusInFlight && req.Deadline != 0 && ctx.Time >= req.Deadline {
			req.Status = StatusTimedOut
		}
	}

	if f.hasInFlightLocked() {
		return 0, nil // an attempt against this balance is already outstanding
	}

	bal, err := f.balances.Balance(ctx, f.denom)
	if err != nil {
		return 0, err
	}
	if bal == nil || bal.Sign() <= 0 {
		return 0, nil
	}
	if f.mover == nil {
		return 0, ErrNoMover
	}

	nonce := f.nextNonce
	f.nextNonce++
	req := &TransferRequest{
		Nonce:    nonce,
		Denom:    f.denom,
		Amount:   bal,
		Dest:     f.dest,
		Status:   StatusInFlight,
		Attempts: 1,
	}
	if f.timeoutSecs > 0 {
		req.Deadline = ctx.Time + f.timeoutSecs
	}
	if err := f.mover.Send(ctx, *req); err != nil {
		req.Status = StatusFailed
		f.pending[nonce] = req
		return 0, nil // external failure is recovered locally, retried next tick
	}
	f.pending[nonce] = req
	return 0, nil
}

// hasInFlightLocked reports whether a transfer is already outstanding,
// the guard that keeps Tick idempotent under repeated invocation: a
// balance that hasn't yet left locally (because no debit happens until
// the mover reports success) must not mint a second transfer for the
// same funds while the first is still in flight. Caller must hold mu.
func (f *Forwarder) hasInFlightLocked() bool {
	for _, req := range f.pending {
		if req.Status == StatusInFlight {
			return true
		}
	}
	return false
}

// ReportResult is the typed callback from the RemoteMover reporting
// completion, failure, or timeout for a previously-sent transfer.
// Retries are driven by the next Tick re-attempting any Failed or
// TimedOut request's underlying balance (the funds never left locally
// until Completed).
func (f *Forwarder) ReportResult(nonce uint64, status TransferStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	req, ok := f.pending[nonce]
	if !ok {
		return fmt.Errorf("%w: nonce=%d", ErrTransferNotFound, nonce)
	}
	if req.Status == StatusCompleted {
		return ErrAlreadySettled
	}
	req.Status = status
	return nil
}

// PendingCount reports the number of unsettled transfer requests, used
// by tests and operational tooling.
func (f *Forwarder) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, req := range f.pending {
		if req.Status != StatusCompleted {
			n++
		}
	}
	return n
}

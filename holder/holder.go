// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package holder

import (
	"sync"

	"github.com/luxfi/covenant/split"
	"github.com/luxfi/covenant/types"
)

// BalanceReader reads the holder's own on-hand balance of denom.
type BalanceReader interface {
	Balance(ctx types.Ctx, denom types.Denom) (types.Amount, error)
}

// WithdrawRequest is what the Holder asks the Pooler to withdraw:
// Percentage nil means the whole position.
type WithdrawRequest struct {
	Percentage *types.Rational
}

// Holder is the two-party position-of-liquidity state machine.
type Holder struct {
	mu sync.Mutex

	address    types.Principal
	clockAddr  types.Principal
	poolerAddr types.Principal

	config             types.CovenantConfig
	lockup             types.Expiration
	depositDeadline    types.Expiration
	ragequit           types.RagequitConfig
	denomSplits        split.DenomSplits
	emergencyCommittee *types.Principal

	balances BalanceReader

	state    State
	withdraw WithdrawState
}

// Config bundles the construction-time parameters of a Holder.
type Config struct {
	Address            types.Principal
	ClockAddr          types.Principal
	PoolerAddr         types.Principal
	Covenant           types.CovenantConfig
	Lockup             types.Expiration
	DepositDeadline    types.Expiration
	Ragequit           types.RagequitConfig
	DenomSplits        split.DenomSplits
	EmergencyCommittee *types.Principal
	Balances           BalanceReader
}

// NewHolder validates cfg and builds a Holder in the Instantiated state.
func NewHolder(cfg Config) (*Holder, error) {
	if err := cfg.Covenant.Validate(); err != nil {
		return nil, err
	}
	if err := types.ValidateDepositBeforeLockup(cfg.DepositDeadline, cfg.Lockup); err != nil {
		return nil, err
	}
	if err := cfg.DenomSplits.Validate(cfg.Covenant.PartyA.Router, cfg.Covenant.PartyB.Router); err != nil {
		return nil, err
	}
	return &Holder{
		address:            cfg.Address,
		clockAddr:          cfg.ClockAddr,
		poolerAddr:         cfg.PoolerAddr,
		config:             cfg.Covenant,
		lockup:             cfg.Lockup,
		depositDeadline:    cfg.DepositDeadline,
		ragequit:           cfg.Ragequit,
		denomSplits:        cfg.DenomSplits,
		emergencyCommittee: cfg.EmergencyCommittee,
		balances:           cfg.Balances,
		state:              Instantiated,
	}, nil
}

func (h *Holder) Address() types.Principal { return h.address }

// State reports the holder's current lifecycle state.
func (h *Holder) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// partyPtr returns the Party matching principal, or nil.
func (h *Holder) partyPtr(principal types.Principal) *types.Party {
	switch principal {
	case h.config.PartyA.Principal:
		return &h.config.PartyA
	case h.config.PartyB.Principal:
		return &h.config.PartyB
	default:
		return nil
	}
}

// counterpartyPtr returns the Party not matching principal.
func (h *Holder) counterpartyPtr(principal types.Principal) *types.Party {
	if principal == h.config.PartyA.Principal {
		return &h.config.PartyB
	}
	return &h.config.PartyA
}

// Tick advances deposit gating and lockup expiry.
func (h *Holder) Tick(ctx types.Ctx) ([]types.BankSend, error) {
	if ctx.Caller != h.clockAddr {
		return nil, ErrNotClock
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case Instantiated:
		return h.tickInstantiated(ctx)
	case Active:
		if h.lockup.IsExpired(ctx) {
			h.state = Expired
		}
		return nil, nil
	default:
		return nil, nil // Expired, Ragequit, Complete: idempotent no-op
	}
}

func (h *Holder) tickInstantiated(ctx types.Ctx) ([]types.BankSend, error) {
	if h.depositDeadline.IsExpired(ctx) {
		h.state = Complete
		return h.refundMessages(ctx)
	}

	balA, err := h.balances.Balance(ctx, h.config.PartyA.Denom)
	if err != nil {
		return nil, err
	}
	if balA.Cmp(h.config.PartyA.Amount) < 0 {
		return nil, ErrInsufficientDeposits
	}

	// Single-party mode: PartyB is the degenerate absent party (no
	// Router, no Denom, zero Allocation) - there is no second
	// contribution to gate on or forward.
	if h.config.IsSinglePartySide(h.config.PartyB) {
		h.state = Active
		return []types.BankSend{
			{Receiver: types.Receiver(h.poolerAddr.Hex()), Denom: h.config.PartyA.Denom, Amount: balA},
		}, nil
	}

	balB, err := h.balances.Balance(ctx, h.config.PartyB.Denom)
	if err != nil {
		return nil, err
	}
	if balB.Cmp(h.config.PartyB.Amount) < 0 {
		return nil, ErrInsufficientDeposits
	}

	h.state = Active
	return []types.BankSend{
		{Receiver: types.Receiver(h.poolerAddr.Hex()), Denom: h.config.PartyA.Denom, Amount: balA},
		{Receiver: types.Receiver(h.poolerAddr.Hex()), Denom: h.config.PartyB.Denom, Amount: balB},
	}, nil
}

func (h *Holder) refundMessages(ctx types.Ctx) ([]types.BankSend, error) {
	var sends []types.BankSend
	balA, err := h.balances.Balance(ctx, h.config.PartyA.Denom)
	if err != nil {
		return nil, err
	}
	if balA.Sign() > 0 {
		sends = append(sends, types.BankSend{Receiver: h.config.PartyA.Router, Denom: h.config.PartyA.Denom, Amount: balA})
	}
	if h.config.IsSinglePartySide(h.config.PartyB) {
		return sends, nil
	}
	balB, err := h.balances.Balance(ctx, h.config.PartyB.Denom)
	if err != nil {
		return nil, err
	}
	if balB.Sign() > 0 {
		sends = append(sends, types.BankSend{Receiver: h.config.PartyB.Router, Denom: h.config.PartyB.Denom, Amount: balB})
	}
	return sends, nil
}

// Claim is called by either party once the holder is Expired or in
// Ragequit, requesting the pooler withdraw their share. A nil request
// with a nil error means the position was already fully claimed and
// the holder short-circuited straight to Complete.
func (h *Holder) Claim(ctx types.Ctx) (*WithdrawRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	party := h.partyPtr(ctx.Caller)
	if party == nil {
		return nil, ErrUnauthorized
	}
	if h.state != Expired && h.state != Ragequit {
		return nil, ErrNotActive
	}
	if h.withdraw.Kind != WithdrawNone {
		return nil, ErrWithdrawAlreadyStarted
	}

	if h.config.PartyA.Allocation.IsZero() && h.config.PartyB.Allocation.IsZero() {
		h.state = Complete
		return nil, nil
	}

	var percentage *types.Rational
	if h.config.Type == types.CovenantShare {
		p := party.Allocation
		percentage = &p
	}
	h.withdraw = WithdrawState{Kind: WithdrawProcessing, Claimer: ctx.Caller, IntendedPercentage: percentage}
	return &WithdrawRequest{Percentage: percentage}, nil
}

// Ragequit is called by either party while Active and before lockup.
func (h *Holder) Ragequit(ctx types.Ctx) (*WithdrawRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	party := h.partyPtr(ctx.Caller)
	if party == nil {
		return nil, ErrUnauthorized
	}
	if h.state == Expired || (h.state == Active && h.lockup.IsExpired(ctx)) {
		return nil, ErrExpired
	}
	if h.state != Active {
		return nil, ErrNotActive
	}
	if !h.ragequit.Enabled {
		return nil, ErrRagequitDisabled
	}
	if h.withdraw.Kind != WithdrawNone {
		return nil, ErrWithdrawAlreadyStarted
	}

	var percentage *types.Rational
	if h.config.Type == types.CovenantShare {
		p, err := party.Allocation.Sub(h.ragequit.Penalty)
		if err != nil {
			return nil, err
		}
		percentage = &p
	}

	h.state = Ragequit
	h.withdraw = WithdrawState{Kind: WithdrawProcessingRagequit, Claimer: ctx.Caller, IntendedPercentage: percentage}
	return &WithdrawRequest{Percentage: percentage}, nil
}

// EmergencyWithdraw is callable only by the configured emergency
// committee, at any lifecycle state, requesting a full withdrawal.
func (h *Holder) EmergencyWithdraw(ctx types.Ctx) (*WithdrawRequest, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.emergencyCommittee == nil {
		return nil, ErrNoEmergencyCommittee
	}
	if ctx.Caller != *h.emergencyCommittee {
		return nil, ErrUnauthorized
	}
	if h.withdraw.Kind != WithdrawNone {
		return nil, ErrWithdrawAlreadyStarted
	}

	h.withdraw = WithdrawState{Kind: WithdrawEmergency, Claimer: ctx.Caller, IntendedPercentage: nil}
	return &WithdrawRequest{Percentage: nil}, nil
}

// Distribute is the Pooler's callback reporting the coins a withdrawal
// yielded. It branches on the in-flight WithdrawState.
func (h *Holder) Distribute(ctx types.Ctx, coinA, coinB types.Coin) ([]types.BankSend, error) {
	if ctx.Caller != h.poolerAddr {
		return nil, ErrUnauthorized
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.withdraw.Kind == WithdrawNone {
		return nil, ErrWithdrawStateNotStarted
	}
	kind := h.withdraw.Kind
	claimer := h.withdraw.Claimer
	h.withdraw = WithdrawState{}

	switch kind {
	case WithdrawProcessing:
		return h.distributeProcessing(claimer, coinA, coinB)
	case WithdrawProcessingRagequit:
		if err := h.applyRagequitPenalty(claimer); err != nil {
			return nil, err
		}
		return h.distributeProcessing(claimer, coinA, coinB)
	case WithdrawEmergency:
		return h.distributeSide(coinA, coinB)
	default:
		return nil, ErrWithdrawStateNotStarted
	}
}

func (h *Holder) distributeProcessing(claimer types.Principal, coinA, coinB types.Coin) ([]types.BankSend, error) {
	if h.config.Type == types.CovenantSide {
		sends, err := h.distributeSide(coinA, coinB)
		if err != nil {
			return nil, err
		}
		return sends, nil
	}

	claimerParty := h.partyPtr(claimer)
	other := h.counterpartyPtr(claimer)

	sends := split.SingleReceiverDistributionMessages(coinA.Denom, coinA.Amount, claimerParty.Router)
	sends = append(sends, split.SingleReceiverDistributionMessages(coinB.Denom, coinB.Amount, claimerParty.Router)...)

	claimerParty.Allocation = types.Zero()
	if !other.Allocation.IsZero() {
		other.Allocation = types.One()
	} else {
		h.state = Complete
	}
	return sends, nil
}

func (h *Holder) distributeSide(coinA, coinB types.Coin) ([]types.BankSend, error) {
	var sends []types.BankSend
	for _, coin := range []types.Coin{coinA, coinB} {
		cfg, ok := h.denomSplits.Get(coin.Denom)
		if !ok {
			continue
		}
		out, err := split.TransferMessages(cfg, coin.Amount, coin.Denom, nil)
		if err != nil {
			return nil, err
		}
		sends = append(sends, out...)
	}
	h.config.PartyA.Allocation = types.Zero()
	h.config.PartyB.Allocation = types.Zero()
	h.state = Complete
	return sends, nil
}

// applyRagequitPenalty moves penalty share from the ragequitting
// claimer's router to the counterparty's router in every persisted
// denom split, per the ragequit penalty algebra.
func (h *Holder) applyRagequitPenalty(claimer types.Principal) error {
	claimerParty := h.partyPtr(claimer)
	other := h.counterpartyPtr(claimer)

	for denom, cfg := range h.denomSplits.Explicit {
		updated, err := split.ApplyRagequitPenalty(cfg, claimerParty.Router, other.Router, h.ragequit.Penalty)
		if err != nil {
			return err
		}
		h.denomSplits.Explicit[denom] = updated
	}
	if h.denomSplits.Fallback != nil {
		updated, err := split.ApplyRagequitPenalty(*h.denomSplits.Fallback, claimerParty.Router, other.Router, h.ragequit.Penalty)
		if err != nil {
			return err
		}
		h.denomSplits.Fallback = &updated
	}
	return nil
}

// WithdrawFailed is the Pooler's callback reporting that the AMM
// withdrawal itself failed. It clears WithdrawState without penalizing
// anyone, allowing the claim/ragequit/emergency-withdraw to be retried.
func (h *Holder) WithdrawFailed(ctx types.Ctx) error {
	if ctx.Caller != h.poolerAddr {
		return ErrUnauthorized
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.withdraw.Kind == WithdrawNone {
		return ErrWithdrawStateNotStarted
	}
	h.withdraw = WithdrawState{}
	return nil
}

// DistributeFallbackSplit sends the current balances of denoms not
// covered by an explicit split through the fallback split. Any denom
// present in the explicit map is rejected.
func (h *Holder) DistributeFallbackSplit(ctx types.Ctx, denoms []types.Denom) ([]types.BankSend, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, denom := range denoms {
		if h.denomSplits.IsExplicit(denom) {
			return nil, ErrUnauthorizedDenomDistribution
		}
	}
	if h.denomSplits.Fallback == nil {
		return nil, nil
	}
	var sends []types.BankSend
	for _, denom := range denoms {
		bal, err := h.balances.Balance(ctx, denom)
		if err != nil {
			return nil, err
		}
		if bal.Sign() == 0 {
			continue
		}
		out, err := split.TransferMessages(*h.denomSplits.Fallback, bal, denom, nil)
		if err != nil {
			return nil, err
		}
		sends = append(sends, out...)
	}
	return sends, nil
}

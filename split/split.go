// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package split implements the denom -> receiver-share configuration
// used by the splitter, router and holder distribution paths. Shares
// are 18-decimal fixed-point Rationals and every multiplication that
// feeds a token amount is checked, mirroring the basis-point fee math
// in dex/lending.go and dex/margin.go.
package split

import (
	"errors"
	"fmt"

	"github.com/luxfi/covenant/types"
)

var (
	ErrSplitMisconfig                = errors.New("split shares do not sum to one")
	ErrReceiverNotParty              = errors.New("split receiver is not a party router")
	ErrReceiverMissing               = errors.New("remap source receiver not found in split")
	ErrUnauthorizedDenomDistribution = errors.New("denom is governed by an explicit split")
)

// Config is a denom-keyed mapping from receiver to rational share,
// summing to exactly one.
type Config struct {
	Shares map[types.Receiver]types.Rational
}

// NewConfig builds a Config from a receiver->share map, performing no
// validation - callers must call ValidateShares before persisting it.
func NewConfig(shares map[types.Receiver]types.Rational) Config {
	cp := make(map[types.Receiver]types.Rational, len(shares))
	for k, v := range shares {
		cp[k] = v
	}
	return Config{Shares: cp}
}

// ValidateShares requires the shares to sum to exactly one, with no
// tolerance for rounding slack.
func ValidateShares(cfg Config) error {
	sum := types.Zero()
	for _, share := range cfg.Shares {
		sum = sum.Add(share)
	}
	if !sum.IsOne() {
		return ErrSplitMisconfig
	}
	return nil
}

// Validate additionally requires both party routers to be keys of cfg,
// and that every receiver referenced in cfg is one of the two party
// routers: receivers must stay a subset of {party_a.router, party_b.router}.
// A blank partyBRouter means a single-party covenant's absent second
// party: its membership is not required, and no receiver may claim it.
func Validate(cfg Config, partyARouter, partyBRouter types.Receiver) error {
	if err := ValidateShares(cfg); err != nil {
		return err
	}
	if _, ok := cfg.Shares[partyARouter]; !ok {
		return fmt.Errorf("%w: %s", ErrReceiverNotParty, partyARouter)
	}
	if partyBRouter != "" {
		if _, ok := cfg.Shares[partyBRouter]; !ok {
			return fmt.Errorf("%w: %s", ErrReceiverNotParty, partyBRouter)
		}
	}
	for receiver := range cfg.Shares {
		if receiver != partyARouter && (receiver != partyBRouter || partyBRouter == "") {
			return fmt.Errorf("%w: %s", ErrReceiverNotParty, receiver)
		}
	}
	return nil
}

// TransferMessages computes the BankSend messages to distribute amount
// of denom per cfg. If filter is non-nil, only that receiver is paid
// (its effective share is treated as one); receivers whose effective
// share is zero are skipped entirely.
func TransferMessages(cfg Config, amount types.Amount, denom types.Denom, filter *types.Receiver) ([]types.BankSend, error) {
	var sends []types.BankSend

	if filter != nil {
		share, ok := cfg.Shares[*filter]
		if !ok || share.IsZero() {
			return nil, nil
		}
		sends = append(sends, types.BankSend{Receiver: *filter, Denom: denom, Amount: amount})
		return sends, nil
	}

	for receiver, share := range cfg.Shares {
		if share.IsZero() {
			continue
		}
		out, err := share.MulAmount(amount)
		if err != nil {
			return nil, err
		}
		if out.Sign() == 0 {
			continue
		}
		sends = append(sends, types.BankSend{Receiver: receiver, Denom: denom, Amount: out})
	}
	return sends, nil
}

// SingleReceiverDistributionMessages mirrors the original contract's
// get_single_receiver_distribution_messages: pay exactly one receiver
// the full amount, ignoring its configured share, used by Holder's
// Share-mode claim distribution.
func SingleReceiverDistributionMessages(denom types.Denom, amount types.Amount, receiver types.Receiver) []types.BankSend {
	return []types.BankSend{{Receiver: receiver, Denom: denom, Amount: amount}}
}

// RemapReceivers returns a new Config with every key in pairs replaced
// by its mapped value. It fails if any source key is missing from cfg -
// a remap target must already exist in the split being migrated.
func RemapReceivers(cfg Config, pairs map[types.Receiver]types.Receiver) (Config, error) {
	out := make(map[types.Receiver]types.Rational, len(cfg.Shares))
	for receiver, share := range cfg.Shares {
		out[receiver] = share
	}
	for from, to := range pairs {
		share, ok := out[from]
		if !ok {
			return Config{}, fmt.Errorf("%w: %s", ErrReceiverMissing, from)
		}
		delete(out, from)
		out[to] = share
	}
	return Config{Shares: out}, nil
}

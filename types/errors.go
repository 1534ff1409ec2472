// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import "errors"

// Authorization errors shared by every agent's execute entry points.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotClock     = errors.New("caller is not the clock")
)

// BankSend is the one concrete outbound effect every agent emits: move
// amount of denom to receiver. Agents never transfer funds directly
// against a shared ledger reference - they only ever return the
// ordered list of sends an external executor must apply atomically
// alongside the state mutation that produced them.
type BankSend struct {
	Receiver Receiver
	Denom    Denom
	Amount   Amount
}

// Coin pairs a denom with an amount, used wherever a balance or a
// distribution total is reported back to a caller.
type Coin struct {
	Denom  Denom
	Amount Amount
}

func NewCoin(denom Denom, amount Amount) Coin { return Coin{Denom: denom, Amount: amount} }

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package holder

import "errors"

var (
	ErrNotClock                      = errors.New("caller is not the clock")
	ErrUnauthorized                  = errors.New("unauthorized")
	ErrNotActive                     = errors.New("holder is not in a state that permits this action")
	ErrExpired                       = errors.New("lockup has already passed")
	ErrRagequitDisabled              = errors.New("ragequit is disabled for this covenant")
	ErrInsufficientDeposits          = errors.New("insufficient deposits to activate")
	ErrWithdrawAlreadyStarted        = errors.New("a withdrawal is already in flight")
	ErrWithdrawStateNotStarted       = errors.New("no withdrawal is in flight")
	ErrUnauthorizedDenomDistribution = errors.New("denom is governed by an explicit split")
	ErrNoEmergencyCommittee          = errors.New("no emergency committee configured")
)

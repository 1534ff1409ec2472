// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantiator

import (
	"errors"
	"math/big"

	"github.com/luxfi/covenant/clock"
	"github.com/luxfi/covenant/pooler"
	"github.com/luxfi/covenant/router"
	"github.com/luxfi/covenant/split"
	"github.com/luxfi/covenant/types"
)

// ConfigKey names this config in the same json-config-file sense as
// dex.ConfigKey ("dexConfig") - a stable key a host assembling several
// precompile-shaped configs from one file would key this one under.
const ConfigKey = "covenantConfig"

// ForwarderLeg configures one party's optional cross-chain leg. A nil
// Mover means the party is paid directly without an intervening
// Forwarder.
type ForwarderLeg struct {
	Denom       types.Denom
	Dest        types.Receiver
	Mover       router.RemoteMover
	TimeoutSecs int64
}

// PoolConfig selects between wiring an external AMM implementation or
// having the Instantiator build a reference pooler.MockPool seeded with
// InitialReserveA/B - the "local/devnet wiring" SPEC_FULL.md names.
type PoolConfig struct {
	Pair             pooler.PairType
	External         pooler.Pool // non-nil: use this pool as-is
	InitialReserveA  *big.Int    // used only when External == nil
	InitialReserveB  *big.Int
	RatioRange       types.DecimalRange
	SingleSideLimits pooler.SingleSideLPLimits
	SlippageBps      uint32
}

// Config bundles every construction-time parameter of one covenant
// instance - the shape dex.Config bundles for one precompile instance.
type Config struct {
	Creator types.Principal
	Salt    []byte

	Covenant        types.CovenantConfig
	Lockup          types.Expiration
	DepositDeadline types.Expiration
	Ragequit        types.RagequitConfig
	DenomSplits     split.DenomSplits

	EmergencyCommittee *types.Principal

	Pool PoolConfig

	ClockTickMaxGas uint64

	ForwarderA ForwarderLeg
	ForwarderB ForwarderLeg

	RouterFinalReceiver types.Receiver
	RouterDenoms        []types.Denom

	SplitterDenom types.Denom
	SplitterCfg   *split.Config

	NativeSplitterDenom types.Denom
	NativeSplitterCfg   *split.Config
}

func (c *Config) Key() string { return ConfigKey }

var (
	ErrMissingCreator = errors.New("instantiator: missing creator")
	ErrMissingSalt    = errors.New("instantiator: missing salt")
	ErrMissingPool    = errors.New("instantiator: missing pool reserves or external pool")
)

// validate checks the fields Configure cannot recover from before any
// address is derived or any agent is built. Sub-config validation
// (covenant allocation sums, split shares, ragequit bounds) is left to
// the agent constructors themselves, which already enforce it.
func (c *Config) validate() error {
	var zero types.Principal
	if c.Creator == zero {
		return ErrMissingCreator
	}
	if len(c.Salt) == 0 {
		return ErrMissingSalt
	}
	if c.Pool.External == nil && (c.Pool.InitialReserveA == nil || c.Pool.InitialReserveB == nil) {
		return ErrMissingPool
	}
	return nil
}

// defaultTickMaxGas mirrors clock.DefaultTickMaxGas for callers that
// leave ClockTickMaxGas unset.
const defaultTickMaxGas = clock.DefaultTickMaxGas

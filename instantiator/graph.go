// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instantiator

import (
	"github.com/luxfi/covenant/clock"
	"github.com/luxfi/covenant/holder"
	"github.com/luxfi/covenant/pooler"
	"github.com/luxfi/covenant/router"
	"github.com/luxfi/covenant/types"
)

// messageTick is the Tick signature shared by Holder and Router: it
// returns outbound settlement messages alongside an error.
type messageTick func(ctx types.Ctx) ([]types.BankSend, error)

// messageAgent adapts a message-returning Tick into clock.Subscriber by
// settling every returned types.BankSend against the shared Ledger
// before reporting gas/error back to the Clock - this is the "external
// executor" SPEC_FULL.md's concurrency model assigns the job of
// applying messages atomically alongside the state mutation that
// produced them.
type messageAgent struct {
	addr   types.Principal
	ledger *Ledger
	tick   messageTick
}

func (a *messageAgent) Address() types.Principal { return a.addr }

func (a *messageAgent) Tick(ctx types.Ctx) (uint64, error) {
	sends, err := a.tick(ctx)
	if err != nil {
		return 0, err
	}
	from := types.Receiver(a.addr.Hex())
	for _, send := range sends {
		if err := a.ledger.Move(from, send.Receiver, send.Denom, send.Amount); err != nil {
			return 0, err
		}
	}
	return 0, nil
}

// silentAgent adapts a Tick that produces no BankSend messages (the
// Liquid Pooler settles directly against its external Pool collaborator,
// never through the ledger) into clock.Subscriber.
type silentAgent struct {
	addr types.Principal
	tick func(types.Ctx) error
}

func (a *silentAgent) Address() types.Principal { return a.addr }

func (a *silentAgent) Tick(ctx types.Ctx) (uint64, error) {
	if err := a.tick(ctx); err != nil {
		return 0, err
	}
	return 0, nil
}

// Graph is one fully wired covenant instance: every agent plus the
// addresses it was assigned and the shared Ledger/Pool it settles
// against.
type Graph struct {
	Ledger *Ledger
	Clock  *clock.Clock
	Holder *holder.Holder
	Pooler *pooler.LiquidPooler
	Pool   pooler.Pool
	Router *router.Router

	ForwarderA *router.Forwarder
	ForwarderB *router.Forwarder

	Splitter       *router.Splitter
	NativeSplitter *router.NativeSplitter

	HolderAddr, PoolerAddr, ClockAddr, RouterAddr types.Principal
	ForwarderAAddr, ForwarderBAddr                types.Principal
	SplitterAddr, NativeSplitterAddr              types.Principal
}

// Configurator builds a Graph from a Config, the instantiator's
// counterpart to dex.Configurator's MakeConfig/Configure pair.
type Configurator struct{}

// MakeConfig returns a zero-value Config ready for a caller to fill in,
// mirroring dex.configurator.MakeConfig.
func (Configurator) MakeConfig() *Config { return new(Config) }

// Configure validates cfg, derives every agent address, and constructs
// the wired Graph. No agent address is ever assigned after
// construction - the whole graph is addressable before any agent
// "exists", resolving the cyclic Holder<->Pooler<->Clock address
// dependency.
func (Configurator) Configure(cfg *Config) (*Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	holderAddr := deriveAddress(cfg.Creator, cfg.Salt, roleHolder)
	poolerAddr := deriveAddress(cfg.Creator, cfg.Salt, rolePooler)
	clockAddr := deriveAddress(cfg.Creator, cfg.Salt, roleClock)
	routerAddr := deriveAddress(cfg.Creator, cfg.Salt, roleRouter)

	ledger := NewLedger()

	pool := cfg.Pool.External
	if pool == nil {
		pool = pooler.NewMockPool(cfg.Pool.Pair, cfg.Pool.InitialReserveA, cfg.Pool.InitialReserveB)
	}

	lp := pooler.NewLiquidPooler(poolerAddr, clockAddr, holderAddr, cfg.Pool.Pair,
		cfg.Pool.RatioRange, cfg.Pool.SingleSideLimits, cfg.Pool.SlippageBps, pool, ledger.ViewFor(poolerAddr))

	h, err := holder.NewHolder(holder.Config{
		Address:            holderAddr,
		ClockAddr:          clockAddr,
		PoolerAddr:         poolerAddr,
		Covenant:           cfg.Covenant,
		Lockup:             cfg.Lockup,
		DepositDeadline:    cfg.DepositDeadline,
		Ragequit:           cfg.Ragequit,
		DenomSplits:        cfg.DenomSplits,
		EmergencyCommittee: cfg.EmergencyCommittee,
		Balances:           ledger.ViewFor(holderAddr),
	})
	if err != nil {
		return nil, err
	}

	rtr := router.NewRouter(routerAddr, clockAddr, cfg.RouterFinalReceiver, cfg.RouterDenoms, ledger.ViewFor(routerAddr))

	g := &Graph{
		Ledger:     ledger,
		Pool:       pool,
		Holder:     h,
		Pooler:     lp,
		Router:     rtr,
		HolderAddr: holderAddr,
		PoolerAddr: poolerAddr,
		ClockAddr:  clockAddr,
		RouterAddr: routerAddr,
	}

	whitelist := []types.Principal{holderAddr, poolerAddr, routerAddr}

	if cfg.ForwarderA.Mover != nil {
		addr := deriveAddress(cfg.Creator, cfg.Salt, forwarderRole(0))
		g.ForwarderA = router.NewForwarder(addr, clockAddr, cfg.ForwarderA.Denom, cfg.ForwarderA.Dest,
			cfg.ForwarderA.Mover, ledger.ViewFor(addr), cfg.ForwarderA.TimeoutSecs)
		g.ForwarderAAddr = addr
		whitelist = append(whitelist, addr)
	}
	if cfg.ForwarderB.Mover != nil {
		addr := deriveAddress(cfg.Creator, cfg.Salt, forwarderRole(1))
		g.ForwarderB = router.NewForwarder(addr, clockAddr, cfg.ForwarderB.Denom, cfg.ForwarderB.Dest,
			cfg.ForwarderB.Mover, ledger.ViewFor(addr), cfg.ForwarderB.TimeoutSecs)
		g.ForwarderBAddr = addr
		whitelist = append(whitelist, addr)
	}
	if cfg.SplitterCfg != nil {
		addr := deriveAddress(cfg.Creator, cfg.Salt, roleSplitter)
		s, err := router.NewSplitter(addr, clockAddr, cfg.SplitterDenom, *cfg.SplitterCfg, ledger.ViewFor(addr))
		if err != nil {
			return nil, err
		}
		g.Splitter = s
		g.SplitterAddr = addr
		whitelist = append(whitelist, addr)
	}
	if cfg.NativeSplitterCfg != nil {
		addr := deriveAddress(cfg.Creator, cfg.Salt, roleNativeSplitter)
		s, err := router.NewNativeSplitter(addr, clockAddr, cfg.NativeSplitterDenom, *cfg.NativeSplitterCfg, ledger.ViewFor(addr))
		if err != nil {
			return nil, err
		}
		g.NativeSplitter = s
		g.NativeSplitterAddr = addr
		whitelist = append(whitelist, addr)
	}

	tickMaxGas := cfg.ClockTickMaxGas
	if tickMaxGas == 0 {
		tickMaxGas = defaultTickMaxGas
	}
	c := clock.New(whitelist, tickMaxGas)

	if err := c.Enqueue(&messageAgent{addr: holderAddr, ledger: ledger, tick: h.Tick}); err != nil {
		return nil, err
	}
	if err := c.Enqueue(&silentAgent{addr: poolerAddr, tick: lp.Tick}); err != nil {
		return nil, err
	}
	if err := c.Enqueue(&messageAgent{addr: routerAddr, ledger: ledger, tick: rtr.Tick}); err != nil {
		return nil, err
	}
	if g.ForwarderA != nil {
		if err := c.Enqueue(g.ForwarderA); err != nil {
			return nil, err
		}
	}
	if g.ForwarderB != nil {
		if err := c.Enqueue(g.ForwarderB); err != nil {
			return nil, err
		}
	}
	if g.Splitter != nil {
		splitter := g.Splitter
		tick := func(ctx types.Ctx) ([]types.BankSend, error) {
			sends, _, err := splitter.Tick(ctx)
			return sends, err
		}
		if err := c.Enqueue(&messageAgent{addr: g.SplitterAddr, ledger: ledger, tick: tick}); err != nil {
			return nil, err
		}
	}
	if g.NativeSplitter != nil {
		native := g.NativeSplitter
		tick := func(ctx types.Ctx) ([]types.BankSend, error) {
			sends, _, err := native.Tick(ctx)
			return sends, err
		}
		if err := c.Enqueue(&messageAgent{addr: g.NativeSplitterAddr, ledger: ledger, tick: tick}); err != nil {
			return nil, err
		}
	}

	g.Clock = c
	return g, nil
}

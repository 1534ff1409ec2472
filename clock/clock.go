// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package clock implements a cooperative tick scheduler: a single
// round-robin FIFO of subscriber addresses, invoked once per round
// subject to a per-tick gas ceiling. The locking and gas-accounting
// idioms follow the single-coarse-mutex reentrancy guard and the named
// Gas<Verb> constant table conventions common across this codebase.
package clock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/luxfi/covenant/types"
)

// Gas costs for clock-mediated operations, named constants in the
// teacher's style rather than magic numbers (dex/module.go).
const (
	GasEnqueue        uint64 = 5_000
	GasDequeue        uint64 = 5_000
	GasTickSubscriber uint64 = 20_000
	DefaultTickMaxGas uint64 = 400_000
)

var (
	ErrPaused          = errors.New("clock is paused")
	ErrNotWhitelisted  = errors.New("address is not on the clock whitelist")
	ErrAlreadyEnqueued = errors.New("address is already enqueued")
	ErrNotEnqueued     = errors.New("address is not enqueued")
)

// Subscriber is any agent the Clock can drive. Tick must be idempotent
// under repeated invocation with unchanged external state.
type Subscriber interface {
	Address() types.Principal
	Tick(ctx types.Ctx) (gasUsed uint64, err error)
}

// Clock is the FIFO round-robin dispatcher.
type Clock struct {
	mu          sync.Mutex
	whitelist   map[types.Principal]bool
	queue       []types.Principal
	queued      map[types.Principal]bool
	subscribers map[types.Principal]Subscriber
	paused      bool
	tickMaxGas  uint64
}

// New builds a Clock with a static whitelist fixed at instantiation
// and the given per-tick gas ceiling. A zero ceiling defaults to
// DefaultTickMaxGas.
func New(whitelist []types.Principal, tickMaxGas uint64) *Clock {
	if tickMaxGas == 0 {
		tickMaxGas = DefaultTickMaxGas
	}
	wl := make(map[types.Principal]bool, len(whitelist))
	for _, addr := range whitelist {
		wl[addr] = true
	}
	return &Clock{
		whitelist:   wl,
		queued:      make(map[types.Principal]bool),
		subscribers: make(map[types.Principal]Subscriber),
		tickMaxGas:  tickMaxGas,
	}
}

// Paused reports whether enqueue is currently rejected.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetPaused toggles the paused flag.
func (c *Clock) SetPaused(p bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = p
}

// Enqueue appends sub's address to the tail of the FIFO if it is not
// already enqueued. Fails if paused or if the address is not on the
// static whitelist.
func (c *Clock) Enqueue(sub Subscriber) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := sub.Address()
	if c.paused {
		return ErrPaused
	}
	if !c.whitelist[addr] {
		return fmt.Errorf("%w: %s", ErrNotWhitelisted, addr)
	}
	if c.queued[addr] {
		return nil
	}
	c.queue = append(c.queue, addr)
	c.queued[addr] = true
	c.subscribers[addr] = sub
	return nil
}

// Dequeue removes addr, invoked by a subscriber that has completed its
// lifecycle. Restricted to the static whitelist, like Enqueue.
func (c *Clock) Dequeue(addr types.Principal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.whitelist[addr] {
		return fmt.Errorf("%w: %s", ErrNotWhitelisted, addr)
	}
	if !c.queued[addr] {
		return ErrNotEnqueued
	}
	for i, q := range c.queue {
		if q == addr {
			c.queue = append(c.queue[:i], c.queue[i+1:]...)
			break
		}
	}
	delete(c.queued, addr)
	delete(c.subscribers, addr)
	return nil
}

// Queued reports whether addr is currently enqueued.
func (c *Clock) Queued(addr types.Principal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queued[addr]
}

// Len returns the current FIFO length.
func (c *Clock) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// RoundResult summarizes one Tick() invocation.
type RoundResult struct {
	Invoked     []types.Principal
	Failures    map[types.Principal]error
	GasUsed     uint64
	HaltedEarly bool
}

// Tick runs one atomic round: pop the head, invoke its Tick handler,
// push it back on success. A subscriber failure is recorded but does
// not abort the round; the round halts early once accumulated cost
// exceeds tick_max_gas. Subscribers observe ticks in FIFO order across
// rounds - popping and re-appending on success preserves that order
// and starves no one, provided every round reaches the tail.
func (c *Clock) Tick(ctx types.Ctx) RoundResult {
	c.mu.Lock()
	queueSnapshot := append([]types.Principal(nil), c.queue...)
	subs := make(map[types.Principal]Subscriber, len(c.subscribers))
	for k, v := range c.subscribers {
		subs[k] = v
	}
	tickMaxGas := c.tickMaxGas
	c.mu.Unlock()

	result := RoundResult{Failures: make(map[types.Principal]error)}
	var notReached []types.Principal

	for i, addr := range queueSnapshot {
		if result.GasUsed > tickMaxGas {
			result.HaltedEarly = true
			notReached = append(notReached, queueSnapshot[i:]...)
			break
		}
		sub, ok := subs[addr]
		if !ok {
			continue
		}
		gasUsed, err := sub.Tick(ctx)
		result.GasUsed += gasUsed + GasTickSubscriber
		result.Invoked = append(result.Invoked, addr)
		if err != nil {
			// A rejected tick leaves Clock state unchanged for that
			// subscriber: it is recorded but stays in the queue for
			// retry next round.
			result.Failures[addr] = err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Pop every reached subscriber to the tail (FIFO across rounds);
	// anyone not reached this round (gas ceiling) keeps its place at
	// the head. A subscriber dequeued concurrently via Dequeue is
	// simply absent from c.queued and dropped here.
	var next []types.Principal
	for _, addr := range append(notReached, result.Invoked...) {
		if c.queued[addr] {
			next = append(next, addr)
		}
	}
	c.queue = next

	return result
}

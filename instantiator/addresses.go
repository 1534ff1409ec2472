// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instantiator wires a full covenant graph - Clock, Holder,
// Liquid Pooler, Forwarders, Router, Splitter - from a single Config,
// the way dex/module.go's Configurator turns a precompileconfig.Config
// into a live contract before any caller can reach it. Every agent
// address is derived deterministically from the creator and a salt
// before any agent struct is built, which breaks the cyclic dependency
// where Holder needs the Pooler's address and the Pooler needs the
// Holder's and Clock's: nothing here ever patches an address into an
// agent after construction.
package instantiator

import (
	"github.com/luxfi/covenant/types"
	"github.com/zeebo/blake3"
)

// role is a unique per-agent tag for address derivation, scoped to one
// covenant instance the way dex/pool_manager.go's makeStorageKey scopes
// a storage slot to one pool id.
type role string

const (
	roleHolder         role = "holder"
	rolePooler         role = "pooler"
	roleClock          role = "clock"
	roleRouter         role = "router"
	roleSplitter       role = "splitter"
	roleNativeSplitter role = "native-splitter"
)

func forwarderRole(n int) role {
	if n == 0 {
		return "forwarder-a"
	}
	return "forwarder-b"
}

// deriveAddress computes a deterministic agent address from the
// covenant creator, an instance salt, and a role tag, using the same
// blake3-digest-into-a-fixed-width-key idiom as
// dex/pool_manager.go's makeStorageKey - generalized from a storage
// slot key to an account address.
func deriveAddress(creator types.Principal, salt []byte, r role) types.Principal {
	h := blake3.New()
	h.Write(creator[:])
	h.Write(salt)
	h.Write([]byte(r))
	digest := make([]byte, 20)
	h.Digest().Read(digest)
	var addr types.Principal
	copy(addr[:], digest)
	return addr
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package split

import "github.com/luxfi/covenant/types"

// DenomSplits is {explicit: map<denom, Config>, fallback: Option<Config>}.
// The fallback applies only to denoms absent from explicit.
type DenomSplits struct {
	Explicit map[types.Denom]Config
	Fallback *Config
}

// NewDenomSplits builds a DenomSplits, defensively copying the explicit
// map so later mutation of the caller's map cannot alias into it.
func NewDenomSplits(explicit map[types.Denom]Config, fallback *Config) DenomSplits {
	cp := make(map[types.Denom]Config, len(explicit))
	for k, v := range explicit {
		cp[k] = v
	}
	return DenomSplits{Explicit: cp, Fallback: fallback}
}

// Get resolves the Config governing denom: the explicit entry if
// present, else the fallback, else ok=false.
func (d DenomSplits) Get(denom types.Denom) (Config, bool) {
	if cfg, ok := d.Explicit[denom]; ok {
		return cfg, true
	}
	if d.Fallback != nil {
		return *d.Fallback, true
	}
	return Config{}, false
}

// IsExplicit reports whether denom has an explicit (not fallback) split.
func (d DenomSplits) IsExplicit(denom types.Denom) bool {
	_, ok := d.Explicit[denom]
	return ok
}

// Validate checks every explicit split (and the fallback, if present)
// against the two party routers.
func (d DenomSplits) Validate(partyARouter, partyBRouter types.Receiver) error {
	for _, cfg := range d.Explicit {
		if err := Validate(cfg, partyARouter, partyBRouter); err != nil {
			return err
		}
	}
	if d.Fallback != nil {
		if err := Validate(*d.Fallback, partyARouter, partyBRouter); err != nil {
			return err
		}
	}
	return nil
}

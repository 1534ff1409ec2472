// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package split

import "github.com/luxfi/covenant/types"

// ApplyRagequitPenalty derives a new Config from cfg by moving penalty
// share from rqParty to counterparty, leaving every other receiver's
// share untouched:
//
//	new_share(rq) = old_share(rq) - penalty
//	new_share(cp) = old_share(cp) + penalty
//	new_share(x)  = old_share(x) for any third receiver
//
// The result is validated with ValidateShares before being returned,
// requiring exact equality to one with no rounding tolerance.
func ApplyRagequitPenalty(cfg Config, rqParty, counterparty types.Receiver, penalty types.Rational) (Config, error) {
	out := make(map[types.Receiver]types.Rational, len(cfg.Shares))
	for receiver, share := range cfg.Shares {
		out[receiver] = share
	}

	rqShare := out[rqParty]
	newRq, err := rqShare.Sub(penalty)
	if err != nil {
		return Config{}, err
	}
	out[rqParty] = newRq
	out[counterparty] = out[counterparty].Add(penalty)

	result := Config{Shares: out}
	if err := ValidateShares(result); err != nil {
		return Config{}, err
	}
	return result, nil
}

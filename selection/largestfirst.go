// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package selection

import (
	"slices"

	"github.com/blinklabs-io/quoll/chain"
	"github.com/blinklabs-io/quoll/ledger"
)

// LargestFirst is a greedy selector: it sorts the candidate pool by
// lovelace quantity descending and takes entries until the requested
// amount is covered on every component. It is cheap and predictable
// but tends to consume large outputs and produce large change.
type LargestFirst struct {
	// MaxInputCount caps how many entries may be selected. Zero
	// means DefaultMaxInputCount.
	MaxInputCount int
}

func (s *LargestFirst) Select(
	pool []ledger.Utxo,
	requested []ledger.TxOutput,
	ctx chain.ChainContext,
) ([]ledger.Utxo, []ledger.TxOutput, error) {
	maxInputs := s.MaxInputCount
	if maxInputs <= 0 {
		maxInputs = DefaultMaxInputCount
	}
	requestedTotal := ledger.SumOutputs(requested)

	sorted := make([]ledger.Utxo, len(pool))
	copy(sorted, pool)
	slices.SortStableFunc(sorted, func(a, b ledger.Utxo) int {
		if a.Amount.Coin > b.Amount.Coin {
			return -1
		}
		if a.Amount.Coin < b.Amount.Coin {
			return 1
		}
		return 0
	})

	var selected []ledger.Utxo
	var selectedTotal ledger.Value
	for _, utxo := range sorted {
		if covered(requestedTotal, selectedTotal) {
			break
		}
		if len(selected) >= maxInputs {
			return nil, nil, ErrMaxInputCount
		}
		selected = append(selected, utxo)
		selectedTotal = selectedTotal.Add(utxo.Amount)
	}
	if !covered(requestedTotal, selectedTotal) {
		return nil, nil, ErrInsufficientBalance
	}
	return selected, nil, nil
}

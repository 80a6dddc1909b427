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

// Package selection implements pluggable UTXO selection strategies
// for the transaction builder.
package selection

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/quoll/chain"
	"github.com/blinklabs-io/quoll/ledger"
)

// DefaultMaxInputCount caps the number of inputs a selector may
// choose when the selector does not configure its own limit. It
// keeps selected transactions well under protocol size limits.
const DefaultMaxInputCount = 100

var (
	// ErrSelectionFailed is the base error for any selection
	// failure. All selector errors wrap it.
	ErrSelectionFailed = errors.New("utxo selection failed")

	// ErrInsufficientBalance is returned when no subset of the
	// candidate pool covers the requested amount.
	ErrInsufficientBalance = fmt.Errorf(
		"%w: insufficient balance in utxo pool",
		ErrSelectionFailed,
	)

	// ErrMaxInputCount is returned when covering the requested
	// amount would exceed the selector's input count limit.
	ErrMaxInputCount = fmt.Errorf(
		"%w: max input count exceeded",
		ErrSelectionFailed,
	)
)

// Selector chooses unspent outputs from a candidate pool to cover a
// set of requested outputs. Implementations are interchangeable: the
// transaction builder depends only on this contract and tries its
// configured selectors in priority order.
//
// Select returns the chosen entries and any change outputs the
// strategy pre-computed (may be nil), or an error wrapping
// ErrSelectionFailed when no subset of pool covers requested under
// the strategy's policy. The pool and requested slices are never
// mutated.
type Selector interface {
	Select(
		pool []ledger.Utxo,
		requested []ledger.TxOutput,
		ctx chain.ChainContext,
	) ([]ledger.Utxo, []ledger.TxOutput, error)
}

// covered reports whether total meets or exceeds requested on every
// component.
func covered(requested, total ledger.Value) bool {
	return requested.LessOrEqual(total)
}

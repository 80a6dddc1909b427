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

// Package quoll assembles spendable Cardano transactions: it selects
// enough unspent outputs to cover a requested set of payments plus
// the network fee, computes change, and produces a balanced
// transaction body ready for signing.
package quoll

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/blinklabs-io/quoll/chain"
	"github.com/blinklabs-io/quoll/ledger"
	"github.com/blinklabs-io/quoll/selection"
)

// BuilderConfig configures a TransactionBuilder.
type BuilderConfig struct {
	// ChainContext is the chain state backend. Required.
	ChainContext chain.ChainContext

	// Selectors are tried in order when additional inputs are
	// needed. Nil means the default chain of RandomImproveMultiAsset
	// followed by LargestFirst.
	Selectors []selection.Selector

	// Logger receives per-selector failure logs. Nil discards.
	Logger *slog.Logger

	// PromRegistry receives builder metrics. Nil leaves the
	// metrics unregistered.
	PromRegistry prometheus.Registerer
}

// TransactionBuilder accumulates transaction constraints and balances
// them into a transaction body. It is not safe for concurrent use;
// callers must serialize mutations and Build.
//
// Build is one-shot per desired result: calling it again re-runs the
// whole balancing procedure against the already-final state and will
// duplicate the change output.
type TransactionBuilder struct {
	config  BuilderConfig
	logger  *slog.Logger
	metrics struct {
		txsBuiltNum          prometheus.Counter
		selectorFallbackNum  prometheus.Counter
		selectionFailuresNum prometheus.Counter
	}
	selectors      []selection.Selector
	inputs         []ledger.Utxo
	inputAddresses []lcommon.Address
	outputs        []ledger.TxOutput
	fee            uint64
	ttl            uint64
	validityStart  uint64
}

// NewTransactionBuilder returns an empty builder using the given
// configuration.
func NewTransactionBuilder(
	config BuilderConfig,
) *TransactionBuilder {
	b := &TransactionBuilder{
		config:    config,
		selectors: config.Selectors,
	}
	if len(b.selectors) == 0 {
		b.selectors = []selection.Selector{
			&selection.RandomImproveMultiAsset{},
			&selection.LargestFirst{},
		}
	}
	if config.Logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		b.logger = config.Logger
	}
	// Init metrics
	promautoFactory := promauto.With(config.PromRegistry)
	b.metrics.txsBuiltNum = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "quoll_txs_built_total",
			Help: "total transaction bodies built",
		},
	)
	b.metrics.selectorFallbackNum = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "quoll_selector_fallbacks_total",
			Help: "total utxo selector failures that fell back to the next selector",
		},
	)
	b.metrics.selectionFailuresNum = promautoFactory.NewCounter(
		prometheus.CounterOpts{
			Name: "quoll_selection_failures_total",
			Help: "total builds aborted with every utxo selector exhausted",
		},
	)
	return b
}

// AddInput adds an explicit input to spend.
func (b *TransactionBuilder) AddInput(
	utxo ledger.Utxo,
) *TransactionBuilder {
	b.inputs = append(b.inputs, utxo)
	return b
}

// AddInputAddress registers an address whose unspent outputs may be
// drawn from when explicit inputs do not cover the request.
func (b *TransactionBuilder) AddInputAddress(
	addr lcommon.Address,
) *TransactionBuilder {
	b.inputAddresses = append(b.inputAddresses, addr)
	return b
}

// AddOutput adds a requested payment.
func (b *TransactionBuilder) AddOutput(
	output ledger.TxOutput,
) *TransactionBuilder {
	b.outputs = append(b.outputs, output)
	return b
}

// Inputs returns the builder's current input list. After a
// successful Build this is the final selected set in sorted order.
func (b *TransactionBuilder) Inputs() []ledger.Utxo {
	return b.inputs
}

// InputAddresses returns the registered input addresses.
func (b *TransactionBuilder) InputAddresses() []lcommon.Address {
	return b.inputAddresses
}

// Outputs returns the builder's current output list. After a
// successful Build with a change address this includes the change
// output.
func (b *TransactionBuilder) Outputs() []ledger.TxOutput {
	return b.outputs
}

// Fee returns the current fee.
func (b *TransactionBuilder) Fee() uint64 {
	return b.fee
}

// SetFee sets the fee. Build overwrites it with the estimated fee.
func (b *TransactionBuilder) SetFee(fee uint64) *TransactionBuilder {
	b.fee = fee
	return b
}

// Ttl returns the current time-to-live slot, zero when unset.
func (b *TransactionBuilder) Ttl() uint64 {
	return b.ttl
}

// SetTtl sets the absolute slot after which the transaction is
// invalid.
func (b *TransactionBuilder) SetTtl(ttl uint64) *TransactionBuilder {
	b.ttl = ttl
	return b
}

// SetTtlBySeconds sets the time-to-live to the slot reached the
// given number of seconds from now, converted via the chain's slot
// length.
func (b *TransactionBuilder) SetTtlBySeconds(
	seconds uint64,
) (*TransactionBuilder, error) {
	genesis, err := b.config.ChainContext.GenesisParams()
	if err != nil {
		return b, fmt.Errorf("query genesis params: %w", err)
	}
	if genesis.SlotLength <= 0 {
		return b, fmt.Errorf(
			"invalid slot length: %s",
			genesis.SlotLength,
		)
	}
	slot, err := b.config.ChainContext.CurrentSlot()
	if err != nil {
		return b, fmt.Errorf("query current slot: %w", err)
	}
	deltaSlots := uint64(
		float64(seconds) / genesis.SlotLength.Seconds(),
	)
	b.ttl = slot + deltaSlots
	return b, nil
}

// ValidityStart returns the validity interval start slot, zero when
// unset.
func (b *TransactionBuilder) ValidityStart() uint64 {
	return b.validityStart
}

// SetValidityStart sets the first slot at which the transaction is
// valid.
func (b *TransactionBuilder) SetValidityStart(
	slot uint64,
) *TransactionBuilder {
	b.validityStart = slot
	return b
}

// Build balances the accumulated constraints into a transaction
// body:
//
//  1. Aggregate explicit inputs and requested outputs.
//  2. Compute the deficit, counting already-selected assets only
//     when they are also requested (surplus assets surface later as
//     change). The lovelace component of the deficit is floored at
//     zero, and per-asset surpluses are clamped rather than allowed
//     to offset other assets.
//  3. If a deficit remains, query the chain context for a candidate
//     pool at every registered input address and try each selector
//     in order; the first success wins. Per-selector failures are
//     logged and skipped; if every selector fails the build aborts.
//  4. Sort the final input set ascending by (TxId, Index) and commit
//     that order to the builder.
//  5. Estimate the fee over a placeholder-witnessed transaction.
//  6. Compute change, drop non-positive asset entries, collapse to
//     pure lovelace when no assets remain, and append it to the
//     outputs at changeAddress.
//
// When changeAddress is nil, selection and fee estimation still run
// but no change output is appended: the resulting body is
// intentionally left unbalanced for callers doing their own
// balancing.
//
// Change is not checked for being non-negative: a request that
// cannot be fully funded even after selection produces an invalid
// body that will be rejected on submission.
func (b *TransactionBuilder) Build(
	changeAddress *lcommon.Address,
) (*ledger.TxBody, error) {
	selected := make([]ledger.Utxo, len(b.inputs))
	copy(selected, b.inputs)
	selectedAmount := ledger.SumUtxos(selected)
	requestedAmount := ledger.SumOutputs(b.outputs)

	// Trim off assets that are not requested; they will be
	// returned as change eventually
	trimmedSelectedAmount := selectedAmount.Filter(
		func(policyId lcommon.Blake2b224, name []byte, _ int64) bool {
			return requestedAmount.HasAsset(policyId, name)
		},
	)

	deficit := requestedAmount.Sub(trimmedSelectedAmount)
	deficit.Coin = max(0, deficit.Coin)
	// Clamp per-asset surpluses as well: holding more of one
	// requested asset than asked for must not offset the deficit
	// in another
	deficit = deficit.Filter(
		func(_ lcommon.Blake2b224, _ []byte, qty int64) bool {
			return qty > 0
		},
	)

	if !deficit.IsZero() {
		additional, err := b.selectAdditionalInputs(
			selected,
			deficit,
		)
		if err != nil {
			return nil, err
		}
		for _, utxo := range additional {
			selected = append(selected, utxo)
			selectedAmount = selectedAmount.Add(utxo.Amount)
		}
	}

	ledger.SortUtxos(selected)
	b.inputs = selected

	fee, err := b.estimateFee()
	if err != nil {
		return nil, fmt.Errorf("estimate fee: %w", err)
	}
	b.fee = fee

	if changeAddress != nil {
		b.addChange(*changeAddress)
	}

	body := &ledger.TxBody{
		Inputs:        make([]ledger.UtxoRef, 0, len(b.inputs)),
		Outputs:       slices.Clone(b.outputs),
		Fee:           b.fee,
		Ttl:           b.ttl,
		ValidityStart: b.validityStart,
	}
	for _, utxo := range b.inputs {
		body.Inputs = append(body.Inputs, utxo.Ref)
	}
	b.metrics.txsBuiltNum.Inc()
	return body, nil
}

// selectAdditionalInputs queries a fresh candidate pool and asks the
// configured selectors, in priority order, to cover the deficit. The
// first selector to succeed wins.
func (b *TransactionBuilder) selectAdditionalInputs(
	selected []ledger.Utxo,
	deficit ledger.Value,
) ([]ledger.Utxo, error) {
	selectedRefs := make(
		map[ledger.UtxoRef]struct{},
		len(selected),
	)
	for _, utxo := range selected {
		selectedRefs[utxo.Ref] = struct{}{}
	}
	var pool []ledger.Utxo
	for _, addr := range b.inputAddresses {
		utxos, err := b.config.ChainContext.UtxosByAddress(addr)
		if err != nil {
			return nil, fmt.Errorf(
				"query utxos for %s: %w",
				addr.String(),
				err,
			)
		}
		for _, utxo := range utxos {
			if _, exists := selectedRefs[utxo.Ref]; exists {
				continue
			}
			pool = append(pool, utxo)
		}
	}

	request := []ledger.TxOutput{{Amount: deficit}}
	for i, selector := range b.selectors {
		chosen, _, err := selector.Select(
			pool,
			request,
			b.config.ChainContext,
		)
		if err == nil {
			return chosen, nil
		}
		b.logger.Info(
			"utxo selector failed",
			"component", "txbuilder",
			"selector", fmt.Sprintf("%T", selector),
			"error", err,
		)
		if i < len(b.selectors)-1 {
			b.metrics.selectorFallbackNum.Inc()
		}
	}
	b.metrics.selectionFailuresNum.Inc()
	return nil, fmt.Errorf(
		"%w: all %d utxo selectors exhausted",
		selection.ErrSelectionFailed,
		len(b.selectors),
	)
}

// addChange appends the change output: everything the selected
// inputs provide beyond the requested outputs and the fee, with
// non-positive asset entries dropped and a pure-lovelace collapse
// when no assets remain.
func (b *TransactionBuilder) addChange(
	changeAddress lcommon.Address,
) {
	provided := ledger.SumUtxos(b.inputs)
	requested := ledger.SumOutputs(b.outputs)
	requested.Coin += int64(b.fee) // #nosec G115

	change := provided.Sub(requested)
	change = change.Filter(
		func(_ lcommon.Blake2b224, _ []byte, qty int64) bool {
			return qty > 0
		},
	)

	b.outputs = append(b.outputs, ledger.TxOutput{
		Address: changeAddress,
		Amount:  change,
	})
}

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

package quoll

import (
	"fmt"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"

	"github.com/blinklabs-io/quoll/chain"
	"github.com/blinklabs-io/quoll/ledger"
)

const (
	// fakeVkeyLength is the length of an Ed25519 verification key
	fakeVkeyLength = 32
	// fakeSignatureLength is the length of an Ed25519 signature of
	// a 32-byte message (the transaction hash)
	fakeSignatureLength = 64
)

var zeroBlake2b224 lcommon.Blake2b224

// EstimateFee returns an upper-bound fee for the candidate body by
// measuring a fully-assembled placeholder transaction: the body with
// its fee set to the largest fee the protocol allows, plus one
// deterministic zero-filled witness per distinct payment key hash
// among the input-owning addresses. An address reused across inputs
// contributes exactly one placeholder witness.
//
// The fee is computed once; there is no re-estimation after change
// is attached to the body.
func EstimateFee(
	ctx chain.ChainContext,
	body *ledger.TxBody,
	inputs []ledger.Utxo,
) (uint64, error) {
	pparams, err := ctx.ProtocolParams()
	if err != nil {
		return 0, fmt.Errorf("query protocol params: %w", err)
	}

	// Size the draft with the largest fee the protocol allows so
	// the final fee value cannot need a longer CBOR encoding
	draft := *body
	draft.Fee = pparams.MinFee(uint64(pparams.MaxTxSize))

	witnesses := fakeVkeyWitnesses(inputs)
	txCbor, err := ledger.EncodeTx(&draft, witnesses)
	if err != nil {
		return 0, fmt.Errorf("encode placeholder tx: %w", err)
	}
	return pparams.MinFee(uint64(len(txCbor))), nil
}

// fakeVkeyWitnesses builds one placeholder witness per distinct
// payment key hash among the given inputs' owning addresses. Inputs
// with a script payment credential contribute no vkey witness.
func fakeVkeyWitnesses(
	inputs []ledger.Utxo,
) []lcommon.VkeyWitness {
	seen := make(map[lcommon.Blake2b224]struct{})
	var witnesses []lcommon.VkeyWitness
	for _, utxo := range inputs {
		pkh := utxo.Address.PaymentKeyHash()
		if pkh == zeroBlake2b224 {
			continue
		}
		if _, dup := seen[pkh]; dup {
			continue
		}
		seen[pkh] = struct{}{}
		witnesses = append(witnesses, lcommon.VkeyWitness{
			Vkey:      make([]byte, fakeVkeyLength),
			Signature: make([]byte, fakeSignatureLength),
		})
	}
	return witnesses
}

// estimateFee builds a draft body from the builder's current state
// and estimates its fee.
func (b *TransactionBuilder) estimateFee() (uint64, error) {
	draft := &ledger.TxBody{
		Inputs:        make([]ledger.UtxoRef, 0, len(b.inputs)),
		Outputs:       b.outputs,
		Fee:           b.fee,
		Ttl:           b.ttl,
		ValidityStart: b.validityStart,
	}
	for _, utxo := range b.inputs {
		draft.Inputs = append(draft.Inputs, utxo.Ref)
	}
	return EstimateFee(b.config.ChainContext, draft, b.inputs)
}

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

package ledger

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"golang.org/x/crypto/blake2b"
)

// Transaction body map keys (Shelley-era CDDL).
const (
	bodyKeyInputs        = 0
	bodyKeyOutputs       = 1
	bodyKeyFee           = 2
	bodyKeyTtl           = 3
	bodyKeyValidityStart = 8
)

// ToCbor serializes the transaction body as a CBOR map keyed by the
// Shelley-era body field numbers. Ttl and ValidityStart are omitted
// when unset.
func (b *TxBody) ToCbor() ([]byte, error) {
	inputs := make([]any, 0, len(b.Inputs))
	for _, input := range b.Inputs {
		inputs = append(
			inputs,
			[]any{input.TxId.Bytes(), input.Index},
		)
	}
	outputs := make([]any, 0, len(b.Outputs))
	for _, output := range b.Outputs {
		addrBytes, err := output.Address.Bytes()
		if err != nil {
			return nil, fmt.Errorf("encode address: %w", err)
		}
		outputs = append(
			outputs,
			[]any{addrBytes, valueContainer(output.Amount)},
		)
	}
	body := map[int]any{
		bodyKeyInputs:  inputs,
		bodyKeyOutputs: outputs,
		bodyKeyFee:     b.Fee,
	}
	if b.Ttl > 0 {
		body[bodyKeyTtl] = b.Ttl
	}
	if b.ValidityStart > 0 {
		body[bodyKeyValidityStart] = b.ValidityStart
	}
	return cbor.Encode(body)
}

// Hash returns the Blake2b-256 hash of the serialized body. This is
// the transaction ID and the message that input owners sign.
func (b *TxBody) Hash() (lcommon.Blake2b256, error) {
	bodyCbor, err := b.ToCbor()
	if err != nil {
		return lcommon.Blake2b256{}, err
	}
	bodyHash := blake2b.Sum256(bodyCbor)
	return lcommon.NewBlake2b256(bodyHash[:]), nil
}

// EncodeTx serializes a complete transaction as the standard CBOR
// 4-element array: [body, witness_set, is_valid, auxiliary_data].
func EncodeTx(
	body *TxBody,
	witnesses []lcommon.VkeyWitness,
) ([]byte, error) {
	bodyCbor, err := body.ToCbor()
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	witnessMap := map[int]any{}
	if len(witnesses) > 0 {
		witnessMap[0] = witnesses
	}
	tx := []any{
		cbor.RawMessage(bodyCbor),
		witnessMap,
		true,
		nil,
	}
	return cbor.Encode(tx)
}

// valueContainer returns the CBOR shape for a Value: a bare integer
// for pure-coin values, or the [coin, multiasset] pair when native
// assets are present.
func valueContainer(v Value) any {
	if len(v.Assets) == 0 {
		return v.Coin
	}
	assets := make(
		map[cbor.ByteString]map[cbor.ByteString]int64,
		len(v.Assets),
	)
	for policyId, policyAssets := range v.Assets {
		inner := make(
			map[cbor.ByteString]int64,
			len(policyAssets),
		)
		for name, qty := range policyAssets {
			inner[cbor.NewByteString([]byte(name))] = qty
		}
		assets[cbor.NewByteString(policyId.Bytes())] = inner
	}
	return []any{v.Coin, assets}
}

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
	"bytes"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// UtxoRef identifies a transaction output by the hash of the
// transaction that created it and the output's index within that
// transaction. It is immutable and usable as a map key and sort key.
type UtxoRef struct {
	TxId  lcommon.Blake2b256
	Index uint32
}

// NewUtxoRef returns a UtxoRef for the given transaction hash and
// output index.
func NewUtxoRef(txId lcommon.Blake2b256, index uint32) UtxoRef {
	return UtxoRef{TxId: txId, Index: index}
}

// ParseUtxoRef parses a reference of the form "<tx hash hex>:<index>".
func ParseUtxoRef(s string) (UtxoRef, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return UtxoRef{}, fmt.Errorf("invalid utxo reference: %s", s)
	}
	hashBytes, err := hex.DecodeString(parts[0])
	if err != nil {
		return UtxoRef{}, fmt.Errorf("invalid tx hash hex: %w", err)
	}
	if len(hashBytes) != 32 {
		return UtxoRef{}, fmt.Errorf(
			"tx hash must be 32 bytes, got %d",
			len(hashBytes),
		)
	}
	idx, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return UtxoRef{}, fmt.Errorf(
			"invalid output index: %s",
			parts[1],
		)
	}
	return UtxoRef{
		TxId:  lcommon.NewBlake2b256(hashBytes),
		Index: uint32(idx),
	}, nil
}

func (r UtxoRef) String() string {
	return fmt.Sprintf("%s:%d", r.TxId.String(), r.Index)
}

// Compare orders references ascending by transaction hash bytes, then
// by output index.
func (r UtxoRef) Compare(o UtxoRef) int {
	if c := bytes.Compare(r.TxId.Bytes(), o.TxId.Bytes()); c != 0 {
		return c
	}
	if r.Index < o.Index {
		return -1
	}
	if r.Index > o.Index {
		return 1
	}
	return 0
}

// Utxo is an unspent transaction output: its reference, the address
// that owns it, and its value. Instances are owned by chain state;
// the builder only holds copies and never mutates them.
type Utxo struct {
	Ref     UtxoRef
	Address lcommon.Address
	Amount  Value
}

// SortUtxos sorts the slice in place ascending by (TxId, Index).
// This ordering is required for a deterministic signing order across
// independent builds of the same logical transaction.
func SortUtxos(utxos []Utxo) {
	slices.SortFunc(utxos, func(a, b Utxo) int {
		return a.Ref.Compare(b.Ref)
	})
}

// SumUtxos returns the componentwise sum of the given entries'
// values.
func SumUtxos(utxos []Utxo) Value {
	var total Value
	for _, utxo := range utxos {
		total = total.Add(utxo.Amount)
	}
	return total
}

// TxOutput is a payment to an address. A zero Address is only valid
// internally as a placeholder meaning "amount still required", never
// in a finished output.
type TxOutput struct {
	Address lcommon.Address
	Amount  Value
}

// SumOutputs returns the componentwise sum of the given outputs'
// values.
func SumOutputs(outputs []TxOutput) Value {
	var total Value
	for _, output := range outputs {
		total = total.Add(output.Amount)
	}
	return total
}

// TxBody is a transaction body ready for signing. Inputs are sorted
// ascending by (TxId, Index). Ttl and ValidityStart use zero to mean
// unset.
type TxBody struct {
	Inputs        []UtxoRef
	Outputs       []TxOutput
	Fee           uint64
	Ttl           uint64
	ValidityStart uint64
}

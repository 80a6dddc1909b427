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
	"errors"
	"testing"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/quoll/ledger"
)

func testPolicyId(fill byte) lcommon.Blake2b224 {
	policyBytes := make([]byte, 28)
	for i := range policyBytes {
		policyBytes[i] = fill
	}
	return lcommon.NewBlake2b224(policyBytes)
}

func testUtxo(idx byte, amount ledger.Value) ledger.Utxo {
	hashBytes := make([]byte, 32)
	hashBytes[0] = idx
	return ledger.Utxo{
		Ref: ledger.NewUtxoRef(
			lcommon.NewBlake2b256(hashBytes),
			0,
		),
		Amount: amount,
	}
}

func coinRequest(coin int64) []ledger.TxOutput {
	return []ledger.TxOutput{{Amount: ledger.NewValue(coin)}}
}

func TestLargestFirstSelectsLargest(t *testing.T) {
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(1_000_000)),
		testUtxo(2, ledger.NewValue(10_000_000)),
		testUtxo(3, ledger.NewValue(3_000_000)),
	}
	selector := &LargestFirst{}

	selected, change, err := selector.Select(
		pool,
		coinRequest(5_000_000),
		nil,
	)
	require.NoError(t, err)
	assert.Nil(t, change)
	require.Len(t, selected, 1)
	assert.Equal(t, int64(10_000_000), selected[0].Amount.Coin)
}

func TestLargestFirstAccumulates(t *testing.T) {
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(4_000_000)),
		testUtxo(2, ledger.NewValue(3_000_000)),
		testUtxo(3, ledger.NewValue(2_000_000)),
	}
	selector := &LargestFirst{}

	selected, _, err := selector.Select(
		pool,
		coinRequest(6_000_000),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, int64(7_000_000), ledger.SumUtxos(selected).Coin)
}

func TestLargestFirstCoversAssets(t *testing.T) {
	policyA := testPolicyId(0xa1)
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(9_000_000)),
		testUtxo(2, ledger.NewValueWithAssets(1_000_000, ledger.MultiAsset{
			policyA: {"token1": 10},
		})),
	}
	selector := &LargestFirst{}

	requested := []ledger.TxOutput{
		{
			Amount: ledger.NewValueWithAssets(
				2_000_000,
				ledger.MultiAsset{policyA: {"token1": 5}},
			),
		},
	}
	selected, _, err := selector.Select(pool, requested, nil)
	require.NoError(t, err)
	// The largest output alone lacks the asset, so both entries
	// are taken
	require.Len(t, selected, 2)
}

func TestLargestFirstInsufficientBalance(t *testing.T) {
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(1_000_000)),
	}
	selector := &LargestFirst{}

	_, _, err := selector.Select(pool, coinRequest(5_000_000), nil)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.True(t, errors.Is(err, ErrSelectionFailed))
}

func TestLargestFirstMaxInputCount(t *testing.T) {
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(1_000_000)),
		testUtxo(2, ledger.NewValue(1_000_000)),
		testUtxo(3, ledger.NewValue(1_000_000)),
	}
	selector := &LargestFirst{MaxInputCount: 2}

	_, _, err := selector.Select(pool, coinRequest(3_000_000), nil)
	assert.True(t, errors.Is(err, ErrMaxInputCount))
	assert.True(t, errors.Is(err, ErrSelectionFailed))
}

func TestLargestFirstDoesNotMutatePool(t *testing.T) {
	pool := []ledger.Utxo{
		testUtxo(1, ledger.NewValue(1_000_000)),
		testUtxo(2, ledger.NewValue(10_000_000)),
	}
	selector := &LargestFirst{}

	_, _, err := selector.Select(pool, coinRequest(5_000_000), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), pool[0].Amount.Coin)
	assert.Equal(t, int64(10_000_000), pool[1].Amount.Coin)
}

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
	"testing"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicyId(fill byte) lcommon.Blake2b224 {
	policyBytes := make([]byte, 28)
	for i := range policyBytes {
		policyBytes[i] = fill
	}
	return lcommon.NewBlake2b224(policyBytes)
}

func TestValueAdd(t *testing.T) {
	policyA := testPolicyId(0xa1)
	policyB := testPolicyId(0xb2)
	v1 := NewValueWithAssets(1_000_000, MultiAsset{
		policyA: {"token1": 5, "token2": 10},
	})
	v2 := NewValueWithAssets(2_000_000, MultiAsset{
		policyA: {"token1": 3},
		policyB: {"token3": 7},
	})

	sum := v1.Add(v2)
	assert.Equal(t, int64(3_000_000), sum.Coin)
	assert.Equal(t, int64(8), sum.AssetQuantity(policyA, []byte("token1")))
	assert.Equal(t, int64(10), sum.AssetQuantity(policyA, []byte("token2")))
	assert.Equal(t, int64(7), sum.AssetQuantity(policyB, []byte("token3")))

	// Operands are not mutated
	assert.Equal(t, int64(5), v1.AssetQuantity(policyA, []byte("token1")))
	assert.Equal(t, int64(3), v2.AssetQuantity(policyA, []byte("token1")))
}

func TestValueSubTransientNegative(t *testing.T) {
	policyA := testPolicyId(0xa1)
	v1 := NewValueWithAssets(1_000_000, MultiAsset{
		policyA: {"token1": 5},
	})
	v2 := NewValueWithAssets(3_000_000, MultiAsset{
		policyA: {"token1": 8},
	})

	diff := v1.Sub(v2)
	assert.Equal(t, int64(-2_000_000), diff.Coin)
	assert.Equal(t, int64(-3), diff.AssetQuantity(policyA, []byte("token1")))
}

func TestValueFilterDropsEmptyGroups(t *testing.T) {
	policyA := testPolicyId(0xa1)
	policyB := testPolicyId(0xb2)
	v := NewValueWithAssets(500, MultiAsset{
		policyA: {"token1": -2, "token2": 0},
		policyB: {"token3": 9},
	})

	filtered := v.Filter(
		func(_ lcommon.Blake2b224, _ []byte, qty int64) bool {
			return qty > 0
		},
	)
	assert.Equal(t, int64(500), filtered.Coin)
	require.Len(t, filtered.Assets, 1)
	_, hasPolicyA := filtered.Assets[policyA]
	assert.False(t, hasPolicyA)
	assert.Equal(t, int64(9), filtered.AssetQuantity(policyB, []byte("token3")))
}

func TestValueFilterCollapsesToCoin(t *testing.T) {
	policyA := testPolicyId(0xa1)
	v := NewValueWithAssets(500, MultiAsset{
		policyA: {"token1": -2},
	})

	filtered := v.Filter(
		func(_ lcommon.Blake2b224, _ []byte, qty int64) bool {
			return qty > 0
		},
	)
	assert.Nil(t, filtered.Assets)
	assert.Equal(t, int64(500), filtered.Coin)
}

func TestValuePartialOrder(t *testing.T) {
	policyA := testPolicyId(0xa1)
	policyB := testPolicyId(0xb2)

	small := NewValueWithAssets(100, MultiAsset{
		policyA: {"token1": 1},
	})
	large := NewValueWithAssets(200, MultiAsset{
		policyA: {"token1": 5},
	})
	other := NewValueWithAssets(300, MultiAsset{
		policyB: {"token2": 5},
	})

	assert.True(t, small.LessOrEqual(large))
	assert.True(t, small.Less(large))
	assert.False(t, large.LessOrEqual(small))

	// Incomparable bundles: neither direction holds
	assert.False(t, large.LessOrEqual(other))
	assert.False(t, other.LessOrEqual(large))

	// Comparison against the zero value tests positivity
	assert.True(t, Value{}.Less(small))
	assert.False(t, Value{}.Less(Value{}))
	assert.True(t, Value{}.LessOrEqual(Value{}))
}

func TestValueZeroAndEqual(t *testing.T) {
	policyA := testPolicyId(0xa1)

	assert.True(t, Value{}.IsZero())
	assert.True(
		t,
		NewValueWithAssets(0, MultiAsset{policyA: {"token1": 0}}).IsZero(),
	)
	assert.False(t, NewValue(1).IsZero())

	// Explicit zero entries are equal to absent entries
	withZero := NewValueWithAssets(7, MultiAsset{policyA: {"token1": 0}})
	assert.True(t, withZero.Equal(NewValue(7)))
}

func TestValueHasAsset(t *testing.T) {
	policyA := testPolicyId(0xa1)
	v := NewValueWithAssets(0, MultiAsset{policyA: {"token1": 0}})

	assert.True(t, v.HasAsset(policyA, []byte("token1")))
	assert.False(t, v.HasAsset(policyA, []byte("token2")))
	assert.False(t, v.HasAsset(testPolicyId(0xb2), []byte("token1")))
}

func TestValueNegate(t *testing.T) {
	policyA := testPolicyId(0xa1)
	v := NewValueWithAssets(42, MultiAsset{policyA: {"token1": 6}})

	neg := v.Negate()
	assert.Equal(t, int64(-42), neg.Coin)
	assert.Equal(t, int64(-6), neg.AssetQuantity(policyA, []byte("token1")))
	assert.True(t, v.Add(neg).IsZero())
}

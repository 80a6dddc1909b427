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

func testAddress(t *testing.T, fill byte) lcommon.Address {
	t.Helper()
	keyHash := make([]byte, 28)
	for i := range keyHash {
		keyHash[i] = fill
	}
	addr, err := lcommon.NewAddressFromParts(
		lcommon.AddressTypeKeyNone,
		0x00,
		keyHash,
		nil,
	)
	require.NoError(t, err)
	return addr
}

func testBody(t *testing.T) *TxBody {
	t.Helper()
	return &TxBody{
		Inputs: []UtxoRef{
			NewUtxoRef(testTxId(0x01), 0),
		},
		Outputs: []TxOutput{
			{
				Address: testAddress(t, 0x11),
				Amount:  NewValue(5_000_000),
			},
		},
		Fee: 170_000,
	}
}

func TestTxBodyToCbor(t *testing.T) {
	body := testBody(t)
	bodyCbor, err := body.ToCbor()
	require.NoError(t, err)
	assert.NotEmpty(t, bodyCbor)

	// Optional fields add to the encoding
	withTtl := *body
	withTtl.Ttl = 123456
	withTtl.ValidityStart = 123000
	ttlCbor, err := withTtl.ToCbor()
	require.NoError(t, err)
	assert.Greater(t, len(ttlCbor), len(bodyCbor))
}

func TestTxBodyToCborMultiAsset(t *testing.T) {
	policyA := testPolicyId(0xa1)
	body := testBody(t)
	body.Outputs = append(body.Outputs, TxOutput{
		Address: testAddress(t, 0x22),
		Amount: NewValueWithAssets(2_000_000, MultiAsset{
			policyA: {"token1": 4},
		}),
	})
	bodyCbor, err := body.ToCbor()
	require.NoError(t, err)
	assert.NotEmpty(t, bodyCbor)
}

func TestTxBodyHash(t *testing.T) {
	body := testBody(t)
	hash, err := body.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, lcommon.Blake2b256{}, hash)
}

func TestEncodeTxWitnessesGrowSize(t *testing.T) {
	body := testBody(t)
	bare, err := EncodeTx(body, nil)
	require.NoError(t, err)

	witnessed, err := EncodeTx(body, []lcommon.VkeyWitness{
		{
			Vkey:      make([]byte, 32),
			Signature: make([]byte, 64),
		},
	})
	require.NoError(t, err)
	// A vkey witness carries 96 bytes of key material plus CBOR
	// framing
	assert.Greater(t, len(witnessed), len(bare)+96)
}

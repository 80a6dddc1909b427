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

// CalculateMinFee computes the minimum fee for a transaction of the
// given serialized size using the Cardano linear fee formula:
//
//	fee = (minFeeA * txSize) + minFeeB
//
// Script execution fees are out of scope here; only simple payment
// transactions are built.
func CalculateMinFee(
	txSize uint64,
	minFeeA uint,
	minFeeB uint,
) uint64 {
	return uint64(minFeeA)*txSize + uint64(minFeeB)
}

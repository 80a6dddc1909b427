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

package chain

import (
	"time"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"

	"github.com/blinklabs-io/quoll/ledger"
)

// ChainContext is the interface that the transaction builder uses to
// query chain state. This decouples the builder from any concrete
// backend (a node, an indexer, or an in-memory snapshot) and enables
// testing with mock implementations. Implementations are read-only
// from the builder's perspective; every call is blocking.
type ChainContext interface {
	// UtxosByAddress returns the unspent outputs currently held at
	// the given address.
	UtxosByAddress(lcommon.Address) ([]ledger.Utxo, error)

	// CurrentSlot returns the slot number at the current chain tip.
	CurrentSlot() (uint64, error)

	// GenesisParams returns the chain's genesis parameters.
	GenesisParams() (GenesisParams, error)

	// ProtocolParams returns the current protocol parameters.
	ProtocolParams() (ProtocolParams, error)
}

// GenesisParams holds the genesis parameters needed for transaction
// construction.
type GenesisParams struct {
	SystemStart  time.Time
	SlotLength   time.Duration
	NetworkMagic uint32
}

// ProtocolParams holds the protocol parameter subset needed for fee
// calculation and transaction construction.
type ProtocolParams struct {
	MinFeeA      uint
	MinFeeB      uint
	MaxTxSize    uint
	MinUtxoValue uint64
	KeyDeposit   uint64
	PoolDeposit  uint64
}

// MinFee returns the minimum fee for a transaction of the given
// serialized size under these parameters.
func (p ProtocolParams) MinFee(txSize uint64) uint64 {
	return ledger.CalculateMinFee(txSize, p.MinFeeA, p.MinFeeB)
}

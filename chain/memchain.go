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
	"slices"
	"sync"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"

	"github.com/blinklabs-io/quoll/ledger"
)

// MemChainContext is an in-memory ChainContext backed by a static
// UTXO snapshot. It serves offline transaction construction and
// tests; it never talks to a network.
type MemChainContext struct {
	sync.RWMutex
	slot     uint64
	genesis  GenesisParams
	pparams  ProtocolParams
	utxos    map[string][]ledger.Utxo
	utxoRefs map[ledger.UtxoRef]struct{}
}

// NewMemChainContext returns an empty in-memory chain context with
// the given genesis and protocol parameters.
func NewMemChainContext(
	genesis GenesisParams,
	pparams ProtocolParams,
) *MemChainContext {
	return &MemChainContext{
		genesis:  genesis,
		pparams:  pparams,
		utxos:    make(map[string][]ledger.Utxo),
		utxoRefs: make(map[ledger.UtxoRef]struct{}),
	}
}

// SetSlot sets the slot reported as the current chain tip.
func (c *MemChainContext) SetSlot(slot uint64) {
	c.Lock()
	defer c.Unlock()
	c.slot = slot
}

// AddUtxo adds an unspent output to the snapshot. Duplicate
// references are ignored.
func (c *MemChainContext) AddUtxo(utxo ledger.Utxo) {
	c.Lock()
	defer c.Unlock()
	if _, exists := c.utxoRefs[utxo.Ref]; exists {
		return
	}
	c.utxoRefs[utxo.Ref] = struct{}{}
	addr := utxo.Address.String()
	c.utxos[addr] = append(c.utxos[addr], utxo)
}

// RemoveUtxo removes the output with the given reference, if present.
func (c *MemChainContext) RemoveUtxo(ref ledger.UtxoRef) {
	c.Lock()
	defer c.Unlock()
	if _, exists := c.utxoRefs[ref]; !exists {
		return
	}
	delete(c.utxoRefs, ref)
	for addr, utxos := range c.utxos {
		c.utxos[addr] = slices.DeleteFunc(
			utxos,
			func(u ledger.Utxo) bool {
				return u.Ref == ref
			},
		)
		if len(c.utxos[addr]) == 0 {
			delete(c.utxos, addr)
		}
	}
}

func (c *MemChainContext) UtxosByAddress(
	addr lcommon.Address,
) ([]ledger.Utxo, error) {
	c.RLock()
	defer c.RUnlock()
	utxos := c.utxos[addr.String()]
	ret := make([]ledger.Utxo, len(utxos))
	copy(ret, utxos)
	return ret, nil
}

func (c *MemChainContext) CurrentSlot() (uint64, error) {
	c.RLock()
	defer c.RUnlock()
	return c.slot, nil
}

func (c *MemChainContext) GenesisParams() (GenesisParams, error) {
	c.RLock()
	defer c.RUnlock()
	return c.genesis, nil
}

func (c *MemChainContext) ProtocolParams() (ProtocolParams, error) {
	c.RLock()
	defer c.RUnlock()
	return c.pparams, nil
}

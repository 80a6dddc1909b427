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
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// MultiAsset maps a minting policy ID to the quantities of each asset
// name minted under it. Asset names are raw bytes stored as string map
// keys.
type MultiAsset map[lcommon.Blake2b224]map[string]int64

// Copy returns a deep copy of the multi-asset map.
func (m MultiAsset) Copy() MultiAsset {
	if m == nil {
		return nil
	}
	ret := make(MultiAsset, len(m))
	for policyId, assets := range m {
		newAssets := make(map[string]int64, len(assets))
		for name, qty := range assets {
			newAssets[name] = qty
		}
		ret[policyId] = newAssets
	}
	return ret
}

// Value is a multi-asset ledger amount: a lovelace quantity plus zero
// or more native asset quantities. Coin is signed so that subtraction
// can transiently go negative before filtering; any Value placed in a
// transaction output must carry only strictly positive quantities.
//
// All arithmetic is pure. Receivers and arguments are never mutated.
type Value struct {
	Coin   int64
	Assets MultiAsset
}

// NewValue returns a pure-coin Value.
func NewValue(coin int64) Value {
	return Value{Coin: coin}
}

// NewValueWithAssets returns a Value carrying the given assets. The
// asset map is copied.
func NewValueWithAssets(coin int64, assets MultiAsset) Value {
	return Value{Coin: coin, Assets: assets.Copy()}
}

// Add returns the componentwise sum of two values. Asset entries
// absent on either side are treated as zero. Entries that sum to zero
// are retained; use Filter to drop them.
func (v Value) Add(o Value) Value {
	ret := Value{
		Coin:   v.Coin + o.Coin,
		Assets: v.Assets.Copy(),
	}
	if len(o.Assets) == 0 {
		return ret
	}
	if ret.Assets == nil {
		ret.Assets = make(MultiAsset, len(o.Assets))
	}
	for policyId, assets := range o.Assets {
		existing, ok := ret.Assets[policyId]
		if !ok {
			existing = make(map[string]int64, len(assets))
			ret.Assets[policyId] = existing
		}
		for name, qty := range assets {
			existing[name] += qty
		}
	}
	return ret
}

// Sub returns v - o, componentwise. The result may contain zero or
// negative quantities.
func (v Value) Sub(o Value) Value {
	return v.Add(o.Negate())
}

// Negate returns the value with every component negated.
func (v Value) Negate() Value {
	ret := Value{
		Coin:   -v.Coin,
		Assets: v.Assets.Copy(),
	}
	for _, assets := range ret.Assets {
		for name, qty := range assets {
			assets[name] = -qty
		}
	}
	return ret
}

// Filter returns a copy of the value keeping only asset entries for
// which pred returns true. Policy groups left empty are dropped, and
// a value with no remaining assets collapses to a pure-coin Value
// (nil asset map).
func (v Value) Filter(
	pred func(policyId lcommon.Blake2b224, name []byte, qty int64) bool,
) Value {
	ret := Value{Coin: v.Coin}
	for policyId, assets := range v.Assets {
		var kept map[string]int64
		for name, qty := range assets {
			if !pred(policyId, []byte(name), qty) {
				continue
			}
			if kept == nil {
				kept = make(map[string]int64)
			}
			kept[name] = qty
		}
		if kept != nil {
			if ret.Assets == nil {
				ret.Assets = make(MultiAsset)
			}
			ret.Assets[policyId] = kept
		}
	}
	return ret
}

// IsZero returns true when the coin quantity and every asset quantity
// are zero.
func (v Value) IsZero() bool {
	if v.Coin != 0 {
		return false
	}
	for _, assets := range v.Assets {
		for _, qty := range assets {
			if qty != 0 {
				return false
			}
		}
	}
	return true
}

// Equal returns true when both values agree on every component, with
// absent asset entries treated as zero.
func (v Value) Equal(o Value) bool {
	return v.LessOrEqual(o) && o.LessOrEqual(v)
}

// LessOrEqual reports whether every component of v is less than or
// equal to the matching component of o. Absent asset entries are
// treated as zero. Values form only a partial order: both
// v.LessOrEqual(o) and o.LessOrEqual(v) can be false for
// incomparable asset bundles.
func (v Value) LessOrEqual(o Value) bool {
	if v.Coin > o.Coin {
		return false
	}
	for policyId, assets := range v.Assets {
		for name, qty := range assets {
			if qty > o.assetQuantity(policyId, name) {
				return false
			}
		}
	}
	// Negative entries on the right side can still break the
	// comparison for assets absent on the left.
	for policyId, assets := range o.Assets {
		for name, qty := range assets {
			if v.assetQuantity(policyId, name) > qty {
				return false
			}
		}
	}
	return true
}

// Less reports strict partial-order comparison: v.LessOrEqual(o) with
// at least one component strictly smaller. Comparing against the zero
// Value tests for strict positivity.
func (v Value) Less(o Value) bool {
	return v.LessOrEqual(o) && !v.Equal(o)
}

func (v Value) assetQuantity(
	policyId lcommon.Blake2b224,
	name string,
) int64 {
	assets, ok := v.Assets[policyId]
	if !ok {
		return 0
	}
	return assets[name]
}

// AssetQuantity returns the quantity of the given asset, or zero when
// the value does not carry it.
func (v Value) AssetQuantity(
	policyId lcommon.Blake2b224,
	name []byte,
) int64 {
	return v.assetQuantity(policyId, string(name))
}

// HasAsset returns true when the value carries an entry for the
// given asset, regardless of quantity.
func (v Value) HasAsset(
	policyId lcommon.Blake2b224,
	name []byte,
) bool {
	assets, ok := v.Assets[policyId]
	if !ok {
		return false
	}
	_, ok = assets[string(name)]
	return ok
}

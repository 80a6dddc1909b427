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

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BuildRequest is the YAML document the `build` subcommand consumes:
// a chain snapshot plus the transaction to build against it.
type BuildRequest struct {
	Chain ChainSnapshot `yaml:"chain"`
	Tx    TxRequest     `yaml:"tx"`
}

// ChainSnapshot captures the chain state needed for offline
// transaction construction.
type ChainSnapshot struct {
	Slot         uint64        `yaml:"slot"`
	SlotLength   time.Duration `yaml:"slotLength"`
	NetworkMagic uint32        `yaml:"networkMagic"`
	MinFeeA      uint          `yaml:"minFeeA"`
	MinFeeB      uint          `yaml:"minFeeB"`
	MaxTxSize    uint          `yaml:"maxTxSize"`
	Utxos        []UtxoSpec    `yaml:"utxos"`
}

// UtxoSpec describes one unspent output in the snapshot.
type UtxoSpec struct {
	Ref     string      `yaml:"ref"` // "<tx hash hex>:<index>"
	Address string      `yaml:"address"`
	Coin    int64       `yaml:"coin"`
	Assets  []AssetSpec `yaml:"assets"`
}

// AssetSpec describes one native asset quantity. PolicyId and Name
// are hex-encoded.
type AssetSpec struct {
	PolicyId string `yaml:"policyId"`
	Name     string `yaml:"name"`
	Quantity int64  `yaml:"quantity"`
}

// OutputSpec describes one requested payment.
type OutputSpec struct {
	Address string      `yaml:"address"`
	Coin    int64       `yaml:"coin"`
	Assets  []AssetSpec `yaml:"assets"`
}

// TxRequest describes the transaction to build. Explicit inputs
// reference entries from the snapshot by "<tx hash hex>:<index>".
type TxRequest struct {
	Inputs         []string     `yaml:"inputs"`
	InputAddresses []string     `yaml:"inputAddresses"`
	Outputs        []OutputSpec `yaml:"outputs"`
	Ttl            uint64       `yaml:"ttl"`
	TtlSeconds     uint64       `yaml:"ttlSeconds"`
	ValidityStart  uint64       `yaml:"validityStart"`
	ChangeAddress  string       `yaml:"changeAddress"`
}

// LoadBuildRequest reads and validates a build request file.
func LoadBuildRequest(path string) (*BuildRequest, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading request file: %w", err)
	}
	req := &BuildRequest{}
	err = yaml.Unmarshal(buf, req)
	if err != nil {
		return nil, fmt.Errorf("error parsing request file: %w", err)
	}
	if len(req.Tx.Outputs) == 0 {
		return nil, errors.New("request has no outputs")
	}
	if req.Tx.Ttl > 0 && req.Tx.TtlSeconds > 0 {
		return nil, errors.New(
			"ttl and ttlSeconds are mutually exclusive",
		)
	}
	if req.Chain.MaxTxSize == 0 {
		req.Chain.MaxTxSize = 16384
	}
	if req.Chain.SlotLength == 0 {
		req.Chain.SlotLength = time.Second
	}
	return req, nil
}

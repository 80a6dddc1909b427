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

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/spf13/cobra"

	"github.com/blinklabs-io/quoll"
	"github.com/blinklabs-io/quoll/chain"
	"github.com/blinklabs-io/quoll/internal/config"
	"github.com/blinklabs-io/quoll/ledger"
	"github.com/blinklabs-io/quoll/selection"
)

func buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <request file>",
		Short: "Build an unsigned transaction body from a chain snapshot and request file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if cfg == nil {
				slog.Error("no config found in context")
				os.Exit(1)
			}
			return buildRun(commonRun(cfg), cfg, args[0])
		},
	}
	return cmd
}

func buildRun(
	logger *slog.Logger,
	cfg *config.Config,
	requestFile string,
) error {
	req, err := config.LoadBuildRequest(requestFile)
	if err != nil {
		return err
	}

	chainCtx, utxosByRef, err := snapshotContext(&req.Chain)
	if err != nil {
		return err
	}

	builder := quoll.NewTransactionBuilder(quoll.BuilderConfig{
		ChainContext: chainCtx,
		Selectors:    selectorsFromConfig(cfg),
		Logger:       logger,
	})

	for _, refStr := range req.Tx.Inputs {
		ref, err := ledger.ParseUtxoRef(refStr)
		if err != nil {
			return err
		}
		utxo, ok := utxosByRef[ref]
		if !ok {
			return fmt.Errorf(
				"explicit input %s not present in snapshot",
				refStr,
			)
		}
		builder.AddInput(utxo)
	}
	for _, addrStr := range req.Tx.InputAddresses {
		addr, err := lcommon.NewAddress(addrStr)
		if err != nil {
			return fmt.Errorf("invalid input address: %w", err)
		}
		builder.AddInputAddress(addr)
	}
	for _, outputSpec := range req.Tx.Outputs {
		addr, err := lcommon.NewAddress(outputSpec.Address)
		if err != nil {
			return fmt.Errorf("invalid output address: %w", err)
		}
		amount, err := specValue(outputSpec.Coin, outputSpec.Assets)
		if err != nil {
			return err
		}
		builder.AddOutput(ledger.TxOutput{
			Address: addr,
			Amount:  amount,
		})
	}
	if req.Tx.Ttl > 0 {
		builder.SetTtl(req.Tx.Ttl)
	}
	if req.Tx.TtlSeconds > 0 {
		if _, err := builder.SetTtlBySeconds(req.Tx.TtlSeconds); err != nil {
			return err
		}
	}
	if req.Tx.ValidityStart > 0 {
		builder.SetValidityStart(req.Tx.ValidityStart)
	}

	var changeAddr *lcommon.Address
	if req.Tx.ChangeAddress != "" {
		addr, err := lcommon.NewAddress(req.Tx.ChangeAddress)
		if err != nil {
			return fmt.Errorf("invalid change address: %w", err)
		}
		changeAddr = &addr
	}

	body, err := builder.Build(changeAddr)
	if err != nil {
		return err
	}
	bodyCbor, err := body.ToCbor()
	if err != nil {
		return err
	}
	bodyHash, err := body.Hash()
	if err != nil {
		return err
	}

	if cfg.OutputJson {
		out := struct {
			BodyCbor string `json:"bodyCbor"`
			BodyHash string `json:"bodyHash"`
			Fee      uint64 `json:"fee"`
			Inputs   int    `json:"inputs"`
			Outputs  int    `json:"outputs"`
		}{
			BodyCbor: hex.EncodeToString(bodyCbor),
			BodyHash: bodyHash.String(),
			Fee:      body.Fee,
			Inputs:   len(body.Inputs),
			Outputs:  len(body.Outputs),
		}
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(&out)
	}
	fmt.Printf("body hash: %s\n", bodyHash.String())
	fmt.Printf("fee:       %d\n", body.Fee)
	fmt.Printf("body cbor: %s\n", hex.EncodeToString(bodyCbor))
	return nil
}

// snapshotContext converts a chain snapshot into an in-memory chain
// context and an index of its UTXOs by reference.
func snapshotContext(
	snapshot *config.ChainSnapshot,
) (*chain.MemChainContext, map[ledger.UtxoRef]ledger.Utxo, error) {
	chainCtx := chain.NewMemChainContext(
		chain.GenesisParams{
			SlotLength:   snapshot.SlotLength,
			NetworkMagic: snapshot.NetworkMagic,
		},
		chain.ProtocolParams{
			MinFeeA:   snapshot.MinFeeA,
			MinFeeB:   snapshot.MinFeeB,
			MaxTxSize: snapshot.MaxTxSize,
		},
	)
	chainCtx.SetSlot(snapshot.Slot)
	utxosByRef := make(map[ledger.UtxoRef]ledger.Utxo)
	for _, utxoSpec := range snapshot.Utxos {
		ref, err := ledger.ParseUtxoRef(utxoSpec.Ref)
		if err != nil {
			return nil, nil, err
		}
		addr, err := lcommon.NewAddress(utxoSpec.Address)
		if err != nil {
			return nil, nil, fmt.Errorf(
				"invalid utxo address: %w",
				err,
			)
		}
		amount, err := specValue(utxoSpec.Coin, utxoSpec.Assets)
		if err != nil {
			return nil, nil, err
		}
		utxo := ledger.Utxo{
			Ref:     ref,
			Address: addr,
			Amount:  amount,
		}
		chainCtx.AddUtxo(utxo)
		utxosByRef[ref] = utxo
	}
	return chainCtx, utxosByRef, nil
}

// specValue converts a coin quantity plus asset specs into a ledger
// Value.
func specValue(
	coin int64,
	assets []config.AssetSpec,
) (ledger.Value, error) {
	value := ledger.NewValue(coin)
	for _, assetSpec := range assets {
		policyBytes, err := hex.DecodeString(assetSpec.PolicyId)
		if err != nil {
			return ledger.Value{}, fmt.Errorf(
				"invalid policy id hex: %w",
				err,
			)
		}
		if len(policyBytes) != 28 {
			return ledger.Value{}, fmt.Errorf(
				"policy id must be 28 bytes, got %d",
				len(policyBytes),
			)
		}
		nameBytes, err := hex.DecodeString(assetSpec.Name)
		if err != nil {
			return ledger.Value{}, fmt.Errorf(
				"invalid asset name hex: %w",
				err,
			)
		}
		if value.Assets == nil {
			value.Assets = make(ledger.MultiAsset)
		}
		policyId := lcommon.NewBlake2b224(policyBytes)
		if value.Assets[policyId] == nil {
			value.Assets[policyId] = make(map[string]int64)
		}
		value.Assets[policyId][string(nameBytes)] = assetSpec.Quantity
	}
	return value, nil
}

func selectorsFromConfig(cfg *config.Config) []selection.Selector {
	switch cfg.Selector {
	case config.SelectorRandomImprove:
		return []selection.Selector{
			&selection.RandomImproveMultiAsset{},
		}
	case config.SelectorLargestFirst:
		return []selection.Selector{
			&selection.LargestFirst{},
		}
	default:
		return nil
	}
}

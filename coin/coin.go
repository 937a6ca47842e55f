// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coin

import (
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/sized"
)

// SingletonAmount - every singleton coin carries exactly one mojo
const SingletonAmount = 1

// Coin - an unspent output
type Coin struct {
	ParentCoinInfo sized.Bytes32 `json:"parent_coin_info"`
	PuzzleHash     sized.Bytes32 `json:"puzzle_hash"`
	Amount         uint64        `json:"amount"`
}

// Name - the coin id
func (c Coin) Name() sized.Bytes32 {
	return sized.Hash(c.ParentCoinInfo[:], c.PuzzleHash[:], clvm.Uint64Bytes(c.Amount))
}

// CoinRecord - a coin and its chain status as reported by a full node
type CoinRecord struct {
	Coin                Coin   `json:"coin"`
	ConfirmedBlockIndex uint32 `json:"confirmed_block_index"`
	SpentBlockIndex     uint32 `json:"spent_block_index"`
	Spent               bool   `json:"spent"`
	Coinbase            bool   `json:"coinbase"`
	Timestamp           uint64 `json:"timestamp"`
}

// Name - id of the recorded coin
func (r CoinRecord) Name() sized.Bytes32 {
	return r.Coin.Name()
}

// CoinSpend - a coin with the puzzle and solution that spend it
type CoinSpend struct {
	Coin         Coin                   `json:"coin"`
	PuzzleReveal clvm.SerializedProgram `json:"puzzle_reveal"`
	Solution     clvm.SerializedProgram `json:"solution"`
}

// SpendBundle - coin spends and one aggregated signature over all of them
type SpendBundle struct {
	CoinSpends          []CoinSpend   `json:"coin_spends"`
	AggregatedSignature sized.Bytes96 `json:"aggregated_signature"`
}

// Name - hash of the serialised bundle
func (b SpendBundle) Name() sized.Bytes32 {
	return sized.Hash(b.Pack())
}

// Removals - the coins consumed by the bundle
func (b SpendBundle) Removals() []Coin {
	removals := make([]Coin, len(b.CoinSpends))
	for i, s := range b.CoinSpends {
		removals[i] = s.Coin
	}
	return removals
}

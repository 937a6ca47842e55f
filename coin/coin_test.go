// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coin_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

func bytes32(b byte) sized.Bytes32 {
	var x sized.Bytes32
	for i := range x {
		x[i] = b
	}
	return x
}

func TestName(t *testing.T) {
	c := coin.Coin{
		ParentCoinInfo: bytes32(0x11),
		PuzzleHash:     bytes32(0x22),
		Amount:         0x80,
	}

	parent := bytes.Repeat([]byte{0x11}, 32)
	puzzleHash := bytes.Repeat([]byte{0x22}, 32)
	expected := sized.Hash(parent, puzzleHash, []byte{0x00, 0x80})
	assert.Equal(t, expected, c.Name(), "coin name")

	c.Amount = 0
	expected = sized.Hash(parent, puzzleHash)
	assert.Equal(t, expected, c.Name(), "zero amount name")
}

func TestRecordJSON(t *testing.T) {
	input := `{
  "coin": {
    "parent_coin_info": "0x1111111111111111111111111111111111111111111111111111111111111111",
    "puzzle_hash": "2222222222222222222222222222222222222222222222222222222222222222",
    "amount": 1
  },
  "confirmed_block_index": 100,
  "spent_block_index": 0,
  "spent": false,
  "coinbase": false,
  "timestamp": 1650000000
}`
	var r coin.CoinRecord
	err := json.Unmarshal([]byte(input), &r)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, bytes32(0x11), r.Coin.ParentCoinInfo, "parent")
	assert.Equal(t, bytes32(0x22), r.Coin.PuzzleHash, "puzzle hash")
	assert.Equal(t, uint64(coin.SingletonAmount), r.Coin.Amount, "amount")
	assert.Equal(t, uint32(100), r.ConfirmedBlockIndex, "confirmed")
	assert.False(t, r.Spent, "spent")
}

func TestBundlePack(t *testing.T) {
	b := coin.SpendBundle{
		CoinSpends: []coin.CoinSpend{
			{
				Coin:         coin.Coin{ParentCoinInfo: bytes32(1), PuzzleHash: bytes32(2), Amount: 1},
				PuzzleReveal: []byte{0xff, 0x01, 0x80},
				Solution:     []byte{0x80},
			},
			{
				Coin:         coin.Coin{ParentCoinInfo: bytes32(3), PuzzleHash: bytes32(4), Amount: 1000},
				PuzzleReveal: []byte{0x85, 'h', 'e', 'l', 'l', 'o'},
				Solution:     []byte{0xff, 0x80, 0x80},
			},
		},
	}
	b.AggregatedSignature[0] = 0xc0

	packed := b.Pack()
	assert.Equal(t, 4+2*72+3+1+6+3+96, len(packed), "packed length")
	assert.Equal(t, sized.Hash(packed), b.Name(), "bundle name")

	u, err := coin.UnpackSpendBundle(packed)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, b.Name(), u.Name(), "same name after unpack")
	assert.Equal(t, []coin.Coin{b.CoinSpends[0].Coin, b.CoinSpends[1].Coin}, u.Removals(), "removals")

	_, err = coin.UnpackSpendBundle(packed[:len(packed)-1])
	assert.Equal(t, fault.ErrTruncatedData, err, "short signature")

	_, err = coin.UnpackSpendBundle([]byte{0xff, 0xff, 0xff, 0xff})
	assert.Equal(t, fault.ErrInvalidCount, err, "absurd count")
}

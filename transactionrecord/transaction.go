// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/json"
	"fmt"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/sized"
)

// TransactionType - direction and origin of a wallet transaction
type TransactionType uint32

// enumerate the possible transaction types
const (
	IncomingTx     = TransactionType(iota)
	OutgoingTx     = TransactionType(iota)
	CoinbaseReward = TransactionType(iota)
	FeeReward      = TransactionType(iota)
	IncomingTrade  = TransactionType(iota)
	OutgoingTrade  = TransactionType(iota)

	// this item must be last
	InvalidType = TransactionType(iota)
)

func (t TransactionType) String() string {
	switch t {
	case IncomingTx:
		return "incoming"
	case OutgoingTx:
		return "outgoing"
	case CoinbaseReward:
		return "coinbase-reward"
	case FeeReward:
		return "fee-reward"
	case IncomingTrade:
		return "incoming-trade"
	case OutgoingTrade:
		return "outgoing-trade"
	default:
		return fmt.Sprintf("invalid(%d)", uint32(t))
	}
}

// TransactionRecord - a wallet level record of a submitted bundle
type TransactionRecord struct {
	ConfirmedAtHeight uint32            `json:"confirmed_at_height"`
	CreatedAtTime     uint64            `json:"created_at_time"`
	ToPuzzleHash      sized.Bytes32     `json:"to_puzzle_hash"`
	Amount            uint64            `json:"amount"`
	FeeAmount         uint64            `json:"fee_amount"`
	Confirmed         bool              `json:"confirmed"`
	Sent              uint32            `json:"sent"`
	SpendBundle       *coin.SpendBundle `json:"spend_bundle"`
	Additions         []coin.Coin       `json:"additions"`
	Removals          []coin.Coin       `json:"removals"`
	WalletID          uint32            `json:"wallet_id"`
	TradeID           *sized.Bytes32    `json:"trade_id"`
	Type              TransactionType   `json:"type"`
	Name              sized.Bytes32     `json:"name"`
}

// Packed - stored form of a record
type Packed []byte

// Pack - convert a record to its stored form
func (r *TransactionRecord) Pack() (Packed, error) {
	return json.Marshal(r)
}

// Unpack - convert the stored form back to a record
func (p Packed) Unpack() (*TransactionRecord, error) {
	r := &TransactionRecord{}
	err := json.Unmarshal(p, r)
	if nil != err {
		return nil, err
	}
	return r, nil
}

// MarkConfirmed - set the confirmation fields once the chain has the spend
func (r *TransactionRecord) MarkConfirmed(height uint32) {
	r.Confirmed = true
	r.ConfirmedAtHeight = height
}

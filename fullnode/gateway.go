// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fullnode

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// Gateway - the full node queries the wallet depends on
type Gateway interface {
	// nil record with nil error when the coin is unknown
	GetCoinRecordByName(ctx context.Context, name sized.Bytes32) (*coin.CoinRecord, error)

	// spend of a spent coin record
	GetCoinSpend(ctx context.Context, record *coin.CoinRecord) (*coin.CoinSpend, error)

	GetCoinRecordsByPuzzleHashes(ctx context.Context, puzzleHashes []sized.Bytes32, includeSpent bool, startHeight uint32, endHeight uint32) ([]coin.CoinRecord, error)
	PushTx(ctx context.Context, bundle *coin.SpendBundle) (TxStatus, error)
	GetBlockchainState(ctx context.Context) (*BlockchainState, error)
}

// TxStatus - mempool inclusion result of push_tx
type TxStatus uint8

// numeric values match the node's MempoolInclusionStatus
const (
	TxSuccess TxStatus = 1
	TxPending TxStatus = 2
	TxFailed  TxStatus = 3
)

func (s TxStatus) String() string {
	switch s {
	case TxSuccess:
		return "SUCCESS"
	case TxPending:
		return "PENDING"
	case TxFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON - the node sends the name
func (s TxStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON - accepts the name or the number
func (s *TxStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); nil == err {
		switch strings.ToUpper(name) {
		case "SUCCESS":
			*s = TxSuccess
		case "PENDING":
			*s = TxPending
		case "FAILED":
			*s = TxFailed
		default:
			return fault.ErrNodeResponseUnsuccessful
		}
		return nil
	}
	var n uint8
	if err := json.Unmarshal(b, &n); nil != err {
		return err
	}
	if n < uint8(TxSuccess) || n > uint8(TxFailed) {
		return fault.ErrNodeResponseUnsuccessful
	}
	*s = TxStatus(n)
	return nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsim

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/sized"
)

// maximum size of a request body
const maxRequestBytes = 4 * 1024 * 1024

type endpoint func(ctx context.Context, body []byte) (interface{}, error)

// Handler - the full node RPC endpoints over HTTP
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()

	endpoints := map[string]endpoint{
		"get_coin_record_by_name":           n.rpcCoinRecordByName,
		"get_puzzle_and_solution":           n.rpcPuzzleAndSolution,
		"get_coin_records_by_puzzle_hashes": n.rpcCoinRecordsByPuzzleHashes,
		"push_tx":                           n.rpcPushTx,
		"get_blockchain_state":              n.rpcBlockchainState,
	}
	for name, e := range endpoints {
		mux.Handle("/"+name, n.serve(name, e))
	}
	return mux
}

func (n *Node) serve(name string, e endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if "POST" != r.Method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if nil != err {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}

		reply, err := e(r.Context(), body)
		if nil != err {
			n.log.Debugf("%s: error: %s", name, err)
			reply = map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(reply)
		if nil != err {
			n.log.Errorf("%s: encode error: %s", name, err)
		}
	})
}

func (n *Node) rpcCoinRecordByName(ctx context.Context, body []byte) (interface{}, error) {
	arguments := struct {
		Name sized.Bytes32 `json:"name"`
	}{}
	if err := json.Unmarshal(body, &arguments); nil != err {
		return nil, err
	}
	record, err := n.GetCoinRecordByName(ctx, arguments.Name)
	if nil != err {
		return nil, err
	}
	if nil == record {
		return nil, fmt.Errorf("coin record %s not found", arguments.Name)
	}
	return struct {
		Success    bool             `json:"success"`
		CoinRecord *coin.CoinRecord `json:"coin_record"`
	}{
		Success:    true,
		CoinRecord: record,
	}, nil
}

func (n *Node) rpcPuzzleAndSolution(ctx context.Context, body []byte) (interface{}, error) {
	arguments := struct {
		CoinID sized.Bytes32 `json:"coin_id"`
		Height uint32        `json:"height"`
	}{}
	if err := json.Unmarshal(body, &arguments); nil != err {
		return nil, err
	}
	record, err := n.GetCoinRecordByName(ctx, arguments.CoinID)
	if nil != err {
		return nil, err
	}
	if nil == record || !record.Spent || record.SpentBlockIndex != arguments.Height {
		return nil, fmt.Errorf("no spend of %s at height %d", arguments.CoinID, arguments.Height)
	}
	spend, err := n.GetCoinSpend(ctx, record)
	if nil != err {
		return nil, err
	}
	return struct {
		Success      bool            `json:"success"`
		CoinSolution *coin.CoinSpend `json:"coin_solution"`
	}{
		Success:      true,
		CoinSolution: spend,
	}, nil
}

func (n *Node) rpcCoinRecordsByPuzzleHashes(ctx context.Context, body []byte) (interface{}, error) {
	arguments := struct {
		PuzzleHashes      []sized.Bytes32 `json:"puzzle_hashes"`
		IncludeSpentCoins bool            `json:"include_spent_coins"`
		StartHeight       uint32          `json:"start_height"`
		EndHeight         uint32          `json:"end_height"`
	}{}
	if err := json.Unmarshal(body, &arguments); nil != err {
		return nil, err
	}
	records, err := n.GetCoinRecordsByPuzzleHashes(ctx, arguments.PuzzleHashes, arguments.IncludeSpentCoins, arguments.StartHeight, arguments.EndHeight)
	if nil != err {
		return nil, err
	}
	return struct {
		Success     bool              `json:"success"`
		CoinRecords []coin.CoinRecord `json:"coin_records"`
	}{
		Success:     true,
		CoinRecords: records,
	}, nil
}

func (n *Node) rpcPushTx(ctx context.Context, body []byte) (interface{}, error) {
	arguments := struct {
		SpendBundle *coin.SpendBundle `json:"spend_bundle"`
	}{}
	if err := json.Unmarshal(body, &arguments); nil != err {
		return nil, err
	}
	if nil == arguments.SpendBundle {
		return nil, fmt.Errorf("spend_bundle is required")
	}
	status, err := n.PushTx(ctx, arguments.SpendBundle)
	if nil != err {
		return nil, err
	}
	if fullnode.TxFailed == status {
		return nil, fmt.Errorf("bundle %s rejected", arguments.SpendBundle.Name())
	}
	return struct {
		Success bool              `json:"success"`
		Status  fullnode.TxStatus `json:"status"`
	}{
		Success: true,
		Status:  status,
	}, nil
}

func (n *Node) rpcBlockchainState(ctx context.Context, body []byte) (interface{}, error) {
	state, err := n.GetBlockchainState(ctx)
	if nil != err {
		return nil, err
	}
	return struct {
		Success         bool                      `json:"success"`
		BlockchainState *fullnode.BlockchainState `json:"blockchain_state"`
	}{
		Success:         true,
		BlockchainState: state,
	}, nil
}

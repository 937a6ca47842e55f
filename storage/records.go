// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/transactionrecord"
)

// HistoryEntry - a pool state and the height of the singleton carrying it
type HistoryEntry struct {
	Height uint32
	State  pool.State
}

// PutTransaction - store a generated transaction under its name
func PutTransaction(r *transactionrecord.TransactionRecord) error {
	packed, err := r.Pack()
	if nil != err {
		return err
	}
	Pool.Transactions.Put(r.Name[:], packed)
	return nil
}

// GetTransaction - fetch a transaction by name
func GetTransaction(name sized.Bytes32) (*transactionrecord.TransactionRecord, error) {
	packed := Pool.Transactions.Get(name[:])
	if nil == packed {
		return nil, errors.Wrapf(fault.ErrTransactionNotFound, "name: %s", name)
	}
	return transactionrecord.Packed(packed).Unpack()
}

// Transactions - every stored transaction in name order
func Transactions() ([]*transactionrecord.TransactionRecord, error) {
	records := make([]*transactionrecord.TransactionRecord, 0)
	err := Pool.Transactions.NewFetchCursor().Map(func(key []byte, value []byte) error {
		r, err := transactionrecord.Packed(value).Unpack()
		if nil != err {
			return err
		}
		records = append(records, r)
		return nil
	})
	return records, err
}

// PutPlotNft - store the latest resolution of a plot nft
//
// a history entry is added when the pool state differs from the
// previously stored one
func PutPlotNft(nft *pool.PlotNft) (bool, error) {
	previous, err := GetPlotNft(nft.LauncherID)
	if nil != err && !fault.IsErrNotFound(err) {
		return false, err
	}

	changed := nil == previous || !bytes.Equal(previous.PoolState.Pack(), nft.PoolState.Pack())

	packed, err := json.Marshal(nft)
	if nil != err {
		return false, err
	}
	Pool.PlotNfts.Put(nft.LauncherID[:], packed)

	if changed {
		Pool.History.Put(historyKey(nft.LauncherID, nft.SingletonCoin.ConfirmedBlockIndex), nft.PoolState.Pack())
	}
	return changed, nil
}

// GetPlotNft - the last stored resolution of a launcher
func GetPlotNft(launcherID sized.Bytes32) (*pool.PlotNft, error) {
	packed := Pool.PlotNfts.Get(launcherID[:])
	if nil == packed {
		return nil, errors.Wrapf(fault.ErrPlotNftNotFound, "launcher: %s", launcherID)
	}
	nft := &pool.PlotNft{}
	if err := json.Unmarshal(packed, nft); nil != err {
		return nil, err
	}
	return nft, nil
}

// DeletePlotNft - forget a launcher and its history
func DeletePlotNft(launcherID sized.Bytes32) error {
	Pool.PlotNfts.Delete(launcherID[:])

	keys := make([][]byte, 0)
	err := Pool.History.NewFetchCursor().Prefix(launcherID[:]).Map(func(key []byte, value []byte) error {
		keys = append(keys, key)
		return nil
	})
	if nil != err {
		return err
	}
	for _, k := range keys {
		Pool.History.Delete(k)
	}
	return nil
}

// History - stored state changes of a launcher in height order
func History(launcherID sized.Bytes32) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)
	err := Pool.History.NewFetchCursor().Prefix(launcherID[:]).Map(func(key []byte, value []byte) error {
		if len(key) != len(launcherID)+4 {
			return fault.ErrInvalidLength
		}
		state, err := pool.Unpack(value)
		if nil != err {
			return err
		}
		entries = append(entries, HistoryEntry{
			Height: binary.BigEndian.Uint32(key[len(launcherID):]),
			State:  state,
		})
		return nil
	})
	return entries, err
}

func historyKey(launcherID sized.Bytes32, height uint32) []byte {
	key := make([]byte, len(launcherID)+4)
	copy(key, launcherID[:])
	binary.BigEndian.PutUint32(key[len(launcherID):], height)
	return key
}

// ReplaceCoins - swap the stored wallet coin set
func ReplaceCoins(records []coin.CoinRecord) error {
	elements := make([]Element, 0, len(records))
	for _, r := range records {
		packed, err := json.Marshal(r)
		if nil != err {
			return err
		}
		name := r.Name()
		elements = append(elements, Element{Key: name[:], Value: packed})
	}
	return Pool.Coins.Replace(elements)
}

// Coins - the stored wallet coin set
func Coins() ([]coin.CoinRecord, error) {
	records := make([]coin.CoinRecord, 0)
	err := Pool.Coins.NewFetchCursor().Map(func(key []byte, value []byte) error {
		r := coin.CoinRecord{}
		if err := json.Unmarshal(value, &r); nil != err {
			return err
		}
		records = append(records, r)
		return nil
	})
	return records, err
}

// Recorder - persists what the wallet produces
type Recorder struct{}

// RecordTransaction - store a generated transaction
func (Recorder) RecordTransaction(r *transactionrecord.TransactionRecord) error {
	return PutTransaction(r)
}

// RecordPlotNft - store a resolution, true if the state changed
func (Recorder) RecordPlotNft(nft *pool.PlotNft) (bool, error) {
	return PutPlotNft(nft)
}

// RecordCoins - store the wallet coin set
func (Recorder) RecordCoins(records []coin.CoinRecord) error {
	return ReplaceCoins(records)
}

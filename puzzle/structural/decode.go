// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package structural

import (
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
)

// SolutionToPoolState - state embedded in a launcher or travel spend
func (d *Driver) SolutionToPoolState(spend coin.CoinSpend) (*pool.State, error) {
	a := clvm.NewAllocator()
	s, err := a.Deserialise(spend.Solution)
	if nil != err {
		return nil, fault.ErrInvalidSolution
	}
	args, err := a.ListItems(s)
	if nil != err || 3 != len(args) {
		return nil, nil
	}

	var kv clvm.NodePtr
	if spend.Coin.PuzzleHash == d.launcherPuzzleHash {
		kv = args[2]
	} else {
		inner, err := a.ListItems(args[2])
		if nil != err || 3 != len(inner) {
			return nil, nil
		}
		kv = inner[1]
	}

	value, found := lookup(a, kv, keyPoolState)
	if !found {
		return nil, nil
	}
	b, ok := a.Atom(value)
	if !ok {
		return nil, fault.ErrCannotDecodeState
	}
	state, err := pool.Unpack(b)
	if nil != err {
		return nil, fault.ErrCannotDecodeState
	}
	return &state, nil
}

// LauncherCoinSpendToExtraData - initial state and delay values
func (d *Driver) LauncherCoinSpendToExtraData(spend coin.CoinSpend) (*pool.ExtraData, error) {
	if spend.Coin.PuzzleHash != d.launcherPuzzleHash {
		return nil, fault.ErrCannotDecodeExtraData
	}
	a := clvm.NewAllocator()
	s, err := a.Deserialise(spend.Solution)
	if nil != err {
		return nil, fault.ErrCannotDecodeExtraData
	}
	args, err := a.ListItems(s)
	if nil != err || 3 != len(args) {
		return nil, fault.ErrCannotDecodeExtraData
	}

	extra := &pool.ExtraData{}

	value, found := lookup(a, args[2], keyPoolState)
	if !found {
		return nil, fault.ErrMissingPoolState
	}
	b, ok := a.Atom(value)
	if !ok {
		return nil, fault.ErrCannotDecodeExtraData
	}
	extra.PoolState, err = pool.Unpack(b)
	if nil != err {
		return nil, fault.ErrCannotDecodeState
	}

	value, found = lookup(a, args[2], keyDelayTime)
	if !found {
		return nil, fault.ErrCannotDecodeExtraData
	}
	extra.DelayTime, err = a.AtomUint64(value)
	if nil != err {
		return nil, fault.ErrCannotDecodeExtraData
	}

	value, found = lookup(a, args[2], keyDelayPuzzleHash)
	if !found {
		return nil, fault.ErrCannotDecodeExtraData
	}
	extra.DelayPuzzleHash, err = atom32(a, value)
	if nil != err {
		return nil, fault.ErrCannotDecodeExtraData
	}
	return extra, nil
}

// MostRecentSingletonCoin - the first odd amount addition
func (d *Driver) MostRecentSingletonCoin(spend coin.CoinSpend) (*coin.Coin, error) {
	additions, err := d.Additions(spend)
	if nil != err {
		return nil, err
	}
	for _, c := range additions {
		if 1 == c.Amount%2 {
			result := c
			return &result, nil
		}
	}
	return nil, nil
}

// find a key in a list of (key . value) pairs
func lookup(a *clvm.Allocator, kv clvm.NodePtr, key string) (clvm.NodePtr, bool) {
	items, err := a.ListItems(kv)
	if nil != err {
		return a.Nil(), false
	}
	for _, item := range items {
		k, v, ok := a.Pair(item)
		if !ok {
			continue
		}
		if b, ok := a.Atom(k); ok && key == string(b) {
			return v, true
		}
	}
	return a.Nil(), false
}

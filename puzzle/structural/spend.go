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
	"github.com/poolkeeper/plotnft/sized"
)

// CreateLauncherSpend - spend of a launcher coin creating the first singleton
func (d *Driver) CreateLauncherSpend(launcherCoin coin.Coin, state pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, error) {
	if launcherCoin.PuzzleHash != d.launcherPuzzleHash {
		return coin.CoinSpend{}, fault.ErrInvalidPuzzle
	}
	launcherID := launcherCoin.Name()
	inner, err := d.PoolStateToInnerPuzzle(state, launcherID, genesisChallenge, delayTime, delayPuzzleHash)
	if nil != err {
		return coin.CoinSpend{}, err
	}
	full, err := d.CreateFullPuzzle(inner, launcherID)
	if nil != err {
		return coin.CoinSpend{}, err
	}
	fullHash := full.TreeHash()

	a := clvm.NewAllocator()
	extra := a.List(
		a.NewPair(a.NewString(keyPoolState), a.NewAtom(state.Pack())),
		a.NewPair(a.NewString(keyDelayTime), a.NewUint64(delayTime)),
		a.NewPair(a.NewString(keyDelayPuzzleHash), a.NewAtom(delayPuzzleHash[:])),
	)
	solution := a.List(a.NewAtom(fullHash[:]), a.NewUint64(launcherCoin.Amount), extra)

	return coin.CoinSpend{
		Coin:         launcherCoin,
		PuzzleReveal: d.LauncherPuzzle().Serialise(),
		Solution:     clvm.SerializedProgram(a.Serialise(solution)),
	}, nil
}

// CreateTravelSpend - spend the current singleton towards the next state
func (d *Driver) CreateTravelSpend(prior coin.CoinSpend, launcherCoin coin.Coin, current pool.State, next pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, clvm.Program, error) {
	launcherID := launcherCoin.Name()
	inner, err := d.PoolStateToInnerPuzzle(current, launcherID, genesisChallenge, delayTime, delayPuzzleHash)
	if nil != err {
		return coin.CoinSpend{}, clvm.Program{}, err
	}

	var destination sized.Bytes32
	if memberTag == tagOf(inner.Arena, inner.Node) {
		items, _ := inner.Arena.ListItems(inner.Node)
		b, _ := inner.Arena.Atom(items[5])
		copy(destination[:], b)
	} else {
		target, err := d.PoolStateToInnerPuzzle(next, launcherID, genesisChallenge, delayTime, delayPuzzleHash)
		if nil != err {
			return coin.CoinSpend{}, clvm.Program{}, err
		}
		destination = target.TreeHash()
	}

	a := clvm.NewAllocator()
	innerSolution := a.List(
		a.NewUint64(spendTravel),
		a.List(a.NewPair(a.NewString(keyPoolState), a.NewAtom(next.Pack()))),
		a.NewAtom(destination[:]),
	)

	spend, err := d.singletonSpend(a, prior, launcherCoin, inner, innerSolution)
	if nil != err {
		return coin.CoinSpend{}, clvm.Program{}, err
	}
	return spend, inner, nil
}

// CreateAbsorbSpend - recreate the singleton unchanged, carrying no state
func (d *Driver) CreateAbsorbSpend(prior coin.CoinSpend, launcherCoin coin.Coin, current pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, error) {
	inner, err := d.PoolStateToInnerPuzzle(current, launcherCoin.Name(), genesisChallenge, delayTime, delayPuzzleHash)
	if nil != err {
		return coin.CoinSpend{}, err
	}
	a := clvm.NewAllocator()
	innerSolution := a.List(a.NewUint64(spendAbsorb), a.Nil(), a.Nil())
	return d.singletonSpend(a, prior, launcherCoin, inner, innerSolution)
}

// build the top layer spend of the singleton created by prior
func (d *Driver) singletonSpend(a *clvm.Allocator, prior coin.CoinSpend, launcherCoin coin.Coin, inner clvm.Program, innerSolution clvm.NodePtr) (coin.CoinSpend, error) {
	singleton, err := d.MostRecentSingletonCoin(prior)
	if nil != err {
		return coin.CoinSpend{}, err
	}
	if nil == singleton {
		return coin.CoinSpend{}, fault.ErrNoSingletonAddition
	}

	launcherID := launcherCoin.Name()
	full, err := d.CreateFullPuzzle(inner, launcherID)
	if nil != err {
		return coin.CoinSpend{}, err
	}
	if full.TreeHash() != singleton.PuzzleHash {
		return coin.CoinSpend{}, fault.ErrPuzzleHashMismatch
	}

	var lineage clvm.NodePtr
	if prior.Coin.PuzzleHash == d.launcherPuzzleHash {
		lineage = a.List(
			a.NewAtom(launcherCoin.ParentCoinInfo[:]),
			a.NewUint64(launcherCoin.Amount),
		)
	} else {
		parentInner, err := innerPuzzleHash(prior.PuzzleReveal)
		if nil != err {
			return coin.CoinSpend{}, err
		}
		lineage = a.List(
			a.NewAtom(prior.Coin.ParentCoinInfo[:]),
			a.NewAtom(parentInner[:]),
			a.NewUint64(prior.Coin.Amount),
		)
	}

	solution := a.List(lineage, a.NewUint64(singleton.Amount), innerSolution)
	return coin.CoinSpend{
		Coin:         *singleton,
		PuzzleReveal: full.Serialise(),
		Solution:     clvm.SerializedProgram(a.Serialise(solution)),
	}, nil
}

// tag atom of a puzzle list, empty when not a tagged list
func tagOf(a *clvm.Allocator, n clvm.NodePtr) string {
	first, _, ok := a.Pair(n)
	if !ok {
		return ""
	}
	tag, ok := a.Atom(first)
	if !ok {
		return ""
	}
	return string(tag)
}

// hash of the inner puzzle of a full singleton puzzle
func innerPuzzleHash(full clvm.SerializedProgram) (sized.Bytes32, error) {
	p, err := full.Program()
	if nil != err {
		return sized.Bytes32{}, err
	}
	if singletonTag != tagOf(p.Arena, p.Node) {
		return sized.Bytes32{}, fault.ErrInvalidPuzzle
	}
	items, err := p.Arena.ListItems(p.Node)
	if nil != err || 3 != len(items) {
		return sized.Bytes32{}, fault.ErrInvalidPuzzle
	}
	return p.Arena.TreeHash(items[2]), nil
}

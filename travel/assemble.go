// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package travel

import (
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// Result - an unsigned travel spend and what it was built from
type Result struct {
	Spend     coin.CoinSpend
	NextState pool.State

	// the singleton being spent, first addition of the prior spend
	Singleton coin.Coin

	OldInnerPuzzle    clvm.Program
	NewInnerPuzzle    clvm.Program
	NewFullPuzzleHash sized.Bytes32
}

// NextState - the state a travel spend moves to
//
// a farming singleton must leave first whatever was requested, every
// other field of the current state is kept
func NextState(current pool.State, target pool.State) pool.State {
	if pool.FarmingToPool != current.State {
		return target
	}
	next := current
	next.Version = pool.ProtocolVersion
	next.State = pool.LeavingPool
	return next
}

// Assemble - build the travel spend from the prior tip spend
//
// prior is the spend that created the current singleton
func Assemble(driver puzzle.Driver, prior coin.CoinSpend, launcherCoin coin.Coin, nft *pool.PlotNft, target pool.State, parameters *chain.Parameters) (*Result, error) {
	next := NextState(nft.PoolState, target)
	if err := next.Validate(); nil != err {
		return nil, err
	}

	launcherID := launcherCoin.Name()
	newInner, err := driver.PoolStateToInnerPuzzle(next, launcherID, parameters.GenesisChallenge, nft.DelayTime, nft.DelayPuzzleHash)
	if nil != err {
		return nil, err
	}
	newFull, err := driver.CreateFullPuzzle(newInner, launcherID)
	if nil != err {
		return nil, err
	}

	spend, oldInner, err := driver.CreateTravelSpend(prior, launcherCoin, nft.PoolState, next, parameters.GenesisChallenge, nft.DelayTime, nft.DelayPuzzleHash)
	if nil != err {
		return nil, err
	}

	additions, err := driver.Additions(prior)
	if nil != err {
		return nil, err
	}
	if 0 == len(additions) {
		return nil, errors.Wrapf(fault.ErrMissingPriorAdditions, "prior: %s", prior.Coin.Name())
	}
	singleton := additions[0]

	if spend.Coin.ParentCoinInfo != prior.Coin.Name() {
		return nil, errors.Wrapf(fault.ErrParentMismatch, "parent: %s  prior: %s", spend.Coin.ParentCoinInfo, prior.Coin.Name())
	}
	if spend.Coin.Name() != singleton.Name() {
		return nil, errors.Wrapf(fault.ErrSingletonIDMismatch, "spend: %s  singleton: %s", spend.Coin.Name(), singleton.Name())
	}
	if newInner.Equal(oldInner) {
		return nil, errors.Wrapf(fault.ErrInnerPuzzleUnchanged, "state: %s", next.State)
	}

	return &Result{
		Spend:             spend,
		NextState:         next,
		Singleton:         singleton,
		OldInnerPuzzle:    oldInner,
		NewInnerPuzzle:    newInner,
		NewFullPuzzleHash: newFull.TreeHash(),
	}, nil
}

// checkRemovals - the signed bundle must spend the singleton first
func checkRemovals(bundle *coin.SpendBundle, singleton coin.Coin) error {
	removals := bundle.Removals()
	if 0 == len(removals) {
		return errors.Wrap(fault.ErrBundleRemovalMismatch, "no removals")
	}
	if removals[0].PuzzleHash != singleton.PuzzleHash {
		return errors.Wrapf(fault.ErrBundleRemovalMismatch, "puzzle hash: %s  singleton: %s", removals[0].PuzzleHash, singleton.PuzzleHash)
	}
	if removals[0].Name() != singleton.Name() {
		return errors.Wrapf(fault.ErrBundleRemovalMismatch, "coin: %s  singleton: %s", removals[0].Name(), singleton.Name())
	}
	return nil
}

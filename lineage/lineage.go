// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lineage

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// Lineage - result of walking a singleton from its launcher
type Lineage struct {
	PlotNft      pool.PlotNft
	LauncherCoin coin.CoinRecord

	// spend of the tip's parent, the launcher spend for a new singleton
	LastSpend coin.CoinSpend

	// number of singleton spends after the launcher
	Depth int
}

// Walker - replays singleton spend chains through a full node
type Walker struct {
	log    *logger.L
	node   fullnode.Gateway
	driver puzzle.Driver
}

// New - create a walker
func New(log *logger.L, node fullnode.Gateway, driver puzzle.Driver) *Walker {
	return &Walker{
		log:    log,
		node:   node,
		driver: driver,
	}
}

// Resolve - current PlotNft of a launcher
func (w *Walker) Resolve(ctx context.Context, launcherID sized.Bytes32) (*pool.PlotNft, error) {
	l, err := w.Walk(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	return &l.PlotNft, nil
}

// CurrentState - pool state and the most recent spend of a singleton
func (w *Walker) CurrentState(ctx context.Context, launcherID sized.Bytes32) (*pool.State, *coin.CoinSpend, error) {
	l, err := w.Walk(ctx, launcherID)
	if nil != err {
		return nil, nil, err
	}
	state := l.PlotNft.PoolState
	spend := l.LastSpend
	return &state, &spend, nil
}

// Walk - follow the singleton from its launcher to the unspent tip
//
// spends without an embedded state keep the last known state
func (w *Walker) Walk(ctx context.Context, launcherID sized.Bytes32) (*Lineage, error) {
	launcher, err := w.node.GetCoinRecordByName(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	if nil == launcher {
		return nil, errors.Wrapf(fault.ErrLauncherNotFound, "launcher: %s", launcherID)
	}
	if !launcher.Spent {
		return nil, errors.Wrapf(fault.ErrLauncherNotSpent, "launcher: %s", launcherID)
	}

	spend, err := w.node.GetCoinSpend(ctx, launcher)
	if nil != err {
		return nil, err
	}
	extra, err := w.driver.LauncherCoinSpendToExtraData(*spend)
	if nil != err {
		return nil, errors.Wrapf(err, "launcher: %s", launcherID)
	}
	child, err := w.driver.MostRecentSingletonCoin(*spend)
	if nil != err {
		return nil, err
	}
	if nil == child {
		return nil, errors.Wrapf(fault.ErrNoSingletonChild, "launcher: %s", launcherID)
	}

	state := extra.PoolState
	last := *spend
	depth := 0

	for {
		if err := ctx.Err(); nil != err {
			return nil, err
		}

		id := child.Name()
		record, err := w.node.GetCoinRecordByName(ctx, id)
		if nil != err {
			return nil, err
		}
		if nil == record {
			w.log.Errorf("launcher: %s  broken lineage at depth: %d  missing coin: %s", launcherID, depth, id)
			return nil, errors.Wrapf(fault.ErrCoinNotFound, "singleton: %s", id)
		}

		if !record.Spent {
			w.log.Debugf("launcher: %s  tip: %s  depth: %d  state: %s", launcherID, id, depth, state.State)
			return &Lineage{
				PlotNft: pool.PlotNft{
					LauncherID:      launcherID,
					SingletonCoin:   *record,
					PoolState:       state,
					DelayTime:       extra.DelayTime,
					DelayPuzzleHash: extra.DelayPuzzleHash,
				},
				LauncherCoin: *launcher,
				LastSpend:    last,
				Depth:        depth,
			}, nil
		}

		spend, err := w.node.GetCoinSpend(ctx, record)
		if nil != err {
			return nil, err
		}
		embedded, err := w.driver.SolutionToPoolState(*spend)
		if nil != err {
			return nil, errors.Wrapf(err, "singleton: %s", id)
		}
		if nil != embedded {
			w.log.Tracef("launcher: %s  depth: %d  state: %s", launcherID, depth, embedded.State)
			state = *embedded
		}

		child, err = w.driver.MostRecentSingletonCoin(*spend)
		if nil != err {
			return nil, err
		}
		if nil == child {
			w.log.Errorf("launcher: %s  lineage ends at spent coin: %s", launcherID, id)
			return nil, errors.Wrapf(fault.ErrNoSingletonChild, "singleton: %s", id)
		}

		last = *spend
		depth += 1
	}
}

// Scrounge - plot nfts launched from coins locked by the puzzle hashes
//
// launchers whose lineage cannot be resolved are skipped
func (w *Walker) Scrounge(ctx context.Context, puzzleHashes []sized.Bytes32) ([]pool.PlotNft, error) {
	records, err := w.node.GetCoinRecordsByPuzzleHashes(ctx, puzzleHashes, true, 0, 0)
	if nil != err {
		return nil, err
	}

	launcherPuzzleHash := w.driver.LauncherPuzzleHash()
	seen := make(map[sized.Bytes32]struct{})
	found := make([]pool.PlotNft, 0)

	for i := range records {
		record := &records[i]
		if !record.Spent {
			continue
		}
		spend, err := w.node.GetCoinSpend(ctx, record)
		if nil != err {
			return nil, err
		}
		additions, err := w.driver.Additions(*spend)
		if nil != err {
			w.log.Warnf("coin: %s  cannot evaluate spend: %s", record.Name(), err)
			continue
		}
		for _, child := range additions {
			if child.PuzzleHash != launcherPuzzleHash {
				continue
			}
			launcherID := child.Name()
			if _, ok := seen[launcherID]; ok {
				continue
			}
			seen[launcherID] = struct{}{}

			nft, err := w.Resolve(ctx, launcherID)
			if nil != err {
				if fault.IsErrNotFound(err) || fault.IsErrInvalid(err) {
					w.log.Warnf("launcher: %s  skipped: %s", launcherID, err)
					continue
				}
				return nil, err
			}
			w.log.Infof("found plot nft: %s  state: %s", launcherID, nft.PoolState.State)
			found = append(found, *nft)
		}
	}
	return found, nil
}

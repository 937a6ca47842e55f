// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/sized"
)

// PlotNft - a singleton identity with its current pool state
//
// derived from the chain on each resolution, callers caching it must
// invalidate when the singleton is spent
type PlotNft struct {
	LauncherID      sized.Bytes32   `json:"launcher_id"`
	SingletonCoin   coin.CoinRecord `json:"singleton_coin"`
	PoolState       State           `json:"pool_state"`
	DelayTime       uint64          `json:"delay_time"`
	DelayPuzzleHash sized.Bytes32   `json:"delay_puzzle_hash"`
}

// ExtraData - values fixed at launch, decoded from the launcher spend
type ExtraData struct {
	PoolState       State
	DelayTime       uint64
	DelayPuzzleHash sized.Bytes32
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzle

import (
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
)

// Singleton - construction and decoding of pool singleton puzzles
type Singleton interface {
	LauncherPuzzleHash() sized.Bytes32
	PoolStateToInnerPuzzle(state pool.State, launcherID sized.Bytes32, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (clvm.Program, error)
	CreateFullPuzzle(inner clvm.Program, launcherID sized.Bytes32) (clvm.Program, error)

	// returns the outgoing spend and the inner puzzle it replaces
	CreateTravelSpend(prior coin.CoinSpend, launcherCoin coin.Coin, current pool.State, next pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, clvm.Program, error)

	// nil state with nil error when the spend carries no state
	SolutionToPoolState(spend coin.CoinSpend) (*pool.State, error)
	LauncherCoinSpendToExtraData(spend coin.CoinSpend) (*pool.ExtraData, error)

	// nil coin with nil error when the spend creates no singleton
	MostRecentSingletonCoin(spend coin.CoinSpend) (*coin.Coin, error)
}

// Standard - the standard wallet puzzle
type Standard interface {
	StandardPuzzleHash(pk sized.Bytes48) sized.Bytes32
	CreateStandardSpend(c coin.Coin, pk sized.Bytes48, conditions []Condition) (coin.CoinSpend, error)
}

// Evaluator - the results of running a spend
type Evaluator interface {
	Conditions(spend coin.CoinSpend) ([]Condition, error)
	Additions(spend coin.CoinSpend) ([]coin.Coin, error)
	RequiredSignatures(spend coin.CoinSpend, additionalData sized.Bytes32) ([]SignatureTarget, error)
}

// Driver - everything the wallet needs from a puzzle implementation
type Driver interface {
	Singleton
	Standard
	Evaluator
}

// SignatureTarget - a public key and the exact message it must sign
type SignatureTarget struct {
	PublicKey sized.Bytes48
	Message   []byte
}

// BundleAdditions - additions of every spend in a bundle
func BundleAdditions(e Evaluator, bundle coin.SpendBundle) ([]coin.Coin, error) {
	additions := make([]coin.Coin, 0, len(bundle.CoinSpends))
	for _, s := range bundle.CoinSpends {
		a, err := e.Additions(s)
		if nil != err {
			return nil, err
		}
		additions = append(additions, a...)
	}
	return additions, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixtures

import (
	"context"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/chainsim"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/puzzle/structural"
	"github.com/poolkeeper/plotnft/signer"
	"github.com/poolkeeper/plotnft/sized"
)

// launch values shared by every fixture plot nft
var (
	DelayTime       = uint64(604800)
	DelayPuzzleHash = sized.Hash([]byte("fixture delay puzzle"))
)

// Chain - simulator node plus the helpers to build singleton histories
type Chain struct {
	Node       *chainsim.Node
	Driver     *structural.Driver
	Parameters *chain.Parameters
	Signer     *signer.Signer
}

// Launched - client side view of a fixture singleton
type Launched struct {
	LauncherCoin coin.Coin
	LastSpend    coin.CoinSpend
	State        pool.State
}

// LauncherID - identity of the singleton
func (l *Launched) LauncherID() sized.Bytes32 {
	return l.LauncherCoin.Name()
}

// NewChain - empty simulator chain
func NewChain() *Chain {
	d := structural.New()
	p := Parameters()
	log := logger.New(LogCategory)
	return &Chain{
		Node:       chainsim.New(log, d, p),
		Driver:     d,
		Parameters: p,
		Signer:     signer.New(log, d, p.AggSigMeAdditionalData),
	}
}

// Fund - farm a standard coin for the key
func (c *Chain) Fund(sk *bls.SecretKey, amount uint64) coin.CoinRecord {
	return c.Node.Farm(c.Driver.StandardPuzzleHash(sk.PublicKey()), amount)
}

// SelfPooling - initial state paying rewards to the owner's own puzzle hash
func (c *Chain) SelfPooling(owner *bls.SecretKey) pool.State {
	pk := owner.PublicKey()
	return pool.State{
		Version:          pool.ProtocolVersion,
		State:            pool.SelfPooling,
		TargetPuzzleHash: c.Driver.StandardPuzzleHash(pk),
		OwnerPubkey:      pk,
	}
}

// FarmingTo - join a pool
func FarmingTo(current pool.State, url string, lockHeight uint32) pool.State {
	next := current
	next.Version = pool.ProtocolVersion
	next.State = pool.FarmingToPool
	next.PoolURL = url
	next.TargetPuzzleHash = sized.Hash([]byte("pool target: " + url))
	next.RelativeLockHeight = lockHeight
	return next
}

// Leaving - the forced exit state of a farming singleton
func Leaving(current pool.State) pool.State {
	next := current
	next.State = pool.LeavingPool
	return next
}

// Launch - fund a launcher from the wallet key and create the singleton
func (c *Chain) Launch(wallet *bls.SecretKey, state pool.State) (*Launched, error) {
	ctx := context.Background()
	pk := wallet.PublicKey()
	funding := c.Fund(wallet, 1001)

	launcherCoin := coin.Coin{
		ParentCoinInfo: funding.Name(),
		PuzzleHash:     c.Driver.LauncherPuzzleHash(),
		Amount:         coin.SingletonAmount,
	}
	create, err := c.Driver.CreateStandardSpend(funding.Coin, pk, []puzzle.Condition{
		puzzle.NewCreateCoin(launcherCoin.PuzzleHash, launcherCoin.Amount),
		puzzle.NewCreateCoin(funding.Coin.PuzzleHash, funding.Coin.Amount-launcherCoin.Amount),
	})
	if nil != err {
		return nil, err
	}
	bundle, err := c.Signer.Sign(ctx, create, keychain.NewFixedKey(wallet))
	if nil != err {
		return nil, err
	}
	if err := c.Node.Apply(bundle); nil != err {
		return nil, errors.Wrap(err, "create launcher")
	}

	spend, err := c.Driver.CreateLauncherSpend(launcherCoin, state, c.Parameters.GenesisChallenge, DelayTime, DelayPuzzleHash)
	if nil != err {
		return nil, err
	}
	bundle, err = c.Signer.Sign(ctx, spend, keychain.NewFixedKey(wallet))
	if nil != err {
		return nil, err
	}
	if err := c.Node.Apply(bundle); nil != err {
		return nil, errors.Wrap(err, "spend launcher")
	}

	return &Launched{
		LauncherCoin: launcherCoin,
		LastSpend:    spend,
		State:        state,
	}, nil
}

// LaunchUnspent - a launcher coin that was never spent
func (c *Chain) LaunchUnspent(wallet *bls.SecretKey) (sized.Bytes32, error) {
	pk := wallet.PublicKey()
	funding := c.Fund(wallet, 1)
	launcherCoin := coin.Coin{
		ParentCoinInfo: funding.Name(),
		PuzzleHash:     c.Driver.LauncherPuzzleHash(),
		Amount:         coin.SingletonAmount,
	}
	create, err := c.Driver.CreateStandardSpend(funding.Coin, pk, []puzzle.Condition{
		puzzle.NewCreateCoin(launcherCoin.PuzzleHash, launcherCoin.Amount),
	})
	if nil != err {
		return sized.Bytes32{}, err
	}
	bundle, err := c.Signer.Sign(context.Background(), create, keychain.NewFixedKey(wallet))
	if nil != err {
		return sized.Bytes32{}, err
	}
	return launcherCoin.Name(), c.Node.Apply(bundle)
}

// Travel - move the singleton to the next state signed by the owner
//
// the lock height of a waiting room is waited out first
func (c *Chain) Travel(l *Launched, owner *bls.SecretKey, next pool.State) error {
	spend, _, err := c.Driver.CreateTravelSpend(l.LastSpend, l.LauncherCoin, l.State, next, c.Parameters.GenesisChallenge, DelayTime, DelayPuzzleHash)
	if nil != err {
		return err
	}
	bundle, err := c.Signer.Sign(context.Background(), spend, keychain.NewFixedKey(owner))
	if nil != err {
		return err
	}
	if pool.FarmingToPool != l.State.State {
		c.Node.AdvanceHeight(l.State.RelativeLockHeight)
	}
	if err := c.Node.Apply(bundle); nil != err {
		return err
	}
	l.LastSpend = spend
	l.State = next
	return nil
}

// Absorb - a spend that recreates the singleton without a state
func (c *Chain) Absorb(l *Launched) error {
	spend, err := c.Driver.CreateAbsorbSpend(l.LastSpend, l.LauncherCoin, l.State, c.Parameters.GenesisChallenge, DelayTime, DelayPuzzleHash)
	if nil != err {
		return err
	}
	bundle, err := c.Signer.Sign(context.Background(), spend, keychain.NewFixedKey(Key("nobody")))
	if nil != err {
		return err
	}
	if err := c.Node.Apply(bundle); nil != err {
		return err
	}
	l.LastSpend = spend
	return nil
}

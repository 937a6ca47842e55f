// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package lineage_test

import (
	"context"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fixtures"
	"github.com/poolkeeper/plotnft/fullnode/mocks"
	"github.com/poolkeeper/plotnft/lineage"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
)

func newWalker(c *fixtures.Chain) *lineage.Walker {
	return lineage.New(logger.New(fixtures.LogCategory), c.Node, c.Driver)
}

// SELF_POOLING → FARMING_TO_POOL → LEAVING_POOL → FARMING_TO_POOL(new target)
func threeTravels(t *testing.T, c *fixtures.Chain) *fixtures.Launched {
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")

	farming := fixtures.FarmingTo(l.State, "https://one.example.com", 20)
	assert.Nil(t, c.Travel(l, owner, farming), "join")
	assert.Nil(t, c.Travel(l, owner, fixtures.Leaving(farming)), "leave")
	assert.Nil(t, c.Travel(l, owner, fixtures.FarmingTo(l.State, "https://two.example.com", 40)), "join again")
	return l
}

func TestResolveLatestState(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	l := threeTravels(t, c)

	nft, err := newWalker(c).Resolve(context.Background(), l.LauncherID())
	assert.Nil(t, err, "resolve")
	assert.Equal(t, l.State, nft.PoolState, "not the third spend's state")
	assert.Equal(t, "https://two.example.com", nft.PoolState.PoolURL, "wrong pool")
	assert.Equal(t, uint32(40), nft.PoolState.RelativeLockHeight, "wrong lock height")
	assert.Equal(t, l.LauncherID(), nft.LauncherID, "launcher id")
	assert.Equal(t, fixtures.DelayTime, nft.DelayTime, "delay time")
	assert.Equal(t, fixtures.DelayPuzzleHash, nft.DelayPuzzleHash, "delay puzzle hash")
	assert.False(t, nft.SingletonCoin.Spent, "tip must be unspent")
	assert.Equal(t, l.LastSpend.Coin.Name(), nft.SingletonCoin.Coin.ParentCoinInfo, "tip parent")
}

func TestResolveIsRepeatable(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	l := threeTravels(t, c)
	w := newWalker(c)

	first, err := w.Resolve(context.Background(), l.LauncherID())
	assert.Nil(t, err, "first resolve")
	second, err := w.Resolve(context.Background(), l.LauncherID())
	assert.Nil(t, err, "second resolve")
	assert.Equal(t, first, second, "resolutions differ")
	assert.Equal(t, first.PoolState.Pack(), second.PoolState.Pack(), "packed states differ")
}

func TestWalkCarriesStateThroughAbsorb(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")

	farming := fixtures.FarmingTo(l.State, "https://one.example.com", 10)
	assert.Nil(t, c.Travel(l, owner, farming), "join")
	assert.Nil(t, c.Absorb(l), "first absorb")
	assert.Nil(t, c.Absorb(l), "second absorb")

	lin, err := newWalker(c).Walk(context.Background(), l.LauncherID())
	assert.Nil(t, err, "walk")
	assert.Equal(t, farming, lin.PlotNft.PoolState, "state lost after absorb")
	assert.Equal(t, 3, lin.Depth, "wrong depth")
	assert.Equal(t, l.LastSpend, lin.LastSpend, "wrong last spend")
	assert.Equal(t, l.LauncherCoin, lin.LauncherCoin.Coin, "wrong launcher")
}

func TestNewSingletonLastSpendIsLauncher(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	owner := fixtures.Key("owner")
	initial := c.SelfPooling(owner)
	l, err := c.Launch(fixtures.Key("wallet"), initial)
	assert.Nil(t, err, "launch")

	state, spend, err := newWalker(c).CurrentState(context.Background(), l.LauncherID())
	assert.Nil(t, err, "current state")
	assert.Equal(t, initial, *state, "initial state")
	assert.Equal(t, l.LauncherCoin, spend.Coin, "last spend is the launcher spend")
}

func TestLauncherNotSpent(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	launcherID, err := c.LaunchUnspent(fixtures.Key("wallet"))
	assert.Nil(t, err, "create launcher")

	_, err = newWalker(c).Resolve(context.Background(), launcherID)
	assert.True(t, fault.IsErrInvalid(err), "expected invalid data, got: %v", err)
}

func TestLauncherNotFound(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	_, err := newWalker(c).Resolve(context.Background(), sized.Hash([]byte("nothing")))
	assert.True(t, fault.IsErrNotFound(err), "expected not found, got: %v", err)
}

func TestBrokenLineage(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := fixtures.NewChain()
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(fixtures.Key("owner")))
	assert.Nil(t, err, "launch")

	ctx := context.Background()
	launcher, _ := c.Node.GetCoinRecordByName(ctx, l.LauncherID())
	child, _ := c.Driver.MostRecentSingletonCoin(l.LastSpend)

	node := mocks.NewMockGateway(ctl)
	node.EXPECT().GetCoinRecordByName(gomock.Any(), l.LauncherID()).Return(launcher, nil).Times(1)
	node.EXPECT().GetCoinSpend(gomock.Any(), launcher).Return(&l.LastSpend, nil).Times(1)
	node.EXPECT().GetCoinRecordByName(gomock.Any(), child.Name()).Return(nil, nil).Times(1)

	_, err = lineage.New(logger.New(fixtures.LogCategory), node, c.Driver).Resolve(ctx, l.LauncherID())
	assert.True(t, fault.IsErrNotFound(err), "expected not found, got: %v", err)
}

func TestLineageWithoutSuccessor(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	c := fixtures.NewChain()
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(fixtures.Key("owner")))
	assert.Nil(t, err, "launch")

	ctx := context.Background()
	launcher, _ := c.Node.GetCoinRecordByName(ctx, l.LauncherID())
	child, _ := c.Driver.MostRecentSingletonCoin(l.LastSpend)

	// the singleton shows as spent by a standard spend that creates nothing odd
	spent := &coin.CoinRecord{Coin: *child, ConfirmedBlockIndex: 3, SpentBlockIndex: 4, Spent: true}
	wallet := fixtures.Key("wallet").PublicKey()
	terminal, err := c.Driver.CreateStandardSpend(coin.Coin{
		ParentCoinInfo: child.ParentCoinInfo,
		PuzzleHash:     c.Driver.StandardPuzzleHash(wallet),
		Amount:         1,
	}, wallet, nil)
	assert.Nil(t, err, "terminal spend")

	node := mocks.NewMockGateway(ctl)
	node.EXPECT().GetCoinRecordByName(gomock.Any(), l.LauncherID()).Return(launcher, nil).Times(1)
	node.EXPECT().GetCoinSpend(gomock.Any(), launcher).Return(&l.LastSpend, nil).Times(1)
	node.EXPECT().GetCoinRecordByName(gomock.Any(), child.Name()).Return(spent, nil).Times(1)
	node.EXPECT().GetCoinSpend(gomock.Any(), spent).Return(&terminal, nil).Times(1)

	_, err = lineage.New(logger.New(fixtures.LogCategory), node, c.Driver).Resolve(ctx, l.LauncherID())
	assert.Equal(t, fault.ErrNoSingletonChild, errors.Cause(err), "expected no successor")
}

func TestCancelledWalk(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	l := threeTravels(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newWalker(c).Resolve(ctx, l.LauncherID())
	assert.Equal(t, context.Canceled, err, "expected cancellation")
}

func TestScrounge(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	wallet := fixtures.Key("wallet")
	owner := fixtures.Key("owner")

	first, err := c.Launch(wallet, c.SelfPooling(owner))
	assert.Nil(t, err, "first launch")
	second, err := c.Launch(wallet, c.SelfPooling(owner))
	assert.Nil(t, err, "second launch")
	assert.Nil(t, c.Travel(second, owner, fixtures.FarmingTo(second.State, "https://one.example.com", 5)), "join")

	// an unspent launcher is not a plot nft
	_, err = c.LaunchUnspent(wallet)
	assert.Nil(t, err, "unspent launcher")

	// someone else's plot nft
	_, err = c.Launch(fixtures.Key("stranger"), c.SelfPooling(owner))
	assert.Nil(t, err, "stranger launch")

	found, err := newWalker(c).Scrounge(context.Background(), []sized.Bytes32{c.Driver.StandardPuzzleHash(wallet.PublicKey())})
	assert.Nil(t, err, "scrounge")
	assert.Equal(t, 2, len(found), "wrong number of plot nfts")

	states := map[sized.Bytes32]pool.MembershipState{}
	for _, nft := range found {
		states[nft.LauncherID] = nft.PoolState.State
	}
	assert.Equal(t, pool.SelfPooling, states[first.LauncherID()], "first state")
	assert.Equal(t, pool.FarmingToPool, states[second.LauncherID()], "second state")
}

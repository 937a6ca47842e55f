// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package travel_test

import (
	"context"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fixtures"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/lineage"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/puzzle/structural"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/transactionrecord"
	"github.com/poolkeeper/plotnft/travel"
)

// pays a fee from a freshly farmed wallet coin
type feeSource struct {
	c      *fixtures.Chain
	wallet *bls.SecretKey
}

func (f *feeSource) GenerateFeeTransaction(ctx context.Context, fee uint64) (*transactionrecord.TransactionRecord, error) {
	pk := f.wallet.PublicKey()
	funding := f.c.Fund(f.wallet, 100)
	spend, err := f.c.Driver.CreateStandardSpend(funding.Coin, pk, []puzzle.Condition{
		puzzle.NewCreateCoin(funding.Coin.PuzzleHash, funding.Coin.Amount-fee),
	})
	if nil != err {
		return nil, err
	}
	bundle, err := f.c.Signer.Sign(ctx, spend, keychain.NewFixedKey(f.wallet))
	if nil != err {
		return nil, err
	}
	return &transactionrecord.TransactionRecord{
		FeeAmount:   fee,
		SpendBundle: bundle,
		Removals:    bundle.Removals(),
		Type:        transactionrecord.OutgoingTx,
		Name:        bundle.Name(),
	}, nil
}

// a travel spend whose coin claims another parent
type wrongParentDriver struct {
	*structural.Driver
}

func (d wrongParentDriver) CreateTravelSpend(prior coin.CoinSpend, launcherCoin coin.Coin, current pool.State, next pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, clvm.Program, error) {
	spend, inner, err := d.Driver.CreateTravelSpend(prior, launcherCoin, current, next, genesisChallenge, delayTime, delayPuzzleHash)
	spend.Coin.ParentCoinInfo = sized.Hash([]byte("somewhere else"))
	return spend, inner, err
}

// a travel spend from the right parent but for a different coin
type wrongSingletonDriver struct {
	*structural.Driver
}

func (d wrongSingletonDriver) CreateTravelSpend(prior coin.CoinSpend, launcherCoin coin.Coin, current pool.State, next pool.State, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (coin.CoinSpend, clvm.Program, error) {
	spend, inner, err := d.Driver.CreateTravelSpend(prior, launcherCoin, current, next, genesisChallenge, delayTime, delayPuzzleHash)
	spend.Coin.PuzzleHash = sized.Hash([]byte("another puzzle"))
	return spend, inner, err
}

// a prior spend that appears to create nothing
type noAdditionsDriver struct {
	*structural.Driver
}

func (d noAdditionsDriver) Additions(spend coin.CoinSpend) ([]coin.Coin, error) {
	return nil, nil
}

type setup struct {
	c     *fixtures.Chain
	owner *bls.SecretKey
	l     *fixtures.Launched
}

func newSetup(t *testing.T) *setup {
	c := fixtures.NewChain()
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")
	return &setup{c: c, owner: owner, l: l}
}

func (s *setup) resolve(t *testing.T) *pool.PlotNft {
	nft, err := lineage.New(logger.New(fixtures.LogCategory), s.c.Node, s.c.Driver).Resolve(context.Background(), s.l.LauncherID())
	assert.Nil(t, err, "resolve")
	return nft
}

func (s *setup) builder(driver puzzle.Driver) *travel.Builder {
	return travel.New(logger.New(fixtures.LogCategory), s.c.Node, driver, s.c.Signer, s.c.Parameters)
}

func TestNextState(t *testing.T) {
	owner := fixtures.Key("owner").PublicKey()
	self := pool.State{
		Version:          pool.ProtocolVersion,
		State:            pool.SelfPooling,
		TargetPuzzleHash: sized.Hash([]byte("self")),
		OwnerPubkey:      owner,
	}
	farming := fixtures.FarmingTo(self, "https://one.example.com", 32)
	other := fixtures.FarmingTo(self, "https://two.example.com", 64)

	next := travel.NextState(farming, other)
	assert.Equal(t, pool.LeavingPool, next.State, "farming must leave first")
	assert.Equal(t, farming.PoolURL, next.PoolURL, "pool url kept")
	assert.Equal(t, farming.TargetPuzzleHash, next.TargetPuzzleHash, "target kept")
	assert.Equal(t, farming.RelativeLockHeight, next.RelativeLockHeight, "lock height kept")
	assert.Equal(t, uint8(pool.ProtocolVersion), next.Version, "version")

	assert.Equal(t, other, travel.NextState(self, other), "self pooling takes the target")
	assert.Equal(t, self, travel.NextState(fixtures.Leaving(farming), self), "leaving takes the target")
}

func TestBuildJoinUsesTarget(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	r, err := s.builder(s.c.Driver).Build(context.Background(), nft, target)
	assert.Nil(t, err, "build")
	assert.Equal(t, target, r.NextState, "next state")
	assert.Equal(t, nft.SingletonCoin.Coin, r.Singleton, "singleton")
	assert.Equal(t, nft.SingletonCoin.Coin, r.Spend.Coin, "spend coin")
	assert.False(t, r.NewInnerPuzzle.Equal(r.OldInnerPuzzle), "inner puzzle unchanged")

	inner, err := s.c.Driver.PoolStateToInnerPuzzle(target, s.l.LauncherID(), s.c.Parameters.GenesisChallenge, fixtures.DelayTime, fixtures.DelayPuzzleHash)
	assert.Nil(t, err, "inner puzzle")
	full, err := s.c.Driver.CreateFullPuzzle(inner, s.l.LauncherID())
	assert.Nil(t, err, "full puzzle")
	assert.Equal(t, full.TreeHash(), r.NewFullPuzzleHash, "new full puzzle hash")
}

func TestBuildFromFarmingForcesLeaving(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	farming := fixtures.FarmingTo(s.l.State, "https://one.example.com", 20)
	assert.Nil(t, s.c.Travel(s.l, s.owner, farming), "join")

	nft := s.resolve(t)
	self := s.c.SelfPooling(s.owner)
	r, err := s.builder(s.c.Driver).Build(context.Background(), nft, self)
	assert.Nil(t, err, "build")
	assert.Equal(t, pool.LeavingPool, r.NextState.State, "not forced to leave")
	assert.Equal(t, farming.TargetPuzzleHash, r.NextState.TargetPuzzleHash, "target not kept")

	// the member may only travel to its waiting room
	state, err := s.c.Driver.SolutionToPoolState(r.Spend)
	assert.Nil(t, err, "decode")
	assert.Equal(t, r.NextState, *state, "state in solution")
}

func TestBuildUnchangedInnerPuzzle(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)

	_, err := s.builder(s.c.Driver).Build(context.Background(), nft, nft.PoolState)
	assert.Equal(t, fault.ErrInnerPuzzleUnchanged, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrIntegrity(err), "not an integrity error")
}

func TestBuildParentMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	_, err := s.builder(wrongParentDriver{s.c.Driver}).Build(context.Background(), nft, target)
	assert.Equal(t, fault.ErrParentMismatch, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrIntegrity(err), "not an integrity error")
}

func TestBuildSingletonMismatch(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	_, err := s.builder(wrongSingletonDriver{s.c.Driver}).Build(context.Background(), nft, target)
	assert.Equal(t, fault.ErrSingletonIDMismatch, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrIntegrity(err), "not an integrity error")
}

func TestBuildMissingPriorAdditions(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	_, err := s.builder(noAdditionsDriver{s.c.Driver}).Build(context.Background(), nft, target)
	assert.Equal(t, fault.ErrMissingPriorAdditions, errors.Cause(err), "wrong error: %v", err)
}

func TestBuildMissingLauncher(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	nft.LauncherID = sized.Hash([]byte("no launcher"))

	_, err := s.builder(s.c.Driver).Build(context.Background(), nft, fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20))
	assert.True(t, fault.IsErrNotFound(err), "expected not found, got: %v", err)
}

func TestGenerateTransactionWithoutFee(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	ctx := context.Background()
	record, feeRecord, err := s.builder(s.c.Driver).GenerateTransaction(ctx, nft, target, 0, keychain.NewFixedKey(s.owner), nil)
	assert.Nil(t, err, "generate")
	assert.Nil(t, feeRecord, "unexpected fee record")

	assert.Equal(t, uint64(coin.SingletonAmount), record.Amount, "amount")
	assert.Equal(t, uint64(0), record.FeeAmount, "fee")
	assert.Equal(t, transactionrecord.OutgoingTx, record.Type, "type")
	assert.Equal(t, uint32(1), record.WalletID, "wallet id")
	assert.Equal(t, record.SpendBundle.Name(), record.Name, "name")
	assert.Equal(t, 1, len(record.Removals), "removals")
	assert.Equal(t, nft.SingletonCoin.Coin, record.Removals[0], "removal")
	assert.Equal(t, 1, len(record.Additions), "additions")
	assert.Equal(t, record.ToPuzzleHash, record.Additions[0].PuzzleHash, "addition puzzle hash")
	assert.Nil(t, s.c.Signer.Verify(record.SpendBundle), "signature")

	assert.Nil(t, s.c.Node.Apply(record.SpendBundle), "chain rejected the travel")
	moved := s.resolve(t)
	assert.Equal(t, target, moved.PoolState, "state after travel")
}

func TestGenerateTransactionWithFee(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)
	fees := &feeSource{c: s.c, wallet: fixtures.Key("wallet")}

	record, feeRecord, err := s.builder(s.c.Driver).GenerateTransaction(context.Background(), nft, target, 7, keychain.NewFixedKey(s.owner), fees)
	assert.Nil(t, err, "generate")
	assert.NotNil(t, feeRecord, "fee record")
	assert.Equal(t, uint64(7), record.FeeAmount, "fee")
	assert.Equal(t, 2, len(record.Removals), "removals")
	assert.Equal(t, nft.SingletonCoin.Coin, record.Removals[0], "singleton first")
	assert.Equal(t, feeRecord.Removals[0], record.Removals[1], "fee coin")
	assert.Nil(t, s.c.Signer.Verify(record.SpendBundle), "aggregate signature")

	assert.Nil(t, s.c.Node.Apply(record.SpendBundle), "chain rejected the travel")
}

func TestGenerateTransactionFeeWithoutSource(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	_, _, err := s.builder(s.c.Driver).GenerateTransaction(context.Background(), nft, target, 5, keychain.NewFixedKey(s.owner), nil)
	assert.Equal(t, fault.ErrInsufficientFunds, errors.Cause(err), "wrong error: %v", err)
}

func TestGenerateTransactionWrongOwner(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 20)

	_, _, err := s.builder(s.c.Driver).GenerateTransaction(context.Background(), nft, target, 0, keychain.NewFixedKey(fixtures.Key("intruder")), nil)
	assert.Equal(t, fault.ErrNoKeyForPublicKey, errors.Cause(err), "wrong error: %v", err)
}

func TestCheckLockHeight(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	farming := fixtures.FarmingTo(s.l.State, "https://one.example.com", 20)
	assert.Nil(t, s.c.Travel(s.l, s.owner, farming), "join")
	assert.Nil(t, s.c.Travel(s.l, s.owner, fixtures.Leaving(farming)), "leave")

	ctx := context.Background()
	b := s.builder(s.c.Driver)
	b.CheckLockHeightFirst = true

	nft := s.resolve(t)
	err := b.CheckLockHeight(ctx, nft)
	assert.Equal(t, fault.ErrLockHeightNotReached, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrInput(err), "not an input error")

	_, _, err = b.GenerateTransaction(ctx, nft, s.c.SelfPooling(s.owner), 0, keychain.NewFixedKey(s.owner), nil)
	assert.Equal(t, fault.ErrLockHeightNotReached, errors.Cause(err), "generate before lock height: %v", err)

	s.c.Node.AdvanceHeight(20)
	assert.Nil(t, b.CheckLockHeight(ctx, nft), "lock height passed")

	record, _, err := b.GenerateTransaction(ctx, nft, s.c.SelfPooling(s.owner), 0, keychain.NewFixedKey(s.owner), nil)
	assert.Nil(t, err, "generate")
	assert.Nil(t, s.c.Node.Apply(record.SpendBundle), "chain rejected the return")
	assert.Equal(t, pool.SelfPooling, s.resolve(t).PoolState.State, "not self pooling")
}

func TestCheckLockHeightIgnoresOtherStates(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	s := newSetup(t)
	nft := s.resolve(t)
	assert.Nil(t, s.builder(s.c.Driver).CheckLockHeight(context.Background(), nft), "self pooling is never locked")
}

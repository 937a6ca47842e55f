// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package submit_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fixtures"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/fullnode/mocks"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/lineage"
	"github.com/poolkeeper/plotnft/submit"
	"github.com/poolkeeper/plotnft/transactionrecord"
	"github.com/poolkeeper/plotnft/travel"
)

func fastMonitor(node fullnode.Gateway, attempts int) *submit.Monitor {
	m := submit.New(logger.New(fixtures.LogCategory), node)
	m.Interval = time.Millisecond
	m.MaximumAttempts = attempts
	return m
}

// a signed join transaction for a freshly launched plot nft
func joinTransaction(t *testing.T, c *fixtures.Chain) *transactionrecord.TransactionRecord {
	ctx := context.Background()
	owner := fixtures.Key("owner")
	l, err := c.Launch(fixtures.Key("wallet"), c.SelfPooling(owner))
	assert.Nil(t, err, "launch")

	log := logger.New(fixtures.LogCategory)
	nft, err := lineage.New(log, c.Node, c.Driver).Resolve(ctx, l.LauncherID())
	assert.Nil(t, err, "resolve")

	b := travel.New(log, c.Node, c.Driver, c.Signer, c.Parameters)
	target := fixtures.FarmingTo(nft.PoolState, "https://one.example.com", 10)
	record, _, err := b.GenerateTransaction(ctx, nft, target, 0, keychain.NewFixedKey(owner), nil)
	assert.Nil(t, err, "generate")
	return record
}

func TestSingletonAddition(t *testing.T) {
	change := coin.Coin{Amount: 999}
	first := coin.Coin{ParentCoinInfo: fixtures.Parameters().GenesisChallenge, Amount: 1}
	second := coin.Coin{Amount: 1}

	c, err := submit.SingletonAddition([]coin.Coin{change, first, second})
	assert.Nil(t, err, "singleton addition")
	assert.Equal(t, first, c, "not the first singleton amount coin")

	_, err = submit.SingletonAddition([]coin.Coin{change})
	assert.Equal(t, fault.ErrNoSingletonAddition, err, "wrong error")

	_, err = submit.SingletonAddition(nil)
	assert.Equal(t, fault.ErrNoSingletonAddition, err, "wrong error for nil")
}

func TestSubmitAndConfirm(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	record := joinTransaction(t, c)

	conf, err := fastMonitor(c.Node, 5).SubmitAndConfirm(context.Background(), record.SpendBundle, record.Additions)
	assert.Nil(t, err, "submit")
	assert.Equal(t, fullnode.TxSuccess, conf.Status, "status")
	assert.Equal(t, 1, conf.Attempts, "attempts")
	assert.Equal(t, record.Additions[0], conf.Singleton.Coin, "singleton")
	assert.True(t, conf.Parent.Spent, "parent not spent")
	assert.Equal(t, record.Removals[0], conf.Parent.Coin, "parent")
	assert.Equal(t, uint64(1), c.Node.Pushes(), "pushes")
}

func TestSubmitFailedDoesNotPoll(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	bundle := &coin.SpendBundle{}
	node := mocks.NewMockGateway(ctl)
	node.EXPECT().PushTx(gomock.Any(), bundle).Return(fullnode.TxFailed, nil).Times(1)

	_, err := fastMonitor(node, 5).SubmitAndConfirm(context.Background(), bundle, []coin.Coin{{Amount: 1}})
	assert.Equal(t, fault.ErrSubmissionFailed, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrRejected(err), "not rejected")
}

func TestSubmitPending(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	bundle := &coin.SpendBundle{}
	node := mocks.NewMockGateway(ctl)
	node.EXPECT().PushTx(gomock.Any(), bundle).Return(fullnode.TxPending, nil).Times(1)

	_, err := fastMonitor(node, 5).SubmitAndConfirm(context.Background(), bundle, []coin.Coin{{Amount: 1}})
	assert.Equal(t, fault.ErrSubmissionPending, errors.Cause(err), "wrong error: %v", err)
}

func TestSubmitWithoutSingleton(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	node := mocks.NewMockGateway(ctl)
	_, err := fastMonitor(node, 5).SubmitAndConfirm(context.Background(), &coin.SpendBundle{}, []coin.Coin{{Amount: 2}})
	assert.Equal(t, fault.ErrNoSingletonAddition, err, "wrong error")
}

func TestSubmitNeverConfirmed(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	c := fixtures.NewChain()
	record := joinTransaction(t, c)
	c.Node.ForceStatus(fullnode.TxSuccess)

	before := c.Node.Queries()
	_, err := fastMonitor(c.Node, 3).SubmitAndConfirm(context.Background(), record.SpendBundle, record.Additions)
	assert.Equal(t, fault.ErrConfirmationTimeout, errors.Cause(err), "wrong error: %v", err)
	assert.True(t, fault.IsErrTimeout(err), "not a timeout")
	assert.Equal(t, uint64(3), c.Node.Queries()-before, "one query per attempt")
}

func TestSubmitRetriesQueryErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	parent := coin.Coin{Amount: 1}
	singleton := coin.Coin{ParentCoinInfo: parent.Name(), Amount: 1}
	bundle := &coin.SpendBundle{}

	node := mocks.NewMockGateway(ctl)
	gomock.InOrder(
		node.EXPECT().PushTx(gomock.Any(), bundle).Return(fullnode.TxSuccess, nil),
		node.EXPECT().GetCoinRecordByName(gomock.Any(), singleton.Name()).Return(nil, fmt.Errorf("connection reset")),
		node.EXPECT().GetCoinRecordByName(gomock.Any(), singleton.Name()).Return(nil, nil),
		node.EXPECT().GetCoinRecordByName(gomock.Any(), singleton.Name()).Return(&coin.CoinRecord{Coin: singleton, ConfirmedBlockIndex: 8}, nil),
		node.EXPECT().GetCoinRecordByName(gomock.Any(), parent.Name()).Return(&coin.CoinRecord{Coin: parent, Spent: true, SpentBlockIndex: 8}, nil),
	)

	conf, err := fastMonitor(node, 5).SubmitAndConfirm(context.Background(), bundle, []coin.Coin{singleton})
	assert.Nil(t, err, "submit")
	assert.Equal(t, 3, conf.Attempts, "attempts")
	assert.Equal(t, uint32(8), conf.Singleton.ConfirmedBlockIndex, "confirmed height")
}

func TestConfirmCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	node := mocks.NewMockGateway(ctl)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fastMonitor(node, 5).Confirm(ctx, coin.Coin{Amount: 1})
	assert.True(t, fault.IsErrTimeout(err), "expected timeout, got: %v", err)
}

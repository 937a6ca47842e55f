// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package travel

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/signer"
	"github.com/poolkeeper/plotnft/transactionrecord"
)

// wallet id of the pool wallet in transaction records
const poolWalletID = 1

// FeeSource - provides a signed bundle paying a fee
type FeeSource interface {
	GenerateFeeTransaction(ctx context.Context, fee uint64) (*transactionrecord.TransactionRecord, error)
}

// Builder - builds and signs travel transactions
type Builder struct {
	log        *logger.L
	node       fullnode.Gateway
	driver     puzzle.Driver
	signer     *signer.Signer
	parameters *chain.Parameters

	// refuse to leave the waiting room before the lock height has
	// passed, the chain enforces this in any case
	CheckLockHeightFirst bool
}

// New - create a builder
func New(log *logger.L, node fullnode.Gateway, driver puzzle.Driver, s *signer.Signer, parameters *chain.Parameters) *Builder {
	return &Builder{
		log:        log,
		node:       node,
		driver:     driver,
		signer:     s,
		parameters: parameters,
	}
}

// Build - fetch the launcher and prior spend, then assemble
func (b *Builder) Build(ctx context.Context, nft *pool.PlotNft, target pool.State) (*Result, error) {
	launcher, err := b.node.GetCoinRecordByName(ctx, nft.LauncherID)
	if nil != err {
		return nil, err
	}
	if nil == launcher {
		return nil, errors.Wrapf(fault.ErrLauncherNotFound, "launcher: %s", nft.LauncherID)
	}

	parentID := nft.SingletonCoin.Coin.ParentCoinInfo
	parent, err := b.node.GetCoinRecordByName(ctx, parentID)
	if nil != err {
		return nil, err
	}
	if nil == parent {
		return nil, errors.Wrapf(fault.ErrCoinNotFound, "singleton parent: %s", parentID)
	}
	prior, err := b.node.GetCoinSpend(ctx, parent)
	if nil != err {
		return nil, err
	}

	if b.CheckLockHeightFirst {
		if err := b.CheckLockHeight(ctx, nft); nil != err {
			return nil, err
		}
	}

	r, err := Assemble(b.driver, *prior, launcher.Coin, nft, target, b.parameters)
	if nil != err {
		if fault.IsErrIntegrity(err) {
			b.log.Criticalf("launcher: %s  travel spend integrity: %s", nft.LauncherID, err)
		}
		return nil, err
	}
	b.log.Infof("launcher: %s  travel: %s -> %s", nft.LauncherID, nft.PoolState.State, r.NextState.State)
	return r, nil
}

// CheckLockHeight - fail while a leaving singleton is still locked
func (b *Builder) CheckLockHeight(ctx context.Context, nft *pool.PlotNft) error {
	if pool.LeavingPool != nft.PoolState.State {
		return nil
	}
	state, err := b.node.GetBlockchainState(ctx)
	if nil != err {
		return err
	}
	peak := state.PeakHeight()
	confirmed := nft.SingletonCoin.ConfirmedBlockIndex
	lock := nft.PoolState.RelativeLockHeight
	if peak < confirmed || peak-confirmed < lock {
		return errors.Wrapf(fault.ErrLockHeightNotReached, "confirmed: %d  lock: %d  peak: %d", confirmed, lock, peak)
	}
	return nil
}

// GenerateTransaction - signed travel transaction plus the fee transaction
//
// with a fee the fee bundle is aggregated into the travel bundle and
// both must be submitted together
func (b *Builder) GenerateTransaction(ctx context.Context, nft *pool.PlotNft, target pool.State, fee uint64, lookup keychain.KeyLookup, fees FeeSource) (*transactionrecord.TransactionRecord, *transactionrecord.TransactionRecord, error) {
	r, err := b.Build(ctx, nft, target)
	if nil != err {
		return nil, nil, err
	}

	bundle, err := b.signer.Sign(ctx, r.Spend, lookup)
	if nil != err {
		return nil, nil, err
	}
	if err := checkRemovals(bundle, r.Singleton); nil != err {
		b.log.Criticalf("launcher: %s  signed bundle: %s", nft.LauncherID, err)
		return nil, nil, err
	}

	var feeRecord *transactionrecord.TransactionRecord
	if fee > 0 {
		if nil == fees {
			return nil, nil, errors.Wrap(fault.ErrInsufficientFunds, "no fee source")
		}
		feeRecord, err = fees.GenerateFeeTransaction(ctx, fee)
		if nil != err {
			return nil, nil, err
		}
		bundle, err = signer.Aggregate(bundle, feeRecord.SpendBundle)
		if nil != err {
			return nil, nil, err
		}
	}

	additions, err := puzzle.BundleAdditions(b.driver, *bundle)
	if nil != err {
		return nil, nil, err
	}

	record := &transactionrecord.TransactionRecord{
		CreatedAtTime: uint64(time.Now().Unix()),
		ToPuzzleHash:  r.NewFullPuzzleHash,
		Amount:        coin.SingletonAmount,
		FeeAmount:     fee,
		SpendBundle:   bundle,
		Additions:     additions,
		Removals:      bundle.Removals(),
		WalletID:      poolWalletID,
		Type:          transactionrecord.OutgoingTx,
		Name:          bundle.Name(),
	}
	b.log.Infof("launcher: %s  travel transaction: %s  fee: %d", nft.LauncherID, record.Name, fee)
	return record, feeRecord, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/cache"
	"github.com/poolkeeper/plotnft/constants"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/submit"
	"github.com/poolkeeper/plotnft/transactionrecord"
	"github.com/poolkeeper/plotnft/travel"
)

// Outcome - a confirmed travel
type Outcome struct {
	Transaction    *transactionrecord.TransactionRecord `json:"transaction"`
	FeeTransaction *transactionrecord.TransactionRecord `json:"fee_transaction,omitempty"`
	Confirmation   *submit.Confirmation                 `json:"confirmation"`
	State          pool.State                           `json:"state"`
}

// ResolvePlotNft - current view of a singleton, recorded when a
// recorder is set
func (w *Wallet) ResolvePlotNft(ctx context.Context, launcherID sized.Bytes32) (*pool.PlotNft, error) {
	w.Lock()
	resolver := w.resolver
	recorder := w.recorder
	w.Unlock()

	nft, err := resolver.Resolve(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	if nil == recorder {
		return nft, nil
	}

	changed, err := recorder.RecordPlotNft(nft)
	if nil != err {
		return nil, err
	}
	if changed {
		w.log.Infof("launcher: %s  state: %s  pool: %q  height: %d", launcherID, nft.PoolState.State, nft.PoolState.PoolURL, nft.SingletonCoin.ConfirmedBlockIndex)
	}
	return nft, nil
}

// Scrounge - plot nfts launched from the wallet's first key page
func (w *Wallet) Scrounge(ctx context.Context) ([]pool.PlotNft, error) {
	return w.walker.Scrounge(ctx, w.puzzleHashes)
}

// ScroungeByKey - walk pages of unhardened wallet keys until a page
// finds plot nfts
func (w *Wallet) ScroungeByKey(ctx context.Context) ([]pool.PlotNft, error) {
	for page := uint32(0); page < constants.ScroungePages; page += 1 {
		if err := ctx.Err(); nil != err {
			return nil, err
		}

		start := page * constants.WalletKeysPerPage
		puzzleHashes := make([]sized.Bytes32, 0, constants.WalletKeysPerPage)
		for i := start; i < start+constants.WalletKeysPerPage; i += 1 {
			pk := keychain.WalletKeyUnhardened(w.master, i).PublicKey()
			puzzleHashes = append(puzzleHashes, w.driver.StandardPuzzleHash(pk))
		}

		found, err := w.walker.Scrounge(ctx, puzzleHashes)
		if nil != err {
			return nil, err
		}
		if 0 != len(found) {
			w.log.Infof("scrounge: page: %d  found: %d", page, len(found))
			return found, nil
		}
		w.log.Debugf("scrounge: page: %d  nothing found", page)
	}
	return nil, nil
}

// GenerateTravelTransaction - signed travel paying fee from wallet coins
func (w *Wallet) GenerateTravelTransaction(ctx context.Context, nft *pool.PlotNft, target pool.State, fee uint64) (*transactionrecord.TransactionRecord, *transactionrecord.TransactionRecord, error) {
	return w.builder.GenerateTransaction(ctx, nft, target, fee, keychain.LookupFunc(w.SecretKeyFor), w)
}

// SubmitNextState - travel the singleton towards target and wait for
// the chain to confirm it
//
// a farming singleton is always sent to LEAVING_POOL first
func (w *Wallet) SubmitNextState(ctx context.Context, launcherID sized.Bytes32, target pool.State, fee uint64) (*Outcome, error) {
	return w.submitNextState(ctx, launcherID, target, func(nft *pool.PlotNft) (*transactionrecord.TransactionRecord, *transactionrecord.TransactionRecord, error) {
		return w.GenerateTravelTransaction(ctx, nft, target, fee)
	})
}

// SubmitNextStateWithKey - travel signed by a known owner key, no fee
func (w *Wallet) SubmitNextStateWithKey(ctx context.Context, launcherID sized.Bytes32, target pool.State, owner *bls.SecretKey) (*Outcome, error) {
	return w.submitNextState(ctx, launcherID, target, func(nft *pool.PlotNft) (*transactionrecord.TransactionRecord, *transactionrecord.TransactionRecord, error) {
		return w.builder.GenerateTransaction(ctx, nft, target, 0, keychain.NewFixedKey(owner), nil)
	})
}

type generator func(nft *pool.PlotNft) (*transactionrecord.TransactionRecord, *transactionrecord.TransactionRecord, error)

func (w *Wallet) submitNextState(ctx context.Context, launcherID sized.Bytes32, target pool.State, generate generator) (*Outcome, error) {
	if err := w.begin(launcherID); nil != err {
		return nil, err
	}
	defer w.end(launcherID)

	nft, err := w.ResolvePlotNft(ctx, launcherID)
	if nil != err {
		return nil, err
	}

	current := nft.PoolState.State
	if pool.FarmingToPool != current && !pool.CanTransition(current, target.State) {
		return nil, errors.Wrapf(fault.ErrCannotTransition, "launcher: %s  from: %s  to: %s", launcherID, current, target.State)
	}

	record, feeRecord, err := generate(nft)
	if nil != err {
		return nil, err
	}

	confirmation, err := w.monitor.SubmitAndConfirm(ctx, record.SpendBundle, record.Additions)
	w.invalidate(launcherID)
	if nil != err {
		w.log.Errorf("launcher: %s  transaction: %s  error: %s", launcherID, record.Name, err)

		// accepted by the node but not yet seen on chain
		if fault.IsErrTimeout(err) {
			record.Sent = 1
			w.recordTransaction(record)
		}
		return nil, err
	}

	record.Sent = 1
	record.Confirmed = true
	record.ConfirmedAtHeight = confirmation.Singleton.ConfirmedBlockIndex
	w.recordTransaction(record)

	// fee coins are spent and change exists
	if nil != feeRecord {
		if err := w.Sync(ctx); nil != err {
			w.log.Warnf("launcher: %s  sync after fee: %s", launcherID, err)
		}
	}

	next := travel.NextState(nft.PoolState, target)
	w.log.Infof("launcher: %s  confirmed: %s  state: %s", launcherID, record.Name, next.State)
	return &Outcome{
		Transaction:    record,
		FeeTransaction: feeRecord,
		Confirmation:   confirmation,
		State:          next,
	}, nil
}

// JoinPool - farm to a pool, leaving the current one first if needed
func (w *Wallet) JoinPool(ctx context.Context, launcherID sized.Bytes32, url string, targetPuzzleHash sized.Bytes32, lockHeight uint32, fee uint64) (*Outcome, error) {
	nft, err := w.ResolvePlotNft(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	target := nft.PoolState
	target.Version = pool.ProtocolVersion
	target.State = pool.FarmingToPool
	target.PoolURL = url
	target.TargetPuzzleHash = targetPuzzleHash
	target.RelativeLockHeight = lockHeight
	return w.SubmitNextState(ctx, launcherID, target, fee)
}

// SelfPool - send rewards back to the wallet
func (w *Wallet) SelfPool(ctx context.Context, launcherID sized.Bytes32, fee uint64) (*Outcome, error) {
	nft, err := w.ResolvePlotNft(ctx, launcherID)
	if nil != err {
		return nil, err
	}
	target := pool.State{
		Version:          pool.ProtocolVersion,
		State:            pool.SelfPooling,
		TargetPuzzleHash: w.ChangePuzzleHash(),
		OwnerPubkey:      nft.PoolState.OwnerPubkey,
	}
	return w.SubmitNextState(ctx, launcherID, target, fee)
}

// InFlight - launchers with a travel being submitted
func (w *Wallet) InFlight() []sized.Bytes32 {
	w.Lock()
	defer w.Unlock()
	ids := make([]sized.Bytes32, 0, len(w.inFlight))
	for id := range w.inFlight {
		ids = append(ids, id)
	}
	return ids
}

func (w *Wallet) begin(launcherID sized.Bytes32) error {
	w.Lock()
	defer w.Unlock()
	if _, ok := w.inFlight[launcherID]; ok {
		return errors.Wrapf(fault.ErrTravelInProgress, "launcher: %s", launcherID)
	}
	w.inFlight[launcherID] = struct{}{}
	return nil
}

func (w *Wallet) end(launcherID sized.Bytes32) {
	w.Lock()
	delete(w.inFlight, launcherID)
	w.Unlock()
}

// only submitted transactions are stored
func (w *Wallet) recordTransaction(record *transactionrecord.TransactionRecord) {
	w.Lock()
	recorder := w.recorder
	w.Unlock()
	if nil == recorder {
		return
	}
	if err := recorder.RecordTransaction(record); nil != err {
		w.log.Errorf("transaction: %s  record error: %s", record.Name, err)
	}
}

func (w *Wallet) invalidate(launcherID sized.Bytes32) {
	w.Lock()
	defer w.Unlock()
	if r, ok := w.resolver.(*cache.Resolver); ok {
		r.Invalidate(launcherID)
	}
}

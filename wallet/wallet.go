// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/cache"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/constants"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/keychain"
	"github.com/poolkeeper/plotnft/lineage"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/signer"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/submit"
	"github.com/poolkeeper/plotnft/transactionrecord"
	"github.com/poolkeeper/plotnft/travel"
)

// Recorder - persistence of what the wallet sees and produces
type Recorder interface {
	RecordTransaction(r *transactionrecord.TransactionRecord) error
	RecordPlotNft(nft *pool.PlotNft) (bool, error)
	RecordCoins(records []coin.CoinRecord) error
}

// Wallet - standard coins and pool singletons of one master key
type Wallet struct {
	sync.Mutex

	log        *logger.L
	node       fullnode.Gateway
	driver     puzzle.Driver
	parameters *chain.Parameters
	master     *bls.SecretKey

	owners  *keychain.Resolver
	signer  *signer.Signer
	walker  *lineage.Walker
	builder *travel.Builder
	monitor *submit.Monitor

	resolver cache.Source
	recorder Recorder

	// wallet keys by the puzzle hash they lock
	keys         map[sized.Bytes32]*bls.SecretKey
	puzzleHashes []sized.Bytes32

	coins    map[sized.Bytes32]coin.CoinRecord
	inFlight map[sized.Bytes32]struct{}
}

// New - wallet over the first page of hardened and unhardened wallet keys
func New(log *logger.L, node fullnode.Gateway, driver puzzle.Driver, parameters *chain.Parameters, master *bls.SecretKey) (*Wallet, error) {
	s := signer.New(log, driver, parameters.AggSigMeAdditionalData)
	walker := lineage.New(log, node, driver)

	w := &Wallet{
		log:        log,
		node:       node,
		driver:     driver,
		parameters: parameters,
		master:     master,
		owners:     keychain.NewResolver(log, master, keychain.DefaultSearchBound),
		signer:     s,
		walker:     walker,
		builder:    travel.New(log, node, driver, s, parameters),
		monitor:    submit.New(log, node),
		resolver:   walker,
		keys:       make(map[sized.Bytes32]*bls.SecretKey),
		coins:      make(map[sized.Bytes32]coin.CoinRecord),
		inFlight:   make(map[sized.Bytes32]struct{}),
	}

	for i := uint32(0); i < constants.WalletKeysPerPage; i += 1 {
		sk, err := keychain.WalletKey(master, i)
		if nil != err {
			return nil, err
		}
		w.addKey(sk)
	}
	for i := uint32(0); i < constants.WalletKeysPerPage; i += 1 {
		w.addKey(keychain.WalletKeyUnhardened(master, i))
	}
	return w, nil
}

func (w *Wallet) addKey(sk *bls.SecretKey) {
	ph := w.driver.StandardPuzzleHash(sk.PublicKey())
	if _, ok := w.keys[ph]; ok {
		return
	}
	w.keys[ph] = sk
	w.puzzleHashes = append(w.puzzleHashes, ph)
}

// SetRecorder - persist transactions, plot nfts and coins
func (w *Wallet) SetRecorder(r Recorder) {
	w.Lock()
	w.recorder = r
	w.Unlock()
}

// SetCache - resolve plot nfts through an expiring cache
func (w *Wallet) SetCache(expiry time.Duration) *cache.Resolver {
	r := cache.NewResolver(w.log, w.node, w.walker, expiry)
	w.Lock()
	w.resolver = r
	w.Unlock()
	return r
}

// SetLockHeightCheck - refuse to leave a waiting room early
func (w *Wallet) SetLockHeightCheck(check bool) {
	w.builder.CheckLockHeightFirst = check
}

// SetConfirmation - polling schedule of submissions
func (w *Wallet) SetConfirmation(interval time.Duration, attempts int) {
	w.monitor.Interval = interval
	w.monitor.MaximumAttempts = attempts
}

// PuzzleHashes - puzzle hashes of the wallet keys
func (w *Wallet) PuzzleHashes() []sized.Bytes32 {
	return append([]sized.Bytes32(nil), w.puzzleHashes...)
}

// ChangePuzzleHash - where change is sent
func (w *Wallet) ChangePuzzleHash() sized.Bytes32 {
	return w.puzzleHashes[0]
}

// Owners - the owner key resolver
func (w *Wallet) Owners() *keychain.Resolver {
	return w.owners
}

// SecretKeyFor - wallet keys first, then singleton owner keys
func (w *Wallet) SecretKeyFor(ctx context.Context, pk sized.Bytes48) (*bls.SecretKey, error) {
	if sk, ok := w.keys[w.driver.StandardPuzzleHash(pk)]; ok {
		return sk, nil
	}
	return w.owners.SecretKeyFor(ctx, pk)
}

// Sync - replace the coin set with the wallet's unspent coins on chain
func (w *Wallet) Sync(ctx context.Context) error {
	records, err := w.node.GetCoinRecordsByPuzzleHashes(ctx, w.puzzleHashes, false, 0, 0)
	if nil != err {
		return err
	}

	w.Lock()
	defer w.Unlock()

	w.coins = make(map[sized.Bytes32]coin.CoinRecord, len(records))
	balance := uint64(0)
	for _, r := range records {
		if r.Spent {
			continue
		}
		w.coins[r.Name()] = r
		balance += r.Coin.Amount
	}
	w.log.Infof("sync: coins: %d  balance: %d", len(w.coins), balance)

	if nil != w.recorder {
		return w.recorder.RecordCoins(w.sortedCoins())
	}
	return nil
}

// Balance - total of the unspent coins
func (w *Wallet) Balance() uint64 {
	w.Lock()
	defer w.Unlock()
	total := uint64(0)
	for _, r := range w.coins {
		total += r.Coin.Amount
	}
	return total
}

// Coins - the unspent coins, largest first
func (w *Wallet) Coins() []coin.CoinRecord {
	w.Lock()
	defer w.Unlock()
	return w.sortedCoins()
}

// must hold lock
func (w *Wallet) sortedCoins() []coin.CoinRecord {
	records := make([]coin.CoinRecord, 0, len(w.coins))
	for _, r := range w.coins {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Coin.Amount != records[j].Coin.Amount {
			return records[i].Coin.Amount > records[j].Coin.Amount
		}
		a := records[i].Name()
		b := records[j].Name()
		return string(a[:]) < string(b[:])
	})
	return records
}

// GenerateFeeTransaction - spend wallet coins paying fee, change back
//
// the coin set is left as it is, only Sync replaces it
func (w *Wallet) GenerateFeeTransaction(ctx context.Context, fee uint64) (*transactionrecord.TransactionRecord, error) {
	w.Lock()
	defer w.Unlock()

	selected := make([]coin.CoinRecord, 0)
	total := uint64(0)
	for _, r := range w.sortedCoins() {
		if total >= fee && 0 != len(selected) {
			break
		}
		selected = append(selected, r)
		total += r.Coin.Amount
	}
	if 0 == len(selected) || total < fee {
		return nil, errors.Wrapf(fault.ErrInsufficientFunds, "fee: %d  balance: %d", fee, total)
	}

	change := total - fee
	spends := make([]coin.CoinSpend, 0, len(selected))
	for i, r := range selected {
		sk, ok := w.keys[r.Coin.PuzzleHash]
		if !ok {
			return nil, errors.Wrapf(fault.ErrNoKeyForPublicKey, "coin: %s", r.Name())
		}
		conditions := []puzzle.Condition{}
		if 0 == i {
			conditions = append(conditions, puzzle.NewReserveFee(fee))
			if change > 0 {
				conditions = append(conditions, puzzle.NewCreateCoin(w.ChangePuzzleHash(), change))
			}
		}
		spend, err := w.driver.CreateStandardSpend(r.Coin, sk.PublicKey(), conditions)
		if nil != err {
			return nil, err
		}
		spends = append(spends, spend)
	}

	bundle, err := w.signer.SignSpends(ctx, spends, keychain.LookupFunc(w.SecretKeyFor))
	if nil != err {
		return nil, err
	}
	additions, err := puzzle.BundleAdditions(w.driver, *bundle)
	if nil != err {
		return nil, err
	}

	record := &transactionrecord.TransactionRecord{
		CreatedAtTime: uint64(time.Now().Unix()),
		ToPuzzleHash:  w.ChangePuzzleHash(),
		Amount:        change,
		FeeAmount:     fee,
		SpendBundle:   bundle,
		Additions:     additions,
		Removals:      bundle.Removals(),
		WalletID:      standardWalletID,
		Type:          transactionrecord.OutgoingTx,
		Name:          bundle.Name(),
	}
	w.log.Infof("fee transaction: %s  fee: %d  coins: %d  change: %d", record.Name, fee, len(selected), change)
	return record, nil
}

// wallet id of the standard wallet in transaction records
const standardWalletID = 0

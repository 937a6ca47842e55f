// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainsim

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/chain"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/counter"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// Node - an in-memory chain answering full node queries
//
// every accepted bundle is included in a block of its own
type Node struct {
	sync.Mutex

	log        *logger.L
	evaluator  puzzle.Evaluator
	parameters *chain.Parameters

	height  uint32
	records map[sized.Bytes32]*coin.CoinRecord
	spends  map[sized.Bytes32]coin.CoinSpend

	verifySignatures bool
	forcedStatus     fullnode.TxStatus

	pushes  counter.Counter
	queries counter.Counter
}

var _ fullnode.Gateway = (*Node)(nil)

// New - empty chain at height zero
func New(log *logger.L, evaluator puzzle.Evaluator, parameters *chain.Parameters) *Node {
	return &Node{
		log:              log,
		evaluator:        evaluator,
		parameters:       parameters,
		records:          make(map[sized.Bytes32]*coin.CoinRecord),
		spends:           make(map[sized.Bytes32]coin.CoinSpend),
		verifySignatures: true,
	}
}

// VerifySignatures - turn signature checking of pushed bundles on or off
func (n *Node) VerifySignatures(verify bool) {
	n.Lock()
	n.verifySignatures = verify
	n.Unlock()
}

// ForceStatus - answer every push with this status without applying it
//
// zero restores normal processing
func (n *Node) ForceStatus(status fullnode.TxStatus) {
	n.Lock()
	n.forcedStatus = status
	n.Unlock()
}

// Height - current peak
func (n *Node) Height() uint32 {
	n.Lock()
	defer n.Unlock()
	return n.height
}

// Pushes - number of push_tx calls received
func (n *Node) Pushes() uint64 {
	return n.pushes.Uint64()
}

// Queries - number of coin queries received
func (n *Node) Queries() uint64 {
	return n.queries.Uint64()
}

// AdvanceHeight - add empty blocks
func (n *Node) AdvanceHeight(blocks uint32) uint32 {
	n.Lock()
	defer n.Unlock()
	n.height += blocks
	return n.height
}

// Farm - create a reward coin in a new block
func (n *Node) Farm(puzzleHash sized.Bytes32, amount uint64) coin.CoinRecord {
	n.Lock()
	defer n.Unlock()

	n.height += 1
	parent := sized.Hash(n.parameters.GenesisChallenge[:], uint32Bytes(n.height), puzzleHash[:])
	record := &coin.CoinRecord{
		Coin: coin.Coin{
			ParentCoinInfo: parent,
			PuzzleHash:     puzzleHash,
			Amount:         amount,
		},
		ConfirmedBlockIndex: n.height,
		Coinbase:            true,
		Timestamp:           uint64(time.Now().Unix()),
	}
	n.records[record.Name()] = record
	n.log.Debugf("farmed: %s  amount: %d  height: %d", record.Name(), amount, n.height)
	return *record
}

// Apply - validate a bundle and include it in a new block
func (n *Node) Apply(bundle *coin.SpendBundle) error {
	n.Lock()
	defer n.Unlock()
	return n.apply(bundle)
}

func (n *Node) apply(bundle *coin.SpendBundle) error {
	if 0 == len(bundle.CoinSpends) {
		return errors.Wrap(fault.ErrSubmissionFailed, "empty bundle")
	}

	removed := make(map[sized.Bytes32]struct{})
	inputs := uint64(0)
	outputs := uint64(0)
	pks := make([]sized.Bytes48, 0, len(bundle.CoinSpends))
	messages := make([][]byte, 0, len(bundle.CoinSpends))
	additions := make([]coin.Coin, 0, len(bundle.CoinSpends))

	for _, spend := range bundle.CoinSpends {
		id := spend.Coin.Name()
		record, ok := n.records[id]
		if !ok {
			return errors.Wrapf(fault.ErrCoinNotFound, "removal: %s", id)
		}
		if record.Spent {
			return errors.Wrapf(fault.ErrSubmissionFailed, "double spend: %s", id)
		}
		if _, ok := removed[id]; ok {
			return errors.Wrapf(fault.ErrSubmissionFailed, "duplicate removal: %s", id)
		}
		removed[id] = struct{}{}

		ph, err := spend.PuzzleReveal.TreeHash()
		if nil != err || ph != spend.Coin.PuzzleHash {
			return errors.Wrapf(fault.ErrPuzzleHashMismatch, "removal: %s", id)
		}

		conditions, err := n.evaluator.Conditions(spend)
		if nil != err {
			return errors.Wrapf(err, "removal: %s", id)
		}
		for _, c := range conditions {
			if puzzle.AssertHeightRelative != c.Opcode {
				continue
			}
			h, err := c.Uint64Arg(0)
			if nil != err {
				return err
			}
			if uint64(n.height-record.ConfirmedBlockIndex) < h {
				return errors.Wrapf(fault.ErrLockHeightNotReached, "removal: %s  confirmed: %d  lock: %d  peak: %d", id, record.ConfirmedBlockIndex, h, n.height)
			}
		}

		a, err := n.evaluator.Additions(spend)
		if nil != err {
			return errors.Wrapf(err, "removal: %s", id)
		}
		for _, c := range a {
			outputs += c.Amount
		}
		additions = append(additions, a...)
		inputs += spend.Coin.Amount

		if n.verifySignatures {
			targets, err := n.evaluator.RequiredSignatures(spend, n.parameters.AggSigMeAdditionalData)
			if nil != err {
				return errors.Wrapf(err, "removal: %s", id)
			}
			for _, t := range targets {
				pks = append(pks, t.PublicKey)
				messages = append(messages, t.Message)
			}
		}
	}

	if outputs > inputs {
		return errors.Wrapf(fault.ErrInsufficientFunds, "inputs: %d  outputs: %d", inputs, outputs)
	}
	if n.verifySignatures && !bls.AggregateVerify(pks, messages, bundle.AggregatedSignature) {
		return errors.Wrapf(fault.ErrInvalidSignature, "bundle: %s", bundle.Name())
	}

	n.height += 1
	now := uint64(time.Now().Unix())
	for _, spend := range bundle.CoinSpends {
		id := spend.Coin.Name()
		record := n.records[id]
		record.Spent = true
		record.SpentBlockIndex = n.height
		n.spends[id] = spend
	}
	for _, c := range additions {
		n.records[c.Name()] = &coin.CoinRecord{
			Coin:                c,
			ConfirmedBlockIndex: n.height,
			Timestamp:           now,
		}
	}
	n.log.Infof("block: %d  bundle: %s  removals: %d  additions: %d  fee: %d", n.height, bundle.Name(), len(bundle.CoinSpends), len(additions), inputs-outputs)
	return nil
}

// GetCoinRecordByName - nil when unknown
func (n *Node) GetCoinRecordByName(ctx context.Context, name sized.Bytes32) (*coin.CoinRecord, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	n.queries.Increment()

	n.Lock()
	defer n.Unlock()
	record, ok := n.records[name]
	if !ok {
		return nil, nil
	}
	r := *record
	return &r, nil
}

// GetCoinSpend - spend of a spent coin
func (n *Node) GetCoinSpend(ctx context.Context, record *coin.CoinRecord) (*coin.CoinSpend, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	n.queries.Increment()

	n.Lock()
	defer n.Unlock()
	spend, ok := n.spends[record.Name()]
	if !ok {
		return nil, errors.Wrapf(fault.ErrSpendNotFound, "coin: %s", record.Name())
	}
	return &spend, nil
}

// GetCoinRecordsByPuzzleHashes - ordered by confirmation height then id
func (n *Node) GetCoinRecordsByPuzzleHashes(ctx context.Context, puzzleHashes []sized.Bytes32, includeSpent bool, startHeight uint32, endHeight uint32) ([]coin.CoinRecord, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}
	n.queries.Increment()

	wanted := make(map[sized.Bytes32]struct{}, len(puzzleHashes))
	for _, ph := range puzzleHashes {
		wanted[ph] = struct{}{}
	}

	n.Lock()
	defer n.Unlock()

	records := make([]coin.CoinRecord, 0)
	for _, r := range n.records {
		if _, ok := wanted[r.Coin.PuzzleHash]; !ok {
			continue
		}
		if r.Spent && !includeSpent {
			continue
		}
		if r.ConfirmedBlockIndex < startHeight {
			continue
		}
		if 0 != endHeight && r.ConfirmedBlockIndex >= endHeight {
			continue
		}
		records = append(records, *r)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].ConfirmedBlockIndex != records[j].ConfirmedBlockIndex {
			return records[i].ConfirmedBlockIndex < records[j].ConfirmedBlockIndex
		}
		a := records[i].Name()
		b := records[j].Name()
		return string(a[:]) < string(b[:])
	})
	return records, nil
}

// PushTx - apply the bundle, FAILED when it is not valid
func (n *Node) PushTx(ctx context.Context, bundle *coin.SpendBundle) (fullnode.TxStatus, error) {
	if err := ctx.Err(); nil != err {
		return 0, err
	}
	n.pushes.Increment()

	n.Lock()
	defer n.Unlock()

	if 0 != n.forcedStatus {
		n.log.Infof("push: %s  forced status: %s", bundle.Name(), n.forcedStatus)
		return n.forcedStatus, nil
	}
	if err := n.apply(bundle); nil != err {
		n.log.Warnf("push: %s  rejected: %s", bundle.Name(), err)
		return fullnode.TxFailed, nil
	}
	return fullnode.TxSuccess, nil
}

// GetBlockchainState - synced state at the current peak
func (n *Node) GetBlockchainState(ctx context.Context) (*fullnode.BlockchainState, error) {
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	n.Lock()
	defer n.Unlock()

	timestamp := uint64(time.Now().Unix())
	state := &fullnode.BlockchainState{
		Peak: &fullnode.BlockRecord{
			HeaderHash: sized.Hash(n.parameters.GenesisChallenge[:], uint32Bytes(n.height)),
			Height:     n.height,
			Timestamp:  &timestamp,
		},
		GenesisChallengeInitialized: true,
		Sync: fullnode.SyncState{
			Synced:             true,
			SyncTipHeight:      n.height,
			SyncProgressHeight: n.height,
		},
		Difficulty:   1,
		SubSlotIters: 1,
		NodeID:       "chainsim",
	}
	state.Space.SetUint64(uint64(len(n.records)))
	state.Peak.Weight.Int.Set(big.NewInt(int64(n.height)))
	return state, nil
}

func uint32Bytes(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

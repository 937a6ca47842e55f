// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package structural

import (
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// puzzle tags, the first atom of every puzzle list
const (
	launcherTag    = "singleton_launcher"
	singletonTag   = "singleton_top_layer"
	memberTag      = "pool_member"
	waitingRoomTag = "pool_waitingroom"
	p2SingletonTag = "p2_singleton"
	standardTag    = "p2_pubkey"
)

// keys of the launcher and travel key/value lists
const (
	keyPoolState       = "p"
	keyDelayTime       = "t"
	keyDelayPuzzleHash = "h"
)

// inner solution spend types
const (
	spendAbsorb = 0
	spendTravel = 1
)

// Driver - puzzle construction over data trees
//
// each puzzle is a list headed by a tag atom followed by its curried
// values; the driver knows what every tag does with its solution
type Driver struct {
	launcherPuzzleHash sized.Bytes32
	singletonModHash   sized.Bytes32
}

var _ puzzle.Driver = (*Driver)(nil)

// New - create a driver
func New() *Driver {
	a := clvm.NewAllocator()
	return &Driver{
		launcherPuzzleHash: a.TreeHash(a.List(a.NewString(launcherTag))),
		singletonModHash:   clvm.AtomHash([]byte(singletonTag)),
	}
}

// LauncherPuzzleHash - puzzle hash of every launcher coin
func (d *Driver) LauncherPuzzleHash() sized.Bytes32 {
	return d.launcherPuzzleHash
}

// LauncherPuzzle - the launcher program
func (d *Driver) LauncherPuzzle() clvm.Program {
	a := clvm.NewAllocator()
	return clvm.NewProgram(a, a.List(a.NewString(launcherTag)))
}

func (d *Driver) p2SingletonPuzzleHash(launcherID sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) sized.Bytes32 {
	a := clvm.NewAllocator()
	return a.TreeHash(a.List(
		a.NewString(p2SingletonTag),
		a.NewAtom(d.singletonModHash[:]),
		a.NewAtom(launcherID[:]),
		a.NewAtom(d.launcherPuzzleHash[:]),
		a.NewUint64(delayTime),
		a.NewAtom(delayPuzzleHash[:]),
	))
}

// PoolStateToInnerPuzzle - waiting room for self pooling and leaving,
// pool member (escaping to the waiting room) when farming to a pool
func (d *Driver) PoolStateToInnerPuzzle(state pool.State, launcherID sized.Bytes32, genesisChallenge sized.Bytes32, delayTime uint64, delayPuzzleHash sized.Bytes32) (clvm.Program, error) {
	if !state.State.Valid() {
		return clvm.Program{}, fault.ErrInvalidMembershipState
	}

	p2 := d.p2SingletonPuzzleHash(launcherID, delayTime, delayPuzzleHash)

	a := clvm.NewAllocator()
	escaping := a.List(
		a.NewString(waitingRoomTag),
		a.NewAtom(state.TargetPuzzleHash[:]),
		a.NewAtom(p2[:]),
		a.NewAtom(state.OwnerPubkey[:]),
		a.NewAtom(genesisChallenge[:]),
		a.NewUint64(uint64(state.RelativeLockHeight)),
	)
	if pool.FarmingToPool != state.State {
		return clvm.NewProgram(a, escaping), nil
	}

	escapingHash := a.TreeHash(escaping)
	member := a.List(
		a.NewString(memberTag),
		a.NewAtom(state.TargetPuzzleHash[:]),
		a.NewAtom(p2[:]),
		a.NewAtom(state.OwnerPubkey[:]),
		a.NewAtom(genesisChallenge[:]),
		a.NewAtom(escapingHash[:]),
	)
	return clvm.NewProgram(a, member), nil
}

func (d *Driver) singletonStruct(a *clvm.Allocator, launcherID sized.Bytes32) clvm.NodePtr {
	return a.NewPair(
		a.NewAtom(d.singletonModHash[:]),
		a.NewPair(a.NewAtom(launcherID[:]), a.NewAtom(d.launcherPuzzleHash[:])),
	)
}

// CreateFullPuzzle - wrap an inner puzzle in the singleton top layer
func (d *Driver) CreateFullPuzzle(inner clvm.Program, launcherID sized.Bytes32) (clvm.Program, error) {
	a := inner.Arena
	full := a.List(
		a.NewString(singletonTag),
		d.singletonStruct(a, launcherID),
		inner.Node,
	)
	return clvm.NewProgram(a, full), nil
}

// fullPuzzleHash - hash of the full puzzle knowing only the inner hash
func (d *Driver) fullPuzzleHash(launcherID sized.Bytes32, innerHash sized.Bytes32) sized.Bytes32 {
	a := clvm.NewAllocator()
	tagHash := a.TreeHash(a.NewString(singletonTag))
	structHash := a.TreeHash(d.singletonStruct(a, launcherID))
	nilHash := a.TreeHash(a.Nil())

	pair := func(first sized.Bytes32, rest sized.Bytes32) sized.Bytes32 {
		return sized.Hash([]byte{0x02}, first[:], rest[:])
	}
	return pair(tagHash, pair(structHash, pair(innerHash, nilHash)))
}

// StandardPuzzleHash - puzzle hash of the wallet puzzle for a key
func (d *Driver) StandardPuzzleHash(pk sized.Bytes48) sized.Bytes32 {
	return d.StandardPuzzle(pk).TreeHash()
}

// StandardPuzzle - the wallet puzzle for a key
func (d *Driver) StandardPuzzle(pk sized.Bytes48) clvm.Program {
	a := clvm.NewAllocator()
	return clvm.NewProgram(a, a.List(a.NewString(standardTag), a.NewAtom(pk[:])))
}

// CreateStandardSpend - spend a wallet coin producing the conditions
func (d *Driver) CreateStandardSpend(c coin.Coin, pk sized.Bytes48, conditions []puzzle.Condition) (coin.CoinSpend, error) {
	p := d.StandardPuzzle(pk)
	if p.TreeHash() != c.PuzzleHash {
		return coin.CoinSpend{}, fault.ErrPuzzleHashMismatch
	}
	a := clvm.NewAllocator()
	solution := puzzle.ConditionsToProgram(a, conditions)
	return coin.CoinSpend{
		Coin:         c,
		PuzzleReveal: p.Serialise(),
		Solution:     clvm.SerializedProgram(a.Serialise(solution)),
	}, nil
}

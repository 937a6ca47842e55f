// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package structural

import (
	"bytes"

	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/coin"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/puzzle"
	"github.com/poolkeeper/plotnft/sized"
)

// Conditions - the conditions a spend produces
func (d *Driver) Conditions(spend coin.CoinSpend) ([]puzzle.Condition, error) {
	a := clvm.NewAllocator()
	p, err := a.Deserialise(spend.PuzzleReveal)
	if nil != err {
		return nil, fault.ErrInvalidPuzzle
	}
	s, err := a.Deserialise(spend.Solution)
	if nil != err {
		return nil, fault.ErrInvalidSolution
	}
	return d.run(a, p, s)
}

func (d *Driver) run(a *clvm.Allocator, p clvm.NodePtr, s clvm.NodePtr) ([]puzzle.Condition, error) {
	items, err := a.ListItems(p)
	if nil != err || 0 == len(items) {
		return nil, fault.ErrInvalidPuzzle
	}

	switch tagOf(a, p) {
	case launcherTag:
		args, err := a.ListItems(s)
		if nil != err || 3 != len(args) {
			return nil, fault.ErrInvalidSolution
		}
		ph, err := atom32(a, args[0])
		if nil != err {
			return nil, err
		}
		amount, err := a.AtomUint64(args[1])
		if nil != err {
			return nil, fault.ErrInvalidSolution
		}
		return []puzzle.Condition{puzzle.NewCreateCoin(ph, amount)}, nil

	case singletonTag:
		return d.runSingleton(a, items, s)

	case standardTag:
		if 2 != len(items) {
			return nil, fault.ErrInvalidPuzzle
		}
		pk, err := atom48(a, items[1])
		if nil != err {
			return nil, fault.ErrInvalidPuzzle
		}
		conditions, err := puzzle.ConditionsFromProgram(a, s)
		if nil != err {
			return nil, err
		}
		message := a.TreeHash(s)
		return append(conditions, puzzle.NewAggSigMe(pk, message[:])), nil

	default:
		return nil, fault.ErrInvalidPuzzle
	}
}

func (d *Driver) runSingleton(a *clvm.Allocator, items []clvm.NodePtr, s clvm.NodePtr) ([]puzzle.Condition, error) {
	if 3 != len(items) {
		return nil, fault.ErrInvalidPuzzle
	}
	modHash, rest, ok := a.Pair(items[1])
	if !ok {
		return nil, fault.ErrInvalidPuzzle
	}
	launcher, launcherPH, ok := a.Pair(rest)
	if !ok {
		return nil, fault.ErrInvalidPuzzle
	}
	mh, _ := a.Atom(modHash)
	lph, _ := a.Atom(launcherPH)
	if !bytes.Equal(mh, d.singletonModHash[:]) || !bytes.Equal(lph, d.launcherPuzzleHash[:]) {
		return nil, fault.ErrInvalidPuzzle
	}
	launcherID, err := atom32(a, launcher)
	if nil != err {
		return nil, fault.ErrInvalidPuzzle
	}

	args, err := a.ListItems(s)
	if nil != err || 3 != len(args) {
		return nil, fault.ErrInvalidSolution
	}
	innerConditions, err := d.runInner(a, items[2], args[2])
	if nil != err {
		return nil, err
	}

	// the single odd output is re-wrapped as the next singleton
	odd := 0
	conditions := make([]puzzle.Condition, 0, len(innerConditions))
	for _, c := range innerConditions {
		if puzzle.CreateCoin == c.Opcode {
			ph, amount, err := c.CreatedCoin()
			if nil != err {
				return nil, err
			}
			if 1 == amount%2 {
				odd += 1
				c = puzzle.NewCreateCoin(d.fullPuzzleHash(launcherID, ph), amount)
			}
		}
		conditions = append(conditions, c)
	}
	if odd > 1 {
		return nil, fault.ErrInvalidSolution
	}
	return conditions, nil
}

func (d *Driver) runInner(a *clvm.Allocator, inner clvm.NodePtr, s clvm.NodePtr) ([]puzzle.Condition, error) {
	tag := tagOf(a, inner)
	if memberTag != tag && waitingRoomTag != tag {
		return nil, fault.ErrInvalidPuzzle
	}
	items, err := a.ListItems(inner)
	if nil != err || 6 != len(items) {
		return nil, fault.ErrInvalidPuzzle
	}
	owner, err := atom48(a, items[3])
	if nil != err {
		return nil, fault.ErrInvalidPuzzle
	}

	args, err := a.ListItems(s)
	if nil != err || 3 != len(args) {
		return nil, fault.ErrInvalidSolution
	}
	spendType, err := a.AtomUint64(args[0])
	if nil != err {
		return nil, fault.ErrInvalidSolution
	}

	switch spendType {
	case spendAbsorb:
		return []puzzle.Condition{puzzle.NewCreateCoin(a.TreeHash(inner), coin.SingletonAmount)}, nil

	case spendTravel:
		destination, err := atom32(a, args[2])
		if nil != err {
			return nil, err
		}
		message := a.TreeHash(s)
		conditions := []puzzle.Condition{
			puzzle.NewCreateCoin(destination, coin.SingletonAmount),
			puzzle.NewAggSigMe(owner, message[:]),
		}
		if memberTag == tag {
			escaping, _ := a.Atom(items[5])
			if !bytes.Equal(escaping, destination[:]) {
				return nil, fault.ErrInvalidSolution
			}
			return conditions, nil
		}
		lockHeight, err := a.AtomUint64(items[5])
		if nil != err {
			return nil, fault.ErrInvalidPuzzle
		}
		return append(conditions, puzzle.NewAssertHeightRelative(uint32(lockHeight))), nil

	default:
		return nil, fault.ErrInvalidSolution
	}
}

// Additions - coins created by a spend
func (d *Driver) Additions(spend coin.CoinSpend) ([]coin.Coin, error) {
	conditions, err := d.Conditions(spend)
	if nil != err {
		return nil, err
	}
	parent := spend.Coin.Name()
	additions := make([]coin.Coin, 0, len(conditions))
	for _, c := range conditions {
		if puzzle.CreateCoin != c.Opcode {
			continue
		}
		ph, amount, err := c.CreatedCoin()
		if nil != err {
			return nil, err
		}
		additions = append(additions, coin.Coin{ParentCoinInfo: parent, PuzzleHash: ph, Amount: amount})
	}
	return additions, nil
}

// RequiredSignatures - every AGG_SIG condition of a spend
//
// AGG_SIG_ME messages are extended with the coin id and the network's
// additional data
func (d *Driver) RequiredSignatures(spend coin.CoinSpend, additionalData sized.Bytes32) ([]puzzle.SignatureTarget, error) {
	conditions, err := d.Conditions(spend)
	if nil != err {
		return nil, err
	}
	id := spend.Coin.Name()
	targets := make([]puzzle.SignatureTarget, 0, 2)
	for _, c := range conditions {
		if puzzle.AggSigMe != c.Opcode && puzzle.AggSigUnsafe != c.Opcode {
			continue
		}
		if 2 != len(c.Args) {
			return nil, fault.ErrInvalidSolution
		}
		pk, err := sized.Bytes48FromBytes(c.Args[0])
		if nil != err {
			return nil, fault.ErrInvalidSolution
		}
		message := append([]byte{}, c.Args[1]...)
		if puzzle.AggSigMe == c.Opcode {
			message = append(message, id[:]...)
			message = append(message, additionalData[:]...)
		}
		targets = append(targets, puzzle.SignatureTarget{PublicKey: pk, Message: message})
	}
	return targets, nil
}

func atom32(a *clvm.Allocator, n clvm.NodePtr) (sized.Bytes32, error) {
	b, ok := a.Atom(n)
	if !ok {
		return sized.Bytes32{}, fault.ErrInvalidSolution
	}
	v, err := sized.Bytes32FromBytes(b)
	if nil != err {
		return sized.Bytes32{}, fault.ErrInvalidSolution
	}
	return v, nil
}

func atom48(a *clvm.Allocator, n clvm.NodePtr) (sized.Bytes48, error) {
	b, ok := a.Atom(n)
	if !ok {
		return sized.Bytes48{}, fault.ErrInvalidSolution
	}
	v, err := sized.Bytes48FromBytes(b)
	if nil != err {
		return sized.Bytes48{}, fault.ErrInvalidSolution
	}
	return v, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package puzzle

import (
	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// Opcode - condition numbers as used on chain
type Opcode uint8

// the conditions this wallet produces or inspects
const (
	AggSigUnsafe         Opcode = 49
	AggSigMe             Opcode = 50
	CreateCoin           Opcode = 51
	ReserveFee           Opcode = 52
	AssertHeightRelative Opcode = 82
)

// Condition - an opcode and its atom arguments
type Condition struct {
	Opcode Opcode
	Args   [][]byte
}

// NewCreateCoin - output a coin
func NewCreateCoin(puzzleHash sized.Bytes32, amount uint64) Condition {
	return Condition{Opcode: CreateCoin, Args: [][]byte{puzzleHash[:], clvm.Uint64Bytes(amount)}}
}

// NewAggSigMe - require a signature bound to the spent coin
func NewAggSigMe(pk sized.Bytes48, message []byte) Condition {
	return Condition{Opcode: AggSigMe, Args: [][]byte{pk[:], message}}
}

// NewReserveFee - require the bundle leaves at least this fee
func NewReserveFee(fee uint64) Condition {
	return Condition{Opcode: ReserveFee, Args: [][]byte{clvm.Uint64Bytes(fee)}}
}

// NewAssertHeightRelative - spend only after the coin is this many blocks old
func NewAssertHeightRelative(height uint32) Condition {
	return Condition{Opcode: AssertHeightRelative, Args: [][]byte{clvm.Uint64Bytes(uint64(height))}}
}

// CreatedCoin - puzzle hash and amount of a CREATE_COIN
func (c Condition) CreatedCoin() (sized.Bytes32, uint64, error) {
	if CreateCoin != c.Opcode || len(c.Args) < 2 {
		return sized.Bytes32{}, 0, fault.ErrInvalidSolution
	}
	ph, err := sized.Bytes32FromBytes(c.Args[0])
	if nil != err {
		return sized.Bytes32{}, 0, fault.ErrInvalidSolution
	}
	amount, err := clvm.BytesUint64(c.Args[1])
	if nil != err {
		return sized.Bytes32{}, 0, fault.ErrInvalidSolution
	}
	return ph, amount, nil
}

// Uint64Arg - decode an integer argument
func (c Condition) Uint64Arg(i int) (uint64, error) {
	if i >= len(c.Args) {
		return 0, fault.ErrInvalidSolution
	}
	return clvm.BytesUint64(c.Args[i])
}

// ToProgram - encode as (opcode arg…)
func (c Condition) ToProgram(a *clvm.Allocator) clvm.NodePtr {
	items := make([]clvm.NodePtr, 0, 1+len(c.Args))
	items = append(items, a.NewAtom([]byte{byte(c.Opcode)}))
	for _, arg := range c.Args {
		items = append(items, a.NewAtom(arg))
	}
	return a.List(items...)
}

// ConditionsToProgram - encode a list of conditions
func ConditionsToProgram(a *clvm.Allocator, conditions []Condition) clvm.NodePtr {
	items := make([]clvm.NodePtr, len(conditions))
	for i, c := range conditions {
		items[i] = c.ToProgram(a)
	}
	return a.List(items...)
}

// ConditionsFromProgram - decode a list of conditions
func ConditionsFromProgram(a *clvm.Allocator, n clvm.NodePtr) ([]Condition, error) {
	items, err := a.ListItems(n)
	if nil != err {
		return nil, fault.ErrInvalidSolution
	}
	conditions := make([]Condition, 0, len(items))
	for _, item := range items {
		parts, err := a.ListItems(item)
		if nil != err || 0 == len(parts) {
			return nil, fault.ErrInvalidSolution
		}
		op, ok := a.Atom(parts[0])
		if !ok || 1 != len(op) {
			return nil, fault.ErrInvalidSolution
		}
		c := Condition{Opcode: Opcode(op[0])}
		for _, p := range parts[1:] {
			arg, ok := a.Atom(p)
			if !ok {
				return nil, fault.ErrInvalidSolution
			}
			c.Args = append(c.Args, arg)
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

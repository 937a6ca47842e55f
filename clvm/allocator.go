// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"github.com/poolkeeper/plotnft/fault"
)

// NodePtr - index of a node inside its allocator
type NodePtr int32

type node struct {
	pair  bool
	atom  []byte
	first NodePtr
	rest  NodePtr
}

// Allocator - arena holding atoms and pairs
//
// nodes are never freed individually, the whole arena is discarded
// once the program is no longer needed
type Allocator struct {
	nodes []node
}

// fixed nodes present in every allocator
const (
	nilNode NodePtr = 0
	oneNode NodePtr = 1
)

// NewAllocator - create an empty arena
func NewAllocator() *Allocator {
	a := &Allocator{
		nodes: make([]node, 0, 64),
	}
	a.nodes = append(a.nodes, node{atom: []byte{}})
	a.nodes = append(a.nodes, node{atom: []byte{0x01}})
	return a
}

// Nil - the empty atom, also the list terminator
func (a *Allocator) Nil() NodePtr { return nilNode }

// One - the atom 0x01
func (a *Allocator) One() NodePtr { return oneNode }

// NewAtom - add an atom, the bytes are copied
func (a *Allocator) NewAtom(b []byte) NodePtr {
	if 0 == len(b) {
		return nilNode
	}
	atom := make([]byte, len(b))
	copy(atom, b)
	a.nodes = append(a.nodes, node{atom: atom})
	return NodePtr(len(a.nodes) - 1)
}

// NewString - add an atom containing the string bytes
func (a *Allocator) NewString(s string) NodePtr {
	return a.NewAtom([]byte(s))
}

// NewUint64 - add an atom holding the integer encoding of v
func (a *Allocator) NewUint64(v uint64) NodePtr {
	return a.NewAtom(Uint64Bytes(v))
}

// NewPair - add a cons cell
func (a *Allocator) NewPair(first NodePtr, rest NodePtr) NodePtr {
	a.nodes = append(a.nodes, node{pair: true, first: first, rest: rest})
	return NodePtr(len(a.nodes) - 1)
}

// List - build a proper list from the items
func (a *Allocator) List(items ...NodePtr) NodePtr {
	l := nilNode
	for i := len(items) - 1; i >= 0; i -= 1 {
		l = a.NewPair(items[i], l)
	}
	return l
}

// IsPair - true for a cons cell
func (a *Allocator) IsPair(n NodePtr) bool {
	return a.nodes[n].pair
}

// IsNil - true for the empty atom
func (a *Allocator) IsNil(n NodePtr) bool {
	x := a.nodes[n]
	return !x.pair && 0 == len(x.atom)
}

// Atom - bytes of an atom, second value false for a pair
//
// the returned slice must not be modified
func (a *Allocator) Atom(n NodePtr) ([]byte, bool) {
	x := a.nodes[n]
	if x.pair {
		return nil, false
	}
	return x.atom, true
}

// Pair - both halves of a cons cell, third value false for an atom
func (a *Allocator) Pair(n NodePtr) (NodePtr, NodePtr, bool) {
	x := a.nodes[n]
	if !x.pair {
		return nilNode, nilNode, false
	}
	return x.first, x.rest, true
}

// First - head of a pair
func (a *Allocator) First(n NodePtr) (NodePtr, error) {
	f, _, ok := a.Pair(n)
	if !ok {
		return nilNode, fault.ErrInvalidProgram
	}
	return f, nil
}

// Rest - tail of a pair
func (a *Allocator) Rest(n NodePtr) (NodePtr, error) {
	_, r, ok := a.Pair(n)
	if !ok {
		return nilNode, fault.ErrInvalidProgram
	}
	return r, nil
}

// ListItems - elements of a proper (nil terminated) list
func (a *Allocator) ListItems(n NodePtr) ([]NodePtr, error) {
	items := make([]NodePtr, 0, 8)
	for {
		x := a.nodes[n]
		if !x.pair {
			if 0 != len(x.atom) {
				return nil, fault.ErrInvalidProgram
			}
			return items, nil
		}
		items = append(items, x.first)
		n = x.rest
	}
}

// AtomUint64 - decode an atom as an unsigned integer
func (a *Allocator) AtomUint64(n NodePtr) (uint64, error) {
	b, ok := a.Atom(n)
	if !ok {
		return 0, fault.ErrInvalidProgram
	}
	return BytesUint64(b)
}

// Len - number of nodes in the arena
func (a *Allocator) Len() int {
	return len(a.nodes)
}

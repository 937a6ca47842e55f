// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"bytes"

	"github.com/poolkeeper/plotnft/sized"
)

// domain separation prefixes for the tree hash
var (
	atomPrefix = []byte{0x01}
	pairPrefix = []byte{0x02}
)

// hashing operations
const (
	opVisit = iota
	opCombine
)

type hashOp struct {
	op int
	n  NodePtr
}

// TreeHash - sha256 tree hash of a node
//
//   atom: sha256(0x01 || atom)
//   pair: sha256(0x02 || hash(first) || hash(rest))
func (a *Allocator) TreeHash(n NodePtr) sized.Bytes32 {
	ops := []hashOp{{op: opVisit, n: n}}
	hashes := make([]sized.Bytes32, 0, 16)

	for len(ops) > 0 {
		top := len(ops) - 1
		op := ops[top]
		ops = ops[:top]

		if opCombine == op.op {
			l := len(hashes)
			h := sized.Hash(pairPrefix, hashes[l-2][:], hashes[l-1][:])
			hashes = append(hashes[:l-2], h)
			continue
		}

		x := a.nodes[op.n]
		if x.pair {
			ops = append(ops,
				hashOp{op: opCombine},
				hashOp{op: opVisit, n: x.rest},
				hashOp{op: opVisit, n: x.first},
			)
			continue
		}
		hashes = append(hashes, sized.Hash(atomPrefix, x.atom))
	}
	return hashes[0]
}

// AtomHash - tree hash of a single atom
func AtomHash(atom []byte) sized.Bytes32 {
	return sized.Hash(atomPrefix, atom)
}

type nodePair struct {
	x NodePtr
	y NodePtr
}

// Equal - structural equality of two nodes, possibly in different arenas
func Equal(a *Allocator, x NodePtr, b *Allocator, y NodePtr) bool {
	stack := []nodePair{{x: x, y: y}}
	for len(stack) > 0 {
		top := len(stack) - 1
		p := stack[top]
		stack = stack[:top]

		nx := a.nodes[p.x]
		ny := b.nodes[p.y]
		if nx.pair != ny.pair {
			return false
		}
		if nx.pair {
			stack = append(stack,
				nodePair{x: nx.rest, y: ny.rest},
				nodePair{x: nx.first, y: ny.first},
			)
			continue
		}
		if !bytes.Equal(nx.atom, ny.atom) {
			return false
		}
	}
	return true
}

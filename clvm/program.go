// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"bytes"

	"github.com/poolkeeper/plotnft/sized"
)

// Program - a tree rooted at a node of an arena
type Program struct {
	Arena *Allocator
	Node  NodePtr
}

// NewProgram - wrap a node
func NewProgram(a *Allocator, n NodePtr) Program {
	return Program{Arena: a, Node: n}
}

// TreeHash - hash of the whole tree
func (p Program) TreeHash() sized.Bytes32 {
	return p.Arena.TreeHash(p.Node)
}

// Serialise - the wire form of the tree
func (p Program) Serialise() SerializedProgram {
	return SerializedProgram(p.Arena.Serialise(p.Node))
}

// Equal - structural equality
func (p Program) Equal(q Program) bool {
	return Equal(p.Arena, p.Node, q.Arena, q.Node)
}

// SerializedProgram - wire form as carried by coin spends
type SerializedProgram []byte

// Program - parse into a fresh arena
func (s SerializedProgram) Program() (Program, error) {
	a := NewAllocator()
	n, err := a.Deserialise(s)
	if nil != err {
		return Program{}, err
	}
	return Program{Arena: a, Node: n}, nil
}

// TreeHash - hash of the parsed tree
func (s SerializedProgram) TreeHash() (sized.Bytes32, error) {
	p, err := s.Program()
	if nil != err {
		return sized.Bytes32{}, err
	}
	return p.TreeHash(), nil
}

// Equal - byte equality of the wire forms
func (s SerializedProgram) Equal(t SerializedProgram) bool {
	return bytes.Equal(s, t)
}

func (s SerializedProgram) String() string { return sized.Hex(s).String() }

// MarshalText - 0x prefixed hex
func (s SerializedProgram) MarshalText() ([]byte, error) {
	return sized.Hex(s).MarshalText()
}

// UnmarshalText - hex with or without 0x prefix
func (s *SerializedProgram) UnmarshalText(text []byte) error {
	var h sized.Hex
	if err := h.UnmarshalText(text); nil != err {
		return err
	}
	*s = SerializedProgram(h)
	return nil
}

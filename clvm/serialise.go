// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"bytes"

	"github.com/poolkeeper/plotnft/fault"
)

// serialisation markers
const (
	consBox  = 0xff
	nilByte  = 0x80
	maxSmall = 0x7f
)

// largest atom the size prefix can describe
const maxAtomLength = 0x400000000 - 1

// MaxNesting - most pairs left open at once while deserialising
const MaxNesting = 1 << 20

// Serialise - convert a tree to its wire form
//
// traversal uses an explicit stack so arbitrarily deep trees
// do not exhaust the goroutine stack
func (a *Allocator) Serialise(n NodePtr) []byte {
	buffer := bytes.Buffer{}
	stack := []NodePtr{n}

	for len(stack) > 0 {
		top := len(stack) - 1
		n := stack[top]
		stack = stack[:top]

		x := a.nodes[n]
		if x.pair {
			buffer.WriteByte(consBox)
			stack = append(stack, x.rest, x.first)
			continue
		}
		writeAtom(&buffer, x.atom)
	}
	return buffer.Bytes()
}

func writeAtom(buffer *bytes.Buffer, atom []byte) {
	size := len(atom)
	switch {
	case 0 == size:
		buffer.WriteByte(nilByte)
		return
	case 1 == size && atom[0] <= maxSmall:
		buffer.WriteByte(atom[0])
		return
	case size < 0x40:
		buffer.WriteByte(0x80 | byte(size))
	case size < 0x2000:
		buffer.WriteByte(0xc0 | byte(size>>8))
		buffer.WriteByte(byte(size))
	case size < 0x100000:
		buffer.WriteByte(0xe0 | byte(size>>16))
		buffer.WriteByte(byte(size >> 8))
		buffer.WriteByte(byte(size))
	case size < 0x8000000:
		buffer.WriteByte(0xf0 | byte(size>>24))
		buffer.WriteByte(byte(size >> 16))
		buffer.WriteByte(byte(size >> 8))
		buffer.WriteByte(byte(size))
	default:
		buffer.WriteByte(0xf8 | byte(uint64(size)>>32))
		buffer.WriteByte(byte(size >> 24))
		buffer.WriteByte(byte(size >> 16))
		buffer.WriteByte(byte(size >> 8))
		buffer.WriteByte(byte(size))
	}
	buffer.Write(atom)
}

// deserialiser operations
const (
	opParse = iota
	opCons
)

// Deserialise - parse a complete wire form into the arena
//
// trailing bytes after the tree are rejected
func (a *Allocator) Deserialise(b []byte) (NodePtr, error) {
	n, used, err := a.DeserialisePrefix(b)
	if nil != err {
		return nilNode, err
	}
	if used != len(b) {
		return nilNode, fault.ErrUnexpectedTrailingData
	}
	return n, nil
}

// DeserialisePrefix - parse one tree from the front of b
//
// returns the tree and the number of bytes consumed
func (a *Allocator) DeserialisePrefix(b []byte) (NodePtr, int, error) {
	ops := []int{opParse}
	values := make([]NodePtr, 0, 16)
	offset := 0
	open := 0

	for len(ops) > 0 {
		top := len(ops) - 1
		op := ops[top]
		ops = ops[:top]

		if opCons == op {
			l := len(values)
			rest := values[l-1]
			first := values[l-2]
			values = append(values[:l-2], a.NewPair(first, rest))
			open -= 1
			continue
		}

		if offset >= len(b) {
			return nilNode, 0, fault.ErrTruncatedData
		}
		c := b[offset]
		offset += 1

		switch {
		case consBox == c:
			open += 1
			if open > MaxNesting {
				return nilNode, 0, fault.ErrProgramTooDeep
			}
			ops = append(ops, opCons, opParse, opParse)
		case nilByte == c:
			values = append(values, nilNode)
		case c <= maxSmall:
			values = append(values, a.NewAtom([]byte{c}))
		default:
			size, prefix, err := decodeSize(b[offset-1:])
			if nil != err {
				return nilNode, 0, err
			}
			offset += prefix - 1
			if uint64(len(b)-offset) < size {
				return nilNode, 0, fault.ErrTruncatedData
			}
			end := offset + int(size)
			values = append(values, a.NewAtom(b[offset:end]))
			offset = end
		}
	}
	return values[0], offset, nil
}

// decode the size prefix at the start of b
//
// returns size and the number of prefix bytes
func decodeSize(b []byte) (uint64, int, error) {
	first := b[0]
	mask := byte(0x80)
	prefix := 0
	for 0 != first&mask {
		prefix += 1
		first &^= mask
		mask >>= 1
	}
	if prefix > 5 || 0 == prefix {
		return 0, 0, fault.ErrInvalidProgram
	}
	if len(b) < prefix {
		return 0, 0, fault.ErrTruncatedData
	}
	size := uint64(first)
	for i := 1; i < prefix; i += 1 {
		size = size<<8 | uint64(b[i])
	}
	if size > maxAtomLength {
		return 0, 0, fault.ErrInvalidProgram
	}
	return size, prefix, nil
}

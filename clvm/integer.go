// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package clvm

import (
	"github.com/poolkeeper/plotnft/fault"
)

// Uint64Bytes - minimal big endian two's complement encoding
//
// zero is the empty atom, a leading 0x00 is added when the top bit
// would otherwise make the value negative
func Uint64Bytes(v uint64) []byte {
	if 0 == v {
		return []byte{}
	}
	buffer := make([]byte, 9)
	i := 9
	for v > 0 {
		i -= 1
		buffer[i] = byte(v)
		v >>= 8
	}
	if buffer[i]&0x80 != 0 {
		i -= 1
		buffer[i] = 0
	}
	return buffer[i:]
}

// BytesUint64 - decode a non-negative integer atom
func BytesUint64(b []byte) (uint64, error) {
	if 0 == len(b) {
		return 0, nil
	}
	if b[0]&0x80 != 0 {
		return 0, fault.ErrInvalidProgram
	}
	// strip one sign byte
	if 0 == b[0] {
		b = b[1:]
	}
	if len(b) > 8 {
		return 0, fault.ErrInvalidProgram
	}
	v := uint64(0)
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

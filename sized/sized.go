// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sized

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/poolkeeper/plotnft/fault"
)

// byte lengths of the fixed size types
const (
	Bytes32Length = 32
	Bytes48Length = 48
	Bytes96Length = 96
)

// Bytes32 - hashes, coin ids, puzzle hashes
type Bytes32 [Bytes32Length]byte

// Bytes48 - compressed G1 public keys
type Bytes48 [Bytes48Length]byte

// Bytes96 - compressed G2 signatures
type Bytes96 [Bytes96Length]byte

// Hash - sha256 of the concatenation of all parts
func Hash(parts ...[]byte) Bytes32 {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var b Bytes32
	copy(b[:], h.Sum(nil))
	return b
}

// DecodeHex - hex string with an optional 0x prefix
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if nil != err {
		return nil, fault.ErrInvalidHexString
	}
	return b, nil
}

func encodeHex(b []byte) []byte {
	buffer := make([]byte, 2+hex.EncodedLen(len(b)))
	buffer[0] = '0'
	buffer[1] = 'x'
	hex.Encode(buffer[2:], b)
	return buffer
}

func decodeFixed(dst []byte, s []byte) error {
	b, err := DecodeHex(string(s))
	if nil != err {
		return err
	}
	if len(b) != len(dst) {
		return fault.ErrInvalidLength
	}
	copy(dst, b)
	return nil
}

// Bytes32FromBytes - convert and validate a byte slice
func Bytes32FromBytes(buffer []byte) (Bytes32, error) {
	var b Bytes32
	if Bytes32Length != len(buffer) {
		return b, fault.ErrInvalidLength
	}
	copy(b[:], buffer)
	return b, nil
}

// Bytes32FromHex - convert and validate a hex string
func Bytes32FromHex(s string) (Bytes32, error) {
	var b Bytes32
	err := decodeFixed(b[:], []byte(s))
	return b, err
}

// String - hex with 0x prefix for fmt (%s)
func (b Bytes32) String() string { return string(encodeHex(b[:])) }

// GoString - for fmt (%#v)
func (b Bytes32) GoString() string { return "<bytes32:" + hex.EncodeToString(b[:]) + ">" }

// IsZero - all bytes zero
func (b Bytes32) IsZero() bool { return b == Bytes32{} }

// MarshalText - convert to 0x prefixed hex text
func (b Bytes32) MarshalText() ([]byte, error) { return encodeHex(b[:]), nil }

// UnmarshalText - hex text with or without 0x prefix
func (b *Bytes32) UnmarshalText(s []byte) error { return decodeFixed(b[:], s) }

// Bytes48FromBytes - convert and validate a byte slice
func Bytes48FromBytes(buffer []byte) (Bytes48, error) {
	var b Bytes48
	if Bytes48Length != len(buffer) {
		return b, fault.ErrInvalidLength
	}
	copy(b[:], buffer)
	return b, nil
}

// Bytes48FromHex - convert and validate a hex string
func Bytes48FromHex(s string) (Bytes48, error) {
	var b Bytes48
	err := decodeFixed(b[:], []byte(s))
	return b, err
}

func (b Bytes48) String() string                { return string(encodeHex(b[:])) }
func (b Bytes48) GoString() string              { return "<bytes48:" + hex.EncodeToString(b[:]) + ">" }
func (b Bytes48) MarshalText() ([]byte, error)  { return encodeHex(b[:]), nil }
func (b *Bytes48) UnmarshalText(s []byte) error { return decodeFixed(b[:], s) }

// Bytes96FromBytes - convert and validate a byte slice
func Bytes96FromBytes(buffer []byte) (Bytes96, error) {
	var b Bytes96
	if Bytes96Length != len(buffer) {
		return b, fault.ErrInvalidLength
	}
	copy(b[:], buffer)
	return b, nil
}

func (b Bytes96) String() string                { return string(encodeHex(b[:])) }
func (b Bytes96) MarshalText() ([]byte, error)  { return encodeHex(b[:]), nil }
func (b *Bytes96) UnmarshalText(s []byte) error { return decodeFixed(b[:], s) }

// Hex - variable length bytes carried as 0x prefixed hex text
type Hex []byte

func (h Hex) String() string               { return string(encodeHex(h)) }
func (h Hex) MarshalText() ([]byte, error) { return encodeHex(h), nil }

// UnmarshalText - hex text with or without 0x prefix
func (h *Hex) UnmarshalText(s []byte) error {
	b, err := DecodeHex(string(s))
	if nil != err {
		return err
	}
	*h = b
	return nil
}

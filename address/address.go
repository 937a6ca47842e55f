// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// Encode - bech32m address of a puzzle hash
func Encode(prefix string, puzzleHash sized.Bytes32) (string, error) {
	data, err := bech32.ConvertBits(puzzleHash[:], 8, 5, true)
	if nil != err {
		return "", err
	}
	return bech32.EncodeM(prefix, data)
}

// Decode - puzzle hash and prefix of a bech32m address
func Decode(address string) (string, sized.Bytes32, error) {
	prefix, data, version, err := bech32.DecodeGeneric(address)
	if nil != err || bech32.VersionM != version {
		return "", sized.Bytes32{}, fault.ErrInvalidAddress
	}
	b, err := bech32.ConvertBits(data, 5, 8, false)
	if nil != err {
		return "", sized.Bytes32{}, fault.ErrInvalidAddress
	}
	puzzleHash, err := sized.Bytes32FromBytes(b)
	if nil != err {
		return "", sized.Bytes32{}, fault.ErrInvalidAddress
	}
	return prefix, puzzleHash, nil
}

// DecodeWithPrefix - as Decode but the prefix must match
func DecodeWithPrefix(address string, prefix string) (sized.Bytes32, error) {
	p, puzzleHash, err := Decode(address)
	if nil != err {
		return sized.Bytes32{}, err
	}
	if p != prefix {
		return sized.Bytes32{}, fault.ErrInvalidAddress
	}
	return puzzleHash, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coin

import (
	"encoding/binary"

	"github.com/poolkeeper/plotnft/clvm"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

const coinLength = 2*sized.Bytes32Length + 8

// Pack - fixed 72 byte form: parent, puzzle hash, big endian amount
func (c Coin) Pack() []byte {
	buffer := make([]byte, coinLength)
	copy(buffer, c.ParentCoinInfo[:])
	copy(buffer[32:], c.PuzzleHash[:])
	binary.BigEndian.PutUint64(buffer[64:], c.Amount)
	return buffer
}

// UnpackCoin - reverse of Pack, returns the bytes consumed
func UnpackCoin(buffer []byte) (Coin, int, error) {
	if len(buffer) < coinLength {
		return Coin{}, 0, fault.ErrTruncatedData
	}
	c := Coin{
		Amount: binary.BigEndian.Uint64(buffer[64:coinLength]),
	}
	copy(c.ParentCoinInfo[:], buffer[:32])
	copy(c.PuzzleHash[:], buffer[32:64])
	return c, coinLength, nil
}

// Pack - coin followed by the raw puzzle and solution programs
func (s CoinSpend) Pack() []byte {
	buffer := s.Coin.Pack()
	buffer = append(buffer, s.PuzzleReveal...)
	return append(buffer, s.Solution...)
}

// UnpackCoinSpend - reverse of Pack, returns the bytes consumed
func UnpackCoinSpend(buffer []byte) (CoinSpend, int, error) {
	c, n, err := UnpackCoin(buffer)
	if nil != err {
		return CoinSpend{}, 0, err
	}

	a := clvm.NewAllocator()
	_, puzzleLength, err := a.DeserialisePrefix(buffer[n:])
	if nil != err {
		return CoinSpend{}, 0, err
	}
	puzzle := clvm.SerializedProgram(append([]byte{}, buffer[n:n+puzzleLength]...))
	n += puzzleLength

	_, solutionLength, err := a.DeserialisePrefix(buffer[n:])
	if nil != err {
		return CoinSpend{}, 0, err
	}
	solution := clvm.SerializedProgram(append([]byte{}, buffer[n:n+solutionLength]...))
	n += solutionLength

	return CoinSpend{Coin: c, PuzzleReveal: puzzle, Solution: solution}, n, nil
}

// Pack - u32 spend count, the spends, then the signature
func (b SpendBundle) Pack() []byte {
	buffer := make([]byte, 4, 4+len(b.CoinSpends)*256+sized.Bytes96Length)
	binary.BigEndian.PutUint32(buffer, uint32(len(b.CoinSpends)))
	for _, s := range b.CoinSpends {
		buffer = append(buffer, s.Pack()...)
	}
	return append(buffer, b.AggregatedSignature[:]...)
}

// UnpackSpendBundle - reverse of Pack, the whole buffer must be used
func UnpackSpendBundle(buffer []byte) (SpendBundle, error) {
	if len(buffer) < 4 {
		return SpendBundle{}, fault.ErrTruncatedData
	}
	count := binary.BigEndian.Uint32(buffer)
	n := 4

	// every spend takes at least a coin and two single byte programs
	if uint64(count)*(coinLength+2) > uint64(len(buffer)) {
		return SpendBundle{}, fault.ErrInvalidCount
	}

	b := SpendBundle{
		CoinSpends: make([]CoinSpend, 0, count),
	}
	for i := uint32(0); i < count; i += 1 {
		s, used, err := UnpackCoinSpend(buffer[n:])
		if nil != err {
			return SpendBundle{}, err
		}
		b.CoinSpends = append(b.CoinSpends, s)
		n += used
	}

	if len(buffer)-n != sized.Bytes96Length {
		return SpendBundle{}, fault.ErrTruncatedData
	}
	copy(b.AggregatedSignature[:], buffer[n:])
	return b, nil
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// MembershipState - where the singleton's farming rewards go
type MembershipState uint8

// numeric values are fixed by the on-chain protocol
const (
	SelfPooling   MembershipState = 1
	LeavingPool   MembershipState = 2
	FarmingToPool MembershipState = 3
)

// protocol limits
const (
	ProtocolVersion       = 1
	MaxRelativeLockHeight = 1000
	MaxPoolURLLength      = 1024
)

func (m MembershipState) String() string {
	switch m {
	case SelfPooling:
		return "SELF_POOLING"
	case LeavingPool:
		return "LEAVING_POOL"
	case FarmingToPool:
		return "FARMING_TO_POOL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
	}
}

// Valid - one of the known states
func (m MembershipState) Valid() bool {
	return SelfPooling == m || LeavingPool == m || FarmingToPool == m
}

// MembershipStateFromString - reverse of String, also accepts the number
func MembershipStateFromString(s string) (MembershipState, error) {
	for _, m := range []MembershipState{SelfPooling, LeavingPool, FarmingToPool} {
		if s == m.String() || s == fmt.Sprintf("%d", uint8(m)) {
			return m, nil
		}
	}
	return 0, fault.ErrInvalidMembershipState
}

// CanTransition - the travel state machine
//
// a farming singleton must pass through LEAVING_POOL before it can
// change target
func CanTransition(from MembershipState, to MembershipState) bool {
	switch from {
	case SelfPooling:
		return FarmingToPool == to
	case FarmingToPool:
		return LeavingPool == to
	case LeavingPool:
		return SelfPooling == to || FarmingToPool == to
	default:
		return false
	}
}

// State - the pool membership record embedded in singleton spends
//
// an empty PoolURL encodes as an absent optional
type State struct {
	Version            uint8           `json:"version"`
	State              MembershipState `json:"state"`
	TargetPuzzleHash   sized.Bytes32   `json:"target_puzzle_hash"`
	OwnerPubkey        sized.Bytes48   `json:"owner_pubkey"`
	PoolURL            string          `json:"pool_url,omitempty"`
	RelativeLockHeight uint32          `json:"relative_lock_height"`
}

// Validate - reject states the pool protocol would not accept
func (s State) Validate() error {
	if s.Version > ProtocolVersion || 0 == s.Version {
		return fault.ErrBadPoolStateVersion
	}
	switch s.State {
	case SelfPooling:
		if "" != s.PoolURL {
			return fault.ErrInvalidMembershipState
		}
	case FarmingToPool, LeavingPool:
		if "" == s.PoolURL {
			return fault.ErrRequiredPoolURL
		}
		if s.RelativeLockHeight > MaxRelativeLockHeight {
			return fault.ErrInvalidMembershipState
		}
	default:
		return fault.ErrInvalidMembershipState
	}
	if len(s.PoolURL) > MaxPoolURLLength {
		return fault.ErrPoolURLTooLong
	}
	return nil
}

// Pack - streamable form
//
//   u8 version | u8 state | bytes32 target | bytes48 owner |
//   optional string pool url | u32 relative lock height
func (s State) Pack() []byte {
	buffer := make([]byte, 0, 2+32+48+1+4+len(s.PoolURL)+4)
	buffer = append(buffer, s.Version, byte(s.State))
	buffer = append(buffer, s.TargetPuzzleHash[:]...)
	buffer = append(buffer, s.OwnerPubkey[:]...)
	if "" == s.PoolURL {
		buffer = append(buffer, 0x00)
	} else {
		buffer = append(buffer, 0x01)
		buffer = appendUint32(buffer, uint32(len(s.PoolURL)))
		buffer = append(buffer, s.PoolURL...)
	}
	return appendUint32(buffer, s.RelativeLockHeight)
}

// Unpack - parse the streamable form, the whole buffer must be used
func Unpack(buffer []byte) (State, error) {
	const fixed = 2 + sized.Bytes32Length + sized.Bytes48Length + 1

	var s State
	if len(buffer) < fixed+4 {
		return s, fault.ErrTruncatedData
	}
	s.Version = buffer[0]
	s.State = MembershipState(buffer[1])
	copy(s.TargetPuzzleHash[:], buffer[2:34])
	copy(s.OwnerPubkey[:], buffer[34:82])

	n := fixed
	switch buffer[82] {
	case 0x00:
	case 0x01:
		if len(buffer) < n+4 {
			return s, fault.ErrTruncatedData
		}
		length := binary.BigEndian.Uint32(buffer[n:])
		n += 4
		if uint64(len(buffer)-n) < uint64(length)+4 {
			return s, fault.ErrTruncatedData
		}
		s.PoolURL = string(buffer[n : n+int(length)])
		n += int(length)
	default:
		return s, fault.ErrCannotDecodeState
	}

	switch remaining := len(buffer) - n; {
	case remaining < 4:
		return s, fault.ErrTruncatedData
	case remaining > 4:
		return s, fault.ErrUnexpectedTrailingData
	}
	s.RelativeLockHeight = binary.BigEndian.Uint32(buffer[n:])
	return s, nil
}

func appendUint32(buffer []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buffer, b[:]...)
}

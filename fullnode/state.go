// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fullnode

import (
	"bytes"
	"math/big"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/sized"
)

// BlockchainState - summary of the node's view of the chain
type BlockchainState struct {
	Peak                        *BlockRecord `json:"peak"`
	GenesisChallengeInitialized bool         `json:"genesis_challenge_initialized"`
	Sync                        SyncState    `json:"sync"`
	Difficulty                  uint64       `json:"difficulty"`
	SubSlotIters                uint64       `json:"sub_slot_iters"`
	Space                       Space        `json:"space"`
	MempoolSize                 uint64       `json:"mempool_size"`
	MempoolCost                 uint64       `json:"mempool_cost"`
	BlockMaxCost                uint64       `json:"block_max_cost"`
	NodeID                      string       `json:"node_id"`
}

// PeakHeight - zero when the node has no peak yet
func (s *BlockchainState) PeakHeight() uint32 {
	if nil == s || nil == s.Peak {
		return 0
	}
	return s.Peak.Height
}

// BlockRecord - the fields of the peak block the wallet uses
type BlockRecord struct {
	HeaderHash sized.Bytes32 `json:"header_hash"`
	Height     uint32        `json:"height"`
	Weight     Space         `json:"weight"`
	Timestamp  *uint64       `json:"timestamp"`
}

// SyncState - node synchronisation progress
type SyncState struct {
	SyncMode           bool   `json:"sync_mode"`
	Synced             bool   `json:"synced"`
	SyncTipHeight      uint32 `json:"sync_tip_height"`
	SyncProgressHeight uint32 `json:"sync_progress_height"`
}

// Space - 128 bit values sent as a JSON number or a decimal string
type Space struct {
	big.Int
}

// MarshalJSON - as a bare number
func (s Space) MarshalJSON() ([]byte, error) {
	return []byte(s.Int.String()), nil
}

// UnmarshalJSON - number or decimal string
func (s *Space) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if 0 == len(b) || "null" == string(b) {
		s.Int.SetInt64(0)
		return nil
	}
	if _, ok := s.Int.SetString(string(b), 10); !ok {
		return fault.ErrInvalidCount
	}
	return nil
}

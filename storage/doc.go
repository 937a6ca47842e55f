// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the wallet's on-disk data store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++           = concatenation of byte data
// 3. height       = big endian uint32 (4 bytes)
// 4. name         = 32 byte sha256 id of a bundle or coin
// 5. launcher id  = 32 byte coin id of the singleton launcher
//
// Transactions:
//
//   T ++ name                  - generated transaction records
//                                data: JSON transaction record
//
// Plot NFTs:
//
//   P ++ launcher id           - last resolved plot nft
//                                data: JSON plot nft
//
//   H ++ launcher id ++ height - pool state history, one per state change
//                                data: streamable pool state
//
// Wallet coins:
//
//   C ++ name                  - unspent standard coins of the wallet
//                                data: JSON coin record
//
// Testing:
//   Z ++ key                   - testing data
package storage

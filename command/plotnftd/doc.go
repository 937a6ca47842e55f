// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Plot NFT watcher daemon
//
// This program follows the pool membership of the configured
// launcher ids, records every state it sees in a local database and
// keeps the wallet's coin set in sync with the full node.  Editing
// the launchers list in the configuration file takes effect without
// a restart.
//
// A minimal configuration:
//
//   local M = {}
//   M.data_directory = "."
//   M.network = "testnet11"
//   M.launchers = {
//       "0x…",
//   }
//   M.node = {
//       url = "https://localhost:8555",
//       certificate = "private_full_node.crt",
//       key = "private_full_node.key",
//   }
//   return M
package main

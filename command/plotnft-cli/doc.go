// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Command line wallet for plot nfts
//
// The configuration for each network lives in
// $XDG_CONFIG_HOME/plotnft-cli/NETWORK-plotnft-cli.json and holds the
// full node connection and the master seed sealed under the wallet
// password.
package main

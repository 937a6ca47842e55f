// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains resolved plot nfts in memory
//
//  ***** Data Structure *****
//
//  Resolver                  Key                     Value                       ExpiresAfter
//  |___ items                launcher id (hex)       pool.PlotNft                configured (default 5m)
//
//  ***** Purpose *****
//
//  a lineage walk costs two node queries per historical spend, a
//  cached resolution is reused while the singleton it found is still
//  unspent, which costs a single query
//
//  a new spend of the singleton makes the entry stale: it is dropped
//  on the next lookup or by an explicit Invalidate after a travel
package cache

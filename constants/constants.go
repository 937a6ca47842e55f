// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// interval between confirmation checks after a successful push
const (
	ConfirmationInterval = 10 * time.Second
)

// upper bound on confirmation checks, about one hour at the default interval
const (
	ConfirmationAttempts = 360
)

// number of singleton owner indices tried when matching a public key
const (
	OwnerKeySearchBound = 500
)

// wallet scanning: keys per page and pages tried when scrounging
const (
	WalletKeysPerPage = 50
	ScroungePages     = 15
)

// how long a resolved plot nft may be served from the cache
const (
	PlotNftCacheExpiry = 5 * time.Minute
)

// the daemon's refresh cycle for watched launchers
const (
	RefreshInterval = 1 * time.Minute
)

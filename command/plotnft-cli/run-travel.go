// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/pool"
)

func runJoin(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	launcherID, err := checkLauncher(c.String("launcher"))
	if nil != err {
		return err
	}

	url := strings.TrimSpace(c.String("pool-url"))
	if "" == url {
		return fault.ErrRequiredPoolURL
	}
	if len(url) > pool.MaxPoolURLLength {
		return fault.ErrPoolURLTooLong
	}

	target, err := checkPuzzleHash(m, c.String("target"))
	if nil != err {
		return err
	}

	lockHeight := c.Uint("lock-height")
	if lockHeight > pool.MaxRelativeLockHeight {
		return fmt.Errorf("lock height: %d exceeds: %d", lockHeight, pool.MaxRelativeLockHeight)
	}

	fee, err := checkFee(c, m)
	if nil != err {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}
	if fee > 0 {
		if err := w.Sync(ctx); nil != err {
			return err
		}
	}

	if m.verbose {
		fmt.Fprintf(m.e, "launcher: %s\n", launcherID)
		fmt.Fprintf(m.e, "pool: %s\n", url)
		fmt.Fprintf(m.e, "target: %s\n", target)
		fmt.Fprintf(m.e, "fee: %d\n", fee)
	}

	outcome, err := w.JoinPool(ctx, launcherID, url, target, uint32(lockHeight), fee)
	if nil != err {
		return err
	}
	return printJson(m.w, outcome)
}

func runLeave(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	launcherID, err := checkLauncher(c.String("launcher"))
	if nil != err {
		return err
	}

	fee, err := checkFee(c, m)
	if nil != err {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}
	if fee > 0 {
		if err := w.Sync(ctx); nil != err {
			return err
		}
	}

	outcome, err := w.SelfPool(ctx, launcherID, fee)
	if nil != err {
		return err
	}
	if pool.LeavingPool == outcome.State.State {
		fmt.Fprintf(m.e, "leaving pool, run leave again after %d blocks\n", outcome.State.RelativeLockHeight)
	}
	return printJson(m.w, outcome)
}

// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/pool"
)

type plotNftSummary struct {
	LauncherID string     `json:"launcher_id"`
	State      string     `json:"state"`
	PoolURL    string     `json:"pool_url,omitempty"`
	Height     uint32     `json:"height"`
	PoolState  pool.State `json:"pool_state"`
}

func summarise(nft *pool.PlotNft) plotNftSummary {
	return plotNftSummary{
		LauncherID: nft.LauncherID.String(),
		State:      nft.PoolState.State.String(),
		PoolURL:    nft.PoolState.PoolURL,
		Height:     nft.SingletonCoin.ConfirmedBlockIndex,
		PoolState:  nft.PoolState,
	}
}

func runShow(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ctx, cancel := signalContext()
	defer cancel()

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}

	if "" != c.String("launcher") {
		launcherID, err := checkLauncher(c.String("launcher"))
		if nil != err {
			return err
		}
		nft, err := w.ResolvePlotNft(ctx, launcherID)
		if nil != err {
			return err
		}
		return printJson(m.w, nft)
	}

	found, err := w.ScroungeByKey(ctx)
	if nil != err {
		return err
	}
	summaries := make([]plotNftSummary, 0, len(found))
	for i := range found {
		summaries = append(summaries, summarise(&found[i]))
	}
	return printJson(m.w, summaries)
}

func runScrounge(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ctx, cancel := signalContext()
	defer cancel()

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}

	found, err := w.ScroungeByKey(ctx)
	if nil != err {
		return err
	}
	launchers := make([]string, 0, len(found))
	for _, nft := range found {
		launchers = append(launchers, nft.LauncherID.String())
	}
	return printJson(m.w, launchers)
}

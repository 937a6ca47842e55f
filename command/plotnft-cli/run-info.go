// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/address"
	"github.com/poolkeeper/plotnft/sized"
)

func runOwnerKey(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	launcherID, err := checkLauncher(c.String("launcher"))
	if nil != err {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}

	nft, err := w.ResolvePlotNft(ctx, launcherID)
	if nil != err {
		return err
	}

	index, sk, err := w.Owners().FindOwnerKeyIndex(nft.PoolState.OwnerPubkey)
	if nil != err {
		return err
	}

	return printJson(m.w, struct {
		LauncherID sized.Bytes32 `json:"launcher_id"`
		Index      uint32        `json:"index"`
		PublicKey  sized.Bytes48 `json:"public_key"`
	}{
		LauncherID: launcherID,
		Index:      index,
		PublicKey:  sk.PublicKey(),
	})
}

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	ctx, cancel := signalContext()
	defer cancel()

	w, node, err := openWallet(c, m)
	if nil != err {
		return err
	}

	state, err := node.GetBlockchainState(ctx)
	if nil != err {
		return err
	}
	if err := w.Sync(ctx); nil != err {
		return err
	}

	return printJson(m.w, struct {
		Network string `json:"network"`
		Node    string `json:"node"`
		Peak    uint32 `json:"peak"`
		Synced  bool   `json:"synced"`
		Balance uint64 `json:"balance"`
		Coins   int    `json:"coins"`
	}{
		Network: m.parameters.Name,
		Node:    m.config.Node.URL,
		Peak:    state.PeakHeight(),
		Synced:  state.Sync.Synced,
		Balance: w.Balance(),
		Coins:   len(w.Coins()),
	})
}

func runAddress(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)
	prefix := m.parameters.AddressPrefix

	if s := c.String("decode"); "" != s {
		ph, err := address.DecodeWithPrefix(s, prefix)
		if nil != err {
			return err
		}
		fmt.Fprintf(m.w, "%s\n", ph)
		return nil
	}

	if s := c.String("puzzle-hash"); "" != s {
		ph, err := sized.Bytes32FromHex(s)
		if nil != err {
			return err
		}
		a, err := address.Encode(prefix, ph)
		if nil != err {
			return err
		}
		fmt.Fprintf(m.w, "%s\n", a)
		return nil
	}

	w, _, err := openWallet(c, m)
	if nil != err {
		return err
	}
	a, err := address.Encode(prefix, w.ChangePuzzleHash())
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", a)
	return nil
}

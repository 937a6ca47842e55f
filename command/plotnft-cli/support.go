// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/address"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
	"github.com/poolkeeper/plotnft/puzzle/structural"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/wallet"
)

func checkFileExists(name string) (bool, error) {
	info, err := os.Stat(name)
	if nil != err {
		return false, err
	}
	return info.IsDir(), nil
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

// cancelled by SIGINT or SIGTERM
func signalContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-ch:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}

// connect to the node and unlock the wallet
func openWallet(c *cli.Context, m *metadata) (*wallet.Wallet, fullnode.Gateway, error) {
	node, err := fullnode.New(logger.New("fullnode"), m.config.Node)
	if nil != err {
		return nil, nil, err
	}

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptPassword()
		if nil != err {
			return nil, nil, err
		}
	}

	master, err := m.config.Master(password)
	if nil != err {
		return nil, nil, err
	}

	w, err := wallet.New(logger.New("wallet"), node, structural.New(), m.parameters, master)
	if nil != err {
		return nil, nil, err
	}
	w.SetLockHeightCheck(true)
	return w, node, nil
}

func checkLauncher(s string) (sized.Bytes32, error) {
	if "" == s {
		return sized.Bytes32{}, fault.ErrRequiredLauncherID
	}
	return sized.Bytes32FromHex(strings.TrimSpace(s))
}

// address with the network's prefix or a hex puzzle hash
func checkPuzzleHash(m *metadata, s string) (sized.Bytes32, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, m.parameters.AddressPrefix+"1") {
		return address.DecodeWithPrefix(s, m.parameters.AddressPrefix)
	}
	ph, err := sized.Bytes32FromHex(s)
	if nil != err {
		return sized.Bytes32{}, errors.Wrapf(fault.ErrInvalidAddress, "target: %q", s)
	}
	return ph, nil
}

// fee flag or the configured default
func checkFee(c *cli.Context, m *metadata) (uint64, error) {
	s := c.String("fee")
	if "" == s {
		return m.config.Fee, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

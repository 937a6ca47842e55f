// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/urfave/cli"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/command/plotnft-cli/configuration"
	"github.com/poolkeeper/plotnft/fault"
	"github.com/poolkeeper/plotnft/fullnode"
)

func runSetup(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	url := strings.TrimSpace(c.String("node"))
	if "" == url {
		return fault.ErrRequiredConnect
	}

	seed, err := checkSeed(c.String("seed"))
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "config: %s\n", m.file)
		fmt.Fprintf(m.e, "network: %s\n", m.parameters.Name)
		fmt.Fprintf(m.e, "node: %s\n", url)
	}

	// Create the folder hierarchy for configuration if not existing
	configDir := path.Dir(m.file)
	d, err := checkFileExists(configDir)
	if nil != err {
		if err := os.MkdirAll(configDir, 0o750); nil != err {
			return err
		}
	} else if !d {
		return fmt.Errorf("path: %q is not a directory", configDir)
	}

	config, err := configuration.New(m.parameters.Name)
	if nil != err {
		return err
	}
	config.Node = fullnode.Configuration{
		URL:             url,
		CertificateFile: c.String("certificate"),
		KeyFile:         c.String("key"),
		CAFile:          c.String("ca"),
		Timeout:         c.String("timeout"),
	}
	config.Fee = c.Uint64("fee")

	password := c.GlobalString("password")
	if "" == password {
		password, err = promptNewPassword()
		if nil != err {
			return err
		}
	}

	if err := config.SetSeed(seed, password); nil != err {
		return err
	}

	m.config = config
	m.save = true

	return printJson(m.w, struct {
		Network   string `json:"network"`
		PublicKey string `json:"public_key"`
	}{
		Network:   config.Network,
		PublicKey: config.Wallet.Fingerprint.String(),
	})
}

// hex seed or a new random one
func checkSeed(s string) ([]byte, error) {
	if "" == s {
		seed := make([]byte, bls.MinimumSeedLength)
		if _, err := rand.Read(seed); nil != err {
			return nil, err
		}
		return seed, nil
	}
	seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if nil != err {
		return nil, err
	}
	if len(seed) < bls.MinimumSeedLength {
		return nil, fault.ErrInvalidLength
	}
	return seed, nil
}

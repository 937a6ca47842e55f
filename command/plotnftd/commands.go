// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"

	"github.com/poolkeeper/plotnft/bls"
	"github.com/poolkeeper/plotnft/sized"
	"github.com/poolkeeper/plotnft/storage"
)

// setup command handler
//
// commands that run to create the seed file these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-seed", "seed":
		seedFilename := defaultSeedFile
		if len(arguments) > 0 && "" != arguments[0] {
			seedFilename = arguments[0]
		}
		if err := makeSeedFile(seedFilename); nil != err {
			fmt.Printf("generate seed: %q error: %s\n", seedFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated seed: %q\n", seedFilename)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg", "launchers", "l":
		return false // defer processing until configuration is read

	case "history", "h", "plotnft", "p", "transactions", "tx", "coins", "c":
		return false // defer processing until database is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [--define=KEY=VALUE...] [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (?)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-seed [FILE]            (seed)   - create a random wallet seed in: %q\n", "FILE")
		fmt.Printf("                                        default: %q\n", defaultSeedFile)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("  launchers                  (l)      - list the watched launcher ids\n")
		fmt.Printf("\n")

		fmt.Printf("  plotnft LAUNCHER           (p)      - last recorded state of a plot nft\n")
		fmt.Printf("  history LAUNCHER           (h)      - recorded pool states of a plot nft\n")
		fmt.Printf("  transactions               (tx)     - recorded travel and fee transactions\n")
		fmt.Printf("  coins                      (c)      - wallet coins from the last sync\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		printJson(options)

	case "launchers", "l":
		ids, err := options.launcherIDs()
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		for _, id := range ids {
			fmt.Printf("%s\n", id)
		}

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the wallet database is open so these commands can read it
func processDataCommand(log *logger.L, arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "plotnft", "p":
		launcherID := launcherArgument(arguments)
		nft, err := storage.GetPlotNft(launcherID)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJson(nft)

	case "history", "h":
		launcherID := launcherArgument(arguments)
		history, err := storage.History(launcherID)
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJson(history)

	case "transactions", "tx":
		transactions, err := storage.Transactions()
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJson(transactions)

	case "coins", "c":
		coins, err := storage.Coins()
		if nil != err {
			exitwithstatus.Message("error: %s", err)
		}
		printJson(coins)

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func launcherArgument(arguments []string) sized.Bytes32 {
	if len(arguments) < 1 {
		exitwithstatus.Message("missing launcher id argument")
	}
	launcherID, err := sized.Bytes32FromHex(strings.TrimSpace(arguments[0]))
	if nil != err {
		exitwithstatus.Message("error in launcher id: %s", err)
	}
	return launcherID
}

// write a new random seed, never replacing an existing file
func makeSeedFile(filename string) error {
	seed := make([]byte, bls.MinimumSeedLength)
	if _, err := rand.Read(seed); nil != err {
		return err
	}

	fd, err := os.OpenFile(filename, os.O_WRONLY|os.O_EXCL|os.O_CREATE, 0600)
	if nil != err {
		return err
	}
	_, err = fmt.Fprintf(fd, "%s\n", hex.EncodeToString(seed))
	if closeErr := fd.Close(); nil == err {
		err = closeErr
	}
	if nil != err {
		os.Remove(filename)
	}
	return err
}

// master key from a hex seed file
func readSeedFile(filename string) (*bls.SecretKey, error) {
	data, err := ioutil.ReadFile(filename)
	if nil != err {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if nil != err {
		return nil, errors.Wrapf(err, "seed file: %q", filename)
	}
	return bls.KeyGen(seed)
}

func printJson(item interface{}) {
	b, err := json.Marshal(item)
	if nil != err {
		exitwithstatus.Message("error: %s", err)
	}
	var out bytes.Buffer
	json.Indent(&out, b, "", "  ")
	out.WriteTo(os.Stdout)
	os.Stdout.WriteString("\n")
}
